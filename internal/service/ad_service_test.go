package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/testutil"
)

func TestAdService_Create(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)

	ad, err := env.ads.Create(agency.ID, &dto.CreateAdRequest{
		Title:       "Two-room flat near the river",
		Description: "Bright, 54 sqm",
		Price:       1450,
		Latitude:    f64(48.8566),
		Longitude:   f64(2.3522),
	})
	require.NoError(t, err)

	assert.Equal(t, model.AdStatusDraft, ad.Status)
	assert.False(t, ad.Boosted)
	assert.NotZero(t, ad.ID)

	stored, err := env.ads.Get(agency.ID, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "Two-room flat near the river", stored.Title)
}

func TestAdService_Create_AutoBoostFromPlan(t *testing.T) {
	env := setupServices(t)
	now := time.Now().UTC()

	agency := testutil.TestAgency(t, env.db)
	plan := testutil.TestPlan(t, env.db, testutil.WithAutoBoost())
	testutil.TestSubscription(t, env.db, agency.ID, plan.ID,
		testutil.ActiveSince(now.AddDate(0, 0, -1), model.PeriodMonthly))

	ad, err := env.ads.Create(agency.ID, &dto.CreateAdRequest{Title: "Loft", Price: 2000})
	require.NoError(t, err)
	assert.True(t, ad.Boosted)
}

func TestAdService_Create_IncompleteCoordinates(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)

	_, err := env.ads.Create(agency.ID, &dto.CreateAdRequest{
		Title:    "Missing longitude",
		Price:    900,
		Latitude: f64(48.85),
	})
	assert.ErrorIs(t, err, ErrIncompleteCoordinates)
}

func TestAdService_Create_CoordinatesOutOfRange(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)

	_, err := env.ads.Create(agency.ID, &dto.CreateAdRequest{
		Title:     "Broken geo",
		Price:     900,
		Latitude:  f64(95),
		Longitude: f64(2.35),
	})
	assert.ErrorIs(t, err, ErrCoordinatesOutOfRange)
}

func TestAdService_Update(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID)

	updated, err := env.ads.Update(agency.ID, ad.ID, &dto.UpdateAdRequest{
		Title: str("Renamed"),
		Price: f64(1600),
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 1600.0, updated.Price)
	assert.Equal(t, ad.Status, updated.Status) // status never moves through Update
}

func TestAdService_Update_NotOwner(t *testing.T) {
	env := setupServices(t)
	owner := testutil.TestAgency(t, env.db)
	other := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, owner.ID)

	_, err := env.ads.Update(other.ID, ad.ID, &dto.UpdateAdRequest{Title: str("Hijack")})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestAdService_Transition_DraftCannotPublishDirectly(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID) // draft

	_, err := env.ads.TransitionOwned(agency.ID, ad.ID, model.AdStatusPublished)
	require.Error(t, err)

	var itErr *model.InvalidTransitionError
	require.True(t, errors.As(err, &itErr))
	assert.Equal(t, model.AdStatusDraft, itErr.From)
	assert.Equal(t, model.AdStatusPublished, itErr.To)

	// No partial mutation.
	stored, err := env.ads.Get(agency.ID, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AdStatusDraft, stored.Status)
	assert.Nil(t, stored.StatusChangedAt)
}

func TestAdService_Transition_SubmitForReview(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID)

	updated, err := env.ads.TransitionOwned(agency.ID, ad.ID, model.AdStatusPendingReview)
	require.NoError(t, err)

	assert.Equal(t, model.AdStatusPendingReview, updated.Status)
	require.NotNil(t, updated.StatusChangedAt)
	assert.WithinDuration(t, time.Now().UTC(), *updated.StatusChangedAt, 5*time.Second)
}

func TestAdService_Transition_FullPublishCycle(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID)

	for _, to := range []model.AdStatus{
		model.AdStatusPendingReview,
		model.AdStatusPublished,
		model.AdStatusExpired,
		model.AdStatusDraft, // expired ads can restart the cycle
	} {
		updated, err := env.ads.Transition(ad.ID, to)
		require.NoError(t, err, "transition to %s", to)
		assert.Equal(t, to, updated.Status)
	}
}

func TestAdService_Transition_ArchivedIsTerminal(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID, testutil.WithStatus(model.AdStatusArchived))

	for _, to := range []model.AdStatus{
		model.AdStatusDraft,
		model.AdStatusPendingReview,
		model.AdStatusPublished,
	} {
		_, err := env.ads.Transition(ad.ID, to)
		var itErr *model.InvalidTransitionError
		assert.True(t, errors.As(err, &itErr), "archived -> %s must fail", to)
	}
}

func TestAdService_Transition_SelfTransitionRejected(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID, testutil.WithStatus(model.AdStatusPublished))

	_, err := env.ads.Transition(ad.ID, model.AdStatusPublished)
	var itErr *model.InvalidTransitionError
	assert.True(t, errors.As(err, &itErr))
}

func TestAdService_Transition_NotFound(t *testing.T) {
	env := setupServices(t)

	_, err := env.ads.Transition(99999, model.AdStatusPendingReview)
	assert.ErrorIs(t, err, ErrAdNotFound)
}

func TestAdService_SubmitForReview_AdLimit(t *testing.T) {
	env := setupServices(t)
	now := time.Now().UTC()

	agency := testutil.TestAgency(t, env.db)
	plan := testutil.TestPlan(t, env.db, func(p *model.Plan) { p.MaxActiveAds = 2 })
	testutil.TestSubscription(t, env.db, agency.ID, plan.ID,
		testutil.ActiveSince(now.AddDate(0, 0, -1), model.PeriodMonthly))

	testutil.TestAd(t, env.db, agency.ID, testutil.WithStatus(model.AdStatusPublished))
	testutil.TestAd(t, env.db, agency.ID, testutil.WithStatus(model.AdStatusPendingReview))

	draft := testutil.TestAd(t, env.db, agency.ID)
	_, err := env.ads.TransitionOwned(agency.ID, draft.ID, model.AdStatusPendingReview)
	assert.ErrorIs(t, err, ErrAdLimitReached)

	// Drafts and archived ads do not count against the limit.
	stored, err := env.ads.Get(agency.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AdStatusDraft, stored.Status)
}

func TestAdService_DeleteAndRestore(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID)

	require.NoError(t, env.ads.Delete(agency.ID, ad.ID))

	_, err := env.ads.Get(agency.ID, ad.ID)
	assert.ErrorIs(t, err, ErrAdNotFound)

	restored, err := env.ads.Restore(agency.ID, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, ad.ID, restored.ID)

	_, err = env.ads.Get(agency.ID, ad.ID)
	assert.NoError(t, err)
}

func TestAdService_Restore_NotOwner(t *testing.T) {
	env := setupServices(t)
	owner := testutil.TestAgency(t, env.db)
	other := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, owner.ID)

	require.NoError(t, env.ads.Delete(owner.ID, ad.ID))

	_, err := env.ads.Restore(other.ID, ad.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestAdService_List(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)
	other := testutil.TestAgency(t, env.db)

	for i := 0; i < 3; i++ {
		testutil.TestAd(t, env.db, agency.ID)
	}
	testutil.TestAd(t, env.db, agency.ID, testutil.WithStatus(model.AdStatusPublished))
	testutil.TestAd(t, env.db, other.ID)

	ads, total, err := env.ads.List(agency.ID, &dto.ListAdsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, ads, 4)

	published, total, err := env.ads.List(agency.ID, &dto.ListAdsRequest{Status: string(model.AdStatusPublished)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, published, 1)
	assert.Equal(t, model.AdStatusPublished, published[0].Status)
}

func TestAdService_List_Pagination(t *testing.T) {
	env := setupServices(t)
	agency := testutil.TestAgency(t, env.db)

	for i := 0; i < 5; i++ {
		testutil.TestAd(t, env.db, agency.ID)
	}

	page1, total, err := env.ads.List(agency.ID, &dto.ListAdsRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 2)

	page3, _, err := env.ads.List(agency.ID, &dto.ListAdsRequest{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}
