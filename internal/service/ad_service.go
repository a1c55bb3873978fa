package service

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/pkg/oss"
	"github.com/kvadrat/estate_go_server/internal/pkg/pubsub"
	"github.com/kvadrat/estate_go_server/internal/repository"
)

// Ads an agency may keep in review or published without a subscription plan.
const defaultMaxActiveAds = 5

// AdService is the only writer of an ad's status field. All status changes
// run through the transition table inside a row-locked transaction; lifecycle
// events fire only after the write commits.
type AdService struct {
	db        *gorm.DB
	adRepo    *repository.AdRepository
	boost     *BoostService
	ossClient *oss.Client
	events    *pubsub.Publisher
}

func NewAdService(db *gorm.DB, adRepo *repository.AdRepository, boost *BoostService, ossClient *oss.Client, events *pubsub.Publisher) *AdService {
	return &AdService{
		db:        db,
		adRepo:    adRepo,
		boost:     boost,
		ossClient: ossClient,
		events:    events,
	}
}

// Create stores a new ad in draft. Boost eligibility is evaluated against the
// owner's current subscription before the insert.
func (s *AdService) Create(agencyID int64, req *dto.CreateAdRequest) (*model.Ad, error) {
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	ad := &model.Ad{
		AgencyID:    agencyID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      model.AdStatusDraft,
	}

	if err := s.boost.Apply(ad, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.adRepo.Create(ad); err != nil {
		return nil, err
	}

	s.emit(pubsub.EventAdCreated, ad)
	return ad, nil
}

// Update mutates the descriptive fields of an owned ad; status is untouchable
// here. Boost is re-evaluated, which is a no-op under unchanged eligibility.
func (s *AdService) Update(agencyID, adID int64, req *dto.UpdateAdRequest) (*model.Ad, error) {
	ad, err := s.getOwned(agencyID, adID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		ad.Title = *req.Title
	}
	if req.Description != nil {
		ad.Description = *req.Description
	}
	if req.Price != nil {
		ad.Price = *req.Price
	}
	if req.Latitude != nil {
		ad.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		ad.Longitude = req.Longitude
	}

	if err := validateCoordinates(ad.Latitude, ad.Longitude); err != nil {
		return nil, err
	}

	if err := s.boost.Apply(ad, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.adRepo.Update(ad); err != nil {
		return nil, err
	}

	s.emit(pubsub.EventAdUpdated, ad)
	return ad, nil
}

// Transition applies a guarded status change. The read-validate-write cycle
// holds a row lock so concurrent requests cannot both succeed from the same
// stale status. An illegal change propagates as *model.InvalidTransitionError
// with no partial mutation.
func (s *AdService) Transition(adID int64, to model.AdStatus) (*model.Ad, error) {
	var updated *model.Ad

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewAdRepository(tx)

		ad, err := repo.GetByIDForUpdate(adID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdNotFound
			}
			return err
		}

		if err := model.ValidateAdTransition(ad.Status, to); err != nil {
			return err
		}

		now := time.Now().UTC()
		ad.Status = to
		ad.StatusChangedAt = &now

		if err := repo.Update(ad); err != nil {
			return err
		}

		updated = ad
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(pubsub.EventAdStatusChanged, updated)
	return updated, nil
}

// TransitionOwned is the owner-facing transition entry point. Submitting for
// review additionally enforces the plan's active ad limit.
func (s *AdService) TransitionOwned(agencyID, adID int64, to model.AdStatus) (*model.Ad, error) {
	ad, err := s.getOwned(agencyID, adID)
	if err != nil {
		return nil, err
	}

	if ad.Status == model.AdStatusDraft && to == model.AdStatusPendingReview {
		if err := s.checkAdLimit(agencyID); err != nil {
			return nil, err
		}
	}

	return s.Transition(adID, to)
}

func (s *AdService) checkAdLimit(agencyID int64) error {
	limit := defaultMaxActiveAds
	plan, err := s.boost.CurrentPlan(agencyID, time.Now().UTC())
	if err != nil {
		return err
	}
	if plan != nil && plan.MaxActiveAds > 0 {
		limit = plan.MaxActiveAds
	}

	count, err := s.adRepo.CountActiveByAgency(agencyID)
	if err != nil {
		return err
	}
	if count >= int64(limit) {
		return ErrAdLimitReached
	}
	return nil
}

// Delete soft-deletes an owned ad; the row stays recoverable.
func (s *AdService) Delete(agencyID, adID int64) error {
	ad, err := s.getOwned(agencyID, adID)
	if err != nil {
		return err
	}

	if err := s.adRepo.SoftDelete(ad.ID); err != nil {
		return err
	}

	s.emit(pubsub.EventAdDeleted, ad)
	return nil
}

// Restore brings back a soft-deleted owned ad.
func (s *AdService) Restore(agencyID, adID int64) (*model.Ad, error) {
	ad, err := s.adRepo.GetDeletedByID(adID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	if ad.AgencyID != agencyID {
		return nil, ErrNotOwner
	}

	if err := s.adRepo.Restore(adID); err != nil {
		return nil, err
	}

	return s.adRepo.GetByID(adID)
}

func (s *AdService) Get(agencyID, adID int64) (*model.Ad, error) {
	return s.getOwned(agencyID, adID)
}

func (s *AdService) List(agencyID int64, req *dto.ListAdsRequest) ([]model.Ad, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return s.adRepo.ListByAgency(agencyID, model.AdStatus(req.Status), page, pageSize)
}

// UploadPhoto stores a listing photo with the storage collaborator and saves
// its URL on the ad.
func (s *AdService) UploadPhoto(agencyID, adID int64, file io.Reader, filename string) (string, error) {
	if s.ossClient == nil {
		return "", errors.New("photo storage is not configured")
	}

	ad, err := s.getOwned(agencyID, adID)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	photoURL, err := s.ossClient.UploadAdPhoto(ad.ID, data, ext)
	if err != nil {
		return "", err
	}

	if err := s.adRepo.UpdateFields(ad.ID, map[string]interface{}{"photo_url": photoURL}); err != nil {
		return "", err
	}

	return photoURL, nil
}

func (s *AdService) getOwned(agencyID, adID int64) (*model.Ad, error) {
	ad, err := s.adRepo.GetByID(adID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	if ad.AgencyID != agencyID {
		return nil, ErrNotOwner
	}
	return ad, nil
}

func validateCoordinates(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return ErrIncompleteCoordinates
	}
	if lat != nil {
		if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
			return ErrCoordinatesOutOfRange
		}
	}
	return nil
}

func (s *AdService) emit(eventType string, ad *model.Ad) {
	if s.events == nil {
		return
	}

	msg := &pubsub.LifecycleMessage{
		Type:     eventType,
		AgencyID: ad.AgencyID,
		AdID:     ad.ID,
		Status:   string(ad.Status),
	}
	if err := s.events.Publish(context.Background(), msg); err != nil {
		// Notification delivery never rolls back the domain mutation.
		log.Printf("Failed to publish %s event for ad %d: %v", eventType, ad.ID, err)
	}
}
