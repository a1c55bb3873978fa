package model

import "fmt"

// AdStatus is the closed set of advertisement states.
type AdStatus string

const (
	AdStatusDraft         AdStatus = "draft"
	AdStatusPendingReview AdStatus = "pending_review"
	AdStatusPublished     AdStatus = "published"
	AdStatusRejected      AdStatus = "rejected"
	AdStatusExpired       AdStatus = "expired"
	AdStatusArchived      AdStatus = "archived"
)

var adStatusLabels = map[AdStatus]string{
	AdStatusDraft:         "Draft",
	AdStatusPendingReview: "Pending review",
	AdStatusPublished:     "Published",
	AdStatusRejected:      "Rejected",
	AdStatusExpired:       "Expired",
	AdStatusArchived:      "Archived",
}

// Label returns the human-readable name of the status.
func (s AdStatus) Label() string {
	if label, ok := adStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is a known ad status.
func (s AdStatus) Valid() bool {
	_, ok := adStatusLabels[s]
	return ok
}

type adTransition struct {
	From AdStatus
	To   AdStatus
}

// adTransitions is the single source of truth for legal status changes.
// Anything absent from this table is rejected; there are no implicit moves.
// archived is terminal.
var adTransitions = map[adTransition]bool{
	{AdStatusDraft, AdStatusPendingReview}:     true,
	{AdStatusPendingReview, AdStatusPublished}: true,
	{AdStatusPendingReview, AdStatusRejected}:  true,
	{AdStatusPublished, AdStatusExpired}:       true,
	{AdStatusPublished, AdStatusArchived}:      true,
	{AdStatusRejected, AdStatusDraft}:          true,
	{AdStatusExpired, AdStatusDraft}:           true,
}

// CanTransitionAd checks if an ad may move from one status to another.
// Self-transitions are always illegal: a from==to request signals a caller bug.
func CanTransitionAd(from, to AdStatus) bool {
	return adTransitions[adTransition{from, to}]
}

// AdTransitionsFrom returns all legal target statuses for the given status.
func AdTransitionsFrom(from AdStatus) []AdStatus {
	targets := make([]AdStatus, 0)
	for t := range adTransitions {
		if t.From == from {
			targets = append(targets, t.To)
		}
	}
	return targets
}

// InvalidTransitionError reports a rejected ad status change.
type InvalidTransitionError struct {
	From AdStatus
	To   AdStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid ad status transition: %s (%s) -> %s (%s)",
		e.From, e.From.Label(), e.To, e.To.Label())
}

// ValidateAdTransition returns nil when the change is legal, otherwise
// an *InvalidTransitionError carrying both endpoints. Pure; no storage access.
func ValidateAdTransition(from, to AdStatus) error {
	if !CanTransitionAd(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}
