package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the persisted state of a subscription row.
type Status string

const (
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Subscription is one persisted subscription row. History is retained for
// billing audit, so a tenant accumulates rows over upgrades and renewals;
// SelectCurrent picks the single row that governs entitlements now.
type Subscription struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	PlanID      string
	Status      Status
	StartsAt    time.Time
	EndsAt      *time.Time // nil = open-ended
	TrialEndsAt *time.Time // set only for plans with trials
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CancelledAt *time.Time // set when subscription is cancelled
}

// LiveAt reports whether the row's period covers the given instant.
// Expiry is strict: a row whose EndsAt equals now is no longer live.
func (s *Subscription) LiveAt(now time.Time) bool {
	return s.EndsAt == nil || s.EndsAt.After(now)
}

// TrialExpiredAt reports whether the trial window has closed at the
// given instant. Rows without a trial never expire this way.
func (s *Subscription) TrialExpiredAt(now time.Time) bool {
	if s.TrialEndsAt == nil {
		return false
	}
	return !s.TrialEndsAt.After(now)
}

// IsCancelled returns true if the subscription is cancelled.
func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// Cancel marks the subscription cancelled at the given instant.
// Performed by the billing collaborator, never by the gate.
func (s *Subscription) Cancel(now time.Time) {
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
}

// Expire marks the subscription expired at the given instant.
func (s *Subscription) Expire(now time.Time) {
	s.Status = StatusExpired
	if s.EndsAt == nil {
		s.EndsAt = &now
	}
	s.UpdatedAt = now
}
