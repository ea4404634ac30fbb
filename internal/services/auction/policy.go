package auction

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEnded covers every write to an auction whose end time has passed,
	// including pure status changes.
	ErrEnded = errors.New("auction has ended; it cannot be edited")

	// ErrScheduleFrozen rejects schedule/pricing edits in the live window.
	ErrScheduleFrozen = errors.New("once an auction has started, schedule and pricing cannot be changed")
)

// FieldError reports a single invalid patch field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + " " + e.Reason }

// TransitionError reports a status edge outside the allowed set.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// Snapshot is the slice of a stored auction the mutability rules read.
type Snapshot struct {
	Status   Status
	StartsAt time.Time
	EndsAt   time.Time
}

// Patch carries the fields an operator may try to change through the update
// endpoint. Nil means "not present". Seller, winner, item link, currency and
// bid state are owned by other processes and have no representation here.
type Patch struct {
	StartsAt            *time.Time
	EndsAt              *time.Time
	StartingPrice       *float64
	ReservePrice        *float64
	BuyNowPrice         *float64
	MinimumBidIncrement *float64
	Status              *Status
}

func (p Patch) touchesScheduleOrPricing() bool {
	return p.StartsAt != nil || p.EndsAt != nil ||
		p.StartingPrice != nil || p.ReservePrice != nil ||
		p.BuyNowPrice != nil || p.MinimumBidIncrement != nil
}

type transitionKey struct {
	from, to Status
}

func beforeStart(hasStarted bool) bool { return !hasStarted }
func anyTime(bool) bool                { return true }

// allowedTransitions is the complete set of legal status edges. Everything
// absent from the map is rejected. Live -> Ended is deliberately not here:
// closing an auction belongs to an external scheduler, not this endpoint.
var allowedTransitions = map[transitionKey]func(hasStarted bool) bool{
	{StatusDraft, StatusScheduled}:     beforeStart,
	{StatusScheduled, StatusDraft}:     beforeStart,
	{StatusScheduled, StatusCancelled}: beforeStart,
	{StatusLive, StatusCancelled}:      anyTime,
}

// Decide runs the mutability rules in order against the stored snapshot and
// returns the first violation, or nil when every present field may be
// applied. It is pure: now is the single clock input.
func Decide(snap Snapshot, now time.Time, p Patch) error {
	hasStarted := !now.Before(snap.StartsAt)
	hasEnded := !now.Before(snap.EndsAt)

	// 1. Past the end the record is frozen outright.
	if hasEnded {
		return ErrEnded
	}

	// 2. Schedule and pricing: editable before start, frozen while live.
	if hasStarted {
		if p.touchesScheduleOrPricing() {
			return ErrScheduleFrozen
		}
	} else {
		if err := checkSchedule(snap, now, p); err != nil {
			return err
		}
		if err := checkPricing(p); err != nil {
			return err
		}
	}

	// 3. Status edge, if requested.
	if p.Status != nil {
		guard, ok := allowedTransitions[transitionKey{snap.Status, *p.Status}]
		if !ok || !guard(hasStarted) {
			return &TransitionError{From: snap.Status, To: *p.Status}
		}
	}
	return nil
}

func checkSchedule(snap Snapshot, now time.Time, p Patch) error {
	if p.StartsAt != nil && !p.StartsAt.After(now) {
		return &FieldError{Field: "starts_at", Reason: "must be in the future"}
	}
	if p.EndsAt != nil {
		// EndsAt is validated against the start the patch would leave behind.
		effectiveStart := snap.StartsAt
		if p.StartsAt != nil {
			effectiveStart = *p.StartsAt
		}
		if !p.EndsAt.After(effectiveStart) {
			return &FieldError{Field: "ends_at", Reason: "must be after starts_at"}
		}
	}
	return nil
}

func checkPricing(p Patch) error {
	if p.StartingPrice != nil && *p.StartingPrice < 0 {
		return &FieldError{Field: "starting_price", Reason: "cannot be negative"}
	}
	if p.ReservePrice != nil && *p.ReservePrice < 0 {
		return &FieldError{Field: "reserve_price", Reason: "cannot be negative"}
	}
	if p.BuyNowPrice != nil && *p.BuyNowPrice < 0 {
		return &FieldError{Field: "buy_now_price", Reason: "cannot be negative"}
	}
	if p.MinimumBidIncrement != nil && *p.MinimumBidIncrement <= 0 {
		return &FieldError{Field: "minimum_bid_increment", Reason: "must be positive"}
	}
	return nil
}

// apply copies every present, already-validated field onto the auction and
// stamps UpdatedAt. Call only after Decide returned nil.
func (p Patch) apply(a *AuctionDTO, now time.Time) {
	if p.StartsAt != nil {
		a.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		a.EndsAt = *p.EndsAt
	}
	if p.StartingPrice != nil {
		a.StartingPrice = *p.StartingPrice
	}
	if p.ReservePrice != nil {
		a.ReservePrice = p.ReservePrice
	}
	if p.BuyNowPrice != nil {
		a.BuyNowPrice = p.BuyNowPrice
	}
	if p.MinimumBidIncrement != nil {
		a.MinimumBidIncrement = *p.MinimumBidIncrement
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	a.UpdatedAt = now
}
