package domain

import "time"

// BookingAction names a mutation recorded in the booking audit trail.
type BookingAction string

const (
	ActionCreated   BookingAction = "created"
	ActionAmended   BookingAction = "amended"
	ActionCancelled BookingAction = "cancelled"
)

// BookingEvent is an audit entry describing one mutation of a booking. It
// outlives the booking itself, which is hard-deleted on cancellation.
type BookingEvent struct {
	BookingID   int64
	UserID      int64
	Action      BookingAction
	ServiceDate time.Time
	TotalCost   int64
	At          time.Time
}
