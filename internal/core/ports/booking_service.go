package ports

import (
	"context"
	"time"

	"github.com/cleanus/booking-api/internal/core/domain"
)

// CreateBookingInput carries a new service request.
type CreateBookingInput struct {
	UserID        int64
	ServiceDate   time.Time
	OperatorCount int
	ServiceDays   int
}

// AmendBookingInput carries a date change for an existing booking.
type AmendBookingInput struct {
	UserID      int64
	BookingID   int64
	ServiceDate time.Time
}

// BookingService defines use-case operations for bookings. All of them act
// only on bookings owned by the given user.
type BookingService interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	List(ctx context.Context, userID int64) ([]domain.Booking, error)
	AmendDate(ctx context.Context, input AmendBookingInput) error
	Cancel(ctx context.Context, userID, bookingID int64) error
}
