package ports

import (
	"context"
	"time"

	"github.com/cleanus/booking-api/internal/core/domain"
)

// BookingRepository defines persistence operations for service requests.
// Every lookup and mutation is scoped by the owning user id; a booking owned
// by someone else is reported as domain.ErrBookingNotFound.
type BookingRepository interface {
	// Create inserts b and fills in ID, Status and RequestDate.
	Create(ctx context.Context, b *domain.Booking) error
	// ListByUser returns the user's bookings, newest request first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	FindOwned(ctx context.Context, id, userID int64) (*domain.Booking, error)
	UpdateServiceDate(ctx context.Context, id, userID int64, date time.Time) error
	Delete(ctx context.Context, id, userID int64) error
}

// BookingAuditor appends entries to the booking audit trail.
type BookingAuditor interface {
	Record(ctx context.Context, event *domain.BookingEvent) error
}
