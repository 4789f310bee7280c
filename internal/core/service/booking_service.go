package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleanus/booking-api/internal/core/domain"
	"github.com/cleanus/booking-api/internal/core/ports"
)

type BookingService struct {
	repo   ports.BookingRepository
	audit  ports.BookingAuditor
	logger zerolog.Logger
	now    func() time.Time
}

// NewBookingService returns a BookingService. audit may be nil.
func NewBookingService(repo ports.BookingRepository, audit ports.BookingAuditor, logger zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// WithClock replaces the time source used for the future-date rule.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Create prices and persists a new service request for input.UserID.
func (s *BookingService) Create(ctx context.Context, input ports.CreateBookingInput) (*domain.Booking, error) {
	if err := domain.ValidateCounts(input.OperatorCount, input.ServiceDays); err != nil {
		return nil, err
	}
	if !domain.IsFutureDate(input.ServiceDate, s.now()) {
		return nil, domain.ErrServiceDateNotFuture
	}

	booking := &domain.Booking{
		UserID:        input.UserID,
		ServiceDate:   domain.CalendarDay(input.ServiceDate),
		OperatorCount: input.OperatorCount,
		ServiceDays:   input.ServiceDays,
		TotalCost:     domain.TotalCost(input.OperatorCount, input.ServiceDays),
		Status:        domain.StatusPending,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.logger.Error().Err(err).Int64("user_id", input.UserID).Msg("failed to create booking")
		return nil, err
	}

	s.record(ctx, booking, domain.ActionCreated)
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("user_id", booking.UserID).
		Int64("total_cost", booking.TotalCost).
		Msg("booking created")

	return booking, nil
}

func (s *BookingService) List(ctx context.Context, userID int64) ([]domain.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// AmendDate moves an owned booking to a new date. Counts and cost are left
// untouched.
func (s *BookingService) AmendDate(ctx context.Context, input ports.AmendBookingInput) error {
	if input.ServiceDate.IsZero() {
		return domain.ErrServiceDateRequired
	}
	if !domain.IsFutureDate(input.ServiceDate, s.now()) {
		return domain.ErrServiceDateNotFuture
	}

	booking, err := s.repo.FindOwned(ctx, input.BookingID, input.UserID)
	if err != nil {
		return err
	}

	date := domain.CalendarDay(input.ServiceDate)
	if err := s.repo.UpdateServiceDate(ctx, booking.ID, input.UserID, date); err != nil {
		return err
	}

	booking.ServiceDate = date
	s.record(ctx, booking, domain.ActionAmended)
	s.logger.Info().Int64("booking_id", booking.ID).Int64("user_id", input.UserID).Msg("booking date amended")
	return nil
}

// Cancel permanently removes an owned booking.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID int64) error {
	booking, err := s.repo.FindOwned(ctx, bookingID, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, booking.ID, userID); err != nil {
		return err
	}

	s.record(ctx, booking, domain.ActionCancelled)
	s.logger.Info().Int64("booking_id", booking.ID).Int64("user_id", userID).Msg("booking cancelled")
	return nil
}

// record appends to the audit trail. Failures are logged, never returned.
func (s *BookingService) record(ctx context.Context, b *domain.Booking, action domain.BookingAction) {
	if s.audit == nil {
		return
	}
	event := &domain.BookingEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		Action:      action,
		ServiceDate: b.ServiceDate,
		TotalCost:   b.TotalCost,
		At:          s.now().UTC(),
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warn().Err(err).Int64("booking_id", b.ID).Str("action", string(action)).Msg("failed to record audit event")
	}
}
