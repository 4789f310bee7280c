package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cleanus/booking-api/internal/core/domain"
)

const bookingColumns = `id, user_id, service_date, operator_count, service_days, total_cost, status, request_date`

// BookingRepository implements ports.BookingRepository on PostgreSQL. Every
// statement filters on user_id so foreign rows are indistinguishable from
// missing ones.
type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO services (user_id, service_date, operator_count, service_days, total_cost, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, request_date`

	var status string
	err := r.db.QueryRow(ctx, query,
		b.UserID,
		b.ServiceDate,
		b.OperatorCount,
		b.ServiceDays,
		b.TotalCost,
		string(statusOrPending(b.Status)),
	).Scan(&b.ID, &status, &b.RequestDate)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.Status = domain.BookingStatus(status)
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM services WHERE user_id = $1 ORDER BY request_date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepository) FindOwned(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM services WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) UpdateServiceDate(ctx context.Context, id, userID int64, date time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE services SET service_date = $1 WHERE id = $2 AND user_id = $3`,
		date, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b      domain.Booking
		status string
	)
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ServiceDate,
		&b.OperatorCount,
		&b.ServiceDays,
		&b.TotalCost,
		&status,
		&b.RequestDate,
	); err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	b.ServiceDate = domain.CalendarDay(b.ServiceDate)
	return &b, nil
}

func statusOrPending(s domain.BookingStatus) domain.BookingStatus {
	if s == "" {
		return domain.StatusPending
	}
	return s
}
