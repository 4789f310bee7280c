package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cleanus/booking-api/internal/core/domain"
)

// flexInt accepts an integer sent either as a JSON number or as a numeric
// string. Browser forms submit the latter.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(b)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%q is not an integer", raw)
	}
	*f = flexInt(n)
	return nil
}

type createBookingRequest struct {
	ServiceDate   string  `json:"serviceDate"   validate:"required"`
	OperatorCount flexInt `json:"operatorCount" validate:"required"`
	ServiceDays   flexInt `json:"serviceDays"   validate:"required"`
}

type amendBookingRequest struct {
	ServiceDate string `json:"serviceDate" validate:"required"`
}

type bookingDetails struct {
	UserID        int64  `json:"userId"`
	ServiceDate   string `json:"serviceDate"`
	OperatorCount int    `json:"operatorCount"`
	ServiceDays   int    `json:"serviceDays"`
	TotalCost     int64  `json:"totalCost"`
}

type createBookingResponse struct {
	Message   string         `json:"message"`
	ServiceID int64          `json:"serviceId"`
	Details   bookingDetails `json:"details"`
}

// bookingRecord is the list representation of a booking.
type bookingRecord struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ServiceDate   string    `json:"service_date"`
	OperatorCount int       `json:"operator_count"`
	ServiceDays   int       `json:"service_days"`
	TotalCost     int64     `json:"total_cost"`
	Status        string    `json:"status"`
	RequestDate   time.Time `json:"request_date"`
}

func toBookingRecord(b domain.Booking) bookingRecord {
	return bookingRecord{
		ID:            b.ID,
		UserID:        b.UserID,
		ServiceDate:   b.ServiceDate.Format(domain.DateLayout),
		OperatorCount: b.OperatorCount,
		ServiceDays:   b.ServiceDays,
		TotalCost:     b.TotalCost,
		Status:        string(b.Status),
		RequestDate:   b.RequestDate.UTC(),
	}
}

func toBookingRecords(bookings []domain.Booking) []bookingRecord {
	out := make([]bookingRecord, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingRecord(b))
	}
	return out
}
