package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a service request.
type BookingStatus string

const StatusPending BookingStatus = "pending"

// RatePerOperatorPerDay is the fixed price, in currency minor units, charged
// for one operator working one day.
const RatePerOperatorPerDay int64 = 25000

// Upper bounds on a single booking. They keep TotalCost exact in an int64.
const (
	MaxOperatorCount = 1000
	MaxServiceDays   = 365
)

// DateLayout is the wire format of service dates.
const DateLayout = "2006-01-02"

var (
	ErrBookingNotFound      = errors.New("service not found or not authorized")
	ErrServiceDateRequired  = errors.New("service date is required")
	ErrServiceDateNotFuture = errors.New("service date must be in the future")
	ErrInvalidCount         = errors.New("operator count must be between 1 and 1000 and service days between 1 and 365")
)

// Booking is one scheduled cleaning engagement owned by a single user.
type Booking struct {
	ID            int64
	UserID        int64
	ServiceDate   time.Time
	OperatorCount int
	ServiceDays   int
	TotalCost     int64
	Status        BookingStatus
	RequestDate   time.Time
}

// TotalCost prices a booking using integer arithmetic only.
func TotalCost(operatorCount, serviceDays int) int64 {
	return int64(operatorCount) * int64(serviceDays) * RatePerOperatorPerDay
}

// ValidateCounts reports ErrInvalidCount unless both counts are positive and
// within MaxOperatorCount and MaxServiceDays.
func ValidateCounts(operatorCount, serviceDays int) error {
	if operatorCount <= 0 || operatorCount > MaxOperatorCount ||
		serviceDays <= 0 || serviceDays > MaxServiceDays {
		return ErrInvalidCount
	}
	return nil
}

// IsFutureDate reports whether date falls on a calendar day strictly after
// the day of now. Both values are compared as UTC calendar dates.
func IsFutureDate(date, now time.Time) bool {
	return CalendarDay(date).After(CalendarDay(now))
}

// CalendarDay truncates t to midnight UTC of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseServiceDate parses a YYYY-MM-DD date.
func ParseServiceDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrServiceDateRequired
	}
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
