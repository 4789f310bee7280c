// Package metrics defines and registers the custom Prometheus metrics of the
// booking API. HTTP request metrics come from echoprometheus; the counters
// here track business outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cleaning"

// ── Identity metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "duplicate", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingOperationsTotal counts booking mutations.
// Labels:
//   - operation: "create", "amend" or "cancel"
//   - result: "success", "not_found", "invalid" or "error"
var BookingOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_operations_total",
		Help:      "Total number of booking mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// BookedOperatorDaysTotal accumulates operator-days sold, the unit the
// price is computed from.
var BookedOperatorDaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booked_operator_days_total",
		Help:      "Total operator-days requested across all created bookings.",
	},
)
