// Package metrics defines and registers all custom Prometheus metrics for
// the locker reservation API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load; HTTP-level request metrics come from the echoprometheus
// middleware wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lockers"

// ReservationsCreatedTotal counts reservations successfully opened.
var ReservationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of reservations successfully created.",
	},
)

// ReservationConflictsTotal counts create attempts rejected because the
// locker was not available.
var ReservationConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_conflicts_total",
		Help:      "Total number of reservation attempts rejected on an unavailable locker.",
	},
)

// ReservationsClosedTotal counts reservations reaching a terminal status.
// Label:
//   - status: "completed" (released) or "cancelled" (admin path)
var ReservationsClosedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_closed_total",
		Help:      "Total number of reservations closed, by terminal status.",
	},
	[]string{"status"},
)
