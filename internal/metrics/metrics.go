// ABOUTME: Prometheus collectors for the ingestion pipeline and modem fleet.
// ABOUTME: Served from a dedicated registry by the metrics listener.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Poller metrics
	PollCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "samson_poll_cycles_total",
			Help: "Total number of per-modem poll cycles",
		},
	)

	PollErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samson_poll_errors_total",
			Help: "Total number of failed modem fetches by IMEI",
		},
		[]string{"imei"},
	)

	// Ingestion metrics
	MessagesStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "samson_messages_stored_total",
			Help: "Total number of newly stored messages",
		},
	)

	MessagesDuplicate = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "samson_messages_duplicate_total",
			Help: "Total number of messages rejected as duplicates",
		},
	)

	MessagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "samson_messages_dropped_total",
			Help: "Total number of messages dropped for invalid timestamps",
		},
	)

	StorageErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "samson_storage_errors_total",
			Help: "Total number of failed message inserts",
		},
	)
)

// NewRegistry returns a registry carrying all samson collectors plus the
// modem_count gauge fed by the given function (typically the length of the
// modem registry's current snapshot).
func NewRegistry(modemCount func() float64) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "modem_count",
				Help: "Total number of modems",
			},
			modemCount,
		),
		PollCycles,
		PollErrors,
		MessagesStored,
		MessagesDuplicate,
		MessagesDropped,
		StorageErrors,
	)
	return reg
}
