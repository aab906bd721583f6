// Package metrics defines the Prometheus collectors exposed on the metrics
// listener, including the modem_count fleet gauge.
package metrics
