// ABOUTME: Narrow interface over the modem management bus service.
// ABOUTME: The poller and registry consume this; tests substitute a fake.

package modem

import "context"

// Info identifies one attached modem. Path is the stable bus object
// identifier and primary key for liveness tracking; IMEI is the device
// identity messages are grouped under.
type Info struct {
	Path string `json:"path"`
	IMEI string `json:"imei"`
}

// SMS is one message as reported by the bus service. Timestamp is the raw
// firmware-reported string; normalization happens on the ingestion path.
type SMS struct {
	Sender    string
	Text      string
	Timestamp string
}

// Bus is the surface of the external modem management service the daemon
// consumes. Failures of either call are non-fatal to callers: the registry
// keeps its previous snapshot and pollers retry next cycle.
type Bus interface {
	ListModems(ctx context.Context) ([]Info, error)
	ListMessages(ctx context.Context, path string) ([]SMS, error)
}
