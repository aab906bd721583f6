// Package api provides the two HTTP surfaces of the daemon: the query API
// for stored messages and the operational listener for fleet state, metrics,
// and health. Both are read-only consumers of the store and the modem
// registry.
package api
