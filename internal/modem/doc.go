// Package modem provides the bus collaborator for the ModemManager service
// and the registry of currently attached modems.
//
// The Bus interface is the only seam between the daemon and the external
// management service; ModemManager implements it over the system D-Bus and
// everything else (registry, pollers, tests) consumes the interface. The
// Registry keeps an immutable, path-sorted snapshot of attached modems
// behind an atomic pointer so readers never lock.
package modem
