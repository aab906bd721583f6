// Package dedupe provides the per-session poll cursor: a time-bounded
// seen-set that lets pollers skip re-submitting messages the store has
// already accepted.
package dedupe
