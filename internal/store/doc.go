// Package store provides durable SMS message persistence using SQLite.
//
// The at-most-once guarantee lives here: a UNIQUE constraint over
// (imei, sender, text, timestamp) makes concurrent inserts of the same
// message resolve to a single stored row, with the losing insert a silent
// no-op. WAL mode allows queries to run concurrently with poller writes.
package store
