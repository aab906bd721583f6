// ABOUTME: Store interface and data types for samson message persistence.
// ABOUTME: Defines the Message struct and the Store interface the poller and API consume.

package store

import (
	"context"
	"time"
)

// Message represents one delivered SMS message.
//
// IMEI is the owning modem's device identity, not its transient bus path, so
// stored messages survive a modem reattaching at a different path. The
// (IMEI, Sender, Text, Timestamp) tuple is unique across all stored rows.
// ID is an opaque surrogate assigned at insertion and only used for stable
// ordering and external display.
type Message struct {
	ID        int64
	IMEI      string
	Sender    string
	Text      string
	Timestamp time.Time
}

// Store defines the interface for message persistence.
type Store interface {
	// Insert persists a message unless an identical (imei, sender, text,
	// timestamp) tuple is already stored. A duplicate is a silent no-op, not
	// an error; the returned bool reports whether a new row was written.
	Insert(ctx context.Context, msg *Message) (bool, error)

	// Query returns all messages for the given IMEI ordered by timestamp
	// ascending, then by ID ascending. A non-nil after filters to messages
	// with timestamp strictly greater than it. An unknown IMEI yields an
	// empty slice, not an error.
	Query(ctx context.Context, imei string, after *time.Time) ([]Message, error)

	Close() error
}
