// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite.
// ABOUTME: Uniqueness is enforced by a storage-level constraint, not check-then-insert.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/2389/samson/internal/timestamp"
)

// SQLiteStore implements the Store interface using SQLite.
//
// Timestamps are stored as RFC3339 UTC text, so lexicographic order equals
// chronological order and range filters can run directly on the column.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Pragmas go in the DSN so every pooled connection gets them: WAL lets
	// API reads proceed while pollers commit, and the busy timeout makes
	// concurrent writers wait out the write lock instead of failing with
	// SQLITE_BUSY.
	dsn := path + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if path == ":memory:" {
		// Each pooled connection to :memory: would open its own database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			imei TEXT NOT NULL,
			sender TEXT NOT NULL,
			text TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			UNIQUE(imei, sender, text, timestamp)
		);
		CREATE INDEX IF NOT EXISTS idx_messages_imei ON messages(imei);
		CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Insert persists a message, relying on the UNIQUE constraint for
// deduplication. Two pollers racing on the same tuple resolve inside the
// storage engine: exactly one row wins, the other call is a no-op.
func (s *SQLiteStore) Insert(ctx context.Context, msg *Message) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (imei, sender, text, timestamp) VALUES (?, ?, ?, ?)
		 ON CONFLICT(imei, sender, text, timestamp) DO NOTHING`,
		msg.IMEI, msg.Sender, msg.Text, msg.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("inserting message: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if id, err := res.LastInsertId(); err == nil {
		msg.ID = id
	}
	return true, nil
}

// Query returns messages for an IMEI ordered by timestamp then insertion ID.
func (s *SQLiteStore) Query(ctx context.Context, imei string, after *time.Time) ([]Message, error) {
	query := `SELECT id, imei, sender, text, timestamp FROM messages WHERE imei = ?`
	args := []any{imei}

	if after != nil {
		query += ` AND timestamp > ?`
		args = append(args, after.UTC().Format(time.RFC3339))
	}

	query += ` ORDER BY timestamp ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		var ts string
		if err := rows.Scan(&msg.ID, &msg.IMEI, &msg.Sender, &msg.Text, &ts); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		msg.Timestamp, err = timestamp.Parse(ts)
		if err != nil {
			return nil, fmt.Errorf("parsing stored timestamp: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}

	return messages, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
