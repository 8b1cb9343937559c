package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blockboard/eventlog/internal/event"
	"github.com/jackc/pgx/v5"
)

// JournalEntry is one row of the event journal: the sequence number the
// journal assigned, the decoded event, and the exact wire document as
// appended.
type JournalEntry struct {
	Seq       int64           `json:"seq"`
	Doc       json.RawMessage `json:"doc"`
	CreatedAt time.Time       `json:"created_at"`

	Event event.Event `json:"-"`
}

// AppendEvent writes an event to the journal and returns the stored entry.
// The event's wire document is persisted verbatim alongside the indexed
// columns so re-reads reproduce exactly what was appended.
func (s *PostgresStore) AppendEvent(ctx context.Context, ev event.Event) (*JournalEntry, error) {
	doc, err := event.Encode(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}

	entry := JournalEntry{Doc: doc, Event: ev}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO events (workspace_id, event_type, group_id, block_id, doc)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING seq, created_at
	`, ev.WorkspaceID(), ev.Type(), ev.GroupID(), ev.BlockID(), doc).Scan(
		&entry.Seq, &entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}
	return &entry, nil
}

// GetEvent fetches a single journal entry by sequence number. Returns
// (nil, nil) when no such entry exists.
func (s *PostgresStore) GetEvent(ctx context.Context, seq int64) (*JournalEntry, error) {
	var entry JournalEntry
	err := s.pool.QueryRow(ctx, `
		SELECT seq, doc, created_at
		FROM events WHERE seq = $1
	`, seq).Scan(&entry.Seq, &entry.Doc, &entry.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying event: %w", err)
	}

	if entry.Event, err = event.Decode(entry.Doc); err != nil {
		return nil, fmt.Errorf("decoding stored event %d: %w", entry.Seq, err)
	}
	return &entry, nil
}

// ListEvents returns the newest journal entries for a workspace, optionally
// filtered by event type.
func (s *PostgresStore) ListEvents(ctx context.Context, workspaceID, eventType string, limit int) ([]JournalEntry, error) {
	query := `SELECT seq, doc, created_at FROM events WHERE workspace_id = $1`
	args := []interface{}{workspaceID}
	argIdx := 2

	if eventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, eventType)
		argIdx++
	}

	query += " ORDER BY seq DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	return s.queryEntries(ctx, query, args...)
}

// ListGroupEvents returns every journal entry stamped with the given group
// ID, oldest first, so a grouped user action reads back in order.
func (s *PostgresStore) ListGroupEvents(ctx context.Context, groupID string) ([]JournalEntry, error) {
	return s.queryEntries(ctx, `
		SELECT seq, doc, created_at
		FROM events WHERE group_id = $1
		ORDER BY seq ASC
	`, groupID)
}

func (s *PostgresStore) queryEntries(ctx context.Context, query string, args ...interface{}) ([]JournalEntry, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.Seq, &e.Doc, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if e.Event, err = event.Decode(e.Doc); err != nil {
			return nil, fmt.Errorf("decoding stored event %d: %w", e.Seq, err)
		}
		entries = append(entries, e)
	}

	if entries == nil {
		entries = []JournalEntry{}
	}

	return entries, nil
}
