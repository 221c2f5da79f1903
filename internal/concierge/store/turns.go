package store

import (
	"context"
	"fmt"
	"time"
)

// TurnRecord is one processed turn of a conversation, kept as an audit
// trail for debugging intent-classification drift.
type TurnRecord struct {
	ID             int64
	Timestamp      time.Time
	TraceID        string
	ConversationID string
	UserText       string
	Intent         string
	Reply          string
	State          string
}

// RecordTurn appends one turn to the audit trail.
func (s *Store) RecordTurn(ctx context.Context, rec TurnRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns (ts, trace_id, conversation_id, user_text, intent, reply, state)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, time.Now(), rec.TraceID, rec.ConversationID, rec.UserText, rec.Intent, rec.Reply, rec.State)
	if err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}
	return nil
}

// RecentTurns retrieves a conversation's latest turns, oldest first.
func (s *Store) RecentTurns(ctx context.Context, conversationID string, limit int) ([]*TurnRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, trace_id, conversation_id, user_text, intent, reply, state
		FROM (
			SELECT id, ts, trace_id, conversation_id, user_text, intent, reply, state
			FROM turns
			WHERE conversation_id = ?
			ORDER BY id DESC
			LIMIT ?
		)
		ORDER BY id ASC
	`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var recs []*TurnRecord
	for rows.Next() {
		rec := &TurnRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.TraceID, &rec.ConversationID,
			&rec.UserText, &rec.Intent, &rec.Reply, &rec.State,
		); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turns: %w", err)
	}
	return recs, nil
}
