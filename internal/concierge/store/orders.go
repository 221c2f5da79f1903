package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orderdesk/concierge/internal/concierge/order"
)

// ErrNotFound is returned when no order with the requested ID exists.
var ErrNotFound = errors.New("order not found")

// Order statuses as persisted.
const (
	OrderStatusConfirmed = "Confirmed"
	OrderStatusCancelled = "Cancelled"
)

// OrderRecord is a persisted order row.
type OrderRecord struct {
	ID             string
	ConversationID string
	CustomerName   string
	CustomerEmail  string
	City           string
	PickupText     string
	PickupValue    string
	Items          []order.Item
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaveConfirmed persists a freshly confirmed order.
func (s *Store) SaveConfirmed(ctx context.Context, conversationID string, o order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	pickupText, pickupValue := "", ""
	if o.Pickup != nil {
		pickupText, pickupValue = o.Pickup.Text, o.Pickup.Value
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, conversation_id, customer_name, customer_email, city,
			pickup_text, pickup_value, items_json, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, conversationID, o.Name, o.Email, o.City,
		pickupText, pickupValue, string(itemsJSON), OrderStatusConfirmed, now, now)
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", o.ID, err)
	}
	return nil
}

// MarkCancelled flips an order to Cancelled.
func (s *Store) MarkCancelled(ctx context.Context, orderID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = ? WHERE id = ?
	`, OrderStatusCancelled, time.Now(), orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel order %s: %w", orderID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to cancel order %s: %w", orderID, err)
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return nil
}

// GetOrder fetches one order by ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*OrderRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, customer_name, customer_email, city,
			pickup_text, pickup_value, items_json, status, created_at, updated_at
		FROM orders WHERE id = ?
	`, orderID)
	rec, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	return rec, nil
}

// OrdersByConversation lists a conversation's orders, newest first.
func (s *Store) OrdersByConversation(ctx context.Context, conversationID string) ([]*OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, customer_name, customer_email, city,
			pickup_text, pickup_value, items_json, status, created_at, updated_at
		FROM orders WHERE conversation_id = ?
		ORDER BY created_at DESC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var recs []*OrderRecord
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return recs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*OrderRecord, error) {
	rec := &OrderRecord{}
	var itemsJSON string
	err := row.Scan(
		&rec.ID, &rec.ConversationID, &rec.CustomerName, &rec.CustomerEmail, &rec.City,
		&rec.PickupText, &rec.PickupValue, &itemsJSON, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
		return nil, fmt.Errorf("corrupt items for order %s: %w", rec.ID, err)
	}
	return rec, nil
}
