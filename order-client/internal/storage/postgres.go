package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tableorder/order-client/internal/domain"
)

// PostgresArchive keeps ended table sessions.
type PostgresArchive struct {
	DB *sql.DB
}

func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{DB: db}
}

func (r *PostgresArchive) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS past_sessions (
			id SERIAL PRIMARY KEY,
			restaurant_id TEXT NOT NULL,
			table_number TEXT NOT NULL,
			session_start TIMESTAMPTZ NOT NULL,
			session_end TIMESTAMPTZ NOT NULL,
			ordered_items JSONB NOT NULL,
			item_details JSONB NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS past_sessions_restaurant_idx ON past_sessions (restaurant_id)",
	}

	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (r *PostgresArchive) SaveSession(ctx context.Context, session domain.PastRestaurantSession) error {
	orderedItems, err := json.Marshal(session.OrderedItems)
	if err != nil {
		return err
	}
	itemDetails, err := json.Marshal(session.ItemDetails)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO past_sessions (restaurant_id, table_number, session_start, session_end, ordered_items, item_details)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, session.RestaurantID, session.TableNumber, session.SessionStart, session.SessionEnd, orderedItems, itemDetails)
	return err
}

func (r *PostgresArchive) ListSessions(ctx context.Context, restaurantID string) ([]domain.PastRestaurantSession, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT restaurant_id, table_number, session_start, session_end, ordered_items, item_details
		FROM past_sessions
		WHERE $1 = '' OR restaurant_id = $1
		ORDER BY session_end ASC
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.PastRestaurantSession{}
	for rows.Next() {
		var session domain.PastRestaurantSession
		var orderedItems, itemDetails []byte
		if err := rows.Scan(&session.RestaurantID, &session.TableNumber, &session.SessionStart, &session.SessionEnd, &orderedItems, &itemDetails); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(orderedItems, &session.OrderedItems); err != nil {
			return nil, fmt.Errorf("decode ordered items: %w", err)
		}
		if err := json.Unmarshal(itemDetails, &session.ItemDetails); err != nil {
			return nil, fmt.Errorf("decode item details: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
