package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/google/uuid"
)

// SQLiteCrisisEventRepo persists crisis events emitted by detection.
type SQLiteCrisisEventRepo struct {
	db db.DBTX
}

func NewSQLiteCrisisEventRepo(conn db.DBTX) *SQLiteCrisisEventRepo {
	return &SQLiteCrisisEventRepo{db: conn}
}

// Record assigns an id when the event has none.
func (r *SQLiteCrisisEventRepo) Record(ctx context.Context, e domain.CrisisEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	indicators, err := encodeStrings(e.Indicators)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO crisis_events (id, user_id, level, confidence, indicators, action_taken, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Level.String(), e.Confidence, indicators, string(e.ActionTaken), formatTime(e.OccurredAt))
	if err != nil {
		return fmt.Errorf("inserting crisis event: %w", err)
	}
	return nil
}

func (r *SQLiteCrisisEventRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.CrisisEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, level, confidence, indicators, action_taken, occurred_at
		FROM crisis_events WHERE user_id = ?
		ORDER BY occurred_at DESC, rowid DESC LIMIT ?`, userID, newestLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying crisis events: %w", err)
	}
	defer rows.Close()

	out := []domain.CrisisEvent{}
	for rows.Next() {
		var e domain.CrisisEvent
		var level, indicators, action, occurred string
		if err := rows.Scan(&e.ID, &e.UserID, &level, &e.Confidence, &indicators, &action, &occurred); err != nil {
			return nil, fmt.Errorf("scanning crisis event: %w", err)
		}
		if e.Level, err = domain.ParseRiskLevel(level); err != nil {
			return nil, fmt.Errorf("crisis event %s: %w", e.ID, err)
		}
		if e.Indicators, err = decodeStrings(indicators); err != nil {
			return nil, fmt.Errorf("crisis event %s: %w", e.ID, err)
		}
		e.ActionTaken = domain.ActionTaken(action)
		if e.OccurredAt, err = parseTime(occurred); err != nil {
			return nil, fmt.Errorf("crisis event %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
