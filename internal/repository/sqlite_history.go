package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/google/uuid"
)

// SQLiteHistoryRepo implements HistoryRepo over the four history tables.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

func NewSQLiteHistoryRepo(conn db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn}
}

func (r *SQLiteHistoryRepo) AddMessage(ctx context.Context, userID string, m domain.UserMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, user_id, text, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), userID, m.Text, formatTime(m.Timestamp))
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepo) AddAssessment(ctx context.Context, userID string, a domain.Assessment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assessments (id, user_id, type, score, completed_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, a.Type, a.Score, formatTime(a.CompletedAt))
	if err != nil {
		return fmt.Errorf("inserting assessment: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepo) AddMoodEntry(ctx context.Context, userID string, m domain.MoodEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mood_entries (id, user_id, mood, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), userID, m.Mood, formatTime(m.Timestamp))
	if err != nil {
		return fmt.Errorf("inserting mood entry: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepo) AddEngagement(ctx context.Context, userID string, e domain.Engagement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO engagements (id, user_id, content_id, completed, effectiveness, rating, time_spent_sec, engaged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, e.ContentID, boolToInt(e.Completed),
		nullableIntToValue(e.Effectiveness), nullableIntToValue(e.Rating), nullableIntToValue(e.TimeSpentSec),
		formatTime(e.EngagedAt))
	if err != nil {
		return fmt.Errorf("inserting engagement: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepo) ListRecentMessages(ctx context.Context, userID string, n int) ([]domain.UserMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT text, created_at FROM chat_messages WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, newestLimit(n))
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer rows.Close()

	out := []domain.UserMessage{}
	for rows.Next() {
		var m domain.UserMessage
		var created string
		if err := rows.Scan(&m.Text, &created); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		if m.Timestamp, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("parsing chat message time: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteHistoryRepo) ListRecentAssessments(ctx context.Context, userID string, n int) ([]domain.Assessment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, score, completed_at FROM assessments WHERE user_id = ?
		ORDER BY completed_at DESC, rowid DESC LIMIT ?`, userID, newestLimit(n))
	if err != nil {
		return nil, fmt.Errorf("querying assessments: %w", err)
	}
	defer rows.Close()

	out := []domain.Assessment{}
	for rows.Next() {
		var a domain.Assessment
		var completed string
		if err := rows.Scan(&a.Type, &a.Score, &completed); err != nil {
			return nil, fmt.Errorf("scanning assessment: %w", err)
		}
		if a.CompletedAt, err = parseTime(completed); err != nil {
			return nil, fmt.Errorf("parsing assessment time: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteHistoryRepo) ListRecentMoodEntries(ctx context.Context, userID string, n int) ([]domain.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT mood, created_at FROM mood_entries WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, newestLimit(n))
	if err != nil {
		return nil, fmt.Errorf("querying mood entries: %w", err)
	}
	defer rows.Close()

	out := []domain.MoodEntry{}
	for rows.Next() {
		var m domain.MoodEntry
		var created string
		if err := rows.Scan(&m.Mood, &created); err != nil {
			return nil, fmt.Errorf("scanning mood entry: %w", err)
		}
		if m.Timestamp, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("parsing mood entry time: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteHistoryRepo) ListRecentEngagements(ctx context.Context, userID string, n int) ([]domain.Engagement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT content_id, completed, effectiveness, rating, time_spent_sec, engaged_at
		FROM engagements WHERE user_id = ?
		ORDER BY engaged_at DESC, rowid DESC LIMIT ?`, userID, newestLimit(n))
	if err != nil {
		return nil, fmt.Errorf("querying engagements: %w", err)
	}
	defer rows.Close()

	out := []domain.Engagement{}
	for rows.Next() {
		var e domain.Engagement
		var completed int
		var effectiveness, rating, timeSpent sql.NullInt64
		var engaged string
		if err := rows.Scan(&e.ContentID, &completed, &effectiveness, &rating, &timeSpent, &engaged); err != nil {
			return nil, fmt.Errorf("scanning engagement: %w", err)
		}
		e.Completed = intToBool(completed)
		e.Effectiveness = nullIntPtr(effectiveness)
		e.Rating = nullIntPtr(rating)
		e.TimeSpentSec = nullIntPtr(timeSpent)
		if e.EngagedAt, err = parseTime(engaged); err != nil {
			return nil, fmt.Errorf("parsing engagement time: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListCompletedContentIDs returns distinct completed content ids in
// ascending order.
func (r *SQLiteHistoryRepo) ListCompletedContentIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT content_id FROM engagements
		WHERE user_id = ? AND completed = 1 AND content_id != ''
		ORDER BY content_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying completed content: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning completed content id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
