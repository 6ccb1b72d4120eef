package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/domain"
)

// SQLiteUserProfileRepo implements UserProfileRepo using a SQLite database.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

func (r *SQLiteUserProfileRepo) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, approach, wellness_score, recent_mood, updated_at
		FROM user_profiles WHERE user_id = ?`, userID)

	var p domain.UserProfile
	var approach, updated string
	if err := row.Scan(&p.UserID, &approach, &p.WellnessScore, &p.RecentMood, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user profile %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}
	p.Approach = domain.Approach(approach)
	t, err := parseTime(updated)
	if err != nil {
		return nil, fmt.Errorf("parsing profile update time: %w", err)
	}
	p.UpdatedAt = t
	return &p, nil
}

// Upsert stamps UpdatedAt when it is zero.
func (r *SQLiteUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, approach, wellness_score, recent_mood, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			approach = excluded.approach, wellness_score = excluded.wellness_score,
			recent_mood = excluded.recent_mood, updated_at = excluded.updated_at`,
		p.UserID, string(domain.ParseApproach(string(p.Approach))), p.WellnessScore, p.RecentMood, formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting user profile: %w", err)
	}
	return nil
}
