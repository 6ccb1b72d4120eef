package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// full list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		text       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_user ON chat_messages(user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS assessments (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		type         TEXT NOT NULL,
		score        REAL NOT NULL CHECK (score >= 0 AND score <= 100),
		completed_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_user ON assessments(user_id, completed_at DESC)`,

	`CREATE TABLE IF NOT EXISTS mood_entries (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		mood       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mood_entries_user ON mood_entries(user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS content_items (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		type             TEXT NOT NULL DEFAULT 'content' CHECK (type IN ('content', 'crisis-resource')),
		approach         TEXT NOT NULL DEFAULT 'hybrid' CHECK (approach IN ('western', 'eastern', 'hybrid')),
		duration_sec     INTEGER NOT NULL DEFAULT 0,
		tags             TEXT NOT NULL DEFAULT '[]',
		immediate_relief INTEGER NOT NULL DEFAULT 0,
		effectiveness    REAL NOT NULL DEFAULT 0,
		popularity       INTEGER NOT NULL DEFAULT 0,
		description      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_items_type ON content_items(type, approach)`,

	`CREATE TABLE IF NOT EXISTS practices (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		approach      TEXT NOT NULL DEFAULT 'hybrid' CHECK (approach IN ('western', 'eastern', 'hybrid')),
		duration_sec  INTEGER NOT NULL DEFAULT 0,
		tags          TEXT NOT NULL DEFAULT '[]',
		effectiveness REAL NOT NULL DEFAULT 0,
		instructions  TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS engagements (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		content_id     TEXT NOT NULL DEFAULT '',
		completed      INTEGER NOT NULL DEFAULT 0,
		effectiveness  INTEGER CHECK (effectiveness IS NULL OR (effectiveness >= 1 AND effectiveness <= 10)),
		time_spent_sec INTEGER,
		engaged_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_engagements_user ON engagements(user_id, engaged_at DESC)`,
	// Star ratings arrived after engagements shipped.
	`ALTER TABLE engagements ADD COLUMN rating INTEGER CHECK (rating IS NULL OR (rating >= 1 AND rating <= 5))`,

	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id        TEXT PRIMARY KEY,
		approach       TEXT NOT NULL DEFAULT 'hybrid' CHECK (approach IN ('western', 'eastern', 'hybrid')),
		wellness_score REAL NOT NULL DEFAULT 70 CHECK (wellness_score >= 0 AND wellness_score <= 100),
		recent_mood    TEXT NOT NULL DEFAULT '',
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS crisis_events (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		level        TEXT NOT NULL CHECK (level IN ('NONE', 'LOW', 'MODERATE', 'HIGH', 'CRITICAL')),
		confidence   REAL NOT NULL,
		indicators   TEXT NOT NULL DEFAULT '[]',
		action_taken TEXT NOT NULL CHECK (action_taken IN ('IMMEDIATE_INTERVENTION', 'MONITORING')),
		occurred_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_crisis_events_user ON crisis_events(user_id, occurred_at DESC)`,
}
