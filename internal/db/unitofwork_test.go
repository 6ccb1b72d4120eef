package db_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/haven/internal/db"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/repository"
	"github.com/alexanderramin/haven/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var moodAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork, *bytes.Buffer) {
	t.Helper()
	database := testutil.NewTestDB(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return database, db.NewSQLiteUnitOfWork(database, logger), &logs
}

// recordMoodAndProfile writes through tx-scoped repos the way the mood log
// path does.
func recordMoodAndProfile(ctx context.Context, tx db.DBTX) error {
	if err := repository.NewSQLiteHistoryRepo(tx).AddMoodEntry(ctx, "user-1", domain.MoodEntry{Mood: "anxious", Timestamp: moodAt}); err != nil {
		return err
	}
	return repository.NewSQLiteUserProfileRepo(tx).Upsert(ctx, &domain.UserProfile{
		UserID:        "user-1",
		Approach:      domain.ApproachWestern,
		WellnessScore: 42,
		RecentMood:    "anxious",
		UpdatedAt:     moodAt,
	})
}

func assertNothingPersisted(t *testing.T, database *sql.DB) {
	t.Helper()
	ctx := context.Background()
	moods, err := repository.NewSQLiteHistoryRepo(database).ListRecentMoodEntries(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Empty(t, moods)
	_, err = repository.NewSQLiteUserProfileRepo(database).Get(ctx, "user-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithinTx_CommitsAllRepoWrites(t *testing.T) {
	database, uow, logs := newUoW(t)
	ctx := context.Background()

	require.NoError(t, uow.WithinTx(ctx, recordMoodAndProfile))

	moods, err := repository.NewSQLiteHistoryRepo(database).ListRecentMoodEntries(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, moods, 1)
	assert.Equal(t, "anxious", moods[0].Mood)

	p, err := repository.NewSQLiteUserProfileRepo(database).Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "anxious", p.RecentMood)
	assert.Equal(t, 42.0, p.WellnessScore)
	assert.Empty(t, logs.String())
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, uow, logs := newUoW(t)
	errProfile := errors.New("profile store unavailable")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := recordMoodAndProfile(ctx, tx); err != nil {
			return err
		}
		return errProfile
	})

	require.ErrorIs(t, err, errProfile)
	assertNothingPersisted(t, database)
	assert.Contains(t, logs.String(), "transaction rolled back")
	assert.Contains(t, logs.String(), "profile store unavailable")
}

func TestWithinTx_KeepsRepositorySentinels(t *testing.T) {
	_, uow, _ := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := repository.NewSQLiteUserProfileRepo(tx).Get(ctx, "nobody")
		return err
	})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database, uow, logs := newUoW(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = recordMoodAndProfile(ctx, tx)
			panic("boom")
		})
	})

	assertNothingPersisted(t, database)
	assert.Contains(t, logs.String(), "transaction rolled back after panic")
}

func TestWithinTx_FailOnNthExecRollsBackEarlierWrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: assert.AnError}

	err := uow.WithinTx(context.Background(), recordMoodAndProfile)

	require.ErrorIs(t, err, assert.AnError)
	assertNothingPersisted(t, database)
}

func TestNewSQLiteUnitOfWork_NilLogger(t *testing.T) {
	uow := db.NewSQLiteUnitOfWork(testutil.NewTestDB(t), nil)

	err := uow.WithinTx(context.Background(), func(context.Context, db.DBTX) error { return assert.AnError })

	assert.ErrorIs(t, err, assert.AnError)
}
