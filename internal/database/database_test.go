package database_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"gistbot/internal/database"
	"gistbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.New(
		context.Background(),
		filepath.Join(t.TempDir(), "test.sqlite"),
		slog.New(slog.DiscardHandler),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestDatabaseCredentialLifecycle(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	key, err := db.Credential(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, db.SetCredential(ctx, 42, "  first  "))
	require.NoError(t, db.SetCredential(ctx, 42, "second"))

	key, err = db.Credential(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "second", key)

	require.NoError(t, db.DeleteCredential(ctx, 42))

	key, err = db.Credential(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestDatabaseSetCredentialRejectsEmptyKey(t *testing.T) {
	db := newTestDatabase(t)

	require.Error(t, db.SetCredential(context.Background(), 1, "   "))
}

func TestDatabaseUserSettings(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	settings, err := db.GetUserSettingsWithDefault(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, &domain.UserSettings{UserID: 7, SummaryStyle: "brief"}, settings)

	require.NoError(t, db.UpsertUserSettings(ctx, &domain.UserSettings{UserID: 7, SummaryStyle: "bullets"}))

	settings, err = db.GetUserSettingsWithDefault(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "bullets", settings.SummaryStyle)

	require.NoError(t, db.UpsertUserSettings(ctx, &domain.UserSettings{UserID: 7, SummaryStyle: "sonnet"}))

	settings, err = db.GetUserSettingsWithDefault(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "brief", settings.SummaryStyle)
}

func TestDatabaseReopenSkipsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.sqlite")
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	db, err := database.New(ctx, path, log)
	require.NoError(t, err)
	require.NoError(t, db.SetCredential(ctx, 1, "kept"))
	require.NoError(t, db.Close())

	db, err = database.New(ctx, path, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	key, err := db.Credential(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "kept", key)
}
