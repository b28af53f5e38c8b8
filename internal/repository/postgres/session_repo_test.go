package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stackkit/auth-starter/internal/repository/postgres"
	"github.com/stackkit/auth-starter/internal/testutil"
)

func TestSessionRepository_GetByToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithEmail("sessions@example.com").Build(t, testDB.DB)
	sess, token := testutil.BuildSession(t, testDB.DB, user, time.Now().Add(time.Hour))

	got, err := repo.GetByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)

	_, err = repo.GetByToken(ctx, "unknown-token")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_DeleteByToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithEmail("signout@example.com").Build(t, testDB.DB)
	_, token := testutil.BuildSession(t, testDB.DB, user, time.Now().Add(time.Hour))

	require.NoError(t, repo.DeleteByToken(ctx, token))

	_, err := repo.GetByToken(ctx, token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting an already-deleted token is not an error
	assert.NoError(t, repo.DeleteByToken(ctx, token))
}

func TestSessionRepository_DeleteByUserID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithEmail("multi@example.com").Build(t, testDB.DB)
	testutil.BuildSession(t, testDB.DB, user, time.Now().Add(time.Hour))
	testutil.BuildSession(t, testDB.DB, user, time.Now().Add(2*time.Hour))

	sessions, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	require.NoError(t, repo.DeleteByUserID(ctx, user.ID))

	sessions, err = repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
