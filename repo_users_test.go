package auth_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	auth "github.com/vitasync/go-auth"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := auth.OpenDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, auth.InitSchema(context.Background(), db))
	return db
}

func seedUser(t *testing.T, repo auth.Users, email, phone string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword("Secret123!")
	require.NoError(t, err)

	user, err := repo.Create(context.Background(), &auth.User{
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         auth.RoleDonor,
		IsActive:     true,
	})
	require.NoError(t, err)
	return user
}

func TestUsersCreateAssignsID(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)

	user := seedUser(t, repo, "a@x.com", "+1000000")
	assert.NotZero(t, user.ID)

	got, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "+1000000", got.PhoneNumber)
}

func TestUsersUniqueConstraints(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "a@x.com", "+1000000")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, &auth.User{
			Email:        "a@x.com",
			PhoneNumber:  "+1000001",
			PasswordHash: "x",
			Role:         auth.RoleDonor,
		})
		require.Error(t, err)
		assert.True(t, auth.IsConflict(err))
	})

	t.Run("duplicate phone", func(t *testing.T) {
		_, err := repo.Create(ctx, &auth.User{
			Email:        "b@x.com",
			PhoneNumber:  "+1000000",
			PasswordHash: "x",
			Role:         auth.RoleDonor,
		})
		require.Error(t, err)
		assert.True(t, auth.IsConflict(err))
	})
}

func TestUsersLookups(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)
	ctx := context.Background()

	user := seedUser(t, repo, "a@x.com", "+1000000")

	t.Run("by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("by phone", func(t *testing.T) {
		got, err := repo.GetByPhone(ctx, "+1000000")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing is not found", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "ghost@x.com")
		require.Error(t, err)
		assert.True(t, auth.IsNotFound(err))

		_, err = repo.GetByID(ctx, 404)
		require.Error(t, err)
		assert.True(t, auth.IsNotFound(err))
	})

	t.Run("existence checks", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "ghost@x.com")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByPhone(ctx, "+1000000")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestUsersTrackSuccessfulLogin(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)
	ctx := context.Background()

	user := seedUser(t, repo, "a@x.com", "+1000000")
	require.Nil(t, user.LastLogin)

	at := time.Now().Truncate(time.Second).UTC()
	require.NoError(t, repo.TrackSuccessfulLogin(ctx, user, at))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, at, got.LastLogin.UTC())
	assert.Equal(t, at, got.UpdatedAt.UTC())
}

func TestUsersSetVerifiedIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)
	ctx := context.Background()

	user := seedUser(t, repo, "a@x.com", "+1000000")
	require.False(t, user.IsVerified)

	first := time.Now().Truncate(time.Second).UTC()
	got, err := repo.SetVerified(ctx, user.ID, first)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Equal(t, first, got.UpdatedAt.UTC())

	// repeat only moves updated_at
	second := first.Add(time.Minute)
	got, err = repo.SetVerified(ctx, user.ID, second)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Equal(t, second, got.UpdatedAt.UTC())
}

func TestUsersSetVerifiedMissing(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)

	_, err := repo.SetVerified(context.Background(), 404, time.Now())
	require.Error(t, err)
	assert.True(t, auth.IsNotFound(err))
}

func TestRepositoryManager(t *testing.T) {
	db := newTestDB(t)
	mgr := auth.NewRepositoryManager(db)

	assert.NoError(t, mgr.Validate())
	assert.NotNil(t, mgr.Users())
}
