package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AdminUsers(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	count, err := store.CountAdminUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	fullName := "Ada Admin"
	user := &AdminUser{
		Username:     "ada",
		Email:        "ada@example.com",
		FullName:     &fullName,
		PasswordHash: "$2a$10$fakehash",
		Role:         "admin",
	}
	require.NoError(t, store.CreateAdminUser(ctx, user))
	assert.NotZero(t, user.ID)

	byName, err := store.GetAdminUserByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	require.NotNil(t, byName.FullName)
	assert.Equal(t, "Ada Admin", *byName.FullName)
	assert.Equal(t, "admin", byName.Role)

	// Full name is optional
	staff := &AdminUser{Username: "sam", Email: "sam@example.com", PasswordHash: "$2a$10$other", Role: "staff"}
	require.NoError(t, store.CreateAdminUser(ctx, staff))

	got, err := store.GetAdminUser(ctx, staff.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FullName)

	users, err := store.ListAdminUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err = store.CountAdminUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_CreateAdminUser_DuplicateUsername(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateAdminUser(ctx, &AdminUser{Username: "ada", Email: "a@x.com", PasswordHash: "h", Role: "admin"}))
	err := store.CreateAdminUser(ctx, &AdminUser{Username: "ada", Email: "b@x.com", PasswordHash: "h", Role: "staff"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestStore_GetAdminUserByUsername_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetAdminUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
