package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	return gdb
}

func TestAuthenticate(t *testing.T) {
	lp := auth.NewLocalProvider(newTestDB(t))

	created, err := lp.CreateUser(" Alice@Example.com ", "secret", "Alice")
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.NotEqual(t, "secret", created.Password)

	got, err := lp.Authenticate("ALICE@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = lp.Authenticate("alice@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidPassword)

	_, err = lp.Authenticate("nobody@example.com", "secret")
	require.ErrorIs(t, err, auth.ErrUserNotFound)

	_, err = lp.CreateUser("alice@example.com", "other", "Other")
	require.ErrorIs(t, err, auth.ErrEmailExists)
}

func TestDisabledUser(t *testing.T) {
	lp := auth.NewLocalProvider(newTestDB(t))

	alice, err := lp.CreateUser("alice@example.com", "secret", "Alice")
	require.NoError(t, err)

	// the only active user cannot be disabled
	require.ErrorIs(t, lp.UpdateUser(alice.ID, "Alice", false), auth.ErrLastActiveUser)

	bob, err := lp.CreateUser("bob@example.com", "secret", "Bob")
	require.NoError(t, err)

	require.NoError(t, lp.UpdateUser(bob.ID, "Bobby", false))

	_, err = lp.Authenticate("bob@example.com", "secret")
	require.ErrorIs(t, err, auth.ErrUserAccountDisabled)

	got, err := lp.GetUserByID(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", got.Name)

	require.ErrorIs(t, lp.UpdateUser(999, "x", true), auth.ErrUserNotFound)
}

func TestPasswords(t *testing.T) {
	lp := auth.NewLocalProvider(newTestDB(t))

	u, err := lp.CreateUser("carol@example.com", "old", "Carol")
	require.NoError(t, err)

	require.ErrorIs(t, lp.ChangePassword(u.ID, "wrong", "new"), auth.ErrInvalidOldPassword)
	require.NoError(t, lp.ChangePassword(u.ID, "old", "new"))

	_, err = lp.Authenticate("carol@example.com", "new")
	require.NoError(t, err)

	require.NoError(t, lp.ResetPassword(u.ID, "reset"))

	_, err = lp.Authenticate("carol@example.com", "reset")
	require.NoError(t, err)
}

func TestListAndDelete(t *testing.T) {
	lp := auth.NewLocalProvider(newTestDB(t))

	a, err := lp.CreateUser("a@example.com", "pw", "Ann")
	require.NoError(t, err)

	b, err := lp.CreateUser("b@example.com", "pw", "Ben")
	require.NoError(t, err)

	users, total, err := lp.ListUsers("", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)

	users, total, err = lp.ListUsers("ben", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, b.ID, users[0].ID)

	require.NoError(t, lp.DeleteUser(b.ID))
	require.ErrorIs(t, lp.DeleteUser(a.ID), auth.ErrLastActiveUser)

	n, err := lp.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
