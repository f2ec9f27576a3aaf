package pg

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressgate-dev/pressgate/internal/domain"
	internal_errors "github.com/pressgate-dev/pressgate/internal/errors"
)

func TestSaveAccount(t *testing.T) {
	t.Run("email stored lowercase and looked up case-insensitively", func(t *testing.T) {
		id, err := storage.SaveAccount(domain.RealmBlog, domain.Account{
			Name: "Alice", Email: "Mixed.Case@Example.COM", PassHash: "x",
		})
		require.NoError(t, err)

		account, err := storage.LiveAccountByEmail(domain.RealmBlog, "MIXED.case@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, account.Id)
		assert.Equal(t, "mixed.case@example.com", account.Email)
		assert.False(t, account.Deleted)
		assert.Nil(t, account.LastLoginAt)
	})

	t.Run("duplicate live email conflicts", func(t *testing.T) {
		_, err := storage.SaveAccount(domain.RealmBlog, domain.Account{
			Email: "dup@example.com", PassHash: "x",
		})
		require.NoError(t, err)

		_, err = storage.SaveAccount(domain.RealmBlog, domain.Account{
			Email: "DUP@example.com", PassHash: "x",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, internal_errors.StatusCode(err))
	})

	t.Run("realms are isolated", func(t *testing.T) {
		_, err := storage.SaveAccount(domain.RealmBlog, domain.Account{
			Email: "shared@example.com", PassHash: "x",
		})
		require.NoError(t, err)

		// Same email in a different realm is a different namespace.
		_, err = storage.SaveAccount(domain.RealmEvent, domain.Account{
			Email: "shared@example.com", PassHash: "x",
		})
		assert.NoError(t, err)

		_, err = storage.LiveAccountByEmail(domain.RealmCountry, "shared@example.com")
		assert.True(t, internal_errors.IsNotFound(err))
	})
}

func TestSoftDeleteAndRestore(t *testing.T) {
	t.Run("delete frees the email, restore conflicts once retaken", func(t *testing.T) {
		first, err := storage.SaveAccount(domain.RealmBlog, domain.Account{
			Email: "recycled@example.com", PassHash: "x",
		})
		require.NoError(t, err)
		require.NoError(t, storage.SoftDeleteAccount(domain.RealmBlog, first))

		// Deleted accounts vanish from the live lookup but stay readable by id.
		_, err = storage.LiveAccountByEmail(domain.RealmBlog, "recycled@example.com")
		assert.True(t, internal_errors.IsNotFound(err))
		account, err := storage.AccountById(domain.RealmBlog, first)
		require.NoError(t, err)
		assert.True(t, account.Deleted)
		assert.NotNil(t, account.DeletedAt)

		// The freed email can be registered again.
		_, err = storage.SaveAccount(domain.RealmBlog, domain.Account{
			Email: "recycled@example.com", PassHash: "x",
		})
		require.NoError(t, err)

		// Restoring the original now collides with the new live account.
		err = storage.RestoreAccount(domain.RealmBlog, first)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, internal_errors.StatusCode(err))
	})

	t.Run("double delete conflicts", func(t *testing.T) {
		id := seedAccount(t, domain.RealmBlog, false)
		require.NoError(t, storage.SoftDeleteAccount(domain.RealmBlog, id))

		err := storage.SoftDeleteAccount(domain.RealmBlog, id)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, internal_errors.StatusCode(err))
	})

	t.Run("restore brings the account back", func(t *testing.T) {
		id := seedAccount(t, domain.RealmBlog, false)
		require.NoError(t, storage.SoftDeleteAccount(domain.RealmBlog, id))
		require.NoError(t, storage.RestoreAccount(domain.RealmBlog, id))

		account, err := storage.AccountById(domain.RealmBlog, id)
		require.NoError(t, err)
		assert.False(t, account.Deleted)
		assert.Nil(t, account.DeletedAt)
	})

	t.Run("restore of a live account conflicts", func(t *testing.T) {
		id := seedAccount(t, domain.RealmBlog, false)
		err := storage.RestoreAccount(domain.RealmBlog, id)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, internal_errors.StatusCode(err))
	})

	t.Run("unknown account", func(t *testing.T) {
		assert.True(t, internal_errors.IsNotFound(storage.SoftDeleteAccount(domain.RealmBlog, 999999)))
		assert.True(t, internal_errors.IsNotFound(storage.RestoreAccount(domain.RealmBlog, 999999)))
	})
}

func TestUpdatePassword(t *testing.T) {
	id := seedAccount(t, domain.RealmBlog, false)
	before, err := storage.AccountById(domain.RealmBlog, id)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, storage.UpdatePassword(domain.RealmBlog, id, "new-hash"))

	after, err := storage.AccountById(domain.RealmBlog, id)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", after.PassHash)
	// Token invalidation hinges on this timestamp moving forward.
	assert.True(t, after.CredentialsChangedAt.After(before.CredentialsChangedAt))
}

func TestTouchLastLogin(t *testing.T) {
	id := seedAccount(t, domain.RealmBlog, false)
	require.NoError(t, storage.TouchLastLogin(domain.RealmBlog, id))

	account, err := storage.AccountById(domain.RealmBlog, id)
	require.NoError(t, err)
	require.NotNil(t, account.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *account.LastLoginAt, time.Minute)
}

func TestAdminAccounts(t *testing.T) {
	adminId := seedAccount(t, domain.RealmCountry, true)
	seedAccount(t, domain.RealmCountry, false)
	deletedAdmin := seedAccount(t, domain.RealmCountry, true)
	require.NoError(t, storage.SoftDeleteAccount(domain.RealmCountry, deletedAdmin))

	admins, err := storage.AdminAccounts(domain.RealmCountry)
	require.NoError(t, err)

	var ids []domain.AccountId
	for _, a := range admins {
		ids = append(ids, a.Id)
	}
	assert.Contains(t, ids, adminId)
	assert.NotContains(t, ids, deletedAdmin)
}
