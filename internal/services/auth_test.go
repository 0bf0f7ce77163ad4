package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"expomeet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email string, role domain.UserRole, expiry time.Duration) (string, error) {
	return fmt.Sprintf("token|%s|%s", userID, role), nil
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user with hashed credentials", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewAuthService(users, fakeHasher{}, fakeIssuer{}, time.Hour)

		user, err := svc.SignUp(ctx, "  Ada@Example.COM ", "password123", " Ada ", domain.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "hash:salt:password123", user.PasswordHash)
		assert.Equal(t, "salt", user.Salt)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("unknown role falls back to user", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewAuthService(users, fakeHasher{}, fakeIssuer{}, time.Hour)

		user, err := svc.SignUp(ctx, "ada@example.com", "password123", "Ada", "superuser")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("rejects bad email and short password", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewAuthService(users, fakeHasher{}, fakeIssuer{}, time.Hour)

		_, err := svc.SignUp(ctx, "not-an-email", "password123", "Ada", domain.RoleUser)
		require.True(t, errors.Is(err, domain.ErrInvalidInput))

		_, err = svc.SignUp(ctx, "ada@example.com", "short", "Ada", domain.RoleUser)
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewAuthService(users, fakeHasher{}, fakeIssuer{}, time.Hour)

		_, err := svc.SignUp(ctx, "ada@example.com", "password123", "Ada", domain.RoleUser)
		require.NoError(t, err)
		_, err = svc.SignUp(ctx, "ada@example.com", "password123", "Ada", domain.RoleUser)
		require.True(t, errors.Is(err, domain.ErrDuplicateEmail))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := NewAuthService(users, fakeHasher{}, fakeIssuer{}, time.Hour)

	created, err := svc.SignUp(ctx, "ada@example.com", "password123", "Ada", domain.RoleAdmin)
	require.NoError(t, err)

	t.Run("valid credentials return a token", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "ada@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, fmt.Sprintf("token|%s|admin", created.ID), token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ada@example.com", "wrong-password")
		require.Error(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
		require.Error(t, err)
	})
}
