package services

import (
	"context"
	"testing"

	"staymypg/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService() *UserService {
	svc := NewUserService(repository.NewUserRepository(repository.NewMemoryCollectionStore()))
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "asha", "asha@example.com", "pa55word")
	require.NoError(t, err)
	assert.NotEqual(t, "pa55word", u.Password, "password must not be stored in plain text")

	got, err := svc.Authenticate(ctx, "ASHA@example.com", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, "asha", got.Username)

	_, err = svc.Authenticate(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RegisterRejectsDuplicatesAndBlanks(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "asha", "asha@example.com", "x")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "other", "Asha@Example.com", "y")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(ctx, " ", "b@example.com", "y")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "b", "b@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
