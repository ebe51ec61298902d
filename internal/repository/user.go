package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staymypg/internal/models"
)

// UserRepository handles the append-only users collection
type UserRepository struct {
	store CollectionStore
}

// NewUserRepository creates a new user repository
func NewUserRepository(store CollectionStore) *UserRepository {
	return &UserRepository{store: store}
}

// LoadAll returns every user
func (r *UserRepository) LoadAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := readJSON(ctx, r.store, CollectionUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create appends a user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	users, err := r.LoadAll(ctx)
	if err != nil && !errors.Is(err, ErrCollectionMissing) {
		return fmt.Errorf("failed to load users: %w", err)
	}
	users = append(users, *user)
	return writeJSON(ctx, r.store, CollectionUsers, users)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.LoadAll(ctx)
	if err != nil {
		if errors.Is(err, ErrCollectionMissing) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
}
