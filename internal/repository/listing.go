package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staymypg/internal/models"
)

// ListingRepository owns the listings collection. It is the only writer.
type ListingRepository struct {
	store CollectionStore
}

// NewListingRepository creates a new listing repository
func NewListingRepository(store CollectionStore) *ListingRepository {
	return &ListingRepository{store: store}
}

// LoadAll returns the full collection. Errors wrap ErrStoreUnavailable.
func (r *ListingRepository) LoadAll(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := readJSON(ctx, r.store, CollectionListings, &listings); err != nil {
		return nil, err
	}
	for i := range listings {
		listings[i].Normalize()
	}
	return listings, nil
}

// LoadForWrite is LoadAll for read-modify-write callers: a collection that
// was never written starts empty, a corrupt one is still an error
func (r *ListingRepository) LoadForWrite(ctx context.Context) ([]models.Listing, error) {
	listings, err := r.LoadAll(ctx)
	if errors.Is(err, ErrCollectionMissing) {
		return []models.Listing{}, nil
	}
	return listings, err
}

// SaveAll replaces the persisted collection with listings
func (r *ListingRepository) SaveAll(ctx context.Context, listings []models.Listing) error {
	out := make([]models.Listing, len(listings))
	copy(out, listings)
	for i := range out {
		out[i].Normalize()
	}
	return writeJSON(ctx, r.store, CollectionListings, out)
}

// FindByID retrieves a listing by id
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	listings, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	for i := range listings {
		if listings[i].ID == id {
			return &listings[i], nil
		}
	}
	return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
}

// FindByOwnerContact returns the index of the listing owned by mobile, or -1
func FindByOwnerContact(listings []models.Listing, mobile string) int {
	for i := range listings {
		if listings[i].OwnerMobile == mobile {
			return i
		}
	}
	return -1
}
