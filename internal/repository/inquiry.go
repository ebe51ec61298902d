package repository

import (
	"context"
	"errors"
	"fmt"

	"staymypg/internal/models"
)

// InquiryRepository handles the append-only inquiries collection
type InquiryRepository struct {
	store CollectionStore
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(store CollectionStore) *InquiryRepository {
	return &InquiryRepository{store: store}
}

// LoadAll returns every inquiry in creation order
func (r *InquiryRepository) LoadAll(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	if err := readJSON(ctx, r.store, CollectionInquiries, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}

// Create appends an inquiry
func (r *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	inquiries, err := r.LoadAll(ctx)
	if err != nil && !errors.Is(err, ErrCollectionMissing) {
		return fmt.Errorf("failed to load inquiries: %w", err)
	}
	inquiries = append(inquiries, *inquiry)
	return writeJSON(ctx, r.store, CollectionInquiries, inquiries)
}
