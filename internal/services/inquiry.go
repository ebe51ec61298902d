package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staymypg/internal/models"
	"staymypg/internal/repository"

	"github.com/rs/zerolog/log"
)

// InquiryService handles tenant inquiries
type InquiryService struct {
	inquiryRepo *repository.InquiryRepository
	listingRepo *repository.ListingRepository
	now         func() time.Time
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(inquiryRepo *repository.InquiryRepository, listingRepo *repository.ListingRepository) *InquiryService {
	return &InquiryService{
		inquiryRepo: inquiryRepo,
		listingRepo: listingRepo,
		now:         time.Now,
	}
}

// InquiryRequest represents a tenant's contact form
type InquiryRequest struct {
	PGID      string `json:"pgId"`
	PGName    string `json:"pgName"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone"`
	Message   string `json:"message"`
}

// RecordInquiry appends a new inquiry
func (s *InquiryService) RecordInquiry(ctx context.Context, req InquiryRequest) (*models.Inquiry, error) {
	req.PGID = strings.TrimSpace(req.PGID)
	req.UserName = strings.TrimSpace(req.UserName)
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	req.UserPhone = strings.TrimSpace(req.UserPhone)

	if req.PGID == "" || req.UserName == "" {
		return nil, fmt.Errorf("pgId and userName are required: %w", ErrInvalidInput)
	}
	if req.UserEmail == "" && req.UserPhone == "" {
		return nil, fmt.Errorf("userEmail or userPhone is required: %w", ErrInvalidInput)
	}

	pgName := strings.TrimSpace(req.PGName)
	if pgName == "" {
		if listing, err := s.listingRepo.FindByID(ctx, req.PGID); err == nil {
			pgName = listing.Name
		} else {
			log.Debug().Err(err).Str("pg_id", req.PGID).Msg("Inquiry for listing without a resolvable name")
		}
	}

	inquiry := &models.Inquiry{
		ID:        newID(),
		PGID:      req.PGID,
		PGName:    pgName,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		UserPhone: req.UserPhone,
		Message:   strings.TrimSpace(req.Message),
		Date:      s.now().Format(models.InquiryDateLayout),
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to save inquiry: %w", err)
	}
	return inquiry, nil
}

// ListInquiries returns inquiries, optionally only those for pgID
func (s *InquiryService) ListInquiries(ctx context.Context, pgID string) []models.Inquiry {
	inquiries, err := s.inquiryRepo.LoadAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Inquiry store unavailable, serving empty collection")
		return []models.Inquiry{}
	}
	if pgID == "" {
		return inquiries
	}
	out := make([]models.Inquiry, 0)
	for _, q := range inquiries {
		if q.PGID == pgID {
			out = append(out, q)
		}
	}
	return out
}
