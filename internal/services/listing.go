package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"staymypg/internal/models"
	"staymypg/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ListingNotifier is told about moderation events
type ListingNotifier interface {
	ListingSubmitted(listing models.Listing)
	ListingApproved(id string)
}

// ListingOptions configures a ListingService
type ListingOptions struct {
	// DefaultGender is applied to new listings submitted without a gender
	DefaultGender string
	// Areas is the location vocabulary; empty accepts any location
	Areas    []string
	Notifier ListingNotifier
}

// ListingService handles search, moderation and owner submissions
type ListingService struct {
	listingRepo   *repository.ListingRepository
	notifier      ListingNotifier
	defaultGender string
	areas         []string
	newID         func() string
}

// NewListingService creates a new listing service
func NewListingService(listingRepo *repository.ListingRepository, opts ListingOptions) *ListingService {
	return &ListingService{
		listingRepo:   listingRepo,
		notifier:      opts.Notifier,
		defaultGender: opts.DefaultGender,
		areas:         slices.Clone(opts.Areas),
		newID:         newID,
	}
}

// newID returns a time-ordered unique id
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// OwnerSubmission is an owner's listing form. Nil fields are not part of
// the submission and keep their stored value on update.
type OwnerSubmission struct {
	OwnerName    *string
	OwnerAddress *string
	OwnerAge     *string
	Name         *string
	Location     *string
	Gender       *string
	Rent         *int
	Sharing      models.Sharing
	TotalRooms   *int
	VacantBeds   *int
	WiFi         *bool
	Food         *bool
	Laundry      *bool
	AC           *bool
}

// MediaRefs are references returned by the media storage for this
// submission. Empty slots keep the stored reference.
type MediaRefs struct {
	Image   string
	Gallery [models.GallerySlots]string
}

// Areas returns the location vocabulary
func (s *ListingService) Areas() []string {
	return slices.Clone(s.areas)
}

// loadForRead degrades an unreadable store to an empty collection
func (s *ListingService) loadForRead(ctx context.Context) []models.Listing {
	listings, err := s.listingRepo.LoadAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Listing store unavailable, serving empty collection")
		return []models.Listing{}
	}
	return listings
}

// SearchListings returns approved listings matching c
func (s *ListingService) SearchListings(ctx context.Context, c Criteria) []models.Listing {
	return FilterListings(s.loadForRead(ctx), c, true)
}

// ListPendingListings returns the admin moderation queue in store order
func (s *ListingService) ListPendingListings(ctx context.Context) []models.Listing {
	listings := s.loadForRead(ctx)
	pending := make([]models.Listing, 0)
	for _, l := range listings {
		if l.ListingStatus == models.StatusPending {
			pending = append(pending, l)
		}
	}
	return pending
}

// GetListing retrieves a listing by id regardless of status
func (s *ListingService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("pg_id", id).Msg("Listing store unavailable on lookup")
		}
		return nil, fmt.Errorf("listing %s: %w", id, repository.ErrNotFound)
	}
	return listing, nil
}

// GetApprovedListing is the tenant details lookup: listings still waiting
// for moderation read as not found
func (s *ListingService) GetApprovedListing(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.IsApproved() {
		return nil, fmt.Errorf("listing %s: %w", id, repository.ErrNotFound)
	}
	return listing, nil
}

// ApproveListing marks a listing approved and verified. Unknown ids are a no-op.
func (s *ListingService) ApproveListing(ctx context.Context, id string) error {
	listings, err := s.listingRepo.LoadForWrite(ctx)
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}

	id = strings.TrimSpace(id)
	idx := slices.IndexFunc(listings, func(l models.Listing) bool { return l.ID == id })
	if idx < 0 {
		log.Info().Str("pg_id", id).Msg("Approve requested for unknown listing")
		return nil
	}

	listings[idx].ListingStatus = models.StatusApproved
	listings[idx].IsVerified = true

	if err := s.listingRepo.SaveAll(ctx, listings); err != nil {
		return fmt.Errorf("failed to save listings: %w", err)
	}

	if s.notifier != nil {
		s.notifier.ListingApproved(id)
	}
	return nil
}

// SubmitOwnerListing creates or updates the listing owned by ownerMobile.
// Either way the listing goes back to pending.
func (s *ListingService) SubmitOwnerListing(ctx context.Context, sub OwnerSubmission, ownerMobile string, media MediaRefs) (*models.Listing, error) {
	ownerMobile = strings.TrimSpace(ownerMobile)
	if err := s.validateSubmission(sub, ownerMobile); err != nil {
		return nil, err
	}

	listings, err := s.listingRepo.LoadForWrite(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	idx := repository.FindByOwnerContact(listings, ownerMobile)
	if idx < 0 {
		listings = append(listings, models.Listing{
			ID:          s.newID(),
			OwnerMobile: ownerMobile,
			Gender:      s.defaultGender,
			Sharing:     models.Sharing{},
		})
		idx = len(listings) - 1
	}

	listing := &listings[idx]
	listing.Normalize()
	applySubmission(listing, sub)
	applyMedia(listing, media)
	listing.ListingStatus = models.StatusPending
	listing.IsVerified = false
	listing.Normalize()

	if err := s.listingRepo.SaveAll(ctx, listings); err != nil {
		return nil, fmt.Errorf("failed to save listings: %w", err)
	}

	result := *listing
	if s.notifier != nil {
		s.notifier.ListingSubmitted(result)
	}
	return &result, nil
}

// CheckSubmission reports whether SubmitOwnerListing could accept sub right
// now, so callers can reject it before storing its uploads
func (s *ListingService) CheckSubmission(ctx context.Context, sub OwnerSubmission, ownerMobile string) error {
	if err := s.validateSubmission(sub, strings.TrimSpace(ownerMobile)); err != nil {
		return err
	}
	if _, err := s.listingRepo.LoadForWrite(ctx); err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	return nil
}

func (s *ListingService) validateSubmission(sub OwnerSubmission, ownerMobile string) error {
	if ownerMobile == "" {
		return fmt.Errorf("owner mobile is required: %w", ErrInvalidInput)
	}
	if sub.Location != nil && len(s.areas) > 0 && !slices.Contains(s.areas, *sub.Location) {
		return fmt.Errorf("unknown location %q: %w", *sub.Location, ErrInvalidInput)
	}
	return nil
}

func applySubmission(l *models.Listing, sub OwnerSubmission) {
	setString(&l.OwnerName, sub.OwnerName)
	setString(&l.OwnerAddress, sub.OwnerAddress)
	setString(&l.OwnerAge, sub.OwnerAge)
	setString(&l.Name, sub.Name)
	setString(&l.Location, sub.Location)
	setString(&l.Gender, sub.Gender)
	setCount(&l.Rent, sub.Rent)
	setCount(&l.TotalRooms, sub.TotalRooms)
	setCount(&l.VacantBeds, sub.VacantBeds)
	setBool(&l.WiFi, sub.WiFi)
	setBool(&l.Food, sub.Food)
	setBool(&l.Laundry, sub.Laundry)
	setBool(&l.AC, sub.AC)
	if sub.Sharing != nil {
		l.Sharing = slices.Clone(sub.Sharing)
	}
}

func applyMedia(l *models.Listing, media MediaRefs) {
	if media.Image != "" {
		l.Image = media.Image
	}
	for i, ref := range media.Gallery {
		if ref != "" {
			l.Gallery[i] = ref
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// setCount stores a non-negative count; negative input becomes 0
func setCount(dst *int, v *int) {
	if v == nil {
		return
	}
	*dst = max(*v, 0)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
