package services

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"staymypg/internal/models"
)

// SortOrder is the requested ordering of search results
type SortOrder int

const (
	SortNone SortOrder = iota
	SortRentAscending
	SortRentDescending
)

// Criteria is a tenant search. Zero values mean "not filtered".
type Criteria struct {
	Location string
	Gender   string
	Sharing  *int
	WiFi     bool
	Food     bool
	AC       bool
	Sort     SortOrder
}

// ParseCriteria reads search criteria from query parameters.
// Malformed sharing values are ignored rather than rejected.
func ParseCriteria(q url.Values) Criteria {
	c := Criteria{
		Location: strings.TrimSpace(q.Get("location")),
		Gender:   strings.TrimSpace(q.Get("gender")),
		WiFi:     models.IsTruthy(q.Get("wifi")),
		Food:     models.IsTruthy(q.Get("food")),
		AC:       models.IsTruthy(q.Get("ac")),
		Sort:     parseSort(q.Get("sort")),
	}
	if v := strings.TrimSpace(q.Get("sharing")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Sharing = &n
		}
	}
	return c
}

func parseSort(v string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "low", "rent_asc", "asc":
		return SortRentAscending
	case "high", "rent_desc", "desc":
		return SortRentDescending
	default:
		return SortNone
	}
}

// Matches reports whether l satisfies every supplied criterion
func (c Criteria) Matches(l *models.Listing) bool {
	if c.Location != "" && l.Location != c.Location {
		return false
	}
	if c.Gender != "" && !strings.EqualFold(l.Gender, c.Gender) {
		return false
	}
	if c.Sharing != nil && !l.Sharing.Contains(*c.Sharing) {
		return false
	}
	if c.WiFi && !l.WiFi {
		return false
	}
	if c.Food && !l.Food {
		return false
	}
	if c.AC && !l.AC {
		return false
	}
	return true
}

// FilterListings returns the listings matching c, sorted as requested.
// The input slice is never modified; ties in rent keep their input order.
func FilterListings(listings []models.Listing, c Criteria, approvedOnly bool) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if approvedOnly && !listings[i].IsApproved() {
			continue
		}
		if !c.Matches(&listings[i]) {
			continue
		}
		out = append(out, listings[i])
	}

	switch c.Sort {
	case SortRentAscending:
		slices.SortStableFunc(out, func(a, b models.Listing) int {
			return cmp.Compare(a.Rent, b.Rent)
		})
	case SortRentDescending:
		slices.SortStableFunc(out, func(a, b models.Listing) int {
			return cmp.Compare(b.Rent, a.Rent)
		})
	}
	return out
}
