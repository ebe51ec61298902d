package services

import (
	"net/url"
	"testing"

	"staymypg/internal/models"

	"github.com/stretchr/testify/assert"
)

func ids(listings []models.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func approved(id, location string, rent int) models.Listing {
	return models.Listing{ID: id, Location: location, Rent: rent, ListingStatus: models.StatusApproved}
}

func TestFilterListings_LocationOnly(t *testing.T) {
	listings := []models.Listing{
		approved("1", "Koramangala", 5000),
		approved("2", "HSR Layout", 6000),
		{ID: "3", Location: "Koramangala", ListingStatus: models.StatusPending},
		approved("4", "Koramangala", 4000),
		approved("5", "koramangala", 4000),
	}

	got := FilterListings(listings, Criteria{Location: "Koramangala"}, true)
	assert.Equal(t, []string{"1", "4"}, ids(got))
}

func TestFilterListings_AdminViewIncludesPending(t *testing.T) {
	listings := []models.Listing{
		approved("1", "A", 1),
		{ID: "2", Location: "A", ListingStatus: models.StatusPending},
	}
	assert.Equal(t, []string{"1", "2"}, ids(FilterListings(listings, Criteria{}, false)))
	assert.Equal(t, []string{"1"}, ids(FilterListings(listings, Criteria{}, true)))
}

func TestFilterListings_CombinedPredicates(t *testing.T) {
	two := 2
	listings := []models.Listing{
		{ID: "1", Gender: "Girls", Sharing: models.Sharing{1, 2}, WiFi: true, Food: true, ListingStatus: models.StatusApproved},
		{ID: "2", Gender: "girls", Sharing: models.Sharing{2}, WiFi: true, ListingStatus: models.StatusApproved},
		{ID: "3", Gender: "Boys", Sharing: models.Sharing{2}, WiFi: true, Food: true, ListingStatus: models.StatusApproved},
		{ID: "4", Gender: "GIRLS", WiFi: true, Food: true, ListingStatus: models.StatusApproved},
		{ID: "5", Gender: "Girls", Sharing: models.Sharing{2}, WiFi: true, Food: true, AC: true, ListingStatus: models.StatusApproved},
	}

	got := FilterListings(listings, Criteria{Gender: "GIRLS", Sharing: &two, WiFi: true, Food: true}, true)
	assert.Equal(t, []string{"1", "5"}, ids(got))

	got = FilterListings(listings, Criteria{AC: true}, true)
	assert.Equal(t, []string{"5"}, ids(got))
}

func TestFilterListings_StableRentSort(t *testing.T) {
	listings := []models.Listing{
		approved("a", "X", 7000),
		approved("b", "X", 5000),
		approved("c", "X", 7000),
		approved("d", "X", 0),
		approved("e", "X", 5000),
	}

	asc := FilterListings(listings, Criteria{Sort: SortRentAscending}, true)
	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, ids(asc))

	desc := FilterListings(listings, Criteria{Sort: SortRentDescending}, true)
	assert.Equal(t, []string{"a", "c", "b", "e", "d"}, ids(desc))

	// input untouched
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(listings))
}

func TestFilterListings_DistinctRentsReverse(t *testing.T) {
	listings := []models.Listing{approved("a", "X", 3), approved("b", "X", 1), approved("c", "X", 2)}

	asc := ids(FilterListings(listings, Criteria{Sort: SortRentAscending}, true))
	desc := ids(FilterListings(listings, Criteria{Sort: SortRentDescending}, true))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestParseCriteria(t *testing.T) {
	q := url.Values{
		"location": {" Indiranagar "},
		"gender":   {"girls"},
		"sharing":  {"3"},
		"wifi":     {"on"},
		"food":     {"false"},
		"ac":       {"1"},
		"sort":     {"high"},
	}
	c := ParseCriteria(q)
	assert.Equal(t, "Indiranagar", c.Location)
	assert.Equal(t, "girls", c.Gender)
	if assert.NotNil(t, c.Sharing) {
		assert.Equal(t, 3, *c.Sharing)
	}
	assert.True(t, c.WiFi)
	assert.False(t, c.Food)
	assert.True(t, c.AC)
	assert.Equal(t, SortRentDescending, c.Sort)
}

func TestParseCriteria_MalformedAndEmpty(t *testing.T) {
	c := ParseCriteria(url.Values{"sharing": {"two"}, "sort": {"random"}})
	assert.Nil(t, c.Sharing)
	assert.Equal(t, SortNone, c.Sort)
	assert.Equal(t, Criteria{}, ParseCriteria(url.Values{}))

	assert.Equal(t, SortRentAscending, ParseCriteria(url.Values{"sort": {"LOW"}}).Sort)
	assert.Equal(t, SortRentAscending, ParseCriteria(url.Values{"sort": {"rent_asc"}}).Sort)
}
