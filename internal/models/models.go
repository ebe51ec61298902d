package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ListingStatus is the moderation state of a listing
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
)

// GallerySlots is the number of gallery media slots per listing
const GallerySlots = 3

// Listing represents one PG (paying guest) unit offered for rent
type Listing struct {
	ID            string        `json:"id"`
	OwnerName     string        `json:"ownerName"`
	OwnerMobile   string        `json:"ownerMobile"`
	OwnerAddress  string        `json:"ownerAddress"`
	OwnerAge      string        `json:"ownerAge"`
	Name          string        `json:"name"`
	Location      string        `json:"location"`
	Gender        string        `json:"gender"`
	Rent          int           `json:"rent"`
	Sharing       Sharing       `json:"sharing"`
	TotalRooms    int           `json:"totalRooms"`
	VacantBeds    int           `json:"vacantBeds"`
	Occupied      int           `json:"occupied"`
	WiFi          bool          `json:"wifi"`
	Food          bool          `json:"food"`
	Laundry       bool          `json:"laundry"`
	AC            bool          `json:"ac"`
	Image         string        `json:"image"`
	Gallery       []string      `json:"gallery"`
	ListingStatus ListingStatus `json:"listingStatus"`
	IsVerified    bool          `json:"isVerified"`
}

// UnmarshalJSON decodes a listing leniently so one loosely typed record
// never makes the collection unreadable: quoted or malformed numbers become
// their value or 0, booleans may be stored as "on"/"true"/"1", free-form
// text may be stored as a number, and gallery may be a single string.
func (l *Listing) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*l = Listing{
		ID:            lenientString(fields["id"]),
		OwnerName:     lenientString(fields["ownerName"]),
		OwnerMobile:   lenientString(fields["ownerMobile"]),
		OwnerAddress:  lenientString(fields["ownerAddress"]),
		OwnerAge:      lenientString(fields["ownerAge"]),
		Name:          lenientString(fields["name"]),
		Location:      lenientString(fields["location"]),
		Gender:        lenientString(fields["gender"]),
		Rent:          lenientInt(fields["rent"]),
		TotalRooms:    lenientInt(fields["totalRooms"]),
		VacantBeds:    lenientInt(fields["vacantBeds"]),
		Occupied:      lenientInt(fields["occupied"]),
		WiFi:          lenientBool(fields["wifi"]),
		Food:          lenientBool(fields["food"]),
		Laundry:       lenientBool(fields["laundry"]),
		AC:            lenientBool(fields["ac"]),
		Image:         lenientString(fields["image"]),
		Gallery:       lenientStrings(fields["gallery"]),
		ListingStatus: ListingStatus(lenientString(fields["listingStatus"])),
		IsVerified:    lenientBool(fields["isVerified"]),
	}
	if raw, ok := fields["sharing"]; ok {
		if err := l.Sharing.UnmarshalJSON(raw); err != nil {
			l.Sharing = Sharing{}
		}
	}
	return nil
}

// lenientString returns strings as is and numbers or booleans as their text.
// Objects and arrays read as "".
func lenientString(raw json.RawMessage) string {
	var v interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64, bool:
		return strings.TrimSpace(string(raw))
	default:
		return ""
	}
}

func lenientInt(raw json.RawMessage) int {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	return ParseInt(s)
}

func lenientBool(raw json.RawMessage) bool {
	var v interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return IsTruthy(t)
	default:
		return false
	}
}

// lenientStrings accepts a list of references or a single one
func lenientStrings(raw json.RawMessage) []string {
	var v interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, _ := item.(string)
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

// IsTruthy reports whether a form or query value means "checked"
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

// ParseInt parses form or JSON numeric input, returning 0 when it is not a number
func ParseInt(value string) int {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int(f)
	}
	return 0
}

// Normalize fills in every field so the record is complete on disk.
// Occupied is recomputed and is not clamped when VacantBeds exceeds TotalRooms.
func (l *Listing) Normalize() {
	if l.ListingStatus == "" {
		l.ListingStatus = StatusPending
	}
	if l.Sharing == nil {
		l.Sharing = Sharing{}
	}
	gallery := make([]string, GallerySlots)
	copy(gallery, l.Gallery)
	l.Gallery = gallery
	l.Occupied = l.TotalRooms - l.VacantBeds
}

// IsApproved reports whether tenants may see the listing
func (l *Listing) IsApproved() bool {
	return l.ListingStatus == StatusApproved
}

// Sharing holds the room-occupancy options of a listing. On the wire it is
// either a single number, a list of numbers, or a comma separated string.
type Sharing []int

// Contains reports whether n is one of the options
func (s Sharing) Contains(n int) bool {
	for _, v := range s {
		if v == n {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts 2, [2,3], "2" and "2,3". Unparseable entries are dropped.
func (s *Sharing) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Sharing{}
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid sharing value: %w", err)
	}

	out := Sharing{}
	var add func(v interface{})
	add = func(v interface{}) {
		switch t := v.(type) {
		case float64:
			out = append(out, int(t))
		case string:
			out = append(out, ParseSharing(t)...)
		case []interface{}:
			for _, item := range t {
				add(item)
			}
		}
	}
	add(raw)

	*s = out
	return nil
}

// ParseSharing parses "2" or "2,3" form input
func ParseSharing(value string) Sharing {
	out := Sharing{}
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Inquiry is a tenant's contact request about a listing
type Inquiry struct {
	ID        string `json:"id"`
	PGID      string `json:"pgId"`
	PGName    string `json:"pgName"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone"`
	Message   string `json:"message"`
	Date      string `json:"date"`
}

// InquiryDateLayout is the human-readable layout of Inquiry.Date
const InquiryDateLayout = "02 Jan 2006, 03:04 PM"

// User represents a registered account
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` // bcrypt hash
}

// SessionUser is the identity attached to a session
type SessionUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session represents a logged-in client
type Session struct {
	ID        string      `json:"id"`
	User      SessionUser `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}
