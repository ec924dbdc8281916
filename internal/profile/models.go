package profile

import (
	"slices"
	"time"

	dErrors "confhub/pkg/domain-errors"
)

// TeeShirtSize is the attendee swag size recorded on the profile.
type TeeShirtSize string

const (
	SizeNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	SizeXS           TeeShirtSize = "XS"
	SizeS            TeeShirtSize = "S"
	SizeM            TeeShirtSize = "M"
	SizeL            TeeShirtSize = "L"
	SizeXL           TeeShirtSize = "XL"
	SizeXXL          TeeShirtSize = "XXL"
)

var validSizes = map[TeeShirtSize]bool{
	SizeNotSpecified: true,
	SizeXS:           true,
	SizeS:            true,
	SizeM:            true,
	SizeL:            true,
	SizeXL:           true,
	SizeXXL:          true,
}

// ParseTeeShirtSize validates a size string from a request.
func ParseTeeShirtSize(s string) (TeeShirtSize, error) {
	size := TeeShirtSize(s)
	if !validSizes[size] {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "invalid tee shirt size %q", s)
	}
	return size, nil
}

// Profile is the per-user record. ConferenceIDs and WishlistIDs are ordered
// reference lists with set semantics: an ID appears at most once in each.
// The profile is the single mutator of both lists and they stay small, so
// membership checks scan linearly.
type Profile struct {
	UserID        string       `json:"userId"`
	DisplayName   string       `json:"displayName"`
	MainEmail     string       `json:"mainEmail"`
	TeeShirtSize  TeeShirtSize `json:"teeShirtSize"`
	ConferenceIDs []string     `json:"conferenceKeysToAttend"`
	WishlistIDs   []string     `json:"sessionWishlist"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Attending reports whether the profile is registered for the conference.
func (p *Profile) Attending(conferenceID string) bool {
	return slices.Contains(p.ConferenceIDs, conferenceID)
}

// AddConference appends the conference reference. Callers check membership
// first; the guard here preserves the uniqueness invariant regardless.
func (p *Profile) AddConference(conferenceID string) {
	if !p.Attending(conferenceID) {
		p.ConferenceIDs = append(p.ConferenceIDs, conferenceID)
	}
}

// RemoveConference drops the conference reference, preserving order.
func (p *Profile) RemoveConference(conferenceID string) {
	p.ConferenceIDs = slices.DeleteFunc(p.ConferenceIDs, func(id string) bool {
		return id == conferenceID
	})
}

// OnWishlist reports whether the session is wishlisted.
func (p *Profile) OnWishlist(sessionID string) bool {
	return slices.Contains(p.WishlistIDs, sessionID)
}

// AddWish appends the session reference if not already present.
func (p *Profile) AddWish(sessionID string) {
	if !p.OnWishlist(sessionID) {
		p.WishlistIDs = append(p.WishlistIDs, sessionID)
	}
}

// RemoveWish drops the session reference, preserving order.
func (p *Profile) RemoveWish(sessionID string) {
	p.WishlistIDs = slices.DeleteFunc(p.WishlistIDs, func(id string) bool {
		return id == sessionID
	})
}
