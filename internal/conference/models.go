package conference

import "time"

// Defaults applied on creation when the organizer omits fields, mirroring the
// behavior attendees of the hosted deployments rely on.
const (
	DefaultCity         = "London"
	DefaultMaxAttendees = 500
)

// DefaultTopics is copied per conference so callers cannot alias the slice.
func DefaultTopics() []string {
	return []string{"Default", "Programming Languages"}
}

// Conference is owned by the organizer profile. SeatsAvailable is mutated
// only by the registration engine and holds 0 <= SeatsAvailable inside a
// transaction at all times; the upper bound against MaxAttendees is enforced
// by clamping on unregister.
type Conference struct {
	ID             string    `json:"id"`
	OrganizerID    string    `json:"organizerUserId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	City           string    `json:"city"`
	Topics         []string  `json:"topics"`
	Month          int       `json:"month"`
	MaxAttendees   int       `json:"maxAttendees"`
	SeatsAvailable int       `json:"seatsAvailable"`
	StartDate      time.Time `json:"startDate,omitzero"`
	EndDate        time.Time `json:"endDate,omitzero"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SoldOut reports whether no seats remain.
func (c *Conference) SoldOut() bool {
	return c.SeatsAvailable <= 0
}
