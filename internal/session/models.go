package session

import (
	"time"

	dErrors "confhub/pkg/domain-errors"
)

// Type classifies a session on the conference program.
type Type string

const (
	TypeLecture  Type = "LECTURE"
	TypeKeynote  Type = "KEYNOTE"
	TypeWorkshop Type = "WORKSHOP"
)

var validTypes = map[Type]bool{
	TypeLecture:  true,
	TypeKeynote:  true,
	TypeWorkshop: true,
}

// ParseType validates a session type string from a request.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !validTypes[t] {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "invalid session type %q", s)
	}
	return t, nil
}

// Session is owned by its conference and immutable after creation. Speaker is
// a plain name; an empty speaker means unannounced and is ignored by the
// featured-speaker aggregation.
type Session struct {
	ID              string    `json:"id"`
	ConferenceID    string    `json:"conferenceId"`
	Name            string    `json:"name"`
	Highlights      []string  `json:"highlights"`
	Speaker         string    `json:"speaker"`
	Date            time.Time `json:"date,omitzero"`
	StartTime       string    `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Type            Type      `json:"typeOfSession"`
	CreatedAt       time.Time `json:"createdAt"`
}
