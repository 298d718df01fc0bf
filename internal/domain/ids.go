package domain

import (
	"errors"

	"github.com/google/uuid"
)

// UserID is the stable identifier supplied by the external identity provider.
// We model it as an opaque identifier: its format is controlled by the IdP.
// An empty UserID means the caller is anonymous.
type UserID string

// TripID is an internal identifier for a trip record. Valid trip ids are
// version-4 style UUIDs in canonical textual form.
type TripID string

var ErrInvalidTripID = errors.New("invalid trip id")

// ParseTripID is the single format gate for externally supplied trip ids.
// Malformed ids are rejected here, before any storage call is made.
func ParseTripID(raw string) (TripID, error) {
	if len(raw) != 36 {
		return "", ErrInvalidTripID
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrInvalidTripID
	}
	return TripID(u.String()), nil
}
