package domain

import "time"

// Location of a posted trip. Matching works at city granularity.
type Location struct {
	City    string
	Country string
}

// RoomConfig describes the accommodation being shared.
type RoomConfig struct {
	Rooms     int
	SpareBeds int
}

// Trip is the canonical internal trip representation. Storage adapters map
// their row shapes to and from it exactly once, at the storage boundary.
//
// Hidden state is deliberately NOT a field here: it lives in the moderation
// ledger and is joined in per read (see TripView).
type Trip struct {
	ID     TripID
	HostID UserID

	Title    string
	Location Location

	// StartDate/EndDate are nil when the host picked flexible dates.
	StartDate     *time.Time
	EndDate       *time.Time
	FlexibleDates bool

	Rooms    RoomConfig
	IsPublic bool

	// JoineeIDs are the travellers matched onto this trip.
	JoineeIDs []UserID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TripView is a trip decorated with the caller-dependent moderation fact.
// It is recomputed on every read and never persisted, so it cannot go stale
// relative to the ledger.
type TripView struct {
	Trip

	IsHiddenByAdmin bool
}
