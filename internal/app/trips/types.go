package trips

import "time"

// CreateTripInput carries host-provided fields for a new trip posting.
// Either a start/end date pair or FlexibleDates must be set, not both.
type CreateTripInput struct {
	Title   string
	City    string
	Country string

	StartDate     *time.Time
	EndDate       *time.Time
	FlexibleDates bool

	Rooms     int
	SpareBeds int

	IsPublic bool
}
