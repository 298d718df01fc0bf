package hiddenrepo

import "errors"

var (
	// ErrAlreadyHidden: a marker already exists for the trip (uniqueness
	// conflict reported by the store).
	ErrAlreadyHidden = errors.New("trip already hidden")

	// ErrTripNotFound: the marker references no existing trip (referential
	// integrity conflict reported by the store).
	ErrTripNotFound = errors.New("trip not found")

	// ErrNotHidden: an unmark affected zero rows.
	ErrNotHidden = errors.New("trip not hidden")

	// ErrUnauthorized: the store's own access policy rejected the write.
	// Defense in depth beneath the moderation service's admin check.
	ErrUnauthorized = errors.New("not authorized to modify the moderation ledger")
)
