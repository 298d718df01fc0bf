package hiddenrepo

import (
	"context"
	"time"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

// Repository is the moderation ledger: the append/delete set of hidden-trip
// markers. A marker's existence is the only signal of hidden state; the trip
// record itself is never touched by ledger mutations.
//
// Only the moderation and trips services may depend on this port. Every other
// read path goes through their resolver, so all paths share one visibility
// rule.
type Repository interface {
	// MarkHidden inserts the marker for id. Conflicts are detected by the
	// store itself (uniqueness and referential integrity), not by a
	// read-then-write, so two racing calls resolve to exactly one success.
	MarkHidden(ctx context.Context, id domain.TripID, at time.Time) error

	// UnmarkHidden deletes the marker for id. It reports ErrNotHidden when
	// zero rows were affected: "nothing to undo" stays distinguishable from
	// success.
	UnmarkHidden(ctx context.Context, id domain.TripID) error

	IsHidden(ctx context.Context, id domain.TripID) (bool, error)

	// ListHiddenIDs returns all marker ids in one query, for bulk in-memory
	// joins against trip listings.
	ListHiddenIDs(ctx context.Context) ([]domain.TripID, error)
}
