package triprepo

import (
	"context"
	"time"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

// SearchFilters narrow the public trip listing. Zero values mean "no filter".
type SearchFilters struct {
	City    string
	Country string

	// From/To bound the trip's date range; flexible-date trips always match.
	From *time.Time
	To   *time.Time
}

// Repository provides access to persisted trips.
//
// ListPublic MUST already exclude trips hidden by moderation: the exclusion is
// part of the store contract (a pre-filtered view evaluated atomically per
// query), never post-filtering in application code. This is what keeps a
// freshly hidden trip out of every page of a paginated result.
type Repository interface {
	Create(ctx context.Context, t domain.Trip) error
	Delete(ctx context.Context, id domain.TripID) error

	GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error)

	// ListByHostOrJoinee returns every trip the user hosts or has joined,
	// hidden or not. Hidden-state decoration is the caller's job.
	ListByHostOrJoinee(ctx context.Context, user domain.UserID) ([]domain.Trip, error)

	// ListPublic returns public trips matching the filters, excluding hidden
	// trips at the query level.
	ListPublic(ctx context.Context, f SearchFilters) ([]domain.Trip, error)

	// ListAll returns every trip regardless of visibility, for the moderation
	// dashboard.
	ListAll(ctx context.Context) ([]domain.Trip, error)
}
