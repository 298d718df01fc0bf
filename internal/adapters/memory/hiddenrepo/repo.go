package hiddenrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/hiddenrepo"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

// TripExists lets the ledger emulate the referential-integrity check the
// relational backend gets from its foreign key.
type TripExists interface {
	GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error)
}

// Repo is an in-memory implementation of hiddenrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu      sync.Mutex
	markers map[domain.TripID]time.Time
	trips   TripExists
}

func NewRepo(trips TripExists) *Repo {
	return &Repo{
		markers: make(map[domain.TripID]time.Time),
		trips:   trips,
	}
}

func (r *Repo) MarkHidden(ctx context.Context, id domain.TripID, at time.Time) error {
	if r.trips != nil {
		if _, err := r.trips.GetByID(ctx, id); err != nil {
			if errors.Is(err, triprepo.ErrNotFound) {
				return hiddenrepo.ErrTripNotFound
			}
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Check-and-insert under one lock: concurrent double-hide resolves to
	// exactly one success, mirroring the uniqueness constraint.
	if _, ok := r.markers[id]; ok {
		return hiddenrepo.ErrAlreadyHidden
	}
	r.markers[id] = at.UTC()
	return nil
}

func (r *Repo) UnmarkHidden(ctx context.Context, id domain.TripID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.markers[id]; !ok {
		return hiddenrepo.ErrNotHidden
	}
	delete(r.markers, id)
	return nil
}

func (r *Repo) IsHidden(ctx context.Context, id domain.TripID) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.markers[id]
	return ok, nil
}

func (r *Repo) ListHiddenIDs(ctx context.Context) ([]domain.TripID, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TripID, 0, len(r.markers))
	for id := range r.markers {
		out = append(out, id)
	}
	return out, nil
}

// Contains implements the memory trip repo's HiddenIndex so public listings
// can anti-join against the ledger at query time.
func (r *Repo) Contains(id domain.TripID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.markers[id]
	return ok
}
