package triprepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

// HiddenIndex is the ledger-side membership check ListPublic consults.
// The memory backend has no SQL view, so the anti-join against the moderation
// ledger happens here, inside the query, never in application code.
type HiddenIndex interface {
	Contains(id domain.TripID) bool
}

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byID   map[domain.TripID]domain.Trip
	hidden HiddenIndex
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]domain.Trip),
	}
}

// BindHiddenIndex wires the moderation ledger's hidden set into public
// listings. Until bound, no trip is treated as hidden.
func (r *Repo) BindHiddenIndex(h HiddenIndex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = h
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	_ = ctx
	if t.ID == "" {
		return triprepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.TripID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return triprepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) ListByHostOrJoinee(ctx context.Context, user domain.UserID) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0)
	for _, t := range r.byID {
		if t.HostID == user || isJoinee(t, user) {
			out = append(out, cloneTrip(t))
		}
	}
	sortTrips(out)
	return out, nil
}

func (r *Repo) ListPublic(ctx context.Context, f triprepo.SearchFilters) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	hidden := r.hidden
	out := make([]domain.Trip, 0)
	for _, t := range r.byID {
		if !t.IsPublic {
			continue
		}
		if hidden != nil && hidden.Contains(t.ID) {
			continue
		}
		if matchesFilters(t, f) {
			out = append(out, cloneTrip(t))
		}
	}
	r.mu.RUnlock()
	sortTrips(out)
	return out, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, cloneTrip(t))
	}
	sortTrips(out)
	return out, nil
}

func isJoinee(t domain.Trip, user domain.UserID) bool {
	for _, id := range t.JoineeIDs {
		if id == user {
			return true
		}
	}
	return false
}

func matchesFilters(t domain.Trip, f triprepo.SearchFilters) bool {
	if f.City != "" && t.Location.City != f.City {
		return false
	}
	if f.Country != "" && t.Location.Country != f.Country {
		return false
	}
	// Flexible-date trips match any date window.
	if t.FlexibleDates || t.StartDate == nil || t.EndDate == nil {
		return true
	}
	if f.From != nil && t.EndDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.StartDate.After(*f.To) {
		return false
	}
	return true
}

func cloneTrip(t domain.Trip) domain.Trip {
	cp := t
	cp.StartDate = cloneTimePtr(t.StartDate)
	cp.EndDate = cloneTimePtr(t.EndDate)
	if t.JoineeIDs != nil {
		cp.JoineeIDs = append([]domain.UserID(nil), t.JoineeIDs...)
	}
	return cp
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortTrips(ts []domain.Trip) {
	// Sorting rule: by startDate ascending; trips without a startDate come
	// after dated trips and sort by createdAt. Ties break on id.
	sort.Slice(ts, func(i, j int) bool {
		a := ts[i]
		b := ts[j]
		ad, bd := a.StartDate, b.StartDate

		if ad != nil && bd != nil {
			if !ad.Equal(*bd) {
				return ad.Before(*bd)
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return string(a.ID) < string(b.ID)
		}
		if ad != nil && bd == nil {
			return true
		}
		if ad == nil && bd != nil {
			return false
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
}
