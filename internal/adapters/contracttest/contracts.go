// Package contracttest holds behavioral suites every storage backend must
// pass. The memory and postgres adapters both run them, which keeps the two
// backends observably interchangeable.
//
// Suites run against a possibly shared database, so they use unique row
// identities and scoped filters instead of assuming an empty store.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	hiddenrepoport "github.com/tripmatch-app/tripmatch-api/internal/ports/out/hiddenrepo"
	triprepoport "github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

type CleanupFunc = func()

// VisibilityStackFactory builds a coordinated trip repo + hidden ledger pair
// backed by the same store, the way production wires them.
type VisibilityStackFactory func(t *testing.T) (triprepoport.Repository, hiddenrepoport.Repository, CleanupFunc)

func seedTrip(ctx context.Context, t *testing.T, trips triprepoport.Repository, host domain.UserID, city string, public bool, joinees ...domain.UserID) domain.Trip {
	t.Helper()
	now := time.Unix(1000, 0).UTC()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	tr := domain.Trip{
		ID:        domain.TripID(uuid.NewString()),
		HostID:    host,
		Title:     "Contract Trip",
		Location:  domain.Location{City: city, Country: "PT"},
		StartDate: &start,
		EndDate:   &end,
		Rooms:     domain.RoomConfig{Rooms: 2, SpareBeds: 3},
		IsPublic:  public,
		JoineeIDs: joinees,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := trips.Create(ctx, tr); err != nil {
		t.Fatalf("seed trip: %v", err)
	}
	t.Cleanup(func() {
		_ = trips.Delete(context.Background(), tr.ID)
	})
	return tr
}

// RunTripRepo exercises the trip store on its own.
func RunTripRepo(t *testing.T, newStack VisibilityStackFactory) {
	t.Helper()
	ctx := context.Background()

	trips, _, cleanup := newStack(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	host := domain.UserID("host-" + uuid.NewString())
	joinee := domain.UserID("joinee-" + uuid.NewString())
	tr := seedTrip(ctx, t, trips, host, "Lisbon", true, joinee)

	got, err := trips.GetByID(ctx, tr.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != tr.ID || got.HostID != host || got.Title != tr.Title {
		t.Fatalf("got=%+v", got)
	}
	if len(got.JoineeIDs) != 1 || got.JoineeIDs[0] != joinee {
		t.Fatalf("joinees=%v", got.JoineeIDs)
	}

	// Duplicate id rejected.
	if err := trips.Create(ctx, tr); !errors.Is(err, triprepoport.ErrAlreadyExists) {
		t.Fatalf("err=%v", err)
	}

	// ListByHostOrJoinee sees the trip from both sides.
	for _, user := range []domain.UserID{host, joinee} {
		ts, err := trips.ListByHostOrJoinee(ctx, user)
		if err != nil {
			t.Fatalf("ListByHostOrJoinee(%s): %v", user, err)
		}
		if len(ts) != 1 || ts[0].ID != tr.ID {
			t.Fatalf("user=%s trips=%+v", user, ts)
		}
	}
	ts, err := trips.ListByHostOrJoinee(ctx, domain.UserID("nobody-"+uuid.NewString()))
	if err != nil || len(ts) != 0 {
		t.Fatalf("trips=%+v err=%v", ts, err)
	}

	// Delete, then absent.
	if err := trips.Delete(ctx, tr.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := trips.GetByID(ctx, tr.ID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
	if err := trips.Delete(ctx, tr.ID); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("second delete err=%v", err)
	}
}

// RunHiddenLedger exercises ledger conflict semantics and the pre-filtered
// public listing.
func RunHiddenLedger(t *testing.T, newStack VisibilityStackFactory) {
	t.Helper()
	ctx := context.Background()

	trips, ledger, cleanup := newStack(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	at := time.Unix(2000, 0).UTC()

	// Marking an unknown trip fails referential integrity.
	if err := ledger.MarkHidden(ctx, domain.TripID(uuid.NewString()), at); !errors.Is(err, hiddenrepoport.ErrTripNotFound) {
		t.Fatalf("err=%v", err)
	}

	host := domain.UserID("host-" + uuid.NewString())
	city := "City-" + uuid.NewString()
	tr := seedTrip(ctx, t, trips, host, city, true)

	if err := ledger.MarkHidden(ctx, tr.ID, at); err != nil {
		t.Fatalf("MarkHidden: %v", err)
	}
	if err := ledger.MarkHidden(ctx, tr.ID, at); !errors.Is(err, hiddenrepoport.ErrAlreadyHidden) {
		t.Fatalf("second mark err=%v", err)
	}

	hidden, err := ledger.IsHidden(ctx, tr.ID)
	if err != nil || !hidden {
		t.Fatalf("hidden=%v err=%v", hidden, err)
	}
	ids, err := ledger.ListHiddenIDs(ctx)
	if err != nil {
		t.Fatalf("ListHiddenIDs: %v", err)
	}
	found := false
	for _, id := range ids {
		if id == tr.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("marker missing from ListHiddenIDs")
	}

	// The raw record stays readable while hidden; the public listing does not
	// include it.
	if _, err := trips.GetByID(ctx, tr.ID); err != nil {
		t.Fatalf("GetByID while hidden: %v", err)
	}
	pub, err := trips.ListPublic(ctx, triprepoport.SearchFilters{City: city})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(pub) != 0 {
		t.Fatalf("hidden trip leaked into public listing: %+v", pub)
	}

	// Unmark restores the listing; a second unmark conflicts.
	if err := ledger.UnmarkHidden(ctx, tr.ID); err != nil {
		t.Fatalf("UnmarkHidden: %v", err)
	}
	if err := ledger.UnmarkHidden(ctx, tr.ID); !errors.Is(err, hiddenrepoport.ErrNotHidden) {
		t.Fatalf("second unmark err=%v", err)
	}
	pub, err = trips.ListPublic(ctx, triprepoport.SearchFilters{City: city})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(pub) != 1 || pub[0].ID != tr.ID {
		t.Fatalf("unhidden trip missing from public listing: %+v", pub)
	}
}

// RunPublicListing exercises search filters against the public view.
func RunPublicListing(t *testing.T, newStack VisibilityStackFactory) {
	t.Helper()
	ctx := context.Background()

	trips, _, cleanup := newStack(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	city := "City-" + uuid.NewString()
	public := seedTrip(ctx, t, trips, domain.UserID("host-"+uuid.NewString()), city, true)
	_ = seedTrip(ctx, t, trips, domain.UserID("host-"+uuid.NewString()), city, false)

	// Private trips never show.
	pub, err := trips.ListPublic(ctx, triprepoport.SearchFilters{City: city})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(pub) != 1 || pub[0].ID != public.ID {
		t.Fatalf("pub=%+v", pub)
	}

	// Unmatched city filter.
	pub, err = trips.ListPublic(ctx, triprepoport.SearchFilters{City: "City-" + uuid.NewString()})
	if err != nil || len(pub) != 0 {
		t.Fatalf("pub=%+v err=%v", pub, err)
	}

	// Date window overlapping the trip matches; a window after it does not.
	from := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	pub, err = trips.ListPublic(ctx, triprepoport.SearchFilters{City: city, From: &from})
	if err != nil || len(pub) != 1 {
		t.Fatalf("pub=%+v err=%v", pub, err)
	}
	late := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	pub, err = trips.ListPublic(ctx, triprepoport.SearchFilters{City: city, From: &late})
	if err != nil || len(pub) != 0 {
		t.Fatalf("pub=%+v err=%v", pub, err)
	}
}
