package trips_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memhiddenrepo "github.com/tripmatch-app/tripmatch-api/internal/adapters/memory/hiddenrepo"
	memtriprepo "github.com/tripmatch-app/tripmatch-api/internal/adapters/memory/triprepo"
	"github.com/tripmatch-app/tripmatch-api/internal/app/trips"
	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	porttriprepo "github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

const (
	tripA = "11111111-1111-4111-8111-111111111111"
	tripB = "22222222-2222-4222-8222-222222222222"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newStack(t *testing.T) (*memtriprepo.Repo, *memhiddenrepo.Repo, *trips.Service) {
	t.Helper()
	tripsRepo := memtriprepo.NewRepo()
	ledger := memhiddenrepo.NewRepo(tripsRepo)
	tripsRepo.BindHiddenIndex(ledger)
	svc := trips.NewService(tripsRepo, ledger, fixedClock{now: time.Unix(500, 0).UTC()}, nil)
	return tripsRepo, ledger, svc
}

func seedTrip(t *testing.T, repo *memtriprepo.Repo, id domain.TripID, host domain.UserID, public bool, joinees ...domain.UserID) {
	t.Helper()
	now := time.Unix(100, 0).UTC()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	if err := repo.Create(context.Background(), domain.Trip{
		ID:        id,
		HostID:    host,
		Title:     "Trip " + string(id[:8]),
		Location:  domain.Location{City: "Lisbon", Country: "PT"},
		StartDate: &start,
		EndDate:   &end,
		Rooms:     domain.RoomConfig{Rooms: 2, SpareBeds: 3},
		IsPublic:  public,
		JoineeIDs: joinees,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed trip: %v", err)
	}
}

func hide(t *testing.T, ledger *memhiddenrepo.Repo, id domain.TripID) {
	t.Helper()
	if err := ledger.MarkHidden(context.Background(), id, time.Unix(200, 0).UTC()); err != nil {
		t.Fatalf("mark hidden: %v", err)
	}
}

func TestService_GetTrip_HiddenOnlyVisibleToHost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripsRepo, ledger, svc := newStack(t)
	seedTrip(t, tripsRepo, tripA, "host-1", true, "joinee-1")
	hide(t, ledger, tripA)

	// Host sees the trip plus the hidden flag.
	view, err := svc.GetTrip(ctx, "host-1", tripA)
	if err != nil {
		t.Fatalf("GetTrip(host): %v", err)
	}
	if view.ID != tripA || !view.IsHiddenByAdmin {
		t.Fatalf("view=%+v", view)
	}

	// Everyone else gets an absent record, never a permission error.
	for _, caller := range []domain.UserID{"", "joinee-1", "stranger"} {
		_, err := svc.GetTrip(ctx, caller, tripA)
		var ae *trips.Error
		if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "TRIP_NOT_FOUND" {
			t.Fatalf("caller=%q err=%v", caller, err)
		}
		if ae.Message != "Trip not found" {
			t.Fatalf("message=%q", ae.Message)
		}
	}
}

func TestService_GetTrip_VisibleTripHasNoFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripsRepo, _, svc := newStack(t)
	seedTrip(t, tripsRepo, tripA, "host-1", true)

	view, err := svc.GetTrip(ctx, "stranger", tripA)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if view.IsHiddenByAdmin {
		t.Fatalf("unexpected hidden flag on visible trip")
	}
}

func TestService_GetTrip_MalformedIDIsAbsent(t *testing.T) {
	t.Parallel()

	_, _, svc := newStack(t)
	_, err := svc.GetTrip(context.Background(), "host-1", "not-a-uuid")
	var ae *trips.Error
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("err=%v", err)
	}
}

func TestService_SearchTrips_HiddenExcludedAndRestored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripsRepo, ledger, svc := newStack(t)
	seedTrip(t, tripsRepo, tripA, "host-1", true)
	seedTrip(t, tripsRepo, tripB, "host-2", true)
	hide(t, ledger, tripA)

	views, err := svc.SearchTrips(ctx, porttriprepo.SearchFilters{})
	if err != nil {
		t.Fatalf("SearchTrips: %v", err)
	}
	if len(views) != 1 || views[0].ID != tripB {
		t.Fatalf("views=%+v", views)
	}

	// Unhide restores the trip to the listing.
	if err := ledger.UnmarkHidden(ctx, tripA); err != nil {
		t.Fatalf("unmark: %v", err)
	}
	views, err = svc.SearchTrips(ctx, porttriprepo.SearchFilters{})
	if err != nil {
		t.Fatalf("SearchTrips: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len=%d", len(views))
	}
	for _, v := range views {
		if v.IsHiddenByAdmin {
			t.Fatalf("hidden flag set in public listing: %+v", v)
		}
	}
}

func TestService_SearchTrips_FiltersByCityAndDates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripsRepo, _, svc := newStack(t)
	seedTrip(t, tripsRepo, tripA, "host-1", true)

	views, err := svc.SearchTrips(ctx, porttriprepo.SearchFilters{City: "Porto"})
	if err != nil {
		t.Fatalf("SearchTrips: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("views=%+v", views)
	}

	from := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	views, err = svc.SearchTrips(ctx, porttriprepo.SearchFilters{City: "Lisbon", From: &from})
	if err != nil {
		t.Fatalf("SearchTrips: %v", err)
	}
	if len(views) != 1 || views[0].ID != tripA {
		t.Fatalf("views=%+v", views)
	}
}

func TestService_ListMyTrips_IncludesHiddenWithFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripsRepo, ledger, svc := newStack(t)
	seedTrip(t, tripsRepo, tripA, "host-1", true)
	seedTrip(t, tripsRepo, tripB, "host-2", true, "host-1")
	hide(t, ledger, tripA)

	views, err := svc.ListMyTrips(ctx, "host-1")
	if err != nil {
		t.Fatalf("ListMyTrips: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len=%d", len(views))
	}
	flags := map[domain.TripID]bool{}
	for _, v := range views {
		flags[v.ID] = v.IsHiddenByAdmin
	}
	if !flags[tripA] || flags[tripB] {
		t.Fatalf("flags=%v", flags)
	}
}

func TestService_CreateTrip_SetsFieldsAndPersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripsRepo, _, svc := newStack(t)
	svc.SetNewTripIDForTest(func() domain.TripID { return tripA })

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)
	created, err := svc.CreateTrip(ctx, "host-1", trips.CreateTripInput{
		Title:     "  Surf week  ",
		City:      "Ericeira",
		Country:   "PT",
		StartDate: &start,
		EndDate:   &end,
		Rooms:     3,
		SpareBeds: 4,
		IsPublic:  true,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if created.ID != tripA || created.HostID != "host-1" || created.Title != "Surf week" {
		t.Fatalf("created=%+v", created)
	}
	if created.CreatedAt != time.Unix(500, 0).UTC() {
		t.Fatalf("createdAt=%s", created.CreatedAt)
	}

	got, err := tripsRepo.GetByID(ctx, tripA)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Location.City != "Ericeira" || got.Rooms.Rooms != 3 || got.Rooms.SpareBeds != 4 {
		t.Fatalf("got=%+v", got)
	}
}

func TestService_CreateTrip_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, _, svc := newStack(t)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	cases := []struct {
		name string
		in   trips.CreateTripInput
	}{
		{"empty title", trips.CreateTripInput{City: "X", FlexibleDates: true, Rooms: 1, SpareBeds: 1}},
		{"empty city", trips.CreateTripInput{Title: "T", FlexibleDates: true, Rooms: 1, SpareBeds: 1}},
		{"missing dates", trips.CreateTripInput{Title: "T", City: "X", Rooms: 1, SpareBeds: 1}},
		{"end before start", trips.CreateTripInput{Title: "T", City: "X", StartDate: &start, EndDate: &end, Rooms: 1, SpareBeds: 1}},
		{"flexible with dates", trips.CreateTripInput{Title: "T", City: "X", FlexibleDates: true, StartDate: &start, Rooms: 1, SpareBeds: 1}},
		{"no rooms", trips.CreateTripInput{Title: "T", City: "X", FlexibleDates: true, Rooms: 0, SpareBeds: 1}},
		{"no spare beds", trips.CreateTripInput{Title: "T", City: "X", FlexibleDates: true, Rooms: 1, SpareBeds: 0}},
	}
	for _, tc := range cases {
		_, err := svc.CreateTrip(ctx, "host-1", tc.in)
		var ae *trips.Error
		if !errors.As(err, &ae) || ae.Status != 422 || ae.Code != "VALIDATION_ERROR" {
			t.Fatalf("%s: err=%v", tc.name, err)
		}
	}
}

func TestService_DeleteTrip_HostOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripsRepo, _, svc := newStack(t)
	seedTrip(t, tripsRepo, tripA, "host-1", true)

	// Non-host and anonymous callers get the absent-record answer.
	for _, caller := range []domain.UserID{"", "stranger"} {
		err := svc.DeleteTrip(ctx, caller, tripA)
		var ae *trips.Error
		if !errors.As(err, &ae) || ae.Status != 404 {
			t.Fatalf("caller=%q err=%v", caller, err)
		}
	}

	if err := svc.DeleteTrip(ctx, "host-1", tripA); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	if _, err := tripsRepo.GetByID(ctx, tripA); !errors.Is(err, porttriprepo.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestService_DeleteTrip_RemovesHiddenMarker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tripsRepo, ledger, svc := newStack(t)
	seedTrip(t, tripsRepo, tripA, "host-1", true)
	hide(t, ledger, tripA)

	if err := svc.DeleteTrip(ctx, "host-1", tripA); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	hidden, err := ledger.IsHidden(ctx, tripA)
	if err != nil || hidden {
		t.Fatalf("hidden=%v err=%v", hidden, err)
	}
}
