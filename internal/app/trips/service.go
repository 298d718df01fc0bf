package trips

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/clock"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/hiddenrepo"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

// Service is the read side of trip visibility plus the host-facing trip
// lifecycle. Every read path funnels through one resolve rule so search, the
// dashboard, and direct lookup can never disagree about what a caller sees.
type Service struct {
	trips  triprepo.Repository
	ledger hiddenrepo.Repository
	clk    clock.Clock
	log    *zap.Logger

	newTripID func() domain.TripID
}

func NewService(tripsRepo triprepo.Repository, ledger hiddenrepo.Repository, clk clock.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		trips:  tripsRepo,
		ledger: ledger,
		clk:    clk,
		log:    log,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

// GetTrip resolves a direct lookup.
//
// A hidden trip queried by anyone but its host comes back as an absent
// record, indistinguishable from "does not exist" — a permission error here
// would leak that the trip exists.
func (s *Service) GetTrip(ctx context.Context, caller domain.UserID, rawID string) (domain.TripView, error) {
	id, err := domain.ParseTripID(rawID)
	if err != nil {
		return domain.TripView{}, errTripNotFound()
	}

	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.TripView{}, errTripNotFound()
		}
		return domain.TripView{}, s.storageError("get trip", err)
	}

	hidden, err := s.ledger.IsHidden(ctx, t.ID)
	if err != nil {
		return domain.TripView{}, s.storageError("read hidden state", err)
	}

	view, visible := resolve(t, hidden, caller)
	if !visible {
		return domain.TripView{}, errTripNotFound()
	}
	return view, nil
}

// ListMyTrips returns every trip the caller hosts or has joined, hidden or
// not, each decorated with the raw hidden fact. Hiding is never a silent
// filter for owners. Marker ids are fetched once in bulk and joined in
// memory, never one ledger query per trip.
func (s *Service) ListMyTrips(ctx context.Context, caller domain.UserID) ([]domain.TripView, error) {
	ts, err := s.trips.ListByHostOrJoinee(ctx, caller)
	if err != nil {
		return nil, s.storageError("list my trips", err)
	}
	ids, err := s.ledger.ListHiddenIDs(ctx)
	if err != nil {
		return nil, s.storageError("list hidden ids", err)
	}

	hidden := make(map[domain.TripID]struct{}, len(ids))
	for _, id := range ids {
		hidden[id] = struct{}{}
	}

	out := make([]domain.TripView, 0, len(ts))
	for _, t := range ts {
		_, isHidden := hidden[t.ID]
		out = append(out, domain.TripView{Trip: t, IsHiddenByAdmin: isHidden})
	}
	return out, nil
}

// SearchTrips returns the public listing. The store's pre-filtered view
// already excludes hidden trips at the query level, so nothing here (or in
// any other application code) post-filters.
func (s *Service) SearchTrips(ctx context.Context, f triprepo.SearchFilters) ([]domain.TripView, error) {
	ts, err := s.trips.ListPublic(ctx, f)
	if err != nil {
		return nil, s.storageError("search trips", err)
	}
	out := make([]domain.TripView, 0, len(ts))
	for _, t := range ts {
		out = append(out, domain.TripView{Trip: t, IsHiddenByAdmin: false})
	}
	return out, nil
}

// CreateTrip posts a new trip for the calling host.
func (s *Service) CreateTrip(ctx context.Context, caller domain.UserID, in CreateTripInput) (domain.Trip, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Trip{}, validationError("title", "must be non-empty")
	}
	city := strings.TrimSpace(in.City)
	if city == "" {
		return domain.Trip{}, validationError("city", "must be non-empty")
	}
	if in.FlexibleDates {
		if in.StartDate != nil || in.EndDate != nil {
			return domain.Trip{}, validationError("dates", "flexible trips cannot carry fixed dates")
		}
	} else {
		if in.StartDate == nil || in.EndDate == nil {
			return domain.Trip{}, validationError("dates", "startDate and endDate are required unless flexibleDates is set")
		}
		if in.EndDate.Before(*in.StartDate) {
			return domain.Trip{}, validationError("endDate", "must be on or after startDate")
		}
	}
	if in.Rooms < 1 {
		return domain.Trip{}, validationError("rooms", "must be >= 1")
	}
	if in.SpareBeds < 1 {
		return domain.Trip{}, validationError("spareBeds", "must be >= 1")
	}

	now := s.clk.Now().UTC()
	t := domain.Trip{
		ID:            s.newTripID(),
		HostID:        caller,
		Title:         title,
		Location:      domain.Location{City: city, Country: strings.TrimSpace(in.Country)},
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		FlexibleDates: in.FlexibleDates,
		Rooms:         domain.RoomConfig{Rooms: in.Rooms, SpareBeds: in.SpareBeds},
		IsPublic:      in.IsPublic,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.trips.Create(ctx, t); err != nil {
		if errors.Is(err, triprepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Trip{}, &Error{Status: 409, Code: "TRIP_ID_CONFLICT", Message: "trip id conflict"}
		}
		return domain.Trip{}, s.storageError("create trip", err)
	}
	return t, nil
}

// DeleteTrip removes the caller's own trip. A non-host gets the same absent
// result as for a trip that does not exist. The marker, if any, goes with
// the trip (cascade in the relational backend; mirrored here so the memory
// backend observes the same transitive cleanup).
func (s *Service) DeleteTrip(ctx context.Context, caller domain.UserID, rawID string) error {
	id, err := domain.ParseTripID(rawID)
	if err != nil {
		return errTripNotFound()
	}

	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return errTripNotFound()
		}
		return s.storageError("get trip", err)
	}
	if caller == "" || t.HostID != caller {
		return errTripNotFound()
	}

	if err := s.trips.Delete(ctx, id); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return errTripNotFound()
		}
		return s.storageError("delete trip", err)
	}
	if err := s.ledger.UnmarkHidden(ctx, id); err != nil && !errors.Is(err, hiddenrepo.ErrNotHidden) {
		// The trip is gone either way; a dangling marker only matters for
		// backends without cascade, so log and move on.
		s.log.Warn("marker cleanup after trip delete failed",
			zap.String("tripId", string(id)),
			zap.Error(err))
	}
	return nil
}

// resolve is the single visibility decision. Every read path applies it; no
// other code may consult the ledger for visibility.
func resolve(t domain.Trip, hidden bool, caller domain.UserID) (domain.TripView, bool) {
	if !hidden {
		return domain.TripView{Trip: t, IsHiddenByAdmin: false}, true
	}
	if caller != "" && caller == t.HostID {
		// Owners always see their trip, plus the raw hidden fact.
		return domain.TripView{Trip: t, IsHiddenByAdmin: true}, true
	}
	return domain.TripView{}, false
}

func (s *Service) storageError(op string, err error) error {
	s.log.Error("trip storage failure",
		zap.String("op", op),
		zap.Error(err))
	return &Error{Status: 500, Code: "STORAGE_UNAVAILABLE", Message: "Something went wrong. Please try again."}
}

func errTripNotFound() error {
	return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "Trip not found"}
}

func validationError(field, msg string) error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid " + field,
		Details: map[string]any{field: msg},
	}
}
