package moderation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/adminrepo"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/clock"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/hiddenrepo"
	"github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

// Service is the moderation write surface: the only code allowed to mutate
// the hidden-trip ledger.
//
// Privilege is enforced here explicitly, before every mutation, in addition
// to whatever access policy the store enforces underneath. The UI hiding its
// buttons is cosmetics, not security.
type Service struct {
	ledger hiddenrepo.Repository
	admins adminrepo.Repository
	trips  triprepo.Repository
	clk    clock.Clock
	log    *zap.Logger
}

func NewService(ledger hiddenrepo.Repository, admins adminrepo.Repository, trips triprepo.Repository, clk clock.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		ledger: ledger,
		admins: admins,
		trips:  trips,
		clk:    clk,
		log:    log,
	}
}

// IsAdmin reports whether the caller holds moderation privilege.
// Anonymous callers are never admins and cost no storage round trip.
// A failed check never grants privilege: errors are logged and read as false.
func (s *Service) IsAdmin(ctx context.Context, caller domain.UserID) bool {
	if caller == "" {
		return false
	}
	ok, err := s.admins.IsAdmin(ctx, caller)
	if err != nil {
		s.log.Warn("admin check failed, treating caller as non-admin",
			zap.String("userId", string(caller)),
			zap.Error(err))
		return false
	}
	return ok
}

// HideTrip adds the hidden marker for the trip.
//
// The id format gate runs before anything else, even for non-admin callers,
// so malformed input never reaches the privilege-checked storage layer.
func (s *Service) HideTrip(ctx context.Context, caller domain.UserID, rawID string) error {
	id, err := domain.ParseTripID(rawID)
	if err != nil {
		return errInvalidTripID()
	}
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}

	if err := s.ledger.MarkHidden(ctx, id, s.clk.Now().UTC()); err != nil {
		switch {
		case errors.Is(err, hiddenrepo.ErrAlreadyHidden):
			return &Error{Status: 409, Code: "TRIP_ALREADY_HIDDEN", Message: "Trip is already hidden"}
		case errors.Is(err, hiddenrepo.ErrTripNotFound):
			return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "Trip not found"}
		case errors.Is(err, hiddenrepo.ErrUnauthorized):
			return errForbidden()
		default:
			return s.storageError("hide trip", err)
		}
	}
	return nil
}

// UnhideTrip removes the hidden marker for the trip.
func (s *Service) UnhideTrip(ctx context.Context, caller domain.UserID, rawID string) error {
	id, err := domain.ParseTripID(rawID)
	if err != nil {
		return errInvalidTripID()
	}
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}

	if err := s.ledger.UnmarkHidden(ctx, id); err != nil {
		switch {
		case errors.Is(err, hiddenrepo.ErrNotHidden):
			return &Error{Status: 409, Code: "TRIP_NOT_HIDDEN", Message: "Trip is not hidden"}
		case errors.Is(err, hiddenrepo.ErrUnauthorized):
			return errForbidden()
		default:
			return s.storageError("unhide trip", err)
		}
	}
	return nil
}

// IsTripHidden reports the raw marker state for the moderation dashboard.
// Admin-only: exposing it publicly would let anyone probe hidden state that
// direct lookup deliberately reports as absent.
func (s *Service) IsTripHidden(ctx context.Context, caller domain.UserID, rawID string) (bool, error) {
	id, err := domain.ParseTripID(rawID)
	if err != nil {
		return false, errInvalidTripID()
	}
	if err := s.requireAdmin(ctx, caller); err != nil {
		return false, err
	}

	hidden, err := s.ledger.IsHidden(ctx, id)
	if err != nil {
		return false, s.storageError("read hidden state", err)
	}
	return hidden, nil
}

// ListAllTripsForAdmin returns every trip annotated with its hidden state.
// The visibility rule does not apply: admins must see hidden trips to manage
// them. Marker ids are fetched once in bulk and joined via a set.
func (s *Service) ListAllTripsForAdmin(ctx context.Context, caller domain.UserID) ([]domain.TripView, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	ts, err := s.trips.ListAll(ctx)
	if err != nil {
		return nil, s.storageError("list trips", err)
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

func (s *Service) requireAdmin(ctx context.Context, caller domain.UserID) error {
	if !s.IsAdmin(ctx, caller) {
		return errForbidden()
	}
	return nil
}

func (s *Service) storageError(op string, err error) error {
	s.log.Error("moderation storage failure",
		zap.String("op", op),
		zap.Error(err))
	return &Error{Status: 500, Code: "STORAGE_UNAVAILABLE", Message: "Something went wrong. Please try again."}
}

func errInvalidTripID() error {
	return &Error{
		Status:  422,
		Code:    "INVALID_TRIP_ID",
		Message: "Invalid trip id",
		Details: map[string]any{"tripId": "must be a UUID"},
	}
}

func errForbidden() error {
	return &Error{Status: 403, Code: "FORBIDDEN", Message: "Not authorized to moderate trips"}
}
