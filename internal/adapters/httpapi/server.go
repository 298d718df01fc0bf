package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tripmatch-app/tripmatch-api/internal/app/moderation"
	"github.com/tripmatch-app/tripmatch-api/internal/app/trips"
	"github.com/tripmatch-app/tripmatch-api/internal/domain"
	triprepoport "github.com/tripmatch-app/tripmatch-api/internal/ports/out/triprepo"
)

// Server is the HTTP adapter. Handlers decode the request, pull the caller
// identity from context, and delegate; all policy lives in the services.
type Server struct {
	Trips      *trips.Service
	Moderation *moderation.Service
	Log        *zap.Logger
}

func NewServer(tripsSvc *trips.Service, moderationSvc *moderation.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Trips: tripsSvc, Moderation: moderationSvc, Log: log}
}

func (s *Server) handleSearchTrips(w http.ResponseWriter, r *http.Request) {
	filters, ok := s.searchFilters(w, r)
	if !ok {
		return
	}
	views, err := s.Trips.SearchTrips(r.Context(), filters)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, TripListResponse{Trips: tripDTOsFromViews(views)})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserFromContext(r.Context())
	view, err := s.Trips.GetTrip(r.Context(), caller, chi.URLParam(r, "tripID"))
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, TripResponse{Trip: tripDTOFromView(view)})
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	created, err := s.Trips.CreateTrip(r.Context(), caller, trips.CreateTripInput{
		Title:         req.Title,
		City:          req.City,
		Country:       req.Country,
		StartDate:     timePtrFromNullableDate(req.StartDate),
		EndDate:       timePtrFromNullableDate(req.EndDate),
		FlexibleDates: req.FlexibleDates,
		Rooms:         req.Rooms,
		SpareBeds:     req.SpareBeds,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, TripResponse{Trip: tripDTOFromView(domain.TripView{Trip: created})})
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	if err := s.Trips.DeleteTrip(r.Context(), caller, chi.URLParam(r, "tripID")); err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMyTrips(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	views, err := s.Trips.ListMyTrips(r.Context(), caller)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, TripListResponse{Trips: tripDTOsFromViews(views)})
}

func (s *Server) handleGetMyAdmin(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, AdminStatusResponse{IsAdmin: s.Moderation.IsAdmin(r.Context(), caller)})
}

func (s *Server) handleAdminListTrips(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserFromContext(r.Context())
	views, err := s.Moderation.ListAllTripsForAdmin(r.Context(), caller)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, TripListResponse{Trips: tripDTOsFromViews(views)})
}

func (s *Server) handleHideTrip(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserFromContext(r.Context())
	if err := s.Moderation.HideTrip(r.Context(), caller, chi.URLParam(r, "tripID")); err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnhideTrip(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserFromContext(r.Context())
	if err := s.Moderation.UnhideTrip(r.Context(), caller, chi.URLParam(r, "tripID")); err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) searchFilters(w http.ResponseWriter, r *http.Request) (triprepoport.SearchFilters, bool) {
	q := r.URL.Query()
	f := triprepoport.SearchFilters{
		City:    strings.TrimSpace(q.Get("city")),
		Country: strings.TrimSpace(q.Get("country")),
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &f.From},
		{"to", &f.To},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid "+p.name,
				map[string]any{p.name: "must be a YYYY-MM-DD date"})
			return triprepoport.SearchFilters{}, false
		}
		*p.dst = &ts
	}
	return f, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
