package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

type LocationDTO struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type TripDTO struct {
	Id              string              `json:"id"`
	HostId          string              `json:"hostId"`
	Title           string              `json:"title"`
	Location        LocationDTO         `json:"location"`
	StartDate       *openapi_types.Date `json:"startDate,omitempty"`
	EndDate         *openapi_types.Date `json:"endDate,omitempty"`
	FlexibleDates   bool                `json:"flexibleDates"`
	Rooms           int                 `json:"rooms"`
	SpareBeds       int                 `json:"spareBeds"`
	IsPublic        bool                `json:"isPublic"`
	Joinees         []string            `json:"joinees"`
	IsHiddenByAdmin bool                `json:"isHiddenByAdmin"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type TripListResponse struct {
	Trips []TripDTO `json:"trips"`
}

type TripResponse struct {
	Trip TripDTO `json:"trip"`
}

type AdminStatusResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// CreateTripRequest carries the host's new posting. Dates use the
// three-state nullable so "absent" and "explicit null" both read as unset.
type CreateTripRequest struct {
	Title         string                                `json:"title"`
	City          string                                `json:"city"`
	Country       string                                `json:"country"`
	StartDate     nullable.Nullable[openapi_types.Date] `json:"startDate,omitempty"`
	EndDate       nullable.Nullable[openapi_types.Date] `json:"endDate,omitempty"`
	FlexibleDates bool                                  `json:"flexibleDates"`
	Rooms         int                                   `json:"rooms"`
	SpareBeds     int                                   `json:"spareBeds"`
	IsPublic      bool                                  `json:"isPublic"`
}

func tripDTOFromView(v domain.TripView) TripDTO {
	joinees := make([]string, 0, len(v.JoineeIDs))
	for _, id := range v.JoineeIDs {
		joinees = append(joinees, string(id))
	}
	return TripDTO{
		Id:              string(v.ID),
		HostId:          string(v.HostID),
		Title:           v.Title,
		Location:        LocationDTO{City: v.Location.City, Country: v.Location.Country},
		StartDate:       dateFromTimePtr(v.StartDate),
		EndDate:         dateFromTimePtr(v.EndDate),
		FlexibleDates:   v.FlexibleDates,
		Rooms:           v.Rooms.Rooms,
		SpareBeds:       v.Rooms.SpareBeds,
		IsPublic:        v.IsPublic,
		Joinees:         joinees,
		IsHiddenByAdmin: v.IsHiddenByAdmin,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func tripDTOsFromViews(vs []domain.TripView) []TripDTO {
	out := make([]TripDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, tripDTOFromView(v))
	}
	return out
}

func dateFromTimePtr(p *time.Time) *openapi_types.Date {
	if p == nil {
		return nil
	}
	return &openapi_types.Date{Time: *p}
}

func timePtrFromNullableDate(n nullable.Nullable[openapi_types.Date]) *time.Time {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v, err := n.Get()
	if err != nil {
		return nil
	}
	t := v.Time
	return &t
}
