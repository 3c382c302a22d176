package dto

import (
	"github.com/Temutjin2k/navigator/internal/domain/models"
	"github.com/Temutjin2k/navigator/pkg/validator"
)

type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *LocationRequest) Validate(v *validator.Validator, prefix string) {
	v.Check(r.Latitude != nil, prefix+"latitude", "must be provided")
	v.Check(r.Longitude != nil, prefix+"longitude", "must be provided")
	if r.Latitude != nil && r.Longitude != nil {
		r.ToModel().Validate(v, prefix)
	}
}

func (r *LocationRequest) ToModel() models.Location {
	return models.Location{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type PlaceRequest struct {
	Name   string    `json:"name"`
	Center []float64 `json:"center"`
}

type StartTripRequest struct {
	Place    *PlaceRequest    `json:"place"`
	Priority *int             `json:"priority"`
	Origin   *LocationRequest `json:"origin,omitempty"`
}

func (r *StartTripRequest) Validate(v *validator.Validator) {
	v.Check(r.Priority != nil, "priority", "must be provided")

	v.Check(r.Place != nil, "place", "must be provided")
	if r.Place != nil {
		v.Check(len(r.Place.Name) <= 255, "place.name", "must not be more than 255 characters long")
		v.Check(len(r.Place.Center) == 2, "place.center", "must be a [longitude, latitude] pair")
		if len(r.Place.Center) == 2 {
			v.Check(validator.Between(r.Place.Center[0], -180, 180), "place.center", "longitude must be between -180 and 180")
			v.Check(validator.Between(r.Place.Center[1], -90, 90), "place.center", "latitude must be between -90 and 90")
		}
	}

	if r.Origin != nil {
		r.Origin.Validate(v, "origin.")
	}
}

func (r *StartTripRequest) ToPlace() models.Place {
	return models.Place{Name: r.Place.Name, Center: r.Place.Center}
}

type SetTokenRequest struct {
	AccessToken string `json:"access_token"`
}

func (r *SetTokenRequest) Validate(v *validator.Validator) {
	v.Check(r.AccessToken != "", "access_token", "must be provided")
}

// SessionResponse is the session status shown by GET /session.
type SessionResponse struct {
	models.SessionSnapshot
	Loading bool `json:"loading"`
}

type TripResponse struct {
	Status      string `json:"status"`
	TripID      string `json:"trip_id,omitempty"`
	Destination string `json:"destination,omitempty"`
}
