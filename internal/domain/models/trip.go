package models

import (
	"encoding/json"
	"strconv"

	"github.com/Temutjin2k/navigator/internal/domain/types"
)

// Place is a destination picked by the user. Center is a [longitude, latitude] pair.
type Place struct {
	Name   string    `json:"name,omitempty"`
	Center []float64 `json:"center"`
}

// Location converts the [longitude, latitude] center into a Location.
func (p Place) Location() (Location, error) {
	if len(p.Center) != 2 {
		return Location{}, types.ErrInvalidPlace
	}

	loc := Location{
		Latitude:  p.Center[1],
		Longitude: p.Center[0],
	}
	if err := loc.Err(); err != nil {
		return Location{}, types.ErrInvalidPlace
	}

	return loc, nil
}

// TripRequest is the startTrip payload. It is not retained after send.
type TripRequest struct {
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
	Priority    int      `json:"priority"`
}

// NewTripRequest builds a trip from the current location to place.
func NewTripRequest(place Place, priority int, current Location) (TripRequest, error) {
	if err := current.Err(); err != nil {
		return TripRequest{}, err
	}

	dest, err := place.Location()
	if err != nil {
		return TripRequest{}, err
	}

	return TripRequest{
		Origin:      current,
		Destination: dest,
		Priority:    priority,
	}, nil
}

// RegisterUserPayload is the registerUser payload.
type RegisterUserPayload struct {
	UserID UserRef `json:"userId"`
}

// UserRef is a user id on the wire. Canonical decimal integers ("42", "-7") are sent
// as JSON numbers, anything else as a string.
type UserRef string

func (u UserRef) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(u), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(u) {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(u))
}

// EndTripPayload is the endTrip payload, always {}.
type EndTripPayload struct{}
