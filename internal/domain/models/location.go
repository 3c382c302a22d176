package models

import (
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/types"
	"github.com/Temutjin2k/navigator/pkg/validator"
)

// Location is a single location sample. Each new sample supersedes the previous one.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) Validate(v *validator.Validator, prefix string) {
	v.Check(validator.Between(l.Latitude, -90, 90), prefix+"latitude", "must be between -90 and 90")
	v.Check(validator.Between(l.Longitude, -180, 180), prefix+"longitude", "must be between -180 and 180")
}

// Err returns types.ErrInvalidCoordinate if the sample is out of range.
func (l Location) Err() error {
	v := validator.New()
	l.Validate(v, "")
	if !v.Valid() {
		return types.ErrInvalidCoordinate
	}
	return nil
}

// RabbitMQ message: location_fanout exchange → navigator
type LocationUpdateMessage struct {
	UserID    string    `json:"user_id,omitempty"`
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}
