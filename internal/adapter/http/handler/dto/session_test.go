package dto

import (
	"testing"

	"github.com/Temutjin2k/navigator/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestStartTripRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    StartTripRequest
		fields []string
	}{
		{
			name: "valid",
			req: StartTripRequest{
				Place:    &PlaceRequest{Name: "Airport", Center: []float64{77.04, 43.35}},
				Priority: ptr(0),
			},
		},
		{
			name:   "missing everything",
			req:    StartTripRequest{},
			fields: []string{"place", "priority"},
		},
		{
			name: "center is not a pair",
			req: StartTripRequest{
				Place:    &PlaceRequest{Center: []float64{77.04}},
				Priority: ptr(1),
			},
			fields: []string{"place.center"},
		},
		{
			name: "center in lat-lon order out of range",
			req: StartTripRequest{
				Place:    &PlaceRequest{Center: []float64{10, 120}},
				Priority: ptr(1),
			},
			fields: []string{"place.center"},
		},
		{
			name: "invalid origin",
			req: StartTripRequest{
				Place:    &PlaceRequest{Center: []float64{10, 20}},
				Priority: ptr(1),
				Origin:   &LocationRequest{Latitude: ptr(91.0), Longitude: ptr(0.0)},
			},
			fields: []string{"origin.latitude"},
		},
		{
			name: "partial origin",
			req: StartTripRequest{
				Place:    &PlaceRequest{Center: []float64{10, 20}},
				Priority: ptr(1),
				Origin:   &LocationRequest{Latitude: ptr(1.0)},
			},
			fields: []string{"origin.longitude"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			tt.req.Validate(v)

			keys := make([]string, 0, len(v.Errors))
			for k := range v.Errors {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.fields, keys)
		})
	}
}
