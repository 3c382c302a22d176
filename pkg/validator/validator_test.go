package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_FirstErrorWins(t *testing.T) {
	v := New()
	v.Check(false, "latitude", "must be between -90 and 90")
	v.Check(false, "latitude", "must be provided")
	v.Check(true, "longitude", "unused")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"latitude": "must be between -90 and 90"}, v.Errors)
}

func TestBetween(t *testing.T) {
	assert.True(t, Between(90, -90, 90))
	assert.False(t, Between(90.1, -90, 90))
}
