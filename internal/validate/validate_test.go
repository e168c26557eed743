package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mlaconnect/backend/internal/validate"
)

func TestBlank(t *testing.T) {
	assert.False(t, validate.Blank("a", "b"))
	assert.True(t, validate.Blank("a", ""))
	assert.True(t, validate.Blank("  \t"))
	assert.False(t, validate.Blank())
}

func TestPhoneNumber(t *testing.T) {
	assert.True(t, validate.PhoneNumber("9876543210"))
	assert.False(t, validate.PhoneNumber("987654321"))
	assert.False(t, validate.PhoneNumber("+919876543210"))
	assert.False(t, validate.PhoneNumber("98765abcde"))
}

func TestOneOf(t *testing.T) {
	assert.True(t, validate.OneOf("Male", []string{"Male", "Female"}))
	assert.False(t, validate.OneOf("male", []string{"Male", "Female"}))
}

func TestParseDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	got, ok := validate.ParseDate("2025-04-01", ist)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, ist), got)

	got, ok = validate.ParseDate("2025-04-01T10:30", ist)
	assert.True(t, ok)
	assert.Equal(t, 10, got.Hour())

	got, ok = validate.ParseDate("2025-04-01T05:00:00Z", ist)
	assert.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())

	_, ok = validate.ParseDate("next tuesday", ist)
	assert.False(t, ok)
}
