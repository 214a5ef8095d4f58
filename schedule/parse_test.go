package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbillows/launchd-me/errors"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSeconds int
	}{
		{"bare integer is seconds", "300", 300},
		{"explicit seconds", "300s", 300},
		{"minutes", "5m", 300},
		{"hours", "2h", 7200},
		{"days", "1d", 86400},
		{"surrounding whitespace", " 45s ", 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse("interval", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, TypeInterval, spec.Type)
			assert.Equal(t, tt.wantSeconds, spec.IntervalSeconds)
		})
	}
}

func TestParseIntervalErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"zero", "0"},
		{"negative", "-5"},
		{"unknown unit", "5w"},
		{"not a number", "soon"},
		{"empty", ""},
		{"seconds overflowing int", "99999999999999999999s"},
		{"days overflowing int when scaled", "999999999999999999d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("interval", tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidSchedule))
		})
	}
}

func TestParseCalendar(t *testing.T) {
	spec, err := Parse("calendar", "Hour=9,Minute=30")
	require.NoError(t, err)
	assert.Equal(t, TypeCalendar, spec.Type)
	assert.Equal(t, map[string]int{"Hour": 9, "Minute": 30}, spec.Calendar)
}

func TestParseCalendarCaseInsensitiveFields(t *testing.T) {
	spec, err := Parse("calendar", "weekday=1, hour=8, minute=0")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Weekday": 1, "Hour": 8, "Minute": 0}, spec.Calendar)
}

func TestParseCalendarFieldRanges(t *testing.T) {
	valid := []string{
		"Minute=0", "Minute=59",
		"Hour=0", "Hour=23",
		"Day=1", "Day=31",
		"Weekday=0", "Weekday=6",
		"Month=1", "Month=12",
	}
	for _, raw := range valid {
		t.Run("valid "+raw, func(t *testing.T) {
			_, err := Parse("calendar", raw)
			assert.NoError(t, err)
		})
	}

	invalid := []string{
		"Minute=60", "Minute=-1",
		"Hour=25", "Hour=24",
		"Day=0", "Day=32",
		"Weekday=7",
		"Month=0", "Month=13",
	}
	for _, raw := range invalid {
		t.Run("invalid "+raw, func(t *testing.T) {
			_, err := Parse("calendar", raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidSchedule))
		})
	}
}

func TestParseCalendarErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"unknown field", "Second=30"},
		{"missing value", "Hour"},
		{"non-integer value", "Hour=nine"},
		{"duplicate field", "Hour=9,Hour=10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("calendar", tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidSchedule))
		})
	}
}

func TestParseUnknownType(t *testing.T) {
	_, err := Parse("cron", "* * * * *")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidSchedule))
}
