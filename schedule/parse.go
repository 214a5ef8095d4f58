package schedule

import (
	"math"
	"strconv"
	"strings"

	"github.com/cbillows/launchd-me/errors"
)

// unitSeconds maps recognized interval unit suffixes to seconds
var unitSeconds = map[string]int{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// Parse validates a raw schedule expression and returns its normalized Spec.
//
// Interval expressions are a positive integer with an optional unit suffix:
// "300", "300s", "5m", "2h", "1d". A bare integer means seconds.
//
// Calendar expressions are comma-separated Field=Value pairs using launchd's
// field names (case-insensitive): "Hour=9,Minute=30". At least one field is
// required and each value must be in its field's valid range.
//
// All failures wrap errors.ErrInvalidSchedule.
func Parse(scheduleType string, raw string) (Spec, error) {
	switch Type(strings.ToLower(strings.TrimSpace(scheduleType))) {
	case TypeInterval:
		return parseInterval(raw)
	case TypeCalendar:
		return parseCalendar(raw)
	default:
		return Spec{}, errors.WithHint(
			errors.NewInvalidScheduleError("unknown schedule type %q", scheduleType),
			`schedule type must be "interval" or "calendar"`)
	}
}

func parseInterval(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Spec{}, errors.NewInvalidScheduleError("empty interval expression")
	}

	numeric := raw
	multiplier := 1
	if suffix := raw[len(raw)-1:]; suffix < "0" || suffix > "9" {
		m, ok := unitSeconds[strings.ToLower(suffix)]
		if !ok {
			return Spec{}, errors.WithHint(
				errors.NewInvalidScheduleError("unrecognized interval unit %q in %q", suffix, raw),
				"valid units are s (seconds), m (minutes), h (hours), d (days)")
		}
		multiplier = m
		numeric = raw[:len(raw)-1]
	}

	value, err := strconv.Atoi(numeric)
	if err != nil {
		return Spec{}, errors.NewInvalidScheduleError("interval value %q is not an integer", numeric)
	}
	if value <= 0 {
		return Spec{}, errors.NewInvalidScheduleError("interval value must be positive, got %d", value)
	}
	if value > math.MaxInt/multiplier {
		return Spec{}, errors.NewInvalidScheduleError("interval %q overflows the supported range", raw)
	}

	return Spec{Type: TypeInterval, IntervalSeconds: value * multiplier}, nil
}

func parseCalendar(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Spec{}, errors.WithHint(
			errors.NewInvalidScheduleError("empty calendar expression"),
			`calendar schedules need at least one field, e.g. "Hour=9,Minute=30"`)
	}

	fields := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return Spec{}, errors.NewInvalidScheduleError("malformed calendar field %q, want Field=Value", pair)
		}

		canonical, err := canonicalField(strings.TrimSpace(name))
		if err != nil {
			return Spec{}, err
		}
		if _, dup := fields[canonical]; dup {
			return Spec{}, errors.NewInvalidScheduleError("calendar field %s specified twice", canonical)
		}

		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return Spec{}, errors.NewInvalidScheduleError("calendar field %s value %q is not an integer", canonical, value)
		}

		bounds := fieldRanges[canonical]
		if n < bounds[0] || n > bounds[1] {
			return Spec{}, errors.NewInvalidScheduleError(
				"calendar field %s value %d out of range %d-%d", canonical, n, bounds[0], bounds[1])
		}

		fields[canonical] = n
	}

	return Spec{Type: TypeCalendar, Calendar: fields}, nil
}

// canonicalField resolves a case-insensitive field name to launchd's spelling
func canonicalField(name string) (string, error) {
	for field := range fieldRanges {
		if strings.EqualFold(field, name) {
			return field, nil
		}
	}
	return "", errors.WithHint(
		errors.NewInvalidScheduleError("unknown calendar field %q", name),
		"valid fields are Minute, Hour, Day, Weekday (0=Sunday), Month")
}
