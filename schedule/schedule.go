// Package schedule parses and normalizes job schedule expressions.
//
// Two schedule types exist, mirroring what launchd itself accepts: interval
// schedules ("every N seconds/minutes/hours/days", serialized as
// StartInterval) and calendar schedules (sparse time-field mappings like
// "Hour=9,Minute=30", serialized as StartCalendarInterval, where every unset
// field means "every occurrence").
package schedule

import (
	"fmt"
	"strings"
)

// Type identifies the schedule flavor
type Type string

const (
	TypeInterval Type = "interval"
	TypeCalendar Type = "calendar"
)

// Field names launchd recognizes inside StartCalendarInterval
const (
	FieldMinute  = "Minute"
	FieldHour    = "Hour"
	FieldDay     = "Day"
	FieldWeekday = "Weekday"
	FieldMonth   = "Month"
)

// blockFieldOrder is the canonical serialization order for calendar fields.
// Serialization must be byte-stable across calls; map iteration order is not.
var blockFieldOrder = []string{FieldMinute, FieldHour, FieldDay, FieldWeekday, FieldMonth}

// fieldRanges gives the inclusive valid range for each calendar field.
// Weekday 0 is Sunday, per launchd.
var fieldRanges = map[string][2]int{
	FieldMinute:  {0, 59},
	FieldHour:    {0, 23},
	FieldDay:     {1, 31},
	FieldWeekday: {0, 6},
	FieldMonth:   {1, 12},
}

// Spec is a normalized, validated schedule. Construct only via Parse;
// a Spec is immutable once built.
type Spec struct {
	Type Type

	// IntervalSeconds is set when Type == TypeInterval.
	IntervalSeconds int

	// Calendar is set when Type == TypeCalendar. Keys are the canonical
	// launchd field names; absent keys mean "every occurrence".
	Calendar map[string]int
}

// DescriptorBlock serializes the schedule as the launchd XML fragment the
// descriptor template embeds. Output is deterministic: calendar fields always
// appear in Minute, Hour, Day, Weekday, Month order.
func (s Spec) DescriptorBlock() string {
	if s.Type == TypeInterval {
		return fmt.Sprintf("<key>StartInterval</key>\n\t<integer>%d</integer>", s.IntervalSeconds)
	}

	var b strings.Builder
	b.WriteString("<key>StartCalendarInterval</key>\n\t<dict>")
	for _, field := range blockFieldOrder {
		value, ok := s.Calendar[field]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n\t\t<key>%s</key>\n\t\t<integer>%d</integer>", field, value)
	}
	b.WriteString("\n\t</dict>")
	return b.String()
}

// String returns the canonical compact form used for registry storage and
// display, e.g. "300s" or "Hour=9,Minute=30".
func (s Spec) String() string {
	if s.Type == TypeInterval {
		return fmt.Sprintf("%ds", s.IntervalSeconds)
	}

	var parts []string
	for _, field := range blockFieldOrder {
		if value, ok := s.Calendar[field]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", field, value))
		}
	}
	return strings.Join(parts, ",")
}
