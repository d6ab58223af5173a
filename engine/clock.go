/*
clock.go - Clock-text normalization

PURPOSE:
  Raw attendance exports mix several clock-time conventions in the same
  column: "0800", "800", "8:00", "8:00 AM", "17:00". ParseClock normalizes
  all of them into a canonical TimeOfDay, or reports an explicit unparsed
  result - never a silently wrong time.

RULES (tried in order):
  1. 4-digit numeric "HHMM"  -> hour = first two digits, minute = last two
  2. 3-digit numeric "HMM"   -> hour = first digit, minute = last two
  3. "H:MM" / "HH:MM" with optional AM/PM suffix
     - explicit PM: hour += 12 (except 12 PM)
     - explicit AM: 12 AM -> 0
     - no suffix and hour 1-7: assume PM (afternoon-shift convention)
     - no suffix and hour 0 or 8-23: taken as-is
  Out-of-range hour (>23) or minute (>59) -> unparsed.

COMPATIBILITY NOTE:
  The PM-guessing heuristic is ambiguous by construction ("7:00" can never
  mean 7 AM) but is preserved verbatim for round-trip compatibility with
  existing attendance data.
*/
package engine

import (
	"strconv"
	"strings"
)

// ParseClock normalizes a raw clock-time token into a TimeOfDay.
// A failure returns the unparsed TimeOfDay and an UnparsedClockError.
func ParseClock(raw string) (TimeOfDay, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return TimeOfDay{}, &UnparsedClockError{Raw: raw}
	}

	if t, ok := parseNumericClock(token); ok {
		return t, nil
	}
	if t, ok := parseColonClock(token); ok {
		return t, nil
	}
	return TimeOfDay{}, &UnparsedClockError{Raw: raw}
}

// parseNumericClock handles the "0800" and "800" forms.
func parseNumericClock(token string) (TimeOfDay, bool) {
	if len(token) != 3 && len(token) != 4 {
		return TimeOfDay{}, false
	}
	if _, err := strconv.Atoi(token); err != nil {
		return TimeOfDay{}, false
	}

	split := len(token) - 2
	hour, _ := strconv.Atoi(token[:split])
	minute, _ := strconv.Atoi(token[split:])

	t := ClockTime(hour, minute)
	return t, t.IsValid()
}

// parseColonClock handles "H:MM" and "HH:MM", optionally suffixed with
// AM/PM (with or without a separating space).
func parseColonClock(token string) (TimeOfDay, bool) {
	meridiem := ""
	switch {
	case strings.HasSuffix(token, "AM"):
		meridiem = "AM"
		token = strings.TrimSpace(strings.TrimSuffix(token, "AM"))
	case strings.HasSuffix(token, "PM"):
		meridiem = "PM"
		token = strings.TrimSpace(strings.TrimSuffix(token, "PM"))
	}

	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, false
	}

	switch meridiem {
	case "PM":
		if hour < 1 || hour > 12 {
			return TimeOfDay{}, false
		}
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return TimeOfDay{}, false
		}
		if hour == 12 {
			hour = 0
		}
	default:
		// Afternoon-shift convention: a bare 1-7 o'clock reading is a PM
		// time. Hour 0 and 8-23 pass through unchanged.
		if hour >= 1 && hour <= 7 {
			hour += 12
		}
	}

	t := ClockTime(hour, minute)
	return t, t.IsValid()
}
