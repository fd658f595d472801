package logic

import (
	"regexp"
	"strconv"
	"time"
)

// ParseDateTime parses an ISO-8601/RFC3339 datetime string, falling back
// to a timezone-less layout (assumed UTC).
func ParseDateTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}

	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, true
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}

	return time.Time{}, false
}

var durationPattern = regexp.MustCompile(`^-?(\d+y)?(\d+w)?(\d+d)?(\d+h)?(\d+m)?(\d+s)?$`)

// ParseDuration parses a duration string of the form "1y2w3d4h5m6s" (any
// subset, in that order), in addition to anything time.ParseDuration
// accepts, matching the structural duration-timestamp shape used
// elsewhere in the engine.
func ParseDuration(s string) (time.Duration, bool) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}

	if s == "" || !durationPattern.MatchString(s) {
		return 0, false
	}

	neg := false
	rest := s

	if len(rest) > 0 && rest[0] == '-' {
		neg = true
		rest = rest[1:]
	}

	var total time.Duration

	units := map[byte]time.Duration{
		'y': 365 * 24 * time.Hour,
		'w': 7 * 24 * time.Hour,
		'd': 24 * time.Hour,
		'h': time.Hour,
		'm': time.Minute,
		's': time.Second,
	}

	num := ""

	matched := false

	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c >= '0' && c <= '9' {
			num += string(c)

			continue
		}

		unit, ok := units[c]
		if !ok || num == "" {
			return 0, false
		}

		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, false
		}

		total += time.Duration(n) * unit
		num = ""
		matched = true
	}

	if !matched {
		return 0, false
	}

	if neg {
		total = -total
	}

	return total, true
}

// datetimeValue wraps a parsed time into the engine's structural
// datetime representation ({"datetime": "<RFC3339>"}), so type and
// downstream operators can recognize it without reparsing.
func datetimeValue(t time.Time) map[string]any {
	return map[string]any{"datetime": t.UTC().Format(time.RFC3339)}
}

// durationValue wraps a parsed duration into {"timestamp": "<duration>"}.
func durationValue(d time.Duration) map[string]any {
	return map[string]any{"timestamp": d.String()}
}
