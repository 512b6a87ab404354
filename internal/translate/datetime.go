package translate

import (
	"fmt"
	"strings"
	"time"
)

// ASF time formats observed in their API responses.
// ASF uses formats like "2023-06-15T14:00:00.000000" or "2023-06-15T14:00:00Z".
var asfTimeFormats = []string{
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// ParseASFTime parses an ASF timestamp string into a UTC time.Time.
func ParseASFTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty time string", ErrInvalidDateTime)
	}

	var lastErr error
	for _, format := range asfTimeFormats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}

	return time.Time{}, fmt.Errorf("%w: ASF time %q: %v", ErrInvalidDateTime, s, lastErr)
}

// ParseSTACTime parses an item's datetime property (RFC3339, any precision).
func ParseSTACTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: datetime is %T, want string", ErrInvalidDateTime, v)
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateTime, err)
	}
	return t.UTC(), nil
}

// FormatSTACTime formats a time.Time as RFC3339 with nanosecond precision.
func FormatSTACTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatDateTimeInterval renders a STAC datetime interval for a
// start-inclusive, end-exclusive window. STAC intervals are closed, so the
// end is pulled back by one nanosecond. A nil bound is written as "..".
func FormatDateTimeInterval(start, end *time.Time) string {
	if start == nil && end == nil {
		return ""
	}

	from, to := "..", ".."
	if start != nil {
		from = FormatSTACTime(*start)
	}
	if end != nil {
		to = FormatSTACTime(end.Add(-time.Nanosecond))
	}
	return from + "/" + to
}
