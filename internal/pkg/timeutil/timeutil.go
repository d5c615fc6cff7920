// Package timeutil handles the timestamp conventions at the tool boundary:
// ISO-8601 input with a fixed +09:00 offset assumed for naive values, and
// UTC second-precision RFC 3339 with a literal Z suffix on the wire.
package timeutil

import (
	"fmt"
	"time"
)

// LocalZone is the offset assumed for timestamps that arrive without one.
var LocalZone = time.FixedZone("Asia/Tokyo", 9*60*60)

// ProviderTimeZone is the named zone sent with event datetimes on the wire.
const ProviderTimeZone = "Asia/Tokyo"

// layouts accepted for boundary timestamps, most specific first. Layouts
// without a zone designator are interpreted in LocalZone.
var layouts = []struct {
	format string
	naive  bool
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", true},
}

// Parse parses an ISO-8601 timestamp string. Values without an explicit
// offset are assumed to be in LocalZone (+09:00).
func Parse(s string) (time.Time, error) {
	for _, l := range layouts {
		var t time.Time
		var err error
		if l.naive {
			t, err = time.ParseInLocation(l.format, s, LocalZone)
		} else {
			t, err = time.Parse(l.format, s)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q — use ISO-8601, e.g. 2025-06-15T10:00:00+09:00", s)
}

// FormatUTC renders a timestamp as RFC 3339 UTC with second precision and a
// literal Z suffix, the form the provider expects for time bounds.
func FormatUTC(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

// FormatLocal renders a timestamp in LocalZone with an explicit offset,
// the form used for event start/end datetimes on the wire.
func FormatLocal(t time.Time) string {
	return t.In(LocalZone).Format(time.RFC3339)
}
