package cli

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host
)

// clockLayouts are the accepted --time forms.
var clockLayouts = []string{"15:04:05.999999999", "15:04:05", "15:04"}

// ResolveInstant turns a civil date, wall-clock time and IANA zone into a UTC
// instant. clock defaults to midnight and tz to UTC. Times falling in a DST
// gap or overlap resolve the way time.Date does.
func ResolveInstant(date, clock, tz string) (time.Time, error) {
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown time zone %q: %w", tz, err)
	}

	d, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", date, err)
	}

	var c time.Time
	if clock = strings.TrimSpace(clock); clock != "" {
		for _, layout := range clockLayouts {
			if c, err = time.Parse(layout, clock); err == nil {
				break
			}
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q (want HH:MM[:SS]): %w", clock, err)
		}
	}

	local := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), c.Nanosecond(), loc)
	return local.UTC(), nil
}

// parseRFC3339 parses an explicit instant flag.
func parseRFC3339(flag, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s %q is not an RFC 3339 instant: %w", flag, value, err)
	}
	return t.UTC(), nil
}
