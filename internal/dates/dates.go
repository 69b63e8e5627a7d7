// Package dates renders timestamps the way the todo list shows them: a short
// absolute form and a "friendly" form relative to the current time.
//
// Every function takes now explicitly so callers (and tests) decide which
// clock and which location apply. Day boundaries are computed in
// now.Location().
package dates

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const InvalidDate = "[invalid date]"

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour

	maxDaysShown = 99
)

// ShortDate renders "Jan 2" for dates in now's year and "Jan 2, 2006" otherwise.
func ShortDate(t, now time.Time) string {
	t = t.In(now.Location())
	if t.Year() != now.Year() {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

// Parse accepts ISO-8601 timestamps as written by the persistence layer,
// with or without fractional seconds.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func FriendlyString(s string, now time.Time) string {
	t, ok := Parse(s)
	if !ok {
		return InvalidDate
	}
	return Friendly(t, now)
}

// Friendly describes t relative to now, e.g. "3 minutes ago",
// "2 hours from now (Jun 15)" or "yesterday (Jun 14)". The zero time is
// treated as invalid.
func Friendly(t, now time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	loc := now.Location()
	t = t.In(loc)

	ts := float64(t.UnixMilli()) / 1000
	nowTS := float64(now.UnixMilli()) / 1000
	y, m, d := now.Date()
	zerohourToday := float64(time.Date(y, m, d, 0, 0, 0, 0, loc).Unix())

	short := ShortDate(t, now)
	diff := int64(math.Floor(nowTS - ts + 0.5))
	diffInDays := int64(math.Ceil(math.Abs(zerohourToday-ts) / day))

	switch {
	case diff < -2*day:
		if diffInDays <= maxDaysShown+1 {
			return short + " (" + itoa(diffInDays-1) + " days from now)"
		}
		return short
	case diff <= -2*hour:
		return itoa(-diff/hour) + " hours from now (" + short + ")"
	case diff <= -hour:
		return "1 hour from now"
	case diff <= -2*minute:
		return itoa(-diff/minute) + " minutes from now"
	case diff <= -minute:
		return "1 minute from now"
	case diff <= -10:
		return itoa(-diff) + " seconds from now"
	case diff < 0:
		return "a few seconds from now"
	case diff < 10:
		return "a few seconds ago"
	case diff < minute:
		return itoa(diff) + " seconds ago"
	case diff < 2*minute:
		return "1 minute ago"
	case diff < hour:
		return itoa(diff/minute) + " minutes ago"
	case diff < 2*hour:
		return "1 hour ago"
	case diff <= day:
		return itoa(diff/hour) + " hours ago"
	case ts < zerohourToday && ts >= zerohourToday-day:
		return "yesterday (" + short + ")"
	}
	if diffInDays <= maxDaysShown {
		return short + " (" + itoa(diffInDays) + " days ago)"
	}
	return short
}

// Tooltip is the long form shown next to a friendly date in detail views.
func Tooltip(t, now time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	return t.In(now.Location()).Format("January 2, 2006 at 03:04 PM")
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
