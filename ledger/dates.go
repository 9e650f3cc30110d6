package ledger

import (
	"time"

	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

// Clock supplies "now"; tests replace it.
type Clock func() time.Time

func DateKey(t time.Time) string { return t.Format(DateLayout) }

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse date %q", s)
	}
	return t, nil
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween lists every date from start to end inclusive.
func DaysBetween(start, end time.Time) []string {
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, DateKey(d))
	}
	return out
}

// InclusiveDays counts calendar days in [start, end].
func InclusiveDays(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours()/24) + 1
}
