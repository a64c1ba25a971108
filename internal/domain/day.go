package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DayLayout is the wire and storage format of a Day.
const DayLayout = "2006-01-02"

// Day is a calendar day in UTC, kept as "YYYY-MM-DD". String ordering equals
// chronological ordering, which the range queries rely on.
type Day string

// DayOf returns the UTC calendar day of t.
func DayOf(t time.Time) Day { return Day(t.UTC().Format(DayLayout)) }

// ParseDay validates s and returns it as a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid day %q: use YYYY-MM-DD", s)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of d, or the zero time if d is malformed.
func (d Day) Time() time.Time {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day { return DayOf(d.Time().AddDate(0, 0, n)) }

func (d Day) String() string { return string(d) }

// Value implements driver.Valuer.
func (d Day) Value() (driver.Value, error) { return string(d), nil }

// Scan implements sql.Scanner.
func (d *Day) Scan(v any) error {
	switch x := v.(type) {
	case string:
		*d = Day(x)
	case []byte:
		*d = Day(x)
	case time.Time:
		*d = DayOf(x)
	case nil:
		*d = ""
	default:
		return fmt.Errorf("domain.Day: cannot scan %T", v)
	}
	return nil
}
