package wire

import (
	"time"
)

// dateLayout is RFC 3339 without fractional seconds. Formatting emits Z
// exactly when the offset is UTC, a numeric ±HH:MM offset otherwise.
const dateLayout = "2006-01-02T15:04:05Z07:00"

// Date is an instant with second precision and an explicit UTC offset.
type Date struct {
	t time.Time
}

// DateOf truncates t to second precision. The offset is preserved, so the
// rendered text keeps the original zone.
func DateOf(t time.Time) Date {
	return Date{t: canonicalTime(t)}
}

func canonicalTime(t time.Time) time.Time {
	_, off := t.Zone()
	loc := time.UTC
	if off != 0 {
		loc = time.FixedZone("", off)
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

// ParseDate parses a Date. The offset is mandatory: either Z or ±HH:MM.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Type: "Date", Value: s, Reason: "not a YYYY-MM-DDTHH:MM:SS±HH:MM timestamp"}
	}
	return DateOf(t), nil
}

// Time returns the underlying instant.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// Equal reports whether d and o are the same instant, regardless of the
// offset they render with.
func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// UTCDate is a Date pinned to the UTC offset. It always renders with a
// trailing Z.
type UTCDate struct {
	Date
}

// UTCDateOf wraps t as a UTCDate. Instants carrying a non-UTC offset are
// rejected rather than silently converted.
func UTCDateOf(t time.Time) (UTCDate, error) {
	if _, off := t.Zone(); off != 0 {
		return UTCDate{}, &ValidationError{Type: "UTCDate", Value: t, Reason: "offset is not UTC"}
	}
	return UTCDate{Date: DateOf(t)}, nil
}

// MustUTCDate is UTCDateOf for trusted values. It panics on invalid input.
func MustUTCDate(t time.Time) UTCDate {
	d, err := UTCDateOf(t)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseUTCDate parses a Date and rejects any non-UTC offset.
func ParseUTCDate(s string) (UTCDate, error) {
	d, err := ParseDate(s)
	if err != nil {
		return UTCDate{}, err
	}
	if _, off := d.t.Zone(); off != 0 {
		return UTCDate{}, &ValidationError{Type: "UTCDate", Value: s, Reason: "offset is not UTC"}
	}
	return UTCDate{Date: d}, nil
}
