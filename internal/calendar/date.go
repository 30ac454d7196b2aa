package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// ISOFormat is the canonical wire format for dates.
const ISOFormat = "2006-01-02"

// europeanFormat is the only other format accepted on input (day/month/year).
const europeanFormat = "02/01/2006"

// Date is a calendar day with no time-of-day component.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in UTC.
func Today() Date { return New(time.Now().UTC().Date()) }

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the calendar year.
func (d Date) Year() int { return d.y }

// Month returns the calendar month.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// AddDays returns a new Date shifted by the given number of days.
func (d Date) AddDays(n int) Date { return New(d.y, d.m, d.d+n) }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// DaysUntil returns the number of calendar days from d to x (negative if x is earlier).
func (d Date) DaysUntil(x Date) int {
	return int(x.time().Sub(d.time()) / (24 * time.Hour))
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.time().Format(ISOFormat) }

// Quarter returns the calendar quarter label: Q1..Q4.
func (d Date) Quarter() string {
	switch {
	case d.m <= time.March:
		return "Q1"
	case d.m <= time.June:
		return "Q2"
	case d.m <= time.September:
		return "Q3"
	default:
		return "Q4"
	}
}

// QuarterBucket returns the "<year>/<quarter>" bucket key for the date, e.g. "2025/Q4".
func (d Date) QuarterBucket() string {
	return fmt.Sprintf("%04d/%s", d.y, d.Quarter())
}

// Parse reads a Date from a string. Exactly two formats are accepted:
// "2025-11-15" (ISO) and "15/11/2025" (day/month/year). Anything else,
// including month/day/year orderings, is rejected.
func Parse(str string) (Date, error) {
	for _, layout := range []string{ISOFormat, europeanFormat} {
		if t, err := time.Parse(layout, str); err == nil {
			return New(t.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: want %q or %q", str, ISOFormat, "DD/MM/YYYY")
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a date from a JSON string, strictly.
func (d *Date) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
