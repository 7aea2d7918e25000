// Package datex provides a calendar date type that travels as YYYY-MM-DD
// over JSON and through the database.
package datex

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

// Date is a calendar day pinned to midnight UTC.
type Date struct {
	time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the clock part of t, keeping t's own calendar day.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, m, d)
}

func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	return FromTime(now())
}

// Parse accepts strictly YYYY-MM-DD.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return FromTime(t), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(Layout)
}

func (d Date) AddDays(n int) Date {
	return FromTime(d.Time.AddDate(0, 0, n))
}

// AddMonths moves n calendar months keeping the day of month, clamped to the
// last day of the target month when that day does not exist.
func (d Date) AddMonths(n int) Date {
	y, m, day := d.Time.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return New(first.Year(), first.Month(), day)
}

func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

// DaysUntil returns other - d in whole days.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	return New(d.Year(), d.Month(), 1)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as YYYY-MM-DD so it compares lexically on every driver.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = FromTime(v)
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("datex: cannot scan %T into Date", value)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(Layout) {
		s = s[:len(Layout)]
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("datex: cannot scan %q: %w", s, err)
	}
	*d = parsed
	return nil
}

func (Date) GormDataType() string {
	return "date"
}
