package timeutil

import (
	"time"
)

// Warsaw is the office timezone used for report day boundaries and archive paths.
var Warsaw *time.Location

func init() {
	var err error
	Warsaw, err = time.LoadLocation("Europe/Warsaw")
	if err != nil {
		// tzdata missing in slim images
		Warsaw = time.FixedZone("CET", 1*60*60)
	}
}

// Now returns the current time in Warsaw
func Now() time.Time {
	return time.Now().In(Warsaw)
}

// ToWarsaw converts any time to Warsaw
func ToWarsaw(t time.Time) time.Time {
	return t.In(Warsaw)
}

// FormatWarsaw formats a time in Warsaw using the given layout
func FormatWarsaw(t time.Time, layout string) string {
	return t.In(Warsaw).Format(layout)
}

// StartOfDay returns 00:00:00 in Warsaw for the given time
func StartOfDay(t time.Time) time.Time {
	w := t.In(Warsaw)
	return time.Date(w.Year(), w.Month(), w.Day(), 0, 0, 0, 0, Warsaw)
}

// DaysBetween returns the elapsed time from -> to in fractional days.
func DaysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02.01.2006 15:04"
)
