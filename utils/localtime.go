package utils

import (
	"fmt"
	"time"
)

// Reservations are requested as a local day plus times of day. The
// reference timezone is fixed: the restaurants all operate in Tashkent.
const ReferenceTimezone = "Asia/Tashkent"

var referenceLocation *time.Location

func init() {
	loc, err := time.LoadLocation(ReferenceTimezone)
	if err != nil {
		// tzdata missing on the host; +05:00 has no DST transitions.
		loc = time.FixedZone("UZT", 5*60*60)
	}
	referenceLocation = loc
}

// CombineDayTime resolves a "2006-01-02" day and a "15:04" time of day
// in the reference timezone and returns the instant in UTC, which is
// what gets stored and compared.
func CombineDayTime(day, timeOfDay string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", fmt.Sprintf("%s %s", day, timeOfDay), referenceLocation)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q %q: %w", day, timeOfDay, err)
	}
	return t.UTC(), nil
}

// SplitDayTime is the inverse of CombineDayTime: it renders a stored
// instant as the day and time of day it represents in the reference
// timezone.
func SplitDayTime(t time.Time) (day, timeOfDay string) {
	local := t.In(referenceLocation)
	return local.Format("2006-01-02"), local.Format("15:04")
}
