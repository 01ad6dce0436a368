package services

import (
	"fmt"
	"time"
)

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// FormatRelativeDate renders a timestamp the way the history display does:
// "Today", "Yesterday", "N days ago" up to six days back, then an explicit
// date. Both sides are truncated to local midnight before differencing so
// time of day cannot shift the bucket.
func FormatRelativeDate(value time.Time, now time.Time, location *time.Location) string {
	diffDays := calendarDaysBetween(DateAtLocation(value, location), DateAtLocation(now, location))
	switch {
	case diffDays <= 0:
		return "Today"
	case diffDays == 1:
		return "Yesterday"
	case diffDays < 7:
		return fmt.Sprintf("%d days ago", diffDays)
	default:
		return value.In(location).Format("Jan 2, 2006")
	}
}

// calendarDaysBetween counts whole calendar days from one local midnight to
// another. Both dates are re-anchored in UTC before differencing; dividing
// the local duration by 24h would miscount across a DST transition, where a
// calendar day is 23 or 25 hours long.
func calendarDaysBetween(from time.Time, to time.Time) int {
	fromYear, fromMonth, fromDay := from.Date()
	toYear, toMonth, toDay := to.Date()
	fromUTC := time.Date(fromYear, fromMonth, fromDay, 0, 0, 0, 0, time.UTC)
	toUTC := time.Date(toYear, toMonth, toDay, 0, 0, 0, 0, time.UTC)
	return int(toUTC.Sub(fromUTC).Hours() / 24)
}
