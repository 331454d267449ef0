// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hijri converts Gregorian instants to tabular (civil) Islamic
// calendar dates for display. The tabular calendar is arithmetic, not
// observational; dates may differ by a day from locally sighted calendars,
// which is acceptable for editorial display.
package hijri

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthNames holds the Hijri month names, 1-indexed (index 0 unused).
var MonthNames = [13]string{
	"",
	"Muharram",
	"Safar",
	"Rabi' al-Awwal",
	"Rabi' al-Thani",
	"Jumada al-Awwal",
	"Jumada al-Thani",
	"Rajab",
	"Sha'ban",
	"Ramadan",
	"Shawwal",
	"Dhu al-Qi'dah",
	"Dhu al-Hijjah",
}

// Date is a Hijri calendar date.
type Date struct {
	Year  int
	Month int // 1..12
	Day   int // 1..30
}

// String renders the date as "<day> <month-name> <year> AH".
func (d Date) String() string {
	return fmt.Sprintf("%d %s %d AH", d.Day, MonthNames[d.Month], d.Year)
}

// FromTime converts a Gregorian instant (interpreted in UTC) to a Hijri date.
func FromTime(t time.Time) Date {
	t = t.UTC()
	return fromJDN(julianDayNumber(t.Year(), int(t.Month()), t.Day()))
}

// julianDayNumber computes the Julian day number for a Gregorian date.
func julianDayNumber(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// fromJDN converts a Julian day number to a tabular Islamic date
// (Kuwaiti/civil integer algorithm, epoch 16 July 622 CE).
func fromJDN(jdn int) Date {
	l := jdn - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * l) / 709
	day := l - (709*month)/24
	year := 30*n + j - 30
	return Date{Year: year, Month: month, Day: day}
}

// millisecondThreshold separates second from millisecond timestamps. Any
// magnitude at or above it is taken as milliseconds (1e12 seconds is year
// 33658, far outside editorial range).
const millisecondThreshold = 1_000_000_000_000

// FormatForDisplay renders a stored date field for the admin UI. Legacy rows
// hold already-human-readable Hijri strings ("12 Ramadan 1446"); those pass
// through unchanged. Migrated rows hold a numeric Unix timestamp string,
// which is converted to "<day> <month-name> <year> AH".
func FormatForDisplay(value string) string {
	trimmed := strings.TrimSpace(value)
	ts, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return value
	}

	var t time.Time
	if ts >= millisecondThreshold || ts <= -millisecondThreshold {
		t = time.UnixMilli(ts)
	} else {
		t = time.Unix(ts, 0)
	}
	return FromTime(t).String()
}
