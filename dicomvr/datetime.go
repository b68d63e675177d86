package dicomvr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseDate converts a DA value, "YYYYMMDD", into a time.Time in UTC. The
// ACR-NEMA form "YYYY.MM.DD" is accepted too.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layout := "20060102"
	if len(s) == 10 && s[4] == '.' && s[7] == '.' {
		layout = "2006.01.02"
	} else if len(s) != 8 {
		return time.Time{}, fmt.Errorf("malformed date %q, expect YYYYMMDD", s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date %q: %v", s, err)
	}
	return t, nil
}

var (
	timeRE     = regexp.MustCompile(`^([0-9]{2})(?::?([0-9]{2})(?::?([0-9]{2})(?:\.([0-9]{1,6}))?)?)?$`)
	dateTimeRE = regexp.MustCompile(`^([0-9]{4})(?:([0-9]{2})(?:([0-9]{2})(?:([0-9]{2})(?:([0-9]{2})(?:([0-9]{2})(?:\.([0-9]{1,6}))?)?)?)?)?)?([+-][0-9]{4})?$`)
)

// atoiOr returns the value of a matched group, or def for an empty one.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, _ := strconv.Atoi(s)
	return n
}

// fraction converts up to six digits of fractional seconds to nanoseconds.
func fraction(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s + strings.Repeat("0", 9-len(s)))
	return n
}

// ParseTime converts a TM value, "HH[MM[SS[.FFFFFF]]]", into a time.Time on
// January 1 of year 0, UTC. The ACR-NEMA form "HH:MM:SS.frac" is accepted.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	m := timeRE.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("malformed time %q, expect HH[MM[SS[.FFFFFF]]]", s)
	}
	hour, min, sec := atoiOr(m[1], 0), atoiOr(m[2], 0), atoiOr(m[3], 0)
	// 60 is a leap second
	if hour > 23 || min > 59 || sec > 60 {
		return time.Time{}, fmt.Errorf("time %q out of range", s)
	}
	return time.Date(0, time.January, 1, hour, min, sec, fraction(m[4]), time.UTC), nil
}

// ParseDateTime converts a DT value, "YYYY[MM[DD[HH[MM[SS[.F]]]]]][&ZZXX]",
// into a time.Time. Missing components take their lowest value. Without an
// offset the result is in UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	m := dateTimeRE.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("malformed date time %q", s)
	}
	year := atoiOr(m[1], 0)
	month := atoiOr(m[2], 1)
	day := atoiOr(m[3], 1)
	hour, min, sec := atoiOr(m[4], 0), atoiOr(m[5], 0), atoiOr(m[6], 0)

	loc := time.UTC
	if off := m[8]; off != "" {
		hh, mm := atoiOr(off[1:3], 0), atoiOr(off[3:5], 0)
		if hh > 14 || mm > 59 {
			return time.Time{}, fmt.Errorf("date time %q: offset out of range", s)
		}
		secs := hh*3600 + mm*60
		if off[0] == '-' {
			secs = -secs
		}
		loc = time.FixedZone(off, secs)
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, fraction(m[7]), loc)
	// time.Date normalizes out of range fields; a changed field means the
	// input was not a real date.
	if t.Month() != time.Month(month) || t.Day() != day || t.Hour() != hour || t.Minute() != min || sec > 60 {
		return time.Time{}, fmt.Errorf("date time %q out of range", s)
	}
	return t, nil
}
