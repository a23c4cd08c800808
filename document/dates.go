package document

import (
	"strings"
	"time"
)

// ResolvedDate is a calendar date recovered from a six-digit YYMMDD field.
// The zero value is the unresolved sentinel; unresolved dates render as "".
type ResolvedDate struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

func (d ResolvedDate) Resolved() bool {
	return d.Year != 0
}

// Time returns the date at midnight UTC. Zero time when unresolved.
func (d ResolvedDate) Time() time.Time {
	if !d.Resolved() {
		return time.Time{}
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Format renders the date as DDMMMYY in upper case, e.g. "05JAN99".
// This is the exact form the reservation lines carry.
func (d ResolvedDate) Format() string {
	if !d.Resolved() {
		return ""
	}
	return strings.ToUpper(d.Time().Format("02Jan06"))
}

// ResolveDate parses a YYMMDD string into a calendar date.
//
// Dates are stored on travel documents with only two digits for the year,
// so the century has to be picked relative to the current year: a two-digit
// year greater than now's two-digit year would land in the future under a
// 2000 pivot, so it is read as 19YY; everything else is 20YY. The caller
// supplies "now" so the pivot stays testable and moves with the calendar.
//
// ResolveDate is total: empty, short, non-numeric and impossible dates all
// yield the unresolved sentinel instead of an error.
func ResolveDate(s string, now time.Time) ResolvedDate {
	if len(s) != 6 {
		return ResolvedDate{}
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return ResolvedDate{}
		}
	}

	yy := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[2]-'0')*10 + int(s[3]-'0')
	dd := int(s[4]-'0')*10 + int(s[5]-'0')

	year := 2000 + yy
	if yy > now.Year()%100 {
		year = 1900 + yy
	}

	if mm < 1 || mm > 12 {
		return ResolvedDate{}
	}
	// time.Date normalizes out-of-range days (Feb 30 -> Mar 2), so an
	// impossible day is detected by the round trip changing the date.
	t := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(mm) || t.Day() != dd {
		return ResolvedDate{}
	}

	return ResolvedDate{Year: year, Month: time.Month(mm), Day: dd}
}
