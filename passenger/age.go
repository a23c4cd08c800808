package passenger

import (
	"time"

	"go-pnr-builder/document"
)

// Age returns the whole-year age at now for a resolved birth date. The
// second return value is false when the birth date is unresolved; callers
// fall back to a sentinel instead of failing the record.
func Age(birth document.ResolvedDate, now time.Time) (int, bool) {
	if !birth.Resolved() {
		return 0, false
	}
	years := now.Year() - birth.Year
	if now.Month() < birth.Month || (now.Month() == birth.Month && now.Day() < birth.Day) {
		years--
	}
	return years, true
}

// Breakdown is an age split into years, months and days.
type Breakdown struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// AgeBreakdown returns the Y/M/D age at now. When the day component goes
// negative it borrows the actual length of the month preceding now rather
// than a flat 30 days, so the breakdown is calendar-accurate.
func AgeBreakdown(birth document.ResolvedDate, now time.Time) (Breakdown, bool) {
	if !birth.Resolved() {
		return Breakdown{}, false
	}

	years := now.Year() - birth.Year
	months := int(now.Month()) - int(birth.Month)
	days := now.Day() - birth.Day

	if days < 0 {
		months--
		// Day zero of the current month is the last day of the previous one.
		days += time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, time.UTC).Day()
	}
	if months < 0 {
		years--
		months += 12
	}

	return Breakdown{Years: years, Months: months, Days: days}, true
}
