package passenger

import "strings"

// Sex is the document holder's sex as read from the MRZ.
type Sex int

const (
	SexUnknown Sex = iota
	SexMale
	SexFemale
)

// ParseSex maps the MRZ sex field to a Sex. Anything other than M or F is
// unknown; unknown takes the male branch everywhere for determinism.
func ParseSex(s string) Sex {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return SexMale
	case "F":
		return SexFemale
	default:
		return SexUnknown
	}
}

// Code returns the single-letter wire code used in document lines.
func (s Sex) Code() string {
	if s == SexFemale {
		return "F"
	}
	return "M"
}

// Holder title codes used in reservation name lines.
const (
	TitleInfant = "INF"
	TitleMaster = "MSTR"
	TitleMiss   = "MISS"
	TitleChild  = "CHD"
	TitleMr     = "MR"
	TitleMrs    = "MRS"
)

// Title maps whole-year age and sex to the holder title. Total over all
// integer ages, negative and sentinel values included.
//
//	age < 2        -> INF
//	2 <= age < 12  -> MSTR (male) / MISS (female)
//	age >= 12      -> MR (male) / MRS (female)
func Title(age int, sex Sex) string {
	switch {
	case age < 2:
		return TitleInfant
	case age < 12:
		if sex == SexFemale {
			return TitleMiss
		}
		return TitleMaster
	default:
		if sex == SexFemale {
			return TitleMrs
		}
		return TitleMr
	}
}

// CollapsedTitle is the simplified variant that folds MSTR and MISS into a
// single CHD child category.
func CollapsedTitle(age int, sex Sex) string {
	t := Title(age, sex)
	if t == TitleMaster || t == TitleMiss {
		return TitleChild
	}
	return t
}

// IsAdultTitle reports whether the title belongs to the adult bracket.
func IsAdultTitle(title string) bool {
	return title == TitleMr || title == TitleMrs
}
