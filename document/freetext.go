package document

import (
	"regexp"
	"strings"
)

// nationalIDPattern matches the fixed 5-7-1 digit grouping of national
// identity numbers. Matched anywhere in the text, first occurrence wins.
var nationalIDPattern = regexp.MustCompile(`\d{5}-\d{7}-\d`)

// passportNumberPattern matches the two-letter, seven-digit passport number
// series. Captured as a fallback document number; recognizer output still
// wins on merge.
var passportNumberPattern = regexp.MustCompile(`[A-Z]{2}\d{7}`)

// LabelRule binds a field name to the label phrases that introduce it on a
// printed form. Matching is case-insensitive; the first matching line wins.
type LabelRule struct {
	Field  string
	Labels []string
}

// DefaultLabelRules covers the labelled fields of booking forms the
// recognizer does not structure itself.
func DefaultLabelRules() []LabelRule {
	return []LabelRule{
		{Field: FieldApplicantName, Labels: []string{"NAME OF APPLICANT"}},
		{Field: FieldGuardianName, Labels: []string{"FATHER", "HUSBAND", "GUARDIAN"}},
		{Field: FieldBirthDate, Labels: []string{"DATE OF BIRTH"}},
		{Field: FieldBirthPlace, Labels: []string{"PLACE OF BIRTH"}},
		{Field: FieldIssueDate, Labels: []string{"DATE OF ISSUE"}},
		{Field: FieldMobile, Labels: []string{"MOBILE", "WHATSAPP"}},
		{Field: FieldAddress, Labels: []string{"RESIDENT ADDRESS", "ADDRESS"}},
	}
}

// ScanFreeText extracts labelled fields from recognizer plain-text output.
// A field is found on the first line containing one of its labels; the value
// is the remainder of that line, or the next non-empty line when nothing
// usable follows the label. The national ID is matched independently.
func ScanFreeText(text string, rules []LabelRule) RawFieldSet {
	upper := strings.ToUpper(text)
	lines := strings.Split(upper, "\n")

	fields := RawFieldSet{}
	for _, rule := range rules {
		if v := scanLabel(lines, rule.Labels); v != "" {
			fields[rule.Field] = v
		}
	}

	if id := nationalIDPattern.FindString(upper); id != "" {
		fields[FieldNationalID] = id
	}
	if num := passportNumberPattern.FindString(upper); num != "" {
		fields[FieldDocumentNumber] = num
	}

	return fields
}

func scanLabel(lines []string, labels []string) string {
	for i, line := range lines {
		for _, label := range labels {
			idx := strings.Index(line, label)
			if idx < 0 {
				continue
			}
			rest := strings.TrimLeft(line[idx+len(label):], " \t:.-/")
			rest = strings.TrimSpace(rest)
			if rest != "" {
				return rest
			}
			// Nothing usable after the label; the value sits on the
			// next non-empty line on most scanned forms.
			for _, next := range lines[i+1:] {
				if v := strings.TrimSpace(next); v != "" {
					return v
				}
			}
			return ""
		}
	}
	return ""
}
