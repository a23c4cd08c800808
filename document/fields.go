package document

import "strings"

// Field names as produced by the upstream recognizer. The primary keys
// mirror the MRZ readout; the remaining ones come from free-text scanning
// of forms that carry data outside the machine-readable zone.
const (
	FieldSurname        = "surname"
	FieldGivenNames     = "names"
	FieldDocumentNumber = "number"
	FieldDocumentType   = "type"
	FieldSex            = "sex"
	FieldNationality    = "country"
	FieldBirthDate      = "date_of_birth"
	FieldExpiryDate     = "expiration_date"

	FieldApplicantName = "applicant_name"
	FieldGuardianName  = "guardian_name"
	FieldNationalID    = "national_id"
	FieldBirthPlace    = "birth_place"
	FieldIssueDate     = "issue_date"
	FieldMobile        = "mobile"
	FieldAddress       = "address"
)

// RawFieldSet is the untyped field dict one recognizer pass produces for a
// single document. Values are untrusted: they may be empty, malformed or
// carry recognition noise.
type RawFieldSet map[string]string

// Get returns the trimmed value for a field, "" when absent.
func (f RawFieldSet) Get(name string) string {
	return strings.TrimSpace(f[name])
}

// Merge copies fields from other that are not already set. Existing values
// win, so recognizer output takes precedence over free-text scanning.
func (f RawFieldSet) Merge(other RawFieldSet) {
	for k, v := range other {
		if f.Get(k) == "" && strings.TrimSpace(v) != "" {
			f[k] = v
		}
	}
}
