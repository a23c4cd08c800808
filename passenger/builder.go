package passenger

import (
	"fmt"
	"log/slog"
	"strings"

	"go-pnr-builder/document"
)

// Record is the canonical per-document passenger entity. Immutable after
// construction; it lives only for the duration of one batch.
type Record struct {
	Surname        string                `json:"surname"`
	GivenNames     string                `json:"given_names"`
	DocumentNumber string                `json:"document_number"`
	DocumentType   string                `json:"document_type"`
	BirthDate      document.ResolvedDate `json:"birth_date"`
	ExpiryDate     document.ResolvedDate `json:"expiry_date"`
	Sex            Sex                   `json:"sex"`
	Nationality    string                `json:"nationality"`
	Age            int                   `json:"age"`
	Title          string                `json:"title"`

	// Free-text passthrough fields, no semantic validation.
	ApplicantName string `json:"applicant_name,omitempty"`
	GuardianName  string `json:"guardian_name,omitempty"`
	NationalID    string `json:"national_id,omitempty"`
	BirthPlace    string `json:"birth_place,omitempty"`
	IssueDate     string `json:"issue_date,omitempty"`
	Mobile        string `json:"mobile,omitempty"`
	Address       string `json:"address,omitempty"`
}

// Warning kinds reported by the builder. All of them are non-fatal: the
// batch keeps going.
const (
	WarnRecognitionFailed = "recognition_failed"
	WarnDuplicateDocument = "duplicate_document"
)

type Warning struct {
	Kind           string `json:"kind"`
	DocumentNumber string `json:"document_number,omitempty"`
	Detail         string `json:"detail,omitempty"`
}

// BatchConfig tunes one processing batch.
type BatchConfig struct {
	// Strict keys the duplicate set on document number plus birth date
	// instead of document number alone.
	Strict bool
	// FallbackAge is used when the birth date is unresolved; it defaults
	// to an adult age so bad input degrades to adult handling.
	FallbackAge int
	// CollapseChildTitle folds MSTR/MISS into CHD.
	CollapseChildTitle bool
	Normalizer         NormalizerConfig
}

func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		FallbackAge: 30,
		Normalizer:  DefaultNormalizerConfig(),
	}
}

// Batch accumulates accepted records for one processing run. The duplicate
// seen set is owned here, batch-scoped, so independent batches never
// interfere. Not safe for concurrent use; callers processing documents in
// parallel must serialize Add.
type Batch struct {
	cfg   BatchConfig
	norm  *Normalizer
	clock Clock

	records  []Record
	warnings []Warning
	seen     map[string]struct{}
}

func NewBatch(cfg BatchConfig, clock Clock) *Batch {
	if cfg.FallbackAge == 0 {
		cfg.FallbackAge = 30
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Batch{
		cfg:   cfg,
		norm:  NewNormalizer(cfg.Normalizer),
		clock: clock,
		seen:  map[string]struct{}{},
	}
}

// Add builds a record from one raw field set and appends it to the batch.
// It returns the accepted record, or a warning when the document is
// rejected (no usable document number) or dropped as a duplicate. The
// first occurrence of a document number is authoritative.
func (b *Batch) Add(fields document.RawFieldSet) (*Record, *Warning) {
	number := strings.ToUpper(fields.Get(document.FieldDocumentNumber))
	if number == "" {
		w := Warning{Kind: WarnRecognitionFailed, Detail: "no document number recognized"}
		b.warnings = append(b.warnings, w)
		slog.Warn("Document rejected", "reason", w.Detail)
		return nil, &w
	}

	now := b.clock.Now()
	birth := document.ResolveDate(fields.Get(document.FieldBirthDate), now)
	expiry := document.ResolveDate(fields.Get(document.FieldExpiryDate), now)

	key := number
	if b.cfg.Strict {
		key = fmt.Sprintf("%s|%s", number, birth.Format())
	}
	if _, dup := b.seen[key]; dup {
		w := Warning{Kind: WarnDuplicateDocument, DocumentNumber: number}
		b.warnings = append(b.warnings, w)
		slog.Warn("Duplicate document dropped", "document_number", number)
		return nil, &w
	}
	b.seen[key] = struct{}{}

	surname, givenNames := b.norm.Clean(
		fields.Get(document.FieldSurname),
		fields.Get(document.FieldGivenNames),
	)

	age, ok := Age(birth, now)
	if !ok {
		age = b.cfg.FallbackAge
	}

	sex := ParseSex(fields.Get(document.FieldSex))
	title := Title(age, sex)
	if b.cfg.CollapseChildTitle {
		title = CollapsedTitle(age, sex)
	}

	rec := Record{
		Surname:        surname,
		GivenNames:     givenNames,
		DocumentNumber: number,
		DocumentType:   documentType(fields.Get(document.FieldDocumentType)),
		BirthDate:      birth,
		ExpiryDate:     expiry,
		Sex:            sex,
		Nationality:    strings.ToUpper(fields.Get(document.FieldNationality)),
		Age:            age,
		Title:          title,
		ApplicantName:  fields.Get(document.FieldApplicantName),
		GuardianName:   fields.Get(document.FieldGuardianName),
		NationalID:     fields.Get(document.FieldNationalID),
		BirthPlace:     fields.Get(document.FieldBirthPlace),
		IssueDate:      fields.Get(document.FieldIssueDate),
		Mobile:         fields.Get(document.FieldMobile),
		Address:        fields.Get(document.FieldAddress),
	}
	b.records = append(b.records, rec)

	slog.Debug("Document accepted",
		"document_number", number, "title", title, "age", age)
	return &b.records[len(b.records)-1], nil
}

// Records returns the accepted records in acceptance order.
func (b *Batch) Records() []Record {
	return b.records
}

// Warnings returns the non-fatal warnings accumulated so far.
func (b *Batch) Warnings() []Warning {
	return b.warnings
}

// documentType reduces an MRZ document code like "P<" to its wire token.
func documentType(code string) string {
	code = strings.TrimRight(strings.ToUpper(code), "<")
	if code == "" {
		return "P"
	}
	return code
}

// Snapshot is the serializable state of a batch, used to park a batch in
// external storage between documents.
type Snapshot struct {
	Records  []Record  `json:"records"`
	Warnings []Warning `json:"warnings,omitempty"`
	Seen     []string  `json:"seen,omitempty"`
}

func (b *Batch) Snapshot() Snapshot {
	seen := make([]string, 0, len(b.seen))
	for k := range b.seen {
		seen = append(seen, k)
	}
	return Snapshot{Records: b.records, Warnings: b.warnings, Seen: seen}
}

// RestoreBatch rebuilds a batch from a snapshot.
func RestoreBatch(cfg BatchConfig, clock Clock, snap Snapshot) *Batch {
	b := NewBatch(cfg, clock)
	b.records = snap.Records
	b.warnings = snap.Warnings
	for _, k := range snap.Seen {
		b.seen[k] = struct{}{}
	}
	return b
}
