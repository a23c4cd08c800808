package passenger

import (
	"testing"
	"time"

	"go-pnr-builder/document"

	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testBatch(cfg BatchConfig) *Batch {
	return NewBatch(cfg, fixedClock{t: testNow})
}

func adultFields() document.RawFieldSet {
	return document.RawFieldSet{
		document.FieldSurname:        "KHAN",
		document.FieldGivenNames:     "ALI<<AHMED",
		document.FieldDocumentNumber: "AB1234567",
		document.FieldDocumentType:   "P<",
		document.FieldSex:            "M",
		document.FieldNationality:    "PAK",
		document.FieldBirthDate:      "900515",
		document.FieldExpiryDate:     "280101",
	}
}

func TestBatchAdd(t *testing.T) {
	t.Run("accepted adult record", func(t *testing.T) {
		b := testBatch(DefaultBatchConfig())
		rec, warn := b.Add(adultFields())
		require.Nil(t, warn)
		require.NotNil(t, rec)
		require.Equal(t, "KHAN", rec.Surname)
		require.Equal(t, "ALI AHMED", rec.GivenNames)
		require.Equal(t, "AB1234567", rec.DocumentNumber)
		require.Equal(t, "P", rec.DocumentType)
		require.Equal(t, "PAK", rec.Nationality)
		require.Equal(t, 36, rec.Age)
		require.Equal(t, TitleMr, rec.Title)
		require.Equal(t, "15MAY90", rec.BirthDate.Format())
		require.Equal(t, "01JAN28", rec.ExpiryDate.Format())
	})

	t.Run("missing document number yields recognition warning", func(t *testing.T) {
		b := testBatch(DefaultBatchConfig())
		fields := adultFields()
		delete(fields, document.FieldDocumentNumber)
		rec, warn := b.Add(fields)
		require.Nil(t, rec)
		require.NotNil(t, warn)
		require.Equal(t, WarnRecognitionFailed, warn.Kind)
		require.Empty(t, b.Records())
	})

	t.Run("duplicate document number is dropped", func(t *testing.T) {
		b := testBatch(DefaultBatchConfig())
		_, warn := b.Add(adultFields())
		require.Nil(t, warn)

		second := adultFields()
		second[document.FieldGivenNames] = "OTHER"
		rec, warn := b.Add(second)
		require.Nil(t, rec)
		require.NotNil(t, warn)
		require.Equal(t, WarnDuplicateDocument, warn.Kind)
		require.Equal(t, "AB1234567", warn.DocumentNumber)

		require.Len(t, b.Records(), 1)
		require.Equal(t, "ALI AHMED", b.Records()[0].GivenNames)
	})

	t.Run("strict mode keys on number plus birth date", func(t *testing.T) {
		cfg := DefaultBatchConfig()
		cfg.Strict = true
		b := testBatch(cfg)

		_, warn := b.Add(adultFields())
		require.Nil(t, warn)

		sameNumber := adultFields()
		sameNumber[document.FieldBirthDate] = "910515"
		rec, warn := b.Add(sameNumber)
		require.Nil(t, warn)
		require.NotNil(t, rec)
		require.Len(t, b.Records(), 2)

		exact := adultFields()
		_, warn = b.Add(exact)
		require.NotNil(t, warn)
		require.Equal(t, WarnDuplicateDocument, warn.Kind)
	})

	t.Run("unresolved birth date falls back to adult age", func(t *testing.T) {
		b := testBatch(DefaultBatchConfig())
		fields := adultFields()
		fields[document.FieldBirthDate] = "9X0515"
		rec, warn := b.Add(fields)
		require.Nil(t, warn)
		require.Equal(t, 30, rec.Age)
		require.Equal(t, TitleMr, rec.Title)
		require.False(t, rec.BirthDate.Resolved())
	})

	t.Run("infant title", func(t *testing.T) {
		b := testBatch(DefaultBatchConfig())
		fields := adultFields()
		fields[document.FieldBirthDate] = "250815"
		fields[document.FieldSex] = "F"
		rec, warn := b.Add(fields)
		require.Nil(t, warn)
		require.Equal(t, 1, rec.Age)
		require.Equal(t, TitleInfant, rec.Title)
	})

	t.Run("collapsed child title", func(t *testing.T) {
		cfg := DefaultBatchConfig()
		cfg.CollapseChildTitle = true
		b := testBatch(cfg)
		fields := adultFields()
		fields[document.FieldBirthDate] = "200815"
		rec, warn := b.Add(fields)
		require.Nil(t, warn)
		require.Equal(t, TitleChild, rec.Title)
	})

	t.Run("free-text passthrough fields are carried", func(t *testing.T) {
		b := testBatch(DefaultBatchConfig())
		fields := adultFields()
		fields[document.FieldApplicantName] = "ALI AHMED"
		fields[document.FieldGuardianName] = "AHMED KHAN"
		fields[document.FieldMobile] = "0300 1234567"
		fields[document.FieldAddress] = "HOUSE 1, KARACHI"
		rec, warn := b.Add(fields)
		require.Nil(t, warn)
		require.Equal(t, "ALI AHMED", rec.ApplicantName)
		require.Equal(t, "AHMED KHAN", rec.GuardianName)
		require.Equal(t, "0300 1234567", rec.Mobile)
		require.Equal(t, "HOUSE 1, KARACHI", rec.Address)
	})

	t.Run("document number is uppercased", func(t *testing.T) {
		b := testBatch(DefaultBatchConfig())
		fields := adultFields()
		fields[document.FieldDocumentNumber] = "ab1234567"
		rec, warn := b.Add(fields)
		require.Nil(t, warn)
		require.Equal(t, "AB1234567", rec.DocumentNumber)
	})
}

func TestBatchSnapshotRestore(t *testing.T) {
	b := testBatch(DefaultBatchConfig())
	_, warn := b.Add(adultFields())
	require.Nil(t, warn)

	snap := b.Snapshot()
	restored := RestoreBatch(DefaultBatchConfig(), fixedClock{t: testNow}, snap)
	require.Equal(t, b.Records(), restored.Records())

	// The duplicate set survives the round trip.
	rec, dup := restored.Add(adultFields())
	require.Nil(t, rec)
	require.NotNil(t, dup)
	require.Equal(t, WarnDuplicateDocument, dup.Kind)
}
