package pnr

import (
	"testing"
	"time"

	"go-pnr-builder/document"
	"go-pnr-builder/passenger"

	"github.com/stretchr/testify/require"
)

func rec(surname, names, number string, birth document.ResolvedDate, sex passenger.Sex, age int) passenger.Record {
	return passenger.Record{
		Surname:        surname,
		GivenNames:     names,
		DocumentNumber: number,
		DocumentType:   "P",
		BirthDate:      birth,
		ExpiryDate:     document.ResolvedDate{Year: 2028, Month: time.January, Day: 1},
		Sex:            sex,
		Nationality:    "PAK",
		Age:            age,
		Title:          passenger.Title(age, sex),
	}
}

func TestNameLines(t *testing.T) {
	f := NewFormatter(Options{})

	t.Run("adult line", func(t *testing.T) {
		lines := f.NameLines([]passenger.Record{
			rec("KHAN", "ALI", "A1", document.ResolvedDate{Year: 1990, Month: time.May, Day: 15}, passenger.SexMale, 36),
		})
		require.Equal(t, []string{"NM1KHAN/ALI MR"}, lines)
	})

	t.Run("infant attaches to first adult", func(t *testing.T) {
		lines := f.NameLines([]passenger.Record{
			rec("KHAN", "SARA", "A2", document.ResolvedDate{Year: 2025, Month: time.August, Day: 15}, passenger.SexFemale, 1),
			rec("KHAN", "ALI", "A1", document.ResolvedDate{Year: 1990, Month: time.May, Day: 15}, passenger.SexMale, 36),
			rec("AHMED", "NOOR", "A3", document.ResolvedDate{Year: 1985, Month: time.March, Day: 2}, passenger.SexFemale, 41),
		})
		require.Equal(t, []string{
			"NM1KHAN/ALI MR (INF/KHAN SARA/15AUG25)",
			"NM1AHMED/NOOR MRS",
		}, lines)
	})

	t.Run("child carries a CHD suffix", func(t *testing.T) {
		lines := f.NameLines([]passenger.Record{
			rec("KHAN", "ALI", "A1", document.ResolvedDate{Year: 1990, Month: time.May, Day: 15}, passenger.SexMale, 36),
			rec("KHAN", "OMAR", "A4", document.ResolvedDate{Year: 2020, Month: time.June, Day: 3}, passenger.SexMale, 6),
		})
		require.Equal(t, []string{
			"NM1KHAN/ALI MR",
			"NM1KHAN/OMAR MSTR (CHD/03JUN20)",
		}, lines)
	})

	t.Run("infant without adult is emitted standalone", func(t *testing.T) {
		lines := f.NameLines([]passenger.Record{
			rec("KHAN", "SARA", "A2", document.ResolvedDate{Year: 2025, Month: time.August, Day: 15}, passenger.SexFemale, 1),
		})
		require.Equal(t, []string{"NM1KHAN/SARA INF"}, lines)
	})

	t.Run("one infant per adult", func(t *testing.T) {
		lines := f.NameLines([]passenger.Record{
			rec("KHAN", "ALI", "A1", document.ResolvedDate{Year: 1990, Month: time.May, Day: 15}, passenger.SexMale, 36),
			rec("KHAN", "SARA", "A2", document.ResolvedDate{Year: 2025, Month: time.August, Day: 15}, passenger.SexFemale, 1),
			rec("KHAN", "ZAIN", "A5", document.ResolvedDate{Year: 2025, Month: time.February, Day: 1}, passenger.SexMale, 1),
		})
		require.Equal(t, []string{
			"NM1KHAN/ALI MR (INF/KHAN SARA/15AUG25)",
			"NM1KHAN/ZAIN INF",
		}, lines)
	})
}

func TestDocumentLines(t *testing.T) {
	t.Run("exact wire layout", func(t *testing.T) {
		f := NewFormatter(Options{})
		lines := f.DocumentLines([]passenger.Record{
			rec("KHAN", "ALI AHMED", "AB1234567", document.ResolvedDate{Year: 1990, Month: time.May, Day: 15}, passenger.SexMale, 36),
		})
		require.Equal(t, []string{
			"SRDOCS SV HK1-P-PAK-AB1234567-PAK-15MAY90-M-01JAN28-KHAN-ALI-AHMED-H/P1",
		}, lines)
	})

	t.Run("marker counts passengers not documents", func(t *testing.T) {
		f := NewFormatter(Options{Carrier: "PK", Status: "HK2"})
		lines := f.DocumentLines([]passenger.Record{
			rec("KHAN", "ALI", "A1", document.ResolvedDate{Year: 1990, Month: time.May, Day: 15}, passenger.SexMale, 36),
			rec("AHMED", "NOOR", "B7", document.ResolvedDate{Year: 1985, Month: time.March, Day: 2}, passenger.SexFemale, 41),
		})
		require.Len(t, lines, 2)
		require.Equal(t, "SRDOCS PK HK2-P-PAK-A1-PAK-15MAY90-M-01JAN28-KHAN-ALI-H/P1", lines[0])
		require.Equal(t, "SRDOCS PK HK2-P-PAK-B7-PAK-02MAR85-F-01JAN28-AHMED-NOOR-H/P2", lines[1])
	})
}

func TestOutput(t *testing.T) {
	f := NewFormatter(Options{})
	out := f.Output([]passenger.Record{
		rec("KHAN", "ALI", "A1", document.ResolvedDate{Year: 1990, Month: time.May, Day: 15}, passenger.SexMale, 36),
	})
	require.Equal(t,
		"NM1KHAN/ALI MR\n\nSRDOCS SV HK1-P-PAK-A1-PAK-15MAY90-M-01JAN28-KHAN-ALI-H/P1",
		out)
}
