package pnr

import (
	"fmt"
	"strconv"
	"strings"
)

// DocumentLine is the parsed form of one SRDOCS entry.
type DocumentLine struct {
	Carrier        string
	Status         string
	DocumentType   string
	Nationality    string
	DocumentNumber string
	BirthDate      string
	SexCode        string
	ExpiryDate     string
	Surname        string
	// GivenNames has the hyphen separators turned back into spaces; a
	// genuine hyphen inside a name is indistinguishable on the wire.
	GivenNames string
	Passenger  int
}

// ParseDocumentLine re-reads an SRDOCS line emitted by the formatter. The
// leading fields sit at fixed positions, so document number, birth date and
// sex code round-trip exactly.
func ParseDocumentLine(line string) (DocumentLine, error) {
	rest, ok := strings.CutPrefix(line, "SRDOCS ")
	if !ok {
		return DocumentLine{}, fmt.Errorf("not an SRDOCS line: %q", line)
	}

	carrier, rest, ok := strings.Cut(rest, " ")
	if !ok {
		return DocumentLine{}, fmt.Errorf("missing carrier separator: %q", line)
	}

	parts := strings.Split(rest, "-")
	// status, type, nat, number, nat, dob, sex, exp, surname, >=1 name
	// part, and the H/P marker.
	if len(parts) < 11 {
		return DocumentLine{}, fmt.Errorf("too few fields in SRDOCS line: %q", line)
	}

	marker := parts[len(parts)-1]
	pax, err := strconv.Atoi(strings.TrimPrefix(marker, "H/P"))
	if err != nil || !strings.HasPrefix(marker, "H/P") {
		return DocumentLine{}, fmt.Errorf("invalid passenger marker %q", marker)
	}

	return DocumentLine{
		Carrier:        carrier,
		Status:         parts[0],
		DocumentType:   parts[1],
		Nationality:    parts[2],
		DocumentNumber: parts[3],
		BirthDate:      parts[5],
		SexCode:        parts[6],
		ExpiryDate:     parts[7],
		Surname:        parts[8],
		GivenNames:     strings.Join(parts[9:len(parts)-1], " "),
		Passenger:      pax,
	}, nil
}
