// Package pnr renders accepted passenger records into the fixed-syntax
// reservation entries consumed by downstream booking systems. The literal
// layout of both line kinds is an external wire format and is reproduced
// byte for byte.
package pnr

import (
	"fmt"
	"strings"

	"go-pnr-builder/passenger"
)

// Options configure the formatter tokens. Zero values take the defaults
// used by the reservation system this feeds.
type Options struct {
	// Carrier is the airline code on document lines, e.g. "SV".
	Carrier string
	// Status is the segment status token, e.g. "HK1".
	Status string
}

const (
	DefaultCarrier = "SV"
	DefaultStatus  = "HK1"
)

type Formatter struct {
	opts Options
}

func NewFormatter(opts Options) *Formatter {
	if opts.Carrier == "" {
		opts.Carrier = DefaultCarrier
	}
	if opts.Status == "" {
		opts.Status = DefaultStatus
	}
	return &Formatter{opts: opts}
}

// NameLines renders one NM1 entry per passenger. Adults come first, each
// optionally carrying one infant reference; infants are paired with adults
// in upload order, first available adult first, with no check that the two
// are actually related (a documented policy, not a correctness guarantee).
// Unaccompanied minors follow with a (CHD/<dob>) suffix, and any infant
// left without an adult is emitted standalone.
func (f *Formatter) NameLines(records []passenger.Record) []string {
	var adults, children, infants []passenger.Record
	for _, r := range records {
		switch r.Title {
		case passenger.TitleInfant:
			infants = append(infants, r)
		case passenger.TitleMaster, passenger.TitleMiss, passenger.TitleChild:
			children = append(children, r)
		default:
			adults = append(adults, r)
		}
	}

	lines := make([]string, 0, len(records))
	infIndex := 0

	for _, a := range adults {
		line := fmt.Sprintf("NM1%s/%s %s", a.Surname, a.GivenNames, a.Title)
		if infIndex < len(infants) {
			inf := infants[infIndex]
			line += fmt.Sprintf(" (INF/%s %s/%s)", inf.Surname, inf.GivenNames, inf.BirthDate.Format())
			infIndex++
		}
		lines = append(lines, line)
	}

	for _, c := range children {
		lines = append(lines, fmt.Sprintf("NM1%s/%s %s (CHD/%s)",
			c.Surname, c.GivenNames, c.Title, c.BirthDate.Format()))
	}

	for ; infIndex < len(infants); infIndex++ {
		inf := infants[infIndex]
		lines = append(lines, fmt.Sprintf("NM1%s/%s %s", inf.Surname, inf.GivenNames, inf.Title))
	}

	return lines
}

// DocumentLines renders one SRDOCS entry per passenger, in acceptance
// order. The trailing H/P<n> marker carries the 1-based position of the
// passenger in the batch, not the document number.
func (f *Formatter) DocumentLines(records []passenger.Record) []string {
	lines := make([]string, 0, len(records))
	for i, r := range records {
		lines = append(lines, fmt.Sprintf("SRDOCS %s %s-%s-%s-%s-%s-%s-%s-%s-%s-%s-H/P%d",
			f.opts.Carrier,
			f.opts.Status,
			r.DocumentType,
			r.Nationality,
			r.DocumentNumber,
			r.Nationality,
			r.BirthDate.Format(),
			r.Sex.Code(),
			r.ExpiryDate.Format(),
			r.Surname,
			strings.ReplaceAll(r.GivenNames, " ", "-"),
			i+1,
		))
	}
	return lines
}

// Output renders the full text block: name lines, a blank line, then
// document lines, all newline-joined.
func (f *Formatter) Output(records []passenger.Record) string {
	return strings.Join(f.NameLines(records), "\n") +
		"\n\n" +
		strings.Join(f.DocumentLines(records), "\n")
}
