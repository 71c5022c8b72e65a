package election

import (
	"strings"

	"github.com/matzehuels/electoral/pkg/errors"
)

// Party identifies one of the three tracked parties by its single-letter code.
type Party string

const (
	Democrat    Party = "D"
	Republican  Party = "R"
	Independent Party = "I"
)

// Parties lists the parties in classification priority order. When two
// parties tie for the most votes the one listed first wins.
var Parties = []Party{Democrat, Republican, Independent}

// StackOrder is the left-to-right order of party blocks in the stacked bars.
var StackOrder = []Party{Independent, Democrat, Republican}

// String returns the party code.
func (p Party) String() string { return string(p) }

// Class returns the CSS class used to style elements belonging to p.
func (p Party) Class() string {
	switch p {
	case Democrat:
		return "democrat"
	case Republican:
		return "republican"
	case Independent:
		return "independent"
	}
	return ""
}

// Name returns the human-readable party name.
func (p Party) Name() string {
	switch p {
	case Democrat:
		return "Democrat"
	case Republican:
		return "Republican"
	case Independent:
		return "Independent"
	}
	return "Unknown"
}

// Valid reports whether p is one of the tracked parties.
func (p Party) Valid() bool {
	return p == Democrat || p == Republican || p == Independent
}

// ParseParty parses a party code. Surrounding whitespace and case are ignored.
func ParseParty(s string) (Party, error) {
	p := Party(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", errors.New(errors.ErrCodeInvalidRecord, "unknown party code: %q", s)
	}
	return p, nil
}
