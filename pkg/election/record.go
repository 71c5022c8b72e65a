package election

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/matzehuels/electoral/pkg/errors"
)

// Result is one party's outcome in one state.
type Result struct {
	Nominee    string  `json:"nominee"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// Record is the result of one state in one election year.
type Record struct {
	State        string `json:"state"`
	Abbreviation string `json:"abbreviation"`
	TotalEV      int    `json:"total_ev"`
	D            Result `json:"D"`
	R            Result `json:"R"`
	I            Result `json:"I"`
	Year         string `json:"year,omitempty"`
}

// Result returns the outcome of party p.
func (r Record) Result(p Party) Result {
	switch p {
	case Democrat:
		return r.D
	case Republican:
		return r.R
	case Independent:
		return r.I
	}
	return Result{}
}

// Dataset is the full set of records for one election year. A Dataset is
// treated as immutable once loaded; charts never modify it.
type Dataset struct {
	Year    int      `json:"year"`
	Records []Record `json:"records"`
}

// Validate checks the dataset invariants: every abbreviation is a two-letter
// code that appears once, and no count is negative.
func (d *Dataset) Validate() error {
	if err := errors.ValidateYear(d.Year); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(d.Records))
	for i, r := range d.Records {
		if err := errors.ValidateAbbreviation(r.Abbreviation); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d (%s)", i+1, r.State)
		}
		if _, dup := seen[r.Abbreviation]; dup {
			return errors.New(errors.ErrCodeDuplicateState, "%s appears more than once in %d", r.Abbreviation, d.Year)
		}
		seen[r.Abbreviation] = struct{}{}
		if r.TotalEV < 0 {
			return errors.New(errors.ErrCodeInvalidRecord, "%s: negative electoral votes", r.Abbreviation)
		}
		for _, p := range Parties {
			if r.Result(p).Votes < 0 {
				return errors.New(errors.ErrCodeInvalidRecord, "%s: negative %s votes", r.Abbreviation, p)
			}
		}
	}
	return nil
}

// TotalEV sums the electoral votes of all records.
func (d *Dataset) TotalEV() int {
	total := 0
	for _, r := range d.Records {
		total += r.TotalEV
	}
	return total
}

// VoteTotals sums the raw votes per party across all records.
func (d *Dataset) VoteTotals() map[Party]int64 {
	totals := make(map[Party]int64, len(Parties))
	for _, r := range d.Records {
		for _, p := range Parties {
			totals[p] += r.Result(p).Votes
		}
	}
	return totals
}

// Nominee returns the first non-empty nominee name recorded for p.
func (d *Dataset) Nominee(p Party) string {
	for _, r := range d.Records {
		if n := r.Result(p).Nominee; n != "" {
			return n
		}
	}
	return ""
}

// Abbreviations returns the state codes in record order.
func (d *Dataset) Abbreviations() []string {
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Abbreviation
	}
	return out
}

// Lookup returns the record for the given state code.
func (d *Dataset) Lookup(abbr string) (Record, bool) {
	i := slices.IndexFunc(d.Records, func(r Record) bool { return r.Abbreviation == abbr })
	if i < 0 {
		return Record{}, false
	}
	return d.Records[i], true
}

// Hash returns a content hash of the dataset, stable across loads of the
// same data. It is used as a cache key component.
func (d *Dataset) Hash() string {
	data, _ := json.Marshal(d)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// YearSummary is the winning party of one election year; the timeline shows
// one marker per summary.
type YearSummary struct {
	Year  int   `json:"year"`
	Party Party `json:"party"`
}
