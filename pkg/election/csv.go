package election

import (
	"cmp"
	"encoding/csv"
	stderrors "errors"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/electoral/pkg/errors"
)

// Column names of the per-year results table.
const (
	ColState        = "State"
	ColAbbreviation = "Abbreviation"
	ColTotalEV      = "Total_EV"
	ColYear         = "Year"
)

// Column names of the year summary table.
const (
	ColSummaryYear  = "YEAR"
	ColSummaryParty = "PARTY"
)

// ResultColumns lists the required columns of the results table.
var ResultColumns = []string{
	ColState, ColAbbreviation, ColTotalEV,
	"D_Nominee", "D_Percentage", "D_Votes",
	"R_Nominee", "R_Percentage", "R_Votes",
	"I_Nominee", "I_Percentage", "I_Votes",
}

// table is a header-indexed view over CSV rows.
type table struct {
	cols map[string]int
	line int
	row  []string
}

func readHeader(cr *csv.Reader, required []string) (*table, error) {
	header, err := cr.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "empty table: missing header")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "read header")
	}
	t := &table{cols: make(map[string]int, len(header)), line: 1}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		t.cols[name] = i
	}
	for _, name := range required {
		if _, ok := t.cols[name]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "missing column %q", name)
		}
	}
	return t, nil
}

func (t *table) next(cr *csv.Reader) (bool, error) {
	row, err := cr.Read()
	if stderrors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidRecord, err, "line %d", t.line+1)
	}
	t.line++
	t.row = row
	return true, nil
}

func (t *table) text(col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(t.row) {
		return ""
	}
	return strings.TrimSpace(t.row[i])
}

// integer parses a whole-number cell. Empty cells read as zero.
func (t *table) integer(col string) (int64, error) {
	s := t.text(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some exports write counts as "1234.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, t.invalid(col, s)
		}
		v = int64(f)
	}
	return v, nil
}

// number parses a decimal cell. Empty cells read as zero.
func (t *table) number(col string) (float64, error) {
	s := t.text(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, t.invalid(col, s)
	}
	return v, nil
}

func (t *table) invalid(col, value string) error {
	return errors.New(errors.ErrCodeInvalidRecord, "line %d: column %s: not a number: %q", t.line, col, value)
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	return cr
}

// ReadRecords parses a results table for the given year. Columns are matched
// by header name. Any malformed numeric cell fails the whole read, and the
// returned dataset has already passed [Dataset.Validate].
func ReadRecords(r io.Reader, year int) (*Dataset, error) {
	cr := newCSVReader(r)
	t, err := readHeader(cr, ResultColumns)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Year: year}
	for {
		ok, err := t.next(cr)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rec, err := t.record()
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (t *table) record() (Record, error) {
	rec := Record{
		State:        t.text(ColState),
		Abbreviation: t.text(ColAbbreviation),
		Year:         t.text(ColYear),
	}
	ev, err := t.integer(ColTotalEV)
	if err != nil {
		return Record{}, err
	}
	rec.TotalEV = int(ev)

	for _, p := range Parties {
		res, err := t.result(p)
		if err != nil {
			return Record{}, err
		}
		switch p {
		case Democrat:
			rec.D = res
		case Republican:
			rec.R = res
		case Independent:
			rec.I = res
		}
	}
	return rec, nil
}

func (t *table) result(p Party) (Result, error) {
	prefix := p.String() + "_"
	votes, err := t.integer(prefix + "Votes")
	if err != nil {
		return Result{}, err
	}
	pct, err := t.number(prefix + "Percentage")
	if err != nil {
		return Result{}, err
	}
	return Result{
		Nominee:    t.text(prefix + "Nominee"),
		Votes:      votes,
		Percentage: pct,
	}, nil
}

// ReadSummaries parses the year summary table (YEAR, PARTY) and returns the
// summaries in chronological order.
func ReadSummaries(r io.Reader) ([]YearSummary, error) {
	cr := newCSVReader(r)
	t, err := readHeader(cr, []string{ColSummaryYear, ColSummaryParty})
	if err != nil {
		return nil, err
	}

	var out []YearSummary
	seen := make(map[int]struct{})
	for {
		ok, err := t.next(cr)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		year, err := errors.ParseYear(t.text(ColSummaryYear))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "line %d", t.line)
		}
		if _, dup := seen[year]; dup {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "line %d: year %d listed twice", t.line, year)
		}
		seen[year] = struct{}{}
		party, err := ParseParty(t.text(ColSummaryParty))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "line %d", t.line)
		}
		out = append(out, YearSummary{Year: year, Party: party})
	}

	slices.SortStableFunc(out, func(a, b YearSummary) int { return cmp.Compare(a.Year, b.Year) })
	return out, nil
}

// WriteSummaries writes summaries as the year summary table read by
// ReadSummaries.
func WriteSummaries(w io.Writer, summaries []YearSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColSummaryYear, ColSummaryParty}); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := cw.Write([]string{strconv.Itoa(s.Year), s.Party.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
