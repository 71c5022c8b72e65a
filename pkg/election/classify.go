package election

import (
	"cmp"
	"slices"
)

// Winner returns the party with the most votes in r. Exact ties go to the
// party listed first in [Parties] (D, then R, then I).
func Winner(r Record) Party {
	winner := Parties[0]
	best := r.Result(winner).Votes
	for _, p := range Parties[1:] {
		if v := r.Result(p).Votes; v > best {
			winner, best = p, v
		}
	}
	return winner
}

// WinMargin is the difference between the two largest vote shares in r,
// regardless of which party won. It is zero only when the top two shares are
// equal.
func WinMargin(r Record) float64 {
	shares := []float64{r.R.Percentage, r.D.Percentage, r.I.Percentage}
	slices.SortFunc(shares, func(a, b float64) int { return cmp.Compare(b, a) })
	return shares[0] - shares[1]
}

// SignedMargin maps a record onto the color-scale axis: Democrat wins are
// negative, Republican wins positive. The boolean is false for Independent
// wins, which are drawn with a fixed color instead.
func SignedMargin(r Record) (float64, bool) {
	switch Winner(r) {
	case Democrat:
		return -WinMargin(r), true
	case Republican:
		return WinMargin(r), true
	}
	return 0, false
}

// Groups holds records partitioned by winning party.
type Groups struct {
	D []Record
	R []Record
	I []Record
}

// Of returns the group of party p.
func (g Groups) Of(p Party) []Record {
	switch p {
	case Democrat:
		return g.D
	case Republican:
		return g.R
	case Independent:
		return g.I
	}
	return nil
}

// Len returns the number of records across all groups.
func (g Groups) Len() int { return len(g.D) + len(g.R) + len(g.I) }

// Partition splits records by [Winner]. Every record lands in exactly one
// group and input order is kept within each group.
func Partition(records []Record) Groups {
	var g Groups
	for _, r := range records {
		switch Winner(r) {
		case Democrat:
			g.D = append(g.D, r)
		case Republican:
			g.R = append(g.R, r)
		default:
			g.I = append(g.I, r)
		}
	}
	return g
}

// SortByMargin sorts records in place by [WinMargin], largest first when
// descending is true. Equal margins keep their relative order.
func SortByMargin(records []Record, descending bool) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if descending {
			return cmp.Compare(WinMargin(b), WinMargin(a))
		}
		return cmp.Compare(WinMargin(a), WinMargin(b))
	})
}
