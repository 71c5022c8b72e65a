// Package tooltip builds the hover payloads shown for tiles and bars.
//
// Payloads are plain values computed from a record or dataset; nothing is
// cached or shared between calls.
package tooltip

import (
	"fmt"

	"github.com/matzehuels/electoral/pkg/election"
)

// Entry is one party line of a payload.
type Entry struct {
	Nominee    string         `json:"nominee"`
	Votes      int64          `json:"votes"`
	Percentage float64        `json:"percentage"`
	Party      election.Party `json:"party"`
}

// Payload is the content of one tooltip.
type Payload struct {
	State          string         `json:"state,omitempty"`
	Winner         election.Party `json:"winner"`
	WinnerNominee  string         `json:"winner_nominee"`
	ElectoralVotes int            `json:"electoral_votes"`
	Entries        []Entry        `json:"entries"`
}

// ForState returns the payload of a single state. Parties without votes are
// left out.
func ForState(r election.Record) Payload {
	w := election.Winner(r)
	p := Payload{
		State:          r.State,
		Winner:         w,
		WinnerNominee:  r.Result(w).Nominee,
		ElectoralVotes: r.TotalEV,
	}
	for _, party := range election.Parties {
		res := r.Result(party)
		if res.Votes <= 0 {
			continue
		}
		p.Entries = append(p.Entries, Entry{
			Nominee:    res.Nominee,
			Votes:      res.Votes,
			Percentage: res.Percentage,
			Party:      party,
		})
	}
	return p
}

// ForTotals returns the national payload: per-party vote totals and their
// share of all votes, rounded to one decimal. The winner is the party with
// the most votes.
func ForTotals(ds *election.Dataset) Payload {
	totals := ds.VoteTotals()
	var sum int64
	for _, v := range totals {
		sum += v
	}
	p := Payload{ElectoralVotes: ds.TotalEV()}
	var best int64 = -1
	for _, party := range election.Parties {
		v := totals[party]
		if v > best {
			best = v
			p.Winner = party
		}
		if v <= 0 {
			continue
		}
		p.Entries = append(p.Entries, Entry{
			Nominee:    ds.Nominee(party),
			Votes:      v,
			Percentage: round1(float64(v) / float64(sum) * 100),
			Party:      party,
		})
	}
	p.WinnerNominee = ds.Nominee(p.Winner)
	return p
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

// Lines renders the payload as text: a heading followed by one line per
// entry.
func (p Payload) Lines() []string {
	heading := "Popular Vote"
	if p.State != "" {
		heading = p.State
	}
	lines := []string{
		heading,
		fmt.Sprintf("Electoral Votes: %d", p.ElectoralVotes),
	}
	for _, e := range p.Entries {
		nominee := e.Nominee
		if nominee == "" {
			nominee = e.Party.Name()
		}
		lines = append(lines, fmt.Sprintf("%s: %d (%.1f%%)", nominee, e.Votes, e.Percentage))
	}
	return lines
}
