package tooltip

import (
	"slices"
	"testing"

	"github.com/matzehuels/electoral/pkg/election"
)

func TestForState(t *testing.T) {
	r := election.Record{
		State: "Utah", Abbreviation: "UT", TotalEV: 6,
		D: election.Result{Nominee: "Clinton", Votes: 310676, Percentage: 27.5},
		R: election.Result{Nominee: "Trump", Votes: 515231, Percentage: 45.5},
		I: election.Result{Nominee: "McMullin", Votes: 0, Percentage: 0},
	}
	p := ForState(r)
	if p.Winner != election.Republican || p.WinnerNominee != "Trump" || p.ElectoralVotes != 6 {
		t.Errorf("ForState() = %+v", p)
	}
	if len(p.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2 (zero-vote entry dropped)", len(p.Entries))
	}
	if p.Entries[0].Party != election.Democrat || p.Entries[1].Party != election.Republican {
		t.Errorf("Entries order = %+v", p.Entries)
	}

	want := []string{"Utah", "Electoral Votes: 6", "Clinton: 310676 (27.5%)", "Trump: 515231 (45.5%)"}
	if got := p.Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestForStateFreshValues(t *testing.T) {
	r := election.Record{State: "Ohio", Abbreviation: "OH", TotalEV: 18,
		D: election.Result{Nominee: "A", Votes: 1}, R: election.Result{Nominee: "B", Votes: 2}}
	a := ForState(r)
	a.Entries[0].Votes = 99
	if b := ForState(r); b.Entries[0].Votes != 1 {
		t.Error("ForState() shares state between calls")
	}
}

func TestForTotals(t *testing.T) {
	ds := &election.Dataset{Year: 2016, Records: []election.Record{
		{State: "A", Abbreviation: "AA", TotalEV: 3,
			D: election.Result{Nominee: "Dee", Votes: 60}, R: election.Result{Nominee: "Arr", Votes: 90}},
		{State: "B", Abbreviation: "BB", TotalEV: 5,
			D: election.Result{Nominee: "Dee", Votes: 40}, R: election.Result{Nominee: "Arr", Votes: 60}},
	}}
	p := ForTotals(ds)
	if p.Winner != election.Republican || p.WinnerNominee != "Arr" || p.ElectoralVotes != 8 {
		t.Errorf("ForTotals() = %+v", p)
	}
	if len(p.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(p.Entries))
	}
	if p.Entries[0].Percentage != 40.0 || p.Entries[1].Percentage != 60.0 {
		t.Errorf("percentages = %v, %v; want 40, 60", p.Entries[0].Percentage, p.Entries[1].Percentage)
	}
	if p.Lines()[0] != "Popular Vote" {
		t.Errorf("Lines()[0] = %q", p.Lines()[0])
	}
}
