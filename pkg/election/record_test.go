package election

import (
	"testing"
)

func TestDatasetVoteTotals(t *testing.T) {
	ds := &Dataset{Year: 2000, Records: []Record{
		rec("AA", 100, 50, 0, 0, 0, 0),
		rec("BB", 0, 100, 10, 0, 0, 0),
	}}
	totals := ds.VoteTotals()
	if totals[Democrat] != 100 || totals[Republican] != 150 || totals[Independent] != 10 {
		t.Errorf("VoteTotals() = %v", totals)
	}
}

func TestDatasetNominee(t *testing.T) {
	ds := &Dataset{Year: 2000, Records: []Record{
		{Abbreviation: "AA"},
		{Abbreviation: "BB", I: Result{Nominee: "Ralph Nader"}},
	}}
	if got := ds.Nominee(Independent); got != "Ralph Nader" {
		t.Errorf("Nominee(I) = %q, want %q", got, "Ralph Nader")
	}
	if got := ds.Nominee(Democrat); got != "" {
		t.Errorf("Nominee(D) = %q, want empty", got)
	}
}

func TestDatasetValidate(t *testing.T) {
	tests := []struct {
		name    string
		ds      Dataset
		wantErr bool
	}{
		{"valid", Dataset{Year: 2000, Records: []Record{rec("AA", 1, 0, 0, 0, 0, 0)}}, false},
		{"bad year", Dataset{Year: 12, Records: nil}, true},
		{"lower case abbreviation", Dataset{Year: 2000, Records: []Record{rec("aa", 1, 0, 0, 0, 0, 0)}}, true},
		{"negative votes", Dataset{Year: 2000, Records: []Record{rec("AA", -1, 0, 0, 0, 0, 0)}}, true},
		{"duplicate", Dataset{Year: 2000, Records: []Record{rec("AA", 1, 0, 0, 0, 0, 0), rec("AA", 1, 0, 0, 0, 0, 0)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ds.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatasetHash(t *testing.T) {
	a := &Dataset{Year: 2000, Records: []Record{rec("AA", 1, 2, 3, 0, 0, 0)}}
	b := &Dataset{Year: 2000, Records: []Record{rec("AA", 1, 2, 3, 0, 0, 0)}}
	c := &Dataset{Year: 2004, Records: []Record{rec("AA", 1, 2, 3, 0, 0, 0)}}

	if a.Hash() != b.Hash() {
		t.Error("equal datasets should hash equally")
	}
	if a.Hash() == c.Hash() {
		t.Error("different datasets should hash differently")
	}
}

func TestDatasetLookup(t *testing.T) {
	ds := &Dataset{Year: 2000, Records: []Record{rec("AA", 1, 0, 0, 0, 0, 0)}}
	if _, ok := ds.Lookup("AA"); !ok {
		t.Error("Lookup(AA) not found")
	}
	if _, ok := ds.Lookup("ZZ"); ok {
		t.Error("Lookup(ZZ) found")
	}
}

func TestParseParty(t *testing.T) {
	tests := []struct {
		in      string
		want    Party
		wantErr bool
	}{
		{"D", Democrat, false},
		{" r", Republican, false},
		{"i", Independent, false},
		{"G", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseParty(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseParty(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
			}
		})
	}
}
