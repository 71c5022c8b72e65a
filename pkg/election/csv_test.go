package election

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/electoral/pkg/errors"
)

const sampleCSV = `State,Abbreviation,Total_EV,D_Nominee,D_Percentage,D_Votes,R_Nominee,R_Percentage,R_Votes,I_Nominee,I_Percentage,I_Votes,Year
Alabama,AL,9,Bill Clinton,43.16,690080,Bob Dole,50.12,769044,Ross Perot,6.01,92149,1996
California,CA,54,Bill Clinton,51.1,5119835,Bob Dole,38.2,3828380,Ross Perot,6.96,697847,1996
Utah,UT,5,Bill Clinton,33.3,221633,Bob Dole,54.37,361911,,,,1996
`

func TestReadRecords(t *testing.T) {
	ds, err := ReadRecords(strings.NewReader(sampleCSV), 1996)
	if err != nil {
		t.Fatalf("ReadRecords() error: %v", err)
	}
	if ds.Year != 1996 {
		t.Errorf("Year = %d, want 1996", ds.Year)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(ds.Records))
	}

	ca := ds.Records[1]
	if ca.Abbreviation != "CA" || ca.TotalEV != 54 {
		t.Errorf("CA = %+v", ca)
	}
	if ca.D.Votes != 5119835 || ca.D.Percentage != 51.1 || ca.D.Nominee != "Bill Clinton" {
		t.Errorf("CA.D = %+v", ca.D)
	}

	ut := ds.Records[2]
	if ut.I.Votes != 0 || ut.I.Percentage != 0 || ut.I.Nominee != "" {
		t.Errorf("empty independent cells should read as zero, got %+v", ut.I)
	}
	if ds.TotalEV() != 68 {
		t.Errorf("TotalEV() = %d, want 68", ds.TotalEV())
	}
}

func TestReadRecordsColumnOrder(t *testing.T) {
	in := `Abbreviation,State,Year,Total_EV,R_Votes,R_Percentage,R_Nominee,D_Votes,D_Percentage,D_Nominee,I_Votes,I_Percentage,I_Nominee
UT,Utah,1996,5,361911,54.37,Bob Dole,221633,33.3,Bill Clinton,0,0,
`
	ds, err := ReadRecords(strings.NewReader(in), 1996)
	if err != nil {
		t.Fatalf("ReadRecords() error: %v", err)
	}
	if got := ds.Records[0].R.Votes; got != 361911 {
		t.Errorf("R.Votes = %d, want 361911", got)
	}
}

func TestReadRecordsErrors(t *testing.T) {
	header := strings.Join(ResultColumns, ",")
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			name:  "empty",
			input: "",
			code:  errors.ErrCodeInvalidRecord,
		},
		{
			name:  "missing column",
			input: "State,Abbreviation\nUtah,UT\n",
			code:  errors.ErrCodeInvalidRecord,
		},
		{
			name:  "non numeric votes",
			input: header + "\nUtah,UT,5,A,33.3,lots,B,54.37,361911,,,\n",
			code:  errors.ErrCodeInvalidRecord,
		},
		{
			name:  "thousands separator",
			input: header + "\nUtah,UT,5,A,33.3,\"221,633\",B,54.37,361911,,,\n",
			code:  errors.ErrCodeInvalidRecord,
		},
		{
			name:  "NaN percentage",
			input: header + "\nUtah,UT,5,A,NaN,1,B,54.37,361911,,,\n",
			code:  errors.ErrCodeInvalidRecord,
		},
		{
			name:  "duplicate state",
			input: header + "\nUtah,UT,5,A,1,1,B,2,2,,,\nUtah,UT,5,A,1,1,B,2,2,,,\n",
			code:  errors.ErrCodeDuplicateState,
		},
		{
			name:  "ragged row",
			input: header + "\nUtah,UT,5\n",
			code:  errors.ErrCodeInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ReadRecords(strings.NewReader(tt.input), 1996)
			if err == nil {
				t.Fatalf("ReadRecords() = %+v, want error", ds)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestReadSummaries(t *testing.T) {
	in := "YEAR,PARTY\n2000,R\n1996,D\n2004, r \n"
	got, err := ReadSummaries(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadSummaries() error: %v", err)
	}
	want := []YearSummary{{1996, Democrat}, {2000, Republican}, {2004, Republican}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWriteSummaries(t *testing.T) {
	in := []YearSummary{{1996, Democrat}, {2000, Republican}}
	var buf bytes.Buffer
	if err := WriteSummaries(&buf, in); err != nil {
		t.Fatalf("WriteSummaries() error: %v", err)
	}
	if got, want := buf.String(), "YEAR,PARTY\n1996,D\n2000,R\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	back, err := ReadSummaries(&buf)
	if err != nil {
		t.Fatalf("ReadSummaries() error: %v", err)
	}
	if len(back) != 2 || back[1] != in[1] {
		t.Errorf("read back %+v", back)
	}
}

func TestReadSummariesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad party", "YEAR,PARTY\n2000,X\n"},
		{"bad year", "YEAR,PARTY\ntwo,R\n"},
		{"duplicate year", "YEAR,PARTY\n2000,R\n2000,D\n"},
		{"missing column", "YEAR\n2000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadSummaries(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadSummaries() error = nil, want error")
			}
		})
	}
}
