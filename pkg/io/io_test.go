package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
)

func sample() *election.Dataset {
	return &election.Dataset{
		Year: 2016,
		Records: []election.Record{
			{State: "Alabama", Abbreviation: "AL", TotalEV: 9,
				D: election.Result{Nominee: "Hillary Clinton", Votes: 729547, Percentage: 34.4},
				R: election.Result{Nominee: "Donald Trump", Votes: 1318255, Percentage: 62.1}},
			{State: "California", Abbreviation: "CA", TotalEV: 55,
				D: election.Result{Nominee: "Hillary Clinton", Votes: 8753788, Percentage: 61.7},
				R: election.Result{Nominee: "Donald Trump", Votes: 4483810, Percentage: 31.6}},
		},
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2016.json")
	want := sample()
	if err := ExportJSON(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash() != want.Hash() {
		t.Error("dataset changed across export and import")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"year":`, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"year":2016,"rows":[]}`, errors.ErrCodeInvalidFormat},
		{"bad year", `{"year":12,"records":[]}`, errors.ErrCodeInvalidYear},
		{"duplicate state", `{"year":2016,"records":[{"abbreviation":"AL"},{"abbreviation":"AL"}]}`, errors.ErrCodeDuplicateState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImportJSONMissing(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestWriteJSONIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"records\"") {
		t.Errorf("output not indented:\n%s", buf.String())
	}
}
