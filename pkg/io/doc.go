// Package io reads and writes election datasets as JSON.
//
// The JSON form is the dataset exactly as the charts consume it:
//
//	{
//	  "year": 2016,
//	  "records": [
//	    {
//	      "state": "Alabama", "abbreviation": "AL", "total_ev": 9,
//	      "D": {"nominee": "Hillary Clinton", "votes": 729547, "percentage": 34.4},
//	      "R": {"nominee": "Donald Trump", "votes": 1318255, "percentage": 62.1},
//	      "I": {"nominee": "", "votes": 0, "percentage": 0}
//	    }
//	  ]
//	}
//
// [ReadJSON] validates what it decodes, so a dataset read here satisfies the
// same invariants as one parsed from CSV. [WriteJSON] output can be read back
// with [ReadJSON] without loss.
//
// `import --to json:dir` writes one election-results-<year>.json per year, and
// the dir source falls back to those files when the CSV is missing.
package io
