package election

import "fmt"

// WinnersFile is the file name of the year summary table.
const WinnersFile = "yearwise-winner.csv"

// ResultsFile returns the file name of the results table for year.
func ResultsFile(year int) string {
	return fmt.Sprintf("election-results-%d.csv", year)
}
