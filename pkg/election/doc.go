// Package election defines the per-year election dataset and the rules that
// classify each state's result.
//
// A [Dataset] holds one [Record] per state for a single election year. Records
// carry the electoral votes of the state and, for each of the three tracked
// parties ([Democrat], [Republican], [Independent]), the nominee, the raw
// vote count and the vote share.
//
// # Classification
//
// [Winner] picks the party with the most votes. Exact ties are broken by the
// fixed priority D > R > I. [WinMargin] is the gap between the two largest
// vote shares and is never negative; [SignedMargin] applies the color-scale
// sign convention (Democrat margins negative, Republican margins positive).
// [Partition] groups a slice of records by winner in a single pass.
//
// # Loading
//
// [ReadRecords] and [ReadSummaries] parse the tabular formats produced by the
// data pipeline. Numeric cells that do not parse fail the whole load: a
// dataset is either complete or rejected.
package election
