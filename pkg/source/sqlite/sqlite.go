// Package sqlite stores and reads election data in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // pure Go driver

	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
)

// Schema creates the tables if they do not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS election_results (
    year INTEGER NOT NULL,
    position INTEGER NOT NULL,
    state TEXT NOT NULL,
    abbreviation TEXT NOT NULL,
    total_ev INTEGER NOT NULL,
    d_nominee TEXT NOT NULL DEFAULT '',
    d_votes INTEGER NOT NULL DEFAULT 0,
    d_percentage REAL NOT NULL DEFAULT 0,
    r_nominee TEXT NOT NULL DEFAULT '',
    r_votes INTEGER NOT NULL DEFAULT 0,
    r_percentage REAL NOT NULL DEFAULT 0,
    i_nominee TEXT NOT NULL DEFAULT '',
    i_votes INTEGER NOT NULL DEFAULT 0,
    i_percentage REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (year, abbreviation)
);

CREATE INDEX IF NOT EXISTS idx_election_results_order ON election_results(year, position);

CREATE TABLE IF NOT EXISTS yearwise_winner (
    year INTEGER PRIMARY KEY,
    party TEXT NOT NULL
);
`

// Source reads and writes the election_results and yearwise_winner tables.
type Source struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies Schema.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Source, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Source{db: db, path: path}, nil
}

// Summaries returns all year summaries in chronological order.
func (s *Source) Summaries(ctx context.Context) ([]election.YearSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, party FROM yearwise_winner ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("query winners: %w", err)
	}
	defer rows.Close()

	var out []election.YearSummary
	for rows.Next() {
		var (
			year  int
			party string
		)
		if err := rows.Scan(&year, &party); err != nil {
			return nil, fmt.Errorf("scan winner: %w", err)
		}
		p, err := election.ParseParty(party)
		if err != nil {
			return nil, fmt.Errorf("winner %d: %w", year, err)
		}
		out = append(out, election.YearSummary{Year: year, Party: p})
	}
	return out, rows.Err()
}

// Load returns the dataset of year. A year without rows is NOT_FOUND.
func (s *Source) Load(ctx context.Context, year int) (*election.Dataset, error) {
	if err := errors.ValidateYear(year); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT state, abbreviation, total_ev,
		       d_nominee, d_votes, d_percentage,
		       r_nominee, r_votes, r_percentage,
		       i_nominee, i_votes, i_percentage
		FROM election_results
		WHERE year = ?
		ORDER BY position`, year)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	ds := &election.Dataset{Year: year}
	for rows.Next() {
		var r election.Record
		if err := rows.Scan(&r.State, &r.Abbreviation, &r.TotalEV,
			&r.D.Nominee, &r.D.Votes, &r.D.Percentage,
			&r.R.Nominee, &r.R.Votes, &r.R.Percentage,
			&r.I.Nominee, &r.I.Votes, &r.I.Percentage); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Year = strconv.Itoa(year)
		ds.Records = append(ds.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ds.Records) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no results for %d", year)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Import replaces the rows of every dataset's year and upserts the
// summaries, all in one transaction.
func (s *Source) Import(ctx context.Context, summaries []election.YearSummary, datasets []*election.Dataset) error {
	for _, ds := range datasets {
		if err := ds.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO election_results (
			year, position, state, abbreviation, total_ev,
			d_nominee, d_votes, d_percentage,
			r_nominee, r_votes, r_percentage,
			i_nominee, i_votes, i_percentage
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, ds := range datasets {
		if _, err := tx.ExecContext(ctx, `DELETE FROM election_results WHERE year = ?`, ds.Year); err != nil {
			return fmt.Errorf("clear %d: %w", ds.Year, err)
		}
		for i, r := range ds.Records {
			if _, err := insert.ExecContext(ctx,
				ds.Year, i, r.State, r.Abbreviation, r.TotalEV,
				r.D.Nominee, r.D.Votes, r.D.Percentage,
				r.R.Nominee, r.R.Votes, r.R.Percentage,
				r.I.Nominee, r.I.Votes, r.I.Percentage,
			); err != nil {
				return fmt.Errorf("insert %d %s: %w", ds.Year, r.Abbreviation, err)
			}
		}
	}
	for _, sum := range summaries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO yearwise_winner (year, party) VALUES (?, ?)
			 ON CONFLICT(year) DO UPDATE SET party = excluded.party`,
			sum.Year, sum.Party.String()); err != nil {
			return fmt.Errorf("upsert winner %d: %w", sum.Year, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *Source) Close() error { return s.db.Close() }

// String returns the source URI.
func (s *Source) String() string { return "sqlite:" + s.path }
