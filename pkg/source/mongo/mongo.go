// Package mongo stores and reads election data in MongoDB.
//
// Two collections are used:
//
//   - results: one document per state record, with year and position fields
//     so a dataset reads back in its original order
//   - winners: one document per year summary
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
)

// Collection and database names.
const (
	DefaultDatabase   = "electoral"
	ResultsCollection = "results"
	WinnersCollection = "winners"
)

const connectTimeout = 10 * time.Second

// Source reads and writes the results and winners collections.
type Source struct {
	client  *mongo.Client
	db      *mongo.Database
	results *mongo.Collection
	winners *mongo.Collection
	uri     string
}

// Open connects to uri. The database is taken from the URI path and
// defaults to DefaultDatabase.
func Open(ctx context.Context, uri string) (*Source, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "mongo URI")
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = DefaultDatabase
	}

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	db := client.Database(dbName)
	return &Source{
		client:  client,
		db:      db,
		results: db.Collection(ResultsCollection),
		winners: db.Collection(WinnersCollection),
		uri:     uri,
	}, nil
}

// EnsureIndexes creates the lookup indexes used by Load and Summaries.
func (s *Source) EnsureIndexes(ctx context.Context) error {
	_, err := s.results.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "year", Value: 1}, {Key: "position", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("results index: %w", err)
	}
	_, err = s.winners.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "year", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("winners index: %w", err)
	}
	return nil
}

// Summaries returns all year summaries in chronological order.
func (s *Source) Summaries(ctx context.Context) ([]election.YearSummary, error) {
	cur, err := s.winners.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "year", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find winners")
	}
	var docs []winnerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read winners")
	}
	out := make([]election.YearSummary, 0, len(docs))
	for _, d := range docs {
		p, err := election.ParseParty(d.Party)
		if err != nil {
			return nil, fmt.Errorf("winner %d: %w", d.Year, err)
		}
		out = append(out, election.YearSummary{Year: d.Year, Party: p})
	}
	return out, nil
}

// Load returns the dataset of year. A year without documents is NOT_FOUND.
func (s *Source) Load(ctx context.Context, year int) (*election.Dataset, error) {
	if err := errors.ValidateYear(year); err != nil {
		return nil, err
	}
	cur, err := s.results.Find(ctx, bson.D{{Key: "year", Value: year}},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find results")
	}
	var docs []resultDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read results")
	}
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no results for %d", year)
	}
	ds := &election.Dataset{Year: year, Records: make([]election.Record, len(docs))}
	for i, d := range docs {
		ds.Records[i] = d.record()
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Import replaces the stored results of every dataset's year and upserts
// the summaries.
func (s *Source) Import(ctx context.Context, summaries []election.YearSummary, datasets []*election.Dataset) error {
	for _, ds := range datasets {
		if err := ds.Validate(); err != nil {
			return err
		}
		if _, err := s.results.DeleteMany(ctx, bson.D{{Key: "year", Value: ds.Year}}); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "clear %d", ds.Year)
		}
		if len(ds.Records) == 0 {
			continue
		}
		docs := make([]any, len(ds.Records))
		for i, r := range ds.Records {
			docs[i] = newResultDoc(ds.Year, i, r)
		}
		if _, err := s.results.InsertMany(ctx, docs); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "insert %d", ds.Year)
		}
	}
	for _, sum := range summaries {
		_, err := s.winners.ReplaceOne(ctx,
			bson.D{{Key: "year", Value: sum.Year}},
			winnerDoc{Year: sum.Year, Party: sum.Party.String()},
			options.Replace().SetUpsert(true))
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "upsert winner %d", sum.Year)
		}
	}
	return nil
}

// Close disconnects the client.
func (s *Source) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// String returns the connection URI.
func (s *Source) String() string { return s.uri }

type partyDoc struct {
	Nominee    string  `bson:"nominee"`
	Votes      int64   `bson:"votes"`
	Percentage float64 `bson:"percentage"`
}

type resultDoc struct {
	Year         int      `bson:"year"`
	Position     int      `bson:"position"`
	State        string   `bson:"state"`
	Abbreviation string   `bson:"abbreviation"`
	TotalEV      int      `bson:"total_ev"`
	D            partyDoc `bson:"D"`
	R            partyDoc `bson:"R"`
	I            partyDoc `bson:"I"`
}

type winnerDoc struct {
	Year  int    `bson:"year"`
	Party string `bson:"party"`
}

func newResultDoc(year, pos int, r election.Record) resultDoc {
	conv := func(res election.Result) partyDoc {
		return partyDoc{Nominee: res.Nominee, Votes: res.Votes, Percentage: res.Percentage}
	}
	return resultDoc{
		Year:         year,
		Position:     pos,
		State:        r.State,
		Abbreviation: r.Abbreviation,
		TotalEV:      r.TotalEV,
		D:            conv(r.D),
		R:            conv(r.R),
		I:            conv(r.I),
	}
}

func (d resultDoc) record() election.Record {
	conv := func(p partyDoc) election.Result {
		return election.Result{Nominee: p.Nominee, Votes: p.Votes, Percentage: p.Percentage}
	}
	return election.Record{
		State:        d.State,
		Abbreviation: d.Abbreviation,
		TotalEV:      d.TotalEV,
		D:            conv(d.D),
		R:            conv(d.R),
		I:            conv(d.I),
		Year:         fmt.Sprint(d.Year),
	}
}
