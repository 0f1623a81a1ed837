// Package mongo implements a sink that writes fixture records to MongoDB.
//
// Each fixture is written to the collection named by its target with one
// ordered BulkWrite. Records carrying an _id are upserted by it, the others
// are inserted. Only a write made entirely of upserts is retried after a
// network error or timeout, since a partly committed insert would be
// duplicated.
package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/fixturegraph/pkg/cache"
	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

// DefaultTimeout bounds connecting and each fixture write.
const DefaultTimeout = 30 * time.Second

// Options configures the sink.
type Options struct {
	// Timeout bounds each fixture write. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Sink loads fixtures into one database.
type Sink struct {
	client *mongo.Client
	db     *mongo.Database
	dest   string
	opts   Options
}

// Open connects to uri and verifies the connection with a ping.
func Open(ctx context.Context, uri, database string, opts Options) (*Sink, error) {
	if err := ferrors.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if database == "" {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "mongo database name is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	copts := options.Client().ApplyURI(uri).SetTimeout(opts.Timeout)
	client, err := mongo.Connect(ctx, copts)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeNetwork, err, "connect to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, ferrors.Wrap(ferrors.ErrCodeNetwork, err, "ping mongo")
	}

	s := New(client, database, opts)
	s.dest = destination(copts.Hosts, database)
	return s, nil
}

// New wraps an existing client. The caller keeps ownership of client unless
// Close is called. The destination is identified by the database name only;
// use Open to include the hosts.
func New(client *mongo.Client, database string, opts Options) *Sink {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Sink{client: client, db: client.Database(database), dest: database, opts: opts}
}

// Name implements loader.Sink.
func (s *Sink) Name() string { return "mongo" }

// Destination implements loader.Sink as "host1,host2/database".
func (s *Sink) Destination() string { return s.dest }

// Clear implements loader.Clearer by deleting every document of target.
func (s *Sink) Clear(ctx context.Context, target string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if _, err := s.db.Collection(target).DeleteMany(ctx, bson.D{}); err != nil {
		return classify(err, true)
	}
	return nil
}

// Load implements loader.Sink.
func (s *Sink) Load(ctx context.Context, f *fixture.Fixture, records []fixture.Record) error {
	models, idempotent := writeModels(records)
	if len(models) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	coll := s.db.Collection(f.TargetName())
	if _, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return classify(err, idempotent)
	}
	return nil
}

// Close disconnects the client.
func (s *Sink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// writeModels converts records to bulk writes in record order. Records with
// an _id are upserted by it and the rest are inserted. idempotent reports
// whether repeating the writes leaves the same documents.
func writeModels(records []fixture.Record) (models []mongo.WriteModel, idempotent bool) {
	models = make([]mongo.WriteModel, 0, len(records))
	idempotent = true
	for _, r := range records {
		doc := bson.M(r)
		if id, ok := r["_id"]; ok {
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": id}).
				SetReplacement(doc).
				SetUpsert(true))
			continue
		}
		idempotent = false
		models = append(models, mongo.NewInsertOneModel().SetDocument(doc))
	}
	return models, idempotent
}

func destination(hosts []string, database string) string {
	return strings.Join(hosts, ",") + "/" + database
}

// classify marks transient driver errors as retryable when the failed write
// is safe to repeat.
func classify(err error, idempotent bool) error {
	if !mongo.IsNetworkError(err) && !mongo.IsTimeout(err) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	err = errors.Join(cache.ErrNetwork, err)
	if idempotent {
		return cache.Retryable(err)
	}
	return err
}
