package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/loader"
	"github.com/matzehuels/fixturegraph/pkg/sink/mongo"
	"github.com/matzehuels/fixturegraph/pkg/sink/redis"
	"github.com/matzehuels/fixturegraph/pkg/sink/writer"
)

const (
	sinkWriter = "writer"
	sinkMongo  = "mongo"
	sinkRedis  = "redis"
)

// loadOpts holds the command-line flags for the load command.
type loadOpts struct {
	sink        string // writer, mongo or redis
	mongoURI    string
	mongoDB     string
	redisURL    string
	redisPrefix string // key prefix for the redis sink
	ledgerURL   string // redis URL of a shared ledger; empty uses the file ledger
	replace     bool   // clear targets before writing
	force       bool   // ignore the ledger
	dryRun      bool
	noLedger    bool
	pick        bool // choose fixtures interactively
}

// loadCommand creates the load command.
func (c *CLI) loadCommand() *cobra.Command {
	opts := loadOpts{
		sink:     sinkWriter,
		mongoURI: envOr(envMongoURI, ""),
		mongoDB:  envOr(envMongoDB, defaultMongoDB),
		redisURL: envOr(envRedisURL, ""),
	}

	cmd := &cobra.Command{
		Use:   "load <manifest> [fixture...]",
		Short: "Load fixtures into a sink in dependency order",
		Long: `Load fixtures into a sink. Dependencies are always loaded before the
fixtures that need them.

Fixtures whose records did not change since the last load into the same
database are skipped, unless a dependency was reloaded in the same run. Use
--force to load everything, or --no-ledger to neither read nor record loads.
The writer sink prints every record on each run.

--replace clears each target once before the first fixture writing to it and
loads every fixture. It is not available for the writer sink.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeFixtures,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLoad(cmd.Context(), cmd.OutOrStdout(), args[0], args[1:], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.sink, "sink", "s", opts.sink, "destination: writer, mongo, redis")
	f.StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "MongoDB connection URI (env "+envMongoURI+")")
	f.StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database (env "+envMongoDB+")")
	f.StringVar(&opts.redisURL, "redis-url", opts.redisURL, "Redis URL for the redis sink (env "+envRedisURL+")")
	f.StringVar(&opts.redisPrefix, "redis-prefix", "", "key prefix for the redis sink")
	f.StringVar(&opts.ledgerURL, "ledger-url", "", "Redis URL of a shared ledger (default: local files)")
	f.BoolVar(&opts.replace, "replace", false, "delete existing target data before loading")
	f.BoolVar(&opts.force, "force", false, "load fixtures even if the ledger says they are current")
	f.BoolVar(&opts.dryRun, "dry-run", false, "resolve and read fixtures without loading them")
	f.BoolVar(&opts.noLedger, "no-ledger", false, "do not read or write the ledger")
	f.BoolVar(&opts.pick, "pick", false, "choose fixtures interactively")

	return cmd
}

func (c *CLI) runLoad(ctx context.Context, out io.Writer, path string, names []string, opts loadOpts) error {
	m, err := readManifest(path)
	if err != nil {
		return err
	}

	if opts.pick {
		if len(names) > 0 {
			return ferrors.New(ferrors.ErrCodeInvalidInput, "--pick cannot be combined with fixture arguments")
		}
		if names, err = pickFixtures(ctx, m); err != nil {
			return err
		}
	}

	sink, closeSink, err := c.openSink(ctx, out, opts)
	if err != nil {
		return err
	}
	defer closeSink()

	ledger, err := c.newLedger(ctx, opts.noLedger, opts.ledgerURL)
	if err != nil {
		return err
	}
	defer ledger.Close()

	prog := newProgress(c.Logger)
	res, err := loader.New(m, sink,
		loader.WithLogger(c.Logger),
		loader.WithLedger(ledger),
		loader.WithForce(opts.force),
		loader.WithReplace(opts.replace),
		loader.WithDryRun(opts.dryRun),
	).Load(ctx, names...)

	// The writer sink owns stdout; keep the summary off it.
	if opts.sink == sinkWriter {
		if err == nil {
			prog.done(fmt.Sprintf("Loaded %d fixtures, skipped %d", len(res.Loaded), len(res.Skipped)))
		}
		return err
	}

	if len(res.Order) > 0 {
		printLoadSummary(res, opts.dryRun, err == nil)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Run %s finished", res.RunID[:8]))
	return nil
}

// openSink returns the configured sink and a function releasing it.
func (c *CLI) openSink(ctx context.Context, out io.Writer, opts loadOpts) (loader.Sink, func(), error) {
	switch opts.sink {
	case sinkWriter:
		return writer.New(out), func() {}, nil

	case sinkMongo:
		if opts.mongoURI == "" {
			return nil, nil, ferrors.New(ferrors.ErrCodeInvalidInput, "--mongo-uri or %s is required for the mongo sink", envMongoURI)
		}
		spinner := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
		spinner.Start()
		s, err := mongo.Open(ctx, opts.mongoURI, opts.mongoDB, mongo.Options{})
		spinner.Stop()
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("connected", "sink", sinkMongo, "database", opts.mongoDB)
		return s, func() { _ = s.Close(context.Background()) }, nil

	case sinkRedis:
		if opts.redisURL == "" {
			return nil, nil, ferrors.New(ferrors.ErrCodeInvalidInput, "--redis-url or %s is required for the redis sink", envRedisURL)
		}
		s, err := redis.Open(ctx, opts.redisURL, redis.Options{Prefix: opts.redisPrefix})
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("connected", "sink", sinkRedis)
		return s, func() { _ = s.Close() }, nil
	}
	return nil, nil, ferrors.New(ferrors.ErrCodeUnsupported, "unknown sink %q (want writer, mongo or redis)", opts.sink)
}

func printLoadSummary(res *loader.Result, dryRun, complete bool) {
	skipped := make(map[string]bool, len(res.Skipped))
	for _, name := range res.Skipped {
		skipped[name] = true
	}
	for _, name := range res.Order {
		printLoadLine(name, skipped[name])
	}

	switch {
	case !complete:
		printError("Stopped after %d fixtures", len(res.Order))
	case dryRun:
		printWarning("Dry run: %d fixtures would be loaded, %d are current", len(res.Loaded), len(res.Skipped))
	default:
		printSuccess("Loaded %d fixtures (%d records), skipped %d", len(res.Loaded), res.Records, len(res.Skipped))
	}
}
