package loader

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/fixturegraph/pkg/cache"
	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/fixture"
	"github.com/matzehuels/fixturegraph/pkg/observability"
)

// Sink receives fixture records.
type Sink interface {
	// Name identifies the sink in ledger keys and logs (e.g. "mongo").
	Name() string

	// Destination identifies where records are stored, e.g.
	// "db1:27017/shop". Ledger entries are kept per destination. An empty
	// destination marks a stream sink, for which the ledger is not used.
	Destination() string

	// Load stores the records of one fixture. Failures should be wrapped
	// with cache.Retryable only when repeating the call cannot duplicate
	// records.
	Load(ctx context.Context, f *fixture.Fixture, records []fixture.Record) error
}

// Clearer is implemented by sinks that can delete the existing data of a
// target. It is required by WithReplace.
type Clearer interface {
	Clear(ctx context.Context, target string) error
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithLedger enables skipping of unchanged fixtures using c.
func WithLedger(c cache.Cache) Option {
	return func(ld *Loader) {
		if c != nil {
			ld.ledger = c
		}
	}
}

// WithForce loads every fixture regardless of the ledger.
func WithForce(force bool) Option {
	return func(ld *Loader) { ld.force = force }
}

// WithReplace clears the target of every loaded fixture before its first
// write in the run. Fixtures sharing a target clear it once. Replacing
// implies WithForce: a cleared target no longer holds what the ledger says.
func WithReplace(replace bool) Option {
	return func(ld *Loader) { ld.replace = replace }
}

// WithDryRun resolves and reads fixtures without loading them.
func WithDryRun(dryRun bool) Option {
	return func(ld *Loader) { ld.dryRun = dryRun }
}

// Loader loads the fixtures of one manifest into one sink.
type Loader struct {
	manifest *fixture.Manifest
	sink     Sink
	ledger   cache.Cache
	logger   *log.Logger
	force    bool
	replace  bool
	dryRun   bool
}

// New creates a loader. Without WithLedger a [cache.NullCache] is used, so
// every fixture is loaded.
func New(m *fixture.Manifest, sink Sink, opts ...Option) *Loader {
	ld := &Loader{
		manifest: m,
		sink:     sink,
		ledger:   cache.NewNullCache(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Result summarizes a load run.
type Result struct {
	RunID    string
	Order    []string      // fixtures processed, in load order
	Loaded   []string      // fixtures passed to the sink (or that would be, in a dry run)
	Skipped  []string      // fixtures skipped because the ledger was current
	Records  int           // records passed to the sink
	Duration time.Duration
}

// Load resolves names (all fixtures when empty) and loads them in order.
// The returned Result is non-nil even on error and lists what was loaded
// before the failure.
func (ld *Loader) Load(ctx context.Context, names ...string) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	start := time.Now()
	logger := ld.logger.With("run", res.RunID[:8])
	hooks := observability.Load()

	order, err := ld.manifest.Order(ctx, names...)
	if err != nil {
		return res, err
	}
	if _, ok := ld.sink.(Clearer); ld.replace && !ok {
		return res, ferrors.New(ferrors.ErrCodeUnsupported, "sink %s cannot replace existing data", ld.sink.Name())
	}

	hooks.OnLoadStart(ctx, res.RunID, ld.sink.Name(), len(order))
	logger.Debug("resolved load order", "fixtures", len(order), "sink", ld.sink.Name(), "dry_run", ld.dryRun)

	err = ld.run(ctx, logger, order, res)
	res.Duration = time.Since(start)
	hooks.OnLoadComplete(ctx, res.RunID, len(res.Loaded), len(res.Skipped), res.Duration, err)
	return res, err
}

func (ld *Loader) run(ctx context.Context, logger *log.Logger, order []*fixture.Fixture, res *Result) error {
	hooks := observability.Load()
	reloaded := make(map[string]bool, len(order))
	cleared := make(map[string]bool)
	tracked := ld.sink.Destination() != ""

	for _, f := range order {
		if err := ctx.Err(); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeCanceled, err, "load stopped before fixture %q", f.Name)
		}
		start := time.Now()

		records, err := ld.manifest.Records(f)
		if err != nil {
			hooks.OnFixtureLoaded(ctx, res.RunID, f.Name, 0, false, time.Since(start), err)
			return ferrors.Wrap(ferrors.ErrCodeLoadFailed, err, "read fixture %q", f.Name)
		}
		digest, err := f.Digest(records)
		if err != nil {
			return ferrors.Wrap(ferrors.ErrCodeLoadFailed, err, "digest fixture %q", f.Name)
		}
		var key string
		if tracked {
			key = cache.LedgerKey(ld.sink.Name(), ld.sink.Destination(), ld.manifest.Name, f.Name)
		}

		if key != "" && ld.current(ctx, key, digest, f, reloaded) {
			logger.Debug("skipping unchanged fixture", "fixture", f.Name)
			res.Order = append(res.Order, f.Name)
			res.Skipped = append(res.Skipped, f.Name)
			hooks.OnFixtureLoaded(ctx, res.RunID, f.Name, len(records), true, time.Since(start), nil)
			continue
		}

		if ld.dryRun {
			logger.Info("would load fixture", "fixture", f.Name, "target", f.TargetName(), "records", len(records))
			hooks.OnFixtureLoaded(ctx, res.RunID, f.Name, len(records), false, time.Since(start), nil)
		} else {
			err := ld.clearTarget(ctx, logger, f.TargetName(), cleared)
			if err == nil {
				err = cache.RetryWithBackoff(ctx, func() error {
					return ld.sink.Load(ctx, f, records)
				})
				if err != nil {
					err = ferrors.Wrap(ferrors.ErrCodeLoadFailed, err, "load fixture %q into %s", f.Name, ld.sink.Name())
				}
			}
			hooks.OnFixtureLoaded(ctx, res.RunID, f.Name, len(records), false, time.Since(start), err)
			if err != nil {
				return err
			}
			if key != "" {
				if err := ld.ledger.Set(ctx, key, []byte(digest), 0); err != nil {
					logger.Warn("ledger update failed", "fixture", f.Name, "err", err)
				}
			}
			logger.Info("loaded fixture", "fixture", f.Name, "target", f.TargetName(), "records", len(records))
		}

		reloaded[f.Name] = true
		res.Order = append(res.Order, f.Name)
		res.Loaded = append(res.Loaded, f.Name)
		res.Records += len(records)
	}
	return nil
}

// clearTarget clears target once per run when replacing.
func (ld *Loader) clearTarget(ctx context.Context, logger *log.Logger, target string, cleared map[string]bool) error {
	if !ld.replace || cleared[target] {
		return nil
	}
	c := ld.sink.(Clearer)
	if err := cache.RetryWithBackoff(ctx, func() error { return c.Clear(ctx, target) }); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeLoadFailed, err, "clear target %q of %s", target, ld.sink.Name())
	}
	cleared[target] = true
	logger.Debug("cleared target", "target", target)
	return nil
}

// current reports whether f can be skipped: the ledger holds digest and no
// dependency of f was loaded earlier in this run.
func (ld *Loader) current(ctx context.Context, key, digest string, f *fixture.Fixture, reloaded map[string]bool) bool {
	if ld.force || ld.replace {
		return false
	}
	for _, dep := range f.DependsOn {
		if reloaded[dep] {
			return false
		}
	}
	stored, ok, err := ld.ledger.Get(ctx, key)
	if err != nil {
		ld.logger.Warn("ledger read failed", "key", key, "err", err)
		return false
	}
	return ok && string(stored) == digest
}
