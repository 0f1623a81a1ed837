// Package sink holds the destinations fixtures can be loaded into.
//
// Each subpackage implements [loader.Sink]:
//
//   - [writer]: JSON lines on an io.Writer, for inspection and piping
//   - [mongo]: one MongoDB collection per fixture target
//   - [redis]: one JSON value per record under a target key namespace
//
// The mongo and redis sinks also implement [loader.Clearer] and report a
// destination built from their server and database, which scopes the load
// ledger. The writer is a stream and bypasses the ledger.
//
// Sinks are not safe for concurrent use by multiple loaders; the loader
// calls Load sequentially in dependency order.
//
// [loader.Sink]: github.com/matzehuels/fixturegraph/pkg/loader.Sink
// [loader.Clearer]: github.com/matzehuels/fixturegraph/pkg/loader.Clearer
// [writer]: github.com/matzehuels/fixturegraph/pkg/sink/writer
// [mongo]: github.com/matzehuels/fixturegraph/pkg/sink/mongo
// [redis]: github.com/matzehuels/fixturegraph/pkg/sink/redis
package sink
