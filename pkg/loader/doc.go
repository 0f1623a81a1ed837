// Package loader feeds fixtures into a storage sink in dependency order.
//
// A [Loader] resolves the manifest (all fixtures or a chosen subset), reads
// each fixture's records and hands them to a [Sink] one fixture at a time.
// The first failure aborts the run; nothing after it is loaded.
//
// # Ledger
//
// With [WithLedger], the loader records the digest of every fixture it
// loads. On the next run a fixture is skipped when its digest is unchanged
// and none of its dependencies were loaded in the same run, so editing one
// fixture reloads it and everything downstream of it. [WithForce] ignores the
// ledger for reads but still updates it.
//
// Entries are keyed by sink type and [Sink.Destination], so loading the same
// manifest into a second database does not skip anything. Stream sinks
// report an empty destination and bypass the ledger: a second run into a
// fresh file writes every record again.
//
// # Replacing
//
// [WithReplace] clears each target once, right before the first fixture
// that writes to it, so fixtures sharing a target keep each other's records.
// The sink must implement [Clearer].
//
// # Dry Runs
//
// [WithDryRun] resolves the order and reads every records file, which catches
// manifest and data errors, without calling the sink or writing the ledger.
// Fixtures the ledger considers current are still reported as skipped, and
// targets are not cleared.
package loader
