// Package redis implements a sink that stores fixture records as JSON
// values in Redis.
//
// A record of fixture target "accounts" with id "u1" is stored under
// "<prefix>accounts:u1". Records without a key field are keyed by their
// position in the fixture.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/fixturegraph/pkg/cache"
	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

const (
	// DefaultKeyField is the record field used as the key suffix.
	DefaultKeyField = "id"

	// scanBatch is the SCAN COUNT hint used when replacing a namespace.
	scanBatch = 500
)

// Options configures the sink.
type Options struct {
	// Prefix is prepended to every key, e.g. "fixtures:".
	Prefix string

	// KeyField names the record field used in keys. Defaults to "id".
	KeyField string

	// TTL sets an expiry on written keys. Zero means no expiry.
	TTL time.Duration
}

// Sink writes fixture records to one Redis database.
type Sink struct {
	client *redis.Client
	opts   Options
}

// Open parses a redis:// or rediss:// URL, connects and pings the server.
func Open(ctx context.Context, url string, opts Options) (*Sink, error) {
	if err := ferrors.ValidateURL(url, "redis", "rediss"); err != nil {
		return nil, err
	}
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "parse redis url")
	}
	client := redis.NewClient(ropts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ferrors.Wrap(ferrors.ErrCodeNetwork, err, "ping redis")
	}
	return New(client, opts), nil
}

// New wraps an existing client.
func New(client *redis.Client, opts Options) *Sink {
	if opts.KeyField == "" {
		opts.KeyField = DefaultKeyField
	}
	return &Sink{client: client, opts: opts}
}

// Name implements loader.Sink.
func (s *Sink) Name() string { return "redis" }

// Destination implements loader.Sink as "addr/db/prefix". Two prefixes on
// one server are separate destinations.
func (s *Sink) Destination() string {
	o := s.client.Options()
	return fmt.Sprintf("%s/%d/%s", o.Addr, o.DB, s.opts.Prefix)
}

// Clear implements loader.Clearer by deleting every key of target.
func (s *Sink) Clear(ctx context.Context, target string) error {
	if err := s.clear(ctx, s.opts.Prefix+target+":"); err != nil {
		return classify(err)
	}
	return nil
}

// Load implements loader.Sink. All records of a fixture are written in a
// single pipeline of SETs, which is safe to repeat.
func (s *Sink) Load(ctx context.Context, f *fixture.Fixture, records []fixture.Record) error {
	ns := s.namespace(f)
	if len(records) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidFixture, err, "encode record %d of %q", i, f.Name)
		}
		pipe.Set(ctx, ns+recordKey(r, s.opts.KeyField, i), data, s.opts.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// Close closes the client.
func (s *Sink) Close() error {
	return s.client.Close()
}

// namespace returns the key prefix of f's records, ending in ":".
func (s *Sink) namespace(f *fixture.Fixture) string {
	return s.opts.Prefix + f.TargetName() + ":"
}

func (s *Sink) clear(ctx context.Context, ns string) error {
	iter := s.client.Scan(ctx, 0, ns+"*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.client.Del(ctx, keys...).Err()
	}
	return nil
}

// recordKey returns the value of field in r, or the record index when the
// field is missing or empty.
func recordKey(r fixture.Record, field string, index int) string {
	v, ok := r[field]
	if !ok || v == nil {
		return strconv.Itoa(index)
	}
	if s := fmt.Sprint(v); s != "" {
		return s
	}
	return strconv.Itoa(index)
}

// classify marks connection errors and timeouts as retryable.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return cache.Retryable(errors.Join(cache.ErrNetwork, err))
	}
	return err
}
