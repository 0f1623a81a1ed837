// Package writer implements a sink that prints records as JSON lines.
//
// The writer cannot replace existing data and is never skipped by the load
// ledger.
package writer

import (
	"context"
	"encoding/json"
	"io"

	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

// Line is one line of output.
type Line struct {
	Fixture string         `json:"fixture"`
	Target  string         `json:"target"`
	Record  fixture.Record `json:"record"`
}

// Sink writes every record as one JSON line.
type Sink struct {
	enc *json.Encoder
}

// New returns a sink writing to w.
func New(w io.Writer) *Sink {
	return &Sink{enc: json.NewEncoder(w)}
}

// Name implements loader.Sink.
func (s *Sink) Name() string { return "writer" }

// Destination implements loader.Sink. A writer is a stream: every run writes
// all of its records, so it reports no destination and is not ledgered.
func (s *Sink) Destination() string { return "" }

// Load implements loader.Sink.
func (s *Sink) Load(ctx context.Context, f *fixture.Fixture, records []fixture.Record) error {
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.enc.Encode(Line{Fixture: f.Name, Target: f.TargetName(), Record: r}); err != nil {
			return err
		}
	}
	return nil
}
