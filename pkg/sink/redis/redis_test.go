package redis

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/fixturegraph/pkg/cache"
	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

func TestRecordKey(t *testing.T) {
	tests := []struct {
		name   string
		record fixture.Record
		field  string
		index  int
		want   string
	}{
		{"string id", fixture.Record{"id": "u1"}, "id", 0, "u1"},
		{"int id", fixture.Record{"id": 42}, "id", 3, "42"},
		{"float id", fixture.Record{"id": 7.0}, "id", 3, "7"},
		{"custom field", fixture.Record{"sku": "p-1", "id": "x"}, "sku", 0, "p-1"},
		{"missing field", fixture.Record{"name": "acme"}, "id", 5, "5"},
		{"nil value", fixture.Record{"id": nil}, "id", 2, "2"},
		{"empty value", fixture.Record{"id": ""}, "id", 1, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recordKey(tt.record, tt.field, tt.index); got != tt.want {
				t.Errorf("recordKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNamespace(t *testing.T) {
	s := New(nil, Options{Prefix: "fx:"})
	if got := s.namespace(&fixture.Fixture{Name: "users", Target: "accounts"}); got != "fx:accounts:" {
		t.Errorf("namespace() = %q, want fx:accounts:", got)
	}
	if got := s.namespace(&fixture.Fixture{Name: "orgs"}); got != "fx:orgs:" {
		t.Errorf("namespace() = %q, want fx:orgs:", got)
	}
	if s.opts.KeyField != DefaultKeyField {
		t.Errorf("KeyField = %q, want %q", s.opts.KeyField, DefaultKeyField)
	}
}

func TestDestination(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "cache1:6379", DB: 2})
	defer client.Close()

	a := New(client, Options{Prefix: "test:"})
	b := New(client, Options{Prefix: "dev:"})
	if got := a.Destination(); got != "cache1:6379/2/test:" {
		t.Errorf("Destination() = %q, want cache1:6379/2/test:", got)
	}
	if a.Destination() == b.Destination() {
		t.Error("prefixes on one server should be different destinations")
	}
}

func TestClassify(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	if !cache.IsRetryable(classify(netErr)) {
		t.Error("network errors should be retryable")
	}
	if !cache.IsRetryable(classify(context.DeadlineExceeded)) {
		t.Error("deadline errors should be retryable")
	}
	if cache.IsRetryable(classify(errors.New("WRONGTYPE"))) {
		t.Error("server errors should not be retryable")
	}
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), "http://localhost:6379", Options{})
	if !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("Open() error = %v, want INVALID_INPUT", err)
	}
}
