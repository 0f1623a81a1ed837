package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/matzehuels/fixturegraph/pkg/cache"
	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

func TestWriteModels(t *testing.T) {
	models, idempotent := writeModels([]fixture.Record{
		{"_id": "u1", "org": map[string]any{"id": "acme"}},
		{"name": "no id"},
	})
	if len(models) != 2 {
		t.Fatalf("len(models) = %d, want 2", len(models))
	}
	if idempotent {
		t.Error("a write with inserts should not be idempotent")
	}

	upsert, ok := models[0].(*mongo.ReplaceOneModel)
	if !ok {
		t.Fatalf("models[0] is %T, want *mongo.ReplaceOneModel", models[0])
	}
	if upsert.Upsert == nil || !*upsert.Upsert {
		t.Error("records with an _id should be upserted")
	}
	if filter := upsert.Filter.(bson.M); filter["_id"] != "u1" {
		t.Errorf("filter = %v, want _id u1", filter)
	}
	insert, ok := models[1].(*mongo.InsertOneModel)
	if !ok {
		t.Fatalf("models[1] is %T, want *mongo.InsertOneModel", models[1])
	}
	if insert.Document.(bson.M)["name"] != "no id" {
		t.Error("writeModels should keep record order")
	}

	if _, idempotent := writeModels([]fixture.Record{{"_id": 1}, {"_id": 2}}); !idempotent {
		t.Error("a write of upserts only should be idempotent")
	}
	if got, _ := writeModels(nil); len(got) != 0 {
		t.Errorf("writeModels(nil) = %v, want empty", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		idempotent bool
		retryable  bool
	}{
		{"deadline upserts", context.DeadlineExceeded, true, true},
		{"deadline inserts", context.DeadlineExceeded, false, false},
		{"plain", errors.New("duplicate key"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err, tt.idempotent)
			if got := cache.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable(classify(%v, %v)) = %v, want %v", tt.err, tt.idempotent, got, tt.retryable)
			}
			if !errors.Is(err, tt.err) {
				t.Error("classify should keep the original error in the chain")
			}
		})
	}
}

func TestDestination(t *testing.T) {
	if got := destination([]string{"db1:27017", "db2:27017"}, "shop"); got != "db1:27017,db2:27017/shop" {
		t.Errorf("destination() = %q", got)
	}
	if destination([]string{"db1:27017"}, "shop_test") == destination([]string{"db1:27017"}, "shop_dev") {
		t.Error("databases on one server should be different destinations")
	}
}

func TestOpenValidatesArguments(t *testing.T) {
	ctx := context.Background()

	if _, err := Open(ctx, "http://localhost", "fixtures", Options{}); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("Open(bad scheme) error = %v, want INVALID_INPUT", err)
	}
	if _, err := Open(ctx, "mongodb://localhost:27017", "", Options{}); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("Open(empty db) error = %v, want INVALID_INPUT", err)
	}
}
