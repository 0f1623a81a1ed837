//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCache_Integration(t *testing.T) {
	url := os.Getenv("FIXTUREGRAPH_REDIS_URL")
	if url == "" {
		t.Skip("FIXTUREGRAPH_REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := OpenRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("OpenRedisCache() error: %v", err)
	}
	defer c.Close()

	key := LedgerKey("test", url, "integration", time.Now().Format(time.RFC3339Nano))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get on fresh key = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("digest"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "digest" {
		t.Fatalf("Get after Set = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
}
