// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a client connected to an in-process server.
func testValkeyClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestListCacheSetGet(t *testing.T) {
	client, _ := testValkeyClient(t)
	lc := NewListCache(client, time.Minute)
	ctx := context.Background()

	_, gen, ok := lc.Get(ctx)
	if ok {
		t.Fatal("expected miss on empty cache")
	}
	if gen != 0 {
		t.Errorf("initial generation: got %d, want 0", gen)
	}

	body := []byte(`{"data":[]}`)
	lc.Set(ctx, gen, body)

	got, _, ok := lc.Get(ctx)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(body) {
		t.Errorf("cached body: got %q, want %q", got, body)
	}
}

func TestListCacheInvalidate(t *testing.T) {
	client, _ := testValkeyClient(t)
	lc := NewListCache(client, time.Minute)
	ctx := context.Background()

	_, gen, _ := lc.Get(ctx)
	lc.Set(ctx, gen, []byte("x"))
	lc.Invalidate(ctx)

	_, next, ok := lc.Get(ctx)
	if ok {
		t.Error("expected miss after Invalidate")
	}
	if next != gen+1 {
		t.Errorf("generation after Invalidate: got %d, want %d", next, gen+1)
	}
}

func TestListCacheSetAfterInvalidateIsNotServed(t *testing.T) {
	client, _ := testValkeyClient(t)
	lc := NewListCache(client, time.Minute)
	ctx := context.Background()

	// A reader takes its generation, a writer invalidates, then the reader
	// stores the body it built from the older snapshot.
	_, gen, _ := lc.Get(ctx)
	lc.Invalidate(ctx)
	lc.Set(ctx, gen, []byte("stale"))

	if body, _, ok := lc.Get(ctx); ok {
		t.Errorf("served body from an old generation: %q", body)
	}
}

func TestListCacheSetIgnoresUnknownGeneration(t *testing.T) {
	client, mr := testValkeyClient(t)
	lc := NewListCache(client, time.Minute)
	ctx := context.Background()

	lc.Set(ctx, -1, []byte("x"))
	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("keys written for generation -1: %v", keys)
	}
}

func TestListCacheUnavailable(t *testing.T) {
	client, mr := testValkeyClient(t)
	lc := NewListCache(client, time.Minute)
	mr.Close()

	_, gen, ok := lc.Get(context.Background())
	if ok {
		t.Error("expected miss when Valkey is down")
	}
	if gen >= 0 {
		t.Errorf("generation when Valkey is down: got %d, want negative", gen)
	}
}

func TestListCacheTTL(t *testing.T) {
	client, mr := testValkeyClient(t)
	lc := NewListCache(client, 10*time.Second)
	ctx := context.Background()

	lc.Set(ctx, 0, []byte("x"))
	mr.FastForward(11 * time.Second)

	if _, _, ok := lc.Get(ctx); ok {
		t.Error("expected miss after TTL expired")
	}
}

func TestNewListCacheDefaultTTL(t *testing.T) {
	client, _ := testValkeyClient(t)
	lc := NewListCache(client, 0)
	if lc.ttl != DefaultListTTL {
		t.Errorf("ttl: got %v, want %v", lc.ttl, DefaultListTTL)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	if _, err := ConnectValkey("127.0.0.1", "1", "", 0); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestConnectValkey(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := ConnectValkey(mr.Host(), mr.Port(), "", 0)
	if err != nil {
		t.Fatalf("ConnectValkey: %v", err)
	}
	client.Close()
}
