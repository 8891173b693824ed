package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreReplaysCachedResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, store.prefix+"evt-create-1", `{"id":"E1"}`, time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "evt-create-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if !exists || string(resp) != `{"id":"E1"}` {
		t.Fatalf("expected cached response replay, got exists=%v resp=%s", exists, resp)
	}
}

func TestIdempotencyStoreLocksFirstWriter(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "evt-create-2", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("unexpected first-writer result: exists=%v resp=%v err=%v", exists, resp, err)
	}

	val, err := client.Get(ctx, store.prefix+"evt-create-2").Result()
	if err != nil || val != "processing" {
		t.Fatalf("expected placeholder lock, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStoreUpdateReplacesPlaceholder(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "evt-create-3", nil, time.Minute); err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if err := store.Update(ctx, "evt-create-3", []byte(`{"deleted":1}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	val, err := client.Get(ctx, store.prefix+"evt-create-3").Result()
	if err != nil || val != `{"deleted":1}` {
		t.Fatalf("expected final response stored, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStoreKeysExpire(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "evt-create-4", []byte("{}"), time.Second); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, "evt-create-4", nil, time.Second)
	if err != nil {
		t.Fatalf("CheckAndSet after expiry failed: %v", err)
	}
	if exists {
		t.Fatalf("expected key to expire")
	}
}
