package postgres

import (
	"context"
	"testing"
)

func TestNewPoolWithConfigRejectsBadURL(t *testing.T) {
	if _, err := NewPoolWithConfig(context.Background(), PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	cfg := PoolConfig{
		DatabaseURL: "postgres://finbook@unreachable.invalid:5432/finbook",
		MaxConns:    1,
	}

	if _, err := NewPoolWithConfig(context.Background(), cfg); err == nil {
		t.Fatalf("expected error when the database is unreachable")
	}
}

func TestNewPoolDelegates(t *testing.T) {
	if _, err := NewPool(context.Background(), "not-a-url", 1, 0); err == nil {
		t.Fatalf("expected error from delegated config parse")
	}
}
