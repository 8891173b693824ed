package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func newFastRetrier() *Retrier {
	r := NewRetrier()
	r.maxRetries = 2
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 50 * time.Millisecond
	return r
}

func TestRetrierRecoversFromDeadlock(t *testing.T) {
	r := newFastRetrier()

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierDoesNotRetryPermanentErrors(t *testing.T) {
	r := newFastRetrier()

	attempts := 0
	permanentErr := errors.New("constraint violation")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierGivesUpAfterBudget(t *testing.T) {
	r := newFastRetrier()

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrSerializationFailure}
	})

	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if attempts != r.maxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", r.maxRetries+1, attempts)
	}
}

func TestIsRetryableError(t *testing.T) {
	for _, code := range []string{pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable} {
		if !isRetryableError(&pgconn.PgError{Code: code}) {
			t.Fatalf("expected %s to be retryable", code)
		}
	}

	if isRetryableError(errors.New("other")) {
		t.Fatalf("expected generic error to be non-retryable")
	}
	if isRetryableError(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("expected unique violation to be non-retryable")
	}
}
