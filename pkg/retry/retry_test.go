package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	ctx := context.Background()
	retrier := New(FixedStep(3, 10*time.Millisecond))

	counter := 0
	operation := func() error {
		counter++
		return nil
	}

	err := retrier.Do(ctx, operation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter != 1 {
		t.Errorf("expected 1 attempt, got %d", counter)
	}
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	ctx := context.Background()
	retrier := New(FixedStep(3, time.Millisecond))

	counter := 0
	operation := func() error {
		counter++
		if counter < 2 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := retrier.Do(ctx, operation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter != 2 {
		t.Errorf("expected 2 attempts, got %d", counter)
	}
}

func TestRetry_AttemptsExhausted(t *testing.T) {
	ctx := context.Background()
	retrier := New(FixedStep(2, time.Millisecond))

	expectedErr := errors.New("permanent error")
	counter := 0
	operation := func() error {
		counter++
		return expectedErr
	}

	err := retrier.Do(ctx, operation)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected %v, got %v", expectedErr, err)
	}
	if counter != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", counter)
	}
}

func TestRetry_OncePolicyNeverSleeps(t *testing.T) {
	ctx := context.Background()
	retrier := New(Once())

	counter := 0
	start := time.Now()
	_ = retrier.Do(ctx, func() error {
		counter++
		return errors.New("error")
	})

	if counter != 1 {
		t.Errorf("expected 1 attempt, got %d", counter)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("single-attempt policy slept for %v", elapsed)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	retrier := New(FixedStep(3, time.Second))

	operation := func() error {
		cancel() // cancel during the operation, before the first sleep
		return errors.New("operation error after cancel")
	}

	err := retrier.Do(ctx, operation)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_WaitsMatchSchedule(t *testing.T) {
	ctx := context.Background()
	policy := FixedStep(3, 40*time.Millisecond) // waits: 40ms, 80ms
	retrier := New(policy)

	counter := 0
	start := time.Now()
	_ = retrier.Do(ctx, func() error {
		counter++
		return errors.New("error")
	})
	elapsed := time.Since(start)

	if counter != 3 {
		t.Fatalf("expected 3 attempts, got %d", counter)
	}

	var total time.Duration
	for _, d := range policy.Schedule {
		total += d
	}
	// No jitter: elapsed time is the schedule sum plus scheduling slack.
	if elapsed < total || elapsed > total+60*time.Millisecond {
		t.Errorf("expected elapsed near %v, got %v", total, elapsed)
	}
}

func TestFixedStep_Schedule(t *testing.T) {
	policy := FixedStep(3, 2*time.Second)

	if policy.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", policy.MaxAttempts)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(policy.Schedule) != len(want) {
		t.Fatalf("expected %d schedule entries, got %d", len(want), len(policy.Schedule))
	}
	for i := range want {
		if policy.Schedule[i] != want[i] {
			t.Errorf("schedule[%d]: expected %v, got %v", i, want[i], policy.Schedule[i])
		}
	}
}
