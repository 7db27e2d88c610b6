package retry

import (
	"context"
	"time"
)

type Operation = func() error

// Policy is a bounded retry schedule. Schedule holds the wait before each
// re-attempt, so a policy of N attempts carries N-1 entries. An exhausted
// schedule repeats its last entry.
type Policy struct {
	MaxAttempts int
	Schedule    []time.Duration
}

// FixedStep builds the step-times-attempt schedule used for generation calls:
// step before the 2nd attempt, 2*step before the 3rd, and so on.
func FixedStep(maxAttempts int, step time.Duration) Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	schedule := make([]time.Duration, 0, maxAttempts-1)
	for i := 1; i < maxAttempts; i++ {
		schedule = append(schedule, time.Duration(i)*step)
	}
	return Policy{MaxAttempts: maxAttempts, Schedule: schedule}
}

// Once is the single-attempt policy.
func Once() Policy {
	return Policy{MaxAttempts: 1}
}

type Retrier struct {
	policy Policy
}

func New(policy Policy) *Retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Retrier{policy: policy}
}

// Do runs op up to MaxAttempts times, sleeping the scheduled wait between
// attempts. The wait honors ctx cancellation; the operation itself is expected
// to watch ctx on its own. The error of the final attempt is returned as-is.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var err error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if attempt == r.policy.MaxAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.wait(attempt)):
		}
	}
	return err
}

// wait returns the delay after the given failed attempt (1-based).
func (r *Retrier) wait(attempt int) time.Duration {
	if len(r.policy.Schedule) == 0 {
		return 0
	}
	if attempt > len(r.policy.Schedule) {
		return r.policy.Schedule[len(r.policy.Schedule)-1]
	}
	return r.policy.Schedule[attempt-1]
}
