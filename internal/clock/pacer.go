// Package clock paces retried operations.
package clock

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep waits for d or returns ctx.Err() once the context is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacer spaces successive attempts with jittered exponential intervals.
// A Pacer serves a single operation and is not safe for concurrent use.
type Pacer struct {
	policy *backoff.ExponentialBackOff
	sleep  Sleeper
}

// NewPacer starts a schedule at initial. A nil sleep uses Sleep.
func NewPacer(initial time.Duration, sleep Sleeper) *Pacer {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initial
	policy.MaxElapsedTime = 0
	policy.Reset()
	if sleep == nil {
		sleep = Sleep
	}
	return &Pacer{policy: policy, sleep: sleep}
}

// Wait sleeps for the next interval of the schedule and returns it.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	d := p.policy.NextBackOff()
	return d, p.sleep(ctx, d)
}
