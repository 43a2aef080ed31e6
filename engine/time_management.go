package engine

import (
	"context"
	"time"
)

// ThinkDuration is the pause before a reply at difficulty d, capped by limit.
// A limit of zero or less disables the pause.
func ThinkDuration(d Difficulty, limit time.Duration) time.Duration {
	if limit <= 0 || !d.Valid() {
		return 0
	}
	return min(d.ThinkTime(), limit)
}

// Think waits out the reply pause. It returns early with ctx's error when
// ctx is done first. The search itself never waits; callers that do not
// want pacing skip this step.
func Think(ctx context.Context, d Difficulty, limit time.Duration) error {
	wait := ThinkDuration(d, limit)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
