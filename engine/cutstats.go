package engine

import (
	"fmt"
	"time"
)

// Stats collects the counters of one search.
type Stats struct {
	Difficulty Difficulty
	Hint       bool
	Depth      int
	Nodes      uint64
	Leaves     uint64
	Cutoffs    uint64
	RandomMove bool
	Score      Score
	Elapsed    time.Duration
}

// NPS is nodes per second, or zero for an instant search.
func (s Stats) NPS() uint64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return uint64(float64(s.Nodes) / s.Elapsed.Seconds())
}

// Centipawns converts Score to the centipawn scale UCI front ends print.
func (s Stats) Centipawns() int {
	return int(float64(s.Score) * 100)
}

func (s Stats) String() string {
	if s.RandomMove {
		return fmt.Sprintf("%s random move in %s", s.Difficulty, s.Elapsed)
	}
	return fmt.Sprintf("depth %d score %.2f nodes %d leaves %d cutoffs %d time %s",
		s.Depth, float64(s.Score), s.Nodes, s.Leaves, s.Cutoffs, s.Elapsed)
}
