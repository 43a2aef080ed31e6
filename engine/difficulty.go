package engine

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty selects search depth and how much noise goes into root scores.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

type tier struct {
	name             string
	depth            int
	randomFactor     float64
	randomMoveChance float64
	thinkTime        time.Duration
}

var tiers = [...]tier{
	Easy:   {"easy", 1, 0.5, 0.3, 500 * time.Millisecond},
	Medium: {"medium", 2, 0.2, 0, 1000 * time.Millisecond},
	Hard:   {"hard", 3, 0.1, 0, 1500 * time.Millisecond},
	Expert: {"expert", 4, 0.1, 0, 2000 * time.Millisecond},
}

// Difficulties lists every tier from weakest to strongest.
func Difficulties() []Difficulty { return []Difficulty{Easy, Medium, Hard, Expert} }

func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, t := range tiers {
		if t.name == s {
			return Difficulty(i), nil
		}
	}
	return Easy, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d Difficulty) Valid() bool { return int(d) < len(tiers) }

func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("difficulty(%d)", uint8(d))
	}
	return tiers[d].name
}

// Depth is the number of plies searched, counting the root move.
func (d Difficulty) Depth() int { return tiers[d].depth }

// RandomFactor is the width of the uniform noise added to each root score.
func (d Difficulty) RandomFactor() float64 { return tiers[d].randomFactor }

// RandomMoveChance is the probability of skipping the search and playing a
// uniformly random legal move.
func (d Difficulty) RandomMoveChance() float64 { return tiers[d].randomMoveChance }

// ThinkTime is the pause shown before the engine's reply.
func (d Difficulty) ThinkTime() time.Duration { return tiers[d].thinkTime }

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
