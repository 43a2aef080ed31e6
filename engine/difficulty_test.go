package engine

import (
	"errors"
	"testing"
	"time"
)

func TestDifficultyTiers(t *testing.T) {
	cases := []struct {
		d      Difficulty
		name   string
		depth  int
		factor float64
		chance float64
		think  time.Duration
	}{
		{Easy, "easy", 1, 0.5, 0.3, 500 * time.Millisecond},
		{Medium, "medium", 2, 0.2, 0, time.Second},
		{Hard, "hard", 3, 0.1, 0, 1500 * time.Millisecond},
		{Expert, "expert", 4, 0.1, 0, 2 * time.Second},
	}
	for _, tc := range cases {
		if tc.d.String() != tc.name || tc.d.Depth() != tc.depth || tc.d.RandomFactor() != tc.factor ||
			tc.d.RandomMoveChance() != tc.chance || tc.d.ThinkTime() != tc.think {
			t.Fatalf("%s tier = %d/%v/%v/%v", tc.name, tc.d.Depth(), tc.d.RandomFactor(), tc.d.RandomMoveChance(), tc.d.ThinkTime())
		}
		got, err := ParseDifficulty(" " + tc.name + " ")
		if err != nil || got != tc.d {
			t.Fatalf("ParseDifficulty(%s) = %v, %v", tc.name, got, err)
		}
	}
}

func TestDepthIsMonotonic(t *testing.T) {
	all := Difficulties()
	for i := 1; i < len(all); i++ {
		if all[i].Depth() <= all[i-1].Depth() {
			t.Fatalf("%s depth %d not above %s depth %d", all[i], all[i].Depth(), all[i-1], all[i-1].Depth())
		}
	}
}

func TestParseDifficultyUnknown(t *testing.T) {
	if _, err := ParseDifficulty("grandmaster"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("err = %v, want ErrUnknownDifficulty", err)
	}
	var d Difficulty
	if err := d.UnmarshalText([]byte("Hard")); err != nil || d != Hard {
		t.Fatalf("UnmarshalText(Hard) = %v, %v", d, err)
	}
	if _, err := Difficulty(7).MarshalText(); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("MarshalText(7) = %v", err)
	}
}
