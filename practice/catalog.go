package practice

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/liorion-nguyen/chess-master-app/engine"
)

// Lesson describes one practice scenario. Expected is the script of a
// single-side lesson; White and Black are the scripts of a dual-side one.
type Lesson struct {
	Key         string            `json:"key"`
	Mode        Mode              `json:"mode"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	FEN         string            `json:"fen,omitempty"`
	Expected    []string          `json:"expected,omitempty"`
	White       []string          `json:"white,omitempty"`
	Black       []string          `json:"black,omitempty"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	Objective   string            `json:"objective,omitempty"`
}

// Catalog is a set of lessons keyed by Lesson.Key.
type Catalog map[string]Lesson

// DefaultCatalog holds the built-in lessons.
var DefaultCatalog = Catalog{
	"opening_basics": {
		Mode:        ModeGuidedSingle,
		Title:       "Opening basics",
		Description: "Develop the centre pawn, then the king's knight and bishop.",
		Expected:    []string{"e4", "Nf3", "Bc4"},
	},
	"italian_game": {
		Mode:        ModeGuidedSingle,
		Title:       "Italian Game",
		Description: "Set up the Italian: centre pawn, pieces out, castle, support the centre.",
		Expected:    []string{"e4", "Nf3", "Bc4", "O-O", "d3"},
	},
	"tactical_pattern": {
		Mode:        ModeGuidedSingle,
		Title:       "Remove the defender",
		Description: "Pin the knight, take it and win the queen behind it.",
		FEN:         "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/3P1N2/PPP2PPP/RNBQK2R w KQkq - 0 1",
		Expected:    []string{"Bg5", "Bxf6", "Bxd8"},
	},
	"endgame_basic": {
		Mode:        ModeGuidedSingle,
		Title:       "Queen mate",
		Description: "Box the king in and deliver mate with king and queen.",
		FEN:         "7k/8/6K1/8/8/8/8/5Q2 w - - 0 1",
		Expected:    []string{"Qf7", "Qg7#"},
	},

	"italian_complete": {
		Mode:        ModeGuidedDual,
		Title:       "Italian Game, both sides",
		Description: "Play both colours through the quiet Italian.",
		White:       []string{"e4", "Nf3", "Bc4", "O-O", "d3", "c3"},
		Black:       []string{"e5", "Nc6", "Be7", "Nf6", "d6", "O-O"},
	},
	"ruy_lopez": {
		Mode:        ModeGuidedDual,
		Title:       "Ruy Lopez",
		Description: "The Spanish opening with the Morphy defence.",
		White:       []string{"e4", "Nf3", "Bb5", "Ba4", "O-O"},
		Black:       []string{"e5", "Nc6", "a6", "Nf6", "Be7"},
	},
	"scholars_mate_defense": {
		Mode:        ModeGuidedDual,
		Title:       "Stopping Scholar's Mate",
		Description: "White aims at f7; Black covers it and chases the queen.",
		White:       []string{"e4", "Bc4", "Qh5", "Qf3"},
		Black:       []string{"e5", "Nc6", "g6", "Nf6"},
	},
	"tactical_puzzle": {
		Mode:        ModeGuidedDual,
		Title:       "Knight fork",
		Description: "Fork king and queen, then collect the queen while Black walks.",
		FEN:         "3q3k/6pp/8/4N3/8/8/6PP/6K1 w - - 0 1",
		White:       []string{"Nf7+", "Nxd8", "Nc6"},
		Black:       []string{"Kg8", "Kf8", "Ke8"},
	},

	"beginner_practice": {
		Mode:        ModeFreePlay,
		Title:       "Beginner game",
		Description: "A full game against a forgiving opponent.",
		Difficulty:  engine.Easy,
		Objective:   "Win the game",
	},
	"intermediate_game": {
		Mode:        ModeFreePlay,
		Title:       "Intermediate game",
		Description: "A full game against a steadier opponent.",
		Difficulty:  engine.Medium,
		Objective:   "Win the game",
	},
	"tactical_training": {
		Mode:        ModeFreePlay,
		Title:       "Middlegame tactics",
		Description: "A sharp middlegame where tactics decide.",
		FEN:         "2rq1rk1/pp3pp1/2n1bn1p/2pp4/3P4/P1P1BN2/1PQ2PPP/R3R1K1 w - - 0 1",
		Difficulty:  engine.Hard,
		Objective:   "Find the tactics and win material",
	},
	"endgame_challenge": {
		Mode:        ModeFreePlay,
		Title:       "Queen against king",
		Description: "Convert the extra queen.",
		FEN:         "8/8/4k3/8/8/4K3/4Q3/8 w - - 0 1",
		Difficulty:  engine.Expert,
		Objective:   "Checkmate the lone king",
	},
	"rook_endgame": {
		Mode:        ModeFreePlay,
		Title:       "Rook endgame",
		Description: "Hold the position against an active rook.",
		FEN:         "8/6k1/6p1/6P1/8/6K1/r7/8 b - - 0 1",
		Difficulty:  engine.Hard,
		Objective:   "Survive the rook endgame",
	},
	"opening_challenge": {
		Mode:        ModeFreePlay,
		Title:       "Opening challenge",
		Description: "An open game straight out of the opening.",
		FEN:         "rnbqkbnr/pppp1ppp/8/4p3/2B1P3/8/PPPP1PPP/RNBQK1NR w KQkq - 0 1",
		Difficulty:  engine.Expert,
		Objective:   "Gain an advantage out of the opening",
	},
}

var learningPath = []string{
	"opening_basics",
	"italian_game",
	"italian_complete",
	"beginner_practice",
	"tactical_pattern",
	"ruy_lopez",
	"intermediate_game",
	"tactical_puzzle",
	"tactical_training",
	"endgame_challenge",
}

// Lesson returns the lesson stored under key with its Key field filled.
func (c Catalog) Lesson(key string) (Lesson, error) {
	l, ok := c[key]
	if !ok {
		return Lesson{}, fmt.Errorf("%w: %q", ErrUnknownLesson, key)
	}
	l.Key = key
	return l, nil
}

// Lessons lists the lessons of mode in key order; an empty mode lists all.
func (c Catalog) Lessons(mode Mode) []Lesson {
	keys := maps.Keys(c)
	slices.Sort(keys)
	out := make([]Lesson, 0, len(keys))
	for _, k := range keys {
		if l := c[k]; mode == "" || l.Mode == mode {
			l.Key = k
			out = append(out, l)
		}
	}
	return out
}

// Random picks a lesson of mode.
func (c Catalog) Random(mode Mode, rng *rand.Rand) (Lesson, error) {
	ls := c.Lessons(mode)
	if len(ls) == 0 {
		return Lesson{}, fmt.Errorf("%w: no lessons for mode %q", ErrUnknownLesson, mode)
	}
	return ls[rng.Intn(len(ls))], nil
}

// LearningPath returns the recommended lesson order, skipping keys the
// catalog does not hold.
func (c Catalog) LearningPath() []Lesson {
	out := make([]Lesson, 0, len(learningPath))
	for _, k := range learningPath {
		if l, err := c.Lesson(k); err == nil {
			out = append(out, l)
		}
	}
	return out
}

// NewSession starts a session of the lesson's mode.
func NewSession(l Lesson, opts ...Option) (Session, error) {
	opts = append(opts, withLesson(l.Key))
	switch l.Mode {
	case ModeGuidedSingle:
		g, err := NewGuidedSingle(l.FEN, l.Expected, opts...)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ModeGuidedDual:
		g, err := NewGuidedDual(l.FEN, l.White, l.Black, opts...)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ModeFreePlay:
		f, err := NewFreePlay(l.FEN, l.Difficulty, opts...)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, l.Mode)
}
