package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/liorion-nguyen/chess-master-app/rules"
)

// SuggestionDepth is the recursion depth below each root move for hints,
// whatever the configured difficulty.
const SuggestionDepth = 2

var (
	posInf = Score(math.Inf(1))
	negInf = Score(math.Inf(-1))
)

// Engine picks moves by fixed-depth alpha-beta search. It runs one search at
// a time; concurrent calls wait for each other.
type Engine struct {
	mu          sync.Mutex
	rng         *rand.Rand
	perturb     bool
	randomMoves bool
	eval        func(rules.Position) Score
	stats       Stats
}

type Option func(*Engine)

// WithRand sets the random source for noise and random moves.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithPerturbation toggles the noise added to root scores.
func WithPerturbation(on bool) Option { return func(e *Engine) { e.perturb = on } }

// WithRandomMoves toggles the easy tier's random move short-circuit.
func WithRandomMoves(on bool) Option { return func(e *Engine) { e.randomMoves = on } }

// Deterministic disables every source of randomness.
func Deterministic() Option {
	return func(e *Engine) {
		e.perturb = false
		e.randomMoves = false
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{perturb: true, randomMoves: true, eval: Evaluate}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Stats returns the counters of the last finished search.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ChooseMove returns the engine's move for the side to move, or ok == false
// when the game is over. pos is left exactly as it was given.
func (e *Engine) ChooseMove(pos rules.Position, d Difficulty) (rules.Move, bool, error) {
	if !d.Valid() {
		return rules.NullMove, false, fmt.Errorf("%w: %d", ErrUnknownDifficulty, uint8(d))
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats = Stats{Difficulty: d, Depth: d.Depth()}
	start := time.Now()
	defer func() { e.stats.Elapsed = time.Since(start) }()

	moves := pos.LegalMoves()
	if len(moves) == 0 || pos.IsGameOver() {
		return rules.NullMove, false, nil
	}

	if e.randomMoves && e.rng.Float64() < d.RandomMoveChance() {
		e.stats.RandomMove = true
		return pos.Notate(moves[e.rng.Intn(len(moves))]), true, nil
	}

	noise := 0.0
	if e.perturb {
		noise = d.RandomFactor()
	}
	best, score, err := e.rootSearch(pos, moves, d.Depth()-1, noise)
	if err != nil {
		return rules.NullMove, false, err
	}
	e.stats.Score = score
	return pos.Notate(best), true, nil
}

// Suggestion proposes a move for the side to move using a shallow search on
// a copy of pos. It never adds noise.
func (e *Engine) Suggestion(pos rules.Position) (rules.Move, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats = Stats{Hint: true, Depth: SuggestionDepth + 1}
	start := time.Now()
	defer func() { e.stats.Elapsed = time.Since(start) }()

	scratch := pos.Clone()
	moves := scratch.LegalMoves()
	if len(moves) == 0 {
		return rules.NullMove, false, nil
	}
	best, score, err := e.rootSearch(scratch, moves, SuggestionDepth, 0)
	if err != nil {
		return rules.NullMove, false, err
	}
	e.stats.Score = score
	return pos.Notate(best), true, nil
}

// rootSearch scores every root move from the mover's point of view and keeps
// the first strictly best one. Black's scores are taken as is; White's are
// negated.
func (e *Engine) rootSearch(pos rules.Position, moves []rules.Move, depth int, noise float64) (rules.Move, Score, error) {
	s := searcher{eval: e.eval, stats: &e.stats}
	whiteToMove := pos.Turn() == rules.White

	best := rules.NullMove
	bestScore := negInf
	for _, m := range moves {
		score, err := s.child(pos, m, depth, whiteToMove, negInf, posInf)
		if err != nil {
			return rules.NullMove, 0, err
		}
		if whiteToMove {
			score = -score
		}
		if noise != 0 {
			score += Score((e.rng.Float64() - 0.5) * noise)
		}
		if best.IsNull() || score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, bestScore, nil
}

// Minimax searches depth plies below pos with alpha-beta pruning. maximizing
// is Black's role under the score convention. The position is restored on
// every return path.
func Minimax(pos rules.Position, depth int, maximizing bool, alpha, beta Score) (Score, error) {
	s := searcher{eval: Evaluate, stats: &Stats{}}
	return s.minimax(pos, depth, maximizing, alpha, beta)
}

type searcher struct {
	eval  func(rules.Position) Score
	stats *Stats
}

func (s *searcher) minimax(pos rules.Position, depth int, maximizing bool, alpha, beta Score) (Score, error) {
	s.stats.Nodes++
	if depth <= 0 || pos.IsGameOver() {
		s.stats.Leaves++
		return s.eval(pos), nil
	}

	best := posInf
	if maximizing {
		best = negInf
	}
	for _, m := range pos.LegalMoves() {
		score, err := s.child(pos, m, depth-1, !maximizing, alpha, beta)
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = max(best, score)
			alpha = max(alpha, score)
		} else {
			best = min(best, score)
			beta = min(beta, score)
		}
		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}
	return best, nil
}

// child plays m, searches the resulting position and takes m back.
func (s *searcher) child(pos rules.Position, m rules.Move, depth int, maximizing bool, alpha, beta Score) (Score, error) {
	unapply, err := applyMove(pos, m)
	if err != nil {
		return 0, err
	}
	defer unapply()
	return s.minimax(pos, depth, maximizing, alpha, beta)
}

// applyMove plays m and returns the function that takes it back.
func applyMove(pos rules.Position, m rules.Move) (func(), error) {
	if _, err := pos.Apply(m); err != nil {
		return nil, fmt.Errorf("engine: apply %s: %w", m, err)
	}
	return func() {
		if _, err := pos.Undo(); err != nil {
			panic(fmt.Sprintf("engine: undo %s: %v", m, err))
		}
	}, nil
}
