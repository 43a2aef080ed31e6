package practice

import (
	"context"
	"fmt"
	"sync"

	"github.com/liorion-nguyen/chess-master-app/rules"
)

// GuidedSingle walks White through a scripted move list. Black never moves:
// after every correct step the turn is handed back to White.
type GuidedSingle struct {
	mu       sync.Mutex
	o        options
	t        *table
	expected []string
	step     int
	before   []string // position before each completed step
}

func NewGuidedSingle(fen string, expected []string, opts ...Option) (*GuidedSingle, error) {
	t, err := newTable(fen)
	if err != nil {
		return nil, err
	}
	if t.board.Turn() != rules.White {
		if err := t.board.SetTurn(rules.White); err != nil {
			return nil, err
		}
		t.initial = t.board.FEN()
	}
	return &GuidedSingle{
		o:        buildOptions(opts),
		t:        t,
		expected: append([]string(nil), expected...),
	}, nil
}

func (g *GuidedSingle) Mode() Mode { return ModeGuidedSingle }

func (g *GuidedSingle) complete() bool { return g.step >= len(g.expected) }

func (g *GuidedSingle) guard() error {
	switch {
	case g.complete():
		return ErrLessonComplete
	case g.t.board.IsGameOver():
		return ErrGameOver
	}
	return nil
}

func (g *GuidedSingle) Select(sq rules.Square) (Snapshot, error) {
	g.mu.Lock()
	err := g.guard()
	if err == nil {
		g.t.selectSquare(sq, isWhite)
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedSingle) MoveTo(_ context.Context, to rules.Square) (Snapshot, error) {
	g.mu.Lock()
	err := g.guard()
	if err == nil {
		before := g.t.board.FEN()
		var m rules.Move
		if m, err = g.t.playSelected(to, rules.NoPieceType); err == nil {
			err = g.check(m, before)
		}
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedSingle) Move(_ context.Context, from, to rules.Square, promo rules.PieceType) (Snapshot, error) {
	g.mu.Lock()
	err := g.move(from, to, promo)
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedSingle) PlaySAN(_ context.Context, san string) (Snapshot, error) {
	g.mu.Lock()
	m, err := g.t.board.ParseSAN(san)
	if err == nil {
		err = g.move(m.From, m.To, m.Promotion)
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedSingle) move(from, to rules.Square, promo rules.PieceType) error {
	if err := g.guard(); err != nil {
		return err
	}
	if p, ok := g.t.piece(from); ok && !isWhite(p) {
		return ErrNotYourTurn
	}
	if err := g.t.choose(from, isWhite); err != nil {
		return err
	}
	before := g.t.board.FEN()
	m, err := g.t.playSelected(to, promo)
	if err != nil {
		return err
	}
	return g.check(m, before)
}

// check compares the played move with the script. A wrong move is taken
// back; a right one advances the step and gives White the move again.
func (g *GuidedSingle) check(m rules.Move, before string) error {
	want := g.expected[g.step]
	if !rules.SameSAN(m.SAN, want) {
		if _, err := g.t.undo(); err != nil {
			return err
		}
		g.o.log.Debug().Str("lesson", g.o.lesson).Str("played", m.SAN).Str("expected", want).Msg("scripted mistake")
		return &MistakeError{Side: rules.White, Played: m.SAN, Expected: want}
	}
	g.before = append(g.before, before)
	g.step++
	if g.complete() {
		return nil
	}
	if err := g.t.board.SetTurn(rules.White); err != nil {
		return fmt.Errorf("practice: hand move back to White: %w", err)
	}
	return nil
}

// Undo restores the position before the last completed step.
func (g *GuidedSingle) Undo() (Snapshot, error) {
	g.mu.Lock()
	err := g.undo()
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedSingle) undo() error {
	if g.step == 0 {
		return rules.ErrNothingToUndo
	}
	if err := g.t.board.Reset(g.before[g.step-1]); err != nil {
		return err
	}
	g.step--
	g.before = g.before[:g.step]
	g.t.history = g.t.history[:len(g.t.history)-1]
	g.t.clearSelection()
	g.t.last = nil
	return nil
}

func (g *GuidedSingle) Reset() (Snapshot, error) {
	g.mu.Lock()
	err := g.t.reset()
	if err == nil {
		g.step = 0
		g.before = g.before[:0]
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

// Hint returns the next scripted move.
func (g *GuidedSingle) Hint() (rules.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.complete() {
		return rules.NullMove, ErrLessonComplete
	}
	m, err := g.t.board.ParseSAN(g.expected[g.step])
	if err != nil {
		return rules.NullMove, fmt.Errorf("%w: %v", ErrNoHint, err)
	}
	return m, nil
}

// NextExpected is the SAN the script wants next, or "" when complete.
func (g *GuidedSingle) NextExpected() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.complete() {
		return ""
	}
	return g.expected[g.step]
}

func (g *GuidedSingle) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *GuidedSingle) snapshot() Snapshot {
	s := g.t.snapshot(ModeGuidedSingle)
	s.Lesson = g.o.lesson
	s.Step, s.Steps = g.step, len(g.expected)
	s.WhiteStep, s.WhiteSteps = g.step, len(g.expected)
	s.Complete = g.complete()
	s.Progress.White = progress(g.step, len(g.expected))
	s.Progress.Total = s.Progress.White
	s.PlayerTurn = !s.Complete && !s.GameOver
	s.Result = g.t.scriptedResult()
	if s.Complete {
		s.Phase = phaseCompleted
	} else {
		s.Phase = phaseWaitingWhite
		s.NextExpected = g.expected[g.step]
	}
	return s
}

func (g *GuidedSingle) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t.board.FEN()
}

// PGN covers the moves since White was last handed the turn.
func (g *GuidedSingle) PGN() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t.board.PGN()
}

func (g *GuidedSingle) Piece(sq rules.Square) (rules.Piece, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t.piece(sq)
}

func (g *GuidedSingle) IsLegal(from, to rules.Square) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t.isLegal(from, to)
}

func (g *GuidedSingle) Close() {}
