package practice

import (
	"context"
	"fmt"
	"sync"

	"github.com/liorion-nguyen/chess-master-app/rules"
)

const (
	phaseWaitingWhite = "waiting_white"
	phaseWaitingBlack = "waiting_black"
	phaseCompleted    = "completed"
)

// GuidedDual walks both colours through their own scripts, alternating as
// the board dictates.
type GuidedDual struct {
	mu           sync.Mutex
	o            options
	t            *table
	white, black []string
	wStep, bStep int
}

func NewGuidedDual(fen string, white, black []string, opts ...Option) (*GuidedDual, error) {
	t, err := newTable(fen)
	if err != nil {
		return nil, err
	}
	return &GuidedDual{
		o:     buildOptions(opts),
		t:     t,
		white: append([]string(nil), white...),
		black: append([]string(nil), black...),
	}, nil
}

func (g *GuidedDual) Mode() Mode { return ModeGuidedDual }

func (g *GuidedDual) complete() bool {
	return g.wStep >= len(g.white) && g.bStep >= len(g.black)
}

// next is the scripted move of the side to move, or "" when its script is
// exhausted.
func (g *GuidedDual) next() string {
	if g.t.board.Turn() == rules.White {
		if g.wStep < len(g.white) {
			return g.white[g.wStep]
		}
		return ""
	}
	if g.bStep < len(g.black) {
		return g.black[g.bStep]
	}
	return ""
}

func (g *GuidedDual) guard() error {
	switch {
	case g.complete():
		return ErrLessonComplete
	case g.t.board.IsGameOver():
		return ErrGameOver
	}
	return nil
}

func (g *GuidedDual) own(p rules.Piece) bool { return p.Color == g.t.board.Turn() }

func (g *GuidedDual) Select(sq rules.Square) (Snapshot, error) {
	g.mu.Lock()
	err := g.guard()
	if err == nil {
		g.t.selectSquare(sq, g.own)
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedDual) MoveTo(_ context.Context, to rules.Square) (Snapshot, error) {
	g.mu.Lock()
	err := g.guard()
	if err == nil {
		var m rules.Move
		if m, err = g.t.playSelected(to, rules.NoPieceType); err == nil {
			err = g.check(m)
		}
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedDual) Move(_ context.Context, from, to rules.Square, promo rules.PieceType) (Snapshot, error) {
	g.mu.Lock()
	err := g.move(from, to, promo)
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedDual) PlaySAN(_ context.Context, san string) (Snapshot, error) {
	g.mu.Lock()
	m, err := g.t.board.ParseSAN(san)
	if err == nil {
		err = g.move(m.From, m.To, m.Promotion)
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedDual) move(from, to rules.Square, promo rules.PieceType) error {
	if err := g.guard(); err != nil {
		return err
	}
	if p, ok := g.t.piece(from); ok && !g.own(p) {
		return ErrNotYourTurn
	}
	if err := g.t.choose(from, g.own); err != nil {
		return err
	}
	m, err := g.t.playSelected(to, promo)
	if err != nil {
		return err
	}
	return g.check(m)
}

// check advances the mover's counter when m follows its script and takes
// m back otherwise.
func (g *GuidedDual) check(m rules.Move) error {
	var want string
	switch {
	case m.Color == rules.White && g.wStep < len(g.white):
		want = g.white[g.wStep]
	case m.Color == rules.Black && g.bStep < len(g.black):
		want = g.black[g.bStep]
	}
	if want == "" || !rules.SameSAN(m.SAN, want) {
		if _, err := g.t.undo(); err != nil {
			return err
		}
		g.o.log.Debug().Str("lesson", g.o.lesson).Stringer("side", m.Color).
			Str("played", m.SAN).Str("expected", want).Msg("scripted mistake")
		return &MistakeError{Side: m.Color, Played: m.SAN, Expected: want}
	}
	if m.Color == rules.White {
		g.wStep++
	} else {
		g.bStep++
	}
	return nil
}

// Undo takes back the last move and the step of the side that made it.
func (g *GuidedDual) Undo() (Snapshot, error) {
	g.mu.Lock()
	m, err := g.t.undo()
	if err == nil {
		if m.Color == rules.White {
			g.wStep = max(g.wStep-1, 0)
		} else {
			g.bStep = max(g.bStep-1, 0)
		}
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

func (g *GuidedDual) Reset() (Snapshot, error) {
	g.mu.Lock()
	err := g.t.reset()
	if err == nil {
		g.wStep, g.bStep = 0, 0
	}
	snap := g.snapshot()
	g.mu.Unlock()
	return g.o.publish(snap, err)
}

// Hint returns the scripted move of the side to move.
func (g *GuidedDual) Hint() (rules.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.complete() {
		return rules.NullMove, ErrLessonComplete
	}
	want := g.next()
	if want == "" {
		return rules.NullMove, ErrNoHint
	}
	m, err := g.t.board.ParseSAN(want)
	if err != nil {
		return rules.NullMove, fmt.Errorf("%w: %v", ErrNoHint, err)
	}
	return m, nil
}

// NextExpected is the SAN the side to move should play next.
func (g *GuidedDual) NextExpected() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next()
}

func (g *GuidedDual) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *GuidedDual) snapshot() Snapshot {
	s := g.t.snapshot(ModeGuidedDual)
	s.Lesson = g.o.lesson
	s.WhiteStep, s.WhiteSteps = g.wStep, len(g.white)
	s.BlackStep, s.BlackSteps = g.bStep, len(g.black)
	s.Step, s.Steps = g.wStep+g.bStep, len(g.white)+len(g.black)
	s.Progress = Progress{
		White: progress(g.wStep, len(g.white)),
		Black: progress(g.bStep, len(g.black)),
		Total: progress(s.Step, s.Steps),
	}
	s.Complete = g.complete()
	s.PlayerTurn = !s.Complete && !s.GameOver
	s.Result = g.t.scriptedResult()
	switch {
	case s.Complete:
		s.Phase = phaseCompleted
	case s.Turn == rules.White:
		s.Phase = phaseWaitingWhite
	default:
		s.Phase = phaseWaitingBlack
	}
	if !s.Complete {
		s.NextExpected = g.next()
	}
	return s
}

func (g *GuidedDual) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t.board.FEN()
}

func (g *GuidedDual) PGN() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t.board.PGN()
}

func (g *GuidedDual) Piece(sq rules.Square) (rules.Piece, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t.piece(sq)
}

func (g *GuidedDual) IsLegal(from, to rules.Square) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.t.isLegal(from, to)
}

func (g *GuidedDual) Close() {}
