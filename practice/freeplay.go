package practice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/liorion-nguyen/chess-master-app/engine"
	"github.com/liorion-nguyen/chess-master-app/rules"
)

const noEngineMove = "You win! AI has no valid moves."

// errSuperseded marks an engine reply dropped by a reset or close.
var errSuperseded = errors.New("practice: engine reply superseded")

// FreePlay is a game against the engine. The player has White and the
// engine answers every player move in the background.
type FreePlay struct {
	mu         sync.Mutex
	o          options
	t          *table
	difficulty engine.Difficulty
	thinking   bool
	result     string
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64             // bumped whenever a pending reply must be dropped
	stop   context.CancelFunc // cancels the pending reply
	done   chan struct{}      // closed when the pending reply finishes
}

// NewFreePlay starts a game from fen (the initial position when empty). If
// Black is to move the engine replies straight away.
func NewFreePlay(fen string, d engine.Difficulty, opts ...Option) (*FreePlay, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", engine.ErrUnknownDifficulty, uint8(d))
	}
	t, err := newTable(fen)
	if err != nil {
		return nil, err
	}
	f := &FreePlay{o: buildOptions(opts), t: t, difficulty: d}
	f.ctx, f.cancel = context.WithCancel(context.Background())

	f.mu.Lock()
	if f.t.board.Turn() == rules.Black && !f.t.board.IsGameOver() {
		f.startReply()
	}
	f.mu.Unlock()
	return f, nil
}

func (f *FreePlay) Mode() Mode { return ModeFreePlay }

// playerGuard reports why the player may not act right now.
func (f *FreePlay) playerGuard() error {
	switch {
	case f.closed:
		return ErrClosed
	case f.t.board.IsGameOver() || f.result != "":
		return ErrGameOver
	case f.thinking:
		return ErrEngineThinking
	case f.t.board.Turn() != rules.White:
		return ErrNotYourTurn
	}
	return nil
}

func (f *FreePlay) Select(sq rules.Square) (Snapshot, error) {
	f.mu.Lock()
	err := f.playerGuard()
	if err == nil {
		f.t.selectSquare(sq, isWhite)
	}
	snap := f.snapshot()
	f.mu.Unlock()
	return f.o.publish(snap, err)
}

// PlayerMove moves the selected piece without asking for a reply.
func (f *FreePlay) PlayerMove(to rules.Square) (Snapshot, error) {
	f.mu.Lock()
	err := f.playerGuard()
	if err == nil {
		_, err = f.t.playSelected(to, rules.NoPieceType)
	}
	snap := f.snapshot()
	f.mu.Unlock()
	return f.o.publish(snap, err)
}

// MoveTo moves the selected piece and starts the engine's reply.
func (f *FreePlay) MoveTo(_ context.Context, to rules.Square) (Snapshot, error) {
	f.mu.Lock()
	err := f.playerGuard()
	if err == nil {
		if _, err = f.t.playSelected(to, rules.NoPieceType); err == nil {
			f.replyIfDue()
		}
	}
	snap := f.snapshot()
	f.mu.Unlock()
	return f.o.publish(snap, err)
}

func (f *FreePlay) Move(_ context.Context, from, to rules.Square, promo rules.PieceType) (Snapshot, error) {
	f.mu.Lock()
	err := f.move(from, to, promo)
	snap := f.snapshot()
	f.mu.Unlock()
	return f.o.publish(snap, err)
}

func (f *FreePlay) PlaySAN(_ context.Context, san string) (Snapshot, error) {
	f.mu.Lock()
	err := f.playerGuard()
	if err == nil {
		var m rules.Move
		if m, err = f.t.board.ParseSAN(san); err == nil {
			err = f.move(m.From, m.To, m.Promotion)
		}
	}
	snap := f.snapshot()
	f.mu.Unlock()
	return f.o.publish(snap, err)
}

func (f *FreePlay) move(from, to rules.Square, promo rules.PieceType) error {
	if err := f.playerGuard(); err != nil {
		return err
	}
	if p, ok := f.t.piece(from); ok && !isWhite(p) {
		return ErrNotYourTurn
	}
	if err := f.t.choose(from, isWhite); err != nil {
		return err
	}
	if _, err := f.t.playSelected(to, promo); err != nil {
		return err
	}
	f.replyIfDue()
	return nil
}

func (f *FreePlay) replyIfDue() {
	if f.t.board.Turn() == rules.Black && !f.t.board.IsGameOver() {
		f.startReply()
	}
}

// startReply launches the engine's answer. Callers hold f.mu.
func (f *FreePlay) startReply() {
	f.thinking = true
	f.gen++
	gen, scratch, d := f.gen, f.t.board.Copy(), f.difficulty
	ctx, stop := context.WithCancel(f.ctx)
	done := make(chan struct{})
	f.stop, f.done = stop, done

	go func() {
		defer close(done)
		defer stop()
		snap, err := f.reply(ctx, gen, scratch, d)
		if errors.Is(err, errSuperseded) {
			return
		}
		f.o.notify(snap)
	}()
}

// EngineMove computes and plays the engine's move in the calling goroutine.
func (f *FreePlay) EngineMove(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	var err error
	switch {
	case f.closed:
		err = ErrClosed
	case f.thinking:
		err = ErrEngineThinking
	case f.t.board.IsGameOver() || f.result != "":
		err = ErrGameOver
	case f.t.board.Turn() != rules.Black:
		err = ErrNotYourTurn
	}
	if err != nil {
		snap := f.snapshot()
		f.mu.Unlock()
		return snap, err
	}
	f.thinking = true
	f.gen++
	gen, scratch, d := f.gen, f.t.board.Copy(), f.difficulty
	f.mu.Unlock()
	return f.o.publish(f.reply(ctx, gen, scratch, d))
}

// reply paces, searches scratch outside the lock and plays the result if
// nothing superseded it meanwhile.
func (f *FreePlay) reply(ctx context.Context, gen uint64, scratch *rules.Board, d engine.Difficulty) (Snapshot, error) {
	start := time.Now()
	err := pause(ctx, f.o.humanDelay)
	if err == nil {
		err = engine.Think(ctx, d, f.o.thinkCap)
	}
	var (
		m  rules.Move
		ok bool
	)
	if err == nil {
		m, ok, err = f.o.engine.ChooseMove(scratch, d)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return f.snapshot(), errSuperseded
	}
	f.thinking = false
	switch {
	case err != nil && ctx.Err() != nil:
		return f.snapshot(), err
	case err != nil:
		f.o.log.Error().Err(err).Str("fen", scratch.FEN()).Msg("AI error")
		return f.snapshot(), err
	case !ok:
		f.result = noEngineMove
		return f.snapshot(), nil
	}
	played, err := f.t.play(m)
	if err != nil {
		f.o.log.Error().Err(err).Stringer("move", m).Msg("AI error")
		return f.snapshot(), err
	}
	f.o.log.Debug().
		Str("lesson", f.o.lesson).
		Stringer("difficulty", d).
		Str("move", played.SAN).
		Dur("took", time.Since(start)).
		Msg("engine move")
	return f.snapshot(), nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait blocks until no engine reply is pending or ctx is done.
func (f *FreePlay) Wait(ctx context.Context) error {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// dropReply abandons a pending reply. Callers hold f.mu.
func (f *FreePlay) dropReply() {
	f.gen++
	if f.stop != nil {
		f.stop()
	}
	f.thinking = false
}

// Undo takes back the engine's reply together with the player's move, or
// the player's move alone when the engine has not answered it. If the
// engine's reply is the only move played, nothing changes.
func (f *FreePlay) Undo() (Snapshot, error) {
	f.mu.Lock()
	err := f.undo()
	snap := f.snapshot()
	f.mu.Unlock()
	return f.o.publish(snap, err)
}

func (f *FreePlay) undo() error {
	switch {
	case f.closed:
		return ErrClosed
	case f.thinking:
		return ErrEngineThinking
	}
	m, err := f.t.undo()
	if err != nil {
		return err
	}
	if m.Color == rules.Black {
		if _, err := f.t.undo(); err != nil {
			if _, perr := f.t.play(m); perr != nil {
				return fmt.Errorf("practice: restore %s: %w", m, perr)
			}
			return err
		}
	}
	f.result = ""
	return nil
}

func (f *FreePlay) Reset() (Snapshot, error) {
	f.mu.Lock()
	var err error
	if f.closed {
		err = ErrClosed
	} else {
		f.dropReply()
		if err = f.t.reset(); err == nil {
			f.result = ""
			f.replyIfDue()
		}
	}
	snap := f.snapshot()
	f.mu.Unlock()
	return f.o.publish(snap, err)
}

// SetDifficulty changes the tier used from the next reply on.
func (f *FreePlay) SetDifficulty(d engine.Difficulty) (Snapshot, error) {
	if !d.Valid() {
		return f.Snapshot(), fmt.Errorf("%w: %d", engine.ErrUnknownDifficulty, uint8(d))
	}
	f.mu.Lock()
	f.difficulty = d
	snap := f.snapshot()
	f.mu.Unlock()
	return f.o.publish(snap, nil)
}

func (f *FreePlay) Difficulty() engine.Difficulty {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.difficulty
}

// Hint asks the engine for a shallow suggestion on the player's turn.
func (f *FreePlay) Hint() (rules.Move, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.playerGuard(); err != nil {
		return rules.NullMove, err
	}
	m, ok, err := f.o.engine.Suggestion(f.t.board)
	if err != nil {
		return rules.NullMove, err
	}
	if !ok {
		return rules.NullMove, ErrNoHint
	}
	return m, nil
}

func (f *FreePlay) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *FreePlay) snapshot() Snapshot {
	s := f.t.snapshot(ModeFreePlay)
	s.Lesson = f.o.lesson
	s.Difficulty = f.difficulty.String()
	s.EngineThinking = f.thinking
	s.Result = f.resultText()
	s.GameOver = s.GameOver || f.result != ""
	s.PlayerTurn = s.Turn == rules.White && !s.EngineThinking && !s.GameOver
	return s
}

func (f *FreePlay) resultText() string {
	if f.result != "" {
		return f.result
	}
	b := f.t.board
	switch {
	case b.IsCheckmate():
		if b.Turn() == rules.White {
			return "AI wins by checkmate!"
		}
		return "You win by checkmate!"
	case b.IsStalemate():
		return "Draw by stalemate"
	case b.IsInsufficientMaterial():
		return "Draw by insufficient material"
	case b.IsThreefoldRepetition():
		return "Draw by threefold repetition"
	case b.IsDraw():
		return "Draw"
	}
	return ""
}

func (f *FreePlay) FEN() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t.board.FEN()
}

func (f *FreePlay) PGN() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t.board.PGN()
}

func (f *FreePlay) Piece(sq rules.Square) (rules.Piece, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t.piece(sq)
}

func (f *FreePlay) IsLegal(from, to rules.Square) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t.isLegal(from, to)
}

// Close drops any pending reply. Further moves fail with ErrClosed.
func (f *FreePlay) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.dropReply()
	f.cancel()
}
