package practice

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/liorion-nguyen/chess-master-app/engine"
	"github.com/liorion-nguyen/chess-master-app/rules"
)

// Mode names a learning mode.
type Mode string

const (
	ModeGuidedSingle Mode = "guided_single"
	ModeGuidedDual   Mode = "guided_dual"
	ModeFreePlay     Mode = "free_play"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeGuidedSingle, ModeGuidedDual, ModeFreePlay:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Progress is completion in percent.
type Progress struct {
	White float64 `json:"white"`
	Black float64 `json:"black"`
	Total float64 `json:"total"`
}

// Snapshot is the observable state of a session. Fields that do not apply to
// a mode are left zero.
type Snapshot struct {
	Mode     Mode              `json:"mode"`
	Lesson   string            `json:"lesson,omitempty"`
	FEN      string            `json:"fen"`
	Turn     rules.Color       `json:"turn"`
	Pieces   []rules.Placement `json:"pieces"`
	Selected *rules.Square     `json:"selected,omitempty"`
	Targets  []rules.Square    `json:"targets"`
	LastMove *rules.Move       `json:"lastMove,omitempty"`
	History  []string          `json:"history"`
	Status   rules.Status      `json:"status"`
	InCheck  bool              `json:"inCheck"`
	GameOver bool              `json:"gameOver"`
	Result   string            `json:"result,omitempty"`

	// scripted modes
	Phase        string   `json:"phase,omitempty"`
	Step         int      `json:"step"`
	Steps        int      `json:"steps,omitempty"`
	WhiteStep    int      `json:"whiteStep"`
	BlackStep    int      `json:"blackStep"`
	WhiteSteps   int      `json:"whiteSteps,omitempty"`
	BlackSteps   int      `json:"blackSteps,omitempty"`
	NextExpected string   `json:"nextExpected,omitempty"`
	Progress     Progress `json:"progress"`
	Complete     bool     `json:"complete"`

	// free play
	Difficulty     string `json:"difficulty,omitempty"`
	PlayerTurn     bool   `json:"playerTurn"`
	EngineThinking bool   `json:"engineThinking"`
}

// Session is one learning game. Implementations are safe for concurrent use.
type Session interface {
	Mode() Mode
	Snapshot() Snapshot

	// Select toggles the selection of sq for the side allowed to move.
	Select(sq rules.Square) (Snapshot, error)
	// MoveTo moves the selected piece.
	MoveTo(ctx context.Context, to rules.Square) (Snapshot, error)
	// Move selects from and moves it to to. promo may be NoPieceType.
	Move(ctx context.Context, from, to rules.Square, promo rules.PieceType) (Snapshot, error)
	// PlaySAN is Move with the move given in algebraic notation.
	PlaySAN(ctx context.Context, san string) (Snapshot, error)
	Undo() (Snapshot, error)
	Reset() (Snapshot, error)
	// Hint proposes the next move without playing it.
	Hint() (rules.Move, error)

	FEN() string
	PGN() (string, error)
	Piece(sq rules.Square) (rules.Piece, bool)
	IsLegal(from, to rules.Square) bool

	// Close stops background work such as a pending engine reply.
	Close()
}

type options struct {
	log        zerolog.Logger
	engine     *engine.Engine
	thinkCap   time.Duration
	humanDelay time.Duration
	observer   func(Snapshot)
	lesson     string
}

type Option func(*options)

func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// WithEngine shares an engine; by default each free-play session has its own.
func WithEngine(e *engine.Engine) Option { return func(o *options) { o.engine = e } }

// WithThinkingCap bounds the pause before engine replies. Zero disables it.
func WithThinkingCap(d time.Duration) Option { return func(o *options) { o.thinkCap = d } }

// WithHumanDelay sets the pause between a player move and the engine search.
func WithHumanDelay(d time.Duration) Option { return func(o *options) { o.humanDelay = d } }

// WithObserver receives a snapshot after every state change.
func WithObserver(fn func(Snapshot)) Option { return func(o *options) { o.observer = fn } }

func withLesson(key string) Option { return func(o *options) { o.lesson = key } }

func buildOptions(opts []Option) options {
	o := options{
		log:        zerolog.Nop(),
		thinkCap:   2 * time.Second,
		humanDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = engine.New()
	}
	return o
}

func (o *options) notify(s Snapshot) {
	if o.observer != nil {
		o.observer(s)
	}
}

func progress(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// publish hands a successful change to the observer. Callers release their
// lock first.
func (o *options) publish(s Snapshot, err error) (Snapshot, error) {
	if err == nil {
		o.notify(s)
	}
	return s, err
}

func isWhite(p rules.Piece) bool { return p.Color == rules.White }
