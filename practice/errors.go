package practice

import (
	"errors"
	"fmt"

	"github.com/liorion-nguyen/chess-master-app/rules"
)

var (
	ErrNotYourTurn    = errors.New("practice: not your turn")
	ErrNoSelection    = errors.New("practice: no piece selected")
	ErrIllegalTarget  = errors.New("practice: square is not a legal target")
	ErrGameOver       = errors.New("practice: game is over")
	ErrEngineThinking = errors.New("practice: engine is thinking")
	ErrLessonComplete = errors.New("practice: lesson already complete")
	ErrUnknownLesson  = errors.New("practice: unknown lesson")
	ErrUnknownMode    = errors.New("practice: unknown mode")
	ErrNoHint         = errors.New("practice: no hint available")
	ErrClosed         = errors.New("practice: session closed")
)

// MistakeError reports a legal move that does not follow the lesson script.
// The move has already been taken back.
type MistakeError struct {
	Side     rules.Color
	Played   string
	Expected string
}

func (e *MistakeError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("practice: %s played %s but the script has no move left", e.Side.Name(), e.Played)
	}
	return fmt.Sprintf("practice: wrong move for %s: played %s, expected %s", e.Side.Name(), e.Played, e.Expected)
}
