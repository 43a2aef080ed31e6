package rules

import "errors"

var (
	ErrInvalidMove     = errors.New("rules: invalid move")
	ErrNothingToUndo   = errors.New("rules: nothing to undo")
	ErrInvalidFEN      = errors.New("rules: invalid FEN")
	ErrInvalidSquare   = errors.New("rules: invalid square")
	ErrInvalidPosition = errors.New("rules: invalid position")
)
