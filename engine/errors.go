package engine

import "errors"

var ErrUnknownDifficulty = errors.New("engine: unknown difficulty")
