package rules

// Position is everything the search needs from a game state. Implementations
// mutate in place: Apply and Undo must pair exactly.
type Position interface {
	// LegalMoves lists the moves of the side to move in a stable order.
	LegalMoves() []Move
	LegalMovesFrom(sq Square) []Move

	// Apply plays m. On error the position is unchanged.
	Apply(m Move) (Move, error)
	// Undo reverts the most recently applied move and returns it.
	Undo() (Move, error)

	IsGameOver() bool
	IsCheckmate() bool
	IsDraw() bool
	IsStalemate() bool
	IsInsufficientMaterial() bool
	IsThreefoldRepetition() bool
	InCheck() bool

	Get(sq Square) (Piece, bool)
	Turn() Color
	FEN() string

	// Clone returns an independent copy without undo history.
	Clone() Position
	// Notate returns m with its SAN filled in for the current position.
	Notate(m Move) Move
}

var _ Position = (*Board)(nil)
