package rules

// Perft counts leaf nodes of the legal move tree to the given depth.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.db.Apply(m.raw)
		nodes += b.Perft(depth - 1)
		undo()
	}
	return nodes
}

// PerftDivide splits Perft by root move, keyed by UCI notation.
func (b *Board) PerftDivide(depth int) map[string]uint64 {
	div := make(map[string]uint64)
	if depth <= 0 {
		return div
	}
	for _, m := range b.LegalMoves() {
		undo := b.db.Apply(m.raw)
		div[m.String()] = b.Perft(depth - 1)
		undo()
	}
	return div
}
