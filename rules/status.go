package rules

import "math/bits"

// lightSquares has a bit set for every light square (b1, d1, ..., a2, ...).
const lightSquares uint64 = 0x55AA55AA55AA55AA

func (b *Board) IsCheckmate() bool { return b.InCheck() && b.moveCount() == 0 }

func (b *Board) IsStalemate() bool { return !b.InCheck() && b.moveCount() == 0 }

// IsInsufficientMaterial covers bare kings, a single minor piece, and
// bishops that all stand on one square colour.
func (b *Board) IsInsufficientMaterial() bool {
	w, k := &b.db.White, &b.db.Black
	if w.Pawns|w.Rooks|w.Queens|k.Pawns|k.Rooks|k.Queens != 0 {
		return false
	}
	knights := bits.OnesCount64(w.Knights | k.Knights)
	bishops := w.Bishops | k.Bishops
	minors := knights + bits.OnesCount64(bishops)
	switch {
	case minors <= 1:
		return true
	case knights == 0:
		return bishops&lightSquares == 0 || bishops&^lightSquares == 0
	}
	return false
}

func (b *Board) IsThreefoldRepetition() bool {
	cur := b.keys[len(b.keys)-1]
	n := 0
	for _, k := range b.keys {
		if k == cur {
			n++
		}
	}
	return n >= 3
}

func (b *Board) isFiftyMoves() bool { return b.db.Halfmoveclock >= 100 }

func (b *Board) IsDraw() bool {
	return b.isFiftyMoves() || b.IsStalemate() || b.IsInsufficientMaterial() || b.IsThreefoldRepetition()
}

func (b *Board) IsGameOver() bool {
	if b.moveCount() == 0 {
		return true
	}
	return b.isFiftyMoves() || b.IsInsufficientMaterial() || b.IsThreefoldRepetition()
}

// Status reports the first terminal condition that holds, in the order
// checkmate, stalemate, insufficient material, repetition, fifty moves.
func (b *Board) Status() Status {
	if b.moveCount() == 0 {
		if b.InCheck() {
			return StatusCheckmate
		}
		return StatusStalemate
	}
	switch {
	case b.IsInsufficientMaterial():
		return StatusInsufficientMaterial
	case b.IsThreefoldRepetition():
		return StatusThreefoldRepetition
	case b.isFiftyMoves():
		return StatusDraw
	}
	return StatusPlaying
}
