package engine

import "github.com/liorion-nguyen/chess-master-app/rules"

// Score is a position value in pawns. Positive favours Black.
type Score float64

var pieceValues = [...]Score{
	rules.NoPieceType: 0,
	rules.Pawn:        1,
	rules.Knight:      3,
	rules.Bishop:      3,
	rules.Rook:        5,
	rules.Queen:       9,
	rules.King:        0,
}

const (
	centreBonus Score = 0.1
	checkBonus  Score = 0.5
)

var centreSquares = [...]rules.Square{
	rules.MustSquare("d4"),
	rules.MustSquare("d5"),
	rules.MustSquare("e4"),
	rules.MustSquare("e5"),
}

// Evaluate scores material, centre occupation and check. Black pieces count
// positive, White negative. A side to move that is in check shifts the score
// by half a pawn against it.
func Evaluate(pos rules.Position) Score {
	var score Score
	for sq := rules.Square(0); sq < rules.NoSquare; sq++ {
		p, ok := pos.Get(sq)
		if !ok {
			continue
		}
		if p.Color == rules.Black {
			score += pieceValues[p.Type]
		} else {
			score -= pieceValues[p.Type]
		}
	}

	for _, sq := range centreSquares {
		p, ok := pos.Get(sq)
		if !ok {
			continue
		}
		if p.Color == rules.Black {
			score += centreBonus
		} else {
			score -= centreBonus
		}
	}

	if pos.InCheck() {
		if pos.Turn() == rules.Black {
			score -= checkBonus
		} else {
			score += checkBonus
		}
	}
	return score
}
