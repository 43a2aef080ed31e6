package rules

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

func toNotnilPiece(pt PieceType) chess.PieceType {
	switch pt {
	case Queen:
		return chess.Queen
	case Rook:
		return chess.Rook
	case Bishop:
		return chess.Bishop
	case Knight:
		return chess.Knight
	}
	return chess.NoPieceType
}

func fromNotnilPiece(pt chess.PieceType) PieceType {
	switch pt {
	case chess.Queen:
		return Queen
	case chess.Rook:
		return Rook
	case chess.Bishop:
		return Bishop
	case chess.Knight:
		return Knight
	}
	return NoPieceType
}

func newNotnilGame(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return chess.NewGame(opt), nil
}

func findNotnilMove(pos *chess.Position, m Move) *chess.Move {
	promo := toNotnilPiece(m.Promotion)
	for _, cm := range pos.ValidMoves() {
		if Square(cm.S1()) == m.From && Square(cm.S2()) == m.To && cm.Promo() == promo {
			return cm
		}
	}
	return nil
}

// Notate returns m with SAN for the current position. Moves the notation
// library does not recognise fall back to UCI form.
func (b *Board) Notate(m Move) Move {
	g, err := newNotnilGame(b.FEN())
	if err != nil {
		m.SAN = m.String()
		return m
	}
	pos := g.Position()
	if cm := findNotnilMove(pos, m); cm != nil {
		m.SAN = chess.AlgebraicNotation{}.Encode(pos, cm)
	} else {
		m.SAN = m.String()
	}
	return m
}

// ParseSAN decodes standard algebraic notation ("Nf3", "exd5", "O-O",
// "e8=Q+") into the matching legal move.
func (b *Board) ParseSAN(san string) (Move, error) {
	g, err := newNotnilGame(b.FEN())
	if err != nil {
		return NullMove, err
	}
	pos := g.Position()
	cm, err := chess.AlgebraicNotation{}.Decode(pos, strings.TrimSpace(san))
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, san)
	}
	lm, ok := b.resolve(Move{From: Square(cm.S1()), To: Square(cm.S2()), Promotion: fromNotnilPiece(cm.Promo())})
	if !ok {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, san)
	}
	lm.SAN = chess.AlgebraicNotation{}.Encode(pos, cm)
	return lm, nil
}

// SameSAN compares two SAN strings ignoring check, mate and annotation marks.
func SameSAN(a, b string) bool {
	return stripSAN(a) == stripSAN(b)
}

func stripSAN(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "+#!?")
}

// replay rebuilds the applied moves on a notation game.
func (b *Board) replay() (*chess.Game, []string, error) {
	g, err := newNotnilGame(b.start)
	if err != nil {
		return nil, nil, err
	}
	sans := make([]string, 0, len(b.frames))
	for _, f := range b.frames {
		pos := g.Position()
		cm := findNotnilMove(pos, f.move)
		if cm == nil {
			return nil, nil, fmt.Errorf("%w: replay of %s", ErrInvalidMove, f.move)
		}
		sans = append(sans, chess.AlgebraicNotation{}.Encode(pos, cm))
		if err := g.Move(cm); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
	}
	return g, sans, nil
}

// History lists the SAN of every move applied since the last load.
func (b *Board) History() []string {
	_, sans, err := b.replay()
	if err != nil {
		out := make([]string, len(b.frames))
		for i, f := range b.frames {
			out[i] = f.move.String()
		}
		return out
	}
	return sans
}

// PGN renders the applied moves as a PGN movetext.
func (b *Board) PGN() (string, error) {
	g, _, err := b.replay()
	if err != nil {
		return "", err
	}
	return g.String(), nil
}
