package rules

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// Color is the side that owns a piece or is to move.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == Black {
		return "b"
	}
	return "w"
}

// Name returns "White" or "Black".
func (c Color) Name() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "w", "white":
		*c = White
	case "b", "black":
		*c = Black
	default:
		return fmt.Errorf("rules: unknown color %q", text)
	}
	return nil
}

// PieceType is a colorless piece kind. The numbering follows dragontoothmg so
// conversions are plain casts.
type PieceType uint8

const (
	NoPieceType PieceType = PieceType(dragontoothmg.Nothing)
	Pawn        PieceType = PieceType(dragontoothmg.Pawn)
	Knight      PieceType = PieceType(dragontoothmg.Knight)
	Bishop      PieceType = PieceType(dragontoothmg.Bishop)
	Rook        PieceType = PieceType(dragontoothmg.Rook)
	Queen       PieceType = PieceType(dragontoothmg.Queen)
	King        PieceType = PieceType(dragontoothmg.King)
)

var pieceTypeLetters = [...]string{"", "p", "n", "b", "r", "q", "k"}

func (pt PieceType) String() string {
	if int(pt) < len(pieceTypeLetters) {
		return pieceTypeLetters[pt]
	}
	return "?"
}

// ParsePieceType accepts a single letter (p, n, b, r, q, k), either case.
// The empty string is NoPieceType.
func ParsePieceType(s string) (PieceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return NoPieceType, nil
	}
	for i, l := range pieceTypeLetters {
		if i > 0 && l == s {
			return PieceType(i), nil
		}
	}
	return NoPieceType, fmt.Errorf("rules: unknown piece type %q", s)
}

func (pt PieceType) MarshalText() ([]byte, error) { return []byte(pt.String()), nil }

func (pt *PieceType) UnmarshalText(text []byte) error {
	v, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*pt = v
	return nil
}

// Piece is a typed, colored piece.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Symbol returns the FEN letter, uppercase for White.
func (p Piece) Symbol() string {
	s := p.Type.String()
	if p.Color == White {
		return strings.ToUpper(s)
	}
	return s
}

// Square indexes the board from a1 (0) to h8 (63), file-major within a rank.
type Square uint8

const NoSquare Square = 64

// ParseSquare converts algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}

// MustSquare is ParseSquare for literals; it panics on bad input.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

func (sq Square) File() int { return int(sq) % 8 }
func (sq Square) Rank() int { return int(sq) / 8 }

func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

func (sq Square) MarshalText() ([]byte, error) { return []byte(sq.String()), nil }

func (sq *Square) UnmarshalText(text []byte) error {
	v, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*sq = v
	return nil
}

func (sq Square) bit() uint64 { return uint64(1) << uint(sq) }

// Move identifies a source square, a destination square and an optional
// promotion. Color is the side that made it and SAN its algebraic notation,
// when known.
type Move struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
	Color     Color     `json:"color"`
	SAN       string    `json:"san,omitempty"`

	// native encoding and the key of the position that produced it
	raw dragontoothmg.Move
	key uint64
}

// NullMove is the zero move; it is never legal.
var NullMove Move

// IsNull reports whether m is the zero move.
func (m Move) IsNull() bool { return m.From == 0 && m.To == 0 }

// Equal compares squares and promotion only.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String renders UCI coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	return m.From.String() + m.To.String() + m.Promotion.String()
}

// Placement puts a piece on a square; used to load a position from a list.
type Placement struct {
	Square Square `json:"square"`
	Piece  Piece  `json:"piece"`
}

// Status is the terminal state of a position.
type Status uint8

const (
	StatusPlaying Status = iota
	StatusCheckmate
	StatusStalemate
	StatusInsufficientMaterial
	StatusThreefoldRepetition
	StatusDraw
)

var statusNames = [...]string{
	StatusPlaying:              "playing",
	StatusCheckmate:            "checkmate",
	StatusStalemate:            "stalemate",
	StatusInsufficientMaterial: "insufficient_material",
	StatusThreefoldRepetition:  "threefold_repetition",
	StatusDraw:                 "draw",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("rules: unknown status %q", text)
}
