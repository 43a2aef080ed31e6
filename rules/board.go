package rules

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Board is the production Position, backed by dragontoothmg bitboards.
// A Board must not be copied by value once moves have been applied; use Copy.
type Board struct {
	db dragontoothmg.Board

	start  string   // FEN the history starts from
	frames []frame  // undo stack, one per applied move
	keys   []uint64 // position keys since start, current last
}

type frame struct {
	move Move
	undo func()
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// FromFEN loads a position. Four-field FEN (no clocks) is accepted.
func FromFEN(fen string) (*Board, error) {
	b := &Board{}
	if err := b.load(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// FromPieces builds a position from a piece list with no castling rights and
// no en passant square. Each side needs exactly one king.
func FromPieces(pieces []Placement, turn Color) (*Board, error) {
	var grid [64]string
	for _, p := range pieces {
		if p.Square >= NoSquare || p.Piece.Type == NoPieceType || p.Piece.Type > King {
			return nil, fmt.Errorf("%w: bad placement %v", ErrInvalidPosition, p)
		}
		if grid[p.Square] != "" {
			return nil, fmt.Errorf("%w: two pieces on %s", ErrInvalidPosition, p.Square)
		}
		grid[p.Square] = p.Piece.Symbol()
	}

	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			s := grid[rank*8+file]
			if s == "" {
				empty++
				continue
			}
			if empty > 0 {
				fmt.Fprintf(&sb, "%d", empty)
				empty = 0
			}
			sb.WriteString(s)
		}
		if empty > 0 {
			fmt.Fprintf(&sb, "%d", empty)
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	fmt.Fprintf(&sb, " %s - - 0 1", turn)
	return FromFEN(sb.String())
}

func (b *Board) load(fen string) error {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 5:
		fields = append(fields, "1")
	case 6:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFEN, fen)
	}
	clock, err := strconv.Atoi(fields[4])
	if err != nil || clock < 0 {
		return fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
	}
	if clock > 100 {
		// the generator keeps the clock in a byte; past 100 only the draw matters
		fields[4] = "100"
	}
	fen = strings.Join(fields, " ")
	if _, err := chess.FEN(fen); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	db := dragontoothmg.ParseFen(fen)
	if bits.OnesCount64(db.White.Kings) != 1 || bits.OnesCount64(db.Black.Kings) != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrInvalidPosition)
	}
	if (db.White.Pawns|db.Black.Pawns)&backRanks != 0 {
		return fmt.Errorf("%w: pawn on a back rank", ErrInvalidPosition)
	}
	if rights := castleRights(&db, fields[2]); rights != fields[2] {
		fields[2] = rights
		fen = strings.Join(fields, " ")
		db = dragontoothmg.ParseFen(fen)
	}

	ep := NoSquare
	if fields[3] != "-" {
		if ep, err = ParseSquare(fields[3]); err != nil {
			return fmt.Errorf("%w: en passant %q", ErrInvalidFEN, fields[3])
		}
	}

	b.db = db
	b.start = b.db.ToFen()
	b.frames = b.frames[:0]
	b.keys = append(b.keys[:0], b.positionKey(ep))
	return nil
}

// positionKey is the repetition key of the current position. ep is the en
// passant target left by the last move, or NoSquare. The generator folds
// that square into its hash even when no pawn can capture there; such a
// square is taken back out so the position matches its later repeats.
func (b *Board) positionKey(ep Square) uint64 {
	key := b.db.Hash()
	if ep == NoSquare || b.canCaptureEnPassant(ep) {
		return key
	}
	return key ^ uint64(ep)
}

func (b *Board) canCaptureEnPassant(ep Square) bool {
	pawns := b.db.White.Pawns
	if !b.db.Wtomove {
		pawns = b.db.Black.Pawns
	}
	raw := b.db.GenerateLegalMoves()
	for i := range raw {
		if Square(raw[i].To()) == ep && pawns&(uint64(1)<<raw[i].From()) != 0 {
			return true
		}
	}
	return false
}

// doublePushTarget returns the square a double pawn push m skips, or
// NoSquare. It must be called before m is applied.
func (b *Board) doublePushTarget(m Move) Square {
	if d := int(m.To) - int(m.From); d != 16 && d != -16 {
		return NoSquare
	}
	if (b.db.White.Pawns|b.db.Black.Pawns)&m.From.bit() == 0 {
		return NoSquare
	}
	return (m.From + m.To) / 2
}

const backRanks uint64 = 0xFF000000000000FF

// castleRights drops rights whose king or rook has left its home square.
func castleRights(db *dragontoothmg.Board, field string) string {
	home := func(bb uint64, sq string) bool { return bb&MustSquare(sq).bit() != 0 }
	var sb strings.Builder
	for _, r := range field {
		ok := false
		switch r {
		case 'K':
			ok = home(db.White.Kings, "e1") && home(db.White.Rooks, "h1")
		case 'Q':
			ok = home(db.White.Kings, "e1") && home(db.White.Rooks, "a1")
		case 'k':
			ok = home(db.Black.Kings, "e8") && home(db.Black.Rooks, "h8")
		case 'q':
			ok = home(db.Black.Kings, "e8") && home(db.Black.Rooks, "a8")
		}
		if ok {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// Copy returns an independent board. Repetition keys are carried, the undo
// history is not.
func (b *Board) Copy() *Board {
	c := &Board{db: b.db}
	c.start = c.db.ToFen()
	c.keys = append([]uint64(nil), b.keys...)
	return c
}

func (b *Board) Clone() Position { return b.Copy() }

// SetTurn hands the move to c, clearing en passant and history. Scripted
// single-side practice uses it to keep one side on move.
func (b *Board) SetTurn(c Color) error {
	fields := strings.Fields(b.FEN())
	fields[1] = c.String()
	fields[3] = "-"
	return b.load(strings.Join(fields, " "))
}

// Reset loads fen, discarding history.
func (b *Board) Reset(fen string) error {
	return b.load(fen)
}

func (b *Board) Turn() Color {
	if b.db.Wtomove {
		return White
	}
	return Black
}

func (b *Board) InCheck() bool { return b.db.OurKingInCheck() }

func (b *Board) FEN() string { return b.db.ToFen() }

// Key is the Zobrist hash of the current position.
func (b *Board) Key() uint64 { return b.db.Hash() }

// HalfmoveClock counts plies since the last capture or pawn move.
func (b *Board) HalfmoveClock() int { return int(b.db.Halfmoveclock) }

func (b *Board) Get(sq Square) (Piece, bool) {
	if sq >= NoSquare {
		return Piece{}, false
	}
	bit := sq.bit()
	switch {
	case b.db.White.All&bit != 0:
		return Piece{Type: pieceOn(&b.db.White, bit), Color: White}, true
	case b.db.Black.All&bit != 0:
		return Piece{Type: pieceOn(&b.db.Black, bit), Color: Black}, true
	}
	return Piece{}, false
}

func pieceOn(bb *dragontoothmg.Bitboards, bit uint64) PieceType {
	switch {
	case bb.Pawns&bit != 0:
		return Pawn
	case bb.Knights&bit != 0:
		return Knight
	case bb.Bishops&bit != 0:
		return Bishop
	case bb.Rooks&bit != 0:
		return Rook
	case bb.Queens&bit != 0:
		return Queen
	case bb.Kings&bit != 0:
		return King
	}
	return NoPieceType
}

// Pieces lists every occupied square from a1 to h8.
func (b *Board) Pieces() []Placement {
	out := make([]Placement, 0, 32)
	for sq := Square(0); sq < NoSquare; sq++ {
		if p, ok := b.Get(sq); ok {
			out = append(out, Placement{Square: sq, Piece: p})
		}
	}
	return out
}

func (b *Board) enemyKing() uint64 {
	if b.db.Wtomove {
		return b.db.Black.Kings
	}
	return b.db.White.Kings
}

// LegalMoves returns the legal moves in generator order. Captures of the
// enemy king, only reachable after a forced turn change, are left out.
func (b *Board) LegalMoves() []Move {
	return b.legal(NoSquare)
}

func (b *Board) LegalMovesFrom(sq Square) []Move {
	if sq >= NoSquare {
		return nil
	}
	return b.legal(sq)
}

func (b *Board) legal(from Square) []Move {
	raw := b.db.GenerateLegalMoves()
	moves := make([]Move, 0, len(raw))
	king := b.enemyKing()
	key := b.db.Hash()
	color := b.Turn()
	for i := range raw {
		rm := &raw[i]
		if king&(uint64(1)<<rm.To()) != 0 {
			continue
		}
		if from != NoSquare && Square(rm.From()) != from {
			continue
		}
		moves = append(moves, Move{
			From:      Square(rm.From()),
			To:        Square(rm.To()),
			Promotion: PieceType(rm.Promote()),
			Color:     color,
			raw:       *rm,
			key:       key,
		})
	}
	return moves
}

// moveCount is LegalMoves without building Move values.
func (b *Board) moveCount() int {
	raw := b.db.GenerateLegalMoves()
	king := b.enemyKing()
	n := 0
	for i := range raw {
		if king&(uint64(1)<<raw[i].To()) == 0 {
			n++
		}
	}
	return n
}

// resolve finds the legal move matching m's squares and promotion.
func (b *Board) resolve(m Move) (Move, bool) {
	if b.trusted(m) {
		return m, true
	}
	for _, lm := range b.legal(m.From) {
		if lm.Equal(m) {
			lm.SAN = m.SAN
			return lm, true
		}
	}
	return NullMove, false
}

func (b *Board) trusted(m Move) bool {
	return m.raw != 0 && m.key == b.db.Hash() &&
		Square(m.raw.From()) == m.From && Square(m.raw.To()) == m.To &&
		PieceType(m.raw.Promote()) == m.Promotion
}

// Apply plays m, which must be legal in the current position.
func (b *Board) Apply(m Move) (Move, error) {
	lm, ok := b.resolve(m)
	if !ok {
		return NullMove, fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}
	ep := b.doublePushTarget(lm)
	undo := b.db.Apply(lm.raw)
	b.frames = append(b.frames, frame{move: lm, undo: undo})
	b.keys = append(b.keys, b.positionKey(ep))
	return lm, nil
}

// Play is Apply with the move's SAN filled in.
func (b *Board) Play(m Move) (Move, error) {
	lm, ok := b.resolve(m)
	if !ok {
		return NullMove, fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}
	return b.Apply(b.Notate(lm))
}

func (b *Board) Undo() (Move, error) {
	n := len(b.frames)
	if n == 0 {
		return NullMove, ErrNothingToUndo
	}
	f := b.frames[n-1]
	f.undo()
	b.frames = b.frames[:n-1]
	b.keys = b.keys[:len(b.keys)-1]
	return f.move, nil
}

// Moves returns the applied moves since the last load, oldest first.
func (b *Board) Moves() []Move {
	out := make([]Move, len(b.frames))
	for i, f := range b.frames {
		out[i] = f.move
	}
	return out
}

// ParseMove reads UCI coordinate notation ("e2e4", "e7e8q") and returns the
// matching legal move.
func (b *Board) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	promo, err := ParsePieceType(s[4:])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	lm, ok := b.resolve(Move{From: from, To: to, Promotion: promo})
	if !ok {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	return lm, nil
}
