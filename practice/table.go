package practice

import (
	"github.com/liorion-nguyen/chess-master-app/rules"
)

// table is the board state every mode shares: the position, the selected
// square with its legal targets, the last move and the SAN record.
type table struct {
	board    *rules.Board
	initial  string
	selected rules.Square
	targets  []rules.Square
	last     *rules.Move
	history  []string
}

func newTable(fen string) (*table, error) {
	if fen == "" {
		fen = rules.StartFEN
	}
	b, err := rules.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &table{board: b, initial: fen, selected: rules.NoSquare}, nil
}

func (t *table) reset() error {
	if err := t.board.Reset(t.initial); err != nil {
		return err
	}
	t.clearSelection()
	t.last = nil
	t.history = t.history[:0]
	return nil
}

func (t *table) clearSelection() {
	t.selected = rules.NoSquare
	t.targets = nil
}

// selectSquare toggles the selection. Pieces that own may not accept clear
// it; a legal target of the current selection leaves it untouched.
func (t *table) selectSquare(sq rules.Square, own func(rules.Piece) bool) {
	if t.selected == sq {
		t.clearSelection()
		return
	}
	if t.selected != rules.NoSquare && t.isTarget(sq) {
		return
	}
	p, ok := t.board.Get(sq)
	if !ok || !own(p) {
		t.clearSelection()
		return
	}
	t.selected = sq
	t.targets = t.targets[:0]
	for _, m := range t.board.LegalMovesFrom(sq) {
		if !t.isTarget(m.To) {
			t.targets = append(t.targets, m.To)
		}
	}
}

// choose replaces the selection with from for a direct move request.
func (t *table) choose(from rules.Square, own func(rules.Piece) bool) error {
	t.clearSelection()
	t.selectSquare(from, own)
	if t.selected != from {
		return ErrNoSelection
	}
	return nil
}

func (t *table) isTarget(sq rules.Square) bool {
	for _, s := range t.targets {
		if s == sq {
			return true
		}
	}
	return false
}

// playSelected moves the selected piece to `to`, promoting to promo or a
// queen when none is given.
func (t *table) playSelected(to rules.Square, promo rules.PieceType) (rules.Move, error) {
	if t.selected == rules.NoSquare {
		return rules.NullMove, ErrNoSelection
	}
	if !t.isTarget(to) {
		return rules.NullMove, ErrIllegalTarget
	}
	return t.play(rules.Move{From: t.selected, To: to, Promotion: promo})
}

// play applies m with SAN, choosing a queen for an unspecified promotion.
func (t *table) play(m rules.Move) (rules.Move, error) {
	if m.Promotion == rules.NoPieceType && t.isPromotion(m.From, m.To) {
		m.Promotion = rules.Queen
	}
	played, err := t.board.Play(m)
	if err != nil {
		return rules.NullMove, err
	}
	t.clearSelection()
	t.last = &played
	t.history = append(t.history, played.SAN)
	return played, nil
}

func (t *table) isPromotion(from, to rules.Square) bool {
	for _, m := range t.board.LegalMovesFrom(from) {
		if m.To == to && m.Promotion != rules.NoPieceType {
			return true
		}
	}
	return false
}

// undo takes back the last move of the board's own history.
func (t *table) undo() (rules.Move, error) {
	m, err := t.board.Undo()
	if err != nil {
		return rules.NullMove, err
	}
	t.clearSelection()
	t.last = nil
	if n := len(t.history); n > 0 {
		t.history = t.history[:n-1]
	}
	return m, nil
}

// isLegal reports whether any legal move goes from `from` to `to`.
func (t *table) isLegal(from, to rules.Square) bool {
	for _, m := range t.board.LegalMovesFrom(from) {
		if m.To == to {
			return true
		}
	}
	return false
}

func (t *table) piece(sq rules.Square) (rules.Piece, bool) { return t.board.Get(sq) }

// scriptedResult is the outcome text of the scripted modes.
func (t *table) scriptedResult() string {
	switch {
	case !t.board.IsGameOver():
		return ""
	case t.board.IsCheckmate():
		return t.board.Turn().Other().Name() + " wins by checkmate"
	case t.board.IsDraw():
		return "Draw"
	}
	return "Game Over"
}

// snapshot fills the fields every mode shares.
func (t *table) snapshot(mode Mode) Snapshot {
	s := Snapshot{
		Mode:     mode,
		FEN:      t.board.FEN(),
		Turn:     t.board.Turn(),
		Targets:  append([]rules.Square{}, t.targets...),
		History:  append([]string{}, t.history...),
		Status:   t.board.Status(),
		InCheck:  t.board.InCheck(),
		GameOver: t.board.IsGameOver(),
		Pieces:   t.board.Pieces(),
	}
	if t.selected != rules.NoSquare {
		sel := t.selected
		s.Selected = &sel
	}
	if t.last != nil {
		last := *t.last
		s.LastMove = &last
	}
	return s
}
