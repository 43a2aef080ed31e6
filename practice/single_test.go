package practice

import (
	"context"
	"errors"
	"testing"

	"github.com/liorion-nguyen/chess-master-app/engine"
	"github.com/liorion-nguyen/chess-master-app/rules"
)

// quiet returns options for fast deterministic sessions.
func quiet(extra ...Option) []Option {
	return append([]Option{
		WithEngine(engine.New(engine.Deterministic())),
		WithThinkingCap(0),
		WithHumanDelay(0),
	}, extra...)
}

func sq(s string) rules.Square { return rules.MustSquare(s) }

func TestGuidedSingleSelect(t *testing.T) {
	g, err := NewGuidedSingle("", []string{"e4", "Nf3", "Bc4"}, quiet()...)
	if err != nil {
		t.Fatalf("NewGuidedSingle: %v", err)
	}
	snap, err := g.Select(sq("e2"))
	if err != nil {
		t.Fatalf("Select(e2): %v", err)
	}
	if snap.Selected == nil || *snap.Selected != sq("e2") {
		t.Fatalf("selected = %v, want e2", snap.Selected)
	}
	if len(snap.Targets) != 2 {
		t.Fatalf("targets = %v, want e3 and e4", snap.Targets)
	}

	// a target keeps the selection
	if snap, _ = g.Select(sq("e4")); snap.Selected == nil {
		t.Fatalf("selecting a target cleared the selection")
	}
	// an enemy piece clears it
	if snap, _ = g.Select(sq("e7")); snap.Selected != nil {
		t.Fatalf("black piece selected in a White-only lesson")
	}
	g.Select(sq("g1"))
	if snap, _ = g.Select(sq("g1")); snap.Selected != nil {
		t.Fatalf("second click did not toggle the selection off")
	}
}

func TestGuidedSingleScript(t *testing.T) {
	ctx := context.Background()
	g, err := NewGuidedSingle("", []string{"e4", "Nf3", "Bc4"}, quiet()...)
	if err != nil {
		t.Fatalf("NewGuidedSingle: %v", err)
	}

	g.Select(sq("e2"))
	snap, err := g.MoveTo(ctx, sq("e4"))
	if err != nil {
		t.Fatalf("MoveTo(e4): %v", err)
	}
	if snap.Step != 1 || snap.Turn != rules.White || snap.NextExpected != "Nf3" {
		t.Fatalf("after e4: step %d turn %v next %q", snap.Step, snap.Turn, snap.NextExpected)
	}
	if p, ok := g.Piece(sq("e4")); !ok || p != (rules.Piece{Type: rules.Pawn, Color: rules.White}) {
		t.Fatalf("e4 holds %v %v, want white pawn", p, ok)
	}
	afterE4 := snap.FEN

	_, err = g.Move(ctx, sq("d2"), sq("d4"), rules.NoPieceType)
	var mistake *MistakeError
	if !errors.As(err, &mistake) {
		t.Fatalf("d4 error = %v, want *MistakeError", err)
	}
	if mistake.Played != "d4" || mistake.Expected != "Nf3" || mistake.Side != rules.White {
		t.Fatalf("mistake = %+v", mistake)
	}
	if g.FEN() != afterE4 {
		t.Fatalf("mistake left the board at %s", g.FEN())
	}

	if _, err := g.Move(ctx, sq("g1"), sq("f3"), rules.NoPieceType); err != nil {
		t.Fatalf("Nf3: %v", err)
	}
	snap, err = g.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if snap.Step != 1 || snap.FEN != afterE4 || len(snap.History) != 1 {
		t.Fatalf("after undo: step %d fen %s history %v", snap.Step, snap.FEN, snap.History)
	}

	if h, err := g.Hint(); err != nil || h.String() != "g1f3" {
		t.Fatalf("Hint = %v, %v, want g1f3", h, err)
	}
	for _, san := range []string{"Nf3", "Bc4"} {
		if snap, err = g.PlaySAN(ctx, san); err != nil {
			t.Fatalf("PlaySAN(%s): %v", san, err)
		}
	}
	if !snap.Complete || snap.Phase != phaseCompleted || snap.Progress.White != 100 {
		t.Fatalf("complete=%v phase=%s progress=%v", snap.Complete, snap.Phase, snap.Progress)
	}
	if _, err := g.Select(sq("d2")); !errors.Is(err, ErrLessonComplete) {
		t.Fatalf("Select after completion: %v", err)
	}

	snap, err = g.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if snap.Step != 0 || len(snap.History) != 0 || snap.Complete {
		t.Fatalf("after reset: %+v", snap)
	}
}

func TestGuidedSingleCheckmate(t *testing.T) {
	ctx := context.Background()
	g, err := NewGuidedSingle("7k/8/6K1/8/8/8/8/5Q2 w - - 0 1", []string{"Qf7", "Qg7#"}, quiet()...)
	if err != nil {
		t.Fatalf("NewGuidedSingle: %v", err)
	}
	// Qf7 stalemates Black, which does not matter while White keeps the move.
	if _, err := g.PlaySAN(ctx, "Qf7"); err != nil {
		t.Fatalf("Qf7: %v", err)
	}
	snap, err := g.PlaySAN(ctx, "Qg7#")
	if err != nil {
		t.Fatalf("Qg7: %v", err)
	}
	if !snap.GameOver || !snap.Complete || snap.Result != "White wins by checkmate" {
		t.Fatalf("gameOver=%v complete=%v result=%q", snap.GameOver, snap.Complete, snap.Result)
	}
	if snap.Status != rules.StatusCheckmate {
		t.Fatalf("status = %v, want checkmate", snap.Status)
	}
}

func TestGuidedSingleBlackToMoveStartsWithWhite(t *testing.T) {
	g, err := NewGuidedSingle("4k3/8/8/8/8/8/4P3/4K3 b - - 0 1", []string{"e4"}, quiet()...)
	if err != nil {
		t.Fatalf("NewGuidedSingle: %v", err)
	}
	if s := g.Snapshot(); s.Turn != rules.White {
		t.Fatalf("turn = %v, want w", s.Turn)
	}
}

func TestGuidedSingleUndoAtStart(t *testing.T) {
	g, _ := NewGuidedSingle("", []string{"e4"}, quiet()...)
	if _, err := g.Undo(); !errors.Is(err, rules.ErrNothingToUndo) {
		t.Fatalf("Undo at start: %v", err)
	}
}

func TestObserverSeesChanges(t *testing.T) {
	var seen []Snapshot
	g, _ := NewGuidedSingle("", []string{"e4"}, quiet(WithObserver(func(s Snapshot) { seen = append(seen, s) }))...)
	g.Select(sq("e2"))
	g.MoveTo(context.Background(), sq("e4"))
	g.Select(sq("d2")) // lesson complete, no notification
	if len(seen) != 2 {
		t.Fatalf("observer saw %d snapshots, want 2", len(seen))
	}
	if !seen[1].Complete {
		t.Fatalf("last snapshot not complete")
	}
}
