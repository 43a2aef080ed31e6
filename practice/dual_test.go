package practice

import (
	"context"
	"errors"
	"testing"

	"github.com/liorion-nguyen/chess-master-app/rules"
)

func newItalian(t *testing.T) *GuidedDual {
	t.Helper()
	g, err := NewGuidedDual("",
		[]string{"e4", "Nf3", "Bc4", "O-O", "d3", "c3"},
		[]string{"e5", "Nc6", "Be7", "Nf6", "d6", "O-O"},
		quiet()...)
	if err != nil {
		t.Fatalf("NewGuidedDual: %v", err)
	}
	return g
}

func TestGuidedDualAlternates(t *testing.T) {
	ctx := context.Background()
	g := newItalian(t)

	if s := g.Snapshot(); s.Phase != phaseWaitingWhite || s.NextExpected != "e4" {
		t.Fatalf("start: phase %s next %q", s.Phase, s.NextExpected)
	}
	if s, _ := g.Select(sq("e7")); s.Selected != nil {
		t.Fatalf("black piece selectable on White's turn")
	}
	snap, err := g.Move(ctx, sq("e2"), sq("e4"), rules.NoPieceType)
	if err != nil {
		t.Fatalf("e4: %v", err)
	}
	if snap.Phase != phaseWaitingBlack || snap.WhiteStep != 1 || snap.NextExpected != "e5" {
		t.Fatalf("after e4: phase %s whiteStep %d next %q", snap.Phase, snap.WhiteStep, snap.NextExpected)
	}
	if _, err := g.Move(ctx, sq("d2"), sq("d4"), rules.NoPieceType); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("white move on Black's turn: %v", err)
	}

	before := g.FEN()
	_, err = g.PlaySAN(ctx, "d5")
	var mistake *MistakeError
	if !errors.As(err, &mistake) || mistake.Side != rules.Black || mistake.Expected != "e5" {
		t.Fatalf("d5 error = %v", err)
	}
	if g.FEN() != before {
		t.Fatalf("mistake not taken back")
	}

	g.Select(sq("e7"))
	if snap, err = g.MoveTo(ctx, sq("e5")); err != nil {
		t.Fatalf("e5: %v", err)
	}
	if snap.BlackStep != 1 || snap.Step != 2 || snap.Steps != 12 {
		t.Fatalf("after e5: step %d of %d, black %d", snap.Step, snap.Steps, snap.BlackStep)
	}
}

func TestGuidedDualUndo(t *testing.T) {
	ctx := context.Background()
	g := newItalian(t)
	for _, san := range []string{"e4", "e5", "Nf3"} {
		if _, err := g.PlaySAN(ctx, san); err != nil {
			t.Fatalf("%s: %v", san, err)
		}
	}
	snap, err := g.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if snap.WhiteStep != 1 || snap.BlackStep != 1 || snap.Phase != phaseWaitingWhite {
		t.Fatalf("after undo of Nf3: white %d black %d phase %s", snap.WhiteStep, snap.BlackStep, snap.Phase)
	}
	if snap, _ = g.Undo(); snap.BlackStep != 0 || snap.WhiteStep != 1 {
		t.Fatalf("after undo of e5: white %d black %d", snap.WhiteStep, snap.BlackStep)
	}
	if h, err := g.Hint(); err != nil || h.String() != "e7e5" {
		t.Fatalf("Hint = %v, %v, want e7e5", h, err)
	}
}

func TestGuidedDualComplete(t *testing.T) {
	ctx := context.Background()
	g := newItalian(t)
	var snap Snapshot
	var err error
	for _, san := range []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Be7", "O-O", "Nf6", "d3", "d6", "c3", "O-O"} {
		if snap, err = g.PlaySAN(ctx, san); err != nil {
			t.Fatalf("%s: %v", san, err)
		}
	}
	if !snap.Complete || snap.Phase != phaseCompleted {
		t.Fatalf("complete=%v phase=%s", snap.Complete, snap.Phase)
	}
	if snap.Progress != (Progress{White: 100, Black: 100, Total: 100}) {
		t.Fatalf("progress = %+v", snap.Progress)
	}
	if _, err := g.Hint(); !errors.Is(err, ErrLessonComplete) {
		t.Fatalf("Hint after completion: %v", err)
	}
	pgn, err := g.PGN()
	if err != nil || pgn == "" {
		t.Fatalf("PGN = %q, %v", pgn, err)
	}
}

func TestGuidedDualScriptExhausted(t *testing.T) {
	ctx := context.Background()
	g, err := NewGuidedDual("", []string{"e4", "d4", "Nf3"}, []string{"e5"}, quiet()...)
	if err != nil {
		t.Fatalf("NewGuidedDual: %v", err)
	}
	g.PlaySAN(ctx, "e4")
	g.PlaySAN(ctx, "e5")
	g.PlaySAN(ctx, "d4")
	_, err = g.PlaySAN(ctx, "exd4")
	var mistake *MistakeError
	if !errors.As(err, &mistake) || mistake.Expected != "" {
		t.Fatalf("move past the end of Black's script: %v", err)
	}
}
