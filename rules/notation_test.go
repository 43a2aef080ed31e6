package rules_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/liorion-nguyen/chess-master-app/rules"
)

func TestNotate(t *testing.T) {
	cases := []struct {
		fen  string
		uci  string
		want string
	}{
		{rules.StartFEN, "e2e4", "e4"},
		{rules.StartFEN, "g1f3", "Nf3"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7a8q", "a8=Q"},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", "exd5"},
	}
	for _, tc := range cases {
		b := mustFEN(t, tc.fen)
		m, err := b.ParseMove(tc.uci)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", tc.uci, err)
		}
		if got := b.Notate(m).SAN; got != tc.want {
			t.Fatalf("Notate(%s) = %q, want %q", tc.uci, got, tc.want)
		}
	}
}

func TestParseSAN(t *testing.T) {
	b := rules.NewBoard()
	m, err := b.ParseSAN("Nf3")
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != "g1f3" || m.SAN != "Nf3" {
		t.Fatalf("ParseSAN(Nf3) = %v %q", m, m.SAN)
	}
	if _, err := b.ParseSAN("Ke2"); !errors.Is(err, rules.ErrInvalidMove) {
		t.Fatalf("ParseSAN(Ke2) = %v, want ErrInvalidMove", err)
	}
}

func TestHistoryAndPGN(t *testing.T) {
	b := rules.NewBoard()
	for _, san := range []string{"e4", "e5", "Nf3", "Nc6"} {
		m, err := b.ParseSAN(san)
		if err != nil {
			t.Fatalf("ParseSAN(%s): %v", san, err)
		}
		if _, err := b.Play(m); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"e4", "e5", "Nf3", "Nc6"}
	if got := b.History(); !reflect.DeepEqual(got, want) {
		t.Fatalf("History = %v, want %v", got, want)
	}
	if got := b.Moves()[2].SAN; got != "Nf3" {
		t.Fatalf("played move SAN = %q", got)
	}
	pgn, err := b.PGN()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range want {
		if !strings.Contains(pgn, s) {
			t.Fatalf("PGN %q missing %s", pgn, s)
		}
	}
}

func TestSameSAN(t *testing.T) {
	if !rules.SameSAN("Qxf7#", "Qxf7") || !rules.SameSAN("Bb5+", "Bb5+") {
		t.Fatalf("SameSAN should ignore check marks")
	}
	if rules.SameSAN("Nf3", "Nc3") {
		t.Fatalf("different moves compared equal")
	}
}
