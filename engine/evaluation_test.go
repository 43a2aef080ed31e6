package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/liorion-nguyen/chess-master-app/rules"
)

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, s)
}

// mirrorFEN flips the board vertically and swaps colours. Castling and en
// passant are dropped.
func mirrorFEN(fen string) string {
	f := strings.Fields(fen)
	ranks := strings.Split(f[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	turn := "w"
	if f[1] == "w" {
		turn = "b"
	}
	return swapCase(strings.Join(ranks, "/")) + " " + turn + " - - 0 1"
}

func TestEvaluateValues(t *testing.T) {
	cases := []struct {
		fen  string
		want Score
	}{
		{rules.StartFEN, 0},
		{"4k3/8/8/8/3q4/8/8/4K3 w - - 0 1", 9.1},
		{"4k3/8/8/8/8/8/8/q3K3 w - - 0 1", 9.5},
		{"4k3/8/8/8/8/8/4Q3/4K3 b - - 0 1", -9.5},
		{"4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1", 0},
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", 0.6},
	}
	for _, tc := range cases {
		if got := Evaluate(mustFEN(t, tc.fen)); math.Abs(float64(got-tc.want)) > 1e-9 {
			t.Fatalf("Evaluate(%s) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestEvaluateColourSymmetry(t *testing.T) {
	for _, fen := range []string{
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w - - 2 3",
		"4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 1 3",
		"6k1/5ppp/8/8/4N3/8/5PPP/R5K1 b - - 0 1",
	} {
		a := Evaluate(mustFEN(t, fen))
		b := Evaluate(mustFEN(t, mirrorFEN(fen)))
		if math.Abs(float64(a+b)) > 1e-9 {
			t.Fatalf("Evaluate(%s) = %v, mirrored %v", fen, a, b)
		}
	}
}

func BenchmarkEvaluate(b *testing.B) {
	board := mustFEN(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(board)
	}
}
