package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/liorion-nguyen/chess-master-app/rules"
)

// node is a synthetic game tree with scores on every node.
type node struct {
	children []*node
	value    Score
}

func randomTree(r *rand.Rand, depth int) *node {
	n := &node{value: Score(r.Intn(41) - 20)}
	if depth == 0 || (depth < 3 && r.Intn(5) == 0) {
		return n
	}
	for i := 0; i < 1+r.Intn(4); i++ {
		n.children = append(n.children, randomTree(r, depth-1))
	}
	return n
}

// exhaustive is plain minimax without pruning.
func exhaustive(n *node, depth int, maximizing bool) Score {
	if depth == 0 || len(n.children) == 0 {
		return n.value
	}
	best := exhaustive(n.children[0], depth-1, !maximizing)
	for _, c := range n.children[1:] {
		v := exhaustive(c, depth-1, !maximizing)
		if (maximizing && v > best) || (!maximizing && v < best) {
			best = v
		}
	}
	return best
}

// treePos walks a node tree through the Position contract. The root has
// Black to move. Apply fails on entering a node at depth failDepth.
type treePos struct {
	path      []*node
	moves     []int
	failDepth int
	applied   int
}

func newTreePos(root *node) *treePos { return &treePos{path: []*node{root}, failDepth: -1} }

func (p *treePos) cur() *node { return p.path[len(p.path)-1] }

func leafValue(pos rules.Position) Score { return pos.(*treePos).cur().value }

func (p *treePos) LegalMoves() []rules.Move {
	out := make([]rules.Move, len(p.cur().children))
	for i := range out {
		out[i] = rules.Move{From: 63, To: rules.Square(i), Color: p.Turn()}
	}
	return out
}

func (p *treePos) LegalMovesFrom(sq rules.Square) []rules.Move {
	if sq != 63 {
		return nil
	}
	return p.LegalMoves()
}

func (p *treePos) Apply(m rules.Move) (rules.Move, error) {
	i := int(m.To)
	if m.From != 63 || i >= len(p.cur().children) {
		return rules.NullMove, fmt.Errorf("%w: %v", rules.ErrInvalidMove, m)
	}
	if len(p.path) == p.failDepth {
		return rules.NullMove, fmt.Errorf("%w: refused %v", rules.ErrInvalidMove, m)
	}
	p.path = append(p.path, p.cur().children[i])
	p.moves = append(p.moves, i)
	p.applied++
	return m, nil
}

func (p *treePos) Undo() (rules.Move, error) {
	if len(p.moves) == 0 {
		return rules.NullMove, rules.ErrNothingToUndo
	}
	i := p.moves[len(p.moves)-1]
	p.path = p.path[:len(p.path)-1]
	p.moves = p.moves[:len(p.moves)-1]
	return rules.Move{From: 63, To: rules.Square(i)}, nil
}

func (p *treePos) IsGameOver() bool             { return len(p.cur().children) == 0 }
func (p *treePos) IsCheckmate() bool            { return false }
func (p *treePos) IsDraw() bool                 { return false }
func (p *treePos) IsStalemate() bool            { return false }
func (p *treePos) IsInsufficientMaterial() bool { return false }
func (p *treePos) IsThreefoldRepetition() bool  { return false }
func (p *treePos) InCheck() bool                { return false }

func (p *treePos) Get(rules.Square) (rules.Piece, bool) { return rules.Piece{}, false }

func (p *treePos) Turn() rules.Color {
	if len(p.moves)%2 == 0 {
		return rules.Black
	}
	return rules.White
}

func (p *treePos) FEN() string {
	parts := make([]string, len(p.moves))
	for i, m := range p.moves {
		parts[i] = fmt.Sprint(m)
	}
	return "tree:" + strings.Join(parts, ".")
}

func (p *treePos) Clone() rules.Position {
	return &treePos{
		path:      append([]*node(nil), p.path...),
		moves:     append([]int(nil), p.moves...),
		failDepth: p.failDepth,
	}
}

func (p *treePos) Notate(m rules.Move) rules.Move {
	m.SAN = fmt.Sprintf("c%d", m.To)
	return m
}

var _ rules.Position = (*treePos)(nil)
