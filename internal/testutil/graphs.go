package testutil

import (
	"github.com/vk/burstcut/internal/aig"
)

// ThreeInput is the smallest graph on which two cuts can overlap:
//
//	n3 = a & b
//	n4 = b & c
//	n5 = n3 & n4 (the only output)
type ThreeInput struct {
	Graph      *aig.Graph
	A, B, C    aig.Signal
	N3, N4, N5 aig.Signal
}

// NewThreeInput builds the ThreeInput fixture.
func NewThreeInput() *ThreeInput {
	g := aig.New()
	f := &ThreeInput{Graph: g}
	f.A = g.CreatePI()
	f.B = g.CreatePI()
	f.C = g.CreatePI()
	f.N3 = g.CreateAnd(f.A, f.B)
	f.N4 = g.CreateAnd(f.B, f.C)
	f.N5 = g.CreateAnd(f.N3, f.N4)
	g.CreatePO(f.N5)
	return f
}

// BalancedTree builds an AND tree over width inputs (a power of two) and
// returns the graph and its root.
func BalancedTree(width int) (*aig.Graph, aig.Signal) {
	g := aig.New()
	level := make([]aig.Signal, width)
	for i := range level {
		level[i] = g.CreatePI()
	}
	for len(level) > 1 {
		next := make([]aig.Signal, 0, len(level)/2)
		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, g.CreateAnd(level[i], level[i+1]))
		}
		level = next
	}
	g.CreatePO(level[0])
	return g, level[0]
}

// CoveredBy reports whether every path from root down to an input passes
// through a leaf, i.e. whether leaves form a cut of root.
func CoveredBy(g *aig.Graph, root aig.Node, leaves []aig.Node) bool {
	isLeaf := make(map[aig.Node]bool, len(leaves))
	for _, l := range leaves {
		isLeaf[l] = true
	}
	seen := make(map[aig.Node]bool)
	stack := []aig.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] || isLeaf[n] || g.IsConstant(n) {
			continue
		}
		seen[n] = true
		if g.IsPI(n) {
			return false
		}
		g.ForeachFanin(n, func(s aig.Signal) bool {
			stack = append(stack, s.Node)
			return true
		})
	}
	return true
}

// Unowned reports whether no node of g carries an ownership mark.
func Unowned(g *aig.Graph) bool {
	clean := true
	g.ForeachNode(func(n aig.Node) bool {
		clean = g.Owner(n) == 0
		return clean
	})
	return clean
}
