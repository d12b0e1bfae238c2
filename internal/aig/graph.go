package aig

import (
	"fmt"

	"github.com/vk/burstcut/internal/ownership"
)

type kind uint8

const (
	kindConst kind = iota
	kindPI
	kindAnd
)

type node struct {
	fanins [2]Signal
	fanout uint32
	level  uint32
	input  uint32 // position in the PI table
	kind   kind
}

// Graph is an And-Inverter Graph with structural hashing.
type Graph struct {
	nodes   []node
	inputs  []Node
	outputs []Signal
	strash  map[[2]Signal]Node
	marks   *ownership.Table
	depth   uint32
}

// New creates a graph holding only the constant node.
func New() *Graph {
	return NewCap(128)
}

// maxCapHint bounds what NewCap reserves up front; larger graphs grow on
// demand.
const maxCapHint = 1 << 20

// NewCap creates a graph with initial room for capHint nodes.
func NewCap(capHint int) *Graph {
	capHint = min(max(capHint, 1), maxCapHint)
	g := &Graph{
		nodes:  make([]node, 0, capHint),
		strash: make(map[[2]Signal]Node, capHint),
		marks:  ownership.NewTable(capHint),
	}
	g.newNode(node{kind: kindConst})
	return g
}

func (g *Graph) newNode(n node) Node {
	id := Node(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.marks.Grow(len(g.nodes))
	return id
}

func (g *Graph) at(n Node) *node {
	if int(n) >= len(g.nodes) {
		panic(fmt.Sprintf("aig: node %d out of range [0,%d)", n, len(g.nodes)))
	}
	return &g.nodes[n]
}

// Constant returns the constant signal with the given value.
func (g *Graph) Constant(value bool) Signal {
	if value {
		return True
	}
	return False
}

// CreatePI appends a primary input.
func (g *Graph) CreatePI() Signal {
	n := g.newNode(node{kind: kindPI, input: uint32(len(g.inputs))})
	g.inputs = append(g.inputs, n)
	return Signal{Node: n}
}

// CreatePO registers s as a primary output and returns its output index.
func (g *Graph) CreatePO(s Signal) int {
	m := g.at(s.Node)
	m.fanout++
	if m.level > g.depth {
		g.depth = m.level
	}
	g.outputs = append(g.outputs, s)
	return len(g.outputs) - 1
}

// CreateAnd returns a signal equivalent to a AND b. Operands are ordered by
// node and the trivial cases are folded, so structurally equal requests
// return the existing node.
func (g *Graph) CreateAnd(a, b Signal) Signal {
	g.at(a.Node)
	g.at(b.Node)
	if a.Node > b.Node {
		a, b = b, a
	}
	if a.Node == b.Node {
		if a.Complement == b.Complement {
			return a
		}
		return False
	}
	if a.Node == ConstNode {
		if a.Complement {
			return b
		}
		return False
	}

	key := [2]Signal{a, b}
	if n, ok := g.strash[key]; ok {
		return Signal{Node: n}
	}

	la, lb := g.nodes[a.Node].level, g.nodes[b.Node].level
	n := g.newNode(node{fanins: key, kind: kindAnd, level: 1 + max(la, lb)})
	g.strash[key] = n
	g.nodes[a.Node].fanout++
	g.nodes[b.Node].fanout++
	return Signal{Node: n}
}

// CreateNot returns the complement of s.
func (g *Graph) CreateNot(s Signal) Signal {
	return s.Not()
}

// CreateOr returns a signal equivalent to a OR b.
func (g *Graph) CreateOr(a, b Signal) Signal {
	return g.CreateAnd(a.Not(), b.Not()).Not()
}

// CreateXor returns a signal equivalent to a XOR b.
func (g *Graph) CreateXor(a, b Signal) Signal {
	return g.CreateOr(g.CreateAnd(a, b.Not()), g.CreateAnd(a.Not(), b))
}

// CreateAnds folds CreateAnd over ss. It returns True for no operands.
func (g *Graph) CreateAnds(ss ...Signal) Signal {
	acc := True
	for _, s := range ss {
		acc = g.CreateAnd(acc, s)
	}
	return acc
}

// Size returns the number of nodes, the constant included.
func (g *Graph) Size() int { return len(g.nodes) }

// NumPIs returns the number of primary inputs.
func (g *Graph) NumPIs() int { return len(g.inputs) }

// NumPOs returns the number of primary outputs.
func (g *Graph) NumPOs() int { return len(g.outputs) }

// NumGates returns the number of AND nodes.
func (g *Graph) NumGates() int { return len(g.nodes) - len(g.inputs) - 1 }

// Depth returns the largest level of any primary output.
func (g *Graph) Depth() uint32 { return g.depth }

// IsConstant reports whether n is the constant node.
func (g *Graph) IsConstant(n Node) bool { return g.at(n).kind == kindConst }

// IsPI reports whether n is a primary input.
func (g *Graph) IsPI(n Node) bool { return g.at(n).kind == kindPI }

// IsAnd reports whether n is an AND gate.
func (g *Graph) IsAnd(n Node) bool { return g.at(n).kind == kindAnd }

// FaninSize is 2 for AND gates and 0 for inputs and the constant.
func (g *Graph) FaninSize(n Node) int {
	if g.at(n).kind == kindAnd {
		return 2
	}
	return 0
}

// Fanin returns fanin slot 0 or 1 of an AND gate.
func (g *Graph) Fanin(n Node, slot int) Signal {
	m := g.at(n)
	if m.kind != kindAnd {
		panic(fmt.Sprintf("aig: node %d has no fanins", n))
	}
	return m.fanins[slot]
}

// ForeachFanin calls fn on each fanin of n until fn returns false.
func (g *Graph) ForeachFanin(n Node, fn func(Signal) bool) {
	m := g.at(n)
	if m.kind != kindAnd {
		return
	}
	if !fn(m.fanins[0]) {
		return
	}
	fn(m.fanins[1])
}

// FanoutSize returns the number of edges and outputs that reference n.
func (g *Graph) FanoutSize(n Node) uint32 { return g.at(n).fanout }

// Level returns the length of the longest path from an input to n.
func (g *Graph) Level(n Node) uint32 { return g.at(n).level }

// ForeachNode visits nodes in topological order until fn returns false.
func (g *Graph) ForeachNode(fn func(Node) bool) {
	for i := range g.nodes {
		if !fn(Node(i)) {
			return
		}
	}
}

// Input returns the node of the i'th primary input.
func (g *Graph) Input(i int) Node { return g.inputs[i] }

// InputIndex returns the PI table position of n, or -1.
func (g *Graph) InputIndex(n Node) int {
	m := g.at(n)
	if m.kind != kindPI {
		return -1
	}
	return int(m.input)
}

// Output returns the i'th primary output.
func (g *Graph) Output(i int) Signal { return g.outputs[i] }

// Inputs returns a copy of the PI table.
func (g *Graph) Inputs() []Node {
	return append([]Node(nil), g.inputs...)
}

// Outputs returns a copy of the PO table.
func (g *Graph) Outputs() []Signal {
	return append([]Signal(nil), g.outputs...)
}

// Marks exposes the ownership table backing the graph's node marks.
func (g *Graph) Marks() *ownership.Table { return g.marks }

// Traversal returns the claim capability of id on this graph.
func (g *Graph) Traversal(id ownership.ID) ownership.Traversal {
	return g.marks.Traversal(id)
}

// Claim marks n as owned by id. See ownership.Table.TryAcquire.
func (g *Graph) Claim(n Node, id ownership.ID) bool {
	return g.marks.TryAcquire(uint32(n), id)
}

// Release clears the mark of n if id holds it.
func (g *Graph) Release(n Node, id ownership.ID) {
	g.marks.Release(uint32(n), id)
}

// Owner returns the current mark of n.
func (g *Graph) Owner(n Node) ownership.ID {
	return g.marks.Owner(uint32(n))
}
