package aig

import "strconv"

// Node is a stable handle to a graph vertex.
type Node uint32

// ConstNode is the handle of the constant node.
const ConstNode Node = 0

// Signal is an edge into a node, possibly complemented.
type Signal struct {
	Node       Node
	Complement bool
}

// False and True are the two polarities of the constant node.
var (
	False = Signal{Node: ConstNode}
	True  = Signal{Node: ConstNode, Complement: true}
)

// Not returns the complement of s.
func (s Signal) Not() Signal {
	return Signal{Node: s.Node, Complement: !s.Complement}
}

// Regular returns s without complement.
func (s Signal) Regular() Signal {
	return Signal{Node: s.Node}
}

// Xor complements s if c is true.
func (s Signal) Xor(c bool) Signal {
	return Signal{Node: s.Node, Complement: s.Complement != c}
}

// Less orders signals by node, then plain before complemented.
func (s Signal) Less(o Signal) bool {
	if s.Node != o.Node {
		return s.Node < o.Node
	}
	return !s.Complement && o.Complement
}

// String renders s as its node number, prefixed by '!' when complemented.
func (s Signal) String() string {
	if s.Complement {
		return "!" + strconv.FormatUint(uint64(s.Node), 10)
	}
	return strconv.FormatUint(uint64(s.Node), 10)
}
