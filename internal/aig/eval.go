package aig

// Eval64 simulates 64 input patterns at once. vs must have Size() entries;
// the caller fills the entries of the primary inputs and Eval64 writes the
// constant and every AND gate.
func (g *Graph) Eval64(vs []uint64) {
	vs[ConstNode] = 0
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.kind != kindAnd {
			continue
		}
		vs[i] = Value64(vs, n.fanins[0]) & Value64(vs, n.fanins[1])
	}
}

// Value64 returns the simulated value of s given node values vs.
func Value64(vs []uint64, s Signal) uint64 {
	if s.Complement {
		return ^vs[s.Node]
	}
	return vs[s.Node]
}
