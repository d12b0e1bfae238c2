// Package aig provides an append-only, structurally hashed And-Inverter
// Graph whose nodes carry an ownership mark for concurrent traversals.
//
// Nodes are addressed by dense Node handles. Node 0 is the constant; primary
// inputs and AND gates follow in creation order, so every fanin of a node has
// a smaller handle than the node itself. Edges are Signals: a node plus a
// complement bit.
//
// Construction (CreatePI, CreateAnd, CreatePO) is single-writer. Once a graph
// is built, any number of goroutines may read it and claim nodes through the
// ownership protocol; the mark is the only field written after creation.
package aig
