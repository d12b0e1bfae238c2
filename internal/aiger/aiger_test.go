package aiger

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/burstcut/internal/aig"
	"github.com/vk/burstcut/internal/gen"
)

const threeInput = `aag 6 3 0 1 3
2
4
6
12
12 8 10
8 2 4
10 4 6
i0 a
i1 b
o0 f
c
anything goes here
`

func TestReadAscii_OutOfOrderDefinitions(t *testing.T) {
	f, err := ReadAscii(strings.NewReader(threeInput))
	require.NoError(t, err)

	g := f.Graph
	assert.Equal(t, 3, g.NumPIs())
	assert.Equal(t, 3, g.NumGates())
	require.Len(t, f.Outputs, 1)
	assert.Equal(t, uint32(2), g.Level(f.Outputs[0].Node))
	assert.Equal(t, map[int]string{0: "a", 1: "b"}, f.InputNames)
	assert.Equal(t, map[int]string{0: "f"}, f.OutputNames)

	// b is shared by both level-one gates.
	assert.Equal(t, uint32(2), g.FanoutSize(f.Inputs[1].Node))
}

func TestReadAscii_ConstantsAndNegation(t *testing.T) {
	const src = "aag 3 2 0 2 1\n2\n4\n7\n1\n6 3 4\n"
	f, err := ReadAscii(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, f.Outputs, 2)
	assert.True(t, f.Outputs[0].Complement)
	assert.Equal(t, aig.True, f.Outputs[1])
	assert.Equal(t, f.Inputs[0].Not(), f.Graph.Fanin(f.Outputs[0].Node, 0))
}

func TestReadAscii_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"bad magic", "aig 1 1 0 0 0\n2\n", ErrBadHeader},
		{"short header", "aag 1 1 0\n", ErrBadHeader},
		{"M too small", "aag 1 1 0 0 1\n2\n", ErrBadHeader},
		{"latches", "aag 1 0 1 0 0\n2 3\n", ErrLatches},
		{"undefined", "aag 3 1 0 1 1\n2\n4\n4 2 6\n", ErrUndefinedLit},
		{"loop", "aag 2 0 0 1 2\n2\n2 4 1\n4 2 1\n", ErrCombLoop},
		{"negated input", "aag 1 1 0 0 0\n3\n", ErrSignedDef},
		{"and twice", "aag 3 1 0 0 2\n2\n4 2 2\n4 2 3\n", ErrMultiplyDef},
		{"negated and", "aag 2 1 0 0 1\n2\n5 2 2\n", ErrSignedDef},
		{"properties", "aag 1 1 0 0 0 1 0 0 0\n2\n", ErrLatches},
		{"huge M", "aag 400000000 0 0 0 0\n", ErrTooLarge},
		{"empty", "", ErrPrematureEOF},
		{"out of bounds", "aag 1 1 0 1 0\n2\n8\n", ErrLitOutOfBounds},
		{"not a number", "aag 1 1 0 0 0\nx\n", ErrBadLiteral},
		{"truncated", "aag 3 2 0 1 1\n2\n4\n6\n", ErrPrematureEOF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadAscii(strings.NewReader(tc.src))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReadAscii_SparseHeaderEmptyBody(t *testing.T) {
	f, err := ReadAscii(strings.NewReader("aag 100000 0 0 0 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.Graph.Size())
	assert.Empty(t, f.Inputs)
	assert.Empty(t, f.Outputs)
}

func TestReadAscii_ZeroPropertyCounts(t *testing.T) {
	f, err := ReadAscii(strings.NewReader("aag 3 2 0 1 1 0 0 0 0\n2\n4\n6\n6 2 4\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.Graph.NumGates())
	assert.Equal(t, []aig.Signal{f.Graph.Outputs()[0]}, f.Outputs)
}

func simulateOutputs(g *aig.Graph, outs []aig.Signal, pattern []uint64) []uint64 {
	vs := make([]uint64, g.Size())
	for i, n := range g.Inputs() {
		vs[n] = pattern[i]
	}
	g.Eval64(vs)
	res := make([]uint64, len(outs))
	for i, o := range outs {
		res[i] = aig.Value64(vs, o)
	}
	return res
}

func TestWriteAscii_RoundTrip(t *testing.T) {
	src := gen.Random(10, 400, 6, 5)

	var buf bytes.Buffer
	require.NoError(t, WriteAscii(&buf, src))

	f, err := ReadAscii(&buf)
	require.NoError(t, err)
	dst := f.Graph

	assert.Equal(t, src.NumPIs(), dst.NumPIs())
	assert.Equal(t, src.NumPOs(), dst.NumPOs())
	assert.Equal(t, src.NumGates(), dst.NumGates())

	r := rand.New(rand.NewSource(9))
	pattern := make([]uint64, src.NumPIs())
	for i := range pattern {
		pattern[i] = r.Uint64()
	}
	assert.Equal(t,
		simulateOutputs(src, src.Outputs(), pattern),
		simulateOutputs(dst, f.Outputs, pattern))
}
