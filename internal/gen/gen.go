// Package gen builds pseudo-random AIGs for benchmarks, tests and the CLI's
// generator mode.
package gen

import (
	"math/rand"

	"github.com/vk/burstcut/internal/aig"
)

// Random creates a graph with the given number of inputs and AND requests.
// Operands are drawn from all earlier signals with random polarity, biased
// towards recent ones so that the graph gets some depth. Structural hashing
// may fold requests, so NumGates can be smaller than gates. The last outputs
// signals created become primary outputs.
func Random(inputs, gates, outputs int, seed int64) *aig.Graph {
	return RandomFrom(inputs, gates, outputs, rand.NewSource(seed))
}

// RandomFrom is Random with an explicit source.
func RandomFrom(inputs, gates, outputs int, src rand.Source) *aig.Graph {
	r := rand.New(src)
	g := aig.NewCap(inputs + gates + 1)
	sigs := make([]aig.Signal, 0, inputs+gates)
	for i := 0; i < inputs; i++ {
		sigs = append(sigs, g.CreatePI())
	}
	if len(sigs) == 0 {
		return g
	}

	pick := func() aig.Signal {
		n := len(sigs)
		var i int
		if r.Intn(2) == 0 {
			w := min(n, 2*inputs+8)
			i = n - 1 - r.Intn(w)
		} else {
			i = r.Intn(n)
		}
		return sigs[i].Xor(r.Intn(2) == 0)
	}

	for i := 0; i < gates; i++ {
		s := g.CreateAnd(pick(), pick())
		if g.IsAnd(s.Node) {
			sigs = append(sigs, s)
		}
	}

	for i := 0; i < outputs && i < len(sigs); i++ {
		g.CreatePO(sigs[len(sigs)-1-i])
	}
	return g
}
