package cut

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/burstcut/internal/aig"
	"github.com/vk/burstcut/internal/gen"
	"github.com/vk/burstcut/internal/ownership"
	"github.com/vk/burstcut/internal/testutil"
)

func requireOwnedBy(t *testing.T, g *aig.Graph, c *Cut, id ownership.ID) {
	t.Helper()
	for _, n := range c.Nodes() {
		require.Equal(t, id, g.Owner(n), "leaf %d of %s", n, c)
	}
	for _, cl := range c.Claims() {
		require.Equal(t, id, cl.Owner())
	}
}

func TestCompute_ThreeInput(t *testing.T) {
	f := testutil.NewThreeInput()
	g := f.Graph

	c := Compute(g, f.N5.Node, 1, DefaultOptions())

	want := []aig.Node{f.B.Node, f.A.Node, f.C.Node}
	if diff := cmp.Diff(want, c.Nodes()); diff != "" {
		t.Fatalf("cut mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "{ 2 1 3 }", c.String())
	assert.Equal(t, f.N5.Node, c.Seed())
	assert.Equal(t, ownership.ID(1), c.Owner())
	assert.True(t, c.Stats().Trivial)
	assert.False(t, c.Stats().Bounded)
	assert.Equal(t, 2, c.Stats().Iterations)
	assert.True(t, Trivial(g, c.Nodes()))
	assert.True(t, testutil.CoveredBy(g, f.N5.Node, c.Nodes()))
	requireOwnedBy(t, g, c, 1)

	for _, s := range []aig.Signal{f.N3, f.N4, f.N5} {
		assert.Equal(t, ownership.ID(1), g.Owner(s.Node), "interior node %s", s)
	}
	assert.Equal(t, ownership.None, g.Owner(aig.ConstNode))
}

func TestCompute_SeedOwnedElsewhereIsEmpty(t *testing.T) {
	f := testutil.NewThreeInput()
	g := f.Graph

	first := Compute(g, f.N5.Node, 1, DefaultOptions())
	require.False(t, first.Empty())

	second := Compute(g, f.N5.Node, 2, DefaultOptions())
	assert.True(t, second.Empty())
	assert.Equal(t, 0, second.Len())
	assert.Equal(t, 1, second.Stats().Conflicts)
	assert.Equal(t, "{ }", second.String())
	requireOwnedBy(t, g, first, 1)

	// Releasing an empty cut must not touch the first traversal's nodes.
	second.Release(g)
	requireOwnedBy(t, g, first, 1)
}

func TestRelease_ReturnsEveryClaim(t *testing.T) {
	f := testutil.NewThreeInput()
	g := f.Graph

	c1 := Compute(g, f.N5.Node, 1, DefaultOptions())
	Release(g, f.N5.Node, 1)
	require.True(t, testutil.Unowned(g))

	c2 := Compute(g, f.N5.Node, 2, DefaultOptions())
	if diff := cmp.Diff(c1.Nodes(), c2.Nodes()); diff != "" {
		t.Errorf("second traversal should find the same cut (-first +second):\n%s", diff)
	}
	requireOwnedBy(t, g, c2, 2)
	c2.Release(g)

	for n := aig.Node(1); int(n) < g.Size(); n++ {
		assert.True(t, g.Claim(n, 3), "node %d should be claimable after release", n)
	}
}

func TestRelease_StopsAtForeignNodes(t *testing.T) {
	f := testutil.NewThreeInput()
	g := f.Graph

	// Traversal 2 holds n4 and c before traversal 1 starts.
	require.True(t, g.Claim(f.N4.Node, 2))
	require.True(t, g.Claim(f.C.Node, 2))

	c := Compute(g, f.N5.Node, 1, DefaultOptions())
	require.False(t, c.Empty())
	assert.Positive(t, c.Stats().Conflicts)
	requireOwnedBy(t, g, c, 1)
	assert.NotContains(t, c.Nodes(), f.N4.Node)
	assert.NotContains(t, c.Nodes(), f.C.Node)

	c.Release(g)
	assert.Equal(t, ownership.ID(2), g.Owner(f.N4.Node))
	assert.Equal(t, ownership.ID(2), g.Owner(f.C.Node))
	for _, s := range []aig.Signal{f.A, f.B, f.N3, f.N5} {
		assert.Equal(t, ownership.None, g.Owner(s.Node))
	}
}

func TestCompute_InputSeed(t *testing.T) {
	f := testutil.NewThreeInput()
	c := Compute(f.Graph, f.A.Node, 4, DefaultOptions())
	assert.Equal(t, []aig.Node{f.A.Node}, c.Nodes())
	assert.True(t, c.Stats().Trivial)
	c.Release(f.Graph)
	assert.True(t, testutil.Unowned(f.Graph))
}

func TestCompute_ConstantSeed(t *testing.T) {
	f := testutil.NewThreeInput()
	c := Compute(f.Graph, aig.ConstNode, 1, DefaultOptions())
	assert.True(t, c.Empty())
	assert.True(t, testutil.Unowned(f.Graph))
}

// TestCompute_SizeLimitBoundsSearch grows a cut on a 16-input tree, which
// can only become trivial with 16 leaves.
func TestCompute_SizeLimitBoundsSearch(t *testing.T) {
	g, root := testutil.BalancedTree(16)

	c := Compute(g, root.Node, 1, Options{SizeLimit: 4, MaxOverLimitIterations: 5})
	assert.Equal(t, 4, c.Len())
	assert.True(t, c.Stats().Bounded)
	assert.False(t, c.Stats().Trivial)
	assert.False(t, c.Stats().Oversized)
	assert.Equal(t, 8, c.Stats().Iterations)
	assert.True(t, testutil.CoveredBy(g, root.Node, c.Nodes()))
	requireOwnedBy(t, g, c, 1)

	c.Release(g)
	assert.True(t, testutil.Unowned(g), "nodes claimed past the kept snapshot must be released too")
}

func TestCompute_SnapshotWinsOverLargeTrivialCut(t *testing.T) {
	g, root := testutil.BalancedTree(16)

	c := Compute(g, root.Node, 1, Options{SizeLimit: 4, MaxOverLimitIterations: 100})
	assert.Equal(t, 4, c.Len())
	assert.False(t, c.Stats().Bounded)
	assert.True(t, testutil.CoveredBy(g, root.Node, c.Nodes()))
	c.Release(g)

	c = Compute(g, root.Node, 1, Options{SizeLimit: 16})
	assert.Equal(t, 16, c.Len())
	assert.True(t, c.Stats().Trivial)
	c.Release(g)
	assert.True(t, testutil.Unowned(g))
}

// TestCompute_RandomGraphsSequential checks cut validity and clean release
// on every node of random graphs.
func TestCompute_RandomGraphsSequential(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := gen.Random(12, 300, 4, seed)
		g.ForeachNode(func(n aig.Node) bool {
			if g.IsConstant(n) {
				return true
			}
			c := Compute(g, n, 7, DefaultOptions())
			require.False(t, c.Empty())
			requireOwnedBy(t, g, c, 7)
			require.True(t, testutil.CoveredBy(g, n, c.Nodes()), "seed %d node %d cut %s", seed, n, c)
			require.Equal(t, Trivial(g, c.Nodes()), c.Stats().Trivial)
			if !c.Stats().Trivial {
				require.True(t, c.Stats().Bounded || c.Len() <= DefaultSizeLimit)
			}
			seen := make(map[aig.Node]bool)
			for _, l := range c.Nodes() {
				require.False(t, seen[l], "duplicate leaf %d", l)
				seen[l] = true
			}
			c.Release(g)
			require.True(t, testutil.Unowned(g), "seed %d node %d", seed, n)
			return true
		})
	}
}

// coneValue re-evaluates root from the leaf values alone.
func coneValue(t *testing.T, g *aig.Graph, root aig.Node, leaves []aig.Node, vs []uint64) uint64 {
	t.Helper()
	memo := make(map[aig.Node]uint64, len(leaves))
	for _, l := range leaves {
		memo[l] = vs[l]
	}
	var eval func(n aig.Node) uint64
	eval = func(n aig.Node) uint64 {
		if g.IsConstant(n) {
			return 0
		}
		if v, ok := memo[n]; ok {
			return v
		}
		require.False(t, g.IsPI(n), "input %d reached below the cut of %d", n, root)
		v := ^uint64(0)
		g.ForeachFanin(n, func(s aig.Signal) bool {
			x := eval(s.Node)
			if s.Complement {
				x = ^x
			}
			v &= x
			return true
		})
		memo[n] = v
		return v
	}
	return eval(root)
}

func TestCompute_CutDeterminesRoot(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	g := gen.Random(10, 250, 3, 9)
	vs := make([]uint64, g.Size())
	g.ForeachNode(func(n aig.Node) bool {
		if g.IsPI(n) {
			vs[n] = r.Uint64()
		}
		return true
	})
	g.Eval64(vs)

	g.ForeachNode(func(n aig.Node) bool {
		if g.IsConstant(n) {
			return true
		}
		c := Compute(g, n, 1, DefaultOptions())
		require.Equal(t, vs[n], coneValue(t, g, n, c.Nodes(), vs), "node %d cut %s", n, c)
		c.Release(g)
		return true
	})
}

func TestCompute_ConcurrentSameSeed(t *testing.T) {
	for round := 0; round < 200; round++ {
		f := testutil.NewThreeInput()
		g := f.Graph

		var start, wg sync.WaitGroup
		cuts := make([]*Cut, 2)
		start.Add(1)
		wg.Add(2)
		for i := range cuts {
			go func(i int) {
				defer wg.Done()
				start.Wait()
				cuts[i] = Compute(g, f.N5.Node, ownership.ID(i+1), DefaultOptions())
			}(i)
		}
		start.Done()
		wg.Wait()

		for i, c := range cuts {
			requireOwnedBy(t, g, c, ownership.ID(i+1))
		}
		assert.True(t, cuts[0].Empty() != cuts[1].Empty(), "exactly one traversal wins the seed")
		for _, c := range cuts {
			c.Release(g)
		}
		require.True(t, testutil.Unowned(g))
	}
}

// TestCompute_ConcurrentNoCrossContamination runs many traversals over one
// random graph. Every traversal must only ever see its own id on its leaves,
// and the graph must be clean once all cuts are released.
func TestCompute_ConcurrentNoCrossContamination(t *testing.T) {
	g := gen.Random(24, 2000, 8, 3)
	const workers = 8

	var next atomic.Uint32
	var wg sync.WaitGroup
	var nonEmpty atomic.Int64
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id ownership.ID) {
			defer wg.Done()
			for {
				n := aig.Node(next.Add(1))
				if int(n) >= g.Size() {
					return
				}
				c := Compute(g, n, id, DefaultOptions())
				for _, l := range c.Nodes() {
					if owner := g.Owner(l); owner != id {
						t.Errorf("traversal %d: leaf %d owned by %d", id, l, owner)
					}
				}
				if !c.Empty() {
					nonEmpty.Add(1)
				}
				c.Release(g)
			}
		}(ownership.ID(w + 1))
	}
	wg.Wait()

	assert.Positive(t, nonEmpty.Load())
	assert.True(t, testutil.Unowned(g))
}

func TestDefaultOptions(t *testing.T) {
	assert.Equal(t, Options{SizeLimit: 6, MaxOverLimitIterations: 5}, DefaultOptions())
	assert.Equal(t, DefaultOptions(), Options{}.withDefaults())
}
