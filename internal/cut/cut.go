package cut

import (
	"strconv"
	"strings"

	"github.com/vk/burstcut/internal/aig"
	"github.com/vk/burstcut/internal/ownership"
)

// Options tune the search.
type Options struct {
	// SizeLimit is the advisory upper bound on the number of leaves.
	SizeLimit int
	// MaxOverLimitIterations bounds how many consecutive expansion steps may
	// leave the cut above SizeLimit before the search gives up.
	MaxOverLimitIterations int
}

const (
	DefaultSizeLimit              = 6
	DefaultMaxOverLimitIterations = 5
)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		SizeLimit:              DefaultSizeLimit,
		MaxOverLimitIterations: DefaultMaxOverLimitIterations,
	}
}

func (o Options) withDefaults() Options {
	if o.SizeLimit <= 0 {
		o.SizeLimit = DefaultSizeLimit
	}
	if o.MaxOverLimitIterations <= 0 {
		o.MaxOverLimitIterations = DefaultMaxOverLimitIterations
	}
	return o
}

// Stats describe how a cut was found.
type Stats struct {
	Iterations int  // cost-guided expansion steps
	Conflicts  int  // claims lost to other traversals
	Trivial    bool // all leaves are inputs
	Bounded    bool // the over-limit counter stopped the search
	Oversized  bool // the returned cut exceeds the size limit
}

// Cut is an ordered set of claimed leaves.
type Cut struct {
	seed   aig.Node
	owner  ownership.ID
	leaves []ownership.Claim
	stats  Stats
}

// Seed returns the root the cut was grown from.
func (c *Cut) Seed() aig.Node { return c.seed }

// Owner returns the traversal id that holds the cut's nodes.
func (c *Cut) Owner() ownership.ID { return c.owner }

// Len returns the number of leaves.
func (c *Cut) Len() int { return len(c.leaves) }

// Empty reports whether the seed could not be claimed.
func (c *Cut) Empty() bool { return len(c.leaves) == 0 }

// Stats returns search statistics.
func (c *Cut) Stats() Stats { return c.stats }

// Claims returns the ownership proofs of the leaves.
func (c *Cut) Claims() []ownership.Claim {
	return append([]ownership.Claim(nil), c.leaves...)
}

// Nodes returns the leaves in cut order.
func (c *Cut) Nodes() []aig.Node {
	ns := make([]aig.Node, len(c.leaves))
	for i, l := range c.leaves {
		ns[i] = aig.Node(l.Index())
	}
	return ns
}

// Release returns every node claimed while computing c.
func (c *Cut) Release(g *aig.Graph) {
	Release(g, c.seed, c.owner)
}

// String formats the leaves as "{ 2 1 3 }".
func (c *Cut) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	for _, l := range c.leaves {
		b.WriteString(strconv.FormatUint(uint64(l.Index()), 10))
		b.WriteByte(' ')
	}
	b.WriteByte('}')
	return b.String()
}

// Trivial reports whether every node is an input or the constant.
func Trivial(g *aig.Graph, nodes []aig.Node) bool {
	for _, n := range nodes {
		if !g.IsConstant(n) && !g.IsPI(n) {
			return false
		}
	}
	return true
}

// Compute grows a cut rooted at seed on behalf of traversal id. If the seed
// is held by another traversal, or is the constant, the result is empty.
func Compute(g *aig.Graph, seed aig.Node, id ownership.ID, opts Options) *Cut {
	c := &Cut{seed: seed, owner: id}
	if g.IsConstant(seed) {
		return c
	}
	tr := g.Traversal(id)
	root, ok := tr.Claim(uint32(seed))
	if !ok {
		c.stats.Conflicts++
		return c
	}

	e := &expander{g: g, tr: tr, opts: opts.withDefaults(), stats: &c.stats}
	c.leaves = e.expand([]ownership.Claim{root})
	c.stats.Trivial = Trivial(g, c.Nodes())
	c.stats.Oversized = len(c.leaves) > e.opts.SizeLimit
	return c
}

// Release walks down from seed and clears every mark held by id. It stops at
// the first node on each path that id does not own.
func Release(g *aig.Graph, seed aig.Node, id ownership.ID) {
	tr := g.Traversal(id)
	stack := []aig.Node{seed}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !tr.Owns(uint32(n)) {
			continue
		}
		tr.Release(uint32(n))
		g.ForeachFanin(n, func(s aig.Signal) bool {
			stack = append(stack, s.Node)
			return true
		})
	}
}
