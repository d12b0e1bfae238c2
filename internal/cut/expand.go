package cut

import (
	"slices"

	"github.com/vk/burstcut/internal/aig"
	"github.com/vk/burstcut/internal/ownership"
)

type expander struct {
	g     *aig.Graph
	tr    ownership.Traversal
	opts  Options
	stats *Stats
}

// owned reports whether a fanin counts as already inside the region. The
// constant is never claimed, so it is always free.
func (e *expander) owned(n aig.Node) bool {
	return n == aig.ConstNode || e.tr.Owns(uint32(n))
}

// expand0 absorbs every gate leaf whose absorption costs at most one new
// leaf, until a full pass changes nothing. It reports whether the resulting
// cut holds inputs only.
func (e *expander) expand0(cut []ownership.Claim) ([]ownership.Claim, bool) {
	var added []ownership.Claim
	changed, trivial := true, true
	for changed {
		changed, trivial = false, true
		kept := cut[:0]
		for _, c := range cut {
			n := aig.Node(c.Index())
			if !e.g.IsAnd(n) {
				kept = append(kept, c)
				continue
			}
			trivial = false

			inside := 0
			outside, hasOutside := aig.ConstNode, false
			e.g.ForeachFanin(n, func(s aig.Signal) bool {
				if e.owned(s.Node) {
					inside++
				} else {
					outside, hasOutside = s.Node, true
				}
				return true
			})
			if inside+1 < e.g.FaninSize(n) {
				kept = append(kept, c)
				continue
			}

			if hasOutside {
				if nc, ok := e.tr.Claim(uint32(outside)); ok {
					added = append(added, nc)
				} else {
					e.stats.Conflicts++
				}
			}
			changed = true
		}
		cut = append(kept, added...)
		added = added[:0]
	}
	return cut, trivial
}

type candidate struct {
	node aig.Node
	refs int
}

// selectNext picks the unowned fanin that most leaves point at, breaking
// ties by fanout.
func (e *expander) selectNext(cut []ownership.Claim) (aig.Node, bool) {
	var cands []candidate
	for _, c := range cut {
		n := aig.Node(c.Index())
		if !e.g.IsAnd(n) {
			continue
		}
		e.g.ForeachFanin(n, func(s aig.Signal) bool {
			// Nodes held by anyone, this traversal included, are not
			// candidates. The answer is re-checked by the claim.
			if s.Node == aig.ConstNode || e.g.Owner(s.Node) != ownership.None {
				return true
			}
			i := slices.IndexFunc(cands, func(x candidate) bool { return x.node == s.Node })
			if i < 0 {
				cands = append(cands, candidate{node: s.Node, refs: 1})
			} else {
				cands[i].refs++
			}
			return true
		})
	}
	if len(cands) == 0 {
		return aig.ConstNode, false
	}

	best := cands[0]
	for _, x := range cands[1:] {
		if x.refs > best.refs ||
			(x.refs == best.refs && e.g.FanoutSize(x.node) > e.g.FanoutSize(best.node)) {
			best = x
		}
	}
	return best.node, true
}

func (e *expander) expand(cut []ownership.Claim) []ownership.Claim {
	cut, trivial := e.expand0(cut)
	if trivial {
		return cut
	}

	limit := e.opts.SizeLimit
	var best []ownership.Claim
	if len(cut) <= limit {
		best = slices.Clone(cut)
	}

	over := 0
	for !trivial && (len(cut) <= limit || over < e.opts.MaxOverLimitIterations) {
		n, ok := e.selectNext(cut)
		if !ok {
			break
		}
		c, ok := e.tr.Claim(uint32(n))
		if !ok {
			// Lost to another traversal since selectNext looked at it.
			e.stats.Conflicts++
			break
		}
		cut, trivial = e.expand0(append(cut, c))
		e.stats.Iterations++

		if len(cut) > limit {
			over++
		} else {
			over = 0
			best = slices.Clone(cut)
		}
	}
	if !trivial && over >= e.opts.MaxOverLimitIterations {
		e.stats.Bounded = true
	}

	if best != nil {
		return best
	}
	return cut
}
