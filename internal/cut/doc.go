// Package cut grows size-bounded cuts on a shared AIG.
//
// A cut is the frontier of a region rooted at a seed node: the seed can be
// computed from the values of the cut's leaves alone. Compute claims the
// seed for a traversal and then pushes the frontier towards the inputs. Every
// node it touches is claimed through the ownership protocol, so several
// traversals can grow cuts on the same graph at the same time without a lock.
// A node that another traversal already holds is treated as foreign and left
// out.
//
// The search is greedy. A free expansion step (expand0) replaces a leaf by
// its fanins whenever that costs at most one new leaf, and repeats until
// nothing changes. When free steps run out, the fanin shared by most leaves
// is pulled in and the free steps run again. The latest cut that fits the
// size limit is kept; the limit is advisory and an oversized cut is returned
// when nothing smaller was ever seen.
//
// Claims are not dropped by Compute. Call Release with the same seed and
// traversal id once the cut has been used.
package cut
