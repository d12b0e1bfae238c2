// Package ownership implements the lock-free claim protocol used to give
// concurrent traversals exclusive access to regions of a shared graph.
//
// # How It Works
//
// Every graph node has one mark word in a Table. A mark is either None
// (unowned) or the ID of exactly one traversal. A traversal claims a node
// with a compare-and-swap from None (or from its own ID, which makes
// re-claiming idempotent) and gives it back with a compare-and-swap to None.
// A claim held by one traversal is never overwritten by another one, and no
// other lock is taken anywhere.
//
// # Capabilities
//
// Callers do not poke at raw marks. They obtain a Traversal for their ID and
// receive a Claim value for every node they successfully claimed. Code that
// builds a cut stores Claims, so holding a node in a cut is proof that the
// claim succeeded.
//
// # Growth
//
// Marks are stored in fixed-size chunks so that growing the table never moves
// an existing mark. Grow is not safe to call concurrently with claims; the
// owning graph is append-only and is built before traversals start.
package ownership
