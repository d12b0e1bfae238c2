package ownership

import (
	"fmt"
	"sync/atomic"
)

// ID identifies one logical claim owner. It is chosen by the caller and is
// not necessarily a goroutine or thread id.
type ID uint32

// None is the mark of an unowned node.
const None ID = 0

const (
	chunkBits = 12
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1
)

type chunk [chunkSize]atomic.Uint32

// Table holds one ownership mark per index.
type Table struct {
	chunks []*chunk
	n      int
}

// NewTable creates a table with room for capHint marks before the chunk
// directory has to grow. The table starts empty.
func NewTable(capHint int) *Table {
	return &Table{chunks: make([]*chunk, 0, capHint/chunkSize+1)}
}

// Grow makes sure the table has at least n marks. New marks are None.
func (t *Table) Grow(n int) {
	for len(t.chunks)*chunkSize < n {
		t.chunks = append(t.chunks, new(chunk))
	}
	if n > t.n {
		t.n = n
	}
}

// Len returns the number of marks.
func (t *Table) Len() int {
	return t.n
}

func (t *Table) mark(i uint32) *atomic.Uint32 {
	if int(i) >= t.n {
		panic(fmt.Sprintf("ownership: index %d out of range [0,%d)", i, t.n))
	}
	return &t.chunks[i>>chunkBits][i&chunkMask]
}

// TryAcquire marks index i as owned by id if it is unowned or already owned
// by id. It returns false without changing anything if another owner holds i.
func (t *Table) TryAcquire(i uint32, id ID) bool {
	if id == None {
		panic("ownership: cannot acquire with the None id")
	}
	m := t.mark(i)
	for {
		cur := ID(m.Load())
		if cur == id {
			return true
		}
		if cur != None {
			return false
		}
		if m.CompareAndSwap(uint32(None), uint32(id)) {
			return true
		}
	}
}

// Release clears the mark of i if and only if it is held by id.
func (t *Table) Release(i uint32, id ID) {
	t.mark(i).CompareAndSwap(uint32(id), uint32(None))
}

// Owner returns the current owner of i. The answer may be stale by the time
// the caller looks at it; only TryAcquire decides ownership.
func (t *Table) Owner(i uint32) ID {
	return ID(t.mark(i).Load())
}

// Claim is the proof that a traversal owns an index. Claims are only handed
// out by Traversal.Claim.
type Claim struct {
	index uint32
	owner ID
}

// Index returns the claimed index.
func (c Claim) Index() uint32 { return c.index }

// Owner returns the traversal that made the claim.
func (c Claim) Owner() ID { return c.owner }

// Traversal is the claim capability of a single owner on a table.
type Traversal struct {
	table *Table
	id    ID
}

// Traversal returns the capability for id. It panics if id is None.
func (t *Table) Traversal(id ID) Traversal {
	if id == None {
		panic("ownership: traversal id must not be None")
	}
	return Traversal{table: t, id: id}
}

// ID returns the traversal's owner id.
func (tr Traversal) ID() ID { return tr.id }

// Claim tries to take index i. A repeated claim by the same traversal
// succeeds and returns an equal Claim.
func (tr Traversal) Claim(i uint32) (Claim, bool) {
	if !tr.table.TryAcquire(i, tr.id) {
		return Claim{}, false
	}
	return Claim{index: i, owner: tr.id}, true
}

// Release gives index i back if this traversal holds it.
func (tr Traversal) Release(i uint32) {
	tr.table.Release(i, tr.id)
}

// Owns reports whether i is currently held by this traversal.
func (tr Traversal) Owns(i uint32) bool {
	return tr.table.Owner(i) == tr.id
}
