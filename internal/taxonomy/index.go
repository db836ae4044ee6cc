package taxonomy

import (
	"github.com/RoaringBitmap/roaring"
)

// SelectionState describes how much of a subtree is selected
type SelectionState int

const (
	SelectedNone SelectionState = iota
	SelectedSome
	SelectedAll
)

func (s SelectionState) String() string {
	switch s {
	case SelectedNone:
		return "none"
	case SelectedSome:
		return "some"
	case SelectedAll:
		return "all"
	default:
		return "unknown"
	}
}

// Index assigns every node of a tree a pre-order ordinal. A subtree then
// covers a contiguous ordinal range, so selection counts for any subtree
// are two rank lookups on a bitmap of selected leaves.
//
// The index works over any tree shape given the two accessors, which lets
// the tree widget use it without knowing the node type.
type Index[T any] struct {
	nodes    []T
	ids      []string
	parent   []int
	end      []uint32 // last ordinal inside the subtree, inclusive
	ordinal  map[string]uint32
	leaves   *roaring.Bitmap
	children func(T) []T
}

// NewIndex builds an index for the tree rooted at root
func NewIndex[T any](root T, getID func(T) string, getChildren func(T) []T) *Index[T] {
	ix := &Index[T]{
		ordinal:  make(map[string]uint32),
		leaves:   roaring.New(),
		children: getChildren,
	}
	ix.add(root, -1, getID)
	ix.leaves.RunOptimize()
	return ix
}

func (ix *Index[T]) add(n T, parent int, getID func(T) string) uint32 {
	ord := uint32(len(ix.nodes))
	id := getID(n)
	ix.nodes = append(ix.nodes, n)
	ix.ids = append(ix.ids, id)
	ix.parent = append(ix.parent, parent)
	ix.end = append(ix.end, ord)
	ix.ordinal[id] = ord

	kids := ix.children(n)
	if len(kids) == 0 {
		ix.leaves.Add(ord)
		return ord
	}
	last := ord
	for _, child := range kids {
		last = ix.add(child, int(ord), getID)
	}
	ix.end[ord] = last
	return last
}

// Len returns the number of nodes in the tree
func (ix *Index[T]) Len() int {
	return len(ix.nodes)
}

// LeafCount returns the number of leaves in the tree
func (ix *Index[T]) LeafCount() int {
	return int(ix.leaves.GetCardinality())
}

// Contains reports whether id is a node of the tree
func (ix *Index[T]) Contains(id string) bool {
	_, ok := ix.ordinal[id]
	return ok
}

// Node returns the node with the given id
func (ix *Index[T]) Node(id string) (T, bool) {
	ord, ok := ix.ordinal[id]
	if !ok {
		var zero T
		return zero, false
	}
	return ix.nodes[ord], true
}

// Parent returns the id of the parent of id. The root has no parent.
func (ix *Index[T]) Parent(id string) (string, bool) {
	ord, ok := ix.ordinal[id]
	if !ok || ix.parent[ord] < 0 {
		return "", false
	}
	return ix.ids[ix.parent[ord]], true
}

// IsLeaf reports whether id is a leaf
func (ix *Index[T]) IsLeaf(id string) bool {
	ord, ok := ix.ordinal[id]
	return ok && ix.leaves.Contains(ord)
}

// LeavesUnder returns the leaf ids of the subtree rooted at id, in pre-order
func (ix *Index[T]) LeavesUnder(id string) []string {
	ord, ok := ix.ordinal[id]
	if !ok {
		return nil
	}
	var ids []string
	it := ix.leaves.Iterator()
	it.AdvanceIfNeeded(ord)
	for it.HasNext() {
		leaf := it.Next()
		if leaf > ix.end[ord] {
			break
		}
		ids = append(ids, ix.ids[leaf])
	}
	return ids
}

// InnerNodes returns the ids of all nodes with children, in pre-order
func (ix *Index[T]) InnerNodes() []string {
	var ids []string
	for ord, id := range ix.ids {
		if !ix.leaves.Contains(uint32(ord)) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Selection converts a list of selected ids into a bitmap of selected leaf
// ordinals. Unknown ids and ids of inner nodes are ignored.
func (ix *Index[T]) Selection(selected []string) *roaring.Bitmap {
	bm := roaring.New()
	for _, id := range selected {
		if ord, ok := ix.ordinal[id]; ok && ix.leaves.Contains(ord) {
			bm.Add(ord)
		}
	}
	return bm
}

// SelectionState reports whether none, some or all leaves below id are in
// the selection bitmap.
func (ix *Index[T]) SelectionState(selection *roaring.Bitmap, id string) SelectionState {
	ord, ok := ix.ordinal[id]
	if !ok {
		return SelectedNone
	}
	total := rangeCount(ix.leaves, ord, ix.end[ord])
	picked := rangeCount(selection, ord, ix.end[ord])
	switch {
	case picked == 0:
		return SelectedNone
	case picked >= total:
		return SelectedAll
	default:
		return SelectedSome
	}
}

// SelectedCount returns how many leaves below id are selected
func (ix *Index[T]) SelectedCount(selection *roaring.Bitmap, id string) int {
	ord, ok := ix.ordinal[id]
	if !ok {
		return 0
	}
	return int(rangeCount(selection, ord, ix.end[ord]))
}

// SingleChildChain returns the inner nodes reached from id by following
// only-child links. Expanding id should also expand these so a long chain
// of single-child groups unrolls in one step.
func (ix *Index[T]) SingleChildChain(id string) []string {
	ord, ok := ix.ordinal[id]
	if !ok {
		return nil
	}
	var chain []string
	for !ix.leaves.Contains(ord) {
		// The first child follows its parent in pre-order; it is the only
		// child when its subtree ends where the parent's does.
		child := ord + 1
		if ix.end[child] != ix.end[ord] || ix.leaves.Contains(child) {
			break
		}
		chain = append(chain, ix.ids[child])
		ord = child
	}
	return chain
}

// rangeCount counts members of bm within [lo, hi]
func rangeCount(bm *roaring.Bitmap, lo, hi uint32) uint64 {
	n := bm.Rank(hi)
	if lo > 0 {
		n -= bm.Rank(lo - 1)
	}
	return n
}
