package taxonomy

import (
	"slices"
	"strings"
	"sync"
)

// ExpansionMemo caches MakeInitialPreviewExpansion per tree identity. A
// structurally equal tree held in a different pointer is recomputed.
type ExpansionMemo struct {
	mu        sync.Mutex
	tree      *Node
	expansion []string
	computed  bool
}

// Get returns the default preview expansion for tree, computing it only when
// the tree pointer differs from the previous call.
func (m *ExpansionMemo) Get(tree *Node) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.computed && m.tree == tree {
		return m.expansion
	}
	m.tree = tree
	m.expansion = MakeInitialPreviewExpansion(tree)
	m.computed = true
	return m.expansion
}

// PreviewMemo caches MakePreviewTree keyed on the tree pointer and the
// content of the selection. Selection order does not matter.
type PreviewMemo struct {
	mu       sync.Mutex
	tree     *Node
	key      string
	preview  *Node
	computed bool
}

// Get returns the preview tree for tree and selected
func (m *PreviewMemo) Get(tree *Node, selected []string) *Node {
	key := selectionKey(selected)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.computed && m.tree == tree && m.key == key {
		return m.preview
	}
	m.tree = tree
	m.key = key
	m.preview = MakePreviewTree(tree, selected)
	m.computed = true
	return m.preview
}

func selectionKey(selected []string) string {
	sorted := slices.Clone(selected)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return strings.Join(sorted, "\x00")
}
