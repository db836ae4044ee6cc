package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// newControlledTree wires the callbacks straight back into the tree, the
// way an owner that accepts every change would.
func newControlledTree(root *taxonomy.Node, opts CheckboxTreeOptions[*taxonomy.Node]) *CheckboxTree[*taxonomy.Node] {
	var tree *CheckboxTree[*taxonomy.Node]
	opts.GetID = taxonomy.GetNodeID
	opts.GetChildren = taxonomy.GetNodeChildren
	opts.OnExpansionChange = func(ids []string) { tree.SetExpanded(ids) }
	if opts.IsSelectable {
		opts.OnSelectionChange = func(ids []string) { tree.SetSelected(ids) }
	}
	tree = NewCheckboxTree(root, opts)
	tree.SetFocused(true)
	return tree
}

func TestCheckboxTreeRowsFollowExpansion(t *testing.T) {
	tree := newControlledTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{})

	assert.Equal(t, []string{"A"}, tree.VisibleIDs(), "root is hidden and A starts collapsed")

	tree.ToggleExpanded("A")
	assert.Equal(t, []string{"A", "leaf1", "leaf2"}, tree.VisibleIDs())
	assert.Equal(t, []string{"A"}, tree.Expanded())

	tree.ToggleExpanded("A")
	assert.Equal(t, []string{"A"}, tree.VisibleIDs())
}

func TestCheckboxTreeIgnoresUnknownIDs(t *testing.T) {
	tree := newControlledTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{IsSelectable: true})

	tree.ToggleExpanded("missing")
	assert.Empty(t, tree.Expanded())

	tree.SetSelected([]string{"leaf1", "missing", "A"})
	assert.Equal(t, 1, tree.SelectedLeafCount(), "only leaves of the tree count")
}

func TestCheckboxTreeExpandsSingleChildChain(t *testing.T) {
	tree := newControlledTree(chainTree(), CheckboxTreeOptions[*taxonomy.Node]{
		ShouldExpandDescendantsWithOneChild: true,
	})

	tree.ToggleExpanded("B")
	assert.Equal(t, []string{"B", "C"}, tree.Expanded())
	assert.Equal(t, []string{"B", "C", "leaf3", "leaf4"}, tree.VisibleIDs())
}

func TestCheckboxTreeWithoutChainExpansion(t *testing.T) {
	tree := newControlledTree(chainTree(), CheckboxTreeOptions[*taxonomy.Node]{})

	tree.ToggleExpanded("B")
	assert.Equal(t, []string{"B", "C", "leaf4"}, tree.VisibleIDs())
}

func TestCheckboxTreeToggleSelected(t *testing.T) {
	tree := newControlledTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{IsSelectable: true})

	tree.ToggleSelected("leaf2")
	assert.Equal(t, []string{"leaf2"}, tree.Selected())
	assert.Equal(t, taxonomy.SelectedSome, tree.SelectionState("A"))

	// A partially selected group selects the rest
	tree.ToggleSelected("A")
	assert.Equal(t, []string{"leaf2", "leaf1"}, tree.Selected())
	assert.Equal(t, taxonomy.SelectedAll, tree.SelectionState("A"))
	assert.Equal(t, 2, tree.SelectedLeafCount())

	// A fully selected group is cleared
	tree.ToggleSelected("A")
	assert.Empty(t, tree.Selected())
	assert.Equal(t, taxonomy.SelectedNone, tree.SelectionState("A"))
}

func TestCheckboxTreeReadOnly(t *testing.T) {
	var emitted bool
	tree := NewCheckboxTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{
		GetID:             taxonomy.GetNodeID,
		GetChildren:       taxonomy.GetNodeChildren,
		OnSelectionChange: func([]string) { emitted = true },
	})

	tree.ToggleSelected("leaf1")
	tree.SelectAll()
	assert.False(t, emitted, "a tree that is not selectable never reports selection changes")

	// Without an expansion callback the expansion cannot change
	tree.ToggleExpanded("A")
	assert.Equal(t, []string{"A"}, tree.VisibleIDs())
}

func TestCheckboxTreeSearch(t *testing.T) {
	tree := newControlledTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{
		IsSearchable: true,
		IsSelectable: true,
		SearchPredicate: func(n *taxonomy.Node, terms []string) bool {
			for _, term := range terms {
				if !strings.Contains(strings.ToLower(n.Data.Display), term) {
					return false
				}
			}
			return true
		},
	})

	tree.SetSearchQuery("two")
	assert.Equal(t, []string{"A", "leaf2"}, tree.VisibleIDs(), "matches show with their ancestors, expanded")

	tree.SelectAll()
	assert.Equal(t, []string{"leaf2"}, tree.Selected(), "select all only picks shown leaves")

	tree.SetSearchQuery("nothing")
	assert.Empty(t, tree.VisibleIDs())

	tree.SetSearchQuery("")
	assert.Equal(t, []string{"A"}, tree.VisibleIDs())
}

func TestCheckboxTreeKeys(t *testing.T) {
	tree := newControlledTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{IsSelectable: true})

	require.True(t, tree.HandleKey(runeKey('l')))
	assert.Equal(t, []string{"A", "leaf1", "leaf2"}, tree.VisibleIDs())

	tree.HandleKey(runeKey('j'))
	tree.HandleKey(runeKey(' '))
	assert.Equal(t, []string{"leaf1"}, tree.Selected())

	tree.HandleKey(runeKey('h'))
	id, _ := tree.CurrentID()
	assert.Equal(t, "A", id, "h on a leaf moves to its parent")

	tree.HandleKey(runeKey('n'))
	assert.Empty(t, tree.Selected())

	tree.HandleKey(runeKey('C'))
	assert.Equal(t, []string{"A"}, tree.VisibleIDs())

	assert.False(t, tree.HandleKey(runeKey('q')), "unknown keys are left to the caller")
}

func TestCheckboxTreeSearchBoxTakesKeys(t *testing.T) {
	tree := newControlledTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{
		IsSearchable:    true,
		SearchPredicate: func(n *taxonomy.Node, terms []string) bool { return n.Data.Term == terms[0] },
	})

	tree.HandleKey(runeKey('/'))
	require.True(t, tree.IsEditingSearch())
	for _, r := range "leaf1" {
		tree.HandleKey(runeKey(r))
	}
	assert.Equal(t, []string{"A", "leaf1"}, tree.VisibleIDs())

	tree.HandleKey(key(tcell.KeyEnter))
	assert.False(t, tree.IsEditingSearch())
	assert.Equal(t, "leaf1", tree.SearchQuery())

	tree.HandleKey(key(tcell.KeyEscape))
	assert.Equal(t, "", tree.SearchQuery())
}

func TestCheckboxTreeRender(t *testing.T) {
	screen, sim := newTestScreen(t, 60, 10)
	tree := newControlledTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{
		IsSelectable:  true,
		LinksPosition: LinksTop,
		RenderNode: func(n *taxonomy.Node) NodeLabel {
			return NodeLabel{Text: n.Data.Display}
		},
	})
	tree.ToggleExpanded("A")
	tree.ToggleSelected("leaf1")

	tree.Render(screen, 0, 0, 60, 10)
	lines := strings.Split(screenText(screen, sim), "\n")

	assert.Contains(t, lines[0], "select all | clear all | expand all | collapse all")
	assert.Contains(t, lines[1], "▼ [-] Group A")
	assert.Contains(t, lines[2], "[x] Leaf one")
	assert.Contains(t, lines[3], "[ ] Leaf two")
}

func TestCheckboxTreeMouse(t *testing.T) {
	screen, _ := newTestScreen(t, 60, 10)
	tree := newControlledTree(groupTree(), CheckboxTreeOptions[*taxonomy.Node]{
		IsSelectable:  true,
		LinksPosition: LinksTop,
	})
	tree.Render(screen, 0, 0, 60, 10)

	// Arrow of the first row, below the links row
	assert.True(t, tree.HandleMouse(tcell.NewEventMouse(0, 1, tcell.Button1, tcell.ModNone)))
	tree.HandleMouse(tcell.NewEventMouse(0, 1, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, []string{"A", "leaf1", "leaf2"}, tree.VisibleIDs())

	// "select all" link
	tree.Render(screen, 0, 0, 60, 10)
	assert.True(t, tree.HandleMouse(tcell.NewEventMouse(2, 0, tcell.Button1, tcell.ModNone)))
	assert.ElementsMatch(t, []string{"leaf1", "leaf2"}, tree.Selected())
}

type item struct {
	name string
	kids []*item
}

func TestCheckboxTreeGenericNodes(t *testing.T) {
	root := &item{name: "all", kids: []*item{
		{name: "x", kids: []*item{{name: "x1"}, {name: "x2"}}},
		{name: "y"},
	}}
	var tree *CheckboxTree[*item]
	tree = NewCheckboxTree(root, CheckboxTreeOptions[*item]{
		GetID:             func(i *item) string { return i.name },
		GetChildren:       func(i *item) []*item { return i.kids },
		IsSelectable:      true,
		OnSelectionChange: func(ids []string) { tree.SetSelected(ids) },
	})

	tree.SelectAll()
	assert.Equal(t, []string{"x1", "x2", "y"}, tree.Selected())
	assert.Equal(t, 3, tree.LeafCount())
}
