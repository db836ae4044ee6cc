package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Node {
	return NewNode("root", "All organisms",
		NewNode("bacteria", "Bacteria",
			NewNode("ecoli", "Escherichia coli"),
			NewNode("bsub", "Bacillus subtilis"),
		),
		NewNode("fungi", "Fungi",
			NewNode("asco", "Ascomycota",
				NewNode("yeast", "Saccharomyces cerevisiae"),
			),
		),
		NewNode("orphan", "Unclassified organism"),
	)
}

func TestIndexStructure(t *testing.T) {
	ix := NewIndex(sampleTree(), GetNodeID, GetNodeChildren)

	assert.Equal(t, 8, ix.Len())
	assert.Equal(t, 4, ix.LeafCount())
	assert.True(t, ix.Contains("yeast"))
	assert.False(t, ix.Contains("nope"))
	assert.True(t, ix.IsLeaf("orphan"))
	assert.False(t, ix.IsLeaf("fungi"))

	parent, ok := ix.Parent("yeast")
	require.True(t, ok)
	assert.Equal(t, "asco", parent)
	_, ok = ix.Parent("root")
	assert.False(t, ok)

	n, ok := ix.Node("bsub")
	require.True(t, ok)
	assert.Equal(t, "Bacillus subtilis", n.Data.Display)

	assert.Equal(t, []string{"ecoli", "bsub"}, ix.LeavesUnder("bacteria"))
	assert.Equal(t, []string{"ecoli", "bsub", "yeast", "orphan"}, ix.LeavesUnder("root"))
	assert.Equal(t, []string{"orphan"}, ix.LeavesUnder("orphan"))
	assert.Equal(t, []string{"root", "bacteria", "fungi", "asco"}, ix.InnerNodes())
}

func TestIndexSelectionState(t *testing.T) {
	ix := NewIndex(sampleTree(), GetNodeID, GetNodeChildren)
	sel := ix.Selection([]string{"ecoli", "yeast", "fungi", "unknown"})

	assert.Equal(t, uint64(2), sel.GetCardinality(), "inner and unknown ids are ignored")

	tests := []struct {
		id       string
		expected SelectionState
	}{
		{"root", SelectedSome},
		{"bacteria", SelectedSome},
		{"fungi", SelectedAll},
		{"asco", SelectedAll},
		{"yeast", SelectedAll},
		{"bsub", SelectedNone},
		{"orphan", SelectedNone},
		{"unknown", SelectedNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ix.SelectionState(sel, tt.id), tt.id)
	}

	assert.Equal(t, 2, ix.SelectedCount(sel, "root"))
	assert.Equal(t, 1, ix.SelectedCount(sel, "bacteria"))
}

func TestIndexSingleChildChain(t *testing.T) {
	tree := NewNode("root", "All",
		NewNode("B", "B",
			NewNode("C", "C",
				NewNode("D", "D", NewNode("leaf1", "1"), NewNode("leaf2", "2")),
			),
		),
		NewNode("E", "E", NewNode("leaf3", "3")),
	)
	ix := NewIndex(tree, GetNodeID, GetNodeChildren)

	assert.Equal(t, []string{"C", "D"}, ix.SingleChildChain("B"))
	assert.Empty(t, ix.SingleChildChain("D"))
	assert.Empty(t, ix.SingleChildChain("E"), "a chain ending in a leaf adds nothing")
	assert.Empty(t, ix.SingleChildChain("root"))
	assert.Nil(t, ix.SingleChildChain("missing"))
}
