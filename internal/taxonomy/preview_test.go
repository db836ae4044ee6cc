package taxonomy

import (
	"reflect"
	"slices"
	"testing"
)

// shape renders a tree as nested ids, e.g. "root(A(leaf1))"
func shape(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	s := GetNodeID(n)
	if len(n.Children) == 0 {
		return s
	}
	s += "("
	for i, child := range n.Children {
		if i > 0 {
			s += " "
		}
		s += shape(child)
	}
	return s + ")"
}

func clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{Data: n.Data}
	for _, child := range n.Children {
		c.Children = append(c.Children, clone(child))
	}
	return c
}

func TestMakePreviewTreeKeepsSelectedBranch(t *testing.T) {
	tree := NewNode("root", "All organisms",
		NewNode("A", "Group A",
			NewNode("leaf1", "Organism 1"),
			NewNode("leaf2", "Organism 2"),
		),
	)

	got := shape(MakePreviewTree(tree, []string{"leaf1"}))
	if got != "root(A(leaf1))" {
		t.Errorf("Expected root(A(leaf1)), got %s", got)
	}
}

func TestMakePreviewTreePreservesSingleChildChain(t *testing.T) {
	tree := NewNode("root", "All organisms",
		NewNode("B", "B",
			NewNode("C", "C",
				NewNode("leaf3", "Organism 3"),
			),
		),
	)

	preview := MakePreviewTree(tree, []string{"leaf3"})
	if got := shape(preview); got != "root(B(C(leaf3)))" {
		t.Errorf("Expected root(B(C(leaf3))), got %s", got)
	}

	expansion := MakeInitialPreviewExpansion(tree)
	for _, id := range []string{"B", "C"} {
		if !slices.Contains(expansion, id) {
			t.Errorf("Expected default expansion to contain %q, got %v", id, expansion)
		}
	}
}

func TestMakePreviewTreeIgnoresUnknownIDs(t *testing.T) {
	tree := NewNode("root", "All organisms",
		NewNode("A", "A", NewNode("leaf1", "1"), NewNode("leaf2", "2")),
		NewNode("B", "B", NewNode("leaf3", "3")),
	)

	tests := []struct {
		name     string
		selected []string
		expected string
	}{
		{"only unknown", []string{"nope"}, "root"},
		{"unknown mixed in", []string{"nope", "leaf3"}, "root(B(leaf3))"},
		{"siblings keep order", []string{"leaf2", "leaf1"}, "root(A(leaf1 leaf2))"},
		{"groups keep order", []string{"leaf3", "leaf1"}, "root(A(leaf1) B(leaf3))"},
		{"inner node selected", []string{"B"}, "root(B)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shape(MakePreviewTree(tree, tt.selected))
			if got != tt.expected {
				t.Errorf("MakePreviewTree(%v) = %s, want %s", tt.selected, got, tt.expected)
			}
		})
	}
}

func TestMakePreviewTreeDoesNotMutateInput(t *testing.T) {
	tree := NewNode("root", "All organisms",
		NewNode("A", "A", NewNode("leaf1", "1"), NewNode("leaf2", "2")),
	)
	before := clone(tree)

	preview := MakePreviewTree(tree, []string{"leaf2"})
	preview.Children[0].Data.Display = "changed"

	if !reflect.DeepEqual(before, tree) {
		t.Errorf("Input tree was modified: %s", shape(tree))
	}
	if tree.Children[0] == preview.Children[0] {
		t.Error("Preview shares nodes with the input tree")
	}
}

func TestMakePreviewTreeNilTree(t *testing.T) {
	if got := MakePreviewTree(nil, []string{"x"}); got != nil {
		t.Errorf("Expected nil for nil tree, got %s", shape(got))
	}
}

func TestMakeInitialPreviewExpansionListsInnerNodes(t *testing.T) {
	tree := NewNode("root", "All organisms",
		NewNode("A", "A", NewNode("leaf1", "1")),
		NewNode("leaf2", "2"),
		NewNode("B", "B", NewNode("C", "C", NewNode("leaf3", "3"), NewNode("leaf4", "4"))),
	)

	got := MakeInitialPreviewExpansion(tree)
	want := []string{"root", "A", "B", "C"}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestAncestors(t *testing.T) {
	tree := NewNode("root", "All organisms",
		NewNode("A", "A", NewNode("leaf1", "1")),
		NewNode("B", "B", NewNode("leaf2", "2")),
	)

	path, ok := Ancestors(tree, "leaf2")
	if !ok || !slices.Equal(path, []string{"root", "B"}) {
		t.Errorf("Expected [root B], got %v (ok=%v)", path, ok)
	}

	if _, ok := Ancestors(tree, "missing"); ok {
		t.Error("Expected missing id to report ok=false")
	}
}

func TestLeavesAndFind(t *testing.T) {
	tree := NewNode("root", "All organisms",
		NewNode("A", "A", NewNode("leaf1", "1"), NewNode("leaf2", "2")),
		NewNode("leaf3", "3"),
	)

	if got := Leaves(tree); !slices.Equal(got, []string{"leaf1", "leaf2", "leaf3"}) {
		t.Errorf("Unexpected leaves: %v", got)
	}
	if LeafCount(tree) != 3 {
		t.Errorf("Expected 3 leaves, got %d", LeafCount(tree))
	}
	if n := Find(tree, "leaf2"); n == nil || n.Data.Display != "2" {
		t.Errorf("Find(leaf2) returned %v", n)
	}
	if Find(tree, "nope") != nil {
		t.Error("Find should return nil for unknown ids")
	}
}
