// Package taxonomy contains the organism tree and the pure tree helpers the
// preference screens are built from.
package taxonomy

import "errors"

// ErrEmptyTaxonomy is returned when a document has no tree to work with.
var ErrEmptyTaxonomy = errors.New("taxonomy has no root node")

// VocabTerm is the display payload of a node: a vocabulary term and the
// human readable name shown for it.
type VocabTerm struct {
	Term    string `json:"term" yaml:"term"`
	Display string `json:"display" yaml:"display"`
}

// Node is a single node of the taxonomic tree. Leaves are organisms, inner
// nodes are taxonomic groups.
type Node struct {
	Data     VocabTerm `json:"data" yaml:"data"`
	Children []*Node   `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document is a taxonomy as loaded from disk, together with the
// project-level facts that travel with it.
type Document struct {
	ProjectID        string   `json:"projectId,omitempty"`
	DisplayName      string   `json:"displayName,omitempty"`
	ReferenceStrains []string `json:"referenceStrains,omitempty"`
	Tree             *Node    `json:"tree"`
}

// NewNode creates a node with the given term, display name and children
func NewNode(term, display string, children ...*Node) *Node {
	return &Node{
		Data:     VocabTerm{Term: term, Display: display},
		Children: children,
	}
}

// GetNodeID returns the identifier of a node
func GetNodeID(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Data.Term
}

// GetNodeChildren returns the ordered children of a node (empty for leaves)
func GetNodeChildren(n *Node) []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk visits every node in pre-order. Returning false from fn skips the
// node's descendants.
func Walk(tree *Node, fn func(n *Node, depth int) bool) {
	walk(tree, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Find returns the node with the given identifier, or nil
func Find(tree *Node, id string) *Node {
	var found *Node
	Walk(tree, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if GetNodeID(n) == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Leaves returns the identifiers of all leaves in pre-order. These are the
// organisms a user can choose from.
func Leaves(tree *Node) []string {
	var ids []string
	Walk(tree, func(n *Node, _ int) bool {
		if n.IsLeaf() {
			ids = append(ids, GetNodeID(n))
		}
		return true
	})
	return ids
}

// LeafCount returns the number of leaves below (and including) n
func LeafCount(n *Node) int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += LeafCount(child)
	}
	return count
}

// Ancestors returns the identifiers on the path from the root to the node
// with the given id, excluding the node itself. ok is false when the id is
// not in the tree.
func Ancestors(tree *Node, id string) (path []string, ok bool) {
	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if GetNodeID(n) == id {
			return true
		}
		path = append(path, GetNodeID(n))
		for _, child := range n.Children {
			if visit(child) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if tree == nil {
		return nil, false
	}
	if !visit(tree) {
		return nil, false
	}
	return path, true
}
