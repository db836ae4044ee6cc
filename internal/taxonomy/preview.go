package taxonomy

// MakePreviewTree returns a pruned copy of tree that keeps only the selected
// nodes and the ancestors needed to reach them. The root is always kept.
// Identifiers in selected that are not part of the tree are ignored, and the
// input tree is never modified.
//
// Callers are expected not to call this with an empty selection; doing so
// yields the bare root.
func MakePreviewTree(tree *Node, selected []string) *Node {
	if tree == nil {
		return nil
	}
	keep := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		keep[id] = struct{}{}
	}
	root, _ := prune(tree, keep)
	if root == nil {
		root = &Node{Data: tree.Data}
	}
	return root
}

// prune works post-order: children first, then the node decides whether it
// stays based on its own membership and its retained children.
func prune(n *Node, keep map[string]struct{}) (*Node, bool) {
	var children []*Node
	for _, child := range n.Children {
		if pruned, ok := prune(child, keep); ok {
			children = append(children, pruned)
		}
	}
	_, selected := keep[GetNodeID(n)]
	if !selected && len(children) == 0 {
		return nil, false
	}
	return &Node{Data: n.Data, Children: children}, true
}

// MakeInitialPreviewExpansion returns the identifiers of every inner node of
// tree in pre-order. The preview is read-only, so it starts fully unrolled:
// everything the user selected is visible without interaction.
func MakeInitialPreviewExpansion(tree *Node) []string {
	var ids []string
	Walk(tree, func(n *Node, _ int) bool {
		if !n.IsLeaf() {
			ids = append(ids, GetNodeID(n))
		}
		return true
	})
	return ids
}
