package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/myorganisms/internal/history"
	"github.com/pstuifzand/myorganisms/internal/refstrain"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// OrganismsViewOptions configures the home screen listing
type OrganismsViewOptions struct {
	Tree                  *taxonomy.Node
	ReferenceStrains      refstrain.Set
	MatchReferenceKeyword bool
	ShowReferenceBadge    bool
	SearchHistory         *history.Manager
}

// OrganismsView lists the organisms the rest of the site works with: the
// preferred ones when filtering is enabled, all of them otherwise.
type OrganismsView struct {
	tree         *CheckboxTree[*taxonomy.Node]
	filtered     bool
	matchKeyword bool
	showBadge    bool
}

// NewOrganismsView creates the home screen listing
func NewOrganismsView(opts OrganismsViewOptions) *OrganismsView {
	v := &OrganismsView{matchKeyword: opts.MatchReferenceKeyword, showBadge: opts.ShowReferenceBadge}
	v.tree = NewCheckboxTree(opts.Tree, CheckboxTreeOptions[*taxonomy.Node]{
		GetID:                               taxonomy.GetNodeID,
		GetChildren:                         taxonomy.GetNodeChildren,
		RenderNode:                          organismLabel(refstrain.NewNodeRenderer(opts.ReferenceStrains, opts.ShowReferenceBadge)),
		SearchPredicate:                     refstrain.NewSearchPredicate(opts.ReferenceStrains, opts.MatchReferenceKeyword),
		IsSearchable:                        true,
		SearchPlaceholder:                   "Type a taxonomic name",
		SearchHelpText:                      SearchHelpText("the organisms below"),
		SearchHistory:                       opts.SearchHistory,
		LinksPosition:                       LinksTop,
		ShouldExpandDescendantsWithOneChild: true,
		OnExpansionChange:                   func(expanded []string) { v.tree.SetExpanded(expanded) },
	})
	v.tree.SetFocused(true)
	return v
}

// SetTree shows a new tree. filtered tells whether it is restricted to
// the preferred organisms.
func (v *OrganismsView) SetTree(tree *taxonomy.Node, filtered bool) {
	v.filtered = filtered
	v.tree.SetTree(tree)
}

// SetReferenceStrains changes the strains that are badged and searchable
func (v *OrganismsView) SetReferenceStrains(refs refstrain.Set) {
	v.tree.SetRenderer(
		organismLabel(refstrain.NewNodeRenderer(refs, v.showBadge)),
		refstrain.NewSearchPredicate(refs, v.matchKeyword),
	)
}

// Tree returns the tree widget
func (v *OrganismsView) Tree() *CheckboxTree[*taxonomy.Node] {
	return v.tree
}

// IsEditingSearch reports whether the search box has the keyboard
func (v *OrganismsView) IsEditingSearch() bool {
	return v.tree.IsEditingSearch()
}

// HandleKey passes keys to the tree
func (v *OrganismsView) HandleKey(ev *tcell.EventKey) bool {
	return v.tree.HandleKey(ev)
}

// HandleMouse passes mouse events to the tree
func (v *OrganismsView) HandleMouse(ev *tcell.EventMouse) bool {
	return v.tree.HandleMouse(ev)
}

// Render draws the listing into the given rectangle
func (v *OrganismsView) Render(screen *Screen, x, y, width, height int) {
	if height <= 1 {
		return
	}
	screen.FillLine(x, y, width, tcell.StyleDefault)
	title := fmt.Sprintf("Organisms (%d)", v.tree.LeafCount())
	if v.filtered {
		title = fmt.Sprintf("My Organisms (%d)", v.tree.LeafCount())
	}
	screen.DrawStringLimited(x, y, title, width, screen.HeaderStyle())
	v.tree.Render(screen, x, y+1, width, height-1)
}
