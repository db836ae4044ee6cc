package ui

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/myorganisms/internal/history"
	"github.com/pstuifzand/myorganisms/internal/refstrain"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// ConfigViewOptions configures the preferences screen
type ConfigViewOptions struct {
	Tree             *taxonomy.Node
	ReferenceStrains refstrain.Set
	ProjectID        string
	// AvailableCount is the total number of organisms. Zero means the
	// number of leaves in Tree.
	AvailableCount int

	// SelectedList and OnSelectionChange make the selection controlled by
	// the caller, which reports changes back through SetSelection.
	SelectedList      []string
	OnSelectionChange func(selected []string)

	MatchReferenceKeyword bool
	ShowReferenceBadge    bool
	SearchHistory         *history.Manager
}

// ConfigView is the "Configure My Organisms" screen: an editable tree of
// all organisms next to a read-only preview of the chosen ones.
type ConfigView struct {
	tree              *taxonomy.Node
	projectID         string
	availableCount    int
	selected          []string
	onSelectionChange func([]string)
	expanded          []string
	renderNode        func(*taxonomy.Node) NodeLabel
	matchKeyword      bool
	showBadge         bool

	editor  *CheckboxTree[*taxonomy.Node]
	preview *CheckboxTree[*taxonomy.Node]

	previewMemo   taxonomy.PreviewMemo
	expansionMemo taxonomy.ExpansionMemo
	previewShown  bool
	previewFocus  bool
}

// NewConfigView creates the preferences screen
func NewConfigView(opts ConfigViewOptions) *ConfigView {
	v := &ConfigView{
		tree:              opts.Tree,
		projectID:         opts.ProjectID,
		availableCount:    opts.AvailableCount,
		onSelectionChange: opts.OnSelectionChange,
		renderNode:        organismLabel(refstrain.NewNodeRenderer(opts.ReferenceStrains, opts.ShowReferenceBadge)),
		matchKeyword:      opts.MatchReferenceKeyword,
		showBadge:         opts.ShowReferenceBadge,
	}
	predicate := refstrain.NewSearchPredicate(opts.ReferenceStrains, opts.MatchReferenceKeyword)

	v.editor = NewCheckboxTree(v.tree, CheckboxTreeOptions[*taxonomy.Node]{
		GetID:                               taxonomy.GetNodeID,
		GetChildren:                         taxonomy.GetNodeChildren,
		RenderNode:                          v.renderNode,
		SearchPredicate:                     predicate,
		IsSearchable:                        true,
		SearchPlaceholder:                   "Type a taxonomic name",
		SearchHelpText:                      SearchHelpText("the list below"),
		SearchHistory:                       opts.SearchHistory,
		IsSelectable:                        true,
		LinksPosition:                       LinksBoth,
		ShouldExpandDescendantsWithOneChild: true,
		OnExpansionChange:                   v.setExpanded,
		OnSelectionChange:                   v.selectionChanged,
	})
	v.editor.SetFocused(true)
	v.SetSelection(opts.SelectedList)
	return v
}

func organismLabel(render refstrain.NodeRenderer) func(*taxonomy.Node) NodeLabel {
	return func(n *taxonomy.Node) NodeLabel {
		l := render(n)
		return NodeLabel{Text: l.Text, Badge: l.Badge, Emphasis: l.Reference}
	}
}

func (v *ConfigView) setExpanded(expanded []string) {
	v.expanded = expanded
	v.editor.SetExpanded(expanded)
}

func (v *ConfigView) selectionChanged(selected []string) {
	if v.onSelectionChange != nil {
		v.onSelectionChange(selected)
	}
}

// SetTree replaces the taxonomy, e.g. after a reload
func (v *ConfigView) SetTree(tree *taxonomy.Node, availableCount int) {
	v.tree = tree
	v.availableCount = availableCount
	v.editor.SetTree(tree)
	v.editor.SetSelected(v.selected)
	v.refreshPreview()
}

// SetReferenceStrains changes the strains that are badged and matched by
// the "reference" keyword
func (v *ConfigView) SetReferenceStrains(refs refstrain.Set) {
	v.renderNode = organismLabel(refstrain.NewNodeRenderer(refs, v.showBadge))
	v.editor.SetRenderer(v.renderNode, refstrain.NewSearchPredicate(refs, v.matchKeyword))
	if v.preview != nil {
		v.preview.SetRenderer(v.renderNode, nil)
	}
}

// SetProjectID changes the project named in the instructions
func (v *ConfigView) SetProjectID(projectID string) {
	v.projectID = projectID
}

// SetSelection updates the selection shown by both trees
func (v *ConfigView) SetSelection(selected []string) {
	v.selected = slices.Clone(selected)
	v.editor.SetSelected(v.selected)
	v.refreshPreview()
}

// Selection returns the selection being shown
func (v *ConfigView) Selection() []string {
	return slices.Clone(v.selected)
}

func (v *ConfigView) refreshPreview() {
	// An empty selection shows the advisory instead of a bare root
	if len(v.selected) == 0 {
		v.previewShown = false
		v.previewFocus = false
		v.editor.SetFocused(true)
		return
	}

	tree := v.previewMemo.Get(v.tree, v.selected)
	if v.preview == nil {
		v.preview = NewCheckboxTree(tree, CheckboxTreeOptions[*taxonomy.Node]{
			GetID:                               taxonomy.GetNodeID,
			GetChildren:                         taxonomy.GetNodeChildren,
			RenderNode:                          v.renderNode,
			LinksPosition:                       LinksNone,
			ShouldExpandDescendantsWithOneChild: true,
		})
	} else {
		v.preview.SetTree(tree)
	}
	v.preview.SetExpanded(v.expansionMemo.Get(v.tree))
	v.previewShown = true
}

// PreviewShown reports whether the preview tree is displayed
func (v *ConfigView) PreviewShown() bool {
	return v.previewShown
}

// PreviewTree returns the tree shown in the preview, nil when the preview
// is replaced by the advisory.
func (v *ConfigView) PreviewTree() *taxonomy.Node {
	if !v.previewShown {
		return nil
	}
	return v.preview.Root()
}

// Editor returns the editable tree
func (v *ConfigView) Editor() *CheckboxTree[*taxonomy.Node] {
	return v.editor
}

// IsEditingSearch reports whether the search box has the keyboard
func (v *ConfigView) IsEditingSearch() bool {
	return v.editor.IsEditingSearch()
}

func (v *ConfigView) counts() (n, m int) {
	m = v.availableCount
	if m == 0 {
		m = v.editor.LeafCount()
	}
	return len(v.selected), m
}

// HandleKey handles keys for the screen. Tab moves focus between the two
// trees.
func (v *ConfigView) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyTab && !v.editor.IsEditingSearch() {
		v.previewFocus = v.previewShown && !v.previewFocus
		v.editor.SetFocused(!v.previewFocus)
		if v.preview != nil {
			v.preview.SetFocused(v.previewFocus)
		}
		return true
	}
	if v.previewFocus {
		return v.preview.HandleKey(ev)
	}
	return v.editor.HandleKey(ev)
}

// HandleMouse passes clicks to the tree under the pointer
func (v *ConfigView) HandleMouse(ev *tcell.EventMouse) bool {
	if v.editor.HandleMouse(ev) {
		return true
	}
	return v.previewShown && v.preview.HandleMouse(ev)
}

// Render draws the screen into the given rectangle
func (v *ConfigView) Render(screen *Screen, x, y, width, height int) {
	for row := y; row < y+height; row++ {
		screen.FillLine(x, row, width, tcell.StyleDefault)
	}
	bottom := y + height

	screen.DrawStringLimited(x, y, "Configure My Organisms", width, screen.HeaderStyle())
	y++
	instructions := fmt.Sprintf("Set your My Organisms list to limit the organisms you see throughout %s.", v.projectID)
	for _, line := range WrapText(instructions, width) {
		if y >= bottom {
			return
		}
		screen.DrawString(x, y, line, screen.InstructionsStyle())
		y++
	}
	y++
	if y >= bottom {
		return
	}

	// Side by side on wide terminals, stacked otherwise
	if width >= 80 {
		left := width/2 - 1
		v.renderEditor(screen, x, y, left, bottom-y)
		v.renderPreview(screen, x+left+2, y, width-left-2, bottom-y)
		return
	}
	half := (bottom - y) / 2
	v.renderEditor(screen, x, y, width, half)
	v.renderPreview(screen, x, y+half, width, bottom-y-half)
}

func (v *ConfigView) renderEditor(screen *Screen, x, y, width, height int) {
	if height <= 1 {
		return
	}
	screen.DrawStringLimited(x, y, "Choose organisms to keep", width, screen.HeaderStyle())
	v.editor.Render(screen, x, y+1, width, height-1)
}

func (v *ConfigView) renderPreview(screen *Screen, x, y, width, height int) {
	if height <= 0 {
		return
	}
	bottom := y + height
	n, m := v.counts()

	header := screen.HeaderStyle()
	cx := screen.DrawString(x, y, "Preview of My Organisms (", header)
	cx = screen.DrawString(cx, y, strconv.Itoa(n), screen.CountStyle(n))
	screen.DrawString(cx, y, fmt.Sprintf(" of %d)", m), header)
	y++

	text := fmt.Sprintf("%s will restrict the organisms it displays, throughout the site, to those you have chosen, as shown below.", v.projectID)
	for _, line := range WrapText(text, width) {
		if y >= bottom {
			return
		}
		screen.DrawString(x, y, line, screen.InstructionsStyle())
		y++
	}
	if y >= bottom {
		return
	}

	if !v.previewShown {
		screen.DrawStringLimited(x, y, "Please select at least one organism", width, screen.AdvisoryStyle())
		return
	}
	v.preview.Render(screen, x, y, width, bottom-y)
}
