package ui

import (
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/myorganisms/internal/history"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// LinksPosition says where the select/expand links row is drawn
type LinksPosition int

const (
	LinksNone   LinksPosition = 0
	LinksTop    LinksPosition = 1
	LinksBottom LinksPosition = 2
	LinksBoth                 = LinksTop | LinksBottom
)

// NodeLabel is what the tree draws for a node
type NodeLabel struct {
	Text     string
	Badge    string
	Emphasis bool
}

// CheckboxTreeOptions configures a CheckboxTree. Expansion and selection
// are controlled by the owner: the tree reports changes through the
// callbacks and only shows them once the owner calls SetExpanded or
// SetSelected. A nil callback makes that state read-only.
type CheckboxTreeOptions[T any] struct {
	GetID       func(T) string
	GetChildren func(T) []T
	RenderNode  func(T) NodeLabel

	SearchPredicate   func(node T, terms []string) bool
	IsSearchable      bool
	SearchPlaceholder string
	SearchHelpText    string
	SearchHistory     *history.Manager

	IsSelectable  bool
	LinksPosition LinksPosition

	// ShouldExpandDescendantsWithOneChild makes expanding a node also
	// expand the chain of only-children below it.
	ShouldExpandDescendantsWithOneChild bool

	OnExpansionChange func(expanded []string)
	OnSelectionChange func(selected []string)
}

type treeRow struct {
	id          string
	depth       int
	hasChildren bool
	expanded    bool
}

type treeLink struct {
	label  string
	action func()
	x0, x1 int
}

// CheckboxTree renders a tree with optional search, checkboxes and
// expand/collapse links. The root node is not drawn; its children are the
// top level rows.
type CheckboxTree[T comparable] struct {
	opts CheckboxTreeOptions[T]

	root     T
	index    *taxonomy.Index[T]
	expanded []string
	isOpen   map[string]bool
	selected []string
	bitmap   *roaring.Bitmap

	search  *SearchBox
	visible map[string]bool // nodes shown by the active search, nil without one

	rows    []treeRow
	cursor  int
	offset  int
	focused bool

	// Geometry of the last render, for mouse handling
	rowsY     int
	rowsX     int
	rowsShown int
	links     map[int][]treeLink
	buttons   tcell.ButtonMask
}

// NewCheckboxTree creates a tree widget over root
func NewCheckboxTree[T comparable](root T, opts CheckboxTreeOptions[T]) *CheckboxTree[T] {
	t := &CheckboxTree[T]{
		opts:   opts,
		isOpen: make(map[string]bool),
		bitmap: roaring.New(),
		links:  make(map[int][]treeLink),
	}
	if opts.IsSearchable {
		t.search = NewSearchBox(opts.SearchPlaceholder, opts.SearchHelpText, opts.SearchHistory)
	}
	t.SetTree(root)
	return t
}

// SetTree replaces the tree. Nothing is recomputed when root is the tree
// already shown.
func (t *CheckboxTree[T]) SetTree(root T) {
	if t.index != nil && root == t.root {
		return
	}
	t.root = root
	t.index = taxonomy.NewIndex(root, t.opts.GetID, t.opts.GetChildren)
	t.bitmap = t.index.Selection(t.selected)
	t.applySearch()
}

// SetRenderer replaces the node renderer and the search predicate, e.g.
// when the reference strains changed. An active search is applied again.
func (t *CheckboxTree[T]) SetRenderer(render func(T) NodeLabel, predicate func(node T, terms []string) bool) {
	t.opts.RenderNode = render
	t.opts.SearchPredicate = predicate
	t.applySearch()
}

// Root returns the tree being shown
func (t *CheckboxTree[T]) Root() T {
	return t.root
}

// SetExpanded sets the expanded node ids
func (t *CheckboxTree[T]) SetExpanded(ids []string) {
	t.expanded = slices.Clone(ids)
	t.isOpen = make(map[string]bool, len(ids))
	for _, id := range ids {
		t.isOpen[id] = true
	}
	t.rebuildRows()
}

// Expanded returns the expanded node ids
func (t *CheckboxTree[T]) Expanded() []string {
	return slices.Clone(t.expanded)
}

// SetSelected sets the selected ids
func (t *CheckboxTree[T]) SetSelected(ids []string) {
	t.selected = slices.Clone(ids)
	t.bitmap = t.index.Selection(t.selected)
}

// Selected returns the selected ids
func (t *CheckboxTree[T]) Selected() []string {
	return slices.Clone(t.selected)
}

// LeafCount returns the number of leaves in the tree
func (t *CheckboxTree[T]) LeafCount() int {
	return t.index.LeafCount()
}

// SelectedLeafCount returns how many leaves of the tree are selected.
// Selected ids that are not leaves of this tree do not count.
func (t *CheckboxTree[T]) SelectedLeafCount() int {
	return t.index.SelectedCount(t.bitmap, t.opts.GetID(t.root))
}

// SelectionState returns the checkbox state of a node
func (t *CheckboxTree[T]) SelectionState(id string) taxonomy.SelectionState {
	return t.index.SelectionState(t.bitmap, id)
}

// SetFocused sets whether the tree receives keys and shows its cursor
func (t *CheckboxTree[T]) SetFocused(focused bool) {
	t.focused = focused
	if !focused && t.search != nil {
		t.search.Blur()
	}
}

// IsFocused reports whether the tree has focus
func (t *CheckboxTree[T]) IsFocused() bool {
	return t.focused
}

// IsEditingSearch reports whether keys go to the search box
func (t *CheckboxTree[T]) IsEditingSearch() bool {
	return t.search != nil && t.search.IsFocused()
}

// SetSearchQuery replaces the search query
func (t *CheckboxTree[T]) SetSearchQuery(q string) {
	if t.search == nil {
		return
	}
	t.search.SetQuery(q)
	t.applySearch()
}

// SearchQuery returns the active search query
func (t *CheckboxTree[T]) SearchQuery() string {
	if t.search == nil {
		return ""
	}
	return t.search.Query()
}

// VisibleIDs returns the ids of the rows currently shown, top to bottom
func (t *CheckboxTree[T]) VisibleIDs() []string {
	ids := make([]string, len(t.rows))
	for i, r := range t.rows {
		ids[i] = r.id
	}
	return ids
}

// CurrentID returns the id under the cursor
func (t *CheckboxTree[T]) CurrentID() (string, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return "", false
	}
	return t.rows[t.cursor].id, true
}

// MoveTo puts the cursor on id if it is visible
func (t *CheckboxTree[T]) MoveTo(id string) bool {
	for i, r := range t.rows {
		if r.id == id {
			t.cursor = i
			return true
		}
	}
	return false
}

func (t *CheckboxTree[T]) applySearch() {
	t.visible = nil
	if t.search != nil && t.opts.SearchPredicate != nil {
		if terms := t.search.Terms(); len(terms) > 0 {
			t.visible = make(map[string]bool)
			for _, child := range t.opts.GetChildren(t.root) {
				t.markVisible(child, false, terms)
			}
		}
	}
	t.rebuildRows()
}

// markVisible shows nodes that match, their ancestors and their
// descendants.
func (t *CheckboxTree[T]) markVisible(n T, ancestorMatched bool, terms []string) bool {
	matched := ancestorMatched || t.opts.SearchPredicate(n, terms)
	shown := matched
	for _, child := range t.opts.GetChildren(n) {
		if t.markVisible(child, matched, terms) {
			shown = true
		}
	}
	if shown {
		t.visible[t.opts.GetID(n)] = true
	}
	return shown
}

func (t *CheckboxTree[T]) rebuildRows() {
	t.rows = t.rows[:0]
	if t.index == nil {
		return
	}
	t.rows = slices.Grow(t.rows, t.index.Len()-1)
	for _, child := range t.opts.GetChildren(t.root) {
		t.addRows(child, 0)
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *CheckboxTree[T]) addRows(n T, depth int) {
	id := t.opts.GetID(n)
	if t.visible != nil && !t.visible[id] {
		return
	}
	children := t.opts.GetChildren(n)
	// A search shows every match in place, regardless of expansion
	open := len(children) > 0 && (t.visible != nil || t.isOpen[id])
	t.rows = append(t.rows, treeRow{id: id, depth: depth, hasChildren: len(children) > 0, expanded: open})
	if open {
		for _, child := range children {
			t.addRows(child, depth+1)
		}
	}
}

// leavesFor returns the leaves a checkbox click on id acts on. During a
// search only the leaves being shown are affected.
func (t *CheckboxTree[T]) leavesFor(id string) []string {
	var leaves []string
	if t.index.IsLeaf(id) {
		leaves = []string{id}
	} else {
		leaves = t.index.LeavesUnder(id)
	}
	if t.visible == nil {
		return leaves
	}
	return slices.DeleteFunc(leaves, func(leaf string) bool { return !t.visible[leaf] })
}

// ToggleSelected flips the selection of id: a fully selected node is
// cleared, anything else gets all its leaves selected.
func (t *CheckboxTree[T]) ToggleSelected(id string) {
	if !t.opts.IsSelectable {
		return
	}
	leaves := t.leavesFor(id)
	if len(leaves) == 0 {
		return
	}

	current := make(map[string]bool, len(t.selected))
	for _, s := range t.selected {
		current[s] = true
	}
	all := true
	for _, leaf := range leaves {
		if !current[leaf] {
			all = false
			break
		}
	}

	if all {
		t.removeSelected(leaves)
	} else {
		t.addSelected(leaves)
	}
}

func (t *CheckboxTree[T]) addSelected(leaves []string) {
	next := slices.Clone(t.selected)
	present := make(map[string]bool, len(next))
	for _, s := range next {
		present[s] = true
	}
	for _, leaf := range leaves {
		if !present[leaf] {
			next = append(next, leaf)
			present[leaf] = true
		}
	}
	t.emitSelection(next)
}

func (t *CheckboxTree[T]) removeSelected(leaves []string) {
	drop := make(map[string]bool, len(leaves))
	for _, leaf := range leaves {
		drop[leaf] = true
	}
	next := slices.DeleteFunc(slices.Clone(t.selected), func(s string) bool { return drop[s] })
	t.emitSelection(next)
}

// SelectAll selects every leaf (every shown leaf during a search)
func (t *CheckboxTree[T]) SelectAll() {
	if t.opts.IsSelectable {
		t.addSelected(t.leavesFor(t.opts.GetID(t.root)))
	}
}

// ClearAll deselects every leaf (every shown leaf during a search)
func (t *CheckboxTree[T]) ClearAll() {
	if !t.opts.IsSelectable {
		return
	}
	if t.visible == nil {
		t.emitSelection([]string{})
		return
	}
	t.removeSelected(t.leavesFor(t.opts.GetID(t.root)))
}

// ToggleExpanded opens or closes id
func (t *CheckboxTree[T]) ToggleExpanded(id string) {
	if !t.index.Contains(id) || t.index.IsLeaf(id) {
		return
	}
	if t.isOpen[id] {
		t.emitExpansion(slices.DeleteFunc(slices.Clone(t.expanded), func(e string) bool { return e == id }))
		return
	}
	next := append(slices.Clone(t.expanded), id)
	if t.opts.ShouldExpandDescendantsWithOneChild {
		for _, chained := range t.index.SingleChildChain(id) {
			if !t.isOpen[chained] {
				next = append(next, chained)
			}
		}
	}
	t.emitExpansion(next)
}

// ExpandAll opens every inner node
func (t *CheckboxTree[T]) ExpandAll() {
	t.emitExpansion(t.index.InnerNodes())
}

// CollapseAll closes every node
func (t *CheckboxTree[T]) CollapseAll() {
	t.emitExpansion([]string{})
}

func (t *CheckboxTree[T]) emitSelection(next []string) {
	if t.opts.OnSelectionChange != nil {
		t.opts.OnSelectionChange(next)
	}
}

func (t *CheckboxTree[T]) emitExpansion(next []string) {
	if t.opts.OnExpansionChange != nil {
		t.opts.OnExpansionChange(next)
	}
}

// HandleKey processes a key while the tree has focus. It returns false
// for keys the tree does not use.
func (t *CheckboxTree[T]) HandleKey(ev *tcell.EventKey) bool {
	if t.IsEditingSearch() {
		if t.search.HandleKey(ev) {
			t.applySearch()
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyUp:
		t.moveCursor(-1)
	case tcell.KeyDown:
		t.moveCursor(1)
	case tcell.KeyPgUp:
		t.moveCursor(-max(t.rowsShown-1, 1))
	case tcell.KeyPgDn:
		t.moveCursor(max(t.rowsShown-1, 1))
	case tcell.KeyHome:
		t.cursor = 0
	case tcell.KeyEnd:
		t.cursor = max(len(t.rows)-1, 0)
	case tcell.KeyLeft:
		t.collapseOrParent()
	case tcell.KeyRight:
		t.expandOrChild()
	case tcell.KeyEnter:
		if id, ok := t.CurrentID(); ok {
			t.ToggleExpanded(id)
		}
	case tcell.KeyEscape:
		if t.SearchQuery() == "" {
			return false
		}
		t.SetSearchQuery("")
	case tcell.KeyRune:
		return t.handleRune(ev.Rune())
	default:
		return false
	}
	return true
}

func (t *CheckboxTree[T]) handleRune(r rune) bool {
	switch r {
	case 'j':
		t.moveCursor(1)
	case 'k':
		t.moveCursor(-1)
	case 'g':
		t.cursor = 0
	case 'G':
		t.cursor = max(len(t.rows)-1, 0)
	case 'h':
		t.collapseOrParent()
	case 'l':
		t.expandOrChild()
	case ' ', 'x':
		if !t.opts.IsSelectable {
			return false
		}
		if id, ok := t.CurrentID(); ok {
			t.ToggleSelected(id)
		}
	case 'a':
		if !t.opts.IsSelectable {
			return false
		}
		t.SelectAll()
	case 'n':
		if !t.opts.IsSelectable {
			return false
		}
		t.ClearAll()
	case 'E':
		t.ExpandAll()
	case 'C':
		t.CollapseAll()
	case '/':
		if t.search == nil {
			return false
		}
		t.search.Focus()
	default:
		return false
	}
	return true
}

func (t *CheckboxTree[T]) moveCursor(delta int) {
	t.cursor = min(max(t.cursor+delta, 0), max(len(t.rows)-1, 0))
}

func (t *CheckboxTree[T]) collapseOrParent() {
	if t.cursor >= len(t.rows) {
		return
	}
	row := t.rows[t.cursor]
	if row.expanded && t.visible == nil {
		t.ToggleExpanded(row.id)
		return
	}
	if parent, ok := t.index.Parent(row.id); ok {
		t.MoveTo(parent)
	}
}

func (t *CheckboxTree[T]) expandOrChild() {
	if t.cursor >= len(t.rows) {
		return
	}
	row := t.rows[t.cursor]
	if !row.hasChildren {
		return
	}
	if !row.expanded {
		t.ToggleExpanded(row.id)
		return
	}
	t.moveCursor(1)
}

// HandleMouse processes a mouse event inside the area of the last render
func (t *CheckboxTree[T]) HandleMouse(ev *tcell.EventMouse) bool {
	pressed := ev.Buttons()&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0
	t.buttons = ev.Buttons()
	if !pressed {
		return false
	}
	x, y := ev.Position()

	for _, link := range t.links[y] {
		if x >= link.x0 && x < link.x1 {
			link.action()
			return true
		}
	}

	i := t.offset + (y - t.rowsY)
	if y < t.rowsY || y >= t.rowsY+t.rowsShown || i >= len(t.rows) {
		return false
	}
	t.cursor = i
	row := t.rows[i]
	arrowX := t.rowsX + row.depth*2
	switch {
	case x >= arrowX && x < arrowX+2:
		t.ToggleExpanded(row.id)
	case t.opts.IsSelectable && x >= arrowX+2 && x < arrowX+5:
		t.ToggleSelected(row.id)
	}
	return true
}

// Render draws the tree into the rectangle at (x, y) of width by height
func (t *CheckboxTree[T]) Render(screen *Screen, x, y, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	for row := y; row < y+height; row++ {
		screen.FillLine(x, row, width, tcell.StyleDefault)
	}
	for k := range t.links {
		delete(t.links, k)
	}

	top, bottom := y, y+height
	if t.search != nil {
		t.search.Render(screen, x, top, width)
		top += t.search.Height()
	}
	if t.opts.LinksPosition&LinksTop != 0 && top < bottom {
		t.renderLinks(screen, x, top, width)
		top++
	}
	if t.opts.LinksPosition&LinksBottom != 0 && bottom-1 > top {
		bottom--
		t.renderLinks(screen, x, bottom, width)
	}

	t.rowsX, t.rowsY = x, top
	t.rowsShown = max(bottom-top, 0)
	if len(t.rows) == 0 {
		t.rowsShown = 0
		if t.visible != nil && top < bottom {
			screen.DrawStringLimited(x, top, "No matching organisms", width, screen.InstructionsStyle())
		}
		return
	}

	if t.cursor < t.offset {
		t.offset = t.cursor
	} else if t.cursor >= t.offset+t.rowsShown {
		t.offset = t.cursor - t.rowsShown + 1
	}
	t.offset = min(max(t.offset, 0), max(len(t.rows)-t.rowsShown, 0))

	for i := 0; i < t.rowsShown && t.offset+i < len(t.rows); i++ {
		t.renderRow(screen, t.offset+i, x, top+i, width)
	}
}

func (t *CheckboxTree[T]) renderRow(screen *Screen, i, x, y, width int) {
	row := t.rows[i]
	maxX := x + width
	cx := x + row.depth*2

	switch {
	case row.expanded:
		cx = screen.DrawString(cx, y, "▼ ", screen.TreeArrowStyle(true))
	case row.hasChildren:
		cx = screen.DrawString(cx, y, "▶ ", screen.TreeArrowStyle(false))
	default:
		cx += 2
	}

	if t.opts.IsSelectable {
		state := t.SelectionState(row.id)
		box := "[ ] "
		switch state {
		case taxonomy.SelectedAll:
			box = "[x] "
		case taxonomy.SelectedSome:
			box = "[-] "
		}
		cx = screen.DrawString(cx, y, box, screen.CheckboxStyle(state.String()))
	}

	node, _ := t.index.Node(row.id)
	label := NodeLabel{Text: row.id}
	if t.opts.RenderNode != nil {
		label = t.opts.RenderNode(node)
	}

	style := screen.TreeNormalStyle()
	if label.Emphasis {
		style = style.Bold(true)
	}
	if t.focused && i == t.cursor {
		style = screen.TreeCursorStyle()
	}
	if cx >= maxX {
		return
	}
	cx = screen.DrawStringLimited(cx, y, label.Text, maxX-cx, style)
	if label.Badge != "" && cx+3 < maxX {
		screen.DrawStringLimited(cx+1, y, "("+label.Badge+")", maxX-cx-1, screen.ReferenceBadgeStyle())
	}
}

func (t *CheckboxTree[T]) renderLinks(screen *Screen, x, y, width int) {
	var links []treeLink
	if t.opts.IsSelectable {
		links = append(links,
			treeLink{label: "select all", action: t.SelectAll},
			treeLink{label: "clear all", action: t.ClearAll})
	}
	links = append(links,
		treeLink{label: "expand all", action: t.ExpandAll},
		treeLink{label: "collapse all", action: t.CollapseAll})

	maxX := x + width
	cx := x
	for i, link := range links {
		if i > 0 {
			cx = screen.DrawString(cx, y, " | ", screen.InstructionsStyle())
		}
		if cx+StringWidth(link.label) > maxX {
			break
		}
		link.x0 = cx
		cx = screen.DrawString(cx, y, link.label, screen.LinkStyle())
		link.x1 = cx
		t.links[y] = append(t.links[y], link)
	}
}
