package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/myorganisms/internal/refstrain"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// newControlledConfigView echoes selection changes back into the view
func newControlledConfigView(tree *taxonomy.Node, selected []string) *ConfigView {
	var cv *ConfigView
	cv = NewConfigView(ConfigViewOptions{
		Tree:              tree,
		ProjectID:         "PlasmoDB",
		SelectedList:      selected,
		OnSelectionChange: func(s []string) { cv.SetSelection(s) },
	})
	return cv
}

func TestConfigViewPreviewFollowsSelection(t *testing.T) {
	cv := newControlledConfigView(groupTree(), []string{"leaf1"})

	require.True(t, cv.PreviewShown())
	preview := cv.PreviewTree()
	require.NotNil(t, preview)
	assert.Equal(t, []string{"leaf1"}, taxonomy.Leaves(preview))

	screen, sim := newTestScreen(t, 100, 30)
	cv.Render(screen, 0, 0, 100, 30)
	text := screenText(screen, sim)

	assert.Contains(t, text, "Configure My Organisms")
	assert.Contains(t, text, "Choose organisms to keep")
	assert.Contains(t, text, "Preview of My Organisms (1 of 2)")
	// The editor starts collapsed, the preview fully expanded
	assert.Equal(t, 1, strings.Count(text, "Leaf one"))
	assert.NotContains(t, text, "Leaf two")
	assert.NotContains(t, text, "Please select at least one organism")
}

func TestConfigViewEmptySelectionShowsAdvisory(t *testing.T) {
	cv := newControlledConfigView(groupTree(), []string{"leaf1"})
	screen, sim := newTestScreen(t, 100, 30)
	cv.Render(screen, 0, 0, 100, 30)

	cv.Editor().ToggleSelected("leaf1")

	assert.Empty(t, cv.Selection())
	assert.False(t, cv.PreviewShown())
	assert.Nil(t, cv.PreviewTree())

	cv.Render(screen, 0, 0, 100, 30)
	text := screenText(screen, sim)
	assert.Contains(t, text, "Please select at least one organism")
	assert.Contains(t, text, "Preview of My Organisms (0 of 2)")
	assert.NotContains(t, text, "Leaf one")
}

func TestConfigViewPreviewIsFullyExpanded(t *testing.T) {
	cv := newControlledConfigView(chainTree(), []string{"leaf3"})

	// Tab moves focus to the preview
	require.True(t, cv.HandleKey(key(tcell.KeyTab)))
	assert.Equal(t, []string{"B", "C", "leaf3"}, cv.preview.VisibleIDs())

	// The preview is read-only
	cv.preview.ToggleSelected("leaf3")
	cv.preview.CollapseAll()
	assert.Equal(t, []string{"leaf3"}, cv.Selection())
	assert.Equal(t, []string{"B", "C", "leaf3"}, cv.preview.VisibleIDs())
}

func TestConfigViewEditorExpandsChains(t *testing.T) {
	cv := newControlledConfigView(chainTree(), []string{"leaf4"})

	cv.Editor().ToggleExpanded("B")
	assert.Equal(t, []string{"B", "C", "leaf3", "leaf4"}, cv.Editor().VisibleIDs())
}

func TestConfigViewPreviewMemoized(t *testing.T) {
	cv := newControlledConfigView(groupTree(), []string{"leaf1", "leaf2"})
	first := cv.PreviewTree()

	cv.SetSelection([]string{"leaf2", "leaf1"})
	assert.Same(t, first, cv.PreviewTree(), "same selection in another order reuses the preview")

	cv.SetSelection([]string{"leaf2"})
	assert.NotSame(t, first, cv.PreviewTree())
}

func TestConfigViewSearchSelectsShownLeaves(t *testing.T) {
	tree := taxonomy.NewNode("root", "Root",
		taxonomy.NewNode("plasmodium", "Plasmodium",
			taxonomy.NewNode("pf3d7", "Plasmodium falciparum 3D7"),
			taxonomy.NewNode("pvp01", "Plasmodium vivax P01"),
		),
	)
	var cv *ConfigView
	cv = NewConfigView(ConfigViewOptions{
		Tree:                  tree,
		ReferenceStrains:      refstrain.NewSet("pf3d7"),
		MatchReferenceKeyword: true,
		ShowReferenceBadge:    true,
		OnSelectionChange:     func(s []string) { cv.SetSelection(s) },
	})

	cv.Editor().SetSearchQuery("reference")
	assert.Equal(t, []string{"plasmodium", "pf3d7"}, cv.Editor().VisibleIDs())

	cv.Editor().SelectAll()
	assert.Equal(t, []string{"pf3d7"}, cv.Selection())

	screen, sim := newTestScreen(t, 100, 30)
	cv.Render(screen, 0, 0, 100, 30)
	assert.Contains(t, screenText(screen, sim), "(reference)")
}

func TestConfigViewStackedLayout(t *testing.T) {
	cv := newControlledConfigView(groupTree(), []string{"leaf2"})
	screen, sim := newTestScreen(t, 60, 40)
	cv.Render(screen, 0, 0, 60, 40)
	text := screenText(screen, sim)

	lines := strings.Split(text, "\n")
	chooseRow, previewRow := -1, -1
	for i, line := range lines {
		if strings.Contains(line, "Choose organisms to keep") {
			chooseRow = i
		}
		if strings.Contains(line, "Preview of My Organisms") {
			previewRow = i
		}
	}
	require.NotEqual(t, -1, chooseRow)
	require.NotEqual(t, -1, previewRow)
	assert.Greater(t, previewRow, chooseRow, "narrow screens stack the preview below the editor")
}
