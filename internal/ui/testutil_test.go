package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/myorganisms/internal/theme"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// newTestScreen returns a Screen backed by a tcell simulation screen
func newTestScreen(t *testing.T, width, height int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim, theme.Default())
	if err != nil {
		t.Fatalf("Failed to create screen: %v", err)
	}
	sim.SetSize(width, height)
	screen.Size()
	t.Cleanup(func() { screen.Close() })
	return screen, sim
}

// screenText shows the screen and returns its contents, one line per row
func screenText(screen *Screen, sim tcell.SimulationScreen) string {
	screen.Show()
	cells, width, height := sim.GetContents()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := cells[y*width+x]
			if len(cell.Runes) > 0 {
				b.WriteRune(cell.Runes[0])
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

// groupTree is root→A→{leaf1, leaf2}
func groupTree() *taxonomy.Node {
	return taxonomy.NewNode("root", "Root",
		taxonomy.NewNode("A", "Group A",
			taxonomy.NewNode("leaf1", "Leaf one"),
			taxonomy.NewNode("leaf2", "Leaf two"),
		),
	)
}

// chainTree is root→B→C→leaf3 plus a sibling leaf
func chainTree() *taxonomy.Node {
	return taxonomy.NewNode("root", "Root",
		taxonomy.NewNode("B", "Genus B",
			taxonomy.NewNode("C", "Species C",
				taxonomy.NewNode("leaf3", "Strain three"),
			),
		),
		taxonomy.NewNode("leaf4", "Strain four"),
	)
}
