package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/myorganisms/internal/refstrain"
	"github.com/pstuifzand/myorganisms/internal/storage"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

func sampleTree() *taxonomy.Node {
	return taxonomy.NewNode("root", "Plasmodium",
		taxonomy.NewNode("falciparum", "P. falciparum",
			taxonomy.NewNode("pf3d7", "P. falciparum 3D7"),
			taxonomy.NewNode("pfit", "P. falciparum IT"),
		),
		taxonomy.NewNode("vivax", "P. vivax",
			taxonomy.NewNode("pvp01", "P. vivax P01"),
		),
	)
}

func TestExpandSelection(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, []string{"pf3d7", "pfit", "pvp01"}, expandSelection(tree, []string{"falciparum", "pvp01"}))
	assert.Empty(t, expandSelection(tree, []string{"missing"}))
}

func TestPrintTree(t *testing.T) {
	tree := sampleTree()
	preview := taxonomy.MakePreviewTree(tree, []string{"pf3d7"})

	var out bytes.Buffer
	printTree(&out, preview, refstrain.NewNodeRenderer(refstrain.NewSet("pf3d7"), true))

	expected := "▼ Plasmodium\n" +
		"  ▼ P. falciparum\n" +
		"      P. falciparum 3D7 [reference]\n"
	assert.Equal(t, expected, out.String())
}

func TestRunImport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "organisms.txt")
	output := filepath.Join(dir, "taxonomy.json")
	require.NoError(t, os.WriteFile(input, []byte("Plasmodium\n  P. falciparum\n    P. falciparum 3D7 *\n"), 0o644))

	importFormat = "auto"
	importProject = "PlasmoDB"
	t.Cleanup(func() { importProject = "" })

	require.NoError(t, runImport([]string{input, output}))

	doc, err := storage.NewTaxonomyStore(output, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "PlasmoDB", doc.ProjectID)
	assert.Equal(t, 1, taxonomy.LeafCount(doc.Tree))
	assert.Len(t, doc.ReferenceStrains, 1)

	// An existing document is kept unless forced
	assert.Error(t, runImport([]string{input, output}))
}
