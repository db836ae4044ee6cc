package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/pstuifzand/myorganisms/internal/export"
	"github.com/pstuifzand/myorganisms/internal/refstrain"
	"github.com/pstuifzand/myorganisms/internal/storage"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

var (
	previewSelect   []string
	previewDump     bool
	previewMarkdown bool
	previewOutput   string
)

func init() {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the pruned tree for a selection",
		Long: `The preview command prints the tree that remains when only the selected
nodes are kept, the same tree the preferences screen previews. Selecting a
group keeps all of its descendants.

Example:
  myorgs preview --select pf3d7,pvp01
  myorgs preview --select falciparum --dump
  myorgs preview --select falciparum --markdown --output organisms.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringSliceVar(&previewSelect, "select", nil, "Comma separated node ids to keep")
	cmd.Flags().BoolVar(&previewDump, "dump", false, "Dump the pruned tree structure")
	cmd.Flags().BoolVar(&previewMarkdown, "markdown", false, "Print the pruned tree as a markdown list")
	cmd.Flags().StringVarP(&previewOutput, "output", "o", "", "Write the markdown list to a file")
	rootCmd.AddCommand(cmd)
}

func runPreview(w io.Writer) error {
	if len(previewSelect) == 0 {
		return fmt.Errorf("please select at least one organism")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := storage.NewTaxonomyStore(cfg.TaxonomyPath, cfg.TaxonomyRoot).Load()
	if err != nil {
		return err
	}

	selected := expandSelection(doc.Tree, previewSelect)
	preview := taxonomy.MakePreviewTree(doc.Tree, selected)
	if previewDump {
		spew.Fdump(w, preview)
		return nil
	}

	refs := refstrain.FromDocument(doc, cfg.ReferenceStrains...)
	if previewOutput != "" {
		if err := export.ExportToMarkdown(preview, refstrain.NewNodeRenderer(refs, false), previewOutput); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved to: %s\n", previewOutput)
		return nil
	}
	if previewMarkdown {
		export.WriteMarkdown(w, preview, refstrain.NewNodeRenderer(refs, false))
		return nil
	}

	render := refstrain.NewNodeRenderer(refs, true)
	printTree(w, preview, render)
	fmt.Fprintf(w, "\nPreview of My Organisms (%d of %d)\n", taxonomy.LeafCount(preview), taxonomy.LeafCount(doc.Tree))
	return nil
}

// expandSelection replaces group ids by the leaves below them, the way
// checking a group selects its organisms.
func expandSelection(tree *taxonomy.Node, ids []string) []string {
	var leaves []string
	for _, id := range ids {
		node := taxonomy.Find(tree, strings.TrimSpace(id))
		if node == nil {
			fmt.Fprintf(os.Stderr, "Warning: %q is not in the taxonomy\n", id)
			continue
		}
		leaves = append(leaves, taxonomy.Leaves(node)...)
	}
	return leaves
}

// printTree prints every node of tree. The preview starts fully expanded,
// so inner nodes are all shown open.
func printTree(w io.Writer, tree *taxonomy.Node, render refstrain.NodeRenderer) {
	expanded := make(map[string]bool)
	for _, id := range taxonomy.MakeInitialPreviewExpansion(tree) {
		expanded[id] = true
	}
	taxonomy.Walk(tree, func(n *taxonomy.Node, depth int) bool {
		label := render(n)
		marker := "  "
		if !n.IsLeaf() {
			marker = "▶ "
			if expanded[taxonomy.GetNodeID(n)] {
				marker = "▼ "
			}
		}
		line := strings.Repeat("  ", depth) + marker + label.Text
		if label.Badge != "" {
			line += " [" + label.Badge + "]"
		}
		fmt.Fprintln(w, line)
		return expanded[taxonomy.GetNodeID(n)]
	})
}
