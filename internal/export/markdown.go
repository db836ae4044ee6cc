// Package export writes organism trees in formats meant for other tools.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pstuifzand/myorganisms/internal/refstrain"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// ExportToMarkdown writes tree to a markdown file as an unordered list
func ExportToMarkdown(tree *taxonomy.Node, render refstrain.NodeRenderer, filePath string) error {
	var sb strings.Builder
	WriteMarkdown(&sb, tree, render)

	if err := os.WriteFile(filePath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}

// WriteMarkdown writes every node of tree as a bullet, indented two spaces
// per level. Reference strains are set in bold.
func WriteMarkdown(w io.Writer, tree *taxonomy.Node, render refstrain.NodeRenderer) {
	taxonomy.Walk(tree, func(n *taxonomy.Node, depth int) bool {
		label := render(n)
		text := strings.TrimSpace(label.Text)
		if text == "" {
			text = taxonomy.GetNodeID(n)
		}
		if label.Reference {
			text = "**" + text + "**"
		}
		fmt.Fprintf(w, "%s- %s\n", strings.Repeat("  ", depth), text)
		return true
	})
}
