package importer

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// IndentedTextParser imports plain text where indentation gives the
// hierarchy. Each line is "Display name [term]"; the term is optional and
// derived from the name when missing. A trailing "*" marks a reference
// strain. Lines starting with "#project:" or "#name:" set document fields,
// other "#" lines are comments.
type IndentedTextParser struct{}

func (p *IndentedTextParser) Name() string {
	return "Indented Text"
}

type indentedLine struct {
	indent    int
	display   string
	term      string
	reference bool
}

// Parse converts indented text to a taxonomy document
func (p *IndentedTextParser) Parse(content []byte) (*taxonomy.Document, error) {
	doc := &taxonomy.Document{}
	var lines []indentedLine

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		text := strings.TrimSpace(line)

		// Skip empty lines
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "#") {
			if v, ok := strings.CutPrefix(text, "#project:"); ok {
				doc.ProjectID = strings.TrimSpace(v)
			} else if v, ok := strings.CutPrefix(text, "#name:"); ok {
				doc.DisplayName = strings.TrimSpace(v)
			}
			continue
		}

		lines = append(lines, parseIndentedLine(getIndentLevel(line), text))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	slugs := newSlugger()
	for _, l := range lines {
		if l.term != "" {
			slugs.claim(l.term)
		}
	}

	var roots []*taxonomy.Node
	var stack []*taxonomy.Node // parent at each indentation level

	for _, l := range lines {
		term := l.term
		if term == "" {
			term = slugs.slug(l.display)
		}
		node := taxonomy.NewNode(term, l.display)
		if l.reference {
			doc.ReferenceStrains = append(doc.ReferenceStrains, term)
		}

		// Pop back to the parent level; deeper jumps attach to the last node
		level := min(l.indent, len(stack))
		stack = stack[:level]
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}

	doc.Tree = wrapRoots(roots)
	return doc, nil
}

func parseIndentedLine(indent int, text string) indentedLine {
	l := indentedLine{indent: indent}
	if rest, ok := strings.CutSuffix(text, "*"); ok {
		l.reference = true
		text = strings.TrimSpace(rest)
	}
	if strings.HasSuffix(text, "]") {
		if open := strings.LastIndex(text, "["); open >= 0 {
			l.term = strings.TrimSpace(text[open+1 : len(text)-1])
			text = strings.TrimSpace(text[:open])
		}
	}
	l.display = text
	return l
}

// getIndentLevel calculates the indentation level (0-based)
// Counts tabs and spaces (tab = 2 spaces)
func getIndentLevel(line string) int {
	indent := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			indent += 2
		} else if line[i] == ' ' {
			indent++
		} else {
			break
		}
	}
	// Convert to level (2 spaces = 1 level)
	return indent / 2
}
