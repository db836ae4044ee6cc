// Package importer converts external taxonomy sources into taxonomy
// documents.
package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// Format names a supported input format
type Format string

const (
	FormatIndented Format = "indented"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatAuto     Format = "auto" // Detect from extension
)

// Parser turns raw content into a taxonomy document
type Parser interface {
	Parse(content []byte) (*taxonomy.Document, error)
	Name() string
}

// Options configures an import
type Options struct {
	Format Format
	// RootPath is a JSONPath selecting the tree inside a larger JSON
	// document. Only used for JSON input.
	RootPath string
}

// Import parses content with the parser for the requested format
func Import(content []byte, filename string, opts Options) (*taxonomy.Document, error) {
	format := opts.Format
	if format == "" || format == FormatAuto {
		format = DetectFormat(filename)
	}

	var parser Parser
	switch format {
	case FormatIndented:
		parser = &IndentedTextParser{}
	case FormatYAML:
		parser = &YAMLParser{}
	case FormatJSON:
		parser = &JSONParser{RootPath: opts.RootPath}
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}

	doc, err := parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse error (%s): %w", parser.Name(), err)
	}
	if doc.Tree == nil {
		return nil, taxonomy.ErrEmptyTaxonomy
	}
	return doc, nil
}

// DetectFormat guesses the format from a file extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatIndented
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugger derives stable, unique terms from display names
type slugger struct {
	seen map[string]int
}

func newSlugger() *slugger {
	return &slugger{seen: make(map[string]int)}
}

// claim registers a term that was given explicitly
func (s *slugger) claim(term string) {
	s.seen[term]++
}

func (s *slugger) slug(display string) string {
	base := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(display), "-"), "-")
	if base == "" {
		base = "node"
	}
	s.seen[base]++
	if n := s.seen[base]; n > 1 {
		return base + "-" + strconv.Itoa(n)
	}
	return base
}

// wrapRoots returns the single root, or a synthetic root holding all of them
func wrapRoots(roots []*taxonomy.Node) *taxonomy.Node {
	switch len(roots) {
	case 0:
		return nil
	case 1:
		return roots[0]
	default:
		return taxonomy.NewNode("root", "All organisms", roots...)
	}
}
