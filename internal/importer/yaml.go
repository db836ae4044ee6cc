package importer

import (
	"fmt"

	"github.com/pstuifzand/myorganisms/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

// YAMLParser imports a taxonomy written as nested YAML mappings:
//
//	project: PlasmoDB
//	name: PlasmoDB
//	tree:
//	  display: Plasmodium
//	  children:
//	    - display: Plasmodium falciparum 3D7
//	      term: pf3d7
//	      reference: true
type YAMLParser struct{}

func (p *YAMLParser) Name() string {
	return "YAML"
}

type yamlDocument struct {
	Project string    `yaml:"project"`
	Name    string    `yaml:"name"`
	Tree    *yamlNode `yaml:"tree"`
}

type yamlNode struct {
	Term      string      `yaml:"term"`
	Display   string      `yaml:"display"`
	Reference bool        `yaml:"reference"`
	Children  []*yamlNode `yaml:"children"`
}

// Parse converts YAML content to a taxonomy document
func (p *YAMLParser) Parse(content []byte) (*taxonomy.Document, error) {
	var raw yamlDocument
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if raw.Tree == nil {
		return nil, taxonomy.ErrEmptyTaxonomy
	}

	doc := &taxonomy.Document{
		ProjectID:   raw.Project,
		DisplayName: raw.Name,
	}

	slugs := newSlugger()
	var claim func(n *yamlNode)
	claim = func(n *yamlNode) {
		if n.Term != "" {
			slugs.claim(n.Term)
		}
		for _, c := range n.Children {
			claim(c)
		}
	}
	claim(raw.Tree)

	var convert func(n *yamlNode) *taxonomy.Node
	convert = func(n *yamlNode) *taxonomy.Node {
		term := n.Term
		if term == "" {
			term = slugs.slug(n.Display)
		}
		node := taxonomy.NewNode(term, n.Display)
		if n.Reference {
			doc.ReferenceStrains = append(doc.ReferenceStrains, term)
		}
		for _, c := range n.Children {
			node.Children = append(node.Children, convert(c))
		}
		return node
	}
	doc.Tree = convert(raw.Tree)
	return doc, nil
}
