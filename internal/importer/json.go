package importer

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// JSONParser imports JSON taxonomies. Without RootPath the content is
// either a full document ({"tree": ...}) or a bare node. With RootPath the
// tree is selected out of an arbitrary JSON document with a JSONPath
// expression, e.g. "$.organismTree" for a saved vocabulary response.
type JSONParser struct {
	RootPath string
}

func (p *JSONParser) Name() string {
	return "JSON"
}

// Parse converts JSON content to a taxonomy document
func (p *JSONParser) Parse(content []byte) (*taxonomy.Document, error) {
	if p.RootPath == "" {
		return parseDocument(content)
	}

	data, err := oj.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	x, err := jp.ParseString(p.RootPath)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", p.RootPath, err)
	}

	results := x.Get(data)
	if len(results) == 0 {
		return nil, fmt.Errorf("jsonpath '%s' matched nothing: %w", p.RootPath, taxonomy.ErrEmptyTaxonomy)
	}

	tree, err := nodeFromValue(results[0])
	if err != nil {
		return nil, err
	}

	doc := &taxonomy.Document{Tree: tree}
	if top, ok := data.(map[string]any); ok {
		doc.ProjectID, _ = top["projectId"].(string)
		doc.DisplayName, _ = top["displayName"].(string)
		if refs, ok := top["referenceStrains"].([]any); ok {
			for _, r := range refs {
				if id, ok := r.(string); ok {
					doc.ReferenceStrains = append(doc.ReferenceStrains, id)
				}
			}
		}
	}
	return doc, nil
}

func parseDocument(content []byte) (*taxonomy.Document, error) {
	var doc taxonomy.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if doc.Tree != nil {
		return &doc, nil
	}

	var node taxonomy.Node
	if err := json.Unmarshal(content, &node); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if taxonomy.GetNodeID(&node) == "" {
		return nil, taxonomy.ErrEmptyTaxonomy
	}
	return &taxonomy.Document{Tree: &node}, nil
}

var errBadNode = errors.New("value is not a taxonomy node")

// nodeFromValue converts generic JSON into a node. Both the vocabulary
// shape ({"data": {"term", "display"}, "children"}) and a flat shape
// ({"term", "display", "children"}) are accepted.
func nodeFromValue(v any) (*taxonomy.Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", errBadNode, v)
	}

	payload := m
	if data, ok := m["data"].(map[string]any); ok {
		payload = data
	}

	term := firstString(payload, "term", "value", "id")
	if term == "" {
		return nil, fmt.Errorf("%w: missing term", errBadNode)
	}
	node := taxonomy.NewNode(term, firstString(payload, "display", "name"))

	if children, ok := m["children"].([]any); ok {
		for _, c := range children {
			child, err := nodeFromValue(c)
			if err != nil {
				return nil, fmt.Errorf("child of %s: %w", term, err)
			}
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
