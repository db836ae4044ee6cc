package importer

import (
	"errors"
	"testing"

	"github.com/pstuifzand/myorganisms/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shape(n *taxonomy.Node) string {
	s := taxonomy.GetNodeID(n)
	if len(n.Children) == 0 {
		return s
	}
	s += "("
	for i, c := range n.Children {
		if i > 0 {
			s += " "
		}
		s += shape(c)
	}
	return s + ")"
}

func TestIndentedTextParser(t *testing.T) {
	content := `#project: PlasmoDB
#name: PlasmoDB.org
# a comment
Plasmodium [plasmodium]
  Plasmodium falciparum
    P. falciparum 3D7 [pf3d7] *
    P. falciparum IT
  Plasmodium vivax
    P. vivax P01 [pvp01]
`
	doc, err := Import([]byte(content), "organisms.txt", Options{})
	require.NoError(t, err)

	assert.Equal(t, "PlasmoDB", doc.ProjectID)
	assert.Equal(t, "PlasmoDB.org", doc.DisplayName)
	assert.Equal(t, []string{"pf3d7"}, doc.ReferenceStrains)
	assert.Equal(t,
		"plasmodium(plasmodium-falciparum(pf3d7 p-falciparum-it) plasmodium-vivax(pvp01))",
		shape(doc.Tree))
	assert.Equal(t, "P. falciparum 3D7", taxonomy.Find(doc.Tree, "pf3d7").Data.Display)
}

func TestIndentedTextMultipleRootsAndDuplicates(t *testing.T) {
	content := "Fungi\n  Yeast\nBacteria\n  Yeast\n"
	doc, err := Import([]byte(content), "", Options{Format: FormatIndented})
	require.NoError(t, err)
	assert.Equal(t, "root(fungi(yeast) bacteria(yeast-2))", shape(doc.Tree))
}

func TestIndentedTextEmpty(t *testing.T) {
	_, err := Import([]byte("# nothing here\n"), "x.txt", Options{})
	assert.True(t, errors.Is(err, taxonomy.ErrEmptyTaxonomy))
}

func TestYAMLParser(t *testing.T) {
	content := `
project: FungiDB
tree:
  display: Fungi
  term: fungi
  children:
    - display: Aspergillus fumigatus Af293
      reference: true
    - display: Candida albicans
      term: calb
`
	doc, err := Import([]byte(content), "tree.yaml", Options{})
	require.NoError(t, err)
	assert.Equal(t, "FungiDB", doc.ProjectID)
	assert.Equal(t, "fungi(aspergillus-fumigatus-af293 calb)", shape(doc.Tree))
	assert.Equal(t, []string{"aspergillus-fumigatus-af293"}, doc.ReferenceStrains)
}

func TestJSONParserDocument(t *testing.T) {
	content := `{"projectId":"ToxoDB","tree":{"data":{"term":"root","display":"All"},"children":[{"data":{"term":"tg","display":"T. gondii"}}]}}`
	doc, err := Import([]byte(content), "doc.json", Options{})
	require.NoError(t, err)
	assert.Equal(t, "ToxoDB", doc.ProjectID)
	assert.Equal(t, "root(tg)", shape(doc.Tree))
}

func TestJSONParserBareNode(t *testing.T) {
	content := `{"data":{"term":"root","display":"All"},"children":[{"data":{"term":"a","display":"A"}}]}`
	doc, err := Import([]byte(content), "node.json", Options{})
	require.NoError(t, err)
	assert.Equal(t, "root(a)", shape(doc.Tree))
}

func TestJSONParserRootPath(t *testing.T) {
	content := `{
  "projectId": "VectorBase",
  "referenceStrains": ["agam"],
  "vocabulary": {
    "organismTree": {
      "term": "insecta", "display": "Insecta",
      "children": [
        {"value": "agam", "display": "Anopheles gambiae PEST"},
        {"data": {"term": "aaeg", "display": "Aedes aegypti LVP"}}
      ]
    }
  }
}`
	doc, err := Import([]byte(content), "response.json", Options{RootPath: "$.vocabulary.organismTree"})
	require.NoError(t, err)
	assert.Equal(t, "VectorBase", doc.ProjectID)
	assert.Equal(t, []string{"agam"}, doc.ReferenceStrains)
	assert.Equal(t, "insecta(agam aaeg)", shape(doc.Tree))

	_, err = Import([]byte(content), "response.json", Options{RootPath: "$.missing"})
	assert.True(t, errors.Is(err, taxonomy.ErrEmptyTaxonomy))

	_, err = Import([]byte(`{"tree": [1, 2]}`), "bad.json", Options{RootPath: "$.tree"})
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"a.json":   FormatJSON,
		"a.YAML":   FormatYAML,
		"a.yml":    FormatYAML,
		"a.txt":    FormatIndented,
		"noext":    FormatIndented,
		"a.b.json": FormatJSON,
	}
	for name, want := range tests {
		if got := DetectFormat(name); got != want {
			t.Errorf("DetectFormat(%q) = %s, want %s", name, got, want)
		}
	}
}
