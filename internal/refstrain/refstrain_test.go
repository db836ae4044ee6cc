package refstrain

import (
	"testing"

	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

func TestSearchPredicate(t *testing.T) {
	refs := NewSet("ecoli-k12")
	pred := NewSearchPredicate(refs, true)
	plain := NewSearchPredicate(refs, false)

	k12 := taxonomy.NewNode("ecoli-k12", "Escherichia coli str. K-12 substr. MG1655")
	o157 := taxonomy.NewNode("ecoli-o157", "Escherichia coli O157:H7")

	tests := []struct {
		name     string
		pred     SearchPredicate
		node     *taxonomy.Node
		query    string
		expected bool
	}{
		{"substring on display", pred, k12, "coli", true},
		{"case insensitive", pred, o157, "ESCHERICHIA", true},
		{"term value", pred, o157, "o157", true},
		{"all terms must match", pred, o157, "coli k-12", false},
		{"all terms match", pred, k12, "coli k-12", true},
		{"no match", pred, k12, "yeast", false},
		{"empty query matches", pred, k12, "", true},
		{"fuzzy term", pred, k12, "~esccoli", true},
		{"fuzzy no match", pred, k12, "~zzz", false},
		{"reference keyword", pred, k12, "reference", true},
		{"reference keyword non reference", pred, o157, "reference", false},
		{"reference keyword disabled", plain, k12, "reference", false},
		{"reference keyword with other term", pred, k12, "reference coli", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.pred(tt.node, SplitTerms(tt.query))
			if got != tt.expected {
				t.Errorf("predicate(%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestNodeRenderer(t *testing.T) {
	refs := NewSet("ref")
	render := NewNodeRenderer(refs, true)

	label := render(taxonomy.NewNode("ref", "Reference organism"))
	if !label.Reference || label.Badge != ReferenceKeyword {
		t.Errorf("Expected reference badge, got %+v", label)
	}

	label = render(taxonomy.NewNode("other", ""))
	if label.Text != "other" || label.Reference || label.Badge != "" {
		t.Errorf("Expected plain label falling back to term, got %+v", label)
	}

	noBadge := NewNodeRenderer(refs, false)(taxonomy.NewNode("ref", "Reference organism"))
	if !noBadge.Reference || noBadge.Badge != "" {
		t.Errorf("Expected flagged label without badge, got %+v", noBadge)
	}
}

func TestFromDocument(t *testing.T) {
	doc := &taxonomy.Document{
		ReferenceStrains: []string{"a", "group", "missing"},
		Tree: taxonomy.NewNode("root", "All",
			taxonomy.NewNode("group", "Group", taxonomy.NewNode("a", "A"), taxonomy.NewNode("b", "B")),
		),
	}

	refs := FromDocument(doc, "b")
	if refs.Len() != 2 || !refs.Has("a") || !refs.Has("b") {
		t.Errorf("Expected {a b}, got %v", refs)
	}
	if FromDocument(nil).Len() != 0 {
		t.Error("Expected empty set for nil document")
	}
}
