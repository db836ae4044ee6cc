// Package refstrain provides the search predicate and node renderer used by
// the organism trees. Both are parameterized by the set of reference
// strains, which are highlighted and can be searched for by keyword.
package refstrain

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// ReferenceKeyword is the search term that matches every reference strain
const ReferenceKeyword = "reference"

// Set is a read-only set of reference strain identifiers
type Set map[string]struct{}

// NewSet builds a set from a list of identifiers
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is a reference strain
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of reference strains
func (s Set) Len() int {
	return len(s)
}

// FromDocument collects the reference strains declared by a taxonomy
// document plus any extra identifiers (e.g. from the config file). Ids that
// are not leaves of the tree are dropped.
func FromDocument(doc *taxonomy.Document, extra ...string) Set {
	s := make(Set)
	if doc == nil || doc.Tree == nil {
		return s
	}
	leaves := NewSet(taxonomy.Leaves(doc.Tree)...)
	for _, id := range append(append([]string{}, doc.ReferenceStrains...), extra...) {
		if leaves.Has(id) {
			s[id] = struct{}{}
		}
	}
	return s
}

// SearchPredicate decides whether a node matches the given search terms
type SearchPredicate func(node *taxonomy.Node, terms []string) bool

// NewSearchPredicate returns a predicate where every term must match. A term
// matches when the display name or the term value contains it, ignoring
// case. Terms starting with "~" match fuzzily. When matchReferenceKeyword is
// set, the term "reference" matches reference strains.
func NewSearchPredicate(refs Set, matchReferenceKeyword bool) SearchPredicate {
	return func(node *taxonomy.Node, terms []string) bool {
		if node == nil {
			return false
		}
		for _, term := range terms {
			if !matchTerm(node, term, refs, matchReferenceKeyword) {
				return false
			}
		}
		return true
	}
}

func matchTerm(node *taxonomy.Node, term string, refs Set, matchReferenceKeyword bool) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	display := strings.ToLower(node.Data.Display)
	value := strings.ToLower(node.Data.Term)

	if fuzzyTerm, ok := strings.CutPrefix(term, "~"); ok {
		if fuzzyTerm == "" {
			return true
		}
		return fuzzy.MatchNormalizedFold(fuzzyTerm, display) || fuzzy.MatchNormalizedFold(fuzzyTerm, value)
	}

	if strings.Contains(display, term) || strings.Contains(value, term) {
		return true
	}

	return matchReferenceKeyword && term == ReferenceKeyword && refs.Has(taxonomy.GetNodeID(node))
}

// SplitTerms breaks a free-text search string into terms
func SplitTerms(query string) []string {
	return strings.Fields(query)
}

// Label is what the tree widget draws for a node
type Label struct {
	Text  string
	Badge string
	// Reference marks reference strains so the widget can emphasize them
	Reference bool
}

// NodeRenderer turns a node into its label
type NodeRenderer func(node *taxonomy.Node) Label

// NewNodeRenderer returns a renderer showing the display name of a node.
// Reference strains are flagged and, when showBadge is set, carry a
// "reference" badge.
func NewNodeRenderer(refs Set, showBadge bool) NodeRenderer {
	return func(node *taxonomy.Node) Label {
		if node == nil {
			return Label{}
		}
		text := node.Data.Display
		if text == "" {
			text = node.Data.Term
		}
		label := Label{Text: text}
		if refs.Has(taxonomy.GetNodeID(node)) {
			label.Reference = true
			if showBadge {
				label.Badge = ReferenceKeyword
			}
		}
		return label
	}
}
