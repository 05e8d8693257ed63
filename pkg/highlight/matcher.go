package highlight

import (
	"regexp"
	"strings"

	"github.com/lumenclass/boardlink/pkg/wire"
)

// Matcher locates configured terms inside a node tree and replaces each leaf
// with plain-text and annotated-match fragments. A matcher with no usable
// terms is the identity transform.
type Matcher struct {
	pattern *regexp.Regexp
	byWord  map[string]wire.Term
}

// NewMatcher compiles one case-insensitive alternation over all terms.
// Terms with an empty word are dropped: an empty alternative matches
// everywhere. When two terms overlap, the first-listed one wins via
// alternation order.
func NewMatcher(terms []wire.Term) *Matcher {
	parts := make([]string, 0, len(terms))
	byWord := make(map[string]wire.Term, len(terms))

	for _, t := range terms {
		word := strings.TrimSpace(t.Word)
		if word == "" {
			continue
		}
		key := strings.ToLower(word)
		if _, seen := byWord[key]; seen {
			continue
		}
		byWord[key] = t
		parts = append(parts, regexp.QuoteMeta(word))
	}

	if len(parts) == 0 {
		return &Matcher{}
	}

	return &Matcher{
		pattern: regexp.MustCompile(`(?i)(` + strings.Join(parts, "|") + `)`),
		byWord:  byWord,
	}
}

// Apply transforms a tree. Containers are rebuilt with transformed children
// regardless of kind; only text leaves are inspected.
func (m *Matcher) Apply(n Node) Node {
	if m == nil || m.pattern == nil {
		return n
	}

	switch v := n.(type) {
	case Text:
		return m.splitLeaf(v)
	case Container:
		children := make([]Node, len(v.Children))
		for i, c := range v.Children {
			children[i] = m.Apply(c)
		}
		return Container{Kind: v.Kind, Children: children}
	default:
		return n
	}
}

func (m *Matcher) splitLeaf(leaf Text) Node {
	locs := m.pattern.FindAllStringIndex(leaf.Content, -1)
	if len(locs) == 0 {
		return leaf
	}

	children := make([]Node, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			children = append(children, Text{Content: leaf.Content[prev:loc[0]]})
		}
		children = append(children, m.mark(leaf.Content[loc[0]:loc[1]]))
		prev = loc[1]
	}
	if prev < len(leaf.Content) {
		children = append(children, Text{Content: leaf.Content[prev:]})
	}

	if len(children) == 1 {
		return children[0]
	}
	return Container{Kind: "span", Children: children}
}

func (m *Matcher) mark(fragment string) Mark {
	term := m.byWord[strings.ToLower(fragment)]
	return Mark{
		Content:  fragment,
		Word:     term.Word,
		Category: term.Type,
		Style:    StyleFor(term.Type),
	}
}
