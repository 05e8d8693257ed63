package highlight

import (
	"testing"

	"github.com/lumenclass/boardlink/pkg/wire"
)

// TestMatcher_SingleMatch verifies surrounding text survives and exactly one
// fragment is marked
func TestMatcher_SingleMatch(t *testing.T) {
	m := NewMatcher([]wire.Term{{Word: "cat", Type: "noun"}})

	out := m.Apply(Text{Content: "The cat sat"})

	span, ok := out.(Container)
	if !ok {
		t.Fatalf("out = %T, want Container", out)
	}
	if got := PlainText(span); got != "The cat sat" {
		t.Fatalf("PlainText = %q, want \"The cat sat\"", got)
	}

	marks := collectMarks(span)
	if len(marks) != 1 {
		t.Fatalf("len(marks) = %d, want 1", len(marks))
	}
	if marks[0].Content != "cat" {
		t.Fatalf("mark content = %q, want \"cat\"", marks[0].Content)
	}
	if marks[0].Category != "noun" {
		t.Fatalf("mark category = %q, want \"noun\"", marks[0].Category)
	}
}

// TestMatcher_NoTermsIsIdentity verifies an empty term list transforms nothing
func TestMatcher_NoTermsIsIdentity(t *testing.T) {
	m := NewMatcher(nil)

	in := Container{Kind: "paragraph", Children: []Node{Text{Content: "The cat sat"}}}
	out := m.Apply(in)

	if PlainText(out) != "The cat sat" {
		t.Fatalf("PlainText = %q, want input text", PlainText(out))
	}
	if len(collectMarks(out)) != 0 {
		t.Fatal("identity transform should produce no marks")
	}
}

// TestMatcher_CaseInsensitive verifies matching ignores case but keeps the
// original leaf casing
func TestMatcher_CaseInsensitive(t *testing.T) {
	m := NewMatcher([]wire.Term{{Word: "cat", Type: "noun"}})

	out := m.Apply(Text{Content: "CAT and Cat"})

	marks := collectMarks(out)
	if len(marks) != 2 {
		t.Fatalf("len(marks) = %d, want 2", len(marks))
	}
	if marks[0].Content != "CAT" || marks[1].Content != "Cat" {
		t.Fatalf("mark contents = %q, %q; want original casing", marks[0].Content, marks[1].Content)
	}
}

// TestMatcher_NestedContainers verifies uniform recursion through any depth
func TestMatcher_NestedContainers(t *testing.T) {
	m := NewMatcher([]wire.Term{{Word: "run", Type: "verb"}})

	in := Container{Kind: "table", Children: []Node{
		Container{Kind: "table_row", Children: []Node{
			Container{Kind: "table_cell", Children: []Node{
				Text{Content: "they run fast"},
			}},
			Container{Kind: "table_cell", Children: []Node{
				Text{Content: "no match here"},
			}},
		}},
	}}

	out := m.Apply(in)

	if PlainText(out) != "they run fastno match here" {
		t.Fatalf("PlainText = %q, text corrupted", PlainText(out))
	}
	marks := collectMarks(out)
	if len(marks) != 1 {
		t.Fatalf("len(marks) = %d, want 1", len(marks))
	}

	top, ok := out.(Container)
	if !ok || top.Kind != "table" {
		t.Fatalf("container kind lost: %+v", out)
	}
}

// TestMatcher_UnknownCategoryFallsBack verifies the fallback style applies
func TestMatcher_UnknownCategoryFallsBack(t *testing.T) {
	m := NewMatcher([]wire.Term{{Word: "cat", Type: "mystery"}})

	marks := collectMarks(m.Apply(Text{Content: "cat"}))
	if len(marks) != 1 {
		t.Fatalf("len(marks) = %d, want 1", len(marks))
	}
	if marks[0].Style != fallbackStyle {
		t.Fatalf("style = %+v, want fallback", marks[0].Style)
	}
}

// TestMatcher_EmptyWordIgnored verifies a zero-length term cannot match everything
func TestMatcher_EmptyWordIgnored(t *testing.T) {
	m := NewMatcher([]wire.Term{{Word: "   ", Type: "noun"}})

	out := m.Apply(Text{Content: "The cat sat"})
	if len(collectMarks(out)) != 0 {
		t.Fatal("empty term must be dropped, not match everywhere")
	}
}

// TestMatcher_OverlapFirstListedWins verifies alternation-order precedence
func TestMatcher_OverlapFirstListedWins(t *testing.T) {
	m := NewMatcher([]wire.Term{
		{Word: "cat", Type: "noun"},
		{Word: "catfish", Type: "noun"},
	})

	marks := collectMarks(m.Apply(Text{Content: "catfish"}))
	if len(marks) != 1 {
		t.Fatalf("len(marks) = %d, want 1", len(marks))
	}
	if marks[0].Content != "cat" {
		t.Fatalf("matched %q, want first-listed term \"cat\"", marks[0].Content)
	}
}

// TestMatcher_RegexMetaEscaped verifies literal terms with regex metacharacters
func TestMatcher_RegexMetaEscaped(t *testing.T) {
	m := NewMatcher([]wire.Term{{Word: "c.t", Type: "noun"}})

	if len(collectMarks(m.Apply(Text{Content: "cat"}))) != 0 {
		t.Fatal("\"c.t\" must not match \"cat\"")
	}
	if len(collectMarks(m.Apply(Text{Content: "c.t"}))) != 1 {
		t.Fatal("\"c.t\" must match itself")
	}
}

// TestStyleFor_CaseInsensitiveLookup verifies category lookup ignores case
func TestStyleFor_CaseInsensitiveLookup(t *testing.T) {
	if StyleFor("NOUN") != StyleFor("noun") {
		t.Fatal("category lookup should be case-insensitive")
	}
	if StyleFor("definitely-unknown") != fallbackStyle {
		t.Fatal("unknown category should use the fallback style")
	}
}

func collectMarks(n Node) []Mark {
	switch v := n.(type) {
	case Mark:
		return []Mark{v}
	case Container:
		var out []Mark
		for _, c := range v.Children {
			out = append(out, collectMarks(c)...)
		}
		return out
	}
	return nil
}
