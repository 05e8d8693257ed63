package render

import (
	"strings"
	"testing"

	"github.com/lumenclass/boardlink/pkg/highlight"
	"github.com/lumenclass/boardlink/pkg/wire"
)

// TestRender_ParagraphRoundTrip verifies plain text survives the tree build
func TestRender_ParagraphRoundTrip(t *testing.T) {
	r := New()

	tree := r.Render("The cat sat on the mat")

	if tree.Kind != "document" {
		t.Fatalf("root kind = %q, want document", tree.Kind)
	}
	if got := highlight.PlainText(tree); got != "The cat sat on the mat" {
		t.Fatalf("PlainText = %q, want source text", got)
	}
}

// TestRender_ListStructure verifies list items become nested containers
func TestRender_ListStructure(t *testing.T) {
	r := New()

	tree := r.Render("- first\n- second\n")

	if countKind(tree, "list") != 1 {
		t.Fatalf("list containers = %d, want 1", countKind(tree, "list"))
	}
	if countKind(tree, "list_item") != 2 {
		t.Fatalf("list_item containers = %d, want 2", countKind(tree, "list_item"))
	}
	text := highlight.PlainText(tree)
	if !strings.Contains(text, "first") || !strings.Contains(text, "second") {
		t.Fatalf("PlainText = %q, item text lost", text)
	}
}

// TestRender_TableCells verifies GFM tables produce cell containers the
// matcher can recurse into
func TestRender_TableCells(t *testing.T) {
	r := New()

	tree := r.Render("| word | type |\n|------|------|\n| cat  | noun |\n")

	if countKind(tree, "table") != 1 {
		t.Fatalf("table containers = %d, want 1", countKind(tree, "table"))
	}
	if got := countKind(tree, "table_cell"); got != 4 {
		t.Fatalf("table_cell containers = %d, want 4", got)
	}
}

// TestRender_MatcherIntegration verifies highlighting works inside a table
func TestRender_MatcherIntegration(t *testing.T) {
	r := New()
	m := highlight.NewMatcher([]wire.Term{{Word: "cat", Type: "noun"}})

	tree := r.Render("| animal |\n|--------|\n| the cat |\n")
	out := m.Apply(tree)

	if !containsMark(out, "cat") {
		t.Fatal("term inside a table cell was not marked")
	}
}

// TestRender_EmphasisNested verifies emphasis spans keep their text reachable
func TestRender_EmphasisNested(t *testing.T) {
	r := New()

	tree := r.Render("plain *emphasized* tail")

	if countKind(tree, "emphasis") != 1 {
		t.Fatalf("emphasis containers = %d, want 1", countKind(tree, "emphasis"))
	}
	if got := highlight.PlainText(tree); got != "plain emphasized tail" {
		t.Fatalf("PlainText = %q, want markers stripped, text kept", got)
	}
}

// TestRender_CodeBlockVerbatim verifies fenced code keeps its text
func TestRender_CodeBlockVerbatim(t *testing.T) {
	r := New()

	tree := r.Render("```\nle chat\n```\n")

	if countKind(tree, "code_block") != 1 {
		t.Fatalf("code_block containers = %d, want 1", countKind(tree, "code_block"))
	}
	if !strings.Contains(highlight.PlainText(tree), "le chat") {
		t.Fatal("code block text lost")
	}
}

// TestRender_EmptySource verifies an empty document renders safely
func TestRender_EmptySource(t *testing.T) {
	r := New()

	tree := r.Render("")

	if tree.Kind != "document" {
		t.Fatalf("root kind = %q, want document", tree.Kind)
	}
	if got := highlight.PlainText(tree); got != "" {
		t.Fatalf("PlainText = %q, want empty", got)
	}
}

func countKind(n highlight.Node, kind string) int {
	c, ok := n.(highlight.Container)
	if !ok {
		return 0
	}
	count := 0
	if c.Kind == kind {
		count++
	}
	for _, child := range c.Children {
		count += countKind(child, kind)
	}
	return count
}

func containsMark(n highlight.Node, content string) bool {
	switch v := n.(type) {
	case highlight.Mark:
		return v.Content == content
	case highlight.Container:
		for _, c := range v.Children {
			if containsMark(c, content) {
				return true
			}
		}
	}
	return false
}
