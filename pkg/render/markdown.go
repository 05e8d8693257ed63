package render

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/lumenclass/boardlink/pkg/highlight"
)

// Renderer converts markdown source into the highlight node tree. The
// matcher downstream only needs text leaves and containers with inspectable
// children, so this adapter flattens everything markdown-specific into
// Container kinds.
type Renderer struct {
	md goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *Renderer) Render(source string) highlight.Container {
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))
	return highlight.Container{Kind: "document", Children: r.children(doc, src)}
}

func (r *Renderer) children(n ast.Node, src []byte) []highlight.Node {
	var out []highlight.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, r.convert(c, src)...)
	}
	return out
}

func (r *Renderer) convert(n ast.Node, src []byte) []highlight.Node {
	switch v := n.(type) {
	case *ast.Text:
		content := string(v.Segment.Value(src))
		if v.SoftLineBreak() || v.HardLineBreak() {
			content += "\n"
		}
		return []highlight.Node{highlight.Text{Content: content}}
	case *ast.String:
		return []highlight.Node{highlight.Text{Content: string(v.Value)}}
	case *ast.AutoLink:
		return []highlight.Node{highlight.Text{Content: string(v.Label(src))}}
	case *ast.FencedCodeBlock:
		return []highlight.Node{r.codeBlock(v.Lines(), src)}
	case *ast.CodeBlock:
		return []highlight.Node{r.codeBlock(v.Lines(), src)}
	default:
		return []highlight.Node{highlight.Container{
			Kind:     kindName(n),
			Children: r.children(n, src),
		}}
	}
}

// Code blocks are rendered verbatim; the matcher still sees their text, which
// is intentional: vocabulary can appear inside example snippets.
func (r *Renderer) codeBlock(lines *text.Segments, src []byte) highlight.Node {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return highlight.Container{
		Kind:     "code_block",
		Children: []highlight.Node{highlight.Text{Content: sb.String()}},
	}
}

var kindNames = map[ast.NodeKind]string{
	ast.KindParagraph:      "paragraph",
	ast.KindHeading:        "heading",
	ast.KindList:           "list",
	ast.KindListItem:       "list_item",
	ast.KindTextBlock:      "text_block",
	ast.KindEmphasis:       "emphasis",
	ast.KindLink:           "link",
	ast.KindBlockquote:     "blockquote",
	ast.KindCodeSpan:       "code_span",
	extast.KindTable:       "table",
	extast.KindTableHeader: "table_header",
	extast.KindTableRow:    "table_row",
	extast.KindTableCell:   "table_cell",
}

func kindName(n ast.Node) string {
	if name, ok := kindNames[n.Kind()]; ok {
		return name
	}
	return strings.ToLower(n.Kind().String())
}
