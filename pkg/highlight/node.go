package highlight

// Node is the closed set of rendered-content node kinds. Leaves carry text,
// containers carry children; the matcher needs nothing else from a renderer.
type Node interface {
	node()
}

// Text is a plain leaf.
type Text struct {
	Content string
}

// Mark is an annotated leaf produced by the matcher for a matched term.
type Mark struct {
	Content  string
	Word     string
	Category string
	Style    Style
}

// Container is an interior node. Kind is informational (paragraph, table_cell,
// list_item, ...); the matcher treats every kind the same way.
type Container struct {
	Kind     string
	Children []Node
}

func (Text) node()      {}
func (Mark) node()      {}
func (Container) node() {}

// PlainText flattens a subtree back into its raw text.
func PlainText(n Node) string {
	switch v := n.(type) {
	case Text:
		return v.Content
	case Mark:
		return v.Content
	case Container:
		out := ""
		for _, c := range v.Children {
			out += PlainText(c)
		}
		return out
	}
	return ""
}
