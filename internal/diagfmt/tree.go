package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"a68/internal/ast"
	"a68/internal/modes"
	"a68/internal/source"
	"a68/internal/symbols"
)

// TreeOpts selects what the tree dump shows besides categories and text.
type TreeOpts struct {
	Modes  bool // a-priori mode and, where it differs, the wanted one
	Scopes bool // lexical level of ranges and bound tags
	Spans  bool // line:col of every node
	// Coercions hides inserted coercion nodes when false.
	Coercions bool
}

// TreeInput bundles what a dump needs; Modes and Scopes may be nil.
type TreeInput struct {
	Tree   *ast.Tree
	Files  *source.FileSet
	Modes  *modes.Table
	Scopes *symbols.Table
}

type treeNode struct {
	label    string
	children []*treeNode
}

// NodeJSON is the JSON form of one tree node.
type NodeJSON struct {
	Kind     string     `json:"kind"`
	Text     string     `json:"text,omitempty"`
	Line     uint32     `json:"line,omitempty"`
	Mode     string     `json:"mode,omitempty"`
	Want     string     `json:"want,omitempty"`
	Sort     string     `json:"sort,omitempty"`
	Tag      string     `json:"tag,omitempty"`
	Level    *int       `json:"level,omitempty"`
	Inserted bool       `json:"inserted,omitempty"`
	Children []NodeJSON `json:"children,omitempty"`
}

// FormatTreePretty prints the tree below the root as an indented outline.
func FormatTreePretty(w io.Writer, in TreeInput, opts TreeOpts) error {
	if in.Tree == nil || !in.Tree.Root.IsValid() {
		_, err := fmt.Fprintln(w, "<no tree>")
		return err
	}
	root := buildTreeNode(in, in.Tree.Root, opts)
	var b strings.Builder
	b.WriteString(root.label)
	b.WriteByte('\n')
	writeOutline(&b, root.children, "")
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatTreeJSON writes the tree as nested JSON objects.
func FormatTreeJSON(w io.Writer, in TreeInput, opts TreeOpts) error {
	if in.Tree == nil || !in.Tree.Root.IsValid() {
		return encode(w, nil)
	}
	return encode(w, buildNodeJSON(in, in.Tree.Root, opts))
}

func writeOutline(b *strings.Builder, nodes []*treeNode, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		b.WriteString(prefix)
		b.WriteString(branch)
		b.WriteString(n.label)
		b.WriteByte('\n')
		writeOutline(b, n.children, prefix+indent)
	}
}

// visible descends through inserted coercions unless they are wanted; a
// coercion has exactly one operand.
func visible(t *ast.Tree, id ast.NodeID, opts TreeOpts) ast.NodeID {
	if opts.Coercions {
		return id
	}
	for {
		n := t.Get(id)
		if n == nil || !n.Has(ast.FlagInserted) || !n.Attr.IsCoercion() || !n.Sub.IsValid() {
			return id
		}
		id = n.Sub
	}
}

func buildTreeNode(in TreeInput, id ast.NodeID, opts TreeOpts) *treeNode {
	t := in.Tree
	n := t.Get(id)
	if n == nil {
		return &treeNode{label: "<nil>"}
	}
	node := &treeNode{label: nodeLabel(in, n, opts)}
	for c := n.Sub; c.IsValid(); c = t.Next(c) {
		node.children = append(node.children, buildTreeNode(in, visible(t, c, opts), opts))
	}
	return node
}

func nodeLabel(in TreeInput, n *ast.Node, opts TreeOpts) string {
	var b strings.Builder
	b.WriteString(n.Attr.String())
	if n.Text != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(n.Text))
	}
	if opts.Modes && in.Modes != nil && n.Mode.IsValid() {
		b.WriteString(" : ")
		b.WriteString(in.Modes.String(n.Mode))
		if n.Want.IsValid() && !in.Modes.Same(n.Want, n.Mode) {
			fmt.Fprintf(&b, " -> %s (%s)", in.Modes.String(n.Want), n.Sort)
		}
	}
	if opts.Scopes && in.Scopes != nil {
		if n.Own.IsValid() {
			fmt.Fprintf(&b, " [range %d]", in.Scopes.Level(n.Own))
		}
		if tg := in.Scopes.Tag(n.Tag); tg != nil && tg.Has(symbols.TagFlagScoped) {
			fmt.Fprintf(&b, " [scope %d]", tg.Level)
		}
	}
	if n.Has(ast.FlagRecovered) {
		b.WriteString(" <recovered>")
	}
	if opts.Spans && in.Files != nil {
		start, _ := in.Files.Resolve(n.Span)
		fmt.Fprintf(&b, " @%d:%d", start.Line, start.Col)
	}
	return b.String()
}

func buildNodeJSON(in TreeInput, id ast.NodeID, opts TreeOpts) NodeJSON {
	t := in.Tree
	n := t.Get(id)
	out := NodeJSON{
		Kind:     n.Attr.String(),
		Text:     n.Text,
		Line:     n.Line,
		Inserted: n.Has(ast.FlagInserted),
	}
	if opts.Modes && in.Modes != nil {
		if n.Mode.IsValid() {
			out.Mode = in.Modes.String(n.Mode)
		}
		if n.Want.IsValid() {
			out.Want = in.Modes.String(n.Want)
			out.Sort = n.Sort.String()
		}
	}
	if opts.Scopes && in.Scopes != nil {
		if tg := in.Scopes.Tag(n.Tag); tg != nil {
			out.Tag = tg.Name
			if tg.Has(symbols.TagFlagScoped) {
				lv := tg.Level
				out.Level = &lv
			}
		}
	}
	for c := n.Sub; c.IsValid(); c = t.Next(c) {
		out.Children = append(out.Children, buildNodeJSON(in, visible(t, c, opts), opts))
	}
	return out
}
