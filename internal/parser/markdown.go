package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/freeform/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings build the
// section tree; other blocks keep their raw source lines so question markup
// such as [cell] or ?(x) is not read as Markdown.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	title := strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown")
	o := newOutline(title)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			o.heading(h.Level, strings.TrimSpace(string(h.Text(src))))
			continue
		}
		for _, b := range rawBlocks(n, src) {
			o.block(b)
		}
	}

	return o.tree(title), nil
}

// rawBlocks returns the source lines of a block, one annotated block per
// leaf. Container blocks such as lists contribute their children.
func rawBlocks(n ast.Node, src []byte) []string {
	if n.Type() != ast.TypeBlock {
		return nil
	}
	if _, ok := n.(*ast.ThematicBreak); ok {
		return nil
	}
	if lines := n.Lines(); lines.Len() > 0 {
		raw := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			raw = append(raw, string(seg.Value(src)))
		}
		return []string{joinLines(raw)}
	}
	var out []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, rawBlocks(c, src)...)
	}
	return out
}
