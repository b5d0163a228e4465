package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/freeform/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser handles HTML files. Headings build the section tree,
// paragraph-like elements become blocks and table rows become table lines.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSuffix(strings.TrimSuffix(filename, ".html"), ".htm")
	if t := findTitle(doc); t != "" {
		title = t
	}
	o := newOutline(title)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.DataAtom); level > 0 {
				o.heading(level, textContent(n))
				return
			}

			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Nav, atom.Footer, atom.Header:
				return
			case atom.P, atom.Li, atom.Blockquote, atom.Pre:
				o.block(inlineMarkup(n))
				return
			case atom.Table:
				o.block(strings.Join(tableRows(n), lineBreak))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return o.tree(title), nil
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// inlineMarkup flattens an element to annotated text. Line breaks become
// <br>, emphasis tags are kept for the expression cleaner and source line
// endings fold into spaces.
func inlineMarkup(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Br:
				buf.WriteString(lineBreak)
				return
			case atom.Strong, atom.Em:
				buf.WriteString("<" + n.Data + ">")
				defer buf.WriteString("</" + n.Data + ">")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// tableRows renders each row of a table as one line of cells.
func tableRows(table *html.Node) []string {
	var rows []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					cells = append(cells, strings.ReplaceAll(inlineMarkup(c), lineBreak, " "))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, tableLine(cells))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
