package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/freeform/internal/doctree"
)

// Parser converts a question file into a DocTree whose node texts are
// annotated question text: lines separated by <br>, blocks by a blank line.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune individual parsers.
type Options struct {
	// PDFFallback shells out to pdftotext when the PDF library fails.
	PDFFallback bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallback}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

const (
	lineBreak  = "<br>"
	blockBreak = "<br><br>"
)

// joinLines turns source lines into one annotated block, dropping the
// trailing line endings.
func joinLines(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.TrimRight(l, "\r\n"))
	}
	return strings.TrimSpace(strings.Join(out, lineBreak))
}

// outline builds a DocTree from a stream of headings and text blocks,
// nesting sections by heading level.
type outline struct {
	root   *doctree.DocNode
	stack  []outlineEntry
	blocks []string
}

type outlineEntry struct {
	node  *doctree.DocNode
	level int
}

func newOutline(title string) *outline {
	root := &doctree.DocNode{Title: title}
	return &outline{root: root, stack: []outlineEntry{{node: root, level: 0}}}
}

func (o *outline) flush() {
	if len(o.blocks) == 0 {
		return
	}
	top := o.stack[len(o.stack)-1].node
	t := strings.Join(o.blocks, blockBreak)
	if top.Text != "" {
		top.Text += blockBreak + t
	} else {
		top.Text = t
	}
	o.blocks = nil
}

func (o *outline) heading(level int, title string) {
	o.flush()
	n := &doctree.DocNode{Title: title}
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	parent := o.stack[len(o.stack)-1].node
	parent.Children = append(parent.Children, n)
	o.stack = append(o.stack, outlineEntry{node: n, level: level})
}

func (o *outline) block(text string) {
	if text = strings.TrimSpace(text); text != "" {
		o.blocks = append(o.blocks, text)
	}
}

// tree finishes the outline. Text before the first heading, or all text of
// a document without headings, becomes a leading untitled node.
func (o *outline) tree(title string) *doctree.DocTree {
	o.flush()
	t := &doctree.DocTree{Title: title, Children: o.root.Children}
	if o.root.Text != "" {
		t.Children = append([]*doctree.DocNode{{Text: o.root.Text}}, t.Children...)
	}
	return t
}
