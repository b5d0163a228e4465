package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/freeform/internal/doctree"
)

// TextParser handles plain text files. Each paragraph becomes a node whose
// source lines are joined with line breaks.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current []string

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, joinLines(current))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, joinLines(current))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{
		Title: strings.TrimSuffix(filename, ".txt"),
	}
	for _, para := range paragraphs {
		tree.Children = append(tree.Children, &doctree.DocNode{
			Text: para,
		})
	}

	return tree, nil
}
