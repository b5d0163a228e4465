package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/freeform/internal/doctree"
)

// CSVParser handles CSV files. Every record becomes one table line: plain
// cells are wrapped in [ ] blocks, cells starting with ? are kept as
// questions.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{
		Title: strings.TrimSuffix(filename, ".csv"),
	}
	if len(records) == 0 {
		return tree, nil
	}

	lines := make([]string, 0, len(records))
	for _, row := range records {
		lines = append(lines, tableLine(row))
	}
	tree.Children = append(tree.Children, &doctree.DocNode{
		Text: strings.Join(lines, lineBreak),
	})
	return tree, nil
}

// tableLine renders a row of cells as one line of annotated text.
func tableLine(cells []string) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if strings.HasPrefix(c, "?") {
			parts = append(parts, c)
			continue
		}
		parts = append(parts, "["+c+"]")
	}
	return strings.Join(parts, " ")
}
