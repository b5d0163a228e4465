package document

import "github.com/dgallion1/freeform/internal/doctree"

// Table styles.
const (
	StyleAligned = "aligned"
	StyleGrid    = "grid"
	StyleLabels  = "labels"
	StyleLines   = "lines"
	StyleBoxes   = "boxes"
)

// Layout is the shape decision for a group of table lines.
type Layout struct {
	Style  string `json:"style"`
	Header bool   `json:"header"`
	// Labels is set when no line starts with an answer slot, so the first
	// column can be rendered as row labels.
	Labels bool `json:"labels"`
	// Regular is set when line lengths change by the same Delta from the
	// second line on.
	Regular bool `json:"regular"`
	Delta   int  `json:"delta"`
}

// Grid reports whether the layout renders as a column-aligned grid.
func (l Layout) Grid() bool {
	return l.Style == StyleAligned || l.Style == StyleGrid
}

// ClassifyTable decides how a run of table lines is laid out. Directives
// override the inferred style and header.
func ClassifyTable(lines []doctree.Line, d doctree.Directives) Layout {
	if len(lines) == 0 {
		return Layout{Style: StyleLines, Regular: true}
	}
	l := Layout{Labels: true, Regular: true}
	last := 0
	for i, line := range lines {
		last = len(line.Clauses)
		if line.Clauses[0].Kind.IsQuestion() {
			l.Labels = false
		}
		switch {
		case i == 2:
			l.Delta = len(lines[2].Clauses) - len(lines[1].Clauses)
		case i > 2:
			if l.Delta != len(line.Clauses)-len(lines[i-1].Clauses) {
				l.Regular = false
			}
		}
	}

	if d.Header == doctree.HeaderOn {
		l.Header = true
	} else if l.Regular && len(lines) > 2 {
		first, second := lines[0].Clauses, lines[1].Clauses
		if l.Delta == 0 {
			short := len(first) == len(second)-1
			emptyCell := len(first) == len(second) && first[0].Text == ""
			l.Header = short || emptyCell
		} else {
			l.Header = l.Delta != len(second)-len(first)
		}
	}

	l.Style = d.TableStyle
	if l.Style == "" {
		switch {
		case l.Regular && l.Delta == 0:
			l.Style = StyleGrid
			if last == 2 {
				l.Style = StyleAligned
			}
		case l.Labels:
			l.Style = StyleLabels
		case l.Regular:
			l.Style = StyleBoxes
		default:
			l.Style = StyleLines
		}
	}
	return l
}
