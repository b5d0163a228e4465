// Package doctree holds the data model shared by importers, the segmenter
// and the renderers: imported source trees and segmented question documents.
package doctree

import "strings"

// DocTree is the root of an imported question file.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section of an imported file.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Annotated question text, lines separated by <br>
	Page     int        // Source page/line (0 if N/A)
	Children []*DocNode // Subsections
}

// Markup flattens the tree into one block of annotated question text.
// Headings become plain lines and sections are separated by a blank line.
func (t *DocTree) Markup() string {
	var parts []string
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" {
				parts = append(parts, n.Title)
			}
			if n.Text != "" {
				parts = append(parts, n.Text)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return strings.Join(parts, "<br><br>")
}

// ClauseKind identifies what a Clause holds.
type ClauseKind int

const (
	ClausePlain              ClauseKind = iota // running text
	ClauseExpression                           // ( ... )
	ClauseBlock                                // [ ... ]
	ClauseQuestion                             // ?word, a free-text answer slot
	ClauseExpressionQuestion                   // ?( ... )
	ClauseBlockQuestion                        // ?[ ... ]
	ClauseEmbedded                             // ( ... ?( ... ) ... ), one question
	ClauseEmbeddedMany                         // ( ... ?( ... ) ... ?x ... ), several questions
)

var clauseKindNames = map[ClauseKind]string{
	ClausePlain:              "...",
	ClauseExpression:         "()",
	ClauseBlock:              "[]",
	ClauseQuestion:           "?",
	ClauseExpressionQuestion: "?()",
	ClauseBlockQuestion:      "?[]",
	ClauseEmbedded:           "(?)",
	ClauseEmbeddedMany:       "(??)",
}

func (k ClauseKind) String() string { return clauseKindNames[k] }

// IsQuestion reports whether the clause is an answer slot that cannot serve
// as a row label.
func (k ClauseKind) IsQuestion() bool {
	return k == ClauseQuestion || k == ClauseBlockQuestion || k.IsEmbedded()
}

// IsEmbedded reports whether the clause is an expression holding questions.
func (k ClauseKind) IsEmbedded() bool {
	return k == ClauseEmbedded || k == ClauseEmbeddedMany
}

// Clause is one segment of a Line. Question clauses carry " ?id? "
// placeholders in Text.
type Clause struct {
	Kind      ClauseKind `json:"kind"`
	Text      string     `json:"text"`
	Numeric   bool       `json:"numeric,omitempty"`
	Multiline bool       `json:"multiline,omitempty"`
}

// LineKind is the layout role of a Line after qualification.
type LineKind int

const (
	LineBlank LineKind = iota
	LineParagraph
	LineTable
)

func (k LineKind) String() string {
	switch k {
	case LineParagraph:
		return "para"
	case LineTable:
		return "tbl"
	}
	return "blank"
}

// Line is a run of clauses between line breaks.
type Line struct {
	Clauses    []Clause
	Directives Directives
	Kind       LineKind

	// NextQuestionID is the number of questions created before the line
	// started. LastQuestionID is one past the last question rendered with
	// the line or the table group it closes.
	NextQuestionID int
	LastQuestionID int
}

// QuestionKind identifies how a question was written.
type QuestionKind string

const (
	QuestionExpression    QuestionKind = "?()"    // ?( ... ) or ?word that looks like maths
	QuestionText          QuestionKind = "?..."   // ?word
	QuestionBlock         QuestionKind = "?[]"    // ?[ ... ]
	QuestionSubExpression QuestionKind = "(?())"  // ( ... ?( ... ) ... )
	QuestionInlineSub     QuestionKind = "(?...)" // ( ... ?word ... )
)

// Question is an answer slot extracted from question text.
type Question struct {
	ID   int          `json:"id"`
	Kind QuestionKind `json:"type"`
	Text string       `json:"text"`
	// ExpressionIndex numbers the enclosing expression for sub-questions,
	// -1 otherwise. Inputs of one expression share a row.
	ExpressionIndex int        `json:"expression"`
	Directives      Directives `json:"directives"`
	Multiline       bool       `json:"multiline"`
}

// Header says whether a table's first line is a header row.
type Header int

const (
	HeaderAuto Header = iota // inferred from the table shape
	HeaderOn
)

// Directives control table layout. They are copied by value into every
// Line and Question.
type Directives struct {
	TableStyle string `json:"tbl_style"` // "", aligned, grid, labels, lines or boxes
	CellSize   int    `json:"cell_size"`
	Header     Header `json:"header"`
}

// DefaultDirectives returns the directives in force at the start of a
// document and after an empty ?? reset.
func DefaultDirectives() Directives {
	return Directives{CellSize: 10}
}

// Document is the segmented form of question text.
type Document struct {
	Lines     []Line
	Questions []Question
}

// ReferenceText is the text signed as the reference answer for a question.
// Block questions are compared as free text.
func (d *Document) ReferenceText(id int) (string, bool) {
	if id < 0 || id >= len(d.Questions) {
		return "", false
	}
	q := d.Questions[id]
	if q.Kind == QuestionBlock {
		return ":txt:" + q.Text, true
	}
	return q.Text, true
}
