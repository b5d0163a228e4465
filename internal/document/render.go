package document

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/freeform/internal/beautify"
	"github.com/dgallion1/freeform/internal/doctree"
)

// Options are the per-call render parameters. Answers are indexed by
// question id; Context and Instance scope the generated input names.
type Options struct {
	Answers  []string
	Context  string
	Instance string
}

// Result is a rendered document.
type Result struct {
	HTML      string             `json:"html"`
	Questions []doctree.Question `json:"questions"`
	// Expressions maps the id of a question embedded in an expression to the
	// expression text, so the expression can be re-rendered as answers change.
	Expressions map[int]string `json:"expressions"`
}

// Render segments question text and renders it. Every line group is
// followed by the inputs for the questions it introduced.
func Render(text string, opts Options) Result {
	doc := Segment(text)
	r := &renderer{
		opts:        opts,
		doc:         doc,
		expressions: map[int]string{},
	}
	root := "<div id='" + r.name("root") + "' class='freeform-root freeform'>" + r.lines() + "</div>"
	questions := doc.Questions
	if questions == nil {
		questions = []doctree.Question{}
	}
	return Result{HTML: root, Questions: questions, Expressions: r.expressions}
}

type renderer struct {
	opts        Options
	doc         *doctree.Document
	expressions map[int]string
}

func (r *renderer) name(id string) string {
	return beautify.QuestionName(r.opts.Context, r.opts.Instance, id)
}

func (r *renderer) beautify(text string) string {
	return beautify.Beautify(text, beautify.Options{
		Answers:  r.opts.Answers,
		Context:  r.opts.Context,
		Instance: r.opts.Instance,
	})
}

// ref returns the first question id referenced in a clause, "" if none.
func ref(c doctree.Clause) string {
	if m := questionRef.FindStringSubmatch(c.Text); m != nil {
		return m[1]
	}
	return ""
}

func (r *renderer) embedded(qid string, c doctree.Clause) {
	if id, err := strconv.Atoi(qid); err == nil {
		r.expressions[id] = c.Text
	}
}

func embeddedClass(class string, k doctree.ClauseKind) string {
	if k == doctree.ClauseEmbeddedMany {
		return class + " multiple"
	}
	return class
}

func (r *renderer) lines() string {
	lines := r.doc.Lines
	var b strings.Builder
	end := 0
	for i := 0; i < len(lines); {
		begin := end
		end = lines[i].LastQuestionID
		switch lines[i].Kind {
		case doctree.LineBlank:
			for i < len(lines) && lines[i].Kind == doctree.LineBlank {
				i++
			}
			if i < len(lines) {
				b.WriteString("<br>")
			}
		case doctree.LineTable:
			start := i
			for i < len(lines) && lines[i].Kind == doctree.LineTable {
				i++
			}
			b.WriteString(r.table(lines[start:i], lines[start].Directives))
		default:
			for _, c := range lines[i].Clauses {
				b.WriteString(r.inline(c))
			}
			b.WriteString("<br>")
			i++
		}
		b.WriteString(r.inputSet(begin, end))
	}
	return b.String()
}

func (r *renderer) inline(c doctree.Clause) string {
	qid := ref(c)
	q := r.name(qid)
	switch c.Kind {
	case doctree.ClauseQuestion, doctree.ClauseBlockQuestion:
		return "<label id='" + q + "' for='" + q + "' class='freeform-inline question'>?</label>"
	case doctree.ClauseExpressionQuestion:
		return "<label id='" + q + "' for='" + q + "' class='freeform-inline question full-expression'>?</label>"
	case doctree.ClauseEmbedded, doctree.ClauseEmbeddedMany:
		r.embedded(qid, c)
		return " <label id='" + q + "' for='" + q + "' class='" + embeddedClass("inline question expression", c.Kind) + "'>" + r.beautify("( "+c.Text+")") + "</label> "
	case doctree.ClauseExpression:
		return r.beautify("(" + c.Text + ")")
	}
	return c.Text
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func add(parent *html.Node, a atom.Atom, attrs ...string) *html.Node {
	n := element(a, attrs...)
	parent.AppendChild(n)
	return n
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// appendMarkup parses markup in the context of n and appends the result.
func appendMarkup(n *html.Node, markup string) {
	ctx := element(n.DataAtom)
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: markup})
		return
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// cell renders one clause into a table cell. Question clauses also point
// the enclosing cell at their input.
func (r *renderer) cell(parent *html.Node, c doctree.Clause) {
	qid := ref(c)
	q := r.name(qid)
	label := add(parent, atom.Label)
	switch c.Kind {
	case doctree.ClauseQuestion, doctree.ClauseBlockQuestion:
		setAttr(parent.Parent, "for", q)
		label.Attr = []html.Attribute{{Key: "class", Val: "question"}, {Key: "for", Val: q}, {Key: "id", Val: q}}
		appendMarkup(label, "?")
	case doctree.ClauseExpressionQuestion:
		setAttr(parent.Parent, "for", q)
		label.Attr = []html.Attribute{{Key: "class", Val: "question full-expression"}, {Key: "for", Val: q}, {Key: "id", Val: q}}
		appendMarkup(label, "?")
	case doctree.ClauseEmbedded, doctree.ClauseEmbeddedMany:
		r.embedded(qid, c)
		setAttr(parent.Parent, "for", q)
		label.Attr = []html.Attribute{{Key: "class", Val: embeddedClass("question expression", c.Kind)}, {Key: "id", Val: q}, {Key: "for", Val: q}}
		appendMarkup(label, r.beautify("( "+c.Text+")"))
	case doctree.ClauseExpression:
		appendMarkup(label, r.beautify("( "+c.Text+")"))
	default:
		appendMarkup(label, c.Text)
	}
}

func (r *renderer) table(lines []doctree.Line, d doctree.Directives) string {
	layout := ClassifyTable(lines, d)
	var t *html.Node
	switch layout.Style {
	case StyleAligned, StyleGrid:
		t = r.grid(layout.Style, lines, layout.Labels, layout.Header)
	case StyleLabels:
		t = r.labeled(lines, layout.Header)
	case StyleBoxes:
		t = r.boxes(lines, layout.Header)
	default:
		t = r.rows(lines)
	}
	return renderNode(t)
}

// grid renders one table row per line. A short first line is shifted right
// by one empty header cell.
func (r *renderer) grid(style string, lines []doctree.Line, labels, header bool) *html.Node {
	t := element(atom.Table, "class", "freeform-"+style)
	for i, line := range lines {
		row := add(t, atom.Tr)
		if i == 0 && len(lines) > 1 && len(lines[1].Clauses) > len(lines[0].Clauses) {
			add(row, atom.Th, "style", "border:0")
		}
		tag := atom.Td
		if labels {
			tag = atom.Th
		}
		for _, c := range line.Clauses {
			if header {
				tag = atom.Th
			}
			col := add(add(row, tag), atom.Div, "class", "flexparent")
			r.cell(col, c)
			tag = atom.Td
		}
		header = false
	}
	return t
}

// labeled renders two columns: the first clause as a row label and the rest
// of the line beside it.
func (r *renderer) labeled(lines []doctree.Line, header bool) *html.Node {
	t := element(atom.Table, "class", "freeform-lines")
	for i, line := range lines {
		row := add(t, atom.Tr)
		label := add(add(row, atom.Th), atom.Div, "class", "flexparent")
		tag := atom.Td
		if header {
			tag = atom.Th
		}
		body := add(add(row, tag), atom.Div, "class", "flexparent")
		switch {
		case i == 0 && len(line.Clauses) == 1:
			r.cell(body, line.Clauses[0])
		case line.Clauses[0].Text != "":
			r.cell(label, line.Clauses[0])
		}
		for _, c := range line.Clauses[1:] {
			r.cell(body, c)
		}
		header = false
	}
	return t
}

func (r *renderer) rows(lines []doctree.Line) *html.Node {
	t := element(atom.Table, "class", "freeform-lines")
	for _, line := range lines {
		col := add(add(add(t, atom.Tr), atom.Td), atom.Div, "class", "flexparent")
		for _, c := range line.Clauses {
			r.cell(col, c)
		}
	}
	return t
}

func (r *renderer) boxes(lines []doctree.Line, header bool) *html.Node {
	t := element(atom.Table, "class", "freeform-boxes")
	for _, line := range lines {
		tag := atom.Td
		if header {
			tag = atom.Th
		}
		col := add(add(t, atom.Tr), tag)
		for _, c := range line.Clauses {
			r.cell(col, c)
		}
		header = false
	}
	return t
}

// inputSet renders one text input per question in [begin, end). Inputs of
// questions embedded in the same expression share a row.
func (r *renderer) inputSet(begin, end int) string {
	if end <= begin {
		return ""
	}
	set := element(atom.Div, "class", "input-set", "for", r.name(strconv.Itoa(begin)))
	var row *html.Node
	last := -1
	for id := begin; id < end && id < len(r.doc.Questions); id++ {
		q := r.name(strconv.Itoa(id))
		expression := r.doc.Questions[id].ExpressionIndex
		if expression < 0 || row == nil || expression != last {
			row = add(set, atom.Div, "class", "input-row", "name", q)
		}
		last = expression
		col := add(row, atom.Div, "class", "input-col", "for", q)
		add(col, atom.Input, "type", "text", "name", q)
	}
	return renderNode(set)
}
