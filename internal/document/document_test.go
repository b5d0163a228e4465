package document

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dgallion1/freeform/internal/doctree"
)

func TestTokenize_Types(t *testing.T) {
	got := Tokenize("a ?(b)<br/>[c] ?? d")
	want := []Token{
		{TokenText, "a"},
		{TokenSpace, " "},
		{TokenQuestion, "?"},
		{TokenOpenParen, "("},
		{TokenText, "b"},
		{TokenCloseParen, ")"},
		{TokenBreak, "br"},
		{TokenOpenBlock, "["},
		{TokenText, "c"},
		{TokenCloseBlock, "]"},
		{TokenSpace, " "},
		{TokenDirective, "??"},
		{TokenText, "d"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTokenize_SemicolonIsOwnToken(t *testing.T) {
	got := Tokenize("a;b")
	if len(got) != 3 || got[1].Text != ";" || got[1].Type != TokenText {
		t.Fatalf("expected a ; b, got %+v", got)
	}
}

func TestFilterTag(t *testing.T) {
	tests := []struct{ in, want string }{
		{"<td>", "<td>"},
		{"</div>", "</div>"},
		{"<img src='x.png'/>", "<img src='x.png'/>"},
		{"<a href='#'>", "<a href='#'>"},
		{"<span class='x'>", " "},
		{"<b>", " "},
		{"<3", " "},
	}
	for _, tt := range tests {
		if got := filterTag(tt.in); got != tt.want {
			t.Errorf("filterTag(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestSegment_ExpressionQuestions(t *testing.T) {
	doc := Segment("Q1 ?(a+b) Q2 ?(c)")
	if len(doc.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(doc.Questions))
	}
	for i, want := range []string{"a+b", "c"} {
		q := doc.Questions[i]
		if q.ID != i || q.Kind != doctree.QuestionExpression || q.Text != want {
			t.Errorf("question %d: expected ?() %q, got %+v", i, want, q)
		}
		if q.ExpressionIndex != -1 {
			t.Errorf("question %d: expected no enclosing expression, got %d", i, q.ExpressionIndex)
		}
	}
	if len(doc.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(doc.Lines))
	}
	l := doc.Lines[0]
	if l.Kind != doctree.LineParagraph {
		t.Errorf("expected paragraph, got %s", l.Kind)
	}
	if l.LastQuestionID != 2 {
		t.Errorf("expected last question id 2, got %d", l.LastQuestionID)
	}
	if !strings.Contains(l.Clauses[1].Text, "?0?") || l.Clauses[1].Kind != doctree.ClauseExpressionQuestion {
		t.Errorf("expected placeholder clause, got %+v", l.Clauses[1])
	}
}

func TestSegment_WordQuestionKind(t *testing.T) {
	doc := Segment("Capital ?Paris and ?42")
	if len(doc.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(doc.Questions))
	}
	if doc.Questions[0].Kind != doctree.QuestionText || doc.Questions[0].Text != "Paris" {
		t.Errorf("expected free text question, got %+v", doc.Questions[0])
	}
	if doc.Questions[1].Kind != doctree.QuestionExpression {
		t.Errorf("expected number to be an expression question, got %+v", doc.Questions[1])
	}
}

func TestSegment_LoneQuestionMarkIsText(t *testing.T) {
	doc := Segment("Why ?")
	if len(doc.Questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(doc.Questions))
	}
	if doc.Lines[0].Clauses[0].Text != "Why ?" {
		t.Errorf("expected literal text, got %q", doc.Lines[0].Clauses[0].Text)
	}
}

func TestSegment_SemicolonSplitsQuestions(t *testing.T) {
	doc := Segment("?(a; b)")
	if len(doc.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(doc.Questions))
	}
	if doc.Questions[0].Text != "a" || strings.TrimSpace(doc.Questions[1].Text) != "b" {
		t.Errorf("expected a and b, got %q and %q", doc.Questions[0].Text, doc.Questions[1].Text)
	}
}

func TestSegment_SemicolonSplitsExpressions(t *testing.T) {
	doc := Segment("(a;b)")
	var exprs int
	for _, c := range doc.Lines[0].Clauses {
		if c.Kind == doctree.ClauseExpression {
			exprs++
		}
	}
	if exprs != 2 {
		t.Errorf("expected 2 expression clauses, got %+v", doc.Lines[0].Clauses)
	}
}

func TestSegment_EmbeddedQuestions(t *testing.T) {
	doc := Segment("(x + ?(y) + ?z) and (?(w))")
	if len(doc.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(doc.Questions))
	}
	if doc.Questions[0].Kind != doctree.QuestionSubExpression || doc.Questions[0].Text != "y" {
		t.Errorf("expected sub-expression question y, got %+v", doc.Questions[0])
	}
	if doc.Questions[1].Kind != doctree.QuestionInlineSub || doc.Questions[1].Text != "z" {
		t.Errorf("expected inline sub-question z, got %+v", doc.Questions[1])
	}
	if doc.Questions[0].ExpressionIndex != 0 || doc.Questions[1].ExpressionIndex != 0 {
		t.Errorf("expected both in expression 0, got %d and %d", doc.Questions[0].ExpressionIndex, doc.Questions[1].ExpressionIndex)
	}
	if doc.Questions[2].ExpressionIndex != 1 {
		t.Errorf("expected third in expression 1, got %d", doc.Questions[2].ExpressionIndex)
	}
	c := doc.Lines[0].Clauses[0]
	if c.Kind != doctree.ClauseEmbeddedMany {
		t.Fatalf("expected clause with several questions, got %s", c.Kind)
	}
	if !strings.Contains(c.Text, "?0?") || !strings.Contains(c.Text, "?1?") {
		t.Errorf("expected both placeholders in %q", c.Text)
	}
}

func TestSegment_EmbeddedQuestionCount(t *testing.T) {
	tests := []struct {
		text string
		kind doctree.ClauseKind
	}{
		{"(x + ?(y))", doctree.ClauseEmbedded},
		{"(x + ?y)", doctree.ClauseEmbedded},
		{"(?(x) + ?(y))", doctree.ClauseEmbeddedMany},
		{"(?x + ?(y) + ?z)", doctree.ClauseEmbeddedMany},
		{"(x + y)", doctree.ClauseExpression},
	}
	for _, tt := range tests {
		c := Segment(tt.text).Lines[0].Clauses[0]
		if c.Kind != tt.kind {
			t.Errorf("%q: expected %s, got %s", tt.text, tt.kind, c.Kind)
		}
	}
}

func TestRender_EmbeddedQuestionClass(t *testing.T) {
	tests := []struct {
		text  string
		class string
	}{
		{"(x + ?(y)) text", "class='inline question expression'"},
		{"(?(x) + ?(y)) text", "class='inline question expression multiple'"},
		{"Name (x + ?(y))<br>Age (?(a) + ?(b))", `class="question expression multiple"`},
	}
	for _, tt := range tests {
		res := Render(tt.text, Options{})
		if !strings.Contains(res.HTML, tt.class) {
			t.Errorf("%q: expected %s in %q", tt.text, tt.class, res.HTML)
		}
		parseHTML(t, res.HTML)
	}
}

func TestSegment_NestedDepthRestored(t *testing.T) {
	doc := Segment("(a + ?((b)) + c) tail")
	if len(doc.Questions) != 1 || doc.Questions[0].Text != "(b)" {
		t.Fatalf("expected one question (b), got %+v", doc.Questions)
	}
	c := doc.Lines[0].Clauses[0]
	if !strings.HasSuffix(strings.TrimSpace(c.Text), "+ c") {
		t.Errorf("expected expression to continue after the sub-question, got %q", c.Text)
	}
	if doc.Lines[0].Clauses[1].Text != " tail" {
		t.Errorf("expected trailing text outside the expression, got %+v", doc.Lines[0].Clauses)
	}
}

func TestSegment_BlockQuestion(t *testing.T) {
	doc := Segment("Explain ?[why it<br>works]")
	if len(doc.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(doc.Questions))
	}
	q := doc.Questions[0]
	if q.Kind != doctree.QuestionBlock || q.Text != "why it\nworks" || !q.Multiline {
		t.Errorf("expected multiline block question, got %+v", q)
	}
	ref, ok := doc.ReferenceText(0)
	if !ok || ref != ":txt:why it\nworks" {
		t.Errorf("expected free text reference, got %q", ref)
	}
	if _, ok := doc.ReferenceText(1); ok {
		t.Error("expected no reference text for unknown question")
	}
}

func TestSegment_Block(t *testing.T) {
	doc := Segment("[cell one] [cell two]")
	l := doc.Lines[0]
	if l.Kind != doctree.LineTable {
		t.Fatalf("expected table line, got %s", l.Kind)
	}
	if len(l.Clauses) != 2 || l.Clauses[0].Kind != doctree.ClauseBlock || l.Clauses[0].Text != "cell one" {
		t.Errorf("expected two block clauses, got %+v", l.Clauses)
	}
}

func TestSegment_UnclosedConstructs(t *testing.T) {
	doc := Segment("?(a+b")
	if len(doc.Questions) != 1 || doc.Questions[0].Text != "a+b" {
		t.Errorf("expected pending question flushed, got %+v", doc.Questions)
	}

	doc = Segment("[abc")
	c := doc.Lines[0].Clauses[0]
	if c.Kind != doctree.ClausePlain || c.Text != "[abc" {
		t.Errorf("expected unclosed block reverted to text, got %+v", c)
	}

	doc = Segment("[abc<br>def")
	if len(doc.Lines) != 2 || doc.Lines[0].Clauses[0].Text != "[abc" {
		t.Errorf("expected block reverted at line break, got %+v", doc.Lines)
	}

	doc = Segment("?[abc")
	if len(doc.Questions) != 1 || doc.Questions[0].Kind != doctree.QuestionBlock {
		t.Errorf("expected pending block question flushed, got %+v", doc.Questions)
	}

	doc = Segment("(x + ?(y")
	if len(doc.Questions) != 1 || doc.Questions[0].Kind != doctree.QuestionSubExpression {
		t.Errorf("expected pending sub-question flushed, got %+v", doc.Questions)
	}
}

func TestSegment_NumericExpression(t *testing.T) {
	doc := Segment("( 3+4) and (x)")
	var clauses []doctree.Clause
	for _, c := range doc.Lines[0].Clauses {
		if c.Kind == doctree.ClauseExpression {
			clauses = append(clauses, c)
		}
	}
	if len(clauses) != 2 {
		t.Fatalf("expected 2 expressions, got %+v", doc.Lines[0].Clauses)
	}
	if !clauses[0].Numeric || clauses[1].Numeric {
		t.Errorf("expected only the spaced expression numeric, got %+v", clauses)
	}
}

func TestSegment_MultilineExpression(t *testing.T) {
	doc := Segment("(a<br>b)")
	c := doc.Lines[0].Clauses[0]
	if !c.Multiline || c.Text != "a\nb" {
		t.Errorf("expected multiline expression, got %+v", c)
	}
	if doc.Lines[0].Kind != doctree.LineParagraph {
		t.Errorf("expected multiline clause to isolate the line, got %s", doc.Lines[0].Kind)
	}
}

func TestSegment_Paragraphs(t *testing.T) {
	doc := Segment("<p>a</p><p>b</p>")
	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(doc.Lines))
	}
	kinds := []doctree.LineKind{doctree.LineParagraph, doctree.LineParagraph, doctree.LineBlank}
	for i, k := range kinds {
		if doc.Lines[i].Kind != k {
			t.Errorf("line %d: expected %s, got %s", i, k, doc.Lines[i].Kind)
		}
	}
}

func TestSegment_TagsFiltered(t *testing.T) {
	doc := Segment("a<span>b</span><a href='#'>c")
	got := doc.Lines[0].Clauses[0].Text
	if got != "a b <a href='#'>c" {
		t.Errorf("expected filtered text, got %q", got)
	}
	doc = Segment("(a<span>+b)")
	if got := doc.Lines[0].Clauses[0].Text; got != "a +b" {
		t.Errorf("expected tags blanked in expressions, got %q", got)
	}
}

func TestSegment_CommonDirective(t *testing.T) {
	doc := Segment("?? grid<br>a ?x<br>b ?y")
	if doc.Lines[0].Kind != doctree.LineBlank {
		t.Errorf("expected directive line blank, got %s", doc.Lines[0].Kind)
	}
	for i := 1; i < 3; i++ {
		if doc.Lines[i].Directives.TableStyle != "grid" {
			t.Errorf("line %d: expected grid, got %q", i, doc.Lines[i].Directives.TableStyle)
		}
	}
	for _, q := range doc.Questions {
		if q.Directives.TableStyle != "grid" {
			t.Errorf("question %d: expected grid, got %q", q.ID, q.Directives.TableStyle)
		}
	}
}

func TestSegment_LocalDirective(t *testing.T) {
	doc := Segment("??boxes 3 ?x ?y")
	if len(doc.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(doc.Questions))
	}
	d := doc.Questions[0].Directives
	if d.TableStyle != "boxes" || d.CellSize != 3 {
		t.Errorf("expected local boxes 3, got %+v", d)
	}
	if doc.Questions[1].Directives != doctree.DefaultDirectives() {
		t.Errorf("expected local directive to apply once, got %+v", doc.Questions[1].Directives)
	}
}

func TestSegment_DirectiveReset(t *testing.T) {
	doc := Segment("??header<br>?x<br>??<br>?y")
	if doc.Questions[0].Directives.Header != doctree.HeaderOn {
		t.Errorf("expected header directive, got %+v", doc.Questions[0].Directives)
	}
	if doc.Questions[1].Directives != doctree.DefaultDirectives() {
		t.Errorf("expected reset directives, got %+v", doc.Questions[1].Directives)
	}
}

func TestSegment_UnknownDirectiveIgnored(t *testing.T) {
	doc := Segment("??sparkly<br>?x")
	if doc.Questions[0].Directives != doctree.DefaultDirectives() {
		t.Errorf("expected defaults, got %+v", doc.Questions[0].Directives)
	}
}

func TestApplyDirective(t *testing.T) {
	tests := []struct {
		in   string
		want doctree.Directives
	}{
		{"Aligned", doctree.Directives{TableStyle: "aligned", CellSize: 10}},
		{" labels ", doctree.Directives{TableStyle: "labels", CellSize: 10}},
		{"boxes&nbsp;4", doctree.Directives{TableStyle: "boxes", CellSize: 4}},
		{"boxes 0", doctree.Directives{TableStyle: "boxes", CellSize: 10}},
		{"header", doctree.Directives{CellSize: 10, Header: doctree.HeaderOn}},
		{"grid lines", doctree.Directives{CellSize: 10}},
	}
	for _, tt := range tests {
		d := doctree.DefaultDirectives()
		applyDirective(&d, tt.in)
		if d != tt.want {
			t.Errorf("applyDirective(%q): expected %+v, got %+v", tt.in, tt.want, d)
		}
	}
}

func TestSegment_TableQuestionLocation(t *testing.T) {
	doc := Segment("Name ?x<br>Age ?y<br>Done")
	want := []struct {
		kind      doctree.LineKind
		next, end int
	}{
		{doctree.LineTable, 0, 2},
		{doctree.LineTable, 1, 2},
		{doctree.LineParagraph, 2, 2},
	}
	for i, w := range want {
		l := doc.Lines[i]
		if l.Kind != w.kind || l.NextQuestionID != w.next || l.LastQuestionID != w.end {
			t.Errorf("line %d: expected %s %d..%d, got %s %d..%d", i, w.kind, w.next, w.end, l.Kind, l.NextQuestionID, l.LastQuestionID)
		}
	}
}

func TestSegment_NeverPanics(t *testing.T) {
	inputs := []string{"", "?", "??", "(", ")", "[", "]", "?(", "?[", "((", "(?(", "(?(?(", ";", "(;;)", "<br>", "<p>", "<", "?? ?? ??", "(??grid)", "(?? x ?y)"}
	for _, in := range inputs {
		doc := Segment(in)
		if len(doc.Lines) == 0 {
			t.Errorf("%q: expected at least one line", in)
		}
		_ = Render(in, Options{})
	}
}

func shape(lengths ...int) []doctree.Line {
	lines := make([]doctree.Line, len(lengths))
	for i, n := range lengths {
		for j := 0; j < n; j++ {
			lines[i].Clauses = append(lines[i].Clauses, doctree.Clause{Kind: doctree.ClauseBlock, Text: "c"})
		}
	}
	return lines
}

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name    string
		lines   []doctree.Line
		style   string
		header  bool
		regular bool
	}{
		{"grid with short header", shape(2, 3, 3, 3), StyleGrid, true, true},
		{"two column header", shape(1, 2, 2, 2), StyleAligned, true, true},
		{"plain grid", shape(3, 3, 3), StyleGrid, false, true},
		{"two lines", shape(2, 3), StyleGrid, false, true},
		{"staircase", shape(1, 2, 3, 4), StyleLabels, false, true},
		{"pyramid header", shape(4, 1, 2, 3), StyleLabels, true, true},
		{"irregular", shape(2, 5, 1, 3), StyleLabels, false, false},
	}
	for _, tt := range tests {
		l := ClassifyTable(tt.lines, doctree.DefaultDirectives())
		if l.Style != tt.style || l.Header != tt.header || l.Regular != tt.regular {
			t.Errorf("%s: expected %s header=%v regular=%v, got %+v", tt.name, tt.style, tt.header, tt.regular, l)
		}
	}
}

func TestClassifyTable_QuestionColumnsDropLabels(t *testing.T) {
	regular := shape(1, 2, 3, 4)
	irregular := shape(2, 5, 1, 3)
	for _, lines := range [][]doctree.Line{regular, irregular} {
		lines[1].Clauses[0] = doctree.Clause{Kind: doctree.ClauseQuestion, Text: " ?0? "}
	}
	if l := ClassifyTable(regular, doctree.DefaultDirectives()); l.Labels || l.Style != StyleBoxes {
		t.Errorf("expected boxes, got %+v", l)
	}
	if l := ClassifyTable(irregular, doctree.DefaultDirectives()); l.Style != StyleLines {
		t.Errorf("expected lines, got %+v", l)
	}
}

func TestClassifyTable_EmptyFirstCellHeader(t *testing.T) {
	lines := shape(3, 3, 3)
	lines[0].Clauses[0].Text = ""
	if l := ClassifyTable(lines, doctree.DefaultDirectives()); !l.Header {
		t.Errorf("expected header for empty corner cell, got %+v", l)
	}
}

func TestClassifyTable_DirectivesWin(t *testing.T) {
	d := doctree.Directives{TableStyle: StyleBoxes, CellSize: 10, Header: doctree.HeaderOn}
	l := ClassifyTable(shape(3, 3), d)
	if l.Style != StyleBoxes || !l.Header {
		t.Errorf("expected boxes with header, got %+v", l)
	}
	if l.Grid() {
		t.Error("expected boxes not to be a grid layout")
	}
}

func parseHTML(t *testing.T, markup string) {
	t.Helper()
	if _, err := html.Parse(strings.NewReader(markup)); err != nil {
		t.Fatalf("markup does not parse: %v", err)
	}
}

func TestRender_Paragraphs(t *testing.T) {
	res := Render("<p>a</p><p>b</p>", Options{})
	want := "<div id='ffq__root' class='freeform-root freeform'>a<br>b<br></div>"
	if res.HTML != want {
		t.Errorf("expected %q, got %q", want, res.HTML)
	}
	if res.Questions == nil || len(res.Questions) != 0 {
		t.Errorf("expected empty question list, got %+v", res.Questions)
	}
}

func TestRender_BlankRuns(t *testing.T) {
	res := Render("a<br><br><br>b", Options{})
	if !strings.Contains(res.HTML, "a<br><br>b<br>") {
		t.Errorf("expected blank run collapsed to one break, got %q", res.HTML)
	}
}

func TestRender_InlineQuestions(t *testing.T) {
	res := Render("Q1 ?(a+b) Q2 ?(c)", Options{Instance: "7"})
	if !strings.HasPrefix(res.HTML, "<div id='ffq_7_root'") {
		t.Errorf("expected instance root id, got %q", res.HTML)
	}
	for _, want := range []string{
		"<label id='ffq_7_0' for='ffq_7_0' class='freeform-inline question full-expression'>?</label>",
		"<label id='ffq_7_1' for='ffq_7_1' class='freeform-inline question full-expression'>?</label>",
		`<div class="input-set" for="ffq_7_0">`,
		`<div class="input-row" name="ffq_7_1">`,
		`<input type="text" name="ffq_7_1"/>`,
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("expected %q in %q", want, res.HTML)
		}
	}
	if strings.Index(res.HTML, "input-set") < strings.Index(res.HTML, "<br>") {
		t.Errorf("expected inputs after the line, got %q", res.HTML)
	}
	parseHTML(t, res.HTML)
}

func TestRender_InlineExpression(t *testing.T) {
	res := Render("Solve (x+1) now", Options{})
	if !strings.Contains(res.HTML, "<div class='freeform-root'>") {
		t.Errorf("expected beautified expression, got %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "Solve ") || !strings.Contains(res.HTML, " now<br>") {
		t.Errorf("expected surrounding text, got %q", res.HTML)
	}
}

func TestRender_EmbeddedQuestionsShareRow(t *testing.T) {
	res := Render("(x + ?(y) + ?z) text", Options{Answers: []string{"2", ""}})
	if got := res.Expressions[0]; !strings.Contains(got, "?0?") {
		t.Errorf("expected expression recorded for question 0, got %q", got)
	}
	if !strings.Contains(res.HTML, "class='inline question expression multiple'") {
		t.Errorf("expected embedded label, got %q", res.HTML)
	}
	if n := strings.Count(res.HTML, `class="input-row"`); n != 1 {
		t.Errorf("expected 1 input row, got %d in %q", n, res.HTML)
	}
	if n := strings.Count(res.HTML, `class="input-col"`); n != 2 {
		t.Errorf("expected 2 input columns, got %d", n)
	}
	parseHTML(t, res.HTML)
}

func TestRender_Table(t *testing.T) {
	res := Render("Name ?x<br>Age ?y<br>Done", Options{})
	for _, want := range []string{
		`<table class="freeform-aligned">`,
		`<th><div class="flexparent"><label>Name </label></div></th>`,
		`<td for="ffq__0"><div class="flexparent"><label class="question" for="ffq__0" id="ffq__0">?</label></div></td>`,
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("expected %q in %q", want, res.HTML)
		}
	}
	table := strings.Index(res.HTML, "</table>")
	inputs := strings.Index(res.HTML, "input-set")
	done := strings.Index(res.HTML, "Done")
	if !(table < inputs && inputs < done) {
		t.Errorf("expected inputs between table and trailing text, got %q", res.HTML)
	}
	parseHTML(t, res.HTML)
}

func TestRender_TableStyles(t *testing.T) {
	tests := []struct{ text, class string }{
		{"??boxes<br>?x ?y<br>?z", "freeform-boxes"},
		{"??lines<br>a ?x<br>b ?y", "freeform-lines"},
		{"??labels<br>a ?x ?y<br>b ?z", "freeform-lines"},
		{"??grid<br>a ?x<br>b ?y", "freeform-grid"},
	}
	for _, tt := range tests {
		res := Render(tt.text, Options{})
		if !strings.Contains(res.HTML, `<table class="`+tt.class+`">`) {
			t.Errorf("%q: expected %s table, got %q", tt.text, tt.class, res.HTML)
		}
		parseHTML(t, res.HTML)
	}
}

func TestRender_ShortFirstRowShifted(t *testing.T) {
	res := Render("[a] [b]<br>[r] [1] [2]<br>[s] [3] [4]", Options{})
	if !strings.Contains(res.HTML, `<tr><th style="border:0"></th><th>`) {
		t.Errorf("expected corner cell and header row, got %q", res.HTML)
	}
}

func TestRender_ContextNames(t *testing.T) {
	res := Render("Q ?x now", Options{Context: "c", Instance: "1"})
	if !strings.Contains(res.HTML, "id='c_ffq_1_0'") {
		t.Errorf("expected context-scoped name, got %q", res.HTML)
	}
}
