package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/freeform/internal/doctree"
	"github.com/dgallion1/freeform/internal/expr"
)

type state int

const (
	stateText state = iota
	stateExpression
	stateExpressionQuestion
	stateBlockQuestion
	stateSubQuestion
	stateDirective
	stateExpressionDirective
	stateBlock
)

// segmenter holds the state of one Segment call.
type segmenter struct {
	tokens []Token
	pos    int
	state  state
	doc    *doctree.Document

	depth      int
	savedDepth int
	expression int

	questionText string
	multiline    bool

	directiveText string
	common        doctree.Directives
	local         doctree.Directives
}

// Segment splits question text into lines of clauses and extracts its
// questions. Question clauses reference their question through " ?id? "
// placeholders. Lines are qualified as blank, paragraph or table and each
// knows the last question rendered after it.
func Segment(text string) *doctree.Document {
	s := &segmenter{
		tokens:     Tokenize(text),
		doc:        &doctree.Document{},
		expression: -1,
		common:     doctree.DefaultDirectives(),
		local:      doctree.DefaultDirectives(),
	}
	s.doc.Lines = []doctree.Line{{
		Clauses:    []doctree.Clause{{}},
		Directives: s.local,
	}}
	for s.pos < len(s.tokens) {
		tok := s.tokens[s.pos]
		s.pos++
		s.step(tok, s.peek())
	}
	s.flush()
	qualify(s.doc.Lines)
	locate(s.doc.Lines, len(s.doc.Questions))
	return s.doc
}

func (s *segmenter) peek() Token {
	if s.pos < len(s.tokens) {
		return s.tokens[s.pos]
	}
	return Token{Type: TokenSpace}
}

func (s *segmenter) consume() { s.pos++ }
func (s *segmenter) rewind()  { s.pos-- }

func (s *segmenter) line() *doctree.Line {
	return &s.doc.Lines[len(s.doc.Lines)-1]
}

// clause is always the last clause of the last line.
func (s *segmenter) clause() *doctree.Clause {
	l := s.line()
	return &l.Clauses[len(l.Clauses)-1]
}

func (s *segmenter) pristine() bool {
	c := s.clause()
	return c.Kind == doctree.ClausePlain && c.Text == ""
}

func (s *segmenter) initQuestion() {
	s.multiline = false
	s.questionText = ""
}

func (s *segmenter) initExpression() {
	s.depth = 1
	s.expression++
}

func (s *segmenter) initSubExpression() {
	s.savedDepth = s.depth
	s.depth = 1
}

func (s *segmenter) endSubExpression() {
	s.depth = s.savedDepth
}

func (s *segmenter) addQuestion(kind doctree.QuestionKind, text string) string {
	id := len(s.doc.Questions)
	exprIdx := -1
	if kind == doctree.QuestionSubExpression || kind == doctree.QuestionInlineSub {
		exprIdx = s.expression
	}
	s.doc.Questions = append(s.doc.Questions, doctree.Question{
		ID:              id,
		Kind:            kind,
		Text:            text,
		ExpressionIndex: exprIdx,
		Directives:      s.local,
		Multiline:       s.multiline,
	})
	s.local = s.common
	return " ?" + strconv.Itoa(id) + "? "
}

func (s *segmenter) addLine() {
	l := s.line()
	if s.pristine() {
		l.Clauses = l.Clauses[:len(l.Clauses)-1]
	}
	s.doc.Lines = append(s.doc.Lines, doctree.Line{
		Clauses:        []doctree.Clause{{}},
		Directives:     s.local,
		NextQuestionID: len(s.doc.Questions),
	})
}

// addClause starts a clause of the given kind, reusing the current one when
// nothing has been written to it.
func (s *segmenter) addClause(kind doctree.ClauseKind, text string) {
	if s.pristine() {
		*s.clause() = doctree.Clause{Kind: kind, Text: text}
		return
	}
	l := s.line()
	l.Clauses = append(l.Clauses, doctree.Clause{Kind: kind, Text: text})
}

func (s *segmenter) addQuestionClause(kind doctree.QuestionKind, text string) {
	ref := s.addQuestion(kind, text)
	switch kind {
	case doctree.QuestionExpression:
		s.addClause(doctree.ClauseExpressionQuestion, ref)
	case doctree.QuestionBlock:
		s.addClause(doctree.ClauseBlockQuestion, ref)
	default:
		s.addClause(doctree.ClauseQuestion, ref)
	}
	s.addClause(doctree.ClausePlain, "")
}

var (
	nbsp          = regexp.MustCompile(`&nbsp;`)
	directiveWord = regexp.MustCompile(`(?i)^\s*(aligned|grid|labels|lines)\s*$`)
	directiveBox  = regexp.MustCompile(`(?i)^\s*boxes(\s+\d+)?\s*$`)
	directiveHead = regexp.MustCompile(`(?i)^\s*header\s*$`)
)

// applyDirective updates d with one directive. Unknown directives are
// ignored.
func applyDirective(d *doctree.Directives, text string) {
	text = nbsp.ReplaceAllString(text, " ")
	if m := directiveWord.FindStringSubmatch(text); m != nil {
		d.TableStyle = strings.ToLower(m[1])
		return
	}
	if m := directiveBox.FindStringSubmatch(text); m != nil {
		d.TableStyle = "boxes"
		if n, err := strconv.Atoi(strings.TrimSpace(m[1])); err == nil && n > 0 {
			d.CellSize = n
		}
		return
	}
	if directiveHead.MatchString(text) {
		d.Header = doctree.HeaderOn
	}
}

// commitDirective makes the pending directive the common one, or resets the
// common directives when it is empty.
func (s *segmenter) commitDirective() {
	if s.directiveText != "" {
		applyDirective(&s.common, s.directiveText)
	} else {
		s.common = doctree.DefaultDirectives()
	}
	s.local = s.common
}

func (s *segmenter) step(tok, next Token) {
	switch s.state {
	case stateText:
		s.text(tok, next)
	case stateExpression:
		s.expressionStep(tok, next)
	case stateExpressionQuestion:
		s.expressionQuestion(tok)
	case stateBlockQuestion:
		s.blockQuestion(tok)
	case stateSubQuestion:
		s.subQuestion(tok)
	case stateDirective:
		s.directive(tok, stateText, TokenBreak)
	case stateExpressionDirective:
		s.directive(tok, stateExpression, TokenOpenParen, TokenCloseParen)
	case stateBlock:
		s.block(tok)
	}
}

func (s *segmenter) text(tok, next Token) {
	switch tok.Type {
	case TokenBreak:
		if tok.Text == "p" && s.pos == 1 {
			return
		}
		if (tok.Text == "br" || tok.Text == "/p") && next.Type == TokenBreak && next.Text == "p" {
			s.consume()
		}
		s.addLine()
		return
	case TokenOpenParen:
		s.state = stateExpression
		s.initExpression()
		s.addClause(doctree.ClauseExpression, "")
		if next.Type == TokenSpace {
			s.clause().Numeric = true
			s.consume()
		}
		return
	case TokenOpenBlock:
		s.state = stateBlock
		s.addClause(doctree.ClauseBlock, "")
		return
	case TokenDirective:
		s.state = stateDirective
		s.directiveText = ""
		return
	case TokenQuestion:
		s.initQuestion()
		switch next.Type {
		case TokenOpenParen:
			s.state = stateExpressionQuestion
			s.initExpression()
			s.consume()
			return
		case TokenOpenBlock:
			s.state = stateBlockQuestion
			s.consume()
			return
		case TokenText:
			kind := doctree.QuestionText
			if expr.LooksLikeExpression(next.Text) {
				kind = doctree.QuestionExpression
			}
			s.addQuestionClause(kind, next.Text)
			s.consume()
			return
		}
	case TokenTag:
		s.clause().Text += filterTag(tok.Text)
		return
	}
	s.clause().Text += tok.Text
}

func (s *segmenter) expressionStep(tok, next Token) {
	c := s.clause()
	switch tok.Type {
	case TokenBreak:
		if s.depth == 1 {
			c.Multiline = true
			c.Text += "\n"
		}
		return
	case TokenOpenParen:
		s.depth++
		c.Numeric = true
	case TokenCloseParen:
		s.depth--
		if s.depth == 0 {
			s.state = stateText
			s.addClause(doctree.ClausePlain, "")
			return
		}
	case TokenDirective:
		s.state = stateExpressionDirective
		s.directiveText = ""
		return
	case TokenQuestion:
		s.initQuestion()
		switch next.Type {
		case TokenOpenParen:
			s.state = stateSubQuestion
			c.Kind = embed(c.Kind)
			s.initSubExpression()
			s.consume()
			return
		case TokenText:
			c.Text += s.addQuestion(doctree.QuestionInlineSub, expr.Clean(next.Text))
			c.Kind = embed(c.Kind)
			s.consume()
			return
		}
	case TokenTag:
		c.Text += " "
		return
	case TokenText:
		if tok.Text == ";" && s.depth == 1 {
			s.addClause(doctree.ClauseExpression, "")
			s.initExpression()
			return
		}
	}
	c.Text += tok.Text
}

// embed is the kind of an expression clause after one more question is
// embedded in it.
func embed(k doctree.ClauseKind) doctree.ClauseKind {
	if k.IsEmbedded() {
		return doctree.ClauseEmbeddedMany
	}
	return doctree.ClauseEmbedded
}

func (s *segmenter) expressionQuestion(tok Token) {
	switch tok.Type {
	case TokenBreak:
		if s.depth == 1 {
			s.multiline = true
			s.questionText += "\n"
		}
		return
	case TokenOpenParen:
		s.depth++
	case TokenCloseParen:
		s.depth--
		if s.depth == 0 {
			s.state = stateText
			s.addQuestionClause(doctree.QuestionExpression, expr.Clean(s.questionText))
			return
		}
	case TokenDirective, TokenQuestion, TokenTag:
		s.questionText += " "
		return
	case TokenText:
		if tok.Text == ";" && s.depth == 1 {
			s.addQuestionClause(doctree.QuestionExpression, expr.Clean(s.questionText))
			s.initQuestion()
			s.initExpression()
			return
		}
	}
	s.questionText += tok.Text
}

func (s *segmenter) blockQuestion(tok Token) {
	switch tok.Type {
	case TokenBreak:
		s.multiline = true
		s.questionText += "\n"
		return
	case TokenCloseBlock:
		s.state = stateText
		s.addQuestionClause(doctree.QuestionBlock, s.questionText)
		return
	case TokenDirective, TokenQuestion, TokenTag:
		s.questionText += " "
		return
	}
	s.questionText += tok.Text
}

func (s *segmenter) subQuestion(tok Token) {
	switch tok.Type {
	case TokenOpenParen:
		s.depth++
	case TokenCloseParen:
		s.depth--
		if s.depth == 0 {
			s.state = stateExpression
			s.clause().Text += s.addQuestion(doctree.QuestionSubExpression, expr.Clean(s.questionText))
			s.endSubExpression()
			return
		}
	case TokenBreak, TokenDirective, TokenQuestion, TokenTag:
		s.questionText += " "
		return
	}
	s.questionText += tok.Text
}

// directive accumulates directive text until a commit token, which makes it
// the common directive, or a question, which applies it to the next
// question only. Both hand the token back to the resume state.
func (s *segmenter) directive(tok Token, resume state, commit ...TokenType) {
	for _, t := range commit {
		if tok.Type == t {
			s.commitDirective()
			s.state = resume
			s.rewind()
			return
		}
	}
	switch tok.Type {
	case TokenDirective, TokenQuestion:
		applyDirective(&s.local, s.directiveText)
		s.state = resume
		s.rewind()
	case TokenTag:
		s.directiveText += " "
	default:
		s.directiveText += tok.Text
	}
}

func (s *segmenter) block(tok Token) {
	switch tok.Type {
	case TokenBreak:
		s.state = stateText
		c := s.clause()
		c.Kind = doctree.ClausePlain
		c.Text = "[" + c.Text
		s.rewind()
		return
	case TokenCloseBlock:
		s.state = stateText
		s.addClause(doctree.ClausePlain, "")
		return
	}
	s.clause().Text += tok.Text
}

// flush closes whatever construct the input ended inside.
func (s *segmenter) flush() {
	switch s.state {
	case stateExpressionQuestion:
		s.addQuestionClause(doctree.QuestionExpression, expr.Clean(s.questionText))
	case stateBlockQuestion:
		s.addQuestionClause(doctree.QuestionBlock, s.questionText)
	case stateSubQuestion:
		s.clause().Text += s.addQuestion(doctree.QuestionSubExpression, expr.Clean(s.questionText))
		s.endSubExpression()
	case stateDirective, stateExpressionDirective:
		s.commitDirective()
	case stateBlock:
		c := s.clause()
		c.Kind = doctree.ClausePlain
		c.Text = "[" + c.Text
	}
	s.state = stateText
}

var (
	nonSpace    = regexp.MustCompile(`\S`)
	nbspOnly    = regexp.MustCompile(`^(&nbsp;)+$`)
	questionRef = regexp.MustCompile(`\?(\d+)\?`)
)

// qualify marks every line blank, paragraph or table. Lines with several
// clauses where none needs its own row are table candidates, and keep only
// the clauses that carry content.
func qualify(lines []doctree.Line) {
	for i := range lines {
		l := &lines[i]
		var key []doctree.Clause
		isolate := false
		for _, c := range l.Clauses {
			if c.Kind == doctree.ClausePlain && !nonSpace.MatchString(c.Text) {
				continue
			}
			if len(key) == 0 && c.Kind == doctree.ClausePlain && nbspOnly.MatchString(c.Text) {
				continue
			}
			key = append(key, c)
			if c.Multiline || (len(key) > 1 && c.Kind == doctree.ClausePlain) {
				isolate = true
			}
		}
		switch {
		case len(key) == 0:
			l.Kind = doctree.LineBlank
		case isolate:
			l.Kind = doctree.LineParagraph
		case len(key) == 1 && key[0].Kind == doctree.ClausePlain:
			l.Kind = doctree.LineParagraph
		default:
			l.Kind = doctree.LineTable
			l.Clauses = key
		}
	}
}

// locate sets LastQuestionID on every line. A run of table lines renders its
// questions after the run, so every line of the run points at the end of the
// run.
func locate(lines []doctree.Line, total int) {
	hold, last, lastValue := total, total, total
	for i := len(lines) - 1; i >= 0; i-- {
		l := &lines[i]
		if l.Kind == doctree.LineTable {
			last = hold
		} else {
			last = lastValue
			hold = l.NextQuestionID
		}
		l.LastQuestionID = last
		lastValue = l.NextQuestionID
	}
}
