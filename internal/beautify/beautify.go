// Package beautify renders expression trees as nested div markup. Layout
// classes (freeform-row, freeform-fraction, ...) are a contract with the
// stylesheet shipped to the browser.
package beautify

import (
	"regexp"
	"strings"

	"github.com/dgallion1/freeform/internal/expr"
)

// Options are the per-call render parameters.
type Options struct {
	// SubExpression renders without the root wrapper and with fractions on
	// one line, for expressions embedded in running text.
	SubExpression bool
	// Answers are substituted for [question](n) placeholders, indexed by
	// question id. Missing or empty answers render as "?".
	Answers []string
	// Context and Instance name the question inputs answers belong to.
	Context  string
	Instance string
}

// QuestionName is the input name a question's markup points at.
func QuestionName(context, instance, id string) string {
	prefix := ""
	if context != "" {
		prefix = context + "_"
	}
	return prefix + "ffq_" + instance + "_" + id
}

// Expression renders one expression.
func Expression(text string, opts Options) string {
	r := newRenderer(opts, !opts.SubExpression)
	t := expr.Parse(text)
	if opts.SubExpression {
		r.tree(t)
		return r.b.String()
	}
	r.b.WriteString("<div class='freeform-root'>")
	r.tree(t)
	r.b.WriteString("</div>")
	return r.b.String()
}

var (
	paragraphOpen  = regexp.MustCompile(`<p>`)
	paragraphClose = regexp.MustCompile(`</p>`)
	bracketChunk   = regexp.MustCompile(`(\()\s*|(\))\s*|([^()]+)`)
)

// Beautify renders the bracketed expressions inside running text and leaves
// the rest untouched. A group opened with "( " is always an expression; a
// group opened with "(" only when its content looks like one.
func Beautify(text string, opts Options) string {
	text = paragraphOpen.ReplaceAllString(text, "")
	text = paragraphClose.ReplaceAllString(text, "<br>")
	opts.SubExpression = false

	var out strings.Builder
	var acc, opening string
	depth := 0
	for _, m := range bracketChunk.FindAllStringSubmatch(text, -1) {
		switch {
		case m[1] == "(":
			depth++
			if depth == 1 {
				out.WriteString(opening + acc)
				acc = ""
				opening = m[0]
				continue
			}
		case m[2] == ")":
			if depth > 0 {
				depth--
				if depth == 0 && (opening != "(" || expr.LooksLikeExpression(acc)) {
					out.WriteString(Expression(acc, opts))
					acc, opening = "", ""
					continue
				}
			}
		}
		acc += m[0]
	}
	out.WriteString(opening + acc)
	return out.String()
}
