package beautify

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/freeform/internal/expr"
)

// renderer holds the state of one render call. Answer substitution renders
// nested expressions on the same renderer so the fraction mode nests.
type renderer struct {
	opts      Options
	multiLine bool
	b         strings.Builder
	heights   map[expr.Node]int
	// asking holds the question ids whose answers are being rendered.
	asking map[string]bool
}

func newRenderer(opts Options, multiLine bool) *renderer {
	return &renderer{
		opts:      opts,
		multiLine: multiLine,
		heights:   make(map[expr.Node]int),
		asking:    make(map[string]bool),
	}
}

// height is the number of text lines a node occupies, used to size brackets
// and function symbols. Results are kept per node for the call.
func (r *renderer) height(n expr.Node) int {
	if h, ok := r.heights[n]; ok {
		return h
	}
	h := 1
	switch n := n.(type) {
	case *expr.Binary:
		if n.Op == "/" {
			h = r.height(n.Args[0]) + r.height(n.Args[1])
		} else {
			h = r.maxHeight(n.Args...)
		}
	case *expr.Macro:
		h = r.height(n.Arg) + 1
	case *expr.Head:
		h = r.maxHeight(n.Children...)
	case *expr.Link:
		h = r.maxHeight(n.Children...)
	case *expr.Unary:
		h = r.maxHeight(n.Child)
	case *expr.Power:
		h = r.maxHeight(n.Child)
	case *expr.Function:
		h = r.maxHeight(n.Arg)
	case *expr.Root:
		h = r.maxHeight(n.Arg)
	case *expr.Modifier:
		h = r.maxHeight(n.Child)
	}
	r.heights[n] = h
	return h
}

func (r *renderer) maxHeight(nodes ...expr.Node) int {
	h := 1
	for _, n := range nodes {
		h = max(h, r.height(n))
	}
	return h
}

func leftBracket(lines int) string {
	return "<div class='freeform-spaced freeform-left-bracket' style='font-size:" + strconv.Itoa(lines*100) + "%'>&#x27EE;</div>"
}

func rightBracket(lines int) string {
	return "<div class='freeform-spaced freeform-right-bracket' style='font-size:" + strconv.Itoa(lines*100) + "%'>&#x27EF;</div>"
}

func operator(b *strings.Builder, sym string) {
	b.WriteString("<div class='freeform-spaced freefrom-operator'>")
	b.WriteString(sym)
	b.WriteString("</div>")
}

var primeDouble = regexp.MustCompile(`"|''`)

func primeGlyphs(p string) string {
	p = primeDouble.ReplaceAllString(p, "&Prime;")
	return strings.ReplaceAll(p, "'", "&prime;")
}

// render writes n. brackets controls whether a grouped child keeps its
// visible brackets; fraction parts and superscripts drop them.
func (r *renderer) render(n expr.Node, brackets bool) {
	saved := r.multiLine
	defer func() { r.multiLine = saved }()

	b := &r.b
	switch n := n.(type) {
	case *expr.Head:
		b.WriteString("<div class='freeform-row freefrom-head'>")
		for _, c := range n.Children {
			r.render(c, true)
		}
		b.WriteString("</div>")

	case *expr.Binary:
		r.binary(n)

	case *expr.Link:
		r.link(n)

	case *expr.Power:
		if fn, ok := n.Child.(*expr.Function); ok {
			r.function(fn, n.Exponent)
			break
		}
		b.WriteString("<div class='freeform-row'>")
		r.render(n.Child, true)
		r.multiLine = false
		b.WriteString("<div class='freeform-superscript'>")
		b.WriteString(n.Exponent)
		b.WriteString("</div></div>")

	case *expr.Unary:
		if n.Op != "(" {
			b.WriteString(n.Trait.Sym)
			r.render(n.Child, true)
			break
		}
		if !brackets {
			r.render(n.Child, true)
			break
		}
		lines := r.height(n)
		b.WriteString(leftBracket(lines))
		r.render(n.Child, true)
		b.WriteString(rightBracket(lines))

	case *expr.Modifier:
		r.modifier(n, brackets)

	case *expr.Function:
		r.function(n, "")

	case *expr.Root:
		lines := r.height(n.Arg)
		b.WriteString("<div class='freeform-row freeform-sqrt'><div class='freeform-row' style='font-size:")
		b.WriteString(strconv.Itoa(lines*100 + 10))
		b.WriteString("%'>")
		b.WriteString(n.Trait.Sym)
		b.WriteString("</div><div class='freeform-row'>")
		r.render(n.Arg, false)
		b.WriteString("</div></div>")

	case *expr.Macro:
		r.macro(n)

	case *expr.Atom:
		if n.Number {
			number(b, n.Text)
			break
		}
		b.WriteString("<div class='freeform-spaced freeform-identifier freeform-atom'>")
		if expr.IsKeyword(n.Text) {
			b.WriteString("&" + n.Text + ";")
		} else {
			b.WriteString(n.Text)
		}
		b.WriteString("</div>")

	case *expr.Error:
		b.WriteString("<div class='freeform-row freeform-error'>")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</div>")
	}

	if p := n.PrimeMark(); p != "" {
		b.WriteString(primeGlyphs(p))
	}
}

func (r *renderer) binary(n *expr.Binary) {
	b := &r.b
	switch {
	case n.Implicit():
		b.WriteString("<div class='freeform-row freeform-spaced freeform-implicit-multiply'>")
		for _, a := range n.Args {
			r.render(a, true)
		}
		b.WriteString("</div>")

	case n.Op == "/" && r.multiLine:
		b.WriteString("<div class='freeform-spaced freeform-fraction'><div class='freeform-row'>")
		r.render(n.Args[0], false)
		b.WriteString("</div><div class='freeform-row'>")
		r.render(n.Args[1], false)
		b.WriteString("</div></div>")

	case n.Op == "^" || n.Op == "_":
		class := "freeform-superscript"
		if n.Op == "_" {
			class = "freeform-subscript"
		}
		b.WriteString("<div class='freeform-row freeform-spaced freeform-decoration-group'><div class='freeform-decorated'>")
		r.render(n.Args[0], true)
		b.WriteString("</div>")
		r.multiLine = false
		b.WriteString("<div class='freeform-row " + class + "'>")
		r.render(n.Args[1], false)
		b.WriteString("</div></div>")

	default:
		r.render(n.Args[0], true)
		operator(b, n.Trait.Sym)
		r.render(n.Args[1], true)
	}
}

// link joins single-letter identifiers with combining glyphs. Chains the
// glyph cannot express render as an error showing the source text.
func (r *renderer) link(n *expr.Link) {
	b := &r.b
	valid := len(n.Children) > 1 || n.Trait.Sym0 != ""
	valid = valid && (len(n.Children) < 3 || n.Trait.SymJoin != "")
	letters := make([]string, len(n.Children))
	for i, c := range n.Children {
		switch c := c.(type) {
		case *expr.Atom:
			letters[i] = c.Text
			valid = valid && !c.Number && len(c.Text) == 1
		case *expr.Error:
			letters[i] = c.Text
			valid = false
		default:
			valid = false
		}
	}

	if !valid {
		b.WriteString("<div class='freeform-row freeform-error'>")
		b.WriteString(html.EscapeString(n.Trait.Text + strings.Join(letters, "")))
		if len(n.Children) == 0 && n.Trait.Sym0 == "" {
			b.WriteString("...")
		}
		b.WriteString("</div>")
		return
	}

	b.WriteString(letters[0])
	if len(letters) == 1 {
		b.WriteString(n.Trait.Sym0)
		return
	}
	for _, l := range letters[1 : len(letters)-1] {
		b.WriteString(n.Trait.SymJoin)
		b.WriteString(l)
	}
	b.WriteString(n.Trait.Sym)
	b.WriteString(letters[len(letters)-1])
}

func (r *renderer) function(n *expr.Function, power string) {
	b := &r.b
	lines := r.height(n.Arg)
	b.WriteString("<div class='freeform-row'><div class='freeform-row freeform-trig-fn' style='font-size:")
	b.WriteString(strconv.Itoa(lines * 100))
	b.WriteString("%'>")
	b.WriteString(n.Trait.Sym)
	if power != "" {
		b.WriteString("<div class='freeform-superscript'>" + power + "</div>")
	}
	b.WriteString("</div>")
	b.WriteString(leftBracket(lines))
	r.render(n.Arg, false)
	b.WriteString(rightBracket(lines))
	b.WriteString("</div>")
	if p := n.PrimeMark(); p != "" && power != "" {
		b.WriteString(primeGlyphs(p))
	}
}

func (r *renderer) macro(n *expr.Macro) {
	b := &r.b
	child := n.Arg
	var from, to *expr.Head
	if m, ok := child.(*expr.Modifier); ok && m.Decoration == expr.DecorRange {
		from, to, child = m.From, m.To, m.Child
	}
	lines := r.height(child)

	b.WriteString("<div class='freeform-row freeform-macro'><div class='freeform-fn' style='font-size:")
	b.WriteString(strconv.Itoa(lines*100 + 100))
	b.WriteString("%'>")
	b.WriteString(n.Trait.Sym)
	b.WriteString("</div>")

	if from != nil && (len(from.Children) > 0 || len(to.Children) > 0) {
		saved := r.multiLine
		r.multiLine = false
		b.WriteString("<div class='freeform-macro-args'><div class='freeform-row'>")
		r.render(to, false)
		b.WriteString("</div><div class='freeform-row'>")
		r.render(from, false)
		b.WriteString("</div></div>")
		r.multiLine = saved
	}

	b.WriteString("<div class='freeform-row'>")
	r.render(child, true)
	b.WriteString("</div></div>")
}

func (r *renderer) modifier(n *expr.Modifier, brackets bool) {
	b := &r.b
	switch n.Decoration {
	case expr.DecorStyle:
		b.WriteString("<div class='freeform-row freeform-dec-" + n.Style + "'>")
		r.render(n.Child, brackets && !n.Grouped)
		b.WriteString("</div>")

	case expr.DecorQuestion:
		qid := questionID(n.Child)
		b.WriteString("<div class='freeform-row freeform-question' for='" + QuestionName(r.opts.Context, r.opts.Instance, qid) + "'>")
		// An answer that leads back to a question already open renders as
		// the placeholder.
		if answer := r.answer(qid); answer != "" && !r.asking[qid] {
			r.asking[qid] = true
			r.tree(expr.Parse(answer))
			delete(r.asking, qid)
		} else {
			b.WriteString("?")
		}
		b.WriteString("</div>")

	case expr.DecorRange:
		b.WriteString("<div class='freeform-error'>[ ")
		r.render(n.From, true)
		b.WriteString(" .. ")
		r.render(n.To, true)
		b.WriteString(" ]</div>")
		r.render(n.Child, true)

	default:
		b.WriteString("<div class='freeform-row freeform-error'>[")
		b.WriteString(html.EscapeString(n.Raw))
		b.WriteString("]</div>")
		r.render(n.Child, true)
	}
}

// questionID reads the id from the (n) group a [question] modifier wraps.
func questionID(n expr.Node) string {
	if g, ok := n.(*expr.Unary); ok && g.Op == "(" {
		n = g.Child
	}
	if a, ok := n.(*expr.Atom); ok {
		return a.Text
	}
	return ""
}

func (r *renderer) answer(qid string) string {
	i, err := strconv.Atoi(qid)
	if err != nil || i < 0 || i >= len(r.opts.Answers) {
		return ""
	}
	return r.opts.Answers[i]
}

// tree renders a parsed expression, or a token dump when it has lexical
// errors.
func (r *renderer) tree(t *expr.Tree) {
	if t.Errors > 0 {
		dump(&r.b, t.Tokens)
		return
	}
	r.render(t.Root, true)
}

func dump(b *strings.Builder, tokens []expr.Token) {
	b.WriteString(`<div class="freeform-root freeform-dump">`)
	for _, t := range tokens {
		if t.Kind == expr.KindError {
			b.WriteString(`<span class="freeform-error">` + html.EscapeString(t.Text) + `</span>`)
			continue
		}
		b.WriteString(html.EscapeString(t.Text))
	}
	b.WriteString("</div>")
}

var numberParts = regexp.MustCompile(`^([0-9]*)(([^0-9])([0-9]*))?`)

// number spaces digits in groups of three either side of the separator:
// 10000.000001 reads 10 000.000 001.
func number(b *strings.Builder, text string) {
	m := numberParts.FindStringSubmatch(text)
	whole, sep, frac := m[1], m[3], m[4]

	var groups []string
	for len(whole) > 3 {
		groups = append([]string{"<div class='freeform-int-digit-group'>" + whole[len(whole)-3:] + "</div>"}, groups...)
		whole = whole[:len(whole)-3]
	}

	b.WriteString("<div class='freeform-row freeform-spaced freeform-number freeform-atom'>")
	b.WriteString(whole)
	b.WriteString(strings.Join(groups, ""))
	b.WriteString(sep)
	for len(frac) > 3 {
		b.WriteString("<div class='freeform-decimal-digit-group'>" + frac[:3] + "</div>")
		frac = frac[3:]
	}
	b.WriteString(frac)
	b.WriteString("</div>")
}
