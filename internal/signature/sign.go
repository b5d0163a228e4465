// Package signature reduces expression trees to canonical strings. Two
// inputs are judged equivalent when their signatures are equal.
package signature

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/freeform/internal/expr"
)

// FreeTextPrefix marks reference text that is compared as words rather than
// parsed as an expression.
const FreeTextPrefix = ":txt:"

// term is the signing form of a node: a leaf when op is empty, otherwise an
// operator applied to kids.
type term struct {
	op   string
	leaf string
	kids []*term
}

func leaf(text string) *term { return &term{leaf: text} }

func apply(op string, kids ...*term) *term { return &term{op: op, kids: kids} }

func (t *term) isNumber(text string) bool {
	return t.op == "" && t.leaf == text
}

var aliases = map[string]string{
	"/=": "!=",
	"<>": "!=",
}

// Normalize signs raw input text. Text carrying FreeTextPrefix takes the
// word path, compared in composed Unicode form; everything else is parsed as an expression.
func Normalize(text string) string {
	if rest, ok := strings.CutPrefix(text, FreeTextPrefix); ok {
		return FreeTextPrefix + words(norm.NFC.String(rest))
	}
	return Sign(expr.Parse(text).Root)
}

var (
	wordToken = regexp.MustCompile(`(\d+|\w+|\S)`)
	spaceRun  = regexp.MustCompile(`\s\s+`)
)

// words spaces out every word, number and symbol, then collapses runs of
// whitespace, so "a+b" and "a + b" read the same.
func words(text string) string {
	text = wordToken.ReplaceAllString(" "+text+" ", " $1")
	return spaceRun.ReplaceAllString(text, " ")
}

// Sign returns the canonical signature of a parsed expression. Top-level
// results are joined by a single space.
func Sign(head *expr.Head) string {
	parts := make([]string, 0, len(head.Children))
	for _, c := range head.Children {
		parts = append(parts, render(simplify(convert(c))))
	}
	return strings.Join(parts, " ")
}

func convert(n expr.Node) *term {
	switch n := n.(type) {
	case *expr.Head:
		kids := make([]*term, 0, len(n.Children))
		for _, c := range n.Children {
			kids = append(kids, convert(c))
		}
		return primed(apply("clause", kids...), n)
	case *expr.Atom:
		text := n.Text
		if n.Number {
			text = strings.Replace(text, ",", ".", 1)
		}
		return leaf(text + n.Prime)
	case *expr.Error:
		return primed(apply("error", leaf(n.Text)), n)
	case *expr.Unary:
		child := convert(n.Child)
		switch n.Op {
		case "(":
			return primed(apply("clause", child), n)
		case "+":
			return primed(child, n)
		default:
			return primed(apply(n.Op, child), n)
		}
	case *expr.Power:
		return primed(apply("^", convert(n.Child), leaf(n.Exponent)), n)
	case *expr.Binary:
		return primed(convertBinary(n), n)
	case *expr.Function:
		return primed(apply(n.Trait.Text, convert(n.Arg)), n)
	case *expr.Root:
		return primed(apply(n.Trait.Text, convert(n.Arg)), n)
	case *expr.Macro:
		if r, ok := n.Arg.(*expr.Modifier); ok && r.Decoration == expr.DecorRange {
			return primed(apply(n.Trait.Text, convert(r.From), convert(r.To), convert(r.Child)), n)
		}
		return primed(apply(n.Trait.Text, convert(n.Arg)), n)
	case *expr.Link:
		kids := make([]*term, 0, len(n.Children))
		for _, c := range n.Children {
			kids = append(kids, convert(c))
		}
		return primed(apply(n.Trait.Text, kids...), n)
	case *expr.Modifier:
		switch n.Decoration {
		case expr.DecorStyle:
			return primed(convert(n.Child), n)
		case expr.DecorQuestion:
			return primed(apply("question", convert(n.Child)), n)
		case expr.DecorRange:
			return primed(apply("range", convert(n.From), convert(n.To), convert(n.Child)), n)
		default:
			return primed(apply("error", leaf("["+n.Raw+"]"), convert(n.Child)), n)
		}
	}
	return apply("error", leaf("?"))
}

func convertBinary(n *expr.Binary) *term {
	if n.Implicit() {
		kids := make([]*term, 0, len(n.Args))
		for _, a := range n.Args {
			kids = append(kids, convert(a))
		}
		return apply("*", kids...)
	}
	left, right := convert(n.Args[0]), convert(n.Args[1])
	switch n.Op {
	case "-":
		return apply("+", left, apply("-", right))
	case "/", "./":
		return apply("*", left, apply("/", right))
	}
	if alias, ok := aliases[n.Op]; ok {
		return apply(alias, left, right)
	}
	return apply(n.Op, left, right)
}

// primed carries a node's prime onto its signing form. Leaves absorb it into
// their text; operators wrap.
func primed(t *term, n expr.Node) *term {
	p := n.PrimeMark()
	if p == "" {
		return t
	}
	if t.op == "" {
		return leaf(t.leaf + p)
	}
	return apply("prime"+p, t)
}

// simplify applies the identity rules bottom-up: +0, *1 and ^1 vanish,
// nested sums and products flatten, double negation cancels and single
// child groupings collapse.
func simplify(t *term) *term {
	if t.op == "" {
		return t
	}
	for i, k := range t.kids {
		t.kids[i] = simplify(k)
	}

	switch t.op {
	case "+", "*":
		identity := "0"
		if t.op == "*" {
			identity = "1"
		}
		var kids []*term
		for _, k := range t.kids {
			switch {
			case k.isNumber(identity):
			case k.op == t.op:
				kids = append(kids, k.kids...)
			default:
				kids = append(kids, k)
			}
		}
		if len(kids) == 0 {
			return leaf(identity)
		}
		t.kids = kids
	case "-":
		if len(t.kids) == 1 && t.kids[0].op == "-" && len(t.kids[0].kids) == 1 {
			return t.kids[0].kids[0]
		}
	case "^":
		if len(t.kids) == 2 && t.kids[1].isNumber("1") {
			return t.kids[0]
		}
	}

	switch t.op {
	case "clause", "+", "*":
		if len(t.kids) == 1 {
			return t.kids[0]
		}
	}
	return t
}

func render(t *term) string {
	if t.op == "" {
		return t.leaf
	}
	parts := make([]string, len(t.kids))
	for i, k := range t.kids {
		parts[i] = render(k)
	}
	if t.op == "+" || t.op == "*" {
		sort.Strings(parts)
	}
	if len(parts) == 0 {
		return "(" + t.op + ")"
	}
	return "(" + t.op + " " + strings.Join(parts, " ") + ")"
}
