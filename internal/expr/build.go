package expr

import (
	"regexp"
	"strings"
)

type state int

const (
	stateBegin    state = iota // expecting a value or a prefix operator
	stateEnd                   // expecting an infix operator or a closer
	stateModifier              // inside [ ... ]
)

type opKind int

const (
	opUnary opKind = iota
	opBinary
	opCall
	opLink
	opModifier
)

// pending is an operator waiting on the operator stack.
type pending struct {
	kind  opKind
	prio  int
	text  string
	trait *Trait

	links    int       // opLink: number of characters consumed so far
	exponent string    // opUnary "power"
	mod      *Modifier // opModifier: template, Child unset
}

// modifierScan accumulates the tokens between [ and its matching ].
type modifierScan struct {
	depth   int
	content string
	parts   [][]Token
	ranged  bool
	spaced  bool
}

// builder holds the state of one Build call. Nested parses (range bounds)
// run on their own builder.
type builder struct {
	ops   []pending
	vals  []Node
	state state
	glued bool
	scan  modifierScan
}

var powerModifier = regexp.MustCompile(`^power (.*)`)

// Build turns a token sequence into a tree using operator precedence.
// Adjacent values are joined by an implicit multiply that binds tighter
// than * when the values touch (2A) and like * when spaced (2 A).
func Build(tokens []Token) *Head {
	b := &builder{}
	for _, tok := range tokens {
		switch b.state {
		case stateBegin:
			b.begin(tok)
		case stateEnd:
			b.end(tok)
		case stateModifier:
			b.modifier(tok)
		}
	}

	switch {
	case b.state == stateBegin && len(tokens) > 0:
		b.push(&Error{Text: "..."})
	case b.state == stateModifier:
		b.push(&Error{Text: "[" + b.scan.content})
	case b.hasOpenBracket():
		// An unclosed group ends in a missing-bracket marker.
		b.stray(Token{Text: "..."})
	}

	b.reduce(-1)
	head := &Head{Children: b.vals}
	tidy(head)
	return head
}

func (b *builder) push(n Node) {
	b.vals = append(b.vals, n)
}

func (b *builder) pop() Node {
	if len(b.vals) == 0 {
		return &Error{Text: "..."}
	}
	n := b.vals[len(b.vals)-1]
	b.vals = b.vals[:len(b.vals)-1]
	return n
}

func (b *builder) top() *pending {
	if len(b.ops) == 0 {
		return nil
	}
	return &b.ops[len(b.ops)-1]
}

func (b *builder) pushOp(op pending) {
	if op.kind == opBinary {
		b.reduce(op.prio)
	}
	b.ops = append(b.ops, op)
}

func (b *builder) hasOpenBracket() bool {
	for i := len(b.ops) - 1; i >= 0; i-- {
		if b.ops[i].prio == PrioBracket {
			return true
		}
	}
	return false
}

// reduce pops operators binding at least as tightly as prio into nodes.
// Bracket priorities only match their own level and stop after one match,
// so one ) closes exactly one (. Decorations do not reduce through a
// pending modifier, letting modifiers stack right to left.
func (b *builder) reduce(prio int) {
	if len(b.ops) == 0 {
		return
	}
	if prio == PrioDecoration && b.top().kind == opModifier {
		return
	}
	bracket := prio >= 0 && prio <= PrioBracket
	for len(b.ops) > 0 {
		peek := b.ops[len(b.ops)-1]
		if bracket {
			if peek.prio != prio && peek.prio <= PrioBracket {
				break
			}
		} else if peek.prio < prio {
			break
		}
		b.ops = b.ops[:len(b.ops)-1]
		b.push(b.apply(peek))
		if bracket && peek.prio == prio {
			return
		}
	}
}

func (b *builder) apply(op pending) Node {
	last := b.pop()
	switch op.kind {
	case opLink:
		children := []Node{last}
		for i := 1; i < op.links; i++ {
			children = append(children, b.pop())
		}
		for i, j := 0, len(children)-1; i < j; i, j = i+1, j-1 {
			children[i], children[j] = children[j], children[i]
		}
		return &Link{Trait: op.trait, Children: children}
	case opCall:
		switch op.trait.Class {
		case ClassRoot:
			return &Root{Trait: op.trait, Arg: last}
		case ClassMacro:
			return &Macro{Trait: op.trait, Arg: last}
		default:
			return &Function{Trait: op.trait, Arg: last}
		}
	case opModifier:
		m := *op.mod
		m.Child = last
		return &m
	case opBinary:
		first := b.pop()
		return &Binary{Op: op.text, Trait: op.trait, Args: []Node{first, last}}
	default:
		if op.text == "power" {
			return &Power{Exponent: op.exponent, Child: last}
		}
		return &Unary{Op: op.text, Trait: op.trait, Child: last}
	}
}

func (b *builder) value(n Node) {
	b.push(n)
	b.state = stateEnd
	b.glued = true
}

func (b *builder) begin(tok Token) {
	switch tok.Kind {
	case KindSpace:
		return
	case KindNumber:
		b.value(&Atom{Number: true, Text: tok.Text})
		return
	case KindIdent:
		b.value(&Atom{Text: tok.Text})
		return
	case KindError:
		b.value(&Error{Text: tok.Text})
		return
	case KindOp:
		switch tok.class() {
		case ClassOpenModifier:
			b.scan = modifierScan{depth: 1, parts: [][]Token{nil}}
			b.state = stateModifier
			return
		case ClassOpen, ClassUnaryOrBinary:
			b.pushOp(pending{kind: opUnary, prio: tok.Trait.Prio, text: tok.Text, trait: tok.Trait})
			return
		case ClassFunction, ClassRoot, ClassMacro:
			b.pushOp(pending{kind: opCall, prio: tok.Trait.Prio, text: tok.Text, trait: tok.Trait})
			return
		case ClassLink:
			b.pushOp(pending{kind: opLink, prio: tok.Trait.Prio, text: tok.Text, trait: tok.Trait, links: 1})
			return
		case ClassBinary:
			b.push(&Error{Text: "..."})
			b.end(tok)
			return
		case ClassClose:
			// f() or an empty group.
			if top := b.top(); top != nil && top.text == "(" {
				b.push(&Atom{})
				b.reduce(PrioBracket)
				b.state = stateEnd
				b.glued = false
				return
			}
		}
	}
	b.push(&Error{Text: "..."})
	b.state = stateEnd
	b.end(tok)
}

func (b *builder) end(tok Token) {
	switch tok.Kind {
	case KindSpace:
		b.glued = false
		return
	case KindPrime:
		b.reduce(PrioLine)
		if len(b.vals) > 0 {
			b.vals[len(b.vals)-1].(interface{ setPrime(string) }).setPrime(tok.Text)
		}
		return
	case KindOp:
		switch tok.class() {
		case ClassClose:
			if b.hasOpenBracket() {
				b.reduce(PrioBracket)
				return
			}
			b.reduce(-1)
			b.stray(tok)
			return
		case ClassCloseModifier:
			b.stray(tok)
			return
		case ClassUnaryOrBinary, ClassBinary:
			b.pushOp(pending{kind: opBinary, prio: tok.Trait.Prio, text: tok.Text, trait: tok.Trait})
			b.state = stateBegin
			return
		}
	}

	// A value follows a value: extend a link chain or multiply implicitly.
	if b.glued && tok.Kind == KindIdent {
		if top := b.top(); top != nil && top.kind == opLink {
			top.links++
			b.state = stateBegin
			b.begin(tok)
			return
		}
	}
	prio := PrioMultiply
	if b.glued {
		prio = PrioGlued
	}
	b.pushOp(pending{kind: opBinary, prio: prio})
	b.state = stateBegin
	b.begin(tok)
}

// stray records an unmatched closer as an error joined to what precedes it.
func (b *builder) stray(tok Token) {
	b.pushOp(pending{kind: opBinary, prio: PrioMultiply})
	b.push(&Error{Text: tok.Text})
}

func (b *builder) modifier(tok Token) {
	s := &b.scan
	switch tok.Text {
	case "]":
		s.depth--
		if s.depth <= 0 {
			b.endModifier()
			return
		}
	case "..":
		s.ranged = true
		if len(s.parts) < 2 {
			s.parts = append(s.parts, nil)
		} else {
			s.parts[1] = nil
		}
		return
	case "[":
		s.depth++
	}
	if tok.Kind == KindSpace {
		s.spaced = true
		return
	}
	if s.content != "" && s.spaced {
		s.content += " "
	}
	s.spaced = false
	s.parts[len(s.parts)-1] = append(s.parts[len(s.parts)-1], tok)
	s.content += tok.Text
}

func (b *builder) endModifier() {
	s := b.scan
	b.state = stateBegin

	if s.ranged {
		from := Build(s.parts[0])
		to := Build(s.parts[1])
		// Modifiers stacked before the range apply to both of its bounds.
		for top := b.top(); top != nil && top.kind == opModifier; top = b.top() {
			b.ops = b.ops[:len(b.ops)-1]
			fromMod, toMod := *top.mod, *top.mod
			fromMod.Child = firstChild(from)
			toMod.Child = firstChild(to)
			from = &Head{Children: []Node{&fromMod}}
			to = &Head{Children: []Node{&toMod}}
		}
		b.pushOp(pending{kind: opModifier, prio: PrioDecoration, mod: &Modifier{Decoration: DecorRange, From: from, To: to}})
		return
	}

	content := s.content
	grouped := false
	if len(content) >= 2 && strings.HasPrefix(content, "(") && strings.HasSuffix(content, ")") {
		grouped = true
		content = content[1 : len(content)-1]
	}

	switch {
	case content == "question":
		b.pushOp(pending{kind: opModifier, prio: PrioQuestion, mod: &Modifier{Decoration: DecorQuestion}})
	case styles[content]:
		b.pushOp(pending{kind: opModifier, prio: PrioDecoration, mod: &Modifier{Decoration: DecorStyle, Style: content, Grouped: grouped}})
	default:
		if m := powerModifier.FindStringSubmatch(content); m != nil {
			b.pushOp(pending{kind: opUnary, prio: PrioPower, text: "power", exponent: m[1]})
			return
		}
		b.pushOp(pending{kind: opModifier, prio: PrioDecoration, mod: &Modifier{Decoration: DecorInvalid, Raw: content}})
	}
}

func firstChild(h *Head) Node {
	if len(h.Children) == 0 {
		return &Error{Text: "..."}
	}
	return h.Children[0]
}

func (m *mark) setPrime(p string) { m.Prime = p }

// tidy flattens nested implicit multiplies into one n-ary node and lifts a
// prime written after a subscript onto the whole subscripted term.
func tidy(n Node) {
	switch n := n.(type) {
	case *Head:
		for _, c := range n.Children {
			tidy(c)
		}
	case *Unary:
		tidy(n.Child)
	case *Power:
		tidy(n.Child)
	case *Function:
		tidy(n.Arg)
	case *Root:
		tidy(n.Arg)
	case *Macro:
		tidy(n.Arg)
	case *Link:
		for _, c := range n.Children {
			tidy(c)
		}
	case *Modifier:
		tidy(n.Child)
	case *Binary:
		for _, c := range n.Args {
			tidy(c)
		}
		if n.Implicit() {
			var args []Node
			for _, c := range n.Args {
				if inner, ok := c.(*Binary); ok && inner.Implicit() && inner.Prime == "" {
					args = append(args, inner.Args...)
					continue
				}
				args = append(args, c)
			}
			n.Args = args
		}
		if n.Op == "_" && n.Prime == "" {
			suspect := n.Args[1]
			for {
				m, ok := suspect.(*Modifier)
				if !ok {
					break
				}
				suspect = m.Child
			}
			if p := suspect.PrimeMark(); p != "" {
				n.Prime = p
				suspect.(interface{ setPrime(string) }).setPrime("")
			}
		}
	}
}
