package expr

import "testing"

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Basic(t *testing.T) {
	tokens := Tokenize("2A + sin x")
	want := []Kind{KindNumber, KindIdent, KindSpace, KindOp, KindSpace, KindOp, KindSpace, KindIdent}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), tokens)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if tokens[5].Trait == nil || tokens[5].Trait.Class != ClassFunction {
		t.Errorf("expected sin to carry a function trait")
	}
}

func TestTokenize_DecimalAndMultiCharOps(t *testing.T) {
	tokens := Tokenize("3,5<=x./y")
	texts := []string{"3,5", "<=", "x", "./", "y"}
	if len(tokens) != len(texts) {
		t.Fatalf("expected %d tokens, got %d", len(texts), len(tokens))
	}
	for i, want := range texts {
		if tokens[i].Text != want {
			t.Errorf("token %d: expected %q, got %q", i, want, tokens[i].Text)
		}
	}
}

func TestTokenize_UnknownCharacter(t *testing.T) {
	tokens := Tokenize("a # b")
	if ErrorCount(tokens) != 1 {
		t.Fatalf("expected 1 error token, got %d", ErrorCount(tokens))
	}
}

func TestTokenize_RootAlias(t *testing.T) {
	tokens := Tokenize(Clean("root3 x"))
	if tokens[0].Kind != KindOp || tokens[0].Text != "root3" {
		t.Errorf("expected root3 operator, got %+v", tokens[0])
	}
}

func TestClean(t *testing.T) {
	tests := []struct{ in, want string }{
		{"x²", "x^2 "},
		{"a1", "a_1"},
		{".5", "0.5"},
		{"2 ÷ 3", "2 / 3"},
		{"?3?", "[question](3)"},
		{"sin^2 x", "[power 2]sin x"},
		{"<strong>a</strong>", "[bold]a"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestLooksLikeExpression(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a+b", true},
		{"42", true},
		{"3,14", true},
		{"pi", true},
		{"the capital of France", false},
		{"word", false},
	}
	for _, tt := range tests {
		if got := LooksLikeExpression(tt.in); got != tt.want {
			t.Errorf("LooksLikeExpression(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func single(t *testing.T, text string) Node {
	t.Helper()
	tree := Parse(text)
	if len(tree.Root.Children) != 1 {
		t.Fatalf("%q: expected 1 top-level node, got %d", text, len(tree.Root.Children))
	}
	return tree.Root.Children[0]
}

func TestBuild_Precedence(t *testing.T) {
	n := single(t, "a+b*c")
	sum, ok := n.(*Binary)
	if !ok || sum.Op != "+" {
		t.Fatalf("expected + at the root, got %#v", n)
	}
	prod, ok := sum.Args[1].(*Binary)
	if !ok || prod.Op != "*" {
		t.Fatalf("expected * on the right, got %#v", sum.Args[1])
	}
}

func TestBuild_ImplicitMultiplyGluedBindsTighter(t *testing.T) {
	// 2A/3 divides the glued product; 2 A/3 multiplies 2 by A/3.
	n := single(t, "2A/3")
	div, ok := n.(*Binary)
	if !ok || div.Op != "/" {
		t.Fatalf("expected / at the root, got %#v", n)
	}
	if inner, ok := div.Args[0].(*Binary); !ok || !inner.Implicit() {
		t.Errorf("expected implicit product as numerator, got %#v", div.Args[0])
	}

	n = single(t, "2 A/3")
	mul, ok := n.(*Binary)
	if !ok || !mul.Implicit() {
		t.Fatalf("expected implicit product at the root, got %#v", n)
	}
	if inner, ok := mul.Args[1].(*Binary); !ok || inner.Op != "/" {
		t.Errorf("expected A/3 as second factor, got %#v", mul.Args[1])
	}
}

func TestBuild_ImplicitFlattens(t *testing.T) {
	n := single(t, "a b c")
	mul, ok := n.(*Binary)
	if !ok || !mul.Implicit() {
		t.Fatalf("expected implicit product, got %#v", n)
	}
	if len(mul.Args) != 3 {
		t.Errorf("expected 3 factors, got %d", len(mul.Args))
	}
}

func TestBuild_Brackets(t *testing.T) {
	n := single(t, "(a+b)*c")
	mul, ok := n.(*Binary)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected * at the root, got %#v", n)
	}
	group, ok := mul.Args[0].(*Unary)
	if !ok || group.Op != "(" {
		t.Fatalf("expected group on the left, got %#v", mul.Args[0])
	}
	if sum, ok := group.Child.(*Binary); !ok || sum.Op != "+" {
		t.Errorf("expected a+b inside the group, got %#v", group.Child)
	}
}

func TestBuild_Function(t *testing.T) {
	n := single(t, "sin x")
	fn, ok := n.(*Function)
	if !ok {
		t.Fatalf("expected function, got %#v", n)
	}
	if a, ok := fn.Arg.(*Atom); !ok || a.Text != "x" {
		t.Errorf("expected argument x, got %#v", fn.Arg)
	}
}

func TestBuild_EmptyCall(t *testing.T) {
	n := single(t, "f()")
	fn, ok := n.(*Function)
	if !ok {
		t.Fatalf("expected function, got %#v", n)
	}
	group, ok := fn.Arg.(*Unary)
	if !ok || group.Op != "(" {
		t.Fatalf("expected empty group, got %#v", fn.Arg)
	}
	if a, ok := group.Child.(*Atom); !ok || a.Text != "" {
		t.Errorf("expected empty atom, got %#v", group.Child)
	}
}

func TestBuild_Prime(t *testing.T) {
	n := single(t, "y'")
	if n.PrimeMark() != "'" {
		t.Errorf("expected prime on the node, got %q", n.PrimeMark())
	}
}

func TestBuild_SubscriptPrimeHoisted(t *testing.T) {
	n := single(t, "x_[bold]1'")
	sub, ok := n.(*Binary)
	if !ok || sub.Op != "_" {
		t.Fatalf("expected subscript, got %#v", n)
	}
	if sub.Prime != "'" {
		t.Errorf("expected prime hoisted to the subscript, got %q", sub.Prime)
	}
	index := sub.Args[1].(*Modifier).Child
	if index.PrimeMark() != "" {
		t.Errorf("expected prime removed from the index")
	}
}

func TestBuild_Link(t *testing.T) {
	n := single(t, "__AB")
	link, ok := n.(*Link)
	if !ok {
		t.Fatalf("expected link, got %#v", n)
	}
	if len(link.Children) != 2 {
		t.Fatalf("expected 2 linked characters, got %d", len(link.Children))
	}
	if a := link.Children[0].(*Atom); a.Text != "A" {
		t.Errorf("expected A first, got %q", a.Text)
	}
}

func TestBuild_StyleModifier(t *testing.T) {
	n := single(t, "[bold]a+b")
	sum, ok := n.(*Binary)
	if !ok || sum.Op != "+" {
		t.Fatalf("expected + at the root, got %#v", n)
	}
	mod, ok := sum.Args[0].(*Modifier)
	if !ok || mod.Decoration != DecorStyle || mod.Style != "bold" {
		t.Fatalf("expected bold modifier, got %#v", sum.Args[0])
	}
}

func TestBuild_PowerModifier(t *testing.T) {
	n := single(t, "sin^2 x")
	p, ok := n.(*Power)
	if !ok || p.Exponent != "2" {
		t.Fatalf("expected power 2, got %#v", n)
	}
	if _, ok := p.Child.(*Function); !ok {
		t.Errorf("expected function under the power, got %#v", p.Child)
	}
}

func TestBuild_RangeMacro(t *testing.T) {
	n := single(t, "sum[i=1..n] i")
	m, ok := n.(*Macro)
	if !ok {
		t.Fatalf("expected macro, got %#v", n)
	}
	r, ok := m.Arg.(*Modifier)
	if !ok || r.Decoration != DecorRange {
		t.Fatalf("expected range modifier, got %#v", m.Arg)
	}
	if len(r.From.Children) != 1 || len(r.To.Children) != 1 {
		t.Errorf("expected one node in each bound")
	}
}

func TestBuild_InvalidModifier(t *testing.T) {
	n := single(t, "[sparkle]a")
	mod, ok := n.(*Modifier)
	if !ok || mod.Decoration != DecorInvalid || mod.Raw != "sparkle" {
		t.Fatalf("expected invalid modifier, got %#v", n)
	}
}

func TestBuild_QuestionPlaceholder(t *testing.T) {
	n := single(t, "x = ?0?")
	eq := n.(*Binary)
	mod, ok := eq.Args[1].(*Modifier)
	if !ok || mod.Decoration != DecorQuestion {
		t.Fatalf("expected question modifier, got %#v", eq.Args[1])
	}
}

func TestBuild_MalformedInputNeverPanics(t *testing.T) {
	inputs := []string{"", "+", "*", "((((a", "a))", "]", "[bold", "a+", "'", "sum[..]", "__", "x_", "^^^", "[[[]]"}
	for _, in := range inputs {
		tree := Parse(in)
		if tree.Root == nil {
			t.Errorf("%q: expected a head", in)
		}
	}
}

func TestBuild_MissingOperand(t *testing.T) {
	n := single(t, "a+")
	sum := n.(*Binary)
	if e, ok := sum.Args[1].(*Error); !ok || e.Text != "..." {
		t.Errorf("expected ... error, got %#v", sum.Args[1])
	}
}

func TestBuild_UnmatchedClose(t *testing.T) {
	n := single(t, "a)")
	mul, ok := n.(*Binary)
	if !ok || !mul.Implicit() {
		t.Fatalf("expected implicit join with the stray bracket, got %#v", n)
	}
	if e, ok := mul.Args[1].(*Error); !ok || e.Text != ")" {
		t.Errorf("expected ) error, got %#v", mul.Args[1])
	}
}

func TestBuild_UnclosedModifier(t *testing.T) {
	tree := Parse("a [bold")
	found := false
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Error:
			if n.Text == "[bold" {
				found = true
			}
		case *Binary:
			for _, c := range n.Args {
				walk(c)
			}
		}
	}
	for _, c := range tree.Root.Children {
		walk(c)
	}
	if !found {
		t.Errorf("expected [bold error node")
	}
}

func TestIsComparator(t *testing.T) {
	for _, op := range []string{"=", "<", "<=", "/=", "<>"} {
		if !IsComparator(op) {
			t.Errorf("expected %q to be a comparator", op)
		}
	}
	for _, op := range []string{"+", "..", "*"} {
		if IsComparator(op) {
			t.Errorf("expected %q not to be a comparator", op)
		}
	}
}

func TestBuild_UnclosedBracket(t *testing.T) {
	tests := []struct {
		text   string
		groups int
	}{
		{"(a", 1},
		{"((((a", 4},
		{"(a+(b", 2},
		{"f(x", 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			groups, marked := 0, false
			var walk func(Node)
			walk = func(n Node) {
				switch n := n.(type) {
				case *Error:
					if n.Text == "..." {
						marked = true
					}
				case *Unary:
					if n.Op == "(" {
						groups++
					}
					walk(n.Child)
				case *Function:
					walk(n.Arg)
				case *Binary:
					for _, c := range n.Args {
						walk(c)
					}
				}
			}
			for _, c := range Parse(tt.text).Root.Children {
				walk(c)
			}
			if groups != tt.groups {
				t.Errorf("expected %d groups, got %d", tt.groups, groups)
			}
			if !marked {
				t.Errorf("expected missing bracket marker")
			}
		})
	}
}

func TestBuild_ClosedBracketUnmarked(t *testing.T) {
	group, ok := single(t, "((a))").(*Unary)
	if !ok || group.Op != "(" {
		t.Fatalf("expected group, got %#v", group)
	}
	inner, ok := group.Child.(*Unary)
	if !ok {
		t.Fatalf("expected inner group, got %#v", group.Child)
	}
	if a, ok := inner.Child.(*Atom); !ok || a.Text != "a" {
		t.Errorf("expected atom a, got %#v", inner.Child)
	}
}

func TestBuild_DeepNesting(t *testing.T) {
	const depth = 5000
	text := ""
	for i := 0; i < depth; i++ {
		text += "("
	}
	text += "a"
	for i := 0; i < depth; i++ {
		text += ")"
	}
	n := single(t, text)
	for i := 0; i < depth; i++ {
		g, ok := n.(*Unary)
		if !ok {
			t.Fatalf("level %d: expected group, got %#v", i, n)
		}
		n = g.Child
	}
	if a, ok := n.(*Atom); !ok || a.Text != "a" {
		t.Errorf("expected atom a at the bottom, got %#v", n)
	}
}
