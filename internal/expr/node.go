package expr

// Node is an expression tree node. The set of implementations is closed:
// *Head, *Atom, *Error, *Unary, *Power, *Binary, *Function, *Root, *Macro,
// *Link and *Modifier.
type Node interface {
	// PrimeMark returns the trailing prime or quote run attached to the
	// node, such as ' or ''.
	PrimeMark() string
	node()
}

type mark struct {
	Prime string
}

func (m *mark) PrimeMark() string { return m.Prime }
func (m *mark) node()             {}

// Head wraps the top-level results of one parse.
type Head struct {
	mark
	Children []Node
}

// Atom is an identifier or numeric literal.
type Atom struct {
	mark
	Number bool
	Text   string
}

// Error marks input the builder could not place. Text is the offending
// source text, or "..." for a missing operand.
type Error struct {
	mark
	Text string
}

// Unary is a prefix operator: "-", "+", "~", or "(" for a bracketed group.
type Unary struct {
	mark
	Op    string
	Trait *Trait
	Child Node
}

// Power raises its child to a literal exponent written as [power n].
type Power struct {
	mark
	Exponent string
	Child    Node
}

// Binary is an infix operator. Explicit operators always carry two Args;
// the implicit multiply has an empty Op and may hold any number of Args.
type Binary struct {
	mark
	Op    string
	Trait *Trait
	Args  []Node
}

// Implicit reports whether the node joins adjacent values with no
// written operator.
func (b *Binary) Implicit() bool { return b.Op == "" }

// Function is a named function such as sin or f applied to an argument.
type Function struct {
	mark
	Trait *Trait
	Arg   Node
}

// Root is sqrt, root3 or root4 applied to an argument.
type Root struct {
	mark
	Trait *Trait
	Arg   Node
}

// Macro is sum, product or integral. A range written as [from..to] before
// the argument arrives as a DecorRange modifier wrapping Arg.
type Macro struct {
	mark
	Trait *Trait
	Arg   Node
}

// Link decorates a chain of single-letter identifiers with an under or
// over line glyph.
type Link struct {
	mark
	Trait    *Trait
	Children []Node
}

// Decoration identifies what a Modifier does to its child.
type Decoration int

const (
	DecorStyle Decoration = iota
	DecorQuestion
	DecorRange
	DecorInvalid
)

// Modifier applies a bracketed annotation to the value that follows it.
type Modifier struct {
	mark
	Decoration Decoration

	// Style is the style name for DecorStyle (bold, -italic, red, ...).
	// Grouped is set when the annotation was written as [(name)], which
	// suppresses the brackets of a grouped child.
	Style   string
	Grouped bool

	// From and To bound a DecorRange.
	From *Head
	To   *Head

	// Raw is the unrecognised annotation text of a DecorInvalid.
	Raw string

	Child Node
}

var styles = map[string]bool{
	"bold": true, "italic": true, "underline": true,
	"-bold": true, "-italic": true, "-underline": true,
	"red": true, "green": true, "blue": true, "grey": true, "black": true, "yellow": true,
}

// Tree is the result of parsing expression text.
type Tree struct {
	Root   *Head
	Tokens []Token
	// Errors counts lexical error tokens; the tree is still built.
	Errors int
}

// Parse cleans, tokenizes and builds text into a tree. It never fails:
// malformed input yields Error nodes.
func Parse(text string) *Tree {
	tokens := Tokenize(Clean(text))
	return &Tree{
		Root:   Build(tokens),
		Tokens: tokens,
		Errors: ErrorCount(tokens),
	}
}
