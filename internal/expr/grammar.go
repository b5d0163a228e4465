package expr

// Operator priorities, lowest binding first.
const (
	PrioModifier   = 0 // [ ... ]
	PrioBracket    = 1 // ( ... )
	PrioCompare    = 2 // = < > <= ...
	PrioAdd        = 3 // + -
	PrioMultiply   = 4 // * ./
	PrioFraction   = 5 // /
	PrioFunction   = 6 // sin, sqrt, sum ...
	PrioGlued      = 7 // implicit multiply without whitespace, as in 2A
	PrioPower      = 8 // ^
	PrioSubscript  = 9 // _
	PrioDecoration = 9 // bold, colours, ranges
	PrioLine       = 9 // __ ^_ ...
	PrioQuestion   = 10
)

// Class is the syntactic role of an operator or function name.
type Class int

const (
	ClassNone Class = iota
	ClassOpenModifier
	ClassCloseModifier
	ClassOpen
	ClassClose
	ClassUnaryOrBinary
	ClassBinary
	ClassLink
	ClassFunction
	ClassRoot
	ClassMacro
)

// Trait describes how an operator or named function parses and displays.
type Trait struct {
	Class Class
	Prio  int
	Text  string
	Sym   string

	// Link glyphs: SymJoin separates inner characters, Sym0 decorates a
	// lone character. Empty when the link does not support that arity.
	SymJoin string
	Sym0    string
}

var operators = map[string]*Trait{
	"[": {Class: ClassOpenModifier, Prio: PrioModifier, Text: "[", Sym: "["},
	"]": {Class: ClassCloseModifier, Prio: PrioModifier, Text: "]", Sym: "]"},

	"(": {Class: ClassOpen, Prio: PrioBracket, Text: "(", Sym: "("},
	")": {Class: ClassClose, Prio: PrioBracket, Text: ")", Sym: ")"},

	"-":  {Class: ClassUnaryOrBinary, Prio: PrioAdd, Text: "-", Sym: "&minus;"},
	"+":  {Class: ClassUnaryOrBinary, Prio: PrioAdd, Text: "+", Sym: "+"},
	"^":  {Class: ClassBinary, Prio: PrioPower, Text: "^", Sym: "^"},
	"*":  {Class: ClassBinary, Prio: PrioMultiply, Text: "*", Sym: "&times;"},
	"/":  {Class: ClassBinary, Prio: PrioFraction, Text: "/", Sym: "&frasl;"},
	"./": {Class: ClassBinary, Prio: PrioMultiply, Text: "./", Sym: "&divide;"},

	"~":  {Class: ClassUnaryOrBinary, Prio: PrioCompare, Text: "~", Sym: "&sim;"},
	"=":  {Class: ClassBinary, Prio: PrioCompare, Text: "=", Sym: "="},
	"<":  {Class: ClassBinary, Prio: PrioCompare, Text: "<", Sym: "&lt;"},
	">":  {Class: ClassBinary, Prio: PrioCompare, Text: ">", Sym: "&gt;"},
	"<=": {Class: ClassBinary, Prio: PrioCompare, Text: "<=", Sym: "&leqslant;"},
	">=": {Class: ClassBinary, Prio: PrioCompare, Text: ">=", Sym: "&geqslant;"},
	"==": {Class: ClassBinary, Prio: PrioCompare, Text: "==", Sym: "&equiv;"},
	"~=": {Class: ClassBinary, Prio: PrioCompare, Text: "~=", Sym: "&cong;"},
	"=~": {Class: ClassBinary, Prio: PrioCompare, Text: "=~", Sym: "&prop;"},
	"/=": {Class: ClassBinary, Prio: PrioCompare, Text: "/=", Sym: "&ne;"},
	"!=": {Class: ClassBinary, Prio: PrioCompare, Text: "!=", Sym: "&ne;"},
	"<>": {Class: ClassBinary, Prio: PrioCompare, Text: "<>", Sym: "&ne;"},
	"+-": {Class: ClassBinary, Prio: PrioCompare, Text: "+-", Sym: "&#xB1;"},
	"-+": {Class: ClassBinary, Prio: PrioCompare, Text: "-+", Sym: "&#x2213;"},

	"_":  {Class: ClassBinary, Prio: PrioLine, Text: "_", Sym: "_"},
	"..": {Class: ClassBinary, Prio: PrioCompare, Text: "..", Sym: ".."},

	"__": {Class: ClassLink, Prio: PrioLine, Text: "__", Sym: "&#x35F;", SymJoin: "&#x35F;", Sym0: "&#x0332;"},
	"_>": {Class: ClassLink, Prio: PrioLine, Text: "_>", Sym: "&#x362;"},
	"^_": {Class: ClassLink, Prio: PrioLine, Text: "^_", Sym: "&#x35E;", SymJoin: "&#x35E;", Sym0: "&#x0305;"},
	"^~": {Class: ClassLink, Prio: PrioLine, Text: "^~", Sym: "&#x360;"},
	"^^": {Class: ClassLink, Prio: PrioLine, Text: "^^", Sym: "&#x361;"},
}

var functions = map[string]*Trait{
	"sum":      {Class: ClassMacro, Prio: PrioFunction, Text: "sum", Sym: "&sum;"},
	"product":  {Class: ClassMacro, Prio: PrioFunction, Text: "product", Sym: "&prod;"},
	"integral": {Class: ClassMacro, Prio: PrioFunction, Text: "integral", Sym: "&int;"},
	"f":        {Class: ClassFunction, Prio: PrioFunction, Text: "f", Sym: "&fnof;"},
	"sin":      {Class: ClassFunction, Prio: PrioFunction, Text: "sin", Sym: "sin"},
	"cos":      {Class: ClassFunction, Prio: PrioFunction, Text: "cos", Sym: "cos"},
	"tan":      {Class: ClassFunction, Prio: PrioFunction, Text: "tan", Sym: "tan"},
	"arcsin":   {Class: ClassFunction, Prio: PrioFunction, Text: "arcsin", Sym: "arcsin"},
	"arccos":   {Class: ClassFunction, Prio: PrioFunction, Text: "arccos", Sym: "arccos"},
	"arctan":   {Class: ClassFunction, Prio: PrioFunction, Text: "arctan", Sym: "arctan"},
	"sqrt":     {Class: ClassRoot, Prio: PrioFunction, Text: "sqrt", Sym: "&radic;"},
	"rtthree":  {Class: ClassRoot, Prio: PrioFunction, Text: "root3", Sym: "&#x221B;"},
	"rtfour":   {Class: ClassRoot, Prio: PrioFunction, Text: "root4", Sym: "&#x221C;"},
}

var keywords = map[string]bool{
	"alpha": true, "Alpha": true,
	"beta": true, "Beta": true,
	"gamma": true, "Gamma": true,
	"delta": true, "Delta": true,
	"epsilon": true, "Epsilon": true,
	"zeta": true, "Zeta": true,
	"eta": true, "Eta": true,
	"theta": true, "Theta": true,
	"iota": true, "Iota": true,
	"kappa": true, "Kappa": true,
	"lambda": true, "Lambda": true,
	"mu": true, "Mu": true,
	"nu": true, "Nu": true,
	"xi": true, "Xi": true,
	"omicron": true, "Omicron": true,
	"pi": true, "Pi": true,
	"rho": true, "Rho": true,
	"sigma": true, "Sigma": true,
	"tau": true, "Tau": true,
	"upsilon": true, "Upsilon": true,
	"phi": true, "Phi": true,
	"chi": true, "Chi": true,
	"psi": true, "Psi": true,
	"omega": true, "Omega": true,
	"infin": true,
}

// Operator returns the trait for an operator spelling.
func Operator(text string) (*Trait, bool) {
	t, ok := operators[text]
	return t, ok
}

// IsKeyword reports whether an identifier names an HTML entity such as
// alpha or infin.
func IsKeyword(name string) bool {
	return keywords[name]
}

// IsComparator reports whether an operator spelling compares its operands.
func IsComparator(op string) bool {
	t, ok := operators[op]
	return ok && t.Prio == PrioCompare && t.Class == ClassBinary && op != ".."
}
