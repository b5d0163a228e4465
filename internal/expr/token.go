package expr

import "regexp"

// Kind classifies a scanned token.
type Kind int

const (
	KindNumber Kind = iota
	KindIdent
	KindPrime
	KindOp
	KindSpace
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "num"
	case KindIdent:
		return "id"
	case KindPrime:
		return "prime"
	case KindOp:
		return "op"
	case KindSpace:
		return "space"
	case KindError:
		return "err"
	}
	return "unknown"
}

// Token is one scanned lexeme. Trait is set for operators and function names.
type Token struct {
	Kind  Kind
	Text  string
	Trait *Trait
}

// class returns the token's parse role, ClassNone for values and spaces.
func (t Token) class() Class {
	if t.Trait == nil {
		return ClassNone
	}
	return t.Trait.Class
}

var tokenPattern = regexp.MustCompile(`(\d+[.,]\d+|\d+)|([A-Za-z][a-z]*)|(['"]+)|(\^~|\^\^|\^_|__|_>|<=|>=|==|<>|/=|!=|~=|=~|\./|\.\.|\+-|-\+|[\-*/^+=<>~_()\[\]])|(\s+)|(\S)`)

var tokenKinds = []Kind{KindNumber, KindIdent, KindPrime, KindOp, KindSpace, KindError}

// Tokenize scans text into tokens. Every input character belongs to exactly
// one token; characters no rule accepts become KindError tokens.
func Tokenize(text string) []Token {
	var tokens []Token
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		lexeme := text[m[0]:m[1]]
		kind := KindError
		for i, k := range tokenKinds {
			if m[2*(i+1)] >= 0 {
				kind = k
				break
			}
		}

		tok := Token{Kind: kind, Text: lexeme}
		switch kind {
		case KindOp:
			if t, ok := operators[lexeme]; ok {
				tok.Trait = t
			} else {
				tok.Kind = KindError
			}
		case KindIdent:
			if t, ok := functions[lexeme]; ok {
				tok.Kind = KindOp
				tok.Trait = t
				tok.Text = t.Text
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// ErrorCount returns the number of lexical error tokens.
func ErrorCount(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t.Kind == KindError {
			n++
		}
	}
	return n
}

type substitution struct {
	pattern *regexp.Regexp
	replace string
}

// Applied in order; later rules see the output of earlier ones.
var substitutions = []substitution{
	{regexp.MustCompile("⁰"), "^0 "},
	{regexp.MustCompile("¹"), "^1 "},
	{regexp.MustCompile("²"), "^2 "},
	{regexp.MustCompile("³"), "^3 "},
	{regexp.MustCompile("⁴"), "^4 "},
	{regexp.MustCompile("⁵"), "^5 "},
	{regexp.MustCompile("⁶"), "^6 "},
	{regexp.MustCompile("⁷"), "^7 "},
	{regexp.MustCompile("⁸"), "^8 "},
	{regexp.MustCompile("⁹"), "^9 "},
	{regexp.MustCompile("ⁱ"), "^i "},
	{regexp.MustCompile("\u0080"), "^0"},
	{regexp.MustCompile("\u0082"), ","},
	{regexp.MustCompile("\u0083"), " f "},
	{regexp.MustCompile("\u0085"), "..."},
	{regexp.MustCompile("÷"), "/"},
	{regexp.MustCompile(`\+/-`), "+-"},
	{regexp.MustCompile(`-/\+`), "-+"},
	{regexp.MustCompile(`\binfinity\b`), "infin"},
	{regexp.MustCompile(`root2`), "sqrt"},
	{regexp.MustCompile(`root3`), "rtthree"},
	{regexp.MustCompile(`root4`), "rtfour"},
	{regexp.MustCompile(`([A-Za-z])([0-9]+)`), "${1}_${2}"},
	{regexp.MustCompile(`^([.,])([0-9])`), "0${1}${2}"},
	{regexp.MustCompile(`([^.0-9])([.,])([0-9])`), "${1} 0${2}${3}"},
	{regexp.MustCompile(`([0-9])([.,])$`), "${1}"},
	{regexp.MustCompile(`([0-9])([.,])([^.0-9])`), "${1} ${3}"},
	{regexp.MustCompile(`\?([0-9]+)\?`), "[question](${1})"},
	{regexp.MustCompile(`<strong>`), "[bold]"},
	{regexp.MustCompile(`</strong>`), ""},
	{regexp.MustCompile(`<em>`), "[italic]"},
	{regexp.MustCompile(`</em>`), ""},
	{regexp.MustCompile(`\b((?:arc)?(?:sin|cos|tan))\^(-?\d+(?:[,.]\d+)?)`), "[power ${2}]${1}"},
}

// Clean rewrites alternative spellings into the forms the tokenizer knows:
// superscript digits, legacy code-page bytes, bare decimals, ?n? answer
// placeholders, HTML emphasis and trig powers such as sin^2.
func Clean(text string) string {
	for _, s := range substitutions {
		text = s.pattern.ReplaceAllString(text, s.replace)
	}
	return text
}

var (
	operatorHint = regexp.MustCompile(`\^~|\^\^|\^_|__|_>|<=|>=|==|<>|/=|!=|~=|=~|\./|[\-*/^+=<>~_()]`)
	numericHint  = regexp.MustCompile(`^\d*([.,]\d+)?$`)
	wordPattern  = regexp.MustCompile(`\w+`)
)

// LooksLikeExpression reports whether free text reads as mathematics: it
// holds an operator, is a number, or is a single keyword such as pi.
func LooksLikeExpression(text string) bool {
	if operatorHint.MatchString(text) {
		return true
	}
	if numericHint.MatchString(text) {
		return true
	}
	words := wordPattern.FindAllString(text, -1)
	return len(words) == 1 && keywords[words[0]]
}
