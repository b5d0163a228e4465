// Package document segments annotated question text into lines, clauses and
// questions, classifies table-shaped line groups and renders the result as
// HTML with the answer inputs each group needs.
package document

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TokenType is the alternative of the document pattern a token matched.
type TokenType int

const (
	TokenSpace     TokenType = iota + 1 // whitespace run
	TokenBreak                          // <br>, <p> or </p>, text is the tag name
	TokenOpenParen                      // (
	TokenOpenBlock                      // [
	TokenCloseParen                     // )
	TokenCloseBlock                     // ]
	TokenDirective                      // ??
	TokenQuestion                       // ?
	TokenTag                            // any other tag
	TokenText                           // a word or a single other character
)

// Token is one lexeme of question text.
type Token struct {
	Type TokenType
	Text string
}

var documentPattern = regexp.MustCompile(`(\s+)|\s*<(br\b|p\b|\/p\b)[^>]*>\s*|(\()|(\[)|(\))|(])|\s*(\?\?)\s*|(\?)|(<[^>]*>)|([^()[\]?<\s;]+|.)`)

// Tokenize scans question text. A token's text is the text of the group
// it matched, so line break tokens carry only the tag name.
func Tokenize(text string) []Token {
	var tokens []Token
	for _, m := range documentPattern.FindAllStringSubmatchIndex(text, -1) {
		for g := 1; g <= int(TokenText); g++ {
			if m[2*g] >= 0 && m[2*g+1] > m[2*g] {
				tokens = append(tokens, Token{Type: TokenType(g), Text: text[m[2*g]:m[2*g+1]]})
				break
			}
		}
	}
	return tokens
}

var keptTags = map[atom.Atom]bool{
	atom.A:     true,
	atom.Image: true,
	atom.Img:   true,
	atom.Table: true,
	atom.Tr:    true,
	atom.Th:    true,
	atom.Td:    true,
	atom.Li:    true,
	atom.Ul:    true,
	atom.Ol:    true,
	atom.Div:   true,
}

// filterTag keeps structural and link tags and turns anything else into a
// space.
func filterTag(tag string) string {
	z := html.NewTokenizer(strings.NewReader(tag))
	switch z.Next() {
	case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
		name, _ := z.TagName()
		if keptTags[atom.Lookup(name)] {
			return tag
		}
	}
	return " "
}
