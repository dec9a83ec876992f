package ident

import (
	"fmt"
	"strings"
	"unicode"
)

// Fragment derives the snake_case name fragment for a type name, as used
// in generated method names and configuration defaults. It only accepts
// bare named types; qualified, pointer, slice, or generic type expressions
// have no canonical single-word name and require an explicit one.
func Fragment(typeName string) (string, error) {
	if !IsSimpleName(typeName) {
		return "", fmt.Errorf("cannot derive a method name for type %q; provide one by writing \"name: \" before the type", typeName)
	}

	tokens := Tokens(typeName)
	for i, tok := range tokens {
		tokens[i] = strings.ToLower(tok)
	}

	return strings.Join(tokens, "_"), nil
}

// Camel converts a snake_case fragment back into a CamelCase identifier
// suitable for composing exported Go method names. Digit-only tokens are
// appended as-is, so "html_parser_5" becomes "HtmlParser5".
func Camel(fragment string) string {
	var sb strings.Builder

	for _, tok := range strings.Split(fragment, "_") {
		if tok == "" {
			continue
		}

		runes := []rune(tok)
		sb.WriteRune(unicode.ToUpper(runes[0]))
		sb.WriteString(string(runes[1:]))
	}

	return sb.String()
}

// IsSimpleName reports whether s is a bare identifier: letters, digits,
// and underscores, starting with a letter or underscore, with no package
// qualifier, type parameters, or composite syntax.
func IsSimpleName(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}

	return true
}

// Tokens splits an identifier into its word tokens. Splits happen at
// explicit separators, at lower-to-upper transitions, at the end of an
// uppercase acronym run, and at every transition between letters and
// digits in either direction.
func Tokens(ident string) []string {
	var tokens []string

	var currentToken strings.Builder

	runes := []rune(ident)

	for i, r := range runes {
		if isSeparator(r) {
			if currentToken.Len() > 0 {
				tokens = append(tokens, currentToken.String())
				currentToken.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) {
			if currentToken.Len() > 0 {
				tokens = append(tokens, currentToken.String())
				currentToken.Reset()
			}
		}

		currentToken.WriteRune(r)
	}

	if currentToken.Len() > 0 {
		tokens = append(tokens, currentToken.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	curr := runes[i]
	prev := runes[i-1]

	// Letter-digit boundaries split in both directions, so a trailing
	// version number becomes its own token: HtmlParser5 -> html parser 5.
	if unicode.IsDigit(curr) && unicode.IsLetter(prev) {
		return true
	}

	if unicode.IsLetter(curr) && unicode.IsDigit(prev) {
		return true
	}

	if !unicode.IsUpper(curr) {
		return false
	}

	// Uppercase after lowercase starts a new token: fooBar -> foo bar.
	if !unicode.IsUpper(prev) {
		return true
	}

	// Uppercase run followed by lowercase ends an acronym: HTTPServer
	// splits before "Server".
	if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		return true
	}

	return false
}
