// Package textnorm normaliza nomes exibidos ao cliente (acentos, caixa, espaços).
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents remove diacríticos: "Maracujá" -> "Maracuja".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpaces remove espaços nas pontas e reduz sequências internas a um espaço.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Slug gera um identificador de URL: minúsculo, sem acentos, palavras separadas por "-".
func Slug(s string) string {
	s = strings.ToLower(StripAccents(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
