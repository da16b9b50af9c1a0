// SPDX-License-Identifier: MPL-2.0

package skillfile

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lex splits src into lines and classifies each one. Classification is purely
// lexical: whether a token is legal where it appears is decided by the parser
// passes. Lines end at "\n", "\r\n", a lone "\r" or any other Unicode line
// boundary (see isLineBreak), and a trailing terminator does not produce an
// extra empty token.
func Lex(src string) []Token {
	lines := splitLines(src)
	if len(lines) == 0 {
		return nil
	}

	tokens := make([]Token, 0, len(lines))
	for i, raw := range lines {
		text := strings.TrimSpace(raw)
		tokens = append(tokens, Token{
			Kind: classify(text),
			Raw:  raw,
			Text: text,
			Pos:  Pos{Line: i + 1, Column: firstColumn(raw)},
		})
	}
	return tokens
}

func splitLines(src string) []string {
	var lines []string
	for src != "" {
		i := strings.IndexFunc(src, isLineBreak)
		if i < 0 {
			lines = append(lines, src)
			break
		}
		lines = append(lines, src[:i])
		r, size := utf8.DecodeRuneInString(src[i:])
		src = src[i+size:]
		if r == '\r' && strings.HasPrefix(src, "\n") {
			src = src[1:]
		}
	}
	return lines
}

// isLineBreak reports whether r ends a line: LF, CR, VT, FF, the ASCII
// file/group/record separators, NEL and the Unicode line and paragraph
// separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}

func classify(text string) TokenKind {
	switch {
	case text == "":
		return Blank
	case isSectionHeader(text):
		return SectionHeader
	case strings.HasPrefix(text, docMarker):
		return DocHeader
	case strings.HasPrefix(text, declMarker):
		return SkillDecl
	case text == stepsMarker:
		return StepsMarker
	case strings.HasPrefix(text, printMarker):
		return PrintCall
	case strings.HasPrefix(text, returnMarker):
		return ReturnStmt
	default:
		return Text
	}
}

func isSectionHeader(text string) bool {
	switch text {
	case SectionPublic + headerSuffix, SectionPrivate + headerSuffix, SectionTests + headerSuffix:
		return true
	default:
		return false
	}
}

// firstColumn returns the 1-based rune column of the first non-space rune,
// or 1 for blank lines.
func firstColumn(raw string) int {
	col := 1
	for _, r := range raw {
		if !unicode.IsSpace(r) {
			return col
		}
		col++
	}
	return 1
}
