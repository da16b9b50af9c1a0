// SPDX-License-Identifier: MPL-2.0

package skillfile

import (
	"fmt"
	"strings"
)

const (
	// Blank is an empty or whitespace-only line.
	Blank TokenKind = iota
	// SectionHeader is one of "public:", "private:" or "tests:".
	SectionHeader
	// DocHeader is a "///key: value" documentation comment.
	DocHeader
	// SkillDecl is a "pub skill Name" declaration.
	SkillDecl
	// StepsMarker opens the steps block of a skill.
	StepsMarker
	// PrintCall is a "do console.println(...)" statement.
	PrintCall
	// ReturnStmt is a "return" statement.
	ReturnStmt
	// Text is any other non-blank line.
	Text
)

// Lexical markers recognised at the start of a trimmed line.
const (
	docMarker    = "///"
	declMarker   = "pub skill"
	stepsMarker  = "steps:"
	printMarker  = "do console.println"
	returnMarker = "return"
	headerSuffix = ":"
)

// Section names.
const (
	SectionPublic  = "public"
	SectionPrivate = "private"
	SectionTests   = "tests"
)

type (
	// TokenKind classifies a source line.
	TokenKind int

	// Pos is a 1-based line/column position. The zero value means "unknown".
	Pos struct {
		Line   int
		Column int
	}

	// Token is one classified source line. Raw keeps the line verbatim
	// (without its terminator); Text is the whitespace-trimmed form that
	// every grammar rule matches against.
	Token struct {
		Kind TokenKind
		Raw  string
		Text string
		Pos  Pos
	}
)

var kindNames = [...]string{
	Blank:         "blank",
	SectionHeader: "section header",
	DocHeader:     "doc header",
	SkillDecl:     "skill declaration",
	StepsMarker:   "steps marker",
	PrintCall:     "console.println",
	ReturnStmt:    "return",
	Text:          "text",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return kindNames[k]
}

// IsValid reports whether p points at a real source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Text)
}

// SectionName returns the section a SectionHeader token opens.
func (t Token) SectionName() string {
	if t.Kind != SectionHeader {
		return ""
	}
	return strings.TrimSuffix(t.Text, headerSuffix)
}

// DocKeyValue splits a DocHeader token on its first colon. ok is false for
// doc comments that carry no colon at all.
func (t Token) DocKeyValue() (key, value string, ok bool) {
	if t.Kind != DocHeader {
		return "", "", false
	}
	body := strings.TrimSpace(strings.TrimPrefix(t.Text, docMarker))
	key, value, ok = strings.Cut(body, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
