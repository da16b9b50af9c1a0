// SPDX-License-Identifier: MPL-2.0

package skillfile

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// KindStructure covers missing, duplicate or misordered sections and
	// content outside of any section.
	KindStructure ErrorKind = iota + 1
	// KindValidation covers public-block failures: malformed skill name,
	// missing doc headers, missing pub skill or steps block.
	KindValidation
	// KindStatement covers statement-level syntax inside the steps block.
	KindStatement
)

// Rule messages. They are stable and form part of the CLI contract.
const (
	msgOutsideSections  = "declarations outside of public/private/tests sections"
	msgSectionOrder     = "top-level sections must begin with public: then private:"
	msgDuplicateSection = "duplicate top-level sections are not allowed"
	msgSkillName        = "exported skill name must be PascalCase"
	msgNoSkill          = "public section must include a pub skill"
	msgMissingHeaders   = "missing required doc headers: "
	msgNoSteps          = "pub skill must include a steps: block"
	msgPrintSyntax      = "invalid do console.println syntax"
	msgPrintLiteral     = "console.println only supports string literals in POC"
	msgUnsupported      = "unsupported statement in steps block: "
	msgEmptySteps       = "steps block must include at least one do console.println statement"
)

var (
	// ErrStructure is the sentinel wrapped by every KindStructure *Error.
	ErrStructure = errors.New("invalid document structure")
	// ErrValidation is the sentinel wrapped by every KindValidation *Error.
	ErrValidation = errors.New("invalid public section")
	// ErrStatement is the sentinel wrapped by every KindStatement *Error.
	ErrStatement = errors.New("invalid statement")
)

type (
	// ErrorKind groups parse failures by the pass that detected them.
	ErrorKind int

	// Error is a positioned parse failure. It wraps the sentinel matching its
	// Kind so callers can classify with errors.Is.
	Error struct {
		Kind ErrorKind
		// Path is the document path; empty when parsing anonymous input.
		Path string
		// Pos is the offending line, or the zero Pos when the rule concerns
		// the document as a whole.
		Pos Pos
		// Msg is the violated rule.
		Msg string
		// Missing lists absent doc header keys, sorted, for the missing
		// headers rule only.
		Missing []string
	}
)

func newError(kind ErrorKind, pos Pos, msg string) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: msg}
}

// Error implements the error interface as "path:line:col: message".
func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		if e.Pos.IsValid() {
			fmt.Fprintf(&b, ":%d:%d", e.Pos.Line, e.Pos.Column)
		}
		b.WriteString(": ")
	} else if e.Pos.IsValid() {
		fmt.Fprintf(&b, "line %d:%d: ", e.Pos.Line, e.Pos.Column)
	}
	b.WriteString(e.Msg)
	return b.String()
}

// Message returns the violated rule without location information.
func (e *Error) Message() string { return e.Msg }

// Unwrap returns the sentinel for the error's kind.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindStructure:
		return ErrStructure
	case KindValidation:
		return ErrValidation
	case KindStatement:
		return ErrStatement
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindValidation:
		return "validation"
	case KindStatement:
		return "statement"
	default:
		return "unknown"
	}
}

// attachPath records the document path on err when it is a *Error.
func attachPath(err error, path string) error {
	var perr *Error
	if errors.As(err, &perr) && perr.Path == "" {
		perr.Path = path
	}
	return err
}
