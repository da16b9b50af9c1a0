// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reviewfirst/skillc/pkg/skillfile"
)

const indent = "    "

// CodeGen walks a program's steps and emits C source text.
type CodeGen struct {
	out strings.Builder
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

func (cg *CodeGen) line(depth int, format string, args ...any) {
	cg.out.WriteString(strings.Repeat(indent, depth))
	fmt.Fprintf(&cg.out, format, args...)
	cg.out.WriteByte('\n')
}

// Emit returns the C translation of prog. Output is deterministic: equal
// programs always produce byte-identical source.
func Emit(prog *skillfile.Program) (string, error) {
	if prog == nil {
		return "", fmt.Errorf("codegen: nil program")
	}
	cg := newCodeGen()
	if err := cg.genProgram(prog); err != nil {
		return "", err
	}
	return cg.out.String(), nil
}

func (cg *CodeGen) genProgram(prog *skillfile.Program) error {
	cg.line(0, "#include <stdio.h>")
	cg.line(0, "")
	cg.line(0, "int main(void) {")
	for _, step := range prog.Steps {
		if err := cg.genStep(step); err != nil {
			return err
		}
	}
	cg.line(1, "return 0;")
	cg.line(0, "}")
	return nil
}

func (cg *CodeGen) genStep(step skillfile.Step) error {
	switch s := step.(type) {
	case *skillfile.PrintStep:
		cg.line(1, "puts(%s);", QuoteC(s.Text))
	case *skillfile.ReturnStep:
		// main's trailing return 0 covers it.
	default:
		return fmt.Errorf("codegen: %s: unsupported step %T", step.Position(), step)
	}
	return nil
}

// QuoteC renders s as a C string literal that evaluates to exactly the
// bytes of s. Backslash and double quote are escaped, control characters
// become octal escapes and "??" is split so no trigraph can form. Bytes
// at or above 0x80 are copied through unchanged.
func QuoteC(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' || c == '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		case c == '?' && i+1 < len(s) && s[i+1] == '?':
			b.WriteString(`?\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// SourcePath returns where the C translation for an output binary is
// written: the output path with its extension replaced by ".c". When that
// would collide with the output itself, ".c" is appended instead.
func SourcePath(output string) string {
	ext := filepath.Ext(output)
	if ext == filepath.Base(output) {
		ext = ""
	}
	src := strings.TrimSuffix(output, ext) + ".c"
	if src == output {
		return output + ".c"
	}
	return src
}
