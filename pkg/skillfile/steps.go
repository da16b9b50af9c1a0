// SPDX-License-Identifier: MPL-2.0

package skillfile

import "strings"

// ExtractSteps locates the steps block after decl and parses its statements.
//
// Grammar of the block (one statement per line, blank lines ignored):
//
//	steps     = "steps:" statement* [ "return" ... ]
//	statement = "do console.println" "(" STRING ")"
//
// A return statement ends extraction: lines after it are never inspected.
func ExtractSteps(public *Section, decl Declaration) ([]Step, error) {
	start := -1
	for i := decl.index + 1; i < len(public.Lines); i++ {
		if public.Lines[i].Kind == StepsMarker {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, newError(KindValidation, decl.Pos, msgNoSteps)
	}
	markerPos := public.Lines[start-1].Pos

	var (
		steps  []Step
		prints int
	)
loop:
	for _, tok := range public.Lines[start:] {
		switch tok.Kind {
		case Blank:
			continue
		case PrintCall:
			step, err := parsePrint(tok)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
			prints++
		case ReturnStmt:
			steps = append(steps, &ReturnStep{Pos: tok.Pos})
			break loop
		default:
			return nil, newError(KindStatement, tok.Pos, msgUnsupported+tok.Text)
		}
	}

	if prints == 0 {
		return nil, newError(KindStatement, markerPos, msgEmptySteps)
	}
	return steps, nil
}

// parsePrint extracts the string literal argument of a console.println call.
// The argument runs from the first "(" to a ")" that ends the line; its
// trimmed text must be wrapped in double quotes. No escape sequences are
// interpreted: the characters between the quotes are printed as written.
func parsePrint(tok Token) (*PrintStep, error) {
	text := tok.Text
	open := strings.IndexByte(text, '(')
	if open < 0 || !strings.HasSuffix(text, ")") {
		return nil, newError(KindStatement, tok.Pos, msgPrintSyntax)
	}

	arg := strings.TrimSpace(text[open+1 : len(text)-1])
	if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
		return nil, newError(KindStatement, argPos(tok, open), msgPrintLiteral)
	}

	return &PrintStep{Text: arg[1 : len(arg)-1], Pos: tok.Pos}, nil
}

// argPos returns the position just after the opening parenthesis at byte
// offset open within tok.Text.
func argPos(tok Token, open int) Pos {
	return Pos{Line: tok.Pos.Line, Column: tok.Pos.Column + len([]rune(tok.Text[:open])) + 1}
}
