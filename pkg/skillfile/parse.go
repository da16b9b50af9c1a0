// SPDX-License-Identifier: MPL-2.0

package skillfile

import (
	"fmt"
	"os"
)

// Parse reads and parses the skill document at path.
func Parse(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill document at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes runs every parser pass over data. Errors are *Error values
// carrying path and the offending position.
func ParseBytes(data []byte, path string) (*Program, error) {
	tokens := Lex(string(data))

	table, err := SplitSections(tokens)
	if err != nil {
		return nil, attachPath(err, path)
	}

	public := table.Public()
	decl, docs, err := ValidatePublic(public)
	if err != nil {
		return nil, attachPath(err, path)
	}

	steps, err := ExtractSteps(public, decl)
	if err != nil {
		return nil, attachPath(err, path)
	}

	prog, err := NewProgram(path, decl, docs, steps)
	if err != nil {
		return nil, attachPath(err, path)
	}
	return prog, nil
}
