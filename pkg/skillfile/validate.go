// SPDX-License-Identifier: MPL-2.0

package skillfile

import (
	"strings"
	"unicode"
)

// ValidatePublic scans the public section for doc headers and the skill
// declaration.
//
// Doc headers are only collected up to the declaration; the declaration
// ends the scan. The skill name is checked before header completeness so a
// document with both problems reports the name first.
func ValidatePublic(public *Section) (Declaration, DocHeaderSet, error) {
	var (
		docs  DocHeaderSet
		decl  Declaration
		found bool
	)

	for i, tok := range public.Lines {
		if tok.Kind == DocHeader {
			if key, value, ok := tok.DocKeyValue(); ok {
				docs.Add(key, value)
			}
			continue
		}
		if tok.Kind != SkillDecl {
			continue
		}

		name, ok := parseSkillName(tok.Text)
		if !ok {
			return Declaration{}, DocHeaderSet{}, newError(KindValidation, tok.Pos, msgSkillName)
		}
		decl = Declaration{Name: name, Pos: tok.Pos, index: i}
		found = true
		break
	}

	if !found {
		return Declaration{}, DocHeaderSet{}, newError(KindValidation, public.Pos, msgNoSkill)
	}

	if missing := docs.Missing(); len(missing) > 0 {
		e := newError(KindValidation, decl.Pos, msgMissingHeaders+strings.Join(missing, ", "))
		e.Missing = missing
		return Declaration{}, DocHeaderSet{}, e
	}

	return decl, docs, nil
}

// parseSkillName extracts the identifier following "pub skill". At least one
// space must separate the marker from the name, and the name must end at a
// non-identifier rune (or the end of the line). Anything after that, such as
// a trailing colon, is ignored.
func parseSkillName(text string) (string, bool) {
	rest := strings.TrimPrefix(text, declMarker)
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(trimmed) == len(rest) {
		return "", false
	}

	end := strings.IndexFunc(trimmed, func(r rune) bool { return !isIdentRune(r) })
	if end < 0 {
		end = len(trimmed)
	}
	name := trimmed[:end]
	if !IsPascalCase(name) {
		return "", false
	}
	return name, true
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
