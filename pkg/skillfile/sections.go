// SPDX-License-Identifier: MPL-2.0

package skillfile

// SplitSections groups tokens under their section headers.
//
// Rules, checked in this order:
//   - a non-blank line before the first header is rejected
//   - a header naming an already opened section is rejected
//   - the first two sections must be public then private
//
// Blank lines before the first header are dropped; everything after a
// header is kept verbatim, blank lines included.
func SplitSections(tokens []Token) (*SectionTable, error) {
	table := &SectionTable{}
	var current *Section

	for _, tok := range tokens {
		if tok.Kind == SectionHeader {
			name := tok.SectionName()
			if _, used := table.Get(name); used {
				return nil, newError(KindStructure, tok.Pos, msgDuplicateSection)
			}
			current = &Section{Name: name, Pos: tok.Pos}
			table.sections = append(table.sections, current)
			continue
		}

		if current == nil {
			if tok.Kind != Blank {
				return nil, newError(KindStructure, tok.Pos, msgOutsideSections)
			}
			continue
		}

		current.Lines = append(current.Lines, tok)
	}

	if err := checkSectionOrder(table); err != nil {
		return nil, err
	}
	return table, nil
}

// checkSectionOrder enforces that the document opens with public: then
// private:. The error points at the first misplaced header when there is one.
func checkSectionOrder(table *SectionTable) error {
	want := [...]string{SectionPublic, SectionPrivate}
	for i, name := range want {
		if i >= len(table.sections) {
			return newError(KindStructure, Pos{}, msgSectionOrder)
		}
		if s := table.sections[i]; s.Name != name {
			return newError(KindStructure, s.Pos, msgSectionOrder)
		}
	}
	return nil
}
