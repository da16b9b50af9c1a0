// SPDX-License-Identifier: MPL-2.0

package skillfile

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Recognised documentation header keys.
const (
	DocIntent   = "intent"
	DocInputs   = "inputs"
	DocErrors   = "errors"
	DocEffects  = "effects"
	DocRequires = "requires"
	DocEnsures  = "ensures"
)

// requiredDocKeys is sorted; Missing relies on that.
var requiredDocKeys = []string{DocEffects, DocEnsures, DocErrors, DocInputs, DocIntent, DocRequires}

var pascalCase = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

type (
	// Section is one top-level block of a document. Lines holds every
	// token after the header up to the next header, verbatim.
	Section struct {
		Name  string
		Pos   Pos
		Lines []Token
	}

	// SectionTable is the ordered set of sections of one document.
	SectionTable struct {
		sections []*Section
	}

	// DocHeaderSet records the recognised doc headers seen in the public
	// section. The first value given for a key wins.
	DocHeaderSet struct {
		values map[string]string
	}

	// Declaration is the exported "pub skill" of a document.
	Declaration struct {
		Name string
		Pos  Pos
		// index is the declaration's offset in the public section's lines.
		index int
	}

	// Step is one statement of a steps block. The set of implementations is
	// closed: PrintStep and ReturnStep.
	Step interface {
		stepNode()
		Position() Pos
		String() string
	}

	// PrintStep prints Text followed by a newline.
	//
	//	do console.println("hello")
	//	                    ^^^^^  PrintStep{Text: "hello"}
	PrintStep struct {
		Text string
		Pos  Pos
	}

	// ReturnStep ends the skill. Nothing after it is parsed.
	ReturnStep struct {
		Pos Pos
	}

	// Program is a validated skill ready for lowering.
	Program struct {
		SourcePath string
		Skill      Declaration
		Docs       DocHeaderSet
		Steps      []Step
	}
)

func (*PrintStep) stepNode() {}

// Position returns the statement's location.
func (s *PrintStep) Position() Pos { return s.Pos }

func (s *PrintStep) String() string { return fmt.Sprintf("println(%q)", s.Text) }

func (*ReturnStep) stepNode() {}

// Position returns the statement's location.
func (s *ReturnStep) Position() Pos { return s.Pos }

func (s *ReturnStep) String() string { return "return" }

// RequiredDocKeys returns the doc header vocabulary in sorted order.
func RequiredDocKeys() []string {
	return slices.Clone(requiredDocKeys)
}

// IsDocKey reports whether key belongs to the doc header vocabulary.
func IsDocKey(key string) bool {
	_, found := slices.BinarySearch(requiredDocKeys, key)
	return found
}

// IsPascalCase reports whether name is an uppercase letter followed by
// letters and digits only.
func IsPascalCase(name string) bool {
	return pascalCase.MatchString(name)
}

// --- SectionTable ---

// Order returns the section names in order of appearance.
func (t *SectionTable) Order() []string {
	names := make([]string, 0, len(t.sections))
	for _, s := range t.sections {
		names = append(names, s.Name)
	}
	return names
}

// Get returns the named section.
func (t *SectionTable) Get(name string) (*Section, bool) {
	for _, s := range t.sections {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Public returns the public section. SplitSections guarantees it exists.
func (t *SectionTable) Public() *Section {
	s, _ := t.Get(SectionPublic)
	return s
}

// Len returns the number of sections.
func (t *SectionTable) Len() int { return len(t.sections) }

// --- DocHeaderSet ---

// Add records key with value unless the key is unknown or already present.
// It reports whether the key was recorded.
func (d *DocHeaderSet) Add(key, value string) bool {
	if !IsDocKey(key) {
		return false
	}
	if d.values == nil {
		d.values = make(map[string]string, len(requiredDocKeys))
	}
	if _, exists := d.values[key]; exists {
		return false
	}
	d.values[key] = value
	return true
}

// Has reports whether key was seen.
func (d DocHeaderSet) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get returns the value recorded for key.
func (d DocHeaderSet) Get(key string) string { return d.values[key] }

// Len returns the number of distinct recognised keys seen.
func (d DocHeaderSet) Len() int { return len(d.values) }

// Missing returns the required keys not seen, sorted.
func (d DocHeaderSet) Missing() []string {
	var missing []string
	for _, key := range requiredDocKeys {
		if !d.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// Map returns a copy of the recorded headers.
func (d DocHeaderSet) Map() map[string]string {
	out := make(map[string]string, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// --- Program ---

// NewProgram assembles a Program and checks its invariants.
func NewProgram(sourcePath string, skill Declaration, docs DocHeaderSet, steps []Step) (*Program, error) {
	p := &Program{
		SourcePath: sourcePath,
		Skill:      skill,
		Docs:       docs,
		Steps:      slices.Clone(steps),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the exported skill name.
func (p *Program) Name() string { return p.Skill.Name }

// Messages returns the print payloads in source order.
func (p *Program) Messages() []string {
	var out []string
	for _, s := range p.Steps {
		if ps, ok := s.(*PrintStep); ok {
			out = append(out, ps.Text)
		}
	}
	return out
}

// Validate checks the invariants every Program must hold: a PascalCase
// name, the full doc header vocabulary, at least one print step, and a
// return (if any) only in last position.
func (p *Program) Validate() error {
	if !IsPascalCase(p.Skill.Name) {
		return newError(KindValidation, p.Skill.Pos, msgSkillName)
	}
	if missing := p.Docs.Missing(); len(missing) > 0 {
		e := newError(KindValidation, p.Skill.Pos, msgMissingHeaders+strings.Join(missing, ", "))
		e.Missing = missing
		return e
	}
	prints := 0
	for i, s := range p.Steps {
		switch s.(type) {
		case *PrintStep:
			prints++
		case *ReturnStep:
			if i != len(p.Steps)-1 {
				return newError(KindStatement, s.Position(), "return must be the last step")
			}
		}
	}
	if prints == 0 {
		return newError(KindStatement, p.Skill.Pos, msgEmptySteps)
	}
	return nil
}
