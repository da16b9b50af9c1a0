// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	EntryNotFoundId Id = iota + 1
	SkillStructureErrorId
	SkillValidationErrorId
	StepsErrorId
	CompilerNotFoundId
	CompileFailedId
	ConfigLoadFailedId
	ManifestMismatchId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue guidance with the given glamour style
// ("auto", "dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(strings.TrimSpace(string(i.mdMsg)), stylePath)
}

var (
	render = glamour.Render

	entryNotFoundIssue = &Issue{
		id: EntryNotFoundId,
		mdMsg: `
# Entry file not found!

The skill document passed to skillc does not exist.

## Things you can try:
- Check the path for typos; it is resolved relative to the current directory
- List skill documents in the current tree:
~~~
$ find . -name '*.skill'
~~~`,
	}

	skillStructureErrorIssue = &Issue{
		id: SkillStructureErrorId,
		mdMsg: `
# Skill document is malformed!

A skill document is split into top-level sections, each opened by a line
that is exactly its name followed by a colon.

## Rules:
1. The first section is ` + "`public:`" + `, the second is ` + "`private:`" + `
2. A ` + "`tests:`" + ` section may follow
3. No section may appear twice
4. Nothing but blank lines may precede the first section

## Example:
~~~
public:
  /// intent: greet the user
  pub skill Greet
  steps:
    do console.println("hello")
private:
tests:
~~~`,
	}

	skillValidationErrorIssue = &Issue{
		id: SkillValidationErrorId,
		mdMsg: `
# Skill declaration is invalid!

The public section must declare exactly one exported skill with a
PascalCase name, preceded by all six doc headers.

## Required doc headers:
~~~
/// intent: ...
/// inputs: ...
/// requires: ...
/// ensures: ...
/// effects: ...
/// errors: ...
~~~

## Things you can try:
- Add the headers listed in the error message above ` + "`pub skill`" + `
- Rename the skill so it starts with an uppercase letter and holds only letters and digits`,
	}

	stepsErrorIssue = &Issue{
		id: StepsErrorId,
		mdMsg: `
# Steps block is invalid!

The ` + "`steps:`" + ` block after the skill declaration may only contain:

- ` + "`do console.println(\"literal text\")`" + `
- ` + "`return`" + ` (ends the block; later lines are ignored)
- blank lines

At least one print statement is required, and its argument must be a
double-quoted string literal.`,
	}

	compilerNotFoundIssue = &Issue{
		id: CompilerNotFoundId,
		mdMsg: `
# No C compiler found!

skillc compiles generated C with the host toolchain and looks for ` + "`gcc`" + `,
then ` + "`cc`" + `, on your PATH.

## Things you can try:
- Install a C toolchain (build-essential, Xcode command line tools, ...)
- Point skillc at a specific compiler:
~~~
$ SKILLC_COMPILER_PATH=/usr/bin/clang skillc build app.skill -o out/app
~~~`,
	}

	compileFailedIssue = &Issue{
		id: CompileFailedId,
		mdMsg: `
# Native compilation failed!

The C compiler rejected the generated source. Its diagnostics are shown above.

## Things you can try:
- Inspect the generated C:
~~~
$ skillc emit app.skill
~~~
- Check ` + "`compiler.flags`" + ` in your configuration for unsupported options`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ skillc config show
~~~
- Write a fresh default file:
~~~
$ skillc config init
~~~`,
	}

	manifestMismatchIssue = &Issue{
		id: ManifestMismatchId,
		mdMsg: `
# Build manifest does not match!

A file recorded in the manifest changed after the build.

## Things you can try:
- Rebuild the artifact to refresh the manifest
- If the artifact was not rebuilt on purpose, treat it as untrusted`,
	}

	issues = map[Id]*Issue{
		entryNotFoundIssue.Id():        entryNotFoundIssue,
		skillStructureErrorIssue.Id():  skillStructureErrorIssue,
		skillValidationErrorIssue.Id(): skillValidationErrorIssue,
		stepsErrorIssue.Id():           stepsErrorIssue,
		compilerNotFoundIssue.Id():     compilerNotFoundIssue,
		compileFailedIssue.Id():        compileFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		manifestMismatchIssue.Id():     manifestMismatchIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	ids := make([]Id, 0, len(issues))
	for id := range maps.Keys(issues) {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
