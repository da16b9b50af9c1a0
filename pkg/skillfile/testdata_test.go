// SPDX-License-Identifier: MPL-2.0

package skillfile

import "strings"

const greetDoc = `public:
  ///intent: greet the world
  ///inputs: none
  ///errors: none
  ///effects: writes to stdout
  ///requires: nothing
  ///ensures: two lines printed
  pub skill Greet
    steps:
      do console.println("hello")
      do console.println("world")
      return

private:
  helper stuff

tests:
  test placeholder
`

// withoutLine returns doc with every line containing needle removed.
func withoutLine(doc, needle string) string {
	lines := strings.Split(doc, "\n")
	out := lines[:0]
	for _, l := range lines {
		if !strings.Contains(l, needle) {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// docWithSteps builds a well-formed document around the given steps lines.
func docWithSteps(steps ...string) string {
	var b strings.Builder
	b.WriteString("public:\n")
	for _, k := range RequiredDocKeys() {
		b.WriteString("///" + k + ": x\n")
	}
	b.WriteString("pub skill Demo\n  steps:\n")
	for _, s := range steps {
		b.WriteString("    " + s + "\n")
	}
	b.WriteString("private:\n")
	return b.String()
}
