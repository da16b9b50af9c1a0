// SPDX-License-Identifier: MPL-2.0

// skillc compiles skill documents to native executables.
package main

import cmd "github.com/reviewfirst/skillc/cmd/skillc"

func main() {
	cmd.Execute()
}
