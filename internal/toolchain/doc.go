// SPDX-License-Identifier: MPL-2.0

// Package toolchain invokes the host C compiler that turns generated
// sources into native executables.
package toolchain
