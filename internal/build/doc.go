// SPDX-License-Identifier: MPL-2.0

// Package build runs the skillc pipeline: parse a skill document, emit C,
// compile it with the host toolchain and record a provenance manifest next
// to the artifact.
package build
