// SPDX-License-Identifier: MPL-2.0

// Package manifest records and verifies the provenance of a build: which
// compiler produced it, in which mode, and the SHA-256 digests of the
// skill source and the native artifact.
package manifest
