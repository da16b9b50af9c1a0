// SPDX-License-Identifier: MPL-2.0

// Package testutil provides shared fixtures and helpers for skillc tests:
// canonical skill documents, entry-file writers and a probe for a usable
// host C compiler.
package testutil
