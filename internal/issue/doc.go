// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It holds the catalog of known failure kinds, each with Markdown guidance
// rendered through glamour, and the ActionableError type that carries an
// operation, a resource and remediation hints alongside the cause.
package issue
