// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds a skill whenever its document changes.
//
// The Watcher monitors the directory tree holding the entry document and
// invokes a callback once a debounce window passes without further matching
// events. Callbacks run one at a time on the watcher's own goroutine, so two
// rebuilds never overlap; events arriving during a rebuild are coalesced into
// the next one.
package watch
