// SPDX-License-Identifier: MPL-2.0

// Package codegen lowers a parsed skill program into C source.
//
// The generated program is a single main function that calls puts once per
// print step, in order, and returns 0. It includes nothing beyond stdio.h and
// compiles with any hosted C compiler at a standard optimization level.
package codegen
