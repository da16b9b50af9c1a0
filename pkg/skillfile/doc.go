// SPDX-License-Identifier: MPL-2.0

// Package skillfile provides the tokenizer, parser and validator for .skill documents.
//
// A skill document is split into three top-level sections (public, private and
// tests). Only the public section is interpreted: it must carry the six
// documentation headers, export exactly one PascalCase skill and give that
// skill a steps block made of console.println calls and an optional return.
//
// Parsing runs in ordered passes, each failing fast with a positioned *Error:
//
//  1. Lex classifies every source line into a Token.
//  2. SplitSections groups tokens into a SectionTable and checks section order.
//  3. ValidatePublic collects doc headers and locates the skill declaration.
//  4. ExtractSteps walks the steps block into typed Step values.
//
// External consumers should use Parse or ParseBytes, which run all passes and
// return a validated *Program.
package skillfile
