// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/reviewfirst/skillc/internal/build"
	"github.com/reviewfirst/skillc/internal/issue"
	"github.com/reviewfirst/skillc/internal/manifest"
	"github.com/reviewfirst/skillc/internal/toolchain"
	"github.com/reviewfirst/skillc/pkg/skillfile"
)

// ServiceError is an error that carries an issue catalog entry for the CLI
// layer to render under the message. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps pipeline errors to issue catalog entries. Unknown
// errors yield 0.
func classifyError(err error) issue.Id {
	var (
		svcErr     *ServiceError
		compileErr *toolchain.CompileError
	)
	switch {
	case errors.As(err, &svcErr):
		return svcErr.IssueID
	case errors.Is(err, build.ErrEntryNotFound):
		return issue.EntryNotFoundId
	case errors.Is(err, skillfile.ErrStructure):
		return issue.SkillStructureErrorId
	case errors.Is(err, skillfile.ErrValidation):
		return issue.SkillValidationErrorId
	case errors.Is(err, skillfile.ErrStatement):
		return issue.StepsErrorId
	case errors.Is(err, toolchain.ErrCompilerNotFound):
		return issue.CompilerNotFoundId
	case errors.As(err, &compileErr):
		return issue.CompileFailedId
	case errors.Is(err, manifest.ErrDigestMismatch):
		return issue.ManifestMismatchId
	default:
		return 0
	}
}

// renderError prints "skillc error: <message>". In verbose mode actionable
// errors include their cause chain, and known failures are followed by the
// rendered issue guidance.
func (a *App) renderError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var ae *issue.ActionableError
	msg := err.Error()
	if errors.As(err, &ae) {
		msg = ae.Format(a.verbose)
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("skillc error:"), msg)

	if !a.verbose {
		return
	}
	id := classifyError(err)
	if id == 0 {
		return
	}
	if catalogEntry := issue.Get(id); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(a.glamourStyle())
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}
