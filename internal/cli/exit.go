package cli

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/matzehuels/reebsmooth/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInvalid     = 2 // bad graph, ε, flag or config
	ExitNotFound    = 3
	ExitUnsupported = 4
	ExitTimeout     = 5
	ExitInterrupted = 130
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	code := errors.GetCode(err)
	switch {
	case code.IsInvalid():
		return ExitInvalid
	case code == errors.ErrCodeFileNotFound:
		return ExitNotFound
	case code == errors.ErrCodeUnsupported:
		return ExitUnsupported
	case code == errors.ErrCodeTimeout, stderrors.Is(err, context.DeadlineExceeded):
		return ExitTimeout
	}
	return ExitError
}

// ReportError prints err for a human: the message, then the cause and the
// code of a coded error on indented lines.
func ReportError(w io.Writer, err error) {
	if stderrors.Is(err, context.Canceled) {
		printWarning(w, "interrupted")
		return
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		printError(w, "%s", err)
		return
	}
	printError(w, "%s", e.Message)
	if e.Cause != nil {
		printDetail(w, "%v", e.Cause)
	}
	printDetail(w, "code: %s", e.Code)
}
