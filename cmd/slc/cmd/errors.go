package cmd

import (
	"errors"
	"fmt"

	"github.com/corey/slc/internal/domain/recommend"
	"github.com/corey/slc/internal/domain/usage"
)

// Exit codes: 0 ok, 1 failure or no match, 2 usage error.
const (
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries a specific exit code. An empty message means the
// command already reported the problem.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string { return e.msg }

// errNoMatch is returned by recommend when nothing scored above the floor.
var errNoMatch = exitError{code: exitFailure}

func usageErrorf(format string, args ...any) error {
	return exitError{code: exitUsage, msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	var ee exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, recommend.ErrInvalidInput),
		errors.Is(err, usage.ErrUnknownKind),
		errors.Is(err, usage.ErrEmptyTemplateID):
		return exitUsage
	default:
		return exitFailure
	}
}
