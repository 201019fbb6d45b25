package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/dbcentral/internal/cli"
	"github.com/mrlokans/dbcentral/internal/database"
)

// Exit codes returned by Run.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitValidation = 2
	ExitConnection = 3
	ExitCanceled   = 130
)

// Run executes the command line and returns the process exit code. SIGINT
// and SIGTERM cancel the context passed to the running command, which stops
// any pending retry wait.
func Run(version string, args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(version)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, database.ErrValidation), errors.Is(err, database.ErrNotFound):
		return ExitValidation
	case errors.Is(err, database.ErrConnection):
		return ExitConnection
	default:
		return ExitError
	}
}
