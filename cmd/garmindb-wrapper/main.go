// garmindb-wrapper shields the external garmindb CLI from its known
// null-stats defect: it defaults the GarminConnectConfig.json fields the
// tool trips over, normalizes the argument list, then hands off to the
// real tool and propagates its exit code.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/StevenACoffman/anotherr/errors"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/wrapper"
)

const garminCLI = "garmindb_cli.py"

const (
	exitFail    = 1
	exitSuccess = 0
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	os.Exit(run(logger, os.Args[1:]))
}

func run(logger *zap.Logger, args []string) int {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Error("unable to resolve home directory", zap.Error(err))
		return exitFail
	}
	if err := wrapper.EnsureConfig(logger, filepath.Join(home, ".GarminDb")); err != nil {
		logger.Warn("unable to ensure garmindb config", zap.Error(err))
	}

	normalized := wrapper.Normalize(args)
	if len(normalized) != len(args) {
		logger.Info("no statistics flags provided, adding --all")
	}

	cmd := exec.Command(garminCLI, normalized...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err == nil {
		return exitSuccess
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if errors.Is(err, exec.ErrNotFound) {
		fmt.Fprintln(os.Stderr, garminCLI+" not found. Please ensure garmindb is installed.")
		fmt.Fprintln(os.Stderr, "Install with: pip install garmindb")
		return exitFail
	}
	logger.Error("failed to execute "+garminCLI, zap.Error(err))
	return exitFail
}
