package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mattn/go-isatty"
	stackdriver "github.com/tommy351/zap-stackdriver"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/peipeipe/garmin-bigquery-sync/cmd"
)

const (
	// exitFail is the exit code if the program
	// fails.
	exitFail = 1
	// exitSuccess is the exit code if the program succeeds.
	exitSuccess = 0
)

// https://pace.dev/blog/2020/02/12/why-you-shouldnt-use-func-main-in-golang-by-mat-ryer
func main() {
	l, err := newLogger()
	if err != nil {
		panic(err)
	}
	// set GOMAXPROCS based on container limits
	undo, err := maxprocs.Set()
	defer undo()
	if err != nil {
		l.Fatal("failed to set GOMAXPROCS:", zap.Error(err))
	}
	if err := cmd.Sync(l); err != nil {
		l.Error(fmt.Sprintf("%+v\n", err), zap.Error(err))
		os.Exit(exitFail)
	}
	l.Info("Successful completion")
	os.Exit(exitSuccess)
}

// newLogger builds the stackdriver JSON logger for scheduled runs, or a
// plain development logger when attached to a terminal.
func newLogger() (*zap.Logger, error) {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return zap.NewDevelopment()
	}

	var level zap.AtomicLevel
	if os.Getenv("DEBUG") != "" {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	config := &zap.Config{
		Level:            level,
		Encoding:         "json",
		EncoderConfig:    stackdriver.EncoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return config.Build(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &stackdriver.Core{
			Core: core,
		}
	}), zap.Fields(
		stackdriver.LogServiceContext(&stackdriver.ServiceContext{
			Service: "garmin-bigquery-sync",
			Version: getGitBuildVersion(),
		}),
	))
}

func getGitBuildVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return "unknown"
	}
	for _, setting := range bi.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return "unknown"
}
