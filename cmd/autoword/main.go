// Package main implements the autoword CLI: process a document's
// reviewer annotations into edit operations and apply them under the
// authorization gate, check the environment, or inspect a document
// without touching it.
//
// # File Index
//
//   - main.go       - entry point, rootCmd, global flags, init()
//   - cmd_process.go - processCmd, runProcess()
//   - cmd_check.go   - checkCmd, runCheck()
//   - cmd_inspect.go - inspectCmd, runInspect()
//   - driver.go      - openDriver(), the document-driver injection seam
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/antigravity-dev/autoword-go/internal/logging"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	workspace string
	timeout   time.Duration

	// Logger
	logger *zap.Logger
)

// exit codes per the CLI surface: 0 success, 1 pipeline failure, 2
// environment/config failure.
const (
	exitSuccess = 0
	exitFailure = 1
	exitConfig  = 2
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "autoword",
	Short: "autoword - convert reviewer annotations into authorized document edits",
	Long: `autoword reads a reviewer's comments on an office document, turns each
into a structured edit operation, executes them under a four-layer
authorization gate, and rolls back atomically if the gate ever finds
an unauthorized format change.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "LLM API key (or set AUTOWORD_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Working directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall run timeout")

	rootCmd.AddCommand(processCmd, checkCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFromError(err))
	}
}

// exitFromError maps a command failure to the CLI's exit-code
// contract. A *exitCodeError carries its own code (set by runProcess
// when a RunReport failed rather than the command itself erroring);
// anything else is treated as an environment/config failure since it
// means the command could not even start a run.
func exitFromError(err error) int {
	if e, ok := err.(*exitCodeError); ok {
		return e.code
	}
	return exitConfig
}

// exitCodeError lets a RunE return both a message and a specific exit
// code without cobra printing a misleading "Error: ..." for an
// already-reported pipeline failure.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

func newExitCodeError(code int, msg string) *exitCodeError {
	return &exitCodeError{code: code, msg: msg}
}
