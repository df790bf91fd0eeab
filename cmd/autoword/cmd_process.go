package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/antigravity-dev/autoword-go/internal/config"
	"github.com/antigravity-dev/autoword-go/internal/executor"
	"github.com/antigravity-dev/autoword-go/internal/llmclient"
	"github.com/antigravity-dev/autoword-go/internal/orchestrator"
)

var (
	processModel       string
	processDryRun      bool
	processOutput      string
	processConcurrency int
)

var processCmd = &cobra.Command{
	Use:   "process <path>...",
	Short: "Turn reviewer annotations into authorized edits and apply them",
	Long: `process loads one or more documents, extracts reviewer annotations and
structure, plans edit tasks with the LLM, executes the authorized ones,
validates the result, and exports a run log -- rolling back any
document whose final state fails the authorization gate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processModel, "model", "", "Override the configured LLM model")
	processCmd.Flags().BoolVar(&processDryRun, "dry-run", false, "Plan and execute without authorization-gate rollback of real state, export nothing")
	processCmd.Flags().StringVar(&processOutput, "output", "", "Override the configured output/working directory")
	processCmd.Flags().IntVar(&processConcurrency, "concurrency", 0, "Override the configured document concurrency (0 keeps the config value)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForRun()
	if err != nil {
		return newExitCodeError(exitConfig, err.Error())
	}

	if processModel != "" {
		cfg.LLM.Model = processModel
	}
	if processOutput != "" {
		cfg.Execution.WorkingDirectory = processOutput
	}
	concurrency := cfg.Execution.Concurrency
	if processConcurrency > 0 {
		concurrency = processConcurrency
	}

	driver, err := openDriver()
	if err != nil {
		return newExitCodeError(exitConfig, fmt.Sprintf("cannot process: %v", err))
	}

	client := llmclient.NewHTTPClient(cfg.LLM)

	mode := executor.ModeNormal
	if processDryRun {
		mode = executor.ModeDryRun
	}

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithTimeout(baseCtx, timeout)
	defer cancel()

	factory := func() *orchestrator.Pipeline {
		p := orchestrator.New(cfg, driver, client, mode)
		if processDryRun {
			p.DisableExport()
		}
		p.OnProgress(func(e orchestrator.ProgressEvent) {
			logger.Info("pipeline progress",
				zap.String("stage", string(e.Stage)),
				zap.Float64("fraction", e.Fraction),
				zap.String("message", e.Message))
		})
		return p
	}

	reports := orchestrator.RunMany(ctx, concurrency, args, factory)

	anyFailed := false
	for i, report := range reports {
		path := args[i]
		if report.Success {
			fmt.Printf("%s: ok (%d/%d task(s) succeeded, %d artifact(s) exported)\n",
				path, report.Execution.SucceededN, report.Execution.TotalTasks, len(report.ExportedArtifacts))
			continue
		}
		anyFailed = true
		fmt.Printf("%s: FAILED [%s] %s\n", path, report.ErrorCode, report.ErrorMessage)
		if report.RollbackPerformed {
			fmt.Printf("%s: rolled back to pre-run backup\n", path)
		}
		if report.DataAtRisk {
			fmt.Printf("%s: WARNING data at risk, manual review required (backup: %s)\n", path, report.BackupPath)
		}
	}

	if anyFailed {
		return newExitCodeError(exitFailure, "one or more documents failed processing")
	}
	return nil
}

// loadConfigForRun loads config.yaml from the workspace (or defaults)
// and applies the --api-key flag over whatever the environment and
// file already resolved.
func loadConfigForRun() (*config.Config, error) {
	ws := workspace
	if ws == "" {
		ws = "."
	}
	cfg, err := config.Load(ws + "/.autoword/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
