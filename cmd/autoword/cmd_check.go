package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/antigravity-dev/autoword-go/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the environment: document driver availability and API keys",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ok := true

	cfg, err := loadConfigForRunUnvalidated()
	if err != nil {
		fmt.Printf("config: FAILED %v\n", err)
		return newExitCodeError(exitConfig, "environment check failed")
	}

	if cfg.LLM.APIKey == "" {
		fmt.Println("LLM API key: MISSING (set AUTOWORD_API_KEY or pass --api-key)")
		ok = false
	} else {
		fmt.Printf("LLM API key: configured (provider=%s)\n", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKeySecondary != "" {
		fmt.Println("LLM secondary API key: configured")
	}

	if _, err := openDriver(); err != nil {
		fmt.Printf("document driver: MISSING (%v)\n", err)
		ok = false
	} else {
		fmt.Println("document driver: available")
	}

	if err := cfg.CoreLimits.Validate(); err != nil {
		fmt.Printf("core limits: INVALID (%v)\n", err)
		ok = false
	} else {
		fmt.Println("core limits: valid")
	}

	if !ok {
		return newExitCodeError(exitConfig, "environment check failed")
	}
	fmt.Println("environment check passed")
	return nil
}

// loadConfigForRunUnvalidated loads config without requiring an API
// key to already be present, since check's whole job is reporting
// that absence rather than failing before it can.
func loadConfigForRunUnvalidated() (*config.Config, error) {
	ws := workspace
	if ws == "" {
		ws = "."
	}
	cfg, err := config.Load(ws + "/.autoword/config.yaml")
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	return cfg, nil
}
