package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/wlanstack/mlme-go/internal/scenario"
	mlog "github.com/wlanstack/mlme-go/pkg/log"
)

// runScenarios runs a scenario file or every scenario in a directory and
// returns the process exit code.
func runScenarios(path string, logger *slog.Logger, plog mlog.Logger) int {
	scenarios, err := loadScenarios(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	e := scenario.New(scenario.EngineConfig{
		Logger:         logger,
		ProtocolLogger: plog,
		OnScenarioComplete: func(r *scenario.Result) {
			status := "PASS"
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Printf("%-4s %-16s %s (%s)\n", status, r.Scenario.ID, r.Scenario.Name, r.Duration)
			if r.Error != nil {
				fmt.Printf("     %v\n", r.Error)
			}
		},
	})
	result := e.RunAll(context.Background(), scenarios)

	fmt.Printf("\n%d passed, %d failed (%s)\n", result.PassCount, result.FailCount, result.Duration)
	if result.FailCount > 0 {
		return 1
	}
	return 0
}

func loadScenarios(path string) ([]*scenario.Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return scenario.LoadDirectory(path)
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	return []*scenario.Scenario{sc}, nil
}
