package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"tourism-platform/internal/config"
	"tourism-platform/internal/repository"
	"tourism-platform/pkg/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	statesFile := flag.String("states", cfg.Data.StatesFile, "States CSV")
	citiesFile := flag.String("cities", cfg.Data.CitiesFile, "Cities CSV")
	riskFile := flag.String("risk", cfg.Data.RiskFile, "Risk CSV")
	strict := flag.Bool("strict", false, "Exit non-zero when any warning is reported")
	flag.Parse()

	logger := logging.NewStructuredLogger("tourism-datacheck", "1.0.0", logging.WarnLevel)
	defer logger.Sync()

	ctx := context.Background()
	store, err := repository.LoadDataset(ctx, repository.DatasetPaths{
		States: *statesFile,
		Cities: *citiesFile,
		Risk:   *riskFile,
	}, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Dataset load failed: %v\n", err)
		os.Exit(1)
	}

	report := repository.Inspect(store)

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("DATASET CHECK")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("States:      %d\n", report.Counts["states"])
	fmt.Printf("Cities:      %d\n", report.Counts["cities"])
	fmt.Printf("Risk rows:   %d\n", report.Counts["risk"])
	fmt.Printf("Categories:  %s\n", strings.Join(report.Categories, ", "))

	warnings := report.Warnings()
	if len(warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	if *strict && len(warnings) > 0 {
		os.Exit(1)
	}
}
