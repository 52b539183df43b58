package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/trafficlab/tunnelsim/tunnel"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to JSON configuration file")
	timeout := flag.Duration("timeout", 60*time.Second, "Wall-clock bound for the run")
	outputFile := flag.String("output", "", "Path to output JSON file (optional, prints to stdout if not specified)")
	seed := flag.Int64("seed", 0, "Random seed override (0 keeps the config's seed)")
	verbose := flag.Bool("verbose", false, "Print every event to stderr as it happens")
	flag.Parse()

	if *configFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -config <config.json> [-timeout <duration>] [-output <output.json>] [-seed <n>] [-verbose]\n", os.Args[0])
		os.Exit(1)
	}

	// Read configuration from file
	configData, err := os.ReadFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		os.Exit(1)
	}

	var config tunnel.ScenarioConfig
	if err := json.Unmarshal(configData, &config); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing config JSON: %v\n", err)
		os.Exit(1)
	}

	if *seed != 0 {
		config.RandomSeed = *seed
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	scenario, err := tunnel.NewScenario(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scenario: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		scenario.Log().OnEvent = func(e tunnel.Event) {
			fmt.Fprintf(os.Stderr, "[SIM] %s\n", e)
		}
		fmt.Fprintf(os.Stderr, "Verbose logging enabled\n")
	}

	runID := uuid.NewString()
	fmt.Fprintf(os.Stderr, "Starting run %s (%d vehicles, %s scheduler)...\n",
		runID, len(scenario.Vehicles()), config.Scheduler)
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	stats := scenario.Run(ctx)

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "Run completed in %v (%d/%d vehicles finished)\n",
		elapsed, stats.Completed, stats.TotalVehicles)

	results := map[string]interface{}{
		"runId":    runID,
		"config":   config,
		"realTime": elapsed.Seconds(),
		"stats":    stats,
		"events":   scenario.Log().Events(),
	}

	// Output results
	output, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling results: %v\n", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", *outputFile)
	} else {
		fmt.Println(string(output))
	}
}
