package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/promiscuity/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, server, schema, and auth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\nPromiscuity Doctor")
	fmt.Println("==================")

	results := doctorChecks()

	fmt.Println()
	allPassed := true
	for _, r := range results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Printf("%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("   Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("❌ Some checks failed.")
		return fmt.Errorf("doctor found issues")
	}
	fmt.Println("✅ All checks passed!")
	return nil
}

func doctorChecks() []checkResult {
	var results []checkResult

	cfgPath, cfg, cfgErr := loadConfigFile()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Detail: cfgPath,
			Hint: "Run: promiscuity init",
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	url, apiKey := resolveSettings(flagURL, flagKey, cfg)
	results = append(results, checkResult{Name: "Server URL", Passed: true, Detail: url})

	if apiKey == "" {
		results = append(results, checkResult{
			Name: "API key",
			Hint: "Set --api-key, " + envKey + ", or run promiscuity init",
		})
	} else {
		results = append(results, checkResult{Name: "API key", Passed: true, Detail: "configured"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := client.New(url, client.WithAPIKey(apiKey))

	health, err := c.Health(ctx)
	if err != nil {
		return append(results, checkResult{
			Name: "Server reachable", Detail: url,
			Hint: fmt.Sprintf("Is promiscuity-server running?\n   Error: %v", err),
		})
	}
	results = append(results, checkResult{
		Name: "Server reachable", Passed: true,
		Detail: fmt.Sprintf("v%s, database %s", health.Version, health.Database),
	})

	ready, err := c.Ready(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server ready",
			Hint: fmt.Sprintf("Check the database and migrations. Error: %v", err),
		})
	} else {
		results = append(results, checkResult{
			Name: "Server ready", Passed: true,
			Detail: fmt.Sprintf("schema v%d", ready.SchemaVersion),
		})
	}

	if apiKey != "" {
		if _, _, err := c.Nodes.List(ctx, &client.NodeListOptions{Limit: 1}); err != nil {
			results = append(results, checkResult{
				Name: "Authentication",
				Hint: fmt.Sprintf("Check your API key. Error: %v", err),
			})
		} else {
			results = append(results, checkResult{Name: "Authentication", Passed: true, Detail: "valid"})
		}
	}

	return results
}
