package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nate2211/github-analytics/internal/api"
	"github.com/nate2211/github-analytics/internal/collector"
	"github.com/nate2211/github-analytics/internal/config"
)

func main() {
	// Load configuration
	env := config.LoadEnv()

	configPath, err := config.DefaultPath()
	if err != nil {
		log.Fatalf("Failed to resolve config path: %v", err)
	}

	// Initialize collector
	col := collector.NewGitHubCollector(log.New(os.Stderr, "", log.LstdFlags))

	// Initialize handler
	handler := api.NewHandler(col, configPath)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", env.APIHost, env.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
