package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/pep299/autogram/internal/application"
)

// Overridden at build time via -ldflags
var (
	version = application.Version
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		limit       = flag.Int("limit", 0, "number of recent messages to scan (0 uses MESSAGE_LIMIT)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("autogram %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	ctx := context.Background()

	app, err := application.New(ctx)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	report, err := app.RunService.Execute(ctx, *limit)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	// Per-link failures are already in the report; only channel access
	// problems reach the fatal path above.
	fmt.Printf("Run completed: %s\n", report)
}
