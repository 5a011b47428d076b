// Copyright 2025 Openmuse Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/openmuse/curio"
	"github.com/openmuse/curio/config"
)

func main() {
	app := &cli.App{
		Name:  "curio-loader",
		Usage: "Batch ingestion of art object records into the vector store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest JSON documents from a source directory",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Directory containing JSON documents",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of files to process (0 for all)",
						Value: 0,
					},
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Process every file, ignoring the recorded commit",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.Bool("full") {
		cfg.Loader.Incremental = false
	}

	loader, err := curio.NewLoader(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize loader: %w", err)
	}
	defer loader.Close()

	if err := loader.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to prepare vector collection: %w", err)
	}

	pipeline, err := loader.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Source: %s\n", c.String("source"))
	fmt.Fprintf(os.Stderr, "Collection: %s\n", cfg.Qdrant.Collection)
	fmt.Fprintln(os.Stderr)

	report, err := pipeline.Run(ctx, c.String("source"), c.Int("limit"))
	if report != nil {
		fmt.Fprintf(os.Stderr, "Scanned:  %d\n", report.Scanned)
		fmt.Fprintf(os.Stderr, "Skipped:  %d\n", report.Skipped)
		fmt.Fprintf(os.Stderr, "Ingested: %d (%d chunks)\n", report.Ingested, report.Chunks)
		fmt.Fprintf(os.Stderr, "Failed:   %d\n", report.Failed)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
