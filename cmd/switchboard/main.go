// Copyright 2025 Poiesic Systems
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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/switchboard"
	"github.com/poiesic/switchboard/config"
	"github.com/poiesic/switchboard/indexing"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "switchboard",
		Usage: "Answer questions about a company from its articles, team, jobs and services",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (defaults are used if not provided)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file (./.env is tried if not provided)",
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
				Name:      "ask",
				Usage:     "Answer one question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print the selected tool and outcome to stderr",
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Answer questions read line by line from stdin",
				Action: chatCommand,
			},
			{
				Name:      "route",
				Usage:     "Print the tool a question would be routed to",
				ArgsUsage: "<question>",
				Action:    routeCommand,
			},
			{
				Name:      "search",
				Usage:     "Show the articles retrieved for a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of articles to show",
						Value:   3,
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Load a JSON array of articles into the corpus",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the articles JSON file",
						Required: true,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed every article that has no current embedding",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed every article",
					},
				},
			},
		},
	}
}

// loadConfig reads the config file and environment named by the global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if err := config.LoadEnv(c.String("env-file")); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// withSwitchboard opens the assistant for the duration of fn.
func withSwitchboard(c *cli.Context, fn func(ctx context.Context, sb *switchboard.Switchboard) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sb, err := switchboard.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open switchboard: %w", err)
	}
	defer sb.Close()
	return fn(c.Context, sb)
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", fmt.Errorf("%s: a question is required", c.Command.Name)
	}
	return query, nil
}

func askCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	return withSwitchboard(c, func(ctx context.Context, sb *switchboard.Switchboard) error {
		exchange, err := sb.Ask(ctx, query)
		if err != nil {
			return err
		}
		if c.Bool("verbose") {
			fmt.Fprintf(c.App.ErrWriter, "Tool: %s\nOutcome: %s\n\n", exchange.Route.Tool.Name, exchange.Outcome)
		}
		fmt.Fprintln(c.App.Writer, exchange.Answer)
		return nil
	})
}

func chatCommand(c *cli.Context) error {
	return withSwitchboard(c, func(ctx context.Context, sb *switchboard.Switchboard) error {
		scanner := bufio.NewScanner(c.App.Reader)
		for {
			fmt.Fprint(c.App.Writer, "> ")
			if !scanner.Scan() {
				fmt.Fprintln(c.App.Writer)
				return scanner.Err()
			}
			query := strings.TrimSpace(scanner.Text())
			switch query {
			case "":
				continue
			case "exit", "quit":
				return nil
			}

			exchange, err := sb.Ask(ctx, query)
			if err != nil {
				// A corpus outage ends one exchange, not the session
				slog.Error("failed to answer", "err", err)
				continue
			}
			fmt.Fprintf(c.App.Writer, "%s\n\n", exchange.Answer)
		}
	})
}

func routeCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	return withSwitchboard(c, func(ctx context.Context, sb *switchboard.Switchboard) error {
		route := sb.Route(ctx, query)
		if !route.Resolved() {
			fmt.Fprintf(c.App.Writer, "No tool selected (model replied %q)\n", route.Reply)
			return nil
		}
		fmt.Fprintf(c.App.Writer, "%s (%s)\n", route.Tool.Name, route.Capability)
		return nil
	})
}

func searchCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}
	return withSwitchboard(c, func(ctx context.Context, sb *switchboard.Switchboard) error {
		result, err := sb.Search(ctx, query, c.Int("top-k"))
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.Writer, "Found %d hits (%s)\n", len(result.Chunks), result.Stage)
		for i, hit := range result.Hits {
			fmt.Fprintf(c.App.Writer, "%d: '%s' (%d)[%0.3f]\n", i, hit.Chunk.Title, hit.Chunk.ID, hit.Score)
		}
		if len(result.Hits) == 0 {
			for i, chunk := range result.Chunks {
				fmt.Fprintf(c.App.Writer, "%d: '%s' (%d)\n", i, chunk.Title, chunk.ID)
			}
		}
		return nil
	})
}

func loadCommand(c *cli.Context) error {
	return withSwitchboard(c, func(ctx context.Context, sb *switchboard.Switchboard) error {
		loader, err := sb.NewLoader()
		if err != nil {
			return err
		}
		report, err := loader.LoadFile(ctx, c.String("file"))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Inserted: %d, updated: %d, skipped: %d\n",
			report.Inserted, report.Enriched, report.Skipped)
		return nil
	})
}

func indexCommand(c *cli.Context) error {
	return withSwitchboard(c, func(ctx context.Context, sb *switchboard.Switchboard) error {
		ix, err := sb.NewIndexer(c.Bool("force"), indexing.WithProgress(c.App.ErrWriter))
		if err != nil {
			return err
		}
		report, err := ix.Run(ctx)
		sb.Metrics().ObserveIndexing(report)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Embedded %d of %d articles in %s\n",
			report.Embedded, report.Total, report.Elapsed.Round(time.Millisecond))
		return nil
	})
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
