// Copyright 2026 Openquill
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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/openquill/answerbase/ai"
	"github.com/openquill/answerbase/ai/breaker"
	"github.com/openquill/answerbase/ai/openai"
	"github.com/openquill/answerbase/analytics"
	"github.com/openquill/answerbase/ingest"
	"github.com/openquill/answerbase/maintain"
	"github.com/openquill/answerbase/search"
	"github.com/openquill/answerbase/storage"
	"github.com/openquill/answerbase/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}

	app := &cli.App{
		Name:   "answerbase",
		Usage:  "Knowledge-base content platform: ingest question nodes, search them",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import nodes from a CSV or Markdown file",
				ArgsUsage: "<file.csv|file.md>",
				Action:    importCommand,
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:      "export",
				Usage:     "Export a node as writer-template Markdown to stdout",
				ArgsUsage: "<node-id>",
				Action:    exportCommand,
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:   "search",
				Usage:  "Search published nodes",
				Action: searchCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Free-text query",
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Category filter",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "Enrichment service host URL (enables annotations)",
					},
					&cli.StringFlag{
						Name:  "ai-model",
						Usage: "Enrichment model name",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:  "ai-token",
						Usage: "Enrichment API token",
						Value: "none",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List nodes, most recently updated first",
				Action: listCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.BoolFlag{
						Name:  "published",
						Usage: "Only published nodes",
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Category filter",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of nodes (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "categories",
						Usage: "List distinct categories of published nodes instead",
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a node by id",
				ArgsUsage: "<node-id>",
				Action:    deleteCommand,
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:   "reblob",
				Usage:  "Recompute the search blob for every stored node",
				Action: reblobCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N nodes",
						Value: 100,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openNodeRepository opens the database and returns the node repository
// plus a cleanup function.
func openNodeRepository(c *cli.Context) (storage.NodeRepository, func(), error) {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	repo := badger.NewNodeRepository(backend)
	cleanup := func() {
		repo.Close()
		backend.Close()
	}
	return repo, cleanup, nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	repo, cleanup, err := openNodeRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	importer := ingest.NewImporter(repo)

	var report *ingest.ImportReport
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		report, err = importer.ImportCSV(c.Context, string(data))
	} else {
		report, err = importer.ImportMarkdown(c.Context, string(data))
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	for _, row := range report.Rows {
		if row.Success {
			fmt.Printf("row %d  ok    %s\n", row.Row, row.Id)
		} else {
			fmt.Printf("row %d  FAIL  %s\n", row.Row, row.Error)
		}
	}
	for _, msg := range report.Errors {
		fmt.Printf("error: %s\n", msg)
	}

	if !report.Committed {
		return fmt.Errorf("nothing imported: fix the errors above and retry")
	}
	fmt.Printf("imported: %d created, %d updated, %d unchanged\n",
		report.Created, report.Updated, report.Unchanged)
	return nil
}

func exportCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one node-id argument")
	}
	id := c.Args().First()

	repo, cleanup, err := openNodeRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	node, err := repo.GetNode(c.Context, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no node with id %q", id)
		}
		return err
	}

	fmt.Print(ingest.SerializeNodeMarkdown(node))
	return nil
}

func searchCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	nodeRepo := badger.NewNodeRepository(backend)
	defer nodeRepo.Close()

	eventRepo, err := badger.NewEventRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create event repository: %w", err)
	}
	defer eventRepo.Close()

	recorder, err := analytics.NewRecorder(eventRepo)
	if err != nil {
		return fmt.Errorf("failed to create analytics recorder: %w", err)
	}
	defer recorder.Close()

	opts := []search.Option{search.WithRecorder(recorder)}

	if host := c.String("ai-host"); host != "" {
		cfg := ai.NewConfig(
			ai.WithHost(host),
			ai.WithModel(c.String("ai-model")),
			ai.WithToken(c.String("ai-token")),
		)
		annotator, err := openai.NewAnnotator(cfg)
		if err != nil {
			return fmt.Errorf("failed to create annotator: %w", err)
		}
		opts = append(opts, search.WithAnnotator(breaker.New(annotator, breaker.Settings{})))
	}

	searcher := search.NewSearcher(nodeRepo, opts...)

	response, err := searcher.Search(c.Context, search.Request{
		Query:    c.String("query"),
		Category: c.String("category"),
		Limit:    c.Int("limit"),
	})
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			return fmt.Errorf("provide --query and/or --category")
		}
		return err
	}

	out, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func listCommand(c *cli.Context) error {
	repo, cleanup, err := openNodeRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if c.Bool("categories") {
		categories, err := repo.Categories(c.Context)
		if err != nil {
			return err
		}
		for _, category := range categories {
			fmt.Println(category)
		}
		return nil
	}

	nodes, err := repo.ListNodes(c.Context, storage.NodeQuery{
		PublishedOnly: c.Bool("published"),
		Category:      c.String("category"),
		Limit:         c.Int("limit"),
	})
	if err != nil {
		return err
	}

	for _, node := range nodes {
		status := "draft"
		if node.Published {
			status = "published"
		}
		fmt.Printf("%-40s  %-9s  %s\n", node.Id, status, node.Title)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one node-id argument")
	}
	id := c.Args().First()

	repo, cleanup, err := openNodeRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := repo.DeleteNode(c.Context, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no node with id %q", id)
		}
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func reblobCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, cleanup, err := openNodeRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	config := &maintain.Config{
		ReportInterval: c.Int("report-interval"),
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	reblobber := maintain.NewReblobber(repo, config, os.Stderr)
	if _, err := reblobber.Run(ctx); err != nil {
		return fmt.Errorf("reblob failed: %w", err)
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
