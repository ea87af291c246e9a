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
	"strings"

	"github.com/poiesic/librank"
	"github.com/poiesic/librank/agent"
	"github.com/poiesic/librank/ai"
	"github.com/poiesic/librank/ai/openai"
	"github.com/poiesic/librank/dedupe"
	"github.com/poiesic/librank/index"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "librank",
		Usage: "Rank a document library against the intent of a query collection",
		Flags: []cli.Flag{
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
				Name:   "index",
				Usage:  "Build the embedding index over the library",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "library",
						Usage:    "Directory holding the document collection",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "index-dir",
						Usage:    "Directory for the index artifacts",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "rebuild",
						Usage: "Build a fresh index even when artifacts exist",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks embedded per request",
						Value: index.DefaultBatchSize,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
				},
			},
			{
				Name:   "rank",
				Usage:  "Rank the library and copy the top documents",
				Action: rankCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "library",
						Usage:    "Directory holding the document collection",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Usage:    "Directory holding the query documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Usage:    "Directory receiving the top ranked documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "index-dir",
						Usage:    "Directory for the index artifacts",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "rebuild",
						Usage: "Build a fresh index even when artifacts exist",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunk matches folded into document scores",
					},
					&cli.IntFlag{
						Name:  "top-copy",
						Usage: "Number of ranked documents copied to the output",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
				},
			},
			{
				Name:   "agent",
				Usage:  "Answer questions against the indexed library",
				Action: agentCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "index-dir",
						Usage:    "Directory holding the index artifacts",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of passages retrieved per question",
						Value: agent.DefaultTopK,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "chat-host",
						Usage: "Chat service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:     "chat-model",
						Usage:    "Chat model name",
						Required: true,
					},
				},
			},
			{
				Name:   "dedupe",
				Usage:  "Copy content-unique documents into a clean directory",
				Action: dedupeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "src",
						Usage:    "Directory to scan for documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dst",
						Usage:    "Directory receiving the unique documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to the persistent hash cache (omit for in-memory)",
					},
					&cli.StringSliceFlag{
						Name:  "ext",
						Usage: "Only consider files with this extension (repeatable)",
					},
				},
			},
			{
				Name:      "combine",
				Usage:     "Merge ranking output directories, stripping rank prefixes",
				ArgsUsage: "DIR [DIR...]",
				Action:    combineCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Usage:    "Directory receiving the combined documents",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	embedder, err := buildEmbedder(c)
	if err != nil {
		return err
	}

	cfg := librank.NewConfig(
		librank.WithLibraryDir(c.String("library")),
		librank.WithIndexDir(c.String("index-dir")),
		librank.WithEmbedBatchSize(c.Int("batch-size")),
		librank.WithRebuild(c.Bool("rebuild")),
	)

	pipeline, err := librank.NewPipeline(cfg, embedder)
	if err != nil {
		return err
	}

	ix, err := pipeline.EnsureIndex(ctx)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Index ready: %d chunks, dimension %d\n", ix.Len(), ix.Dimension())
	return nil
}

func rankCommand(c *cli.Context) error {
	ctx := context.Background()

	embedder, err := buildEmbedder(c)
	if err != nil {
		return err
	}

	cfg := librank.NewConfig(
		librank.WithLibraryDir(c.String("library")),
		librank.WithQueryDir(c.String("query")),
		librank.WithOutputDir(c.String("output")),
		librank.WithIndexDir(c.String("index-dir")),
		librank.WithTopK(c.Int("top-k")),
		librank.WithTopCopy(c.Int("top-copy")),
		librank.WithRebuild(c.Bool("rebuild")),
	)

	pipeline, err := librank.NewPipeline(cfg, embedder)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	for i, r := range result.Ranking {
		fmt.Printf("%02d. %-40s %.4f\n", i+1, r.Document, r.Score)
	}
	fmt.Fprintf(os.Stderr, "\nCopied %d documents to %s\n", result.Copied, cfg.OutputDir)
	return nil
}

func agentCommand(c *cli.Context) error {
	ctx := context.Background()

	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(chatHost),
		ai.WithChatModel(c.String("chat-model")),
	)

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("creating AI provider: %w", err)
	}
	defer provider.Close()

	ix, err := index.Load(c.String("index-dir"))
	if err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	a, err := agent.New(ix, provider.Embedder(), provider.Answerer(),
		agent.WithTopK(c.Int("top-k")))
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Ask questions about the library. Type 'exit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, passages, err := a.Answer(ctx, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println(answer)
		for _, p := range passages {
			fmt.Fprintf(os.Stderr, "  [%0.3f] %s\n", p.Score, p.Document)
		}
		fmt.Println()
	}
	return scanner.Err()
}

func dedupeCommand(c *cli.Context) error {
	ctx := context.Background()

	cachePath := c.String("cache")
	cache, err := dedupe.OpenCache(cachePath, cachePath == "")
	if err != nil {
		return fmt.Errorf("opening hash cache: %w", err)
	}
	defer cache.Close()

	var opts []dedupe.Option
	if exts := c.StringSlice("ext"); len(exts) > 0 {
		opts = append(opts, dedupe.WithExtensions(exts...))
	}
	d, err := dedupe.New(cache, opts...)
	if err != nil {
		return err
	}

	copied, err := d.CopyUnique(ctx, c.String("src"), c.String("dst"))
	if err != nil {
		return fmt.Errorf("dedupe failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Copied %d unique documents to %s\n", copied, c.String("dst"))
	return nil
}

func combineCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one source directory is required")
	}

	cache, err := dedupe.OpenCache("", true)
	if err != nil {
		return fmt.Errorf("opening hash cache: %w", err)
	}
	defer cache.Close()

	d, err := dedupe.New(cache)
	if err != nil {
		return err
	}

	copied, err := d.Combine(context.Background(), c.Args().Slice(), c.String("output"))
	if err != nil {
		return fmt.Errorf("combine failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Combined %d documents into %s\n", copied, c.String("output"))
	return nil
}

func buildEmbedder(c *cli.Context) (ai.Embedder, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
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
