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
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/qasearch"
	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/ingestion"
	"github.com/poiesic/qasearch/metrics"
	"github.com/poiesic/qasearch/search"
	"github.com/poiesic/qasearch/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

func main() {
	// QASEARCH_CONFIG and the ${VAR} references in config files may come from a .env file
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of results",
			Value:   core.DefaultLimit,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "Number of results to skip",
		},
	}
}

func queryCommand(name, usage string, run func(*search.Searcher, context.Context, string, int, int) []*core.Document) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<query>",
		Flags:     append([]cli.Flag{dbFlag()}, pageFlags()...),
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			return withSession(c, func(s *session) error {
				results := run(s.searcher, c.Context, query, c.Int("limit"), c.Int("offset"))
				printDocuments(c.App.Writer, results)
				return nil
			})
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qasearch",
		Usage: "Search and rank a question/answer corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML file with search scoring settings",
				EnvVars: []string{"QASEARCH_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print search metrics after the command",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import questions from a YAML corpus file",
				Action: importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Corpus file to import",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of questions written per transaction",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent batch writers",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed batch writes",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print import progress to stderr",
					},
				},
			},
			queryCommand("search", "Exact lookup with fuzzy fallback; a blank query lists the newest questions", (*search.Searcher).Search),
			queryCommand("exact", "Phrase lookup only", (*search.Searcher).SearchExact),
			queryCommand("fuzzy", "Fuzzy ranking when no exact match exists", (*search.Searcher).SearchFuzzy),
			{
				Name:   "browse",
				Usage:  "List questions matching structured criteria",
				Action: browseCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "text",
						Usage: "Text the title or content must contain",
					},
					&cli.BoolFlag{
						Name:  "any-term",
						Usage: "Match any word of --text instead of the whole phrase",
					},
					&cli.StringFlag{
						Name:  "subject",
						Usage: "Subject name",
					},
					&cli.StringFlag{
						Name:  "author",
						Usage: "Author name",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Required tag (repeatable)",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order (newest, oldest, most-upvoted, most-viewed, most-answered)",
						Value: core.SortNewest.String(),
					},
					&cli.BoolFlag{
						Name:  "unanswered",
						Usage: "Only questions without answers",
					},
					&cli.BoolFlag{
						Name:  "solved",
						Usage: "Only solved questions",
					},
				}, pageFlags()...),
			},
			{
				Name:   "related",
				Usage:  "List questions related to a question",
				Action: relatedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Question ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of related questions",
						Value:   5,
					},
				},
			},
		},
	}
}

// session holds what a command needs for one run.
type session struct {
	db       *qasearch.Database
	searcher *search.Searcher
	registry *prometheus.Registry
}

func withSession(c *cli.Context, fn func(*session) error) error {
	opts := []qasearch.DatabaseOption{qasearch.WithLogger(slog.Default())}

	if path := c.String("config"); path != "" {
		cfg, err := search.LoadConfig(path)
		if err != nil {
			return err
		}
		opts = append(opts, qasearch.WithSearchConfig(cfg))
	}

	var registry *prometheus.Registry
	if c.Bool("stats") {
		registry = prometheus.NewRegistry()
		monitor, err := metrics.NewMonitor(registry)
		if err != nil {
			return err
		}
		opts = append(opts, qasearch.WithSearchMonitor(monitor))
	}

	db, err := qasearch.NewDatabase(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "err", err)
		}
	}()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	s := &session{db: db, searcher: searcher, registry: registry}
	if err := fn(s); err != nil {
		return err
	}
	if registry != nil {
		return printStats(c.App.Writer, registry)
	}
	return nil
}

func importCommand(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		opts := []ingestion.Option{
			ingestion.WithBatchSize(c.Int("batch-size")),
			ingestion.WithPoolSize(c.Int("pool-size")),
			ingestion.WithMaxRetries(c.Int("max-retries")),
			ingestion.WithRetryDelay(c.Duration("retry-delay")),
		}
		if c.Bool("progress") {
			opts = append(opts, ingestion.WithProgress(c.App.ErrWriter))
		}

		importer, err := s.db.NewImporter(opts...)
		if err != nil {
			return err
		}
		defer importer.Release()

		report, err := importer.ImportFile(c.Context, c.String("file"))
		if report != nil {
			fmt.Fprintf(c.App.Writer, "imported %d questions, %d failed, %d invalid\n",
				report.Imported, report.Failed, len(report.Invalid))
			for _, invalid := range report.Invalid {
				fmt.Fprintf(c.App.Writer, "  #%d %q: %v\n", invalid.Index, invalid.Title, invalid.Err)
			}
		}
		return err
	})
}

func browseCommand(c *cli.Context) error {
	sortOption, err := core.ParseSortOption(c.String("sort"))
	if err != nil {
		return err
	}

	opts := []core.CriteriaOption{
		core.WithSearchText(c.String("text")),
		core.WithTags(c.StringSlice("tag")...),
		core.WithSort(sortOption),
		core.WithPage(c.Int("limit"), c.Int("offset")),
	}
	if c.Bool("any-term") {
		opts = append(opts, core.WithTextMatch(core.TextMatchAnyTerm))
	}
	if id := ingestion.SubjectID(c.String("subject")); id != nil {
		opts = append(opts, core.WithSubject(*id))
	}
	if id := ingestion.AuthorID(c.String("author")); id != nil {
		opts = append(opts, core.WithUser(*id))
	}
	if c.Bool("unanswered") {
		opts = append(opts, core.WithOnlyUnanswered())
	}
	if c.Bool("solved") {
		opts = append(opts, core.WithOnlySolved())
	}

	criteria := core.NewSearchCriteria(opts...)
	return withSession(c, func(s *session) error {
		printDocuments(c.App.Writer, s.searcher.SearchWithCriteria(c.Context, criteria))
		return nil
	})
}

func relatedCommand(c *cli.Context) error {
	return withSession(c, func(s *session) error {
		id := core.ID(c.Uint64("id"))
		source, err := s.db.Repository().GetDocument(c.Context, id)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("question %d not found", id)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.Writer, "Related to %q:\n", source.Title)
		printDocuments(c.App.Writer, s.searcher.RelatedQuestions(c.Context, source, c.Int("limit")))
		return nil
	})
}

func printDocuments(w io.Writer, docs []*core.Document) {
	fmt.Fprintf(w, "Found %d questions\n", len(docs))
	for i, doc := range docs {
		solved := ""
		if doc.Solved {
			solved = " [solved]"
		}
		fmt.Fprintf(w, "%d: %s (%d)%s\n", i, doc.Title, doc.Id, solved)
		if len(doc.Tags) > 0 {
			fmt.Fprintf(w, "   tags: %s\n", strings.Join(doc.Tags, ", "))
		}
	}
}

// printStats writes the gathered counters and histogram counts.
func printStats(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Search metrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "  %s %g\n", name, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(w, "  %s count=%d sum=%g\n", name, m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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
