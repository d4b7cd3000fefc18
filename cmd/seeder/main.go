package main

import (
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/qasearch"
	"github.com/poiesic/qasearch/ingestion"
)

type topic struct {
	subject string
	tags    []string
	nouns   []string
}

var topics = []topic{
	{"Go", []string{"go"}, []string{"goroutines", "channels", "interfaces", "generics", "slices", "maps", "contexts", "modules"}},
	{"Java", []string{"java", "jvm"}, []string{"streams", "generics", "records", "threads", "annotations", "collections"}},
	{"Python", []string{"python"}, []string{"decorators", "generators", "list comprehensions", "asyncio", "virtual environments", "dataclasses"}},
	{"Databases", []string{"sql", "databases"}, []string{"indexes", "transactions", "joins", "migrations", "query plans"}},
	{"Cooking", []string{"cooking", "kitchen"}, []string{"sourdough", "pasta", "risotto", "cast iron pans", "knife skills"}},
	{"Gardening", []string{"garden"}, []string{"tomatoes", "compost", "raised beds", "pruning", "seedlings"}},
}

var titleTemplates = []string{
	"How do I get started with %s?",
	"What are common mistakes with %s?",
	"Best practices for %s",
	"Why are my %s so slow?",
	"Explain %s like I'm five",
}

var contentTemplates = []string{
	"I keep reading about %s in %s but the examples never match my situation.",
	"Our team argues about %s every week. What does the %s community recommend?",
	"Coming from another background, %s in %s feel strange to me.",
}

var authors = []string{"ada", "grace", "linus", "margaret", "ken", "barbara"}

var (
	dbPath   = flag.String("db", "./qa_db", "database directory")
	seedFile = flag.String("src", "", "YAML corpus file of seed questions")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// generatedQuestions yields a deterministic synthetic corpus.
func generatedQuestions(start time.Time) iter.Seq[ingestion.Entry] {
	return func(yield func(ingestion.Entry) bool) {
		n := 0
		for _, t := range topics {
			for i, noun := range t.nouns {
				for j, title := range titleTemplates {
					entry := ingestion.Entry{
						Title:     fmt.Sprintf(title, noun),
						Content:   fmt.Sprintf(contentTemplates[(i+j)%len(contentTemplates)], noun, t.subject),
						Tags:      append(append([]string{}, t.tags...), noun),
						Subject:   t.subject,
						Author:    authors[n%len(authors)],
						Upvotes:   (n * 7) % 23,
						Views:     (n * 37) % 500,
						Answers:   n % 4,
						Solved:    n%3 == 0,
						CreatedAt: start.Add(time.Duration(n) * time.Hour),
					}
					n++
					if !yield(entry) {
						return
					}
				}
			}
		}
	}
}

func collect(source iter.Seq[ingestion.Entry]) []ingestion.Entry {
	var entries []ingestion.Entry
	for entry := range source {
		entries = append(entries, entry)
	}
	return entries
}

func main() {
	flag.Parse()

	db, err := qasearch.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	importer, err := db.NewImporter(ingestion.WithProgress(os.Stderr))
	if err != nil {
		panic(err)
	}
	defer importer.Release()

	ctx := context.Background()

	// Determine source of seed data
	var report *ingestion.Report
	if *seedFile != "" {
		report, err = importer.ImportFile(ctx, *seedFile)
	} else {
		start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		report, err = importer.Import(ctx, collect(generatedQuestions(start)))
	}
	if err != nil {
		panic(err)
	}

	slog.Info("seeding complete", "db", *dbPath, "imported", report.Imported, "invalid", len(report.Invalid))
}
