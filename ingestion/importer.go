package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/qasearch/core"
	"github.com/poiesic/qasearch/storage"
)

const (
	defaultBatchSize  = 50
	defaultMaxRetries = 3
	defaultRetryDelay = 100 * time.Millisecond
)

// Importer writes corpus entries into a document repository.
type Importer struct {
	repository storage.DocumentRepository
	pool       *ants.Pool
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	progress   io.Writer
	logger     *slog.Logger
}

type Option func(*Importer) error

// WithPoolSize sets the number of concurrent batch writers.
func WithPoolSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if im.pool != nil {
			im.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		im.pool = pool
		return nil
	}
}

// WithBatchSize sets how many documents are written per transaction.
func WithBatchSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}
		im.batchSize = size
		return nil
	}
}

// WithMaxRetries sets how many times a failing batch write is attempted.
func WithMaxRetries(attempts int) Option {
	return func(im *Importer) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		im.maxRetries = attempts
		return nil
	}
}

// WithRetryDelay sets the base delay between batch write attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(im *Importer) error {
		im.retryDelay = delay
		return nil
	}
}

// WithProgress prints progress to w while importing.
func WithProgress(w io.Writer) Option {
	return func(im *Importer) error {
		im.progress = w
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger
		return nil
	}
}

// NewImporter creates an importer writing to repository.
// Call Release when done to stop the worker pool.
func NewImporter(repository storage.DocumentRepository, opts ...Option) (*Importer, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	im := &Importer{
		repository: repository,
		pool:       pool,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(im); optErr != nil {
			im.Release()
			return nil, optErr
		}
	}

	return im, nil
}

// InvalidEntry describes a corpus entry rejected by validation.
type InvalidEntry struct {
	Index int
	Title string
	Err   error
}

// Report summarizes one import.
type Report struct {
	Imported int
	Failed   int
	Invalid  []InvalidEntry
}

// ImportFile loads a corpus file and imports it.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Report, error) {
	corpus, err := LoadCorpus(path)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, corpus.Questions)
}

// Import validates entries and writes the valid ones in concurrent batches.
// Invalid entries are reported, not written. The returned error wraps ErrBatchFailed
// when any batch could not be written after retries.
func (im *Importer) Import(ctx context.Context, entries []Entry) (*Report, error) {
	report := &Report{}

	docs := make([]*core.Document, 0, len(entries))
	for i, entry := range entries {
		doc, err := entry.Document()
		if err != nil {
			im.logger.Warn("skipping invalid question", "index", i, "title", entry.Title, "err", err)
			report.Invalid = append(report.Invalid, InvalidEntry{Index: i, Title: entry.Title, Err: err})
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return report, nil
	}

	var tracker *ProgressTracker
	if im.progress != nil {
		tracker = NewProgressTracker(im.progress, len(docs), im.batchSize)
		tracker.Start()
		defer tracker.Finish()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	for start := 0; start < len(docs); start += im.batchSize {
		batch := docs[start:min(start+im.batchSize, len(docs))]

		wg.Add(1)
		submitErr := im.pool.Submit(func() {
			defer wg.Done()
			err := im.writeBatch(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				report.Failed += len(batch)
			} else {
				report.Imported += len(batch)
			}
			if tracker != nil {
				if err != nil {
					tracker.Failed(len(batch))
				} else {
					tracker.Done(len(batch))
				}
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failures = append(failures, submitErr)
			report.Failed += len(batch)
			mu.Unlock()
		}
	}
	wg.Wait()

	im.logger.Info("import finished",
		"imported", report.Imported, "failed", report.Failed, "invalid", len(report.Invalid))

	if len(failures) > 0 {
		return report, fmt.Errorf("%w: %w", ErrBatchFailed, errors.Join(failures...))
	}
	return report, nil
}

func (im *Importer) writeBatch(ctx context.Context, batch []*core.Document) error {
	err := RetryWithBackoff(ctx, im.logger, func() error {
		_, err := im.repository.AddDocuments(ctx, batch...)
		return err
	}, im.maxRetries, im.retryDelay)
	if err != nil {
		im.logger.Error("error writing batch", "size", len(batch), "firstTitle", batch[0].Title, "err", err)
	}
	return err
}

// Release stops the worker pool.
func (im *Importer) Release() {
	if im.pool != nil {
		im.pool.Release()
	}
}
