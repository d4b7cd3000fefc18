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


package qasearch

import (
	"log/slog"

	"github.com/poiesic/qasearch/ingestion"
	"github.com/poiesic/qasearch/search"
	"github.com/poiesic/qasearch/storage"
	"github.com/poiesic/qasearch/storage/badger"
)

// Database wires the BadgerDB backend, the document repository, the searcher and the importer.
type Database struct {
	backend *badger.Backend
	repo    *badger.DocumentRepository
	config  *search.Config
	monitor search.SearchMonitor
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory     bool
	searchConfig *search.Config
	monitor      search.SearchMonitor
	logger       *slog.Logger
}

// WithInMemory keeps all data in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithSearchConfig sets the scoring configuration of every searcher the database creates.
func WithSearchConfig(cfg *search.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.searchConfig = cfg
	}
}

// WithSearchMonitor attaches a monitor to every searcher the database creates.
func WithSearchMonitor(monitor search.SearchMonitor) DatabaseOption {
	return func(o *databaseOptions) {
		o.monitor = monitor
	}
}

func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		searchConfig: search.DefaultConfig(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.searchConfig != nil {
		if err := options.searchConfig.Validate(); err != nil {
			return nil, err
		}
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory, badger.WithBackendLogger(options.logger))
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend: backend,
		repo:    repo,
		config:  options.searchConfig,
		monitor: options.monitor,
		logger:  options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Repository() storage.DocumentRepository {
	return db.repo
}

// NewSearcher creates a searcher over the repository.
// The database's config, monitor and logger apply first; opts may override them.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{search.WithConfig(db.config), search.WithLogger(db.logger)}
	if db.monitor != nil {
		base = append(base, search.WithMonitor(db.monitor))
	}
	return search.NewSearcher(db.repo, append(base, opts...)...)
}

// NewImporter creates a corpus importer writing to the repository.
// Callers must Release it.
func (db *Database) NewImporter(opts ...ingestion.Option) (*ingestion.Importer, error) {
	base := []ingestion.Option{ingestion.WithLogger(db.logger)}
	return ingestion.NewImporter(db.repo, append(base, opts...)...)
}
