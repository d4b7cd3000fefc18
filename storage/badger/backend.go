package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/qasearch/storage"
)

const (
	defaultSequenceBandwidth = 100
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db                *badger.DB
	logger            *slog.Logger
	sequenceBandwidth uint64
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithBackendLogger routes badger's own log output and backend messages to logger.
// Default is slog.Default().
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSequenceBandwidth sets how many IDs a sequence leases per disk write.
// Default: 100
func WithSequenceBandwidth(bandwidth uint64) BackendOption {
	return func(b *Backend) {
		if bandwidth > 0 {
			b.sequenceBandwidth = bandwidth
		}
	}
}

// slogAdapter forwards badger's printf-style logging to slog.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) log(level slog.Level, msg string, items []any) {
	if !a.logger.Enabled(context.Background(), level) {
		return
	}
	a.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (a *slogAdapter) Errorf(msg string, items ...any)   { a.log(slog.LevelError, msg, items) }
func (a *slogAdapter) Warningf(msg string, items ...any) { a.log(slog.LevelWarn, msg, items) }
func (a *slogAdapter) Infof(msg string, items ...any)    { a.log(slog.LevelInfo, msg, items) }
func (a *slogAdapter) Debugf(msg string, items ...any)   { a.log(slog.LevelDebug, msg, items) }

// OpenBackend opens the question store at dirPath, creating the directory when missing.
// With inMemory set, dirPath is ignored and nothing touches the disk.
func OpenBackend(dirPath string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	b := &Backend{
		logger:            slog.Default(),
		sequenceBandwidth: defaultSequenceBandwidth,
	}
	for _, opt := range opts {
		opt(b)
	}

	badgerOpts := badger.DefaultOptions("").WithInMemory(true)
	if !inMemory {
		if err := ensureDir(dirPath); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(dirPath)
	}
	badgerOpts.Logger = &slogAdapter{logger: b.logger.With("component", "badger")}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "open question store %q", dirPath)
	}
	b.db = db
	b.logger.Debug("question store opened", "path", dirPath, "inMemory", inMemory)
	return b, nil
}

func ensureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return err
	}
	info, err := os.Stat(dirPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dirPath)
	}
	return nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
// Returns storage.ErrStorageClosed without calling fn when the database is closed.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return fmt.Errorf("%w: %w", storage.ErrDataAccess, storage.ErrStorageClosed)
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence leases the named ID sequence.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), b.sequenceBandwidth)
}

// dataAccessError wraps err with context and joins it with storage.ErrDataAccess.
// Sentinel storage errors (not found, duplicate key) pass through untouched.
func dataAccessError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrDuplicateKey) {
		return err
	}
	if errors.Is(err, badger.ErrDBClosed) && !errors.Is(err, storage.ErrStorageClosed) {
		err = fmt.Errorf("%w: %w", storage.ErrStorageClosed, err)
	}
	if errors.Is(err, storage.ErrDataAccess) {
		return errors.Wrapf(err, format, args...)
	}
	return fmt.Errorf("%w: %w", storage.ErrDataAccess, errors.Wrapf(err, format, args...))
}
