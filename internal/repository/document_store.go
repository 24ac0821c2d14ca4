package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-notice-api/internal/models"
)

// ErrDocumentNotFound is returned by persisters when nothing has been stored yet.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentPersister moves the encoded document to and from durable storage.
type DocumentPersister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, raw []byte) error
	Location() string
}

// StoreObserver receives store operation outcomes (implemented by the metrics service).
type StoreObserver interface {
	ObserveStoreOperation(op, outcome string, duration time.Duration)
	ObserveDocumentSize(bytes int)
}

// DocumentStore owns the notice board document. Writes land in an in-memory
// cache first and are then persisted best-effort; reads fall back to that cache
// whenever the persister is missing, broken or behind.
type DocumentStore struct {
	persister DocumentPersister
	logger    *zap.Logger
	observer  StoreObserver
	serialize bool

	writeMu sync.Mutex
	mu      sync.RWMutex
	cache   *models.Document
	stale   bool
	// gen counts cache replacements by Write; pending counts unfinished persists.
	gen     uint64
	pending int
}

// DocumentStoreOptions tunes a DocumentStore.
type DocumentStoreOptions struct {
	Logger *zap.Logger
	// Observer may be nil.
	Observer StoreObserver
	// SerializeWrites holds a writer lock across Update's read-modify-write.
	SerializeWrites bool
}

// NewDocumentStore constructs the store around a persister.
func NewDocumentStore(persister DocumentPersister, opts DocumentStoreOptions) *DocumentStore {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &DocumentStore{
		persister: persister,
		logger:    opts.Logger,
		observer:  opts.Observer,
		serialize: opts.SerializeWrites,
	}
}

// Read returns a private copy of the current document. It never fails.
func (s *DocumentStore) Read(ctx context.Context) models.Document {
	s.mu.RLock()
	if s.cache != nil && (s.stale || s.pending > 0) {
		doc := s.cache.Clone()
		s.mu.RUnlock()
		s.observe("read", "cache", 0)
		return doc
	}
	gen := s.gen
	s.mu.RUnlock()

	start := time.Now()
	raw, err := s.persister.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			s.observe("read", "empty", time.Since(start))
			return s.cachedOrEmpty()
		}
		s.observe("read", "error", time.Since(start))
		s.logger.Warn("document read failed, serving in-memory copy",
			zap.String("location", s.persister.Location()), zap.Error(err))
		return s.cachedOrEmpty()
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.observe("read", "error", time.Since(start))
		s.logger.Error("document decode failed, serving in-memory copy",
			zap.String("location", s.persister.Location()), zap.Error(err))
		return s.cachedOrEmpty()
	}
	doc.Normalize()
	s.observe("read", "ok", time.Since(start))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.pending > 0 {
		// A write replaced the cache while this copy was loading.
		return s.cache.Clone()
	}
	cached := doc.Clone()
	s.cache = &cached
	return doc
}

// Write replaces the document. Persistence failures are logged and swallowed;
// the only returned error is an encoding failure.
func (s *DocumentStore) Write(ctx context.Context, doc models.Document) error {
	doc.Normalize()
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	s.mu.Lock()
	cached := doc.Clone()
	s.cache = &cached
	s.gen++
	s.pending++
	s.mu.Unlock()
	if s.observer != nil {
		s.observer.ObserveDocumentSize(len(raw))
	}

	start := time.Now()
	err = s.persister.Save(ctx, raw)

	s.mu.Lock()
	s.pending--
	s.stale = err != nil
	s.mu.Unlock()

	if err != nil {
		s.observe("write", "error", time.Since(start))
		s.logger.Warn("document persist failed, keeping in-memory copy",
			zap.String("location", s.persister.Location()), zap.Error(err))
		return nil
	}
	s.observe("write", "ok", time.Since(start))
	return nil
}

// Update runs a read-modify-write cycle. When fn fails nothing is written.
func (s *DocumentStore) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	if s.serialize {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}
	doc := s.Read(ctx)
	if err := fn(&doc); err != nil {
		return err
	}
	return s.Write(ctx, doc)
}

// View runs fn against the current document while holding the writer lock, so
// no serialized Update can interleave with it.
func (s *DocumentStore) View(ctx context.Context, fn func(doc models.Document) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return fn(s.Read(ctx))
}

// Location describes where the document is persisted.
func (s *DocumentStore) Location() string {
	return s.persister.Location()
}

// Degraded reports whether the latest persist attempt failed.
func (s *DocumentStore) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

func (s *DocumentStore) cachedOrEmpty() models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return models.NewDocument()
	}
	return s.cache.Clone()
}

func (s *DocumentStore) observe(op, outcome string, d time.Duration) {
	if s.observer != nil {
		s.observer.ObserveStoreOperation(op, outcome, d)
	}
}
