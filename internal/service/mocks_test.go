package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/noah-isme/campus-notice-api/internal/models"
	"github.com/noah-isme/campus-notice-api/pkg/storage"
)

type mockDocumentStore struct {
	mu        sync.Mutex
	doc       models.Document
	updateErr error
	writes    int
}

func newMockDocumentStore(doc models.Document) *mockDocumentStore {
	doc.Normalize()
	return &mockDocumentStore{doc: doc}
}

func (m *mockDocumentStore) Read(context.Context) models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone()
}

func (m *mockDocumentStore) Update(_ context.Context, fn func(doc *models.Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := m.doc.Clone()
	if err := fn(&doc); err != nil {
		return err
	}
	if m.updateErr != nil {
		return m.updateErr
	}
	m.doc = doc
	m.writes++
	return nil
}

func (m *mockDocumentStore) View(_ context.Context, fn func(doc models.Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.doc.Clone())
}

func (m *mockDocumentStore) Location() string { return "/srv/board/data.json" }

type mockBlobStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockBlobStorage() *mockBlobStorage {
	return &mockBlobStorage{objects: make(map[string][]byte)}
}

func (m *mockBlobStorage) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *mockBlobStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *mockBlobStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *mockBlobStorage) Keys(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *mockBlobStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// gatedBlobStorage holds Delete until deleteRelease is closed.
type gatedBlobStorage struct {
	*mockBlobStorage
	deleteEntered chan struct{}
	deleteRelease chan struct{}
}

func (g *gatedBlobStorage) Delete(ctx context.Context, key string) error {
	g.deleteEntered <- struct{}{}
	<-g.deleteRelease
	return g.mockBlobStorage.Delete(ctx, key)
}

var errStoreDown = errors.New("encode document: boom")
