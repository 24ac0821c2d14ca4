package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-notice-api/internal/models"
)

type memoryPersister struct {
	mu      sync.Mutex
	raw     []byte
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryPersister) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.raw == nil {
		return nil, ErrDocumentNotFound
	}
	return append([]byte(nil), m.raw...), nil
}

func (m *memoryPersister) Save(_ context.Context, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.raw = append([]byte(nil), raw...)
	return nil
}

func (m *memoryPersister) Location() string { return "memory" }

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	size     int
}

func (r *recordingObserver) ObserveDocumentSize(bytes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = bytes
}

func (r *recordingObserver) ObserveStoreOperation(op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, op+":"+outcome)
}

func sampleDocument() models.Document {
	return models.Document{
		Notices:  []models.Notice{{ID: 2, Title: "Exam Schedule", Dept: "CSE", Data: "data:image/png;base64,AAAA", Type: "image/png", Date: "01 Jan 2024"}},
		Students: []models.StudentLogin{{ID: 1, Name: "Asha", Dept: "CSE", LoginTime: "2024-01-01T10:00:00.000Z"}},
	}
}

func TestReadWithoutPersistedDocumentReturnsEmpty(t *testing.T) {
	store := NewDocumentStore(&memoryPersister{}, DocumentStoreOptions{})

	doc := store.Read(context.Background())
	assert.NotNil(t, doc.Notices)
	assert.NotNil(t, doc.Students)
	assert.Empty(t, doc.Notices)
	assert.Empty(t, doc.Students)
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	persister := &memoryPersister{}
	observer := &recordingObserver{}
	store := NewDocumentStore(persister, DocumentStoreOptions{Observer: observer})

	require.NoError(t, store.Write(context.Background(), sampleDocument()))
	assert.Equal(t, 1, persister.saves)
	assert.Equal(t, sampleDocument(), store.Read(context.Background()))
	assert.Equal(t, []string{"write:ok", "read:ok"}, observer.outcomes)
	assert.Equal(t, len(persister.raw), observer.size)
}

func TestRoundTripSurvivesUnavailablePersistence(t *testing.T) {
	persister := &memoryPersister{saveErr: errors.New("read-only file system")}
	store := NewDocumentStore(persister, DocumentStoreOptions{})

	require.NoError(t, store.Write(context.Background(), sampleDocument()))
	assert.True(t, store.Degraded())
	assert.Equal(t, sampleDocument(), store.Read(context.Background()))
}

func TestStaleCacheWinsOverOutdatedPersistedCopy(t *testing.T) {
	persister := &memoryPersister{raw: []byte(`{"notices":[],"students":[]}`)}
	store := NewDocumentStore(persister, DocumentStoreOptions{})
	persister.saveErr = errors.New("EROFS")

	require.NoError(t, store.Write(context.Background(), sampleDocument()))
	assert.Equal(t, sampleDocument(), store.Read(context.Background()))

	persister.saveErr = nil
	next := sampleDocument()
	next.Notices = nil
	require.NoError(t, store.Write(context.Background(), next))
	assert.False(t, store.Degraded())
	assert.Empty(t, store.Read(context.Background()).Notices)
}

func TestReadFailuresFallBackToCacheThenEmpty(t *testing.T) {
	persister := &memoryPersister{loadErr: errors.New("backend down")}
	store := NewDocumentStore(persister, DocumentStoreOptions{})
	assert.Empty(t, store.Read(context.Background()).Notices)

	persister.loadErr = nil
	require.NoError(t, store.Write(context.Background(), sampleDocument()))
	persister.loadErr = errors.New("backend down again")
	assert.Equal(t, sampleDocument(), store.Read(context.Background()))
}

func TestCorruptDocumentFallsBackToEmpty(t *testing.T) {
	store := NewDocumentStore(&memoryPersister{raw: []byte("{not json")}, DocumentStoreOptions{})

	doc := store.Read(context.Background())
	assert.Empty(t, doc.Notices)
	assert.Empty(t, doc.Students)
}

func TestLegacyDocumentWithoutStudentsIsNormalized(t *testing.T) {
	store := NewDocumentStore(&memoryPersister{raw: []byte(`{"notices":[{"id":1,"title":"t","dept":"ALL","data":"x","type":"","date":""}]}`)}, DocumentStoreOptions{})

	doc := store.Read(context.Background())
	require.Len(t, doc.Notices, 1)
	assert.NotNil(t, doc.Students)
}

func TestReadReturnsPrivateCopies(t *testing.T) {
	store := NewDocumentStore(&memoryPersister{}, DocumentStoreOptions{})
	require.NoError(t, store.Write(context.Background(), sampleDocument()))
	store.persister.(*memoryPersister).loadErr = errors.New("down")

	doc := store.Read(context.Background())
	doc.Notices[0].Title = "mutated"
	assert.Equal(t, "Exam Schedule", store.Read(context.Background()).Notices[0].Title)
}

func TestUpdateAbortsWithoutWriting(t *testing.T) {
	persister := &memoryPersister{}
	store := NewDocumentStore(persister, DocumentStoreOptions{SerializeWrites: true})
	sentinel := errors.New("validation")

	err := store.Update(context.Background(), func(doc *models.Document) error {
		doc.Notices = append(doc.Notices, models.Notice{ID: 1})
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, persister.saves)
}

func TestSerializedUpdatesDoNotLoseWrites(t *testing.T) {
	store := NewDocumentStore(&memoryPersister{}, DocumentStoreOptions{SerializeWrites: true})

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = store.Update(context.Background(), func(doc *models.Document) error {
				doc.Students = append(doc.Students, models.StudentLogin{ID: id})
				return nil
			})
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Len(t, store.Read(context.Background()).Students, 25)
}

func TestStoreWithFilePersisterInMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "data.json")
	store := NewDocumentStore(NewFilePersister(path), DocumentStoreOptions{})

	require.NoError(t, store.Write(context.Background(), sampleDocument()))
	assert.True(t, store.Degraded())
	assert.Equal(t, sampleDocument(), store.Read(context.Background()))
	assert.Equal(t, path, store.Location())
}

// gatedPersister blocks Save or Load until released.
type gatedPersister struct {
	memoryPersister
	saveEntered chan struct{}
	saveRelease chan error
	loadEntered chan struct{}
	loadRelease chan struct{}
}

func (g *gatedPersister) Save(ctx context.Context, raw []byte) error {
	if g.saveRelease == nil {
		return g.memoryPersister.Save(ctx, raw)
	}
	g.saveEntered <- struct{}{}
	if err := <-g.saveRelease; err != nil {
		return err
	}
	return g.memoryPersister.Save(ctx, raw)
}

func (g *gatedPersister) Load(ctx context.Context) ([]byte, error) {
	if g.loadRelease != nil {
		g.loadEntered <- struct{}{}
		<-g.loadRelease
	}
	return g.memoryPersister.Load(ctx)
}

func TestReadDuringPendingPersistKeepsNewDocument(t *testing.T) {
	persister := &gatedPersister{
		memoryPersister: memoryPersister{raw: []byte(`{"notices":[],"students":[]}`)},
		saveEntered:     make(chan struct{}),
		saveRelease:     make(chan error),
	}
	store := NewDocumentStore(persister, DocumentStoreOptions{SerializeWrites: true})

	done := make(chan error)
	go func() {
		done <- store.Update(context.Background(), func(doc *models.Document) error {
			doc.Notices = append(doc.Notices, models.Notice{ID: 7, Title: "Fee deadline", Data: "x"})
			return nil
		})
	}()
	<-persister.saveEntered

	assert.Len(t, store.Read(context.Background()).Notices, 1)

	persister.saveRelease <- errors.New("open /var/task/data.json: read-only file system")
	require.NoError(t, <-done)

	assert.True(t, store.Degraded())
	notices := store.Read(context.Background()).Notices
	require.Len(t, notices, 1)
	assert.Equal(t, int64(7), notices[0].ID)
}

func TestLoadOverlappingWriteDoesNotReplaceCache(t *testing.T) {
	persister := &gatedPersister{
		memoryPersister: memoryPersister{raw: []byte(`{"notices":[],"students":[]}`)},
		loadEntered:     make(chan struct{}),
		loadRelease:     make(chan struct{}),
	}
	store := NewDocumentStore(persister, DocumentStoreOptions{})

	read := make(chan models.Document)
	go func() { read <- store.Read(context.Background()) }()
	<-persister.loadEntered

	// The persisted copy stays old because the write fails.
	persister.mu.Lock()
	persister.saveErr = errors.New("read-only file system")
	persister.mu.Unlock()
	require.NoError(t, store.Write(context.Background(), sampleDocument()))

	close(persister.loadRelease)
	assert.Equal(t, sampleDocument(), <-read)

	persister.loadRelease = nil
	assert.Equal(t, sampleDocument(), store.Read(context.Background()))
}

func TestViewExcludesSerializedUpdates(t *testing.T) {
	store := NewDocumentStore(&memoryPersister{}, DocumentStoreOptions{SerializeWrites: true})
	require.NoError(t, store.Write(context.Background(), sampleDocument()))

	inView := make(chan struct{})
	releaseView := make(chan struct{})
	viewDone := make(chan error)
	go func() {
		viewDone <- store.View(context.Background(), func(doc models.Document) error {
			close(inView)
			<-releaseView
			assert.Len(t, doc.Notices, 1)
			return nil
		})
	}()
	<-inView

	updated := make(chan error)
	go func() {
		updated <- store.Update(context.Background(), func(doc *models.Document) error {
			doc.Notices = nil
			return nil
		})
	}()

	select {
	case <-updated:
		t.Fatal("update ran while a view held the writer lock")
	case <-time.After(50 * time.Millisecond):
	}

	close(releaseView)
	require.NoError(t, <-viewDone)
	require.NoError(t, <-updated)
	assert.Empty(t, store.Read(context.Background()).Notices)
}
