package importapp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/catalog"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

// gatedProducts holds every FindByName until gate is closed
type gatedProducts struct {
	catalog.ProductRepository
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func newGatedProducts(repo catalog.ProductRepository) *gatedProducts {
	return &gatedProducts{ProductRepository: repo, gate: make(chan struct{}), entered: make(chan struct{})}
}

func (g *gatedProducts) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.ProductRepository.FindByName(ctx, name)
}

// fakeArchive keeps archived uploads in memory
type fakeArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: make(map[string][]byte)}
}

func (a *fakeArchive) Put(_ context.Context, importID uuid.UUID, filename, _ string, data []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.putErr != nil {
		return "", a.putErr
	}
	key := "imports/" + importID.String() + "/" + filename
	a.objects[key] = data
	return key, nil
}

func (a *fakeArchive) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.objects, key)
	return nil
}

func (a *fakeArchive) len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.objects)
}

// recordingMetrics counts lifecycle events
type recordingMetrics struct {
	mu       sync.Mutex
	started  int
	statuses []bulk.ImportStatus
	rows     int
}

func (m *recordingMetrics) ImportStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *recordingMetrics) ImportFinished(status bulk.ImportStatus, _ time.Duration, succeeded, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	m.rows += succeeded + failed
}

func (m *recordingMetrics) finished() []bulk.ImportStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bulk.ImportStatus(nil), m.statuses...)
}
