package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hr-assistant/internal/repositories"
)

// ============================================================================
// Shared Mocks
// ============================================================================

// MockLLMClient mocks the generation model
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Invoke(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEmbeddingClient mocks the embedding model
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockVectorRepository mocks the retrieval index
type MockVectorRepository struct {
	mock.Mock
}

func (m *MockVectorRepository) CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) error {
	args := m.Called(ctx, name, metadata)
	return args.Error(0)
}

func (m *MockVectorRepository) DeleteCollection(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockVectorRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockVectorRepository) GetCollectionStats(ctx context.Context, name string) (*repositories.CollectionStats, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.CollectionStats), args.Error(1)
}

func (m *MockVectorRepository) StoreChunks(ctx context.Context, collectionName string, chunks []*repositories.Chunk) error {
	args := m.Called(ctx, collectionName, chunks)
	return args.Error(0)
}

func (m *MockVectorRepository) SearchChunks(ctx context.Context, collectionName string, queryEmbedding []float32, topK int, filter map[string]interface{}) ([]*repositories.SearchResult, error) {
	args := m.Called(ctx, collectionName, queryEmbedding, topK, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.SearchResult), args.Error(1)
}

func (m *MockVectorRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVectorRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockDocumentRepository mocks the ingested-document registry
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Register(ctx context.Context, doc *repositories.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Get(ctx context.Context, documentID string) (*repositories.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context) ([]*repositories.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.Document), args.Error(1)
}

func (m *MockDocumentRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
