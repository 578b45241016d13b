package repositories

import (
	"context"
)

// VectorRepository defines the interface for the retrieval index.
// It abstracts ChromaDB operations and allows for easy testing and
// implementation swapping.
type VectorRepository interface {
	// Collection Management
	CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) error
	DeleteCollection(ctx context.Context, name string) error
	CollectionExists(ctx context.Context, name string) (bool, error)
	GetCollectionStats(ctx context.Context, name string) (*CollectionStats, error)

	// Chunk Operations
	StoreChunks(ctx context.Context, collectionName string, chunks []*Chunk) error
	SearchChunks(ctx context.Context, collectionName string, queryEmbedding []float32, topK int, filter map[string]interface{}) ([]*SearchResult, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// CollectionStats represents statistics for a collection
type CollectionStats struct {
	Name       string                 `json:"name"`
	ChunkCount int                    `json:"chunk_count"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// Chunk represents a text chunk with embedding and metadata
type Chunk struct {
	ID         string                 `json:"id"`
	DocumentID string                 `json:"document_id"`
	Text       string                 `json:"text"`
	Embedding  []float32              `json:"embedding"`
	Metadata   map[string]interface{} `json:"metadata"`
	ChunkIndex int                    `json:"chunk_index"`
}

// SearchResult represents a single hit from vector similarity search.
// Score is a similarity on [0,1] where higher is better; it is derived
// from the index's cosine distance as 1 - distance, so the evidence
// threshold is compared with >= against this scale.
type SearchResult struct {
	ChunkID    string                 `json:"chunk_id"`
	DocumentID string                 `json:"document_id"`
	Text       string                 `json:"text"`
	Score      float32                `json:"score"`
	Distance   float32                `json:"distance"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// VectorRepositoryError represents errors from the vector repository
type VectorRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *VectorRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *VectorRepositoryError) Unwrap() error {
	return e.Err
}

// NewVectorRepositoryError creates a new vector repository error
func NewVectorRepositoryError(operation string, err error, message string) *VectorRepositoryError {
	return &VectorRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}

// CollectionNotFoundError reports a missing collection
func CollectionNotFoundError(name string) error {
	return NewVectorRepositoryError(
		"get_collection",
		nil,
		"collection not found: "+name,
	)
}
