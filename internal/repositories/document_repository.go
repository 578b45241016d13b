package repositories

import (
	"context"
	"time"
)

// DocumentRepository defines the interface for the ingested-document
// registry. The registry is bookkeeping only; retrieval never reads it.
type DocumentRepository interface {
	Register(ctx context.Context, doc *Document) error
	Get(ctx context.Context, documentID string) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Count(ctx context.Context) (int, error)
	// Clear removes every registered document. Ingestion calls this
	// before a full rebuild.
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Document is one ingested source document and its derived metadata.
type Document struct {
	ID         string    `json:"id"`
	SourceFile string    `json:"source_file"`
	Title      string    `json:"title"`
	DocType    string    `json:"doc_type"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

// DocumentRepositoryError represents errors from the document registry
type DocumentRepositoryError struct {
	Operation  string
	DocumentID string
	Err        error
	Message    string
}

func (e *DocumentRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *DocumentRepositoryError) Unwrap() error {
	return e.Err
}

// NewDocumentRepositoryError creates a new document repository error
func NewDocumentRepositoryError(operation string, documentID string, err error, message string) *DocumentRepositoryError {
	return &DocumentRepositoryError{
		Operation:  operation,
		DocumentID: documentID,
		Err:        err,
		Message:    message,
	}
}

// DocumentNotFoundError reports a missing registry entry
func DocumentNotFoundError(documentID string) error {
	return NewDocumentRepositoryError(
		"get_document",
		documentID,
		nil,
		"document not found: "+documentID,
	)
}
