package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	documentKeyPrefix = "hrdoc:"
	documentIDsKey    = "hrdoc:ids"
)

// RedisDocumentRepository implements DocumentRepository backed by Redis.
// Each document is a JSON blob under hrdoc:<id>; the id set lives under
// hrdoc:ids.
type RedisDocumentRepository struct {
	client *redis.Client
}

// NewRedisDocumentRepository creates a Redis-backed document registry
func NewRedisDocumentRepository(client *redis.Client) DocumentRepository {
	return &RedisDocumentRepository{
		client: client,
	}
}

func documentKey(documentID string) string {
	return documentKeyPrefix + documentID
}

// Register stores a document record and adds its id to the index set
func (r *RedisDocumentRepository) Register(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return NewDocumentRepositoryError("register", "", nil, "document id is required")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return NewDocumentRepositoryError("register", doc.ID, err, "failed to marshal document")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, documentKey(doc.ID), data, 0)
	pipe.SAdd(ctx, documentIDsKey, doc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return NewDocumentRepositoryError("register", doc.ID, err, "")
	}

	return nil
}

// Get retrieves one document record by id
func (r *RedisDocumentRepository) Get(ctx context.Context, documentID string) (*Document, error) {
	data, err := r.client.Get(ctx, documentKey(documentID)).Result()
	if err == redis.Nil {
		return nil, DocumentNotFoundError(documentID)
	}
	if err != nil {
		return nil, NewDocumentRepositoryError("get_document", documentID, err, "")
	}

	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, NewDocumentRepositoryError("get_document", documentID, err, "failed to unmarshal document")
	}

	return &doc, nil
}

// List returns all registered documents
func (r *RedisDocumentRepository) List(ctx context.Context) ([]*Document, error) {
	ids, err := r.client.SMembers(ctx, documentIDsKey).Result()
	if err != nil {
		return nil, NewDocumentRepositoryError("list_documents", "", err, "")
	}

	docs := make([]*Document, 0, len(ids))
	for _, id := range ids {
		doc, err := r.Get(ctx, id)
		if err != nil {
			// Entry removed between SMembers and Get; skip it
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Count returns the number of registered documents
func (r *RedisDocumentRepository) Count(ctx context.Context) (int, error) {
	count, err := r.client.SCard(ctx, documentIDsKey).Result()
	if err != nil {
		return 0, NewDocumentRepositoryError("count_documents", "", err, "")
	}
	return int(count), nil
}

// Clear removes every registered document and the id set
func (r *RedisDocumentRepository) Clear(ctx context.Context) error {
	ids, err := r.client.SMembers(ctx, documentIDsKey).Result()
	if err != nil {
		return NewDocumentRepositoryError("clear_documents", "", err, "")
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, documentKey(id))
	}
	keys = append(keys, documentIDsKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return NewDocumentRepositoryError("clear_documents", "", err, fmt.Sprintf("failed to delete %d keys", len(keys)))
	}

	return nil
}

// Ping checks if Redis is alive
func (r *RedisDocumentRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
