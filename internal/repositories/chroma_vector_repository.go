package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"hr-assistant/internal/db"
)

// ChromaVectorRepository implements VectorRepository using ChromaDB
type ChromaVectorRepository struct {
	client *db.ChromaDBClient
}

// NewChromaVectorRepository creates a new ChromaDB-backed vector repository
func NewChromaVectorRepository(client *db.ChromaDBClient) VectorRepository {
	return &ChromaVectorRepository{
		client: client,
	}
}

// CreateCollection creates a new collection
func (r *ChromaVectorRepository) CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) error {
	_, err := r.client.CreateCollection(ctx, name, metadata)
	if err != nil {
		return NewVectorRepositoryError("create_collection", err, "failed to create collection: "+name)
	}
	return nil
}

// DeleteCollection deletes a collection
func (r *ChromaVectorRepository) DeleteCollection(ctx context.Context, name string) error {
	err := r.client.DeleteCollection(ctx, name)
	if err != nil {
		return NewVectorRepositoryError("delete_collection", err, "failed to delete collection: "+name)
	}
	return nil
}

// CollectionExists checks if a collection exists
func (r *ChromaVectorRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	_, err := r.client.GetCollection(ctx, name)
	if err != nil {
		// Chroma reports missing collections as an error; treat any
		// lookup failure as "does not exist"
		return false, nil
	}
	return true, nil
}

// GetCollectionStats returns statistics for a collection
func (r *ChromaVectorRepository) GetCollectionStats(ctx context.Context, name string) (*CollectionStats, error) {
	collection, err := r.client.GetCollection(ctx, name)
	if err != nil {
		return nil, CollectionNotFoundError(name)
	}

	count, err := r.client.CountCollection(ctx, name)
	if err != nil {
		return nil, NewVectorRepositoryError("get_collection_stats", err, "failed to count collection: "+name)
	}

	return &CollectionStats{
		Name:       collection.Name,
		ChunkCount: count,
		Metadata:   collection.Metadata,
	}, nil
}

// StoreChunks stores chunks in a collection
func (r *ChromaVectorRepository) StoreChunks(ctx context.Context, collectionName string, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	exists, err := r.CollectionExists(ctx, collectionName)
	if err != nil {
		return NewVectorRepositoryError("store_chunks", err, "")
	}
	if !exists {
		return CollectionNotFoundError(collectionName)
	}

	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	metadatas := make([]map[string]interface{}, len(chunks))

	for i, chunk := range chunks {
		ids[i] = chunk.ID
		documents[i] = chunk.Text
		embeddings[i] = chunk.Embedding

		metadata := make(map[string]interface{})
		metadata["document_id"] = chunk.DocumentID
		metadata["chunk_index"] = chunk.ChunkIndex

		// ChromaDB only supports simple metadata types; arrays and
		// objects must be serialized to JSON strings
		for k, v := range chunk.Metadata {
			switch val := v.(type) {
			case []string, []interface{}, map[string]interface{}:
				if jsonBytes, err := json.Marshal(val); err == nil {
					metadata[k] = string(jsonBytes)
				}
			default:
				metadata[k] = v
			}
		}

		metadatas[i] = metadata
	}

	err = r.client.AddDocuments(ctx, collectionName, ids, documents, embeddings, metadatas)
	if err != nil {
		return NewVectorRepositoryError("store_chunks", err, fmt.Sprintf("failed to store %d chunks", len(chunks)))
	}

	return nil
}

// SearchChunks searches for the topK most similar chunks
func (r *ChromaVectorRepository) SearchChunks(ctx context.Context, collectionName string, queryEmbedding []float32, topK int, filter map[string]interface{}) ([]*SearchResult, error) {
	exists, err := r.CollectionExists(ctx, collectionName)
	if err != nil {
		return nil, NewVectorRepositoryError("search_chunks", err, "")
	}
	if !exists {
		return nil, CollectionNotFoundError(collectionName)
	}

	queryEmbeddings := [][]float32{queryEmbedding}
	results, err := r.client.Query(ctx, collectionName, queryEmbeddings, topK, filter)
	if err != nil {
		return nil, NewVectorRepositoryError("search_chunks", err, "query failed")
	}

	searchResults := make([]*SearchResult, 0)
	if len(results.IDs) > 0 && len(results.IDs[0]) > 0 {
		for i := 0; i < len(results.IDs[0]); i++ {
			metadata := make(map[string]interface{})
			if len(results.Metadatas) > 0 && len(results.Metadatas[0]) > i {
				metadata = results.Metadatas[0][i]
			}

			var text string
			if len(results.Documents) > 0 && len(results.Documents[0]) > i {
				text = results.Documents[0][i]
			}

			var distance float32
			if len(results.Distances) > 0 && len(results.Distances[0]) > i {
				distance = results.Distances[0][i]
			}

			// Cosine distance to similarity: higher score is better
			score := 1.0 - distance

			documentID := ""
			if docID, ok := metadata["document_id"].(string); ok {
				documentID = docID
			}

			searchResults = append(searchResults, &SearchResult{
				ChunkID:    results.IDs[0][i],
				DocumentID: documentID,
				Text:       text,
				Score:      score,
				Distance:   distance,
				Metadata:   metadata,
			})
		}
	}

	return searchResults, nil
}

// Ping checks if ChromaDB is alive
func (r *ChromaVectorRepository) Ping(ctx context.Context) error {
	err := r.client.Heartbeat(ctx)
	if err != nil {
		return NewVectorRepositoryError("ping", err, "ChromaDB heartbeat failed")
	}
	return nil
}

// Close closes the ChromaDB client
func (r *ChromaVectorRepository) Close() error {
	r.client.Close()
	return nil
}
