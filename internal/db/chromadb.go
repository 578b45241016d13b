package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChromaDBClient wraps HTTP calls to the ChromaDB v2 API.
// The official Go client lags behind the v2 REST surface, so we talk to
// the API directly.
type ChromaDBClient struct {
	baseURL    string
	rootURL    string
	httpClient *http.Client
}

// ChromaDBConfig holds configuration for ChromaDB connection
type ChromaDBConfig struct {
	Host     string
	Port     int
	Tenant   string // default: "default_tenant"
	Database string // default: "default_database"
	Timeout  time.Duration
}

// Collection represents a ChromaDB collection
type Collection struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata"`
}

// QueryResponse represents the response from a similarity query.
// The outer slice has one element per query embedding.
type QueryResponse struct {
	IDs       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float32                `json:"distances"`
}

// NewChromaDBClient creates a new ChromaDB client with v2 API support
func NewChromaDBClient(config ChromaDBConfig) *ChromaDBClient {
	if config.Tenant == "" {
		config.Tenant = "default_tenant"
	}
	if config.Database == "" {
		config.Database = "default_database"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	rootURL := fmt.Sprintf("http://%s:%d", config.Host, config.Port)
	// v2 API scopes collections under tenant and database
	baseURL := fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s", rootURL, config.Tenant, config.Database)

	return &ChromaDBClient{
		baseURL: baseURL,
		rootURL: rootURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// NewChromaDBClientForURL builds a client pointed at an explicit base URL.
// Used by tests to target an httptest server.
func NewChromaDBClientForURL(rootURL, tenant, database string, timeout time.Duration) *ChromaDBClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ChromaDBClient{
		baseURL:    fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s", rootURL, tenant, database),
		rootURL:    rootURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Heartbeat checks if ChromaDB is alive
func (c *ChromaDBClient) Heartbeat(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/v2/heartbeat", c.rootURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create heartbeat request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("heartbeat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heartbeat failed with status: %d", resp.StatusCode)
	}

	return nil
}

// CreateCollection creates a new collection
func (c *ChromaDBClient) CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) (*Collection, error) {
	if metadata == nil {
		metadata = map[string]interface{}{
			"hnsw:space": "cosine",
		}
	}

	payload := map[string]interface{}{
		"name":     name,
		"metadata": metadata,
	}

	var collection Collection
	url := fmt.Sprintf("%s/collections", c.baseURL)
	if err := c.postJSON(ctx, url, payload, &collection); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &collection, nil
}

// GetCollection retrieves a collection by name
func (c *ChromaDBClient) GetCollection(ctx context.Context, name string) (*Collection, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("collection not found: %s", name)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get collection failed (status %d): %s", resp.StatusCode, string(body))
	}

	var collection Collection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &collection, nil
}

// DeleteCollection deletes a collection
func (c *ChromaDBClient) DeleteCollection(ctx context.Context, name string) error {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete collection failed (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// CountCollection returns the number of chunks stored in a collection
func (c *ChromaDBClient) CountCollection(ctx context.Context, name string) (int, error) {
	collection, err := c.GetCollection(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/count", c.baseURL, collection.ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("count collection failed (status %d): %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return count, nil
}

// AddDocuments adds documents with embeddings and metadata to a collection
func (c *ChromaDBClient) AddDocuments(ctx context.Context, collectionName string, ids []string, documents []string, embeddings [][]float32, metadatas []map[string]interface{}) error {
	collection, err := c.GetCollection(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("failed to get collection: %w", err)
	}

	payload := map[string]interface{}{
		"ids":        ids,
		"documents":  documents,
		"embeddings": embeddings,
	}
	if metadatas != nil {
		payload["metadatas"] = metadatas
	}

	url := fmt.Sprintf("%s/collections/%s/add", c.baseURL, collection.ID)
	if err := c.postJSON(ctx, url, payload, nil); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}

	return nil
}

// Query searches for the nResults most similar documents. Distances follow
// the collection's space; with cosine, lower distance means more similar.
func (c *ChromaDBClient) Query(ctx context.Context, collectionName string, queryEmbeddings [][]float32, nResults int, where map[string]interface{}) (*QueryResponse, error) {
	collection, err := c.GetCollection(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	payload := map[string]interface{}{
		"query_embeddings": queryEmbeddings,
		"n_results":        nResults,
	}
	if where != nil {
		payload["where"] = where
	}

	var queryResp QueryResponse
	url := fmt.Sprintf("%s/collections/%s/query", c.baseURL, collection.ID)
	if err := c.postJSON(ctx, url, payload, &queryResp); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return &queryResp, nil
}

// postJSON posts a JSON payload and optionally decodes the response into out.
func (c *ChromaDBClient) postJSON(ctx context.Context, url string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Close closes the HTTP client connections
func (c *ChromaDBClient) Close() {
	c.httpClient.CloseIdleConnections()
}
