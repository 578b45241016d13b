package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"hr-assistant/internal/models"
	"hr-assistant/internal/repositories"
)

// markupArtifacts matches stray emphasis markers and leading enumeration
// left over from document conversion.
var markupArtifacts = regexp.MustCompile(`\*|\d+\.`)

// docTypeRule maps a filename predicate to a document category.
type docTypeRule struct {
	matches func(base string) bool
	docType models.DocType
}

// docTypeRules are evaluated top-down; first match wins. The order is
// part of the contract: "cover" beats the meeting terms, which beat
// "etiquette"/"physical".
var docTypeRules = []docTypeRule{
	{
		matches: func(base string) bool { return strings.Contains(base, "cover") },
		docType: models.DocTypeCoverPage,
	},
	{
		matches: func(base string) bool {
			return containsAny(base, []string{"digital meeting", "online meeting", "virtual meeting"})
		},
		docType: models.DocTypeDigital,
	},
	{
		matches: func(base string) bool {
			return strings.Contains(base, "etiquette") || strings.Contains(base, "physical")
		},
		docType: models.DocTypePhysical,
	},
}

// ClassifyDocType assigns the document category from the base filename.
// The name is normalized like a title first, so underscore-named files
// match the multi-word meeting phrases.
func ClassifyDocType(baseName string) models.DocType {
	base := TitleFromBase(baseName)
	for _, rule := range docTypeRules {
		if rule.matches(base) {
			return rule.docType
		}
	}
	return models.DocTypeGeneral
}

// TitleFromBase derives the human-readable title from the base filename.
func TitleFromBase(baseName string) string {
	return strings.TrimSpace(strings.ToLower(strings.ReplaceAll(baseName, "_", " ")))
}

// ResolveSourceFile matches a cleaned document's base name against the
// original-artifact directory by case-insensitive filename stem. A
// missing match is not an error; a synthesized name is returned.
func ResolveSourceFile(baseName, artifactsDir string) string {
	entries, err := os.ReadDir(artifactsDir)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			if strings.EqualFold(baseName, stem) {
				return name
			}
		}
	}
	return baseName + ".docx"
}

// CleanText strips enumeration and markup artifacts from document text.
func CleanText(text string) string {
	return strings.TrimSpace(markupArtifacts.ReplaceAllString(text, ""))
}

// taggedDocument is one cleaned corpus file split into chunks, with the
// metadata shared by all of them.
type taggedDocument struct {
	FileName   string
	SourceFile string
	Title      string
	DocType    models.DocType
	Chunks     []string
}

// Ingestor rebuilds the retrieval index from the cleaned-document
// corpus: it tags chunks with provenance metadata, embeds them, stores
// them in the vector collection, and registers each document in the
// registry. Re-running on an unchanged corpus yields identical
// metadata; the whole collection is rebuilt every time.
type Ingestor struct {
	splitter     *TextSplitter
	embedder     EmbeddingClient
	vectorRepo   repositories.VectorRepository
	docRepo      repositories.DocumentRepository
	cleanedDir   string
	artifactsDir string
	collection   string
	logger       *log.Logger
}

// NewIngestor creates a new ingestor
func NewIngestor(
	splitter *TextSplitter,
	embedder EmbeddingClient,
	vectorRepo repositories.VectorRepository,
	docRepo repositories.DocumentRepository,
	cleanedDir string,
	artifactsDir string,
	collection string,
	logger *log.Logger,
) *Ingestor {
	return &Ingestor{
		splitter:     splitter,
		embedder:     embedder,
		vectorRepo:   vectorRepo,
		docRepo:      docRepo,
		cleanedDir:   cleanedDir,
		artifactsDir: artifactsDir,
		collection:   collection,
		logger:       logger,
	}
}

// loadDocuments reads every supported file in the cleaned corpus and
// returns one taggedDocument per file. Unsupported or unreadable files
// are skipped with a warning, never fatal to the run.
func (ing *Ingestor) loadDocuments() ([]taggedDocument, error) {
	entries, err := os.ReadDir(ing.cleanedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cleaned dir: %w", err)
	}

	var docs []taggedDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		text, baseName, err := readCleanedDocument(filepath.Join(ing.cleanedDir, name), name)
		if err != nil {
			ing.logger.Printf("⚠️  Skipping %s: %v", name, err)
			continue
		}

		chunks := ing.splitter.Split(CleanText(text))
		if len(chunks) == 0 {
			ing.logger.Printf("⚠️  Skipping %s: no content after cleaning", name)
			continue
		}

		docs = append(docs, taggedDocument{
			FileName:   name,
			SourceFile: ResolveSourceFile(baseName, ing.artifactsDir),
			Title:      TitleFromBase(baseName),
			DocType:    ClassifyDocType(baseName),
			Chunks:     chunks,
		})
	}

	return docs, nil
}

// TagChunks produces the full ordered chunk list with provenance
// metadata, without touching the index. Every chunk of one document
// shares the same source, title and type.
func (ing *Ingestor) TagChunks() ([]models.TaggedChunk, error) {
	docs, err := ing.loadDocuments()
	if err != nil {
		return nil, err
	}

	var tagged []models.TaggedChunk
	for _, doc := range docs {
		for _, chunk := range doc.Chunks {
			tagged = append(tagged, models.TaggedChunk{
				Text:       chunk,
				SourceFile: doc.SourceFile,
				Title:      doc.Title,
				DocType:    doc.DocType,
			})
		}
	}
	return tagged, nil
}

// Run rebuilds the vector collection and the document registry from
// scratch. Idempotent in intent: rerunning on the same corpus produces
// the same indexed metadata.
func (ing *Ingestor) Run(ctx context.Context) error {
	docs, err := ing.loadDocuments()
	if err != nil {
		return err
	}

	// Drop and recreate the collection for a full rebuild
	if exists, err := ing.vectorRepo.CollectionExists(ctx, ing.collection); err == nil && exists {
		if err := ing.vectorRepo.DeleteCollection(ctx, ing.collection); err != nil {
			return fmt.Errorf("failed to drop collection: %w", err)
		}
	}
	if err := ing.vectorRepo.CreateCollection(ctx, ing.collection, nil); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	if ing.docRepo != nil {
		if err := ing.docRepo.Clear(ctx); err != nil {
			ing.logger.Printf("⚠️  Failed to clear document registry: %v", err)
		}
	}

	totalChunks := 0
	for _, doc := range docs {
		embeddings, err := ing.embedder.EmbedBatch(ctx, doc.Chunks)
		if err != nil {
			return fmt.Errorf("failed to embed chunks for %s: %w", doc.FileName, err)
		}

		documentID := uuid.New().String()
		stored := make([]*repositories.Chunk, len(doc.Chunks))
		for i, chunk := range doc.Chunks {
			tagged := models.TaggedChunk{
				Text:       chunk,
				SourceFile: doc.SourceFile,
				Title:      doc.Title,
				DocType:    doc.DocType,
			}
			stored[i] = &repositories.Chunk{
				ID:         uuid.New().String(),
				DocumentID: documentID,
				Text:       chunk,
				Embedding:  embeddings[i],
				Metadata:   tagged.Metadata(),
				ChunkIndex: i,
			}
		}

		if err := ing.vectorRepo.StoreChunks(ctx, ing.collection, stored); err != nil {
			return fmt.Errorf("failed to store chunks for %s: %w", doc.FileName, err)
		}

		if ing.docRepo != nil {
			record := &repositories.Document{
				ID:         documentID,
				SourceFile: doc.SourceFile,
				Title:      doc.Title,
				DocType:    string(doc.DocType),
				ChunkCount: len(doc.Chunks),
				IngestedAt: time.Now(),
			}
			if err := ing.docRepo.Register(ctx, record); err != nil {
				ing.logger.Printf("⚠️  Failed to register %s: %v", doc.FileName, err)
			}
		}

		totalChunks += len(doc.Chunks)
		ing.logger.Printf("✅ Ingested %s: %d chunks (type=%s, source=%s)", doc.FileName, len(doc.Chunks), doc.DocType, doc.SourceFile)
	}

	ing.logger.Printf("✅ Ingestion complete: %d chunks in collection %s", totalChunks, ing.collection)
	return nil
}

// readCleanedDocument loads a cleaned corpus file as text and returns
// the content plus the filename stem. Unsupported extensions error.
func readCleanedDocument(path, name string) (text string, baseName string, err error) {
	ext := strings.ToLower(filepath.Ext(name))
	baseName = strings.TrimSuffix(name, filepath.Ext(name))

	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), baseName, nil
	case ".docx":
		text, err := readDocxText(path)
		if err != nil {
			return "", "", err
		}
		return text, baseName, nil
	default:
		return "", "", fmt.Errorf("unsupported file extension %q", ext)
	}
}
