package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"hr-assistant/internal/models"
	"hr-assistant/internal/repositories"
)

// physicalMeetingTerms and digitalMeetingTerms drive the meeting-mode
// metadata filter. Physical is checked first; at most one filter
// applies per query.
var (
	physicalMeetingTerms = []string{"physical meeting", "in person", "face to face", "onsite"}
	digitalMeetingTerms  = []string{"digital meeting", "online meeting", "virtual meeting", "zoom", "teams"}
)

const coverPageAnswerTemplate = "Yes, I can retrieve the cover page for this document. " +
	"According to the document, the title is %q. " +
	"It includes version control sections for Controlled and Uncontrolled Copy Numbers."

// Evidence is the grounding material admitted for one question.
// CoverAnswer is set instead of Grounding when the top hit is a cover
// page; the caller returns it verbatim without a generation call.
type Evidence struct {
	Grounding   string
	SourceFile  string
	CoverAnswer string
}

// EvidenceSelector runs retrieval for a routed question, applies the
// meeting-mode filter and the similarity threshold, and decides whether
// the hits are trustworthy enough to ground the answer and attach a
// source citation.
type EvidenceSelector struct {
	embedder     EmbeddingClient
	vectorRepo   repositories.VectorRepository
	collection   string
	artifactsDir string
	topK         int
	threshold    float32
	logger       *log.Logger
}

// NewEvidenceSelector creates a new evidence selector
func NewEvidenceSelector(
	embedder EmbeddingClient,
	vectorRepo repositories.VectorRepository,
	collection string,
	artifactsDir string,
	topK int,
	threshold float32,
	logger *log.Logger,
) *EvidenceSelector {
	return &EvidenceSelector{
		embedder:     embedder,
		vectorRepo:   vectorRepo,
		collection:   collection,
		artifactsDir: artifactsDir,
		topK:         topK,
		threshold:    threshold,
		logger:       logger,
	}
}

// Select returns the admitted evidence for a question, or (nil, nil)
// when no trustworthy evidence exists. The caller must treat nil
// evidence identically to a generic question.
func (s *EvidenceSelector) Select(ctx context.Context, question string) (*Evidence, error) {
	embedding, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := s.vectorRepo.SearchChunks(ctx, s.collection, embedding, s.topK, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	hits = filterMeetingMode(question, hits)
	if len(hits) == 0 {
		s.logger.Printf("No hits after meeting-mode filtering")
		return nil, nil
	}

	for i, hit := range hits {
		s.logger.Printf("Hit %d: title=%v file=%v type=%v score=%.4f",
			i+1, hit.Metadata[models.MetaTitle], hit.Metadata[models.MetaSource], hit.Metadata[models.MetaDocType], hit.Score)
	}

	top := hits[0]
	sourceFile, _ := top.Metadata[models.MetaSource].(string)

	// Both gates must hold: score clears the threshold and the original
	// artifact exists at its static-serving path.
	if top.Score < s.threshold || sourceFile == "" {
		s.logger.Printf("Top score %.4f below threshold %.2f, skipping source", top.Score, s.threshold)
		return nil, nil
	}
	if _, err := os.Stat(filepath.Join(s.artifactsDir, sourceFile)); err != nil {
		s.logger.Printf("Artifact %s not found, skipping source", sourceFile)
		return nil, nil
	}

	if docType, _ := top.Metadata[models.MetaDocType].(string); docType == string(models.DocTypeCoverPage) {
		title := "this document"
		if t, ok := top.Metadata[models.MetaTitle].(string); ok && t != "" {
			title = t
		}
		return &Evidence{
			SourceFile:  sourceFile,
			CoverAnswer: fmt.Sprintf(coverPageAnswerTemplate, strings.ToUpper(title)),
		}, nil
	}

	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		texts = append(texts, strings.TrimSpace(hit.Text))
	}

	return &Evidence{
		Grounding:  strings.Join(texts, "\n"),
		SourceFile: sourceFile,
	}, nil
}

// filterMeetingMode discards hits whose doc_type contradicts an explicit
// physical- or digital-meeting question. Physical terms are checked
// first; a question matching neither passes through unfiltered.
func filterMeetingMode(question string, hits []*repositories.SearchResult) []*repositories.SearchResult {
	q := strings.ToLower(question)

	var want models.DocType
	switch {
	case containsAny(q, physicalMeetingTerms):
		want = models.DocTypePhysical
	case containsAny(q, digitalMeetingTerms):
		want = models.DocTypeDigital
	default:
		return hits
	}

	filtered := make([]*repositories.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if docType, _ := hit.Metadata[models.MetaDocType].(string); docType == string(want) {
			filtered = append(filtered, hit)
		}
	}
	return filtered
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
