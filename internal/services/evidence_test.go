package services

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hr-assistant/internal/models"
	"hr-assistant/internal/repositories"
)

// ============================================================================
// Test Setup
// ============================================================================

const testCollection = "test-policies"

func setupTestSelector(t *testing.T, artifacts ...string) (*EvidenceSelector, *MockEmbeddingClient, *MockVectorRepository) {
	t.Helper()

	artifactsDir := t.TempDir()
	for _, name := range artifacts {
		require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, name), []byte("%PDF-1.4"), 0o644))
	}

	mockEmbedder := new(MockEmbeddingClient)
	mockVectorRepo := new(MockVectorRepository)
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)

	selector := NewEvidenceSelector(
		mockEmbedder,
		mockVectorRepo,
		testCollection,
		artifactsDir,
		3,
		0.38,
		logger,
	)

	return selector, mockEmbedder, mockVectorRepo
}

func testEmbedding() []float32 {
	return make([]float32, 768)
}

func policyHit(score float32, source, title string, docType models.DocType) *repositories.SearchResult {
	return &repositories.SearchResult{
		ChunkID:    "chunk-1",
		DocumentID: "doc-1",
		Text:       "Employees are entitled to 14 days of annual leave per calendar year.",
		Score:      score,
		Distance:   1 - score,
		Metadata: map[string]interface{}{
			models.MetaSource:  source,
			models.MetaTitle:   title,
			models.MetaDocType: string(docType),
		},
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestSelect_AdmitsEvidenceAtThreshold(t *testing.T) {
	selector, mockEmbedder, mockVectorRepo := setupTestSelector(t, "Leave_Policy.pdf")
	ctx := context.Background()

	// Score exactly at the threshold must be admitted
	hits := []*repositories.SearchResult{
		policyHit(0.38, "Leave_Policy.pdf", "leave policy", models.DocTypeGeneral),
	}
	mockEmbedder.On("EmbedQuery", ctx, mock.AnythingOfType("string")).Return(testEmbedding(), nil)
	mockVectorRepo.On("SearchChunks", ctx, testCollection, mock.AnythingOfType("[]float32"), 3, mock.Anything).Return(hits, nil)

	evidence, err := selector.Select(ctx, "How many days of annual leave do I get?")

	assert.NoError(t, err)
	require.NotNil(t, evidence)
	assert.Equal(t, "Leave_Policy.pdf", evidence.SourceFile)
	assert.Contains(t, evidence.Grounding, "14 days of annual leave")
	assert.Empty(t, evidence.CoverAnswer)
	mockVectorRepo.AssertExpectations(t)
}

func TestSelect_RejectsBelowThreshold(t *testing.T) {
	selector, mockEmbedder, mockVectorRepo := setupTestSelector(t, "Leave_Policy.pdf")
	ctx := context.Background()

	hits := []*repositories.SearchResult{
		policyHit(0.3799, "Leave_Policy.pdf", "leave policy", models.DocTypeGeneral),
	}
	mockEmbedder.On("EmbedQuery", ctx, mock.AnythingOfType("string")).Return(testEmbedding(), nil)
	mockVectorRepo.On("SearchChunks", ctx, testCollection, mock.AnythingOfType("[]float32"), 3, mock.Anything).Return(hits, nil)

	evidence, err := selector.Select(ctx, "How many days of annual leave do I get?")

	assert.NoError(t, err)
	assert.Nil(t, evidence)
}

func TestSelect_RejectsMissingArtifact(t *testing.T) {
	// Artifact directory intentionally left empty
	selector, mockEmbedder, mockVectorRepo := setupTestSelector(t)
	ctx := context.Background()

	hits := []*repositories.SearchResult{
		policyHit(0.9, "Leave_Policy.pdf", "leave policy", models.DocTypeGeneral),
	}
	mockEmbedder.On("EmbedQuery", ctx, mock.AnythingOfType("string")).Return(testEmbedding(), nil)
	mockVectorRepo.On("SearchChunks", ctx, testCollection, mock.AnythingOfType("[]float32"), 3, mock.Anything).Return(hits, nil)

	evidence, err := selector.Select(ctx, "How many days of annual leave do I get?")

	assert.NoError(t, err)
	assert.Nil(t, evidence)
}

func TestSelect_RejectsMissingSourceMetadata(t *testing.T) {
	selector, mockEmbedder, mockVectorRepo := setupTestSelector(t)
	ctx := context.Background()

	hit := policyHit(0.9, "", "leave policy", models.DocTypeGeneral)
	mockEmbedder.On("EmbedQuery", ctx, mock.AnythingOfType("string")).Return(testEmbedding(), nil)
	mockVectorRepo.On("SearchChunks", ctx, testCollection, mock.AnythingOfType("[]float32"), 3, mock.Anything).Return([]*repositories.SearchResult{hit}, nil)

	evidence, err := selector.Select(ctx, "How many days of annual leave do I get?")

	assert.NoError(t, err)
	assert.Nil(t, evidence)
}

func TestSelect_NoHits(t *testing.T) {
	selector, mockEmbedder, mockVectorRepo := setupTestSelector(t)
	ctx := context.Background()

	mockEmbedder.On("EmbedQuery", ctx, mock.AnythingOfType("string")).Return(testEmbedding(), nil)
	mockVectorRepo.On("SearchChunks", ctx, testCollection, mock.AnythingOfType("[]float32"), 3, mock.Anything).Return([]*repositories.SearchResult{}, nil)

	evidence, err := selector.Select(ctx, "How many days of annual leave do I get?")

	assert.NoError(t, err)
	assert.Nil(t, evidence)
}

func TestSelect_SearchFailurePropagates(t *testing.T) {
	selector, mockEmbedder, mockVectorRepo := setupTestSelector(t)
	ctx := context.Background()

	mockEmbedder.On("EmbedQuery", ctx, mock.AnythingOfType("string")).Return(testEmbedding(), nil)
	mockVectorRepo.On("SearchChunks", ctx, testCollection, mock.AnythingOfType("[]float32"), 3, mock.Anything).Return(nil, errors.New("connection refused"))

	evidence, err := selector.Select(ctx, "How many days of annual leave do I get?")

	assert.Error(t, err)
	assert.Nil(t, evidence)
}

func TestSelect_CoverPageShortcut(t *testing.T) {
	selector, mockEmbedder, mockVectorRepo := setupTestSelector(t, "Quality_Manual_Cover_Page.pdf")
	ctx := context.Background()

	hits := []*repositories.SearchResult{
		policyHit(0.85, "Quality_Manual_Cover_Page.pdf", "quality manual cover page", models.DocTypeCoverPage),
	}
	mockEmbedder.On("EmbedQuery", ctx, mock.AnythingOfType("string")).Return(testEmbedding(), nil)
	mockVectorRepo.On("SearchChunks", ctx, testCollection, mock.AnythingOfType("[]float32"), 3, mock.Anything).Return(hits, nil)

	evidence, err := selector.Select(ctx, "Can you show me the cover page of the quality manual?")

	assert.NoError(t, err)
	require.NotNil(t, evidence)
	assert.Equal(t, "Quality_Manual_Cover_Page.pdf", evidence.SourceFile)
	assert.Contains(t, evidence.CoverAnswer, `"QUALITY MANUAL COVER PAGE"`)
	assert.Contains(t, evidence.CoverAnswer, "Controlled and Uncontrolled Copy Numbers")
	assert.Empty(t, evidence.Grounding)
}

func TestFilterMeetingMode_PhysicalQuestion(t *testing.T) {
	physical := policyHit(0.9, "Etiquette.pdf", "meeting etiquette", models.DocTypePhysical)
	digital := policyHit(0.95, "Digital.pdf", "digital meetings", models.DocTypeDigital)

	filtered := filterMeetingMode("what is expected at an onsite meeting?", []*repositories.SearchResult{digital, physical})

	require.Len(t, filtered, 1)
	assert.Equal(t, physical, filtered[0])
}

func TestFilterMeetingMode_DigitalQuestion(t *testing.T) {
	physical := policyHit(0.9, "Etiquette.pdf", "meeting etiquette", models.DocTypePhysical)
	digital := policyHit(0.8, "Digital.pdf", "digital meetings", models.DocTypeDigital)

	filtered := filterMeetingMode("how should I behave on a zoom call?", []*repositories.SearchResult{physical, digital})

	require.Len(t, filtered, 1)
	assert.Equal(t, digital, filtered[0])
}

func TestFilterMeetingMode_NeutralQuestionPassesThrough(t *testing.T) {
	hits := []*repositories.SearchResult{
		policyHit(0.9, "Etiquette.pdf", "meeting etiquette", models.DocTypePhysical),
		policyHit(0.8, "Digital.pdf", "digital meetings", models.DocTypeDigital),
	}

	filtered := filterMeetingMode("how do I book a meeting room?", hits)

	assert.Equal(t, hits, filtered)
}

func TestSelect_MeetingFilterCanEmptyResults(t *testing.T) {
	selector, mockEmbedder, mockVectorRepo := setupTestSelector(t, "Digital.pdf")
	ctx := context.Background()

	// Only digital hits exist but the question is explicitly physical
	hits := []*repositories.SearchResult{
		policyHit(0.9, "Digital.pdf", "digital meetings", models.DocTypeDigital),
	}
	mockEmbedder.On("EmbedQuery", ctx, mock.AnythingOfType("string")).Return(testEmbedding(), nil)
	mockVectorRepo.On("SearchChunks", ctx, testCollection, mock.AnythingOfType("[]float32"), 3, mock.Anything).Return(hits, nil)

	evidence, err := selector.Select(ctx, "rules for face to face meetings?")

	assert.NoError(t, err)
	assert.Nil(t, evidence)
}
