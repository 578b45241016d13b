package services

import (
	"context"
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
// Classification helpers
// ============================================================================

func TestClassifyDocType(t *testing.T) {
	tests := []struct {
		name     string
		baseName string
		want     models.DocType
	}{
		{"Cover page", "Quality_Manual_Cover_Page", models.DocTypeCoverPage},
		{"Cover beats meeting terms", "Cover_for_digital_meeting_guide", models.DocTypeCoverPage},
		{"Digital meeting", "Digital_Meeting_Guidelines", models.DocTypeDigital},
		{"Online meeting", "online_meeting_rules", models.DocTypeDigital},
		{"Virtual meeting", "Virtual_Meeting_SOP", models.DocTypeDigital},
		{"Space-named digital", "digital meeting basics", models.DocTypeDigital},
		{"Digital beats etiquette", "Digital_Meeting_Etiquette", models.DocTypeDigital},
		{"Etiquette", "Meeting_Etiquette", models.DocTypePhysical},
		{"Physical", "physical_meeting_rules", models.DocTypePhysical},
		{"General fallback", "Leave_Policy", models.DocTypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDocType(tt.baseName))
		})
	}
}

func TestTitleFromBase(t *testing.T) {
	assert.Equal(t, "leave policy 2024", TitleFromBase("Leave_Policy_2024"))
	assert.Equal(t, "quality manual cover page", TitleFromBase("Quality_Manual_Cover_Page"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "First item Second item", CleanText("1.First item 2.Second item"))
	assert.Equal(t, "bold text", CleanText("**bold text**"))
	assert.Equal(t, "plain", CleanText("  plain  "))
}

func TestResolveSourceFile_CaseInsensitiveMatch(t *testing.T) {
	artifactsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "LEAVE_POLICY.pdf"), []byte("%PDF"), 0o644))

	assert.Equal(t, "LEAVE_POLICY.pdf", ResolveSourceFile("leave_policy", artifactsDir))
}

func TestResolveSourceFile_FallbackWhenUnmatched(t *testing.T) {
	assert.Equal(t, "Missing_Doc.docx", ResolveSourceFile("Missing_Doc", t.TempDir()))
}

// ============================================================================
// Ingestor
// ============================================================================

func setupTestIngestor(t *testing.T) (*Ingestor, *MockEmbeddingClient, *MockVectorRepository, *MockDocumentRepository, string, string) {
	t.Helper()

	cleanedDir := t.TempDir()
	artifactsDir := t.TempDir()

	mockEmbedder := new(MockEmbeddingClient)
	mockVectorRepo := new(MockVectorRepository)
	mockDocRepo := new(MockDocumentRepository)
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)

	ingestor := NewIngestor(
		NewTextSplitter(1000, 200),
		mockEmbedder,
		mockVectorRepo,
		mockDocRepo,
		cleanedDir,
		artifactsDir,
		testCollection,
		logger,
	)

	return ingestor, mockEmbedder, mockVectorRepo, mockDocRepo, cleanedDir, artifactsDir
}

func TestTagChunks_MetadataSharedPerDocument(t *testing.T) {
	ingestor, _, _, _, cleanedDir, artifactsDir := setupTestIngestor(t)

	require.NoError(t, os.WriteFile(
		filepath.Join(cleanedDir, "Meeting_Etiquette.txt"),
		[]byte("Arrive on time for meetings.\n\nBring an agenda to every meeting."),
		0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(artifactsDir, "Meeting_Etiquette.pdf"), []byte("%PDF"), 0o644))

	tagged, err := ingestor.TagChunks()
	require.NoError(t, err)
	require.NotEmpty(t, tagged)

	for _, chunk := range tagged {
		assert.Equal(t, "Meeting_Etiquette.pdf", chunk.SourceFile)
		assert.Equal(t, "meeting etiquette", chunk.Title)
		assert.Equal(t, models.DocTypePhysical, chunk.DocType)
		assert.NotEmpty(t, chunk.Text)
	}
}

func TestTagChunks_SkipsUnsupportedFiles(t *testing.T) {
	ingestor, _, _, _, cleanedDir, _ := setupTestIngestor(t)

	require.NoError(t, os.WriteFile(
		filepath.Join(cleanedDir, "Leave_Policy.txt"), []byte("Leave policy text."), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(cleanedDir, "image.png"), []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))

	tagged, err := ingestor.TagChunks()
	require.NoError(t, err)

	require.Len(t, tagged, 1)
	assert.Equal(t, "leave policy", tagged[0].Title)
}

func TestRun_RebuildsCollectionAndRegistry(t *testing.T) {
	ingestor, mockEmbedder, mockVectorRepo, mockDocRepo, cleanedDir, _ := setupTestIngestor(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(
		filepath.Join(cleanedDir, "Leave_Policy.txt"),
		[]byte("Employees get 14 days of annual leave."),
		0o644))

	mockVectorRepo.On("CollectionExists", ctx, testCollection).Return(true, nil)
	mockVectorRepo.On("DeleteCollection", ctx, testCollection).Return(nil)
	mockVectorRepo.On("CreateCollection", ctx, testCollection, mock.Anything).Return(nil)
	mockDocRepo.On("Clear", ctx).Return(nil)
	mockEmbedder.On("EmbedBatch", ctx, mock.AnythingOfType("[]string")).Return([][]float32{make([]float32, 768)}, nil)
	mockVectorRepo.On("StoreChunks", ctx, testCollection, mock.AnythingOfType("[]*repositories.Chunk")).
		Run(func(args mock.Arguments) {
			chunks := args.Get(2).([]*repositories.Chunk)
			require.Len(t, chunks, 1)
			assert.NotEmpty(t, chunks[0].ID)
			assert.Equal(t, "Employees get 14 days of annual leave.", chunks[0].Text)
			assert.Equal(t, "leave policy", chunks[0].Metadata[models.MetaTitle])
			assert.Equal(t, string(models.DocTypeGeneral), chunks[0].Metadata[models.MetaDocType])
		}).
		Return(nil)
	mockDocRepo.On("Register", ctx, mock.AnythingOfType("*repositories.Document")).
		Run(func(args mock.Arguments) {
			doc := args.Get(1).(*repositories.Document)
			assert.Equal(t, "leave policy", doc.Title)
			assert.Equal(t, 1, doc.ChunkCount)
			assert.False(t, doc.IngestedAt.IsZero())
		}).
		Return(nil)

	err := ingestor.Run(ctx)

	assert.NoError(t, err)
	mockVectorRepo.AssertExpectations(t)
	mockDocRepo.AssertExpectations(t)
	mockEmbedder.AssertExpectations(t)
}

func TestRun_FreshCollectionSkipsDelete(t *testing.T) {
	ingestor, mockEmbedder, mockVectorRepo, mockDocRepo, cleanedDir, _ := setupTestIngestor(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(
		filepath.Join(cleanedDir, "Policy.txt"), []byte("Some policy."), 0o644))

	mockVectorRepo.On("CollectionExists", ctx, testCollection).Return(false, nil)
	mockVectorRepo.On("CreateCollection", ctx, testCollection, mock.Anything).Return(nil)
	mockDocRepo.On("Clear", ctx).Return(nil)
	mockEmbedder.On("EmbedBatch", ctx, mock.AnythingOfType("[]string")).Return([][]float32{make([]float32, 768)}, nil)
	mockVectorRepo.On("StoreChunks", ctx, testCollection, mock.Anything).Return(nil)
	mockDocRepo.On("Register", ctx, mock.Anything).Return(nil)

	err := ingestor.Run(ctx)

	assert.NoError(t, err)
	mockVectorRepo.AssertNotCalled(t, "DeleteCollection", mock.Anything, mock.Anything)
}
