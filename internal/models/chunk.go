package models

// DocType is the coarse category assigned to every chunk of a document.
// It drives meeting-mode retrieval filtering and cover-page templating.
type DocType string

const (
	DocTypeCoverPage DocType = "cover_page"
	DocTypeDigital   DocType = "digital"
	DocTypePhysical  DocType = "physical"
	DocTypeGeneral   DocType = "general"
)

// Metadata keys attached to every chunk stored in the vector index.
const (
	MetaSource  = "source"
	MetaTitle   = "title"
	MetaDocType = "doc_type"
)

// TaggedChunk is a chunk of cleaned document text with its provenance
// metadata. Every chunk produced from one document carries the same
// SourceFile, Title and DocType. Chunks are immutable once created;
// re-ingestion rebuilds the whole index.
type TaggedChunk struct {
	Text       string  `json:"text"`
	SourceFile string  `json:"source_file"`
	Title      string  `json:"title"`
	DocType    DocType `json:"doc_type"`
}

// Metadata returns the vector-store metadata map for the chunk.
func (c *TaggedChunk) Metadata() map[string]interface{} {
	return map[string]interface{}{
		MetaSource:  c.SourceFile,
		MetaTitle:   c.Title,
		MetaDocType: string(c.DocType),
	}
}
