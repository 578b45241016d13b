package services

import (
	"strings"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// TextSplitter splits cleaned document text into overlapping chunks of
// at most ChunkSize runes, breaking preferentially on paragraph
// boundaries, then sentences, then raw runes, so no emitted chunk ever
// exceeds the size limit.
type TextSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewTextSplitter creates a splitter with the given size and overlap
func NewTextSplitter(chunkSize, chunkOverlap int) *TextSplitter {
	return &TextSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}
}

// Split breaks text into chunks. Consecutive chunks share roughly
// ChunkOverlap runes of trailing context.
func (s *TextSplitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= s.ChunkSize {
		return []string{text}
	}
	return s.assemble(s.fragments(text))
}

// fragments breaks text into units no longer than ChunkSize, preferring
// paragraph boundaries, then sentence boundaries, then raw runes.
func (s *TextSplitter) fragments(text string) []string {
	var out []string
	for _, para := range splitParagraphs(text) {
		if utf8.RuneCountInString(para) <= s.ChunkSize {
			out = append(out, para)
			continue
		}
		for _, sent := range splitSentences(para) {
			if utf8.RuneCountInString(sent) <= s.ChunkSize {
				out = append(out, sent)
				continue
			}
			out = append(out, s.splitRunes(sent)...)
		}
	}
	return out
}

// assemble greedily packs fragments into chunks, carrying up to
// ChunkOverlap runes of the previous chunk's tail fragments into the
// next chunk.
func (s *TextSplitter) assemble(fragments []string) []string {
	var chunks []string
	var window []string
	total := 0 // rune length of window contents, excluding separators

	flush := func() {
		if len(window) > 0 {
			chunks = append(chunks, strings.Join(window, "\n"))
		}
	}

	for _, frag := range fragments {
		fragLen := utf8.RuneCountInString(frag)

		// +len(window) approximates the newline separators
		if len(window) > 0 && total+fragLen+len(window) > s.ChunkSize {
			flush()
			// Retain only a tail of fragments within the overlap
			// budget that still leaves room for the new fragment.
			for len(window) > 0 && (total > s.ChunkOverlap || total+fragLen+len(window) > s.ChunkSize) {
				total -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}

		window = append(window, frag)
		total += fragLen
	}

	flush()
	return chunks
}

// splitRunes hard-splits an oversized sentence into rune windows with
// overlap. Last resort when no structural boundary fits.
func (s *TextSplitter) splitRunes(text string) []string {
	runes := []rune(text)
	step := s.ChunkSize - s.ChunkOverlap
	if step <= 0 {
		step = s.ChunkSize
	}

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

func splitParagraphs(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			out = append(out, para)
		}
	}
	return out
}

// splitSentences segments a paragraph with prose. Tokenization, tagging
// and entity extraction are disabled; only the sentence segmenter runs.
func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return []string{text}
	}

	var out []string
	for _, sent := range doc.Sentences() {
		trimmed := strings.TrimSpace(sent.Text)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}
