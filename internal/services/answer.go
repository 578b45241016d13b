package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// groundedSystemPrefix is the fixed instruction for grounded generation.
const groundedSystemPrefix = "You are a professional HR assistant at %s.\n" +
	"Answer only using the content provided in the document — do not add anything outside of it.\n" +
	"Summarize all key points mentioned in the document, not just one. Keep the tone clear and professional, and do not skip relevant sections.\n" +
	"Avoid overly casual language like 'just a heads up', 'don't worry', or 'let them know what's going on'.\n" +
	"Speak as if you're helping a colleague or employee in a business setting.\n" +
	"Avoid numbered or overly formatted lists unless they already exist in the document.\n" +
	"Be clear, concise, and human — not robotic or overly formal."

// rejectionPatterns detect the model declining to answer. Input is
// lower-cased and curly apostrophes normalized before matching.
var rejectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`i'?m not (qualified|able|equipped) to provide (a )?response`),
	regexp.MustCompile(`document (does not|doesn't) (address|mention).*(personal|family)`),
	regexp.MustCompile(`recommend (seeking|speaking|getting).*(help|support|advice)`),
	regexp.MustCompile(`i can'?t provide (guidance|support|advice)`),
	regexp.MustCompile(`this is beyond (my|the document's) scope`),
	regexp.MustCompile(`not able to help (with )?(that|this question)`),
}

// lastSentenceEnd trims everything after the final terminal punctuation.
var lastSentenceEnd = regexp.MustCompile(`([.!?])[^.!?]*$`)

// AnswerSynthesizer builds the generation prompt, invokes the model and
// post-processes the raw output.
type AnswerSynthesizer struct {
	llm         LLMClient
	companyName string
	maxWords    int
	logger      *log.Logger
}

// NewAnswerSynthesizer creates a new answer synthesizer
func NewAnswerSynthesizer(llm LLMClient, companyName string, maxWords int, logger *log.Logger) *AnswerSynthesizer {
	return &AnswerSynthesizer{
		llm:         llm,
		companyName: companyName,
		maxWords:    maxWords,
		logger:      logger,
	}
}

// Synthesize generates an answer, grounded when grounding text is
// supplied, and truncates it to the word budget. An empty grounding
// string means ungrounded generation on the bare question.
func (s *AnswerSynthesizer) Synthesize(ctx context.Context, question, grounding string) (string, error) {
	prompt := question
	if grounding != "" {
		prompt = fmt.Sprintf("%s\n---\n%s\n---\nBased only on the content above, how would you answer this question?\n%s",
			fmt.Sprintf(groundedSystemPrefix, s.companyName), grounding, question)
	}

	raw, err := s.llm.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	return s.Truncate(raw), nil
}

// Truncate cuts an answer to the word budget without ending
// mid-sentence. Text within budget is returned unmodified; otherwise it
// is cut to maxWords words, trimmed back to the last terminal
// punctuation mark, and suffixed with an ellipsis marker.
func (s *AnswerSynthesizer) Truncate(answer string) string {
	words := strings.Fields(answer)
	if len(words) <= s.maxWords {
		return answer
	}
	truncated := strings.Join(words[:s.maxWords], " ")
	truncated = lastSentenceEnd.ReplaceAllString(strings.TrimSpace(truncated), "$1")
	return truncated + "..."
}

// IsRejectionTone reports whether the answer sounds like the model
// declined to answer. Detection is logged as an audit event but does
// not change the returned answer or suppress source attribution.
func IsRejectionTone(answer string) bool {
	text := strings.ToLower(answer)
	text = strings.NewReplacer("’", "'", "‘", "'").Replace(text)
	for _, p := range rejectionPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
