package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Intent is the routing decision for an incoming question.
type Intent int

const (
	// IntentReject marks a personal/emotional question; answered with a
	// fixed apology, no retrieval and no generation.
	IntentReject Intent = iota
	// IntentRoute marks an HR/policy question eligible for retrieval.
	IntentRoute
	// IntentGeneric marks everything else; answered without grounding.
	IntentGeneric
)

func (i Intent) String() string {
	switch i {
	case IntentReject:
		return "reject"
	case IntentRoute:
		return "route"
	default:
		return "generic"
	}
}

// fuzzyMatchThreshold is the minimum PartialRatio (0-100 scale) for a
// keyword to count as an HR match.
const fuzzyMatchThreshold = 80

// personalKeywords trigger an immediate rejection. Matching is
// case-insensitive substring and takes absolute priority over the HR
// keyword check.
var personalKeywords = []string{
	"father", "mother", "brother", "sister", "family", "boyfriend", "girlfriend",
	"relationship", "love", "hate", "angry", "feel", "emotional", "personal", "sad",
	"why is my", "mental health", "feeling",
}

// hrKeywords route a question to retrieval on substring or fuzzy match.
var hrKeywords = []string{
	"leave", "policy", "hr", "human resource", "benefits", "meeting", "procedure",
	"onboarding", "offboarding", "sop", "salary", "promotion", "resignation",
	"complaint", "roles", "pantry", "email etiquette", "company policy", "form",
	"employee", "attendance", "audit", "feedback", "payroll", "document", "workflow",
	"cover page", "quality manual", "quality procedure", "controlled copy", "uncontrolled copy",
}

const hrClassifyPrompt = `Is the following question related to Human Resources, company policies, internal procedures, or work etiquette?

Question: "%s"

Respond with only "Yes" or "No".`

// IntentClassifier decides whether a question is rejected outright,
// routed to retrieval, or answered generically. Keyword and fuzzy
// matching handle the bulk of traffic; an LLM fallback catches
// paraphrased HR questions the keyword list misses.
type IntentClassifier struct {
	llm    LLMClient
	logger *log.Logger
}

// NewIntentClassifier creates a new intent classifier
func NewIntentClassifier(llm LLMClient, logger *log.Logger) *IntentClassifier {
	return &IntentClassifier{
		llm:    llm,
		logger: logger,
	}
}

// Classify routes a question. The personal check runs first and wins
// even when HR keywords co-occur.
func (c *IntentClassifier) Classify(ctx context.Context, question string) Intent {
	if c.isPersonal(question) {
		return IntentReject
	}
	if c.isHRQuery(question) {
		return IntentRoute
	}
	if c.isHRViaLLM(ctx, question) {
		return IntentRoute
	}
	return IntentGeneric
}

// isPersonal checks the question against the personal keyword list
func (c *IntentClassifier) isPersonal(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range personalKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// isHRQuery checks the HR keyword list by substring first, then by
// fuzzy partial-similarity match.
func (c *IntentClassifier) isHRQuery(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range hrKeywords {
		if strings.Contains(q, kw) {
			return true
		}
		if fuzzy.PartialRatio(kw, q) >= fuzzyMatchThreshold {
			return true
		}
	}
	return false
}

// isHRViaLLM asks the generation model for a strict Yes/No HR
// classification. Model failure degrades to "not HR".
func (c *IntentClassifier) isHRViaLLM(ctx context.Context, question string) bool {
	result, err := c.llm.Invoke(ctx, fmt.Sprintf(hrClassifyPrompt, question))
	if err != nil {
		c.logger.Printf("LLM intent fallback failed: %v", err)
		return false
	}
	return strings.Contains(strings.ToLower(result), "yes")
}
