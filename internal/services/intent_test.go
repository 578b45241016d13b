package services

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTestClassifier() (*IntentClassifier, *MockLLMClient) {
	mockLLM := new(MockLLMClient)
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)
	return NewIntentClassifier(mockLLM, logger), mockLLM
}

func TestClassify_PersonalKeywordRejects(t *testing.T) {
	classifier, mockLLM := setupTestClassifier()
	ctx := context.Background()

	tests := []struct {
		name     string
		question string
	}{
		{"Family member", "Can you help with my father's situation?"},
		{"Emotional state", "I feel sad about work"},
		{"Mental health", "What should I do about my mental health?"},
		{"Why is my phrasing", "Why is my manager like this"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IntentReject, classifier.Classify(ctx, tt.question))
		})
	}

	// The LLM fallback must never run for personal questions
	mockLLM.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestClassify_PersonalBeatsHRKeywords(t *testing.T) {
	classifier, mockLLM := setupTestClassifier()
	ctx := context.Background()

	// Contains both "leave" (HR) and "family" (personal); personal wins
	intent := classifier.Classify(ctx, "Can I take leave because of a family emergency I feel terrible about?")

	assert.Equal(t, IntentReject, intent)
	mockLLM.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestClassify_HRKeywordRoutes(t *testing.T) {
	classifier, mockLLM := setupTestClassifier()
	ctx := context.Background()

	tests := []struct {
		name     string
		question string
	}{
		{"Leave policy", "How many days of annual leave do I get?"},
		{"Meeting", "What is the meeting room booking procedure?"},
		{"Cover page", "Can you show me the cover page of the quality manual?"},
		{"Payroll", "When does payroll run each month?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IntentRoute, classifier.Classify(ctx, tt.question))
		})
	}

	mockLLM.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestClassify_FuzzyHRMatchRoutes(t *testing.T) {
	classifier, mockLLM := setupTestClassifier()
	ctx := context.Background()

	// "polcy" is a typo of "policy"; partial similarity clears 80
	intent := classifier.Classify(ctx, "where can I read the polcy on remote work")

	assert.Equal(t, IntentRoute, intent)
	mockLLM.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestClassify_LLMFallbackYes(t *testing.T) {
	classifier, mockLLM := setupTestClassifier()
	ctx := context.Background()

	mockLLM.On("Invoke", ctx, mock.AnythingOfType("string")).Return("Yes", nil)

	intent := classifier.Classify(ctx, "what happens when someone stops working here")

	assert.Equal(t, IntentRoute, intent)
	mockLLM.AssertExpectations(t)
}

func TestClassify_LLMFallbackNo(t *testing.T) {
	classifier, mockLLM := setupTestClassifier()
	ctx := context.Background()

	mockLLM.On("Invoke", ctx, mock.AnythingOfType("string")).Return("No", nil)

	intent := classifier.Classify(ctx, "what is the capital of France")

	assert.Equal(t, IntentGeneric, intent)
	mockLLM.AssertExpectations(t)
}

func TestClassify_LLMFailureDegradesToGeneric(t *testing.T) {
	classifier, mockLLM := setupTestClassifier()
	ctx := context.Background()

	mockLLM.On("Invoke", ctx, mock.AnythingOfType("string")).Return("", errors.New("connection refused"))

	intent := classifier.Classify(ctx, "what is 1+1")

	assert.Equal(t, IntentGeneric, intent)
	mockLLM.AssertExpectations(t)
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "reject", IntentReject.String())
	assert.Equal(t, "route", IntentRoute.String())
	assert.Equal(t, "generic", IntentGeneric.String())
}
