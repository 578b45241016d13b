package services

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"hr-assistant/internal/models"
)

const personalApologyTemplate = "Sorry I am not qualified to answer this question as I am only designed to assist with %s's internal policies and HR-related queries. " +
	"For personal matters, I would recommend speaking to someone you trust or seek professional help."

const failureApology = "Sorry, something went wrong."

// ChatService runs the full question-answering pipeline: rejection gate,
// intent classification, evidence selection, answer synthesis, transcript
// and audit logging. It is re-entrant; the transcript and audit log are
// the only shared mutable state and serialize their own writes.
type ChatService struct {
	intent      *IntentClassifier
	evidence    *EvidenceSelector
	synthesizer *AnswerSynthesizer
	audit       *AuditLog
	transcript  *Transcript
	companyName string
	baseURL     string
	logger      *log.Logger
}

// NewChatService creates the pipeline from its injected stages
func NewChatService(
	intent *IntentClassifier,
	evidence *EvidenceSelector,
	synthesizer *AnswerSynthesizer,
	audit *AuditLog,
	transcript *Transcript,
	companyName string,
	baseURL string,
	logger *log.Logger,
) *ChatService {
	return &ChatService{
		intent:      intent,
		evidence:    evidence,
		synthesizer: synthesizer,
		audit:       audit,
		transcript:  transcript,
		companyName: companyName,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// Answer processes one question end to end. It never fails the caller:
// every error path degrades to a plain-text apology with a null
// reference file.
func (s *ChatService) Answer(ctx context.Context, question string) *models.ChatAnswer {
	s.logger.Printf("❓ Question: %s", question)

	intent := s.intent.Classify(ctx, question)

	// Rejection gate: absolute and unconditional on downstream logic.
	if intent == IntentReject {
		if err := s.audit.RecordRejectedPersonal(question); err != nil {
			s.logger.Printf("audit write failed: %v", err)
		}
		return &models.ChatAnswer{
			Answer: fmt.Sprintf(personalApologyTemplate, s.companyName),
		}
	}

	var evidence *Evidence
	if intent == IntentRoute {
		ev, err := s.evidence.Select(ctx, question)
		if err != nil {
			// Retrieval failure degrades to the ungrounded path
			s.logger.Printf("evidence selection failed: %v", err)
		} else {
			evidence = ev
		}
	}

	answer, sourceFile := s.synthesize(ctx, question, evidence)

	if IsRejectionTone(answer) {
		if err := s.audit.RecordRejectionTone(answer); err != nil {
			s.logger.Printf("audit write failed: %v", err)
		}
	}

	s.transcript.Append(question, answer)
	if err := s.audit.RecordExchange(question, answer, sourceFile); err != nil {
		s.logger.Printf("audit write failed: %v", err)
	}

	return &models.ChatAnswer{
		Answer:        answer,
		ReferenceFile: s.referenceFile(sourceFile),
	}
}

// History returns the transcript snapshot
func (s *ChatService) History() []models.TranscriptEntry {
	return s.transcript.Snapshot()
}

// synthesize produces the answer text and the attributed source, if any.
func (s *ChatService) synthesize(ctx context.Context, question string, evidence *Evidence) (answer string, sourceFile string) {
	// Cover pages get a deterministic templated answer, no model call.
	if evidence != nil && evidence.CoverAnswer != "" {
		return evidence.CoverAnswer, evidence.SourceFile
	}

	grounding := ""
	if evidence != nil {
		grounding = evidence.Grounding
		sourceFile = evidence.SourceFile
	}

	answer, err := s.synthesizer.Synthesize(ctx, question, grounding)
	if err != nil {
		s.logger.Printf("❌ generation failed: %v", err)
		return failureApology, ""
	}
	return answer, sourceFile
}

// referenceFile builds the public pointer to the original artifact.
func (s *ChatService) referenceFile(sourceFile string) *models.ReferenceFile {
	if sourceFile == "" {
		return nil
	}
	return &models.ReferenceFile{
		URL:  fmt.Sprintf("%s/pdfs/%s", s.baseURL, url.PathEscape(sourceFile)),
		Name: sourceFile,
	}
}
