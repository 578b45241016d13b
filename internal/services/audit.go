package services

import (
	"fmt"
	"os"
	"sync"
	"time"

	"hr-assistant/internal/models"
)

// AuditLog is an append-only record of every question, routing decision,
// answer and attributed source. Appends are serialized with a mutex so
// concurrent requests never interleave partial records. The format is
// for operational inspection only, not machine-parsed.
type AuditLog struct {
	mu   sync.Mutex
	path string
}

// NewAuditLog creates an audit log writing to the given file path
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// RecordExchange appends a completed question/answer exchange with an
// optional source attribution.
func (l *AuditLog) RecordExchange(question, answer, sourceFile string) error {
	entry := fmt.Sprintf("%s - Q: %s\nA: %s\n", time.Now().Format(time.RFC3339), question, answer)
	if sourceFile != "" {
		entry += fmt.Sprintf("Source: %s\n", sourceFile)
	}
	entry += "---\n"
	return l.append(entry)
}

// RecordRejectedPersonal appends a record for a personally-toned
// question rejected before retrieval or generation.
func (l *AuditLog) RecordRejectedPersonal(question string) error {
	entry := fmt.Sprintf("[❌ Rejected Personal] %s - Q: %s\n---\n", time.Now().Format(time.RFC3339), question)
	return l.append(entry)
}

// RecordRejectionTone appends a distinct event when the model's answer
// itself sounds like a refusal.
func (l *AuditLog) RecordRejectionTone(answer string) error {
	entry := fmt.Sprintf("[⚠️ Rejection Tone] A: %s\n", answer)
	return l.append(entry)
}

func (l *AuditLog) append(entry string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// Transcript is the in-memory, process-wide record of (question, answer)
// pairs. Append-only for the lifetime of the process; it is never read
// back into any prompt.
type Transcript struct {
	mu      sync.RWMutex
	entries []models.TranscriptEntry
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records one exchange
func (t *Transcript) Append(question, answer string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, models.TranscriptEntry{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	})
}

// Snapshot returns a copy of all entries for introspection
func (t *Transcript) Snapshot() []models.TranscriptEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.TranscriptEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of recorded exchanges
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
