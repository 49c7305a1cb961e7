package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"labportal/internal/common/errors"
)

// Memory is a process-local journal, for tests and single-run tools.
type Memory struct {
	mu       sync.Mutex
	attempts []Attempt
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Check(ctx context.Context, formID int64, payloadHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.attempts) - 1; i >= 0; i-- {
		a := m.attempts[i]
		if a.FormID == formID && a.PayloadHash == payloadHash && a.Outcome == OutcomeSucceeded {
			return errors.NewDuplicateSubmissionError(a.RemoteID)
		}
	}
	return nil
}

func (m *Memory) Record(ctx context.Context, a Attempt) error {
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now().UTC()
	}
	a.ApplicantEmail = strings.ToLower(a.ApplicantEmail)

	m.mu.Lock()
	m.attempts = append(m.attempts, a)
	m.mu.Unlock()
	return nil
}

// Attempts returns a copy of the journal in recording order.
func (m *Memory) Attempts() []Attempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Attempt(nil), m.attempts...)
}
