// Package ledger journals application submission attempts so a manual retry
// of an already accepted submission can be refused before it reaches the backend.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/models"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "SUCCEEDED"
	OutcomeFailed    Outcome = "FAILED"
	OutcomeRejected  Outcome = "REJECTED"
)

// Attempt is one row of the journal.
type Attempt struct {
	FormID         int64
	ApplicantEmail string
	PayloadHash    string
	Outcome        Outcome
	RemoteID       int64
	ErrorCode      string
	RecordedAt     time.Time
}

// Ledger is consulted before a submission and told about every outcome.
type Ledger interface {
	// Check returns DUPLICATE_SUBMISSION when an attempt with the same form
	// and payload hash already succeeded.
	Check(ctx context.Context, formID int64, payloadHash string) error
	Record(ctx context.Context, a Attempt) error
}

// HashPayload fingerprints a submission. Applicant email is lower-cased so
// "A@lab.ac.kr" and "a@lab.ac.kr" count as the same applicant.
func HashPayload(req models.SubmitApplicationRequest) (string, error) {
	req.ApplicantEmail = strings.ToLower(strings.TrimSpace(req.ApplicantEmail))
	req.Status = ""
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submission for hashing: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ==========================
// Postgres
// ==========================

const schemaDDL = `
CREATE TABLE IF NOT EXISTS submission_attempts (
	id              UUID PRIMARY KEY,
	form_id         BIGINT NOT NULL,
	applicant_email TEXT NOT NULL,
	payload_hash    TEXT NOT NULL,
	outcome         TEXT NOT NULL,
	remote_id       BIGINT,
	error_code      TEXT,
	recorded_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS submission_attempts_lookup
	ON submission_attempts (form_id, payload_hash, outcome);`

type PostgresLedger struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgres(db *sql.DB, log logger.Logger) *PostgresLedger {
	return &PostgresLedger{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "ledger"}),
	}
}

// EnsureSchema creates the journal table when it does not exist yet.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schemaDDL); err != nil {
		return errors.NewStorageError("ensure_schema", err)
	}
	return nil
}

func (l *PostgresLedger) Check(ctx context.Context, formID int64, payloadHash string) error {
	var remoteID sql.NullInt64
	err := l.db.QueryRowContext(ctx, `
		SELECT remote_id FROM submission_attempts
		WHERE form_id = $1 AND payload_hash = $2 AND outcome = $3
		ORDER BY recorded_at DESC
		LIMIT 1`, formID, payloadHash, string(OutcomeSucceeded)).Scan(&remoteID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return errors.NewStorageError("check_submission", err)
	}

	l.logger.Warn("duplicate submission refused", map[string]interface{}{
		"formId":   formID,
		"remoteId": remoteID.Int64,
	})
	return errors.NewDuplicateSubmissionError(remoteID.Int64)
}

func (l *PostgresLedger) Record(ctx context.Context, a Attempt) error {
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now().UTC()
	}
	remoteID := sql.NullInt64{Int64: a.RemoteID, Valid: a.RemoteID != 0}
	errorCode := sql.NullString{String: a.ErrorCode, Valid: a.ErrorCode != ""}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO submission_attempts (
			id, form_id, applicant_email, payload_hash,
			outcome, remote_id, error_code, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New().String(),
		a.FormID,
		strings.ToLower(a.ApplicantEmail),
		a.PayloadHash,
		string(a.Outcome),
		remoteID,
		errorCode,
		a.RecordedAt,
	)
	if err != nil {
		return errors.NewStorageError("record_submission", err)
	}

	l.logger.Debug("submission attempt recorded", map[string]interface{}{
		"formId":  a.FormID,
		"outcome": a.Outcome,
	})
	return nil
}

// ==========================
// No-op
// ==========================

// Nop is used when no database is configured. It never refuses a submission.
type Nop struct{}

func (Nop) Check(ctx context.Context, formID int64, payloadHash string) error { return nil }

func (Nop) Record(ctx context.Context, a Attempt) error { return nil }
