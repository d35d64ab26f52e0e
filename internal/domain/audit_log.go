package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog records a moderation decision. Rejection destroys the report, so
// the log row is the only trace a rejected submission ever existed.
type AuditLog struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Action    string          `json:"action" db:"action"`
	ReportID  uuid.UUID       `json:"report_id" db:"report_id"`
	Detail    json.RawMessage `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

const (
	AuditApproveReport  = "APPROVE_REPORT"
	AuditOverrideReport = "OVERRIDE_REPORT"
	AuditRejectReport   = "REJECT_REPORT"
	AuditDeleteApproved = "DELETE_APPROVED_REPORT"
)
