package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is one recipient's copy of a broadcast event. The fan-out
// persists a row per recipient so each user owns their read state; push
// delivery to individual devices leaves no per-device state behind.
type Notification struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	RecipientID uuid.UUID          `json:"recipient_id" db:"recipient_id"`
	Type        NotificationType   `json:"type" db:"type"`
	Title       string             `json:"title" db:"title"`
	Body        string             `json:"body" db:"body"`
	Data        json.RawMessage    `json:"data,omitempty" db:"data"`
	Status      NotificationStatus `json:"status" db:"status"`
	ReadAt      *time.Time         `json:"read_at,omitempty" db:"read_at"`
	ActorID     uuid.UUID          `json:"actor_id" db:"actor_id"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifNewFeedback      NotificationType = "new_feedback"
	NotifFeedbackApproved NotificationType = "feedback_approved"
	NotifFeedbackUpdated  NotificationType = "feedback_updated"
)

type NotificationStatus string

const (
	NotifUnread NotificationStatus = "unread"
	NotifRead   NotificationStatus = "read"
)

// NotificationData is the payload carried on every event. SupersededReportID
// is set only on feedback_updated events produced by an override.
type NotificationData struct {
	ReportID           uuid.UUID  `json:"report_id"`
	SupersededReportID *uuid.UUID `json:"superseded_report_id,omitempty"`
}

func (d NotificationData) Marshal() json.RawMessage {
	raw, _ := json.Marshal(d)
	return raw
}
