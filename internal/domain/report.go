package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"akses-lakbay/internal/pkg/geo"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrReportNotPending = errors.New("report is not pending review")
)

type Report struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	Latitude     float64        `json:"latitude" db:"latitude"`
	Longitude    float64        `json:"longitude" db:"longitude"`
	Type         ReportType     `json:"type" db:"type"`
	Features     pq.StringArray `json:"features" db:"features"`
	Comment      *string        `json:"comment,omitempty" db:"comment"`
	PhotoPath    *string        `json:"-" db:"photo_path"`
	PhotoURL     string         `json:"photo_url,omitempty" db:"-"`
	Status       ReportStatus   `json:"status" db:"status"`
	SubmittedBy  uuid.UUID      `json:"submitted_by" db:"submitted_by"`
	SubmittedAt  time.Time      `json:"submitted_at" db:"submitted_at"`
	ReviewedBy   *uuid.UUID     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

func (r *Report) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

type ReportType string

const (
	TypeAccessible   ReportType = "accessible"
	TypePartially    ReportType = "partially"
	TypeInaccessible ReportType = "inaccessible"
)

func (t ReportType) IsValid() bool {
	switch t {
	case TypeAccessible, TypePartially, TypeInaccessible:
		return true
	default:
		return false
	}
}

type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusApproved ReportStatus = "approved"
	StatusRejected ReportStatus = "rejected"
)

// FeatureTag is the closed set of accessibility features a "partially
// accessible" report can carry.
type FeatureTag string

const (
	FeatureRamp               FeatureTag = "ramp"
	FeatureElevator           FeatureTag = "elevator"
	FeatureCurbCut            FeatureTag = "curb_cut"
	FeatureHandrail           FeatureTag = "handrail"
	FeatureTactilePaving      FeatureTag = "tactile_paving"
	FeatureAccessibleRestroom FeatureTag = "accessible_restroom"
	FeatureAccessibleParking  FeatureTag = "parking"
)

func (f FeatureTag) IsValid() bool {
	switch f {
	case FeatureRamp, FeatureElevator, FeatureCurbCut, FeatureHandrail,
		FeatureTactilePaving, FeatureAccessibleRestroom, FeatureAccessibleParking:
		return true
	default:
		return false
	}
}

type SubmitReportInput struct {
	Latitude     float64      `json:"latitude" validate:"required"`
	Longitude    float64      `json:"longitude" validate:"required"`
	Type         ReportType   `json:"type" validate:"required"`
	Features     []FeatureTag `json:"features,omitempty"`
	Comment      *string      `json:"comment,omitempty" validate:"omitempty,max=500"`
	PhotoPayload string       `json:"photo_payload" validate:"required"`
}

type ApproveReportInput struct {
	ConfirmOverride bool `json:"confirm_override"`
}

type RejectReportInput struct {
	Confirm bool `json:"confirm"`
}

type DeleteReportInput struct {
	Confirm bool `json:"confirm"`
}

type HeatmapPoint struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Type      ReportType `json:"type"`
	Weight    float64    `json:"weight"`
}
