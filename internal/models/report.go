package models

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses. Transitions are one-way: pending -> resolved.
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
)

// Resolution actions persisted when a report is closed.
const (
	ResolutionKeep   = "keep"
	ResolutionDelete = "delete"
)

// Report is a user-submitted flag against a piece of content.
//
// ContentType holds the canonical kind (post, postcomment, recipe, question,
// answer). ObjectID is scoped within that kind. ParentID is set at intake for
// child kinds when the client supplies it; older rows may only carry the
// parent inside ContentPreview.
type Report struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ContentType      string     `gorm:"size:50;not null;index:idx_reports_target" json:"content_type"`
	ObjectID         int64      `gorm:"not null;index:idx_reports_target" json:"object_id"`
	ParentID         *int64     `json:"parent_id,omitempty"`
	ReportType       string     `gorm:"size:30;not null;index" json:"report_type"`
	Description      *string    `gorm:"size:1000" json:"description,omitempty"`
	ContentPreview   string     `gorm:"size:500" json:"content_preview"`
	Status           string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ResolutionAction *string    `gorm:"size:20" json:"resolution_action,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Reporter         User       `gorm:"foreignKey:ReporterID" json:"-"`
}
