package dto

import (
	"github.com/platebook/platebook-backend/internal/content"
	"github.com/platebook/platebook-backend/internal/models"
)

type CreateReportRequest struct {
	ContentType    string `json:"content_type"`
	ObjectID       int64  `json:"object_id"`
	ParentID       *int64 `json:"parent_id,omitempty"`
	ReportType     string `json:"report_type"`
	Description    string `json:"description,omitempty"`
	ContentPreview string `json:"content_preview,omitempty"`
}

type ResolveReportRequest struct {
	Action string `json:"action"`
}

// ReportDetailResponse pairs a report with its best-effort content
// reference. Content is omitted when resolution degraded; the UI falls back
// to the report's content_preview.
type ReportDetailResponse struct {
	Report  *models.Report     `json:"report"`
	Content *content.Reference `json:"content,omitempty"`
}

// ResolveReportResponse reports the terminal transition. ContentDeleted is
// false when the action was "delete" but the content service call failed; the
// report is still resolved and the delete can be retried out of band.
type ResolveReportResponse struct {
	Report         *models.Report `json:"report"`
	ContentDeleted bool           `json:"content_deleted"`
}

type AdminStatusResponse struct {
	IsAdmin bool `json:"is_admin"`
}
