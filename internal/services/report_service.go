package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/platebook/platebook-backend/internal/content"
	"github.com/platebook/platebook-backend/internal/dto"
	"github.com/platebook/platebook-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyResolved = errors.New("report already resolved")
)

var validReportTypes = map[string]bool{
	"spam":          true,
	"inappropriate": true,
	"harassment":    true,
	"other":         true,
}

const maxPreviewLen = 500

// ReportService owns the report lifecycle: intake, admin queries, and the
// terminal keep/delete transition.
type ReportService struct {
	db       *gorm.DB
	registry *content.Registry
	resolver *content.Resolver
}

func NewReportService(db *gorm.DB, registry *content.Registry, resolver *content.Resolver) *ReportService {
	return &ReportService{db: db, registry: registry, resolver: resolver}
}

// CreateReport validates the intake fields and appends a pending report.
// Target existence is not verified here; resolution happens on demand when an
// admin opens the report.
func (s *ReportService) CreateReport(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	contentType := s.registry.Normalize(strings.TrimSpace(req.ContentType))
	if _, ok := s.registry.Lookup(contentType); !ok {
		return nil, fmt.Errorf("invalid content_type: must be one of %s",
			strings.Join(s.registry.Kinds(), ", "))
	}
	if req.ObjectID <= 0 {
		return nil, errors.New("object_id is required")
	}
	if !validReportTypes[req.ReportType] {
		return nil, errors.New("invalid report_type: must be spam, inappropriate, harassment, or other")
	}

	var description *string
	if d := strings.TrimSpace(req.Description); d != "" {
		description = &d
	}

	preview := strings.TrimSpace(req.ContentPreview)
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen]
	}

	report := models.Report{
		ID:             uuid.New(),
		ReporterID:     reporterID,
		ContentType:    contentType,
		ObjectID:       req.ObjectID,
		ParentID:       req.ParentID,
		ReportType:     req.ReportType,
		Description:    description,
		ContentPreview: preview,
		Status:         models.ReportStatusPending,
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

// ReportFilters compose with logical AND; every field is optional.
type ReportFilters struct {
	Status      string
	ReportType  string
	ContentType string
	Search      string
	Limit       int
	Offset      int
}

// ListReports returns reports newest first. Status, report_type and
// content_type narrow the query; the free-text search is an order-preserving
// scan over the preview, the reporter's username, and the description.
func (s *ReportService) ListReports(f ReportFilters) ([]models.Report, int64, error) {
	query := s.db.Model(&models.Report{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.ReportType != "" {
		query = query.Where("report_type = ?", f.ReportType)
	}
	if f.ContentType != "" {
		query = query.Where("content_type = ?", s.registry.Normalize(f.ContentType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	if err := query.Preload("Reporter").
		Order("created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	if f.Search != "" {
		reports = filterBySearch(reports, f.Search)
		total = int64(len(reports))
	}
	return reports, total, nil
}

func filterBySearch(reports []models.Report, search string) []models.Report {
	needle := strings.ToLower(search)
	matched := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if matchesSearch(&r, needle) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matchesSearch(r *models.Report, needle string) bool {
	if strings.Contains(strings.ToLower(r.ContentPreview), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Reporter.Username), needle) {
		return true
	}
	if r.Description != nil && strings.Contains(strings.ToLower(*r.Description), needle) {
		return true
	}
	return false
}

func (s *ReportService) GetReport(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.Preload("Reporter").First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// ResolveContent builds the best-effort content reference for a report. A nil
// result means the admin UI shows the raw preview instead.
func (s *ReportService) ResolveContent(ctx context.Context, report *models.Report) *content.Reference {
	return s.resolver.Resolve(ctx, report)
}

// ResolveReport applies the terminal keep/delete decision. The conditional
// update on status = pending is the concurrency guard: of two racing callers
// only one flips the row, the other gets ErrAlreadyResolved and applies no
// side effect. The status flip is the source of truth; the content delete is
// best-effort after it, reported through the second return value.
func (s *ReportService) ResolveReport(ctx context.Context, id uuid.UUID, action string) (*models.Report, bool, error) {
	if action != models.ResolutionKeep && action != models.ResolutionDelete {
		return nil, false, errors.New("invalid action: must be keep or delete")
	}

	now := time.Now()
	result := s.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", id, models.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":            models.ReportStatusResolved,
			"resolution_action": action,
			"resolved_at":       now,
		})
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		var existing models.Report
		if err := s.db.First(&existing, "id = ?", id).Error; err != nil {
			return nil, false, ErrReportNotFound
		}
		return nil, false, ErrAlreadyResolved
	}

	report, err := s.GetReport(id)
	if err != nil {
		return nil, false, err
	}

	contentDeleted := false
	if action == models.ResolutionDelete {
		if err := s.resolver.Delete(ctx, report); err != nil {
			slog.Error("content delete failed after report resolution",
				"action", "resolve_report",
				"report_id", report.ID,
				"content_type", report.ContentType,
				"object_id", report.ObjectID,
				"error", err)
		} else {
			contentDeleted = true
		}
	}
	return report, contentDeleted, nil
}
