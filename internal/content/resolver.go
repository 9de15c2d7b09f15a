package content

import (
	"context"
	"log/slog"

	"github.com/platebook/platebook-backend/internal/models"
)

// Resolver turns a stored report into the full view of the content it
// targets, and dispatches moderation deletes to the owning service.
type Resolver struct {
	client   *Client
	registry *Registry
}

func NewResolver(client *Client, registry *Registry) *Resolver {
	return &Resolver{client: client, registry: registry}
}

// Resolve returns the content reference for a report, or nil when the target
// cannot be reconstructed (unknown kind, unrecoverable parent, missing
// object, transport failure). It never returns an error: callers fall back to
// the raw content preview.
func (r *Resolver) Resolve(ctx context.Context, report *models.Report) *Reference {
	entry, ok := r.registry.Lookup(report.ContentType)
	if !ok {
		slog.Warn("report has unknown content type",
			"report_id", report.ID, "content_type", report.ContentType)
		return nil
	}

	var ref *Reference
	var err error
	if entry.Indirect {
		parentID, found := r.parentOf(entry, report)
		if !found {
			slog.Warn("parent id unrecoverable from report",
				"report_id", report.ID, "content_type", report.ContentType,
				"preview", report.ContentPreview)
			return nil
		}
		ref, err = entry.fetchChild(ctx, r.client, parentID, report.ObjectID)
	} else {
		ref, err = entry.fetch(ctx, r.client, report.ObjectID)
	}

	if err != nil {
		slog.Warn("content resolution failed",
			"report_id", report.ID, "content_type", report.ContentType,
			"object_id", report.ObjectID, "error", err)
		return nil
	}
	return ref
}

// Delete removes the report's target from the owning content service. A
// target that is already gone counts as success.
func (r *Resolver) Delete(ctx context.Context, report *models.Report) error {
	entry, ok := r.registry.Lookup(report.ContentType)
	if !ok {
		return ErrNotFound
	}

	var parentID *int64
	if entry.Indirect {
		if pid, found := r.parentOf(entry, report); found {
			parentID = &pid
		}
	}
	return entry.remove(ctx, r.client, parentID, report.ObjectID)
}

// parentOf prefers the structured parent reference written at intake and only
// then falls back to the fixed pattern over the preview text.
func (r *Resolver) parentOf(entry *Entry, report *models.Report) (int64, bool) {
	if report.ParentID != nil {
		return *report.ParentID, true
	}
	return entry.RecoverParentID(report.ContentPreview)
}
