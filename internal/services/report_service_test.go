package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jarcoal/httpmock"
	"github.com/platebook/platebook-backend/internal/config"
	"github.com/platebook/platebook-backend/internal/content"
	"github.com/platebook/platebook-backend/internal/dto"
	"github.com/platebook/platebook-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Report{},
	))
	return db
}

func setupReportService(t *testing.T) (*ReportService, *gorm.DB) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	db := setupTestDB(t)
	client := content.NewClient(&config.Config{
		ForumServiceURL:  "http://forum.test",
		QAServiceURL:     "http://qa.test",
		RecipeServiceURL: "http://recipes.test",
		UserServiceURL:   "http://users.test",
		ContentTimeout:   2 * time.Second,
		ContentPageSize:  100,
	})
	registry := content.NewRegistry()
	return NewReportService(db, registry, content.NewResolver(client, registry)), db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     "user",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestCreateReport_Pending(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	report, err := svc.CreateReport(reporter.ID, &dto.CreateReportRequest{
		ContentType:    "recipe",
		ObjectID:       5,
		ReportType:     "spam",
		Description:    "obvious ad",
		ContentPreview: "Lentil soup",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusPending, report.Status)
	assert.False(t, report.CreatedAt.IsZero())
	assert.Nil(t, report.ResolutionAction)
	require.NotNil(t, report.Description)
	assert.Equal(t, "obvious ad", *report.Description)
}

func TestCreateReport_AliasNormalized(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	report, err := svc.CreateReport(reporter.ID, &dto.CreateReportRequest{
		ContentType: "comment",
		ObjectID:    42,
		ReportType:  "spam",
	})
	require.NoError(t, err)
	assert.Equal(t, "postcomment", report.ContentType)
}

func TestCreateReport_EmptyDescriptionOmitted(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	created, err := svc.CreateReport(reporter.ID, &dto.CreateReportRequest{
		ContentType: "post",
		ObjectID:    1,
		ReportType:  "other",
		Description: "   ",
	})
	require.NoError(t, err)

	fetched, err := svc.GetReport(created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Description)
}

func TestCreateReport_Validation(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	tests := []struct {
		name string
		req  dto.CreateReportRequest
	}{
		{"unknown content type", dto.CreateReportRequest{ContentType: "mealplan", ObjectID: 1, ReportType: "spam"}},
		{"missing object id", dto.CreateReportRequest{ContentType: "post", ReportType: "spam"}},
		{"invalid report type", dto.CreateReportRequest{ContentType: "post", ObjectID: 1, ReportType: "rude"}},
		{"missing report type", dto.CreateReportRequest{ContentType: "post", ObjectID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReport(reporter.ID, &tt.req)
			assert.Error(t, err)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Report{}).Count(&count).Error)
	assert.Zero(t, count, "no report rows should be written on validation failure")
}

func TestCreateReport_NoDedup(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	req := dto.CreateReportRequest{ContentType: "recipe", ObjectID: 5, ReportType: "spam"}
	_, err := svc.CreateReport(reporter.ID, &req)
	require.NoError(t, err)
	_, err = svc.CreateReport(reporter.ID, &req)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Report{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func seedReports(t *testing.T, svc *ReportService, db *gorm.DB) {
	t.Helper()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	seed := []struct {
		reporter    *models.User
		contentType string
		objectID    int64
		reportType  string
		preview     string
		description string
	}{
		{alice, "post", 1, "spam", "Crockpot hacks", "link farm"},
		{bob, "recipe", 5, "spam", "Lentil soup", ""},
		{alice, "comment", 42, "harassment", "Comment by bob on Post 7", "personal attack"},
		{bob, "question", 3, "other", "Substitute for eggs?", ""},
	}
	for i, s := range seed {
		report, err := svc.CreateReport(s.reporter.ID, &dto.CreateReportRequest{
			ContentType:    s.contentType,
			ObjectID:       s.objectID,
			ReportType:     s.reportType,
			Description:    s.description,
			ContentPreview: s.preview,
		})
		require.NoError(t, err)
		// Distinct timestamps so the newest-first order is deterministic.
		created := time.Date(2026, 8, 1, 12, i, 0, 0, time.UTC)
		require.NoError(t, db.Model(report).Update("created_at", created).Error)
	}
}

func TestListReports_NoFilters(t *testing.T) {
	svc, db := setupReportService(t)
	seedReports(t, svc, db)

	reports, total, err := svc.ListReports(ReportFilters{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, reports, 4)
	// Newest first.
	assert.Equal(t, "Substitute for eggs?", reports[0].ContentPreview)
	assert.Equal(t, "Crockpot hacks", reports[3].ContentPreview)
	// Reporter preloaded for the search surface.
	assert.Equal(t, "bob", reports[0].Reporter.Username)
}

func TestListReports_FilterComposition(t *testing.T) {
	svc, db := setupReportService(t)
	seedReports(t, svc, db)

	combined, _, err := svc.ListReports(ReportFilters{
		Status:     models.ReportStatusPending,
		ReportType: "spam",
		Limit:      20,
	})
	require.NoError(t, err)

	// Composing the same filters one at a time yields the same set.
	byType, _, err := svc.ListReports(ReportFilters{ReportType: "spam", Limit: 20})
	require.NoError(t, err)
	sequential := make([]models.Report, 0, len(byType))
	for _, r := range byType {
		if r.Status == models.ReportStatusPending {
			sequential = append(sequential, r)
		}
	}

	require.Len(t, combined, 2)
	require.Len(t, sequential, 2)
	for i := range combined {
		assert.Equal(t, sequential[i].ID, combined[i].ID)
	}
}

func TestListReports_ContentTypeAlias(t *testing.T) {
	svc, db := setupReportService(t)
	seedReports(t, svc, db)

	reports, _, err := svc.ListReports(ReportFilters{ContentType: "comment", Limit: 20})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "postcomment", reports[0].ContentType)
}

func TestListReports_Search(t *testing.T) {
	svc, db := setupReportService(t)
	seedReports(t, svc, db)

	// Case-insensitive match against the preview.
	reports, total, err := svc.ListReports(ReportFilters{Search: "LENTIL", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reports, 1)
	assert.Equal(t, "Lentil soup", reports[0].ContentPreview)

	// Match against the reporter's username.
	reports, _, err = svc.ListReports(ReportFilters{Search: "alice", Limit: 20})
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	// Match against the description.
	reports, _, err = svc.ListReports(ReportFilters{Search: "link farm", Limit: 20})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Crockpot hacks", reports[0].ContentPreview)

	// Order of the underlying list is preserved.
	reports, _, err = svc.ListReports(ReportFilters{Search: "a", Limit: 20})
	require.NoError(t, err)
	for i := 1; i < len(reports); i++ {
		assert.False(t, reports[i].CreatedAt.After(reports[i-1].CreatedAt))
	}
}

func TestResolveReport_Keep(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	created, err := svc.CreateReport(reporter.ID, &dto.CreateReportRequest{
		ContentType: "post", ObjectID: 1, ReportType: "spam",
	})
	require.NoError(t, err)

	report, contentDeleted, err := svc.ResolveReport(context.Background(), created.ID, "keep")
	require.NoError(t, err)
	assert.False(t, contentDeleted)
	assert.Equal(t, models.ReportStatusResolved, report.Status)
	require.NotNil(t, report.ResolutionAction)
	assert.Equal(t, models.ResolutionKeep, *report.ResolutionAction)
	assert.NotNil(t, report.ResolvedAt)

	// No outbound content-service call on keep.
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestResolveReport_SecondCallConflicts(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	httpmock.RegisterResponder(http.MethodDelete, "http://recipes.test/recipes/5",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	created, err := svc.CreateReport(reporter.ID, &dto.CreateReportRequest{
		ContentType: "recipe", ObjectID: 5, ReportType: "spam",
	})
	require.NoError(t, err)

	report, contentDeleted, err := svc.ResolveReport(context.Background(), created.ID, "delete")
	require.NoError(t, err)
	assert.True(t, contentDeleted)
	assert.Equal(t, models.ReportStatusResolved, report.Status)
	require.NotNil(t, report.ResolutionAction)
	assert.Equal(t, models.ResolutionDelete, *report.ResolutionAction)

	// The guard rejects the second call and must not re-issue the delete.
	_, _, err = svc.ResolveReport(context.Background(), created.ID, "delete")
	require.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestResolveReport_DeleteGoneTarget(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	httpmock.RegisterResponder(http.MethodDelete, "http://recipes.test/recipes/5",
		httpmock.NewStringResponder(http.StatusNotFound, ""))

	created, err := svc.CreateReport(reporter.ID, &dto.CreateReportRequest{
		ContentType: "recipe", ObjectID: 5, ReportType: "spam",
	})
	require.NoError(t, err)

	// Already-deleted content is not a hard failure; the report resolves.
	report, contentDeleted, err := svc.ResolveReport(context.Background(), created.ID, "delete")
	require.NoError(t, err)
	assert.True(t, contentDeleted)
	assert.Equal(t, models.ReportStatusResolved, report.Status)
}

func TestResolveReport_DeleteFailureKeepsResolution(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	httpmock.RegisterResponder(http.MethodDelete, "http://recipes.test/recipes/5",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	created, err := svc.CreateReport(reporter.ID, &dto.CreateReportRequest{
		ContentType: "recipe", ObjectID: 5, ReportType: "spam",
	})
	require.NoError(t, err)

	// Status is the source of truth: the flip sticks, the failed delete is
	// reported for an out-of-band retry.
	report, contentDeleted, err := svc.ResolveReport(context.Background(), created.ID, "delete")
	require.NoError(t, err)
	assert.False(t, contentDeleted)
	assert.Equal(t, models.ReportStatusResolved, report.Status)
}

func TestResolveReport_NotFound(t *testing.T) {
	svc, _ := setupReportService(t)

	_, _, err := svc.ResolveReport(context.Background(), uuid.New(), "keep")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestResolveReport_InvalidAction(t *testing.T) {
	svc, db := setupReportService(t)
	reporter := createTestUser(t, db, "alice")

	created, err := svc.CreateReport(reporter.ID, &dto.CreateReportRequest{
		ContentType: "post", ObjectID: 1, ReportType: "spam",
	})
	require.NoError(t, err)

	_, _, err = svc.ResolveReport(context.Background(), created.ID, "dismiss")
	require.Error(t, err)

	fetched, err := svc.GetReport(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, fetched.Status)
}
