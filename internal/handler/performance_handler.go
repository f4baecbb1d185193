package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-performance-api/internal/dto"
	"github.com/noah-isme/class-performance-api/internal/models"
	appErrors "github.com/noah-isme/class-performance-api/pkg/errors"
	"github.com/noah-isme/class-performance-api/pkg/export"
	"github.com/noah-isme/class-performance-api/pkg/response"
)

type performanceService interface {
	Ranking(ctx context.Context, session models.Session, req dto.RankingRequest) (*dto.RankingResponse, bool, error)
	RankingExport(ctx context.Context, session models.Session, req dto.RankingRequest) (export.Dataset, error)
	Performers(ctx context.Context, session models.Session, req dto.PerformersRequest) (*dto.PerformersResponse, bool, error)
	ActivitySummary(ctx context.Context, session models.Session, req dto.ScopeRequest) (*dto.ActivitySummaryResponse, bool, error)
	Overview(ctx context.Context, session models.Session, req dto.ScopeRequest) (*dto.OverviewResponse, bool, error)
	StudentInsight(ctx context.Context, session models.Session, req dto.StudentInsightRequest) (*dto.StudentInsightResponse, bool, error)
	Refresh(ctx context.Context, session models.Session, req dto.ScopeRequest) (*dto.RefreshResponse, error)
}

// PerformanceHandler exposes class performance views.
type PerformanceHandler struct {
	service performanceService
}

// NewPerformanceHandler constructs the handler.
func NewPerformanceHandler(service performanceService) *PerformanceHandler {
	return &PerformanceHandler{service: service}
}

// Ranking godoc
// @Summary Class ranking by average
// @Tags Performance
// @Produce json
// @Param subjectCode path string true "Subject code"
// @Param direction query string false "asc or desc (default desc)"
// @Param limit query int false "Maximum entries (0 = all)"
// @Param professorId query string false "Professor scope, required for admins"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /subjects/{subjectCode}/ranking [get]
func (h *PerformanceHandler) Ranking(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session, ok := requireSession(c)
	if !ok {
		return
	}
	var req dto.RankingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	req.SubjectCode = subjectCode(c)
	req.Direction = models.SortDirection(strings.ToLower(string(req.Direction)))

	start := time.Now()
	result, cacheHit, err := h.service.Ranking(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, result, cacheHit, session, start)
}

// ExportRanking godoc
// @Summary Download the class ranking as CSV
// @Tags Performance
// @Produce text/csv
// @Param subjectCode path string true "Subject code"
// @Param direction query string false "asc or desc (default desc)"
// @Param limit query int false "Maximum entries (0 = all)"
// @Param professorId query string false "Professor scope, required for admins"
// @Success 200 {file} file
// @Router /subjects/{subjectCode}/ranking/export [get]
func (h *PerformanceHandler) ExportRanking(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session, ok := requireSession(c)
	if !ok {
		return
	}
	var req dto.RankingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	req.SubjectCode = subjectCode(c)
	req.Direction = models.SortDirection(strings.ToLower(string(req.Direction)))

	data, err := h.service.RankingExport(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Type", export.ContentTypeCSV)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "ranking-"+req.SubjectCode+".csv"))
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}

// Performers godoc
// @Summary Top and bottom performers
// @Tags Performance
// @Produce json
// @Param subjectCode path string true "Subject code"
// @Param n query int false "Number of students per list"
// @Param professorId query string false "Professor scope, required for admins"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectCode}/performers [get]
func (h *PerformanceHandler) Performers(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session, ok := requireSession(c)
	if !ok {
		return
	}
	var req dto.PerformersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	req.SubjectCode = subjectCode(c)

	start := time.Now()
	result, cacheHit, err := h.service.Performers(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, result, cacheHit, session, start)
}

// ActivitySummary godoc
// @Summary Activity aggregates by status and type
// @Tags Performance
// @Produce json
// @Param subjectCode path string true "Subject code"
// @Param professorId query string false "Professor scope, required for admins"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectCode}/activities/summary [get]
func (h *PerformanceHandler) ActivitySummary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session, ok := requireSession(c)
	if !ok {
		return
	}
	req := scopeRequest(c)

	start := time.Now()
	result, cacheHit, err := h.service.ActivitySummary(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, result, cacheHit, session, start)
}

// Overview godoc
// @Summary Class overview
// @Tags Performance
// @Produce json
// @Param subjectCode path string true "Subject code"
// @Param professorId query string false "Professor scope, required for admins"
// @Success 200 {object} response.Envelope
// @Router /subjects/{subjectCode}/overview [get]
func (h *PerformanceHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session, ok := requireSession(c)
	if !ok {
		return
	}
	req := scopeRequest(c)

	start := time.Now()
	result, cacheHit, err := h.service.Overview(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, result, cacheHit, session, start)
}

// StudentInsight godoc
// @Summary Student insight with recommendations
// @Tags Performance
// @Produce json
// @Param subjectCode path string true "Subject code"
// @Param studentId path string true "Student ID"
// @Param professorId query string false "Professor scope, required for admins and students"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{subjectCode}/students/{studentId}/insight [get]
func (h *PerformanceHandler) StudentInsight(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session, ok := requireSession(c)
	if !ok {
		return
	}
	req := dto.StudentInsightRequest{
		SubjectCode: subjectCode(c),
		StudentID:   strings.TrimSpace(c.Param("studentId")),
		ProfessorID: strings.TrimSpace(c.Query("professorId")),
	}

	start := time.Now()
	result, cacheHit, err := h.service.StudentInsight(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, http.StatusOK, result, cacheHit, session, start)
}

// Refresh godoc
// @Summary Invalidate cached performance data and schedule a warm-up
// @Tags Performance
// @Produce json
// @Param subjectCode path string true "Subject code"
// @Param professorId query string false "Professor scope, required for admins"
// @Success 202 {object} response.Envelope
// @Router /subjects/{subjectCode}/refresh [post]
func (h *PerformanceHandler) Refresh(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session, ok := requireSession(c)
	if !ok {
		return
	}
	result, err := h.service.Refresh(c.Request.Context(), session, scopeRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

func subjectCode(c *gin.Context) string {
	return strings.TrimSpace(c.Param("subjectCode"))
}

func scopeRequest(c *gin.Context) dto.ScopeRequest {
	return dto.ScopeRequest{
		SubjectCode: subjectCode(c),
		ProfessorID: strings.TrimSpace(c.Query("professorId")),
	}
}
