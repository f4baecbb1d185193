package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-performance-api/internal/dto"
	"github.com/noah-isme/class-performance-api/internal/middleware"
	"github.com/noah-isme/class-performance-api/internal/models"
	appErrors "github.com/noah-isme/class-performance-api/pkg/errors"
	"github.com/noah-isme/class-performance-api/pkg/export"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakePerformanceSrv struct {
	err          error
	hit          bool
	lastSession  models.Session
	lastRanking  dto.RankingRequest
	lastPerf     dto.PerformersRequest
	lastScope    dto.ScopeRequest
	lastInsight  dto.StudentInsightRequest
	refreshCalls int
}

func (f *fakePerformanceSrv) Ranking(_ context.Context, session models.Session, req dto.RankingRequest) (*dto.RankingResponse, bool, error) {
	f.lastSession, f.lastRanking = session, req
	if f.err != nil {
		return nil, false, f.err
	}
	return &dto.RankingResponse{SubjectCode: req.SubjectCode, Direction: req.Direction}, f.hit, nil
}

func (f *fakePerformanceSrv) RankingExport(_ context.Context, session models.Session, req dto.RankingRequest) (export.Dataset, error) {
	f.lastSession, f.lastRanking = session, req
	if f.err != nil {
		return export.Dataset{}, f.err
	}
	return export.Dataset{Headers: []string{"rank", "student_id"}, Rows: [][]string{{"1", "s2"}}}, nil
}

func (f *fakePerformanceSrv) Performers(_ context.Context, session models.Session, req dto.PerformersRequest) (*dto.PerformersResponse, bool, error) {
	f.lastSession, f.lastPerf = session, req
	if f.err != nil {
		return nil, false, f.err
	}
	return &dto.PerformersResponse{SubjectCode: req.SubjectCode}, f.hit, nil
}

func (f *fakePerformanceSrv) ActivitySummary(_ context.Context, session models.Session, req dto.ScopeRequest) (*dto.ActivitySummaryResponse, bool, error) {
	f.lastSession, f.lastScope = session, req
	if f.err != nil {
		return nil, false, f.err
	}
	return &dto.ActivitySummaryResponse{SubjectCode: req.SubjectCode}, f.hit, nil
}

func (f *fakePerformanceSrv) Overview(_ context.Context, session models.Session, req dto.ScopeRequest) (*dto.OverviewResponse, bool, error) {
	f.lastSession, f.lastScope = session, req
	if f.err != nil {
		return nil, false, f.err
	}
	return &dto.OverviewResponse{SubjectCode: req.SubjectCode, ClassStatus: models.StatusGood}, f.hit, nil
}

func (f *fakePerformanceSrv) StudentInsight(_ context.Context, session models.Session, req dto.StudentInsightRequest) (*dto.StudentInsightResponse, bool, error) {
	f.lastSession, f.lastInsight = session, req
	if f.err != nil {
		return nil, false, f.err
	}
	return &dto.StudentInsightResponse{SubjectCode: req.SubjectCode, Rank: 1}, f.hit, nil
}

func (f *fakePerformanceSrv) Refresh(_ context.Context, session models.Session, req dto.ScopeRequest) (*dto.RefreshResponse, error) {
	f.lastSession, f.lastScope = session, req
	f.refreshCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &dto.RefreshResponse{SubjectCode: req.SubjectCode, JobID: "job-1"}, nil
}

func newPerformanceRouter(srv performanceService, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPerformanceHandler(srv)
	router := gin.New()
	router.Use(middleware.WithResponseMeta(), func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
		c.Next()
	})
	router.GET("/subjects/:subjectCode/ranking", h.Ranking)
	router.GET("/subjects/:subjectCode/ranking/export", h.ExportRanking)
	router.GET("/subjects/:subjectCode/performers", h.Performers)
	router.GET("/subjects/:subjectCode/activities/summary", h.ActivitySummary)
	router.GET("/subjects/:subjectCode/overview", h.Overview)
	router.GET("/subjects/:subjectCode/students/:studentId/insight", h.StudentInsight)
	router.POST("/subjects/:subjectCode/refresh", h.Refresh)
	return router
}

func perform(router *gin.Engine, method, target string, header map[string]string) (*httptest.ResponseRecorder, responseEnvelope) {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	return rec, envelope
}

var professorClaims = &models.JWTClaims{UserID: "prof-1", Role: models.RoleProfessor, Theme: models.ThemeDark}

func TestPerformanceHandlerRanking(t *testing.T) {
	srv := &fakePerformanceSrv{hit: true}
	router := newPerformanceRouter(srv, professorClaims)

	rec, envelope := perform(router, http.MethodGet, "/subjects/MATH101/ranking?direction=ASC&limit=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MATH101", srv.lastRanking.SubjectCode)
	assert.Equal(t, models.SortAsc, srv.lastRanking.Direction)
	assert.Equal(t, 10, srv.lastRanking.Limit)
	assert.Equal(t, "prof-1", srv.lastSession.UserID)
	assert.Equal(t, "MATH101", envelope.Data["subjectCode"])
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, "dark", envelope.Meta["theme"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestPerformanceHandlerRankingRejectsMalformedLimit(t *testing.T) {
	srv := &fakePerformanceSrv{}
	router := newPerformanceRouter(srv, professorClaims)

	rec, envelope := perform(router, http.MethodGet, "/subjects/MATH101/ranking?limit=lots", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error["code"])
	assert.Empty(t, srv.lastRanking.SubjectCode)
}

func TestPerformanceHandlerRequiresSession(t *testing.T) {
	router := newPerformanceRouter(&fakePerformanceSrv{}, nil)

	rec, envelope := perform(router, http.MethodGet, "/subjects/MATH101/overview", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error["code"])
}

func TestPerformanceHandlerPerformersOptionalN(t *testing.T) {
	srv := &fakePerformanceSrv{}
	router := newPerformanceRouter(srv, professorClaims)

	rec, _ := perform(router, http.MethodGet, "/subjects/MATH101/performers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.lastPerf.N)

	rec, _ = perform(router, http.MethodGet, "/subjects/MATH101/performers?n=3&professorId=prof-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastPerf.N)
	assert.Equal(t, 3, *srv.lastPerf.N)
	assert.Equal(t, "prof-1", srv.lastPerf.ProfessorID)
}

func TestPerformanceHandlerScopeEndpoints(t *testing.T) {
	srv := &fakePerformanceSrv{}
	router := newPerformanceRouter(srv, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	rec, _ := perform(router, http.MethodGet, "/subjects/MATH101/activities/summary?professorId=prof-7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.ScopeRequest{SubjectCode: "MATH101", ProfessorID: "prof-7"}, srv.lastScope)

	rec, envelope := perform(router, http.MethodGet, "/subjects/MATH101/overview?professorId=prof-7", map[string]string{middleware.ThemeHeader: "dark"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good", envelope.Data["classStatus"])
	assert.Equal(t, "dark", envelope.Meta["theme"])
	assert.Equal(t, models.ThemeDark, srv.lastSession.Theme)
}

func TestPerformanceHandlerStudentInsight(t *testing.T) {
	srv := &fakePerformanceSrv{}
	router := newPerformanceRouter(srv, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	rec, envelope := perform(router, http.MethodGet, "/subjects/MATH101/students/s1/insight?professorId=prof-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.StudentInsightRequest{SubjectCode: "MATH101", StudentID: "s1", ProfessorID: "prof-1"}, srv.lastInsight)
	assert.Equal(t, float64(1), envelope.Data["rank"])
	assert.Equal(t, "light", envelope.Meta["theme"])
}

func TestPerformanceHandlerPropagatesServiceErrors(t *testing.T) {
	srv := &fakePerformanceSrv{err: appErrors.Clone(appErrors.ErrNotFound, "student not found in subject")}
	router := newPerformanceRouter(srv, professorClaims)

	rec, envelope := perform(router, http.MethodGet, "/subjects/MATH101/students/ghost/insight", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "student not found in subject", envelope.Error["message"])

	srv.err = errors.New("boom")
	rec, envelope = perform(router, http.MethodGet, "/subjects/MATH101/ranking", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error["code"])
}

func TestPerformanceHandlerRefresh(t *testing.T) {
	srv := &fakePerformanceSrv{}
	router := newPerformanceRouter(srv, professorClaims)

	rec, envelope := perform(router, http.MethodPost, "/subjects/MATH101/refresh", nil)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, srv.refreshCalls)
	assert.Equal(t, "job-1", envelope.Data["jobId"])
}

func TestPerformanceHandlerWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPerformanceHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/subjects/MATH101/ranking", nil)

	h.Ranking(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPerformanceHandlerExportRanking(t *testing.T) {
	srv := &fakePerformanceSrv{}
	router := newPerformanceRouter(srv, professorClaims)

	rec, _ := perform(router, http.MethodGet, "/subjects/MATH101/ranking/export?direction=desc", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeCSV, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ranking-MATH101.csv")
	assert.Equal(t, "rank,student_id\n1,s2\n", rec.Body.String())
	assert.Equal(t, models.SortDesc, srv.lastRanking.Direction)
}

func TestPerformanceHandlerExportRankingError(t *testing.T) {
	srv := &fakePerformanceSrv{err: appErrors.ErrForbidden}
	router := newPerformanceRouter(srv, professorClaims)

	rec, envelope := perform(router, http.MethodGet, "/subjects/MATH101/ranking/export", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", envelope.Error["code"])
}
