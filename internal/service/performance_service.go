package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-performance-api/internal/dto"
	"github.com/noah-isme/class-performance-api/internal/models"
	"github.com/noah-isme/class-performance-api/internal/performance"
	appErrors "github.com/noah-isme/class-performance-api/pkg/errors"
	"github.com/noah-isme/class-performance-api/pkg/export"
)

const performanceCachePrefix = "perf"

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

// PerformanceSource describes the persistence layer required by PerformanceService.
type PerformanceSource interface {
	StudentPerformances(ctx context.Context, subjectCode, professorID string) ([]models.StudentPerformanceRecord, error)
	Activities(ctx context.Context, subjectCode, professorID string) ([]models.ActivityRecord, error)
	StudentDetail(ctx context.Context, studentID, subjectCode, professorID string) (*models.StudentDetail, error)
}

type warmupScheduler interface {
	Schedule(subjectCode, professorID string) (string, error)
}

// PerformanceConfig tunes defaults and recommendation rules.
type PerformanceConfig struct {
	CacheTTL    time.Duration
	DefaultTopN int
	Rules       performance.RecommendationRules
}

// PerformanceService composes fetched snapshots with the ranking, summary and recommendation core.
// Every read returns a flag telling whether all snapshots came from cache.
type PerformanceService struct {
	source    PerformanceSource
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    PerformanceConfig
	warmup    warmupScheduler
}

// NewPerformanceService constructs a PerformanceService.
func NewPerformanceService(source PerformanceSource, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config PerformanceConfig) *PerformanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.DefaultTopN <= 0 {
		config.DefaultTopN = 5
	}
	if config.Rules == (performance.RecommendationRules{}) {
		config.Rules = performance.DefaultRules()
	}
	return &PerformanceService{source: source, cache: cache, metrics: metrics, validator: validate, logger: logger, config: config}
}

// SetWarmupScheduler attaches the background warm-up used after a refresh.
func (s *PerformanceService) SetWarmupScheduler(scheduler warmupScheduler) {
	s.warmup = scheduler
}

// Ranking returns the class ordered by average with a status per entry.
func (s *PerformanceService) Ranking(ctx context.Context, session models.Session, req dto.RankingRequest) (*dto.RankingResponse, bool, error) {
	if err := s.validate(req); err != nil {
		return nil, false, err
	}
	professorID, err := s.resolveProfessor(session, req.ProfessorID)
	if err != nil {
		return nil, false, err
	}

	records, hit, err := s.students(ctx, req.SubjectCode, professorID)
	if err != nil {
		return nil, false, err
	}

	direction := req.Direction
	if direction == "" {
		direction = models.SortDesc
	}
	entries := performance.Rank(records, direction)
	if req.Limit > 0 && req.Limit < len(entries) {
		entries = entries[:req.Limit]
	}
	s.metrics.RecordComputation("ranking")

	return &dto.RankingResponse{
		SubjectCode: req.SubjectCode,
		ProfessorID: professorID,
		Direction:   direction,
		Total:       len(records),
		Entries:     entries,
	}, hit, nil
}

// RankingExport renders the ranking as a tabular dataset for CSV download.
func (s *PerformanceService) RankingExport(ctx context.Context, session models.Session, req dto.RankingRequest) (export.Dataset, error) {
	ranking, _, err := s.Ranking(ctx, session, req)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"rank", "student_id", "name", "email", "average", "academic_percentage", "attendance_percentage", "status"},
		Rows:    make([][]string, 0, len(ranking.Entries)),
	}
	for _, entry := range ranking.Entries {
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(entry.Rank),
			entry.Record.ID,
			entry.Record.Name,
			entry.Record.Email,
			formatPercent(entry.Record.Average),
			formatPercent(entry.Record.AcademicPercentage),
			formatPercent(entry.Record.AttendancePercentage),
			string(entry.Status),
		})
	}
	return data, nil
}

// Performers returns the top and bottom n students.
func (s *PerformanceService) Performers(ctx context.Context, session models.Session, req dto.PerformersRequest) (*dto.PerformersResponse, bool, error) {
	if err := s.validate(req); err != nil {
		return nil, false, err
	}
	professorID, err := s.resolveProfessor(session, req.ProfessorID)
	if err != nil {
		return nil, false, err
	}

	records, hit, err := s.students(ctx, req.SubjectCode, professorID)
	if err != nil {
		return nil, false, err
	}

	n := s.config.DefaultTopN
	if req.N != nil {
		n = *req.N
	}
	s.metrics.RecordComputation("performers")

	return &dto.PerformersResponse{
		SubjectCode: req.SubjectCode,
		ProfessorID: professorID,
		N:           n,
		Top:         toPerformerEntries(performance.TopN(records, n)),
		Bottom:      toPerformerEntries(performance.BottomN(records, n)),
	}, hit, nil
}

// ActivitySummary aggregates the subject's activities by status and by type.
func (s *PerformanceService) ActivitySummary(ctx context.Context, session models.Session, req dto.ScopeRequest) (*dto.ActivitySummaryResponse, bool, error) {
	if err := s.validate(req); err != nil {
		return nil, false, err
	}
	professorID, err := s.resolveProfessor(session, req.ProfessorID)
	if err != nil {
		return nil, false, err
	}

	activities, hit, err := s.activities(ctx, req.SubjectCode, professorID)
	if err != nil {
		return nil, false, err
	}

	entries := make([]dto.ActivityEntry, 0, len(activities))
	for _, activity := range activities {
		entries = append(entries, dto.ActivityEntry{Activity: activity, SubmissionRate: performance.SubmissionRate(activity)})
	}
	s.metrics.RecordComputation("activity_summary")

	return &dto.ActivitySummaryResponse{
		SubjectCode: req.SubjectCode,
		ProfessorID: professorID,
		ByStatus:    performance.AggregateByStatus(activities),
		ByType:      performance.AggregateByType(activities),
		Activities:  entries,
	}, hit, nil
}

// Overview combines class-level statistics with the activity aggregates.
func (s *PerformanceService) Overview(ctx context.Context, session models.Session, req dto.ScopeRequest) (*dto.OverviewResponse, bool, error) {
	if err := s.validate(req); err != nil {
		return nil, false, err
	}
	professorID, err := s.resolveProfessor(session, req.ProfessorID)
	if err != nil {
		return nil, false, err
	}

	records, studentsHit, err := s.students(ctx, req.SubjectCode, professorID)
	if err != nil {
		return nil, false, err
	}
	activities, activitiesHit, err := s.activities(ctx, req.SubjectCode, professorID)
	if err != nil {
		return nil, false, err
	}

	average := performance.ClassAverage(records)
	var classStatus models.PerformanceStatus
	if len(records) > 0 {
		classStatus = performance.ClassifyClass(average)
	}
	s.metrics.RecordComputation("overview")

	return &dto.OverviewResponse{
		SubjectCode:  req.SubjectCode,
		ProfessorID:  professorID,
		StudentCount: len(records),
		ClassAverage: average,
		ClassStatus:  classStatus,
		Distribution: performance.StatusDistribution(records),
		Top:          toPerformerEntries(performance.TopN(records, s.config.DefaultTopN)),
		Bottom:       toPerformerEntries(performance.BottomN(records, s.config.DefaultTopN)),
		ByStatus:     performance.AggregateByStatus(activities),
		ByType:       performance.AggregateByType(activities),
	}, studentsHit && activitiesHit, nil
}

// StudentInsight returns one student's standing, detail and recommendation.
// Students may only request their own insight and must name the professor.
func (s *PerformanceService) StudentInsight(ctx context.Context, session models.Session, req dto.StudentInsightRequest) (*dto.StudentInsightResponse, bool, error) {
	if err := s.validate(req); err != nil {
		return nil, false, err
	}
	professorID, err := s.resolveInsightProfessor(session, req)
	if err != nil {
		return nil, false, err
	}

	records, studentsHit, err := s.students(ctx, req.SubjectCode, professorID)
	if err != nil {
		return nil, false, err
	}

	var entry *models.RankedStudent
	ranked := performance.Rank(records, models.SortDesc)
	for i := range ranked {
		if ranked[i].Record.ID == req.StudentID {
			entry = &ranked[i]
			break
		}
	}
	if entry == nil {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "student not found in subject")
	}

	detail, detailHit, err := s.detail(ctx, req.StudentID, req.SubjectCode, professorID)
	if err != nil {
		return nil, false, err
	}
	s.metrics.RecordComputation("student_insight")

	return &dto.StudentInsightResponse{
		SubjectCode:    req.SubjectCode,
		ProfessorID:    professorID,
		Rank:           entry.Rank,
		ClassSize:      len(ranked),
		Status:         entry.Status,
		Record:         entry.Record,
		Detail:         *detail,
		Recommendation: performance.RecommendWith(s.config.Rules, entry.Record.Average, *detail),
	}, studentsHit && detailHit, nil
}

// Refresh drops cached snapshots for the subject and schedules a warm-up when a scheduler is attached.
func (s *PerformanceService) Refresh(ctx context.Context, session models.Session, req dto.ScopeRequest) (*dto.RefreshResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	professorID, err := s.resolveProfessor(session, req.ProfessorID)
	if err != nil {
		return nil, err
	}

	if err := s.Invalidate(ctx, req.SubjectCode); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to invalidate performance cache")
	}

	result := &dto.RefreshResponse{SubjectCode: req.SubjectCode, ProfessorID: professorID}
	if s.warmup != nil {
		jobID, err := s.warmup.Schedule(req.SubjectCode, professorID)
		if err != nil {
			s.logger.Warn("schedule cache warm-up", zap.String("subject_code", req.SubjectCode), zap.Error(err))
		} else {
			result.JobID = jobID
		}
	}
	return result, nil
}

// Invalidate removes every cached snapshot of a subject regardless of professor.
// The subject code is matched literally.
func (s *PerformanceService) Invalidate(ctx context.Context, subjectCode string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, fmt.Sprintf("%s:%s:*", performanceCachePrefix, globEscaper.Replace(subjectCode)))
}

// Warm reloads the class-wide snapshots of a subject into the cache.
func (s *PerformanceService) Warm(ctx context.Context, subjectCode, professorID string) error {
	if _, _, err := s.students(ctx, subjectCode, professorID); err != nil {
		return err
	}
	if _, _, err := s.activities(ctx, subjectCode, professorID); err != nil {
		return err
	}
	return nil
}

func (s *PerformanceService) validate(req interface{}) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid performance query")
	}
	return nil
}

func (s *PerformanceService) resolveProfessor(session models.Session, requested string) (string, error) {
	if !session.Authenticated() {
		return "", appErrors.ErrUnauthorized
	}
	requested = strings.TrimSpace(requested)
	switch {
	case session.Role == models.RoleProfessor:
		if requested != "" && requested != session.UserID {
			return "", appErrors.Clone(appErrors.ErrForbidden, "professors may only view their own classes")
		}
		return session.UserID, nil
	case session.Role.IsStaff():
		if requested == "" {
			return "", appErrors.Clone(appErrors.ErrValidation, "professorId is required")
		}
		return requested, nil
	default:
		return "", appErrors.ErrForbidden
	}
}

func (s *PerformanceService) resolveInsightProfessor(session models.Session, req dto.StudentInsightRequest) (string, error) {
	if session.Authenticated() && session.Role == models.RoleStudent {
		if session.UserID != req.StudentID {
			return "", appErrors.Clone(appErrors.ErrForbidden, "students may only view their own insight")
		}
		professorID := strings.TrimSpace(req.ProfessorID)
		if professorID == "" {
			return "", appErrors.Clone(appErrors.ErrValidation, "professorId is required")
		}
		return professorID, nil
	}
	return s.resolveProfessor(session, req.ProfessorID)
}

func (s *PerformanceService) students(ctx context.Context, subjectCode, professorID string) ([]models.StudentPerformanceRecord, bool, error) {
	key := performanceCacheKey(subjectCode, professorID, "students")
	var cached []models.StudentPerformanceRecord
	if s.lookup(ctx, key, &cached) {
		return cached, true, nil
	}

	start := time.Now()
	records, err := s.source.StudentPerformances(ctx, subjectCode, professorID)
	if err != nil {
		return nil, false, s.sourceError(err, "failed to load student performances")
	}
	s.metrics.ObserveDBQuery("performance_students", time.Since(start))
	s.store(ctx, key, records)
	return records, false, nil
}

func (s *PerformanceService) activities(ctx context.Context, subjectCode, professorID string) ([]models.ActivityRecord, bool, error) {
	key := performanceCacheKey(subjectCode, professorID, "activities")
	var cached []models.ActivityRecord
	if s.lookup(ctx, key, &cached) {
		return cached, true, nil
	}

	start := time.Now()
	activities, err := s.source.Activities(ctx, subjectCode, professorID)
	if err != nil {
		return nil, false, s.sourceError(err, "failed to load activities")
	}
	s.metrics.ObserveDBQuery("performance_activities", time.Since(start))
	s.store(ctx, key, activities)
	return activities, false, nil
}

func (s *PerformanceService) detail(ctx context.Context, studentID, subjectCode, professorID string) (*models.StudentDetail, bool, error) {
	key := performanceCacheKey(subjectCode, professorID, "student", studentID)
	var cached models.StudentDetail
	if s.lookup(ctx, key, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	detail, err := s.source.StudentDetail(ctx, studentID, subjectCode, professorID)
	if err != nil {
		return nil, false, s.sourceError(err, "failed to load student detail")
	}
	if detail == nil {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "student detail not found")
	}
	s.metrics.ObserveDBQuery("performance_student_detail", time.Since(start))
	s.store(ctx, key, detail)
	return detail, false, nil
}

// lookup treats cache backend failures as misses so reads fall through to the source.
func (s *PerformanceService) lookup(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		return false
	}
	return hit
}

func (s *PerformanceService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("cache performance snapshot", zap.String("key", key), zap.Error(err))
	}
}

func (s *PerformanceService) sourceError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "performance data not found")
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func performanceCacheKey(subjectCode, professorID string, parts ...string) string {
	segments := append([]string{performanceCachePrefix, subjectCode, professorID}, parts...)
	return strings.Join(segments, ":")
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func toPerformerEntries(records []models.StudentPerformanceRecord) []dto.PerformerEntry {
	entries := make([]dto.PerformerEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, dto.PerformerEntry{Status: performance.Classify(record.Average), Record: record})
	}
	return entries
}
