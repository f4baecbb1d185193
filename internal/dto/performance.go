package dto

import "github.com/noah-isme/class-performance-api/internal/models"

// MaxListSize bounds limit and n query parameters.
const MaxListSize = 500

// ScopeRequest identifies the subject and professor a view is computed for.
// ProfessorID is only honoured for staff roles; professors are scoped to themselves.
// Identifiers become cache key segments, so glob metacharacters and colons are rejected.
type ScopeRequest struct {
	SubjectCode string `form:"-" validate:"required,max=64,excludesall=*?[]:\\"`
	ProfessorID string `form:"professorId" validate:"omitempty,max=64,excludesall=*?[]:\\"`
}

// RankingRequest captures GET /subjects/:subjectCode/ranking.
type RankingRequest struct {
	SubjectCode string               `form:"-" validate:"required,max=64,excludesall=*?[]:\\"`
	ProfessorID string               `form:"professorId" validate:"omitempty,max=64,excludesall=*?[]:\\"`
	Direction   models.SortDirection `form:"direction" validate:"omitempty,oneof=asc desc"`
	Limit       int                  `form:"limit" validate:"gte=0,lte=500"`
}

// PerformersRequest captures GET /subjects/:subjectCode/performers. A nil N falls back to the configured default.
type PerformersRequest struct {
	SubjectCode string `form:"-" validate:"required,max=64,excludesall=*?[]:\\"`
	ProfessorID string `form:"professorId" validate:"omitempty,max=64,excludesall=*?[]:\\"`
	N           *int   `form:"n" validate:"omitempty,gte=0,lte=500"`
}

// StudentInsightRequest captures GET /subjects/:subjectCode/students/:studentId/insight.
type StudentInsightRequest struct {
	SubjectCode string `form:"-" validate:"required,max=64,excludesall=*?[]:\\"`
	StudentID   string `form:"-" validate:"required,max=64,excludesall=*?[]:\\"`
	ProfessorID string `form:"professorId" validate:"omitempty,max=64,excludesall=*?[]:\\"`
}

// RankingResponse is the ranked class list.
type RankingResponse struct {
	SubjectCode string                 `json:"subjectCode"`
	ProfessorID string                 `json:"professorId"`
	Direction   models.SortDirection   `json:"direction"`
	Total       int                    `json:"total"`
	Entries     []models.RankedStudent `json:"entries"`
}

// PerformerEntry is a student with its status bucket.
type PerformerEntry struct {
	Status models.PerformanceStatus        `json:"status"`
	Record models.StudentPerformanceRecord `json:"record"`
}

// PerformersResponse lists the strongest and weakest students, weakest first in Bottom.
type PerformersResponse struct {
	SubjectCode string           `json:"subjectCode"`
	ProfessorID string           `json:"professorId"`
	N           int              `json:"n"`
	Top         []PerformerEntry `json:"top"`
	Bottom      []PerformerEntry `json:"bottom"`
}

// ActivityEntry is an activity with its submission rate.
type ActivityEntry struct {
	Activity       models.ActivityRecord `json:"activity"`
	SubmissionRate float64               `json:"submissionRate"`
}

// ActivitySummaryResponse aggregates a subject's activities.
type ActivitySummaryResponse struct {
	SubjectCode string                       `json:"subjectCode"`
	ProfessorID string                       `json:"professorId"`
	ByStatus    models.ActivityStatusSummary `json:"byStatus"`
	ByType      map[models.ActivityType]int  `json:"byType"`
	Activities  []ActivityEntry              `json:"activities"`
}

// OverviewResponse is the class-level dashboard card. ClassStatus is omitted
// for a class with no students.
type OverviewResponse struct {
	SubjectCode  string                           `json:"subjectCode"`
	ProfessorID  string                           `json:"professorId"`
	StudentCount int                              `json:"studentCount"`
	ClassAverage float64                          `json:"classAverage"`
	ClassStatus  models.PerformanceStatus         `json:"classStatus,omitempty"`
	Distribution map[models.PerformanceStatus]int `json:"distribution"`
	Top          []PerformerEntry                 `json:"top"`
	Bottom       []PerformerEntry                 `json:"bottom"`
	ByStatus     models.ActivityStatusSummary     `json:"activitiesByStatus"`
	ByType       map[models.ActivityType]int      `json:"activitiesByType"`
}

// StudentInsightResponse is the per-student drill-down with recommendations.
type StudentInsightResponse struct {
	SubjectCode    string                          `json:"subjectCode"`
	ProfessorID    string                          `json:"professorId"`
	Rank           int                             `json:"rank"`
	ClassSize      int                             `json:"classSize"`
	Status         models.PerformanceStatus        `json:"status"`
	Record         models.StudentPerformanceRecord `json:"record"`
	Detail         models.StudentDetail            `json:"detail"`
	Recommendation models.Recommendation           `json:"recommendation"`
}

// RefreshResponse acknowledges a cache refresh.
type RefreshResponse struct {
	SubjectCode string `json:"subjectCode"`
	ProfessorID string `json:"professorId"`
	JobID       string `json:"jobId,omitempty"`
}
