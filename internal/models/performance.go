package models

import "time"

// PerformanceStatus is the bucket a student's average falls into.
type PerformanceStatus string

const (
	StatusExcellent        PerformanceStatus = "excellent"
	StatusGood             PerformanceStatus = "good"
	StatusNeedsImprovement PerformanceStatus = "needs-improvement"
	StatusAtRisk           PerformanceStatus = "at-risk"
)

// PerformanceStatuses lists buckets from best to worst.
var PerformanceStatuses = []PerformanceStatus{StatusExcellent, StatusGood, StatusNeedsImprovement, StatusAtRisk}

// SortDirection orders ranking output.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ActivityType categorises coursework.
type ActivityType string

const (
	ActivityTypeAssignment ActivityType = "Assignment"
	ActivityTypeQuiz       ActivityType = "Quiz"
	ActivityTypeActivity   ActivityType = "Activity"
	ActivityTypeProject    ActivityType = "Project"
	ActivityTypeLaboratory ActivityType = "Laboratory"
	ActivityTypeExam       ActivityType = "Exam"
	ActivityTypeRemedial   ActivityType = "Remedial"
)

// ActivityStatus is the lifecycle state of an activity as seen by the professor.
type ActivityStatus string

const (
	ActivityStatusSubmitted  ActivityStatus = "submitted"
	ActivityStatusCompleted  ActivityStatus = "completed"
	ActivityStatusAssigned   ActivityStatus = "assigned"
	ActivityStatusIncomplete ActivityStatus = "incomplete"
	ActivityStatusMissed     ActivityStatus = "missed"
)

// Valid returns true when the status is a supported value.
func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityStatusSubmitted, ActivityStatusCompleted, ActivityStatusAssigned, ActivityStatusIncomplete, ActivityStatusMissed:
		return true
	default:
		return false
	}
}

// StudentPerformanceRecord is a student's standing in one subject.
type StudentPerformanceRecord struct {
	ID                   string  `db:"id" json:"id"`
	Name                 string  `db:"name" json:"name"`
	Email                string  `db:"email" json:"email"`
	Average              float64 `db:"average" json:"average"`
	AcademicPercentage   float64 `db:"academic_percentage" json:"academic_percentage"`
	AttendancePercentage float64 `db:"attendance_percentage" json:"attendance_percentage"`
}

// ActivityRecord is a single piece of coursework for a subject.
type ActivityRecord struct {
	ID             string         `db:"id" json:"id"`
	Title          string         `db:"title" json:"title"`
	ActivityType   ActivityType   `db:"activity_type" json:"activity_type"`
	Status         ActivityStatus `db:"status" json:"status"`
	Deadline       *time.Time     `db:"deadline" json:"deadline,omitempty"`
	SubmittedCount int            `db:"submitted_count" json:"submitted_count"`
	TotalStudents  int            `db:"total_students" json:"total_students"`
}

// AttendanceDetail summarises a student's attendance in a subject.
type AttendanceDetail struct {
	Present int     `db:"present" json:"present"`
	Late    int     `db:"late" json:"late"`
	Absent  int     `db:"absent" json:"absent"`
	Rate    float64 `db:"-" json:"rate"`
}

// ActivityStats counts a student's activities by outcome.
type ActivityStats struct {
	Total     int `db:"total" json:"total"`
	Submitted int `db:"submitted" json:"submitted"`
	Missed    int `db:"missed" json:"missed"`
	Assigned  int `db:"assigned" json:"assigned"`
}

// StudentDetail is the per-student drill-down used by recommendations.
type StudentDetail struct {
	StudentID          string           `json:"student_id"`
	Attendance         AttendanceDetail `json:"attendance"`
	ActivityStats      ActivityStats    `json:"activity_stats"`
	AcademicPercentage float64          `json:"academic_percentage"`
}

// ActivityStatusSummary aggregates activities by status. Completed counts as submitted.
type ActivityStatusSummary struct {
	Total      int `json:"total"`
	Submitted  int `json:"submitted"`
	Assigned   int `json:"assigned"`
	Incomplete int `json:"incomplete"`
	Missed     int `json:"missed"`
}

// RecommendationActions flags suggested professor interventions.
type RecommendationActions struct {
	Email          bool `json:"email"`
	Remedial       bool `json:"remedial"`
	ExtendDeadline bool `json:"extend_deadline"`
	Materials      bool `json:"materials"`
}

// Recommendation is advisory output for a single student.
type Recommendation struct {
	Messages []string              `json:"messages"`
	Actions  RecommendationActions `json:"actions"`
}

// RankedStudent is a record annotated with its position and status bucket.
type RankedStudent struct {
	Rank   int                      `json:"rank"`
	Status PerformanceStatus        `json:"status"`
	Record StudentPerformanceRecord `json:"record"`
}
