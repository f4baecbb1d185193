package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-performance-api/internal/models"
	"github.com/noah-isme/class-performance-api/internal/performance"
)

const (
	studentPerformancesQuery = `SELECT s.id, s.full_name AS name, s.email,
        COALESCE(p.average, 0) AS average,
        COALESCE(p.academic_percentage, 0) AS academic_percentage,
        COALESCE(p.attendance_percentage, 0) AS attendance_percentage
        FROM student_subject_performance p
        JOIN students s ON s.id = p.student_id
        WHERE p.subject_code = $1 AND p.professor_id = $2 AND s.archived = FALSE
        ORDER BY s.full_name ASC, s.id ASC`

	activitiesQuery = `SELECT a.id, a.title, a.activity_type, a.status, a.deadline, a.submitted_count, a.total_students
        FROM activities a
        WHERE a.subject_code = $1 AND a.professor_id = $2 AND a.archived = FALSE
        ORDER BY a.deadline ASC NULLS LAST, a.id ASC`

	academicPercentageQuery = `SELECT COALESCE(p.academic_percentage, 0)
        FROM student_subject_performance p
        WHERE p.student_id = $1 AND p.subject_code = $2 AND p.professor_id = $3`

	attendanceDetailQuery = `SELECT
        COALESCE(SUM(CASE WHEN sa.status = 'present' THEN 1 ELSE 0 END), 0) AS present,
        COALESCE(SUM(CASE WHEN sa.status = 'late' THEN 1 ELSE 0 END), 0) AS late,
        COALESCE(SUM(CASE WHEN sa.status = 'absent' THEN 1 ELSE 0 END), 0) AS absent
        FROM student_attendance sa
        WHERE sa.student_id = $1 AND sa.subject_code = $2 AND sa.professor_id = $3`

	activityStatsQuery = `SELECT COUNT(*) AS total,
        COALESCE(SUM(CASE WHEN st.status IN ('submitted', 'completed') THEN 1 ELSE 0 END), 0) AS submitted,
        COALESCE(SUM(CASE WHEN st.status = 'missed' THEN 1 ELSE 0 END), 0) AS missed,
        COALESCE(SUM(CASE WHEN st.status = 'assigned' THEN 1 ELSE 0 END), 0) AS assigned
        FROM student_activities st
        JOIN activities a ON a.id = st.activity_id
        WHERE st.student_id = $1 AND a.subject_code = $2 AND a.professor_id = $3 AND a.archived = FALSE`
)

// PerformanceRepository reads the per-subject snapshots the performance core works on.
type PerformanceRepository struct {
	db *sqlx.DB
}

// NewPerformanceRepository constructs a PerformanceRepository.
func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// StudentPerformances lists every enrolled student's standing for a subject taught by the professor.
func (r *PerformanceRepository) StudentPerformances(ctx context.Context, subjectCode, professorID string) ([]models.StudentPerformanceRecord, error) {
	records := []models.StudentPerformanceRecord{}
	if err := r.db.SelectContext(ctx, &records, studentPerformancesQuery, subjectCode, professorID); err != nil {
		return nil, fmt.Errorf("list student performances: %w", err)
	}
	return records, nil
}

// Activities lists the non-archived activities of a subject.
func (r *PerformanceRepository) Activities(ctx context.Context, subjectCode, professorID string) ([]models.ActivityRecord, error) {
	activities := []models.ActivityRecord{}
	if err := r.db.SelectContext(ctx, &activities, activitiesQuery, subjectCode, professorID); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// StudentDetail assembles attendance, activity counts and academic percentage
// for one student. It returns sql.ErrNoRows (wrapped) when the student has no
// standing in the subject.
func (r *PerformanceRepository) StudentDetail(ctx context.Context, studentID, subjectCode, professorID string) (*models.StudentDetail, error) {
	detail := &models.StudentDetail{StudentID: studentID}

	if err := r.db.GetContext(ctx, &detail.AcademicPercentage, academicPercentageQuery, studentID, subjectCode, professorID); err != nil {
		return nil, fmt.Errorf("get academic percentage: %w", err)
	}
	if err := r.db.GetContext(ctx, &detail.Attendance, attendanceDetailQuery, studentID, subjectCode, professorID); err != nil {
		return nil, fmt.Errorf("get attendance detail: %w", err)
	}
	detail.Attendance.Rate = performance.AttendanceRate(detail.Attendance)

	if err := r.db.GetContext(ctx, &detail.ActivityStats, activityStatsQuery, studentID, subjectCode, professorID); err != nil {
		return nil, fmt.Errorf("get activity stats: %w", err)
	}
	return detail, nil
}
