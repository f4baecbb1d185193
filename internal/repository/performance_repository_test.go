package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-performance-api/internal/models"
)

func newPerformanceMock(t *testing.T) (*PerformanceRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPerformanceRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestPerformanceRepositoryStudentPerformances(t *testing.T) {
	repo, mock, cleanup := newPerformanceMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "average", "academic_percentage", "attendance_percentage"}).
		AddRow("stu-1", "Ana", "ana@example.edu", 91.5, 90.0, 96.0).
		AddRow("stu-2", "Ben", "ben@example.edu", 64.0, 61.0, 70.0)
	mock.ExpectQuery(`FROM student_subject_performance p\s+JOIN students s`).
		WithArgs("MATH101", "prof-1").
		WillReturnRows(rows)

	records, err := repo.StudentPerformances(context.Background(), "MATH101", "prof-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.StudentPerformanceRecord{
		ID: "stu-1", Name: "Ana", Email: "ana@example.edu", Average: 91.5, AcademicPercentage: 90, AttendancePercentage: 96,
	}, records[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryStudentPerformancesEmpty(t *testing.T) {
	repo, mock, cleanup := newPerformanceMock(t)
	defer cleanup()

	mock.ExpectQuery(`FROM student_subject_performance p`).
		WithArgs("MATH101", "prof-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "average", "academic_percentage", "attendance_percentage"}))

	records, err := repo.StudentPerformances(context.Background(), "MATH101", "prof-1")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestPerformanceRepositoryActivities(t *testing.T) {
	repo, mock, cleanup := newPerformanceMock(t)
	defer cleanup()

	deadline := time.Date(2024, 10, 1, 23, 59, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "activity_type", "status", "deadline", "submitted_count", "total_students"}).
		AddRow("act-1", "Quiz 1", "Quiz", "completed", deadline, 28, 30).
		AddRow("act-2", "Lab 1", "Laboratory", "assigned", nil, 0, 30)
	mock.ExpectQuery(`FROM activities a\s+WHERE a.subject_code = \$1 AND a.professor_id = \$2 AND a.archived = FALSE`).
		WithArgs("MATH101", "prof-1").
		WillReturnRows(rows)

	activities, err := repo.Activities(context.Background(), "MATH101", "prof-1")
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, models.ActivityTypeQuiz, activities[0].ActivityType)
	assert.Equal(t, models.ActivityStatusCompleted, activities[0].Status)
	require.NotNil(t, activities[0].Deadline)
	assert.True(t, deadline.Equal(*activities[0].Deadline))
	assert.Nil(t, activities[1].Deadline)
	assert.Equal(t, 30, activities[1].TotalStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryActivitiesError(t *testing.T) {
	repo, mock, cleanup := newPerformanceMock(t)
	defer cleanup()

	mock.ExpectQuery(`FROM activities a`).WillReturnError(errors.New("connection reset"))

	_, err := repo.Activities(context.Background(), "MATH101", "prof-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list activities")
}

func TestPerformanceRepositoryStudentDetail(t *testing.T) {
	repo, mock, cleanup := newPerformanceMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COALESCE\(p.academic_percentage, 0\)`).
		WithArgs("stu-1", "MATH101", "prof-1").
		WillReturnRows(sqlmock.NewRows([]string{"academic_percentage"}).AddRow(82.5))
	mock.ExpectQuery(`FROM student_attendance sa`).
		WithArgs("stu-1", "MATH101", "prof-1").
		WillReturnRows(sqlmock.NewRows([]string{"present", "late", "absent"}).AddRow(14, 2, 4))
	mock.ExpectQuery(`FROM student_activities st`).
		WithArgs("stu-1", "MATH101", "prof-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "submitted", "missed", "assigned"}).AddRow(10, 6, 3, 1))

	detail, err := repo.StudentDetail(context.Background(), "stu-1", "MATH101", "prof-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", detail.StudentID)
	assert.Equal(t, 82.5, detail.AcademicPercentage)
	assert.Equal(t, 4, detail.Attendance.Absent)
	assert.InDelta(t, 80.0, detail.Attendance.Rate, 0.0001)
	assert.Equal(t, models.ActivityStats{Total: 10, Submitted: 6, Missed: 3, Assigned: 1}, detail.ActivityStats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryStudentDetailNotFound(t *testing.T) {
	repo, mock, cleanup := newPerformanceMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COALESCE\(p.academic_percentage, 0\)`).
		WithArgs("ghost", "MATH101", "prof-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.StudentDetail(context.Background(), "ghost", "MATH101", "prof-1")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
