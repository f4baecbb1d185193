package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-performance-api/internal/models"
)

func detail(absent int, rate float64, missed int) models.StudentDetail {
	return models.StudentDetail{
		Attendance:    models.AttendanceDetail{Present: 10, Absent: absent, Rate: rate},
		ActivityStats: models.ActivityStats{Missed: missed},
	}
}

func TestRecommendHighPerformerGetsMentoringOnly(t *testing.T) {
	rec := Recommend(95, detail(0, 98, 0))
	require.Len(t, rec.Messages, 1)
	assert.Contains(t, rec.Messages[0], "mentor")
	assert.Equal(t, models.RecommendationActions{}, rec.Actions)
}

func TestRecommendStrugglingStudentFiresThreeRules(t *testing.T) {
	rec := Recommend(50, detail(5, 60, 5))
	require.Len(t, rec.Messages, 3)
	assert.Equal(t, models.RecommendationActions{Email: true, Remedial: true, ExtendDeadline: true}, rec.Actions)
	assert.Contains(t, rec.Messages[0], "Multiple absences detected")
	assert.Contains(t, rec.Messages[1], "Several activities missed")
	assert.Contains(t, rec.Messages[2], "60.0%")
}

func TestRecommendDefaultMessage(t *testing.T) {
	rec := Recommend(80, detail(1, 90, 1))
	assert.Equal(t, []string{DefaultRecommendationMessage}, rec.Messages)
	assert.Equal(t, models.RecommendationActions{}, rec.Actions)
}

func TestRecommendLimitsAreExclusive(t *testing.T) {
	rec := Recommend(89.9, detail(3, 75, 3))
	assert.Equal(t, []string{DefaultRecommendationMessage}, rec.Messages)
}

func TestRecommendAbsencesOnlySetsEmail(t *testing.T) {
	rec := Recommend(70, detail(4, 80, 0))
	require.Len(t, rec.Messages, 1)
	assert.True(t, rec.Actions.Email)
	assert.False(t, rec.Actions.Remedial)
	assert.False(t, rec.Actions.ExtendDeadline)
}

func TestRecommendWithCustomRules(t *testing.T) {
	rules := RecommendationRules{AbsenceLimit: 1, MissedLimit: 10, AttendanceFloor: 50, MentorAverage: 85}
	rec := RecommendWith(rules, 86, detail(2, 90, 4))
	require.Len(t, rec.Messages, 2)
	assert.True(t, rec.Actions.Email)
	assert.False(t, rec.Actions.Remedial)
}

func TestRecommendSkipsAttendanceWithoutSessions(t *testing.T) {
	rec := Recommend(0, models.StudentDetail{})
	assert.Equal(t, []string{DefaultRecommendationMessage}, rec.Messages)
	assert.Equal(t, models.RecommendationActions{}, rec.Actions)
}

func TestRecommendLowRateWithSessionsFlagsAttendance(t *testing.T) {
	rec := Recommend(70, models.StudentDetail{Attendance: models.AttendanceDetail{Late: 1, Absent: 2, Rate: 33.3}})
	require.Len(t, rec.Messages, 1)
	assert.Contains(t, rec.Messages[0], "33.3%")
	assert.True(t, rec.Actions.Email)
}
