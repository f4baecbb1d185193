package performance

import (
	"fmt"

	"github.com/noah-isme/class-performance-api/internal/models"
)

const (
	DefaultAbsenceLimit    = 3
	DefaultMissedLimit     = 3
	DefaultAttendanceFloor = 75.0
	DefaultMentorAverage   = 90.0
)

// DefaultRecommendationMessage is returned when no rule fires.
const DefaultRecommendationMessage = "Student is performing within expected parameters. Continue regular monitoring."

// RecommendationRules holds the thresholds of the recommendation decision table.
// Absences and missed activities trigger strictly above their limit; the
// attendance rule triggers strictly below the floor and only once at least
// one session has been recorded.
type RecommendationRules struct {
	AbsenceLimit    int
	MissedLimit     int
	AttendanceFloor float64
	MentorAverage   float64
}

// DefaultRules returns the standard decision table.
func DefaultRules() RecommendationRules {
	return RecommendationRules{
		AbsenceLimit:    DefaultAbsenceLimit,
		MissedLimit:     DefaultMissedLimit,
		AttendanceFloor: DefaultAttendanceFloor,
		MentorAverage:   DefaultMentorAverage,
	}
}

// Recommend evaluates the default rules for a student.
func Recommend(average float64, detail models.StudentDetail) models.Recommendation {
	return RecommendWith(DefaultRules(), average, detail)
}

// RecommendWith evaluates every rule independently; several may fire at once.
func RecommendWith(rules RecommendationRules, average float64, detail models.StudentDetail) models.Recommendation {
	rec := models.Recommendation{Messages: []string{}}

	if detail.Attendance.Absent > rules.AbsenceLimit {
		rec.Messages = append(rec.Messages, fmt.Sprintf(
			"Multiple absences detected (%d). Consider contacting the student to discuss attendance.",
			detail.Attendance.Absent))
		rec.Actions.Email = true
	}

	if detail.ActivityStats.Missed > rules.MissedLimit {
		rec.Messages = append(rec.Messages, fmt.Sprintf(
			"Several activities missed (%d). Consider assigning remedial work or extending deadlines.",
			detail.ActivityStats.Missed))
		rec.Actions.Remedial = true
		rec.Actions.ExtendDeadline = true
	}

	if hasSessions(detail.Attendance) && detail.Attendance.Rate < rules.AttendanceFloor {
		rec.Messages = append(rec.Messages, fmt.Sprintf(
			"Attendance rate is %.1f%%, below the %.0f%% expectation. Follow up on attendance.",
			detail.Attendance.Rate, rules.AttendanceFloor))
		rec.Actions.Email = true
	}

	if average >= rules.MentorAverage {
		rec.Messages = append(rec.Messages,
			"Excellent performance. Consider inviting the student to mentor classmates.")
	}

	if len(rec.Messages) == 0 {
		rec.Messages = append(rec.Messages, DefaultRecommendationMessage)
	}
	return rec
}

func hasSessions(a models.AttendanceDetail) bool {
	return a.Present+a.Late+a.Absent > 0
}
