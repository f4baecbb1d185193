package performance

import (
	"math"

	"github.com/noah-isme/class-performance-api/internal/models"
)

// AggregateByStatus counts activities per status. Completed activities are
// counted as submitted; unknown statuses only contribute to the total.
func AggregateByStatus(activities []models.ActivityRecord) models.ActivityStatusSummary {
	summary := models.ActivityStatusSummary{Total: len(activities)}
	for _, activity := range activities {
		switch activity.Status {
		case models.ActivityStatusSubmitted, models.ActivityStatusCompleted:
			summary.Submitted++
		case models.ActivityStatusAssigned:
			summary.Assigned++
		case models.ActivityStatusIncomplete:
			summary.Incomplete++
		case models.ActivityStatusMissed:
			summary.Missed++
		}
	}
	return summary
}

// AggregateByType counts activities per type. Types with no activity are absent.
func AggregateByType(activities []models.ActivityRecord) map[models.ActivityType]int {
	counts := make(map[models.ActivityType]int)
	for _, activity := range activities {
		counts[activity.ActivityType]++
	}
	return counts
}

// StatusDistribution counts students per status bucket. Every bucket is present.
func StatusDistribution(records []models.StudentPerformanceRecord) map[models.PerformanceStatus]int {
	distribution := make(map[models.PerformanceStatus]int, len(models.PerformanceStatuses))
	for _, status := range models.PerformanceStatuses {
		distribution[status] = 0
	}
	for _, record := range records {
		distribution[Classify(record.Average)]++
	}
	return distribution
}

// ClassAverage is the mean of all student averages, 0 for an empty class.
func ClassAverage(records []models.StudentPerformanceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for _, record := range records {
		total += score(record)
	}
	return total / float64(len(records))
}

// SubmissionRate is the percentage of students who turned the activity in.
func SubmissionRate(activity models.ActivityRecord) float64 {
	if activity.TotalStudents <= 0 {
		return 0
	}
	rate := float64(activity.SubmittedCount) / float64(activity.TotalStudents) * 100
	return math.Min(rate, 100)
}

// AttendanceRate is the share of sessions attended, counting late arrivals as
// attended. No recorded sessions yields 0.
func AttendanceRate(a models.AttendanceDetail) float64 {
	total := a.Present + a.Late + a.Absent
	if total <= 0 {
		return 0
	}
	return float64(a.Present+a.Late) / float64(total) * 100
}
