// Package performance derives rankings, status buckets, aggregates and
// recommendations from already-fetched class data. Every function is pure:
// no I/O, no shared state, inputs are never mutated.
package performance

import "github.com/noah-isme/class-performance-api/internal/models"

// Thresholds holds the inclusive lower bounds of the top three status buckets.
// Anything below NeedsImprovement is at risk.
type Thresholds struct {
	Excellent        float64
	Good             float64
	NeedsImprovement float64
}

// StudentThresholds bands an individual student's average.
var StudentThresholds = Thresholds{Excellent: 90, Good: 75, NeedsImprovement: 60}

// ClassThresholds bands a class-wide average. The dashboard's class overview
// uses 80/70 while per-student status uses 90/75/60; both are kept until
// product confirms which banding is authoritative.
var ClassThresholds = Thresholds{Excellent: 80, Good: 70, NeedsImprovement: 0}

// Classify maps a student average onto a status bucket.
func Classify(average float64) models.PerformanceStatus {
	return StudentThresholds.Classify(average)
}

// ClassifyClass maps a class-wide average onto a status bucket.
func ClassifyClass(average float64) models.PerformanceStatus {
	return ClassThresholds.Classify(average)
}

// Classify maps average onto a bucket using t. NaN falls through to at-risk.
func (t Thresholds) Classify(average float64) models.PerformanceStatus {
	switch {
	case average >= t.Excellent:
		return models.StatusExcellent
	case average >= t.Good:
		return models.StatusGood
	case average >= t.NeedsImprovement:
		return models.StatusNeedsImprovement
	default:
		return models.StatusAtRisk
	}
}
