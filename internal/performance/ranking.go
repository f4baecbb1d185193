package performance

import (
	"math"
	"sort"

	"github.com/noah-isme/class-performance-api/internal/models"
)

// Sort returns a copy of records ordered by average. Equal averages keep
// their input order. Any direction other than asc sorts descending.
func Sort(records []models.StudentPerformanceRecord, direction models.SortDirection) []models.StudentPerformanceRecord {
	sorted := make([]models.StudentPerformanceRecord, len(records))
	copy(sorted, records)
	if direction == models.SortAsc {
		sort.SliceStable(sorted, func(i, j int) bool {
			return score(sorted[i]) < score(sorted[j])
		})
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})
	return sorted
}

// TopN returns the n best performers, best first.
func TopN(records []models.StudentPerformanceRecord, n int) []models.StudentPerformanceRecord {
	if n <= 0 {
		return []models.StudentPerformanceRecord{}
	}
	sorted := Sort(records, models.SortDesc)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// BottomN returns the n weakest performers, worst first.
func BottomN(records []models.StudentPerformanceRecord, n int) []models.StudentPerformanceRecord {
	if n <= 0 {
		return []models.StudentPerformanceRecord{}
	}
	sorted := Sort(records, models.SortDesc)
	if n < len(sorted) {
		sorted = sorted[len(sorted)-n:]
	}
	bottom := make([]models.StudentPerformanceRecord, len(sorted))
	for i := range sorted {
		bottom[len(sorted)-1-i] = sorted[i]
	}
	return bottom
}

// Rank sorts records and annotates each with its 1-based position and status.
func Rank(records []models.StudentPerformanceRecord, direction models.SortDirection) []models.RankedStudent {
	sorted := Sort(records, direction)
	ranked := make([]models.RankedStudent, len(sorted))
	for i, record := range sorted {
		ranked[i] = models.RankedStudent{
			Rank:   i + 1,
			Status: Classify(record.Average),
			Record: record,
		}
	}
	return ranked
}

// score treats a missing (NaN) average as zero.
func score(r models.StudentPerformanceRecord) float64 {
	if math.IsNaN(r.Average) {
		return 0
	}
	return r.Average
}
