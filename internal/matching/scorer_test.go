// internal/matching/scorer_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rozgar-workers/internal/models"
)

func intPtr(v int) *int { return &v }

// ==========================
// Experience
// ==========================

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		name     string
		required string
		years    *int
		expected int
	}{
		{"meets the requirement", "3+ years", intPtr(5), 30},
		{"exactly the requirement", "3+ years", intPtr(3), 30},
		{"one year short", "3+ years", intPtr(2), 20},
		{"far short", "5 years minimum", intPtr(1), 5},
		{"job states no requirement", "", intPtr(4), 15},
		{"worker states no experience", "2+ years", nil, 15},
		{"requirement without digits treated as zero", "fresher welcome", intPtr(0), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, experienceScore(tt.required, tt.years))
		})
	}
}

// ==========================
// Shift
// ==========================

func TestShiftScore(t *testing.T) {
	tests := []struct {
		name         string
		availability string
		shift        string
		expected     int
	}{
		{"flexible worker takes anything", "night", "flexible", 30},
		{"any worker takes anything", "day", "any", 30},
		{"exact shift match", "day", "day", 30},
		{"case-insensitive match", "Day", "DAY", 30},
		{"substring overlap", "full-time", "full", 25},
		{"full-time job covers day workers", "full-time", "day", 15},
		{"full-time job covers night workers", "full-time", "night", 15},
		{"incompatible shifts", "day", "night", 0},
		{"job availability missing", "", "day", 15},
		{"worker shift missing", "day", "", 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shiftScore(tt.availability, tt.shift))
		})
	}
}

// ==========================
// Location
// ==========================

func TestLocationScore(t *testing.T) {
	// Offsets from a fixed point; 0.01 degrees of latitude is ~1.1 km.
	base := "28.6139,77.2090"

	tests := []struct {
		name     string
		job      string
		worker   string
		expected int
	}{
		{"same point", base, base, 20},
		{"within 5 km", "28.6500,77.2090", base, 20},
		{"within 10 km", "28.6939,77.2090", base, 15},
		{"within 20 km", "28.7639,77.2090", base, 10},
		{"within 50 km", "28.9739,77.2090", base, 5},
		{"too far", "29.6139,77.2090", base, 0},
		{"job address unparseable", "Karol Bagh, Delhi", base, 5},
		{"worker address unparseable", base, "Karol Bagh, Delhi", 5},
		{"both unparseable", "Karol Bagh", "Rohini", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, locationScore(tt.job, tt.worker))
		})
	}
}

// ==========================
// Salary
// ==========================

func TestSalaryScore(t *testing.T) {
	tests := []struct {
		name        string
		salary      string
		expectation *int
		expected    int
	}{
		{"expectation inside the range", "₹10,000 - ₹15,000", intPtr(12000), 20},
		{"expectation at the minimum", "₹10,000 - ₹15,000", intPtr(10000), 20},
		{"expectation at the maximum", "₹10,000 - ₹15,000", intPtr(15000), 20},
		{"slightly above the range", "₹10,000 - ₹15,000", intPtr(17000), 15},
		{"well above the range", "₹10,000 - ₹15,000", intPtr(24000), 10},
		{"far above the range", "₹10,000 - ₹15,000", intPtr(30000), 0},
		{"single figure acts as min and max", "12000 per month", intPtr(12000), 20},
		{"below the range lands in the near-miss tier", "₹10,000 - ₹15,000", intPtr(8000), 15},
		{"job states no salary", "", intPtr(12000), 10},
		{"salary without digit runs", "negotiable", intPtr(12000), 10},
		{"worker states no expectation", "₹10,000 - ₹15,000", nil, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, salaryScore(tt.salary, tt.expectation))
		})
	}
}

// ==========================
// Composite
// ==========================

func TestScoreWithFactors(t *testing.T) {
	t.Run("perfect match totals 100", func(t *testing.T) {
		job := &models.Job{
			Name:         "Cook for canteen",
			Category:     "cook",
			Experience:   "2+ years",
			Availability: "day",
			Location:     "28.6139,77.2090",
			Salary:       "₹10,000 - ₹15,000",
		}
		profile := &models.WorkerProfile{
			JobTitle:          "cook",
			ExperienceYears:   intPtr(4),
			ShiftTime:         "day",
			Address:           "28.6139,77.2090",
			SalaryExpectation: intPtr(12000),
		}

		factors := ScoreWithFactors(job, profile)
		assert.Equal(t, 30, factors.Experience)
		assert.Equal(t, 30, factors.Shift)
		assert.Equal(t, 20, factors.Location)
		assert.Equal(t, 20, factors.Salary)
		assert.Equal(t, 100, factors.Total())
		assert.Equal(t, 100, Score(job, profile))
	})

	t.Run("near-miss distance and salary land in their mid tiers", func(t *testing.T) {
		// The coordinates are about 5.7 km apart and the expectation sits
		// just below the advertised range, so location and salary both
		// score 15, not their full weights.
		job := &models.Job{
			Name:         "Cook for mess",
			Category:     "cook",
			Experience:   "2+ years",
			Availability: "day",
			Location:     "18.50,73.90",
			Salary:       "₹16,000 - ₹22,000",
		}
		profile := &models.WorkerProfile{
			JobTitle:          "cook",
			ExperienceYears:   intPtr(2),
			ShiftTime:         "day",
			Address:           "18.52,73.85",
			SalaryExpectation: intPtr(15000),
		}

		factors := ScoreWithFactors(job, profile)
		assert.Equal(t, 30, factors.Experience)
		assert.Equal(t, 30, factors.Shift)
		assert.Equal(t, 15, factors.Location)
		assert.Equal(t, 15, factors.Salary)
		assert.Equal(t, 90, factors.Total())
		assert.Equal(t, ExactMatch, Classify(job, profile))
	})

	t.Run("empty profile collects every partial credit", func(t *testing.T) {
		job := &models.Job{
			Category:     "driver",
			Experience:   "2+ years",
			Availability: "day",
			Location:     "28.6139,77.2090",
			Salary:       "₹10,000 - ₹15,000",
		}
		profile := &models.WorkerProfile{JobTitle: "driver"}

		// 15 experience + 15 shift + 5 location + 10 salary.
		assert.Equal(t, 45, Score(job, profile))
	})
}
