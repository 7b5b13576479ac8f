package matching

import (
	"regexp"
	"strconv"
	"strings"

	"rozgar-workers/internal/models"
)

// Component weights and the partial-credit values awarded when one side of
// a comparison is missing. Incomplete profiles degrade gracefully instead
// of being scored to zero.
const (
	experienceWeight  = 30
	shiftWeight       = 30
	locationWeight    = 20
	salaryWeight      = 20
	experiencePartial = 15
	shiftPartial      = 15
	locationPartial   = 5
	salaryPartial     = 10
)

// ScoreFactors holds the per-component values that sum to the composite
// score. The composite is a sort key within a single ranking pass, not a
// percentage.
type ScoreFactors struct {
	Experience int `json:"experience"`
	Shift      int `json:"shift"`
	Location   int `json:"location"`
	Salary     int `json:"salary"`
}

// Total sums the four components.
func (f ScoreFactors) Total() int {
	return f.Experience + f.Shift + f.Location + f.Salary
}

// Score computes the composite score for a (job, worker) pair.
func Score(job *models.Job, profile *models.WorkerProfile) int {
	return ScoreWithFactors(job, profile).Total()
}

// ScoreWithFactors computes each weighted component independently so they
// stay unit-testable as the weight table evolves.
func ScoreWithFactors(job *models.Job, profile *models.WorkerProfile) ScoreFactors {
	return ScoreFactors{
		Experience: experienceScore(job.Experience, profile.ExperienceYears),
		Shift:      shiftScore(job.Availability, profile.ShiftTime),
		Location:   locationScore(job.Location, profile.Address),
		Salary:     salaryScore(job.Salary, profile.SalaryExpectation),
	}
}

var firstIntPattern = regexp.MustCompile(`\d+`)

// experienceScore compares the worker's years against the first integer in
// the job's free-text experience requirement.
func experienceScore(required string, years *int) int {
	if strings.TrimSpace(required) == "" || years == nil {
		return experiencePartial
	}

	requiredYears := 0
	if m := firstIntPattern.FindString(required); m != "" {
		requiredYears, _ = strconv.Atoi(m)
	}

	switch {
	case *years >= requiredYears+2:
		return experienceWeight // overqualified
	case *years >= requiredYears:
		return experienceWeight
	case *years >= requiredYears-1:
		return 20 // close enough
	default:
		return 5
	}
}

func shiftScore(availability, shift string) int {
	if availability == "" || shift == "" {
		return shiftPartial
	}

	availability = strings.ToLower(availability)
	shift = strings.ToLower(shift)

	if shift == "flexible" || shift == "any" {
		return shiftWeight
	}
	if availability == shift {
		return shiftWeight
	}
	if strings.Contains(availability, shift) || strings.Contains(shift, availability) {
		return 25
	}
	if availability == "full-time" && (shift == "day" || shift == "night") {
		return 15
	}
	return 0
}

func locationScore(jobLocation, workerAddress string) int {
	jobCoords := ParseLocation(jobLocation)
	workerCoords := ParseLocation(workerAddress)
	if jobCoords == nil || workerCoords == nil {
		return locationPartial
	}

	switch d := DistanceKm(*jobCoords, *workerCoords); {
	case d <= 5:
		return locationWeight
	case d <= 10:
		return 15
	case d <= 20:
		return 10
	case d <= 50:
		return 5
	default:
		return 0
	}
}

var salaryTokenPattern = regexp.MustCompile(`\d{3,6}`)

// salaryScore extracts the advertised range from the job's free-text salary
// (first 3-6 digit run is the minimum, second is the maximum when present)
// and compares the worker's expectation against it.
func salaryScore(salary string, expectation *int) int {
	if strings.TrimSpace(salary) == "" || expectation == nil {
		return salaryPartial
	}

	// "₹10,000 - ₹15,000" carries grouping commas; strip them before
	// tokenizing so the run is "10000", not "10" and "000".
	tokens := salaryTokenPattern.FindAllString(strings.ReplaceAll(salary, ",", ""), -1)
	if len(tokens) == 0 {
		return salaryPartial
	}

	minSalary, _ := strconv.Atoi(tokens[0])
	maxSalary := minSalary
	if len(tokens) > 1 {
		maxSalary, _ = strconv.Atoi(tokens[1])
	}

	switch {
	case *expectation >= minSalary && *expectation <= maxSalary:
		return salaryWeight
	case *expectation <= maxSalary+5000:
		return 15
	case *expectation <= maxSalary+10000:
		return 10
	default:
		return 0
	}
}
