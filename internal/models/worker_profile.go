package models

import "time"

// WorkerProfile is the job seeker's profile document. The three
// recommendation cache fields live on the profile itself and are always
// written together: a profile edit clears all of them in one update.
type WorkerProfile struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Age               int    `json:"age"`
	Address           string `json:"address"`   // free text, may embed "lat,lon"
	ShiftTime         string `json:"shiftTime"` // free text, compared case-insensitively
	ExperienceYears   *int   `json:"experienceYears,omitempty"`
	JobTitle          string `json:"jobTitle"`
	SalaryExpectation *int   `json:"salaryExpectation,omitempty"`

	CachedRecommendations      []string   `json:"cachedRecommendations,omitempty"`
	RecommendationsLastUpdated *time.Time `json:"recommendationsLastUpdated,omitempty"`
	ProfileHash                string     `json:"profileHash,omitempty"`
}
