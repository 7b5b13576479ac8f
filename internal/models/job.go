package models

import "time"

// Job status values as stored. Legacy documents may have no status at all;
// those are treated as active (see IsActive).
const (
	JobStatusActive   = "active"
	JobStatusInactive = "inactive"
	JobStatusClosed   = "closed"
)

// JobCategories covers the platform's fixed set of blue-collar job categories.
var JobCategories = []string{
	"driver", "electrician", "plumber", "cook", "cleaner", "security",
	"construction", "gardener", "factory", "office helper", "delivery", "other",
}

type Job struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Location       string    `json:"location"` // free text, may embed "lat,lon"
	Salary         string    `json:"salary"`   // free text, e.g. "₹10,000 - ₹15,000"
	MinAge         int       `json:"minAge"`
	Availability   string    `json:"availability"` // day/night/full-time/part-time/weekends/flexible
	SkillsRequired []string  `json:"skillsRequired"`
	Experience     string    `json:"experience"` // free text, e.g. "2+ years"
	Status         *string   `json:"status,omitempty"`
	PostedBy       string    `json:"postedBy"` // account id of the job giver
	CreatedAt      time.Time `json:"createdAt"`
}

// IsActive reports whether the job should appear in listings. Jobs created
// before the status column existed have a NULL status and count as active.
func (j *Job) IsActive() bool {
	return j.Status == nil || *j.Status == "" || *j.Status == JobStatusActive
}
