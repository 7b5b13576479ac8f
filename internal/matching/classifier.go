package matching

import (
	"strings"

	"rozgar-workers/internal/models"
)

// Match classifies how a job relates to a worker's stated job title.
type Match int

const (
	NoMatch Match = iota
	RelatedMatch
	ExactMatch
)

func (m Match) String() string {
	switch m {
	case ExactMatch:
		return "exact"
	case RelatedMatch:
		return "related"
	default:
		return "none"
	}
}

// relatedRoles maps a worker's job title to keywords that mark a job as a
// related match. The table is fixed; unmapped titles never produce a
// related match. Matching is raw substring containment on the lowercased
// job name and category, which is the behavior recommendation tests pin.
var relatedRoles = map[string][]string{
	"driver":        {"delivery", "transport", "vehicle", "logistics"},
	"electrician":   {"electrical", "wiring", "maintenance", "technician"},
	"plumber":       {"plumbing", "pipe", "fitting", "sanitary"},
	"cook":          {"chef", "kitchen", "catering", "restaurant"},
	"cleaner":       {"cleaning", "housekeeping", "sweeper", "janitor"},
	"security":      {"guard", "watchman", "safety", "surveillance"},
	"construction":  {"builder", "mason", "labour", "site work"},
	"gardener":      {"gardening", "landscaping", "nursery", "plants"},
	"factory":       {"manufacturing", "production", "assembly", "packing"},
	"office helper": {"office", "peon", "clerk", "attendant"},
}

// Classify decides whether a job is an exact match, a related match, or no
// match for the worker's job title. Missing data is a non-match, never an
// error.
func Classify(job *models.Job, profile *models.WorkerProfile) Match {
	if job == nil || profile == nil {
		return NoMatch
	}

	title := strings.ToLower(strings.TrimSpace(profile.JobTitle))
	category := strings.ToLower(strings.TrimSpace(job.Category))
	if title == "" || category == "" {
		return NoMatch
	}
	name := strings.ToLower(strings.TrimSpace(job.Name))

	if category == title || name == title {
		return ExactMatch
	}
	// Word-boundary containment of the title in the job name: leading,
	// trailing, or interior token run.
	if strings.HasPrefix(name, title+" ") ||
		strings.HasSuffix(name, " "+title) ||
		strings.Contains(name, " "+title+" ") {
		return ExactMatch
	}

	for _, keyword := range relatedRoles[title] {
		if strings.Contains(name, keyword) || strings.Contains(category, keyword) {
			return RelatedMatch
		}
	}

	return NoMatch
}
