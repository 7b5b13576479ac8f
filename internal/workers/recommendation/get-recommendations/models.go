package getrecommendations

import (
	"time"

	"rozgar-workers/internal/matching"
)

type Input struct {
	WorkerID      string   `json:"workerId"`
	ForceRefresh  bool     `json:"forceRefresh,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	ExcludeJobIDs []string `json:"excludeJobIds,omitempty"`
}

type Output struct {
	Exact       []matching.RecommendedJob `json:"exact"`
	Related     []matching.RecommendedJob `json:"related"`
	Combined    []matching.RecommendedJob `json:"combined"`
	Cached      bool                      `json:"cached"`
	LastUpdated *time.Time                `json:"lastUpdated"`
	HasMore     bool                      `json:"hasMore"`
	Count       int                       `json:"count"`
}
