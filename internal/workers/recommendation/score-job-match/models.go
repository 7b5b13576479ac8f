package scorejobmatch

import "rozgar-workers/internal/matching"

type Input struct {
	JobID    string `json:"jobId"`
	WorkerID string `json:"workerId"`
}

type Output struct {
	JobID   string                `json:"jobId"`
	Match   string                `json:"match"` // exact / related / none
	Score   int                   `json:"score"`
	Factors matching.ScoreFactors `json:"factors"`
}
