package invalidaterecommendations

type Input struct {
	WorkerID string `json:"workerId"`
}

type Output struct {
	WorkerID    string `json:"workerId"`
	Invalidated bool   `json:"invalidated"`
}
