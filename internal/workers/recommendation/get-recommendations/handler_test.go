// internal/workers/recommendation/get-recommendations/handler_test.go
package getrecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rozgar-workers/internal/common/logger"
	"rozgar-workers/internal/common/observability"
	"rozgar-workers/internal/matching"
	"rozgar-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeRecommender struct {
	lastRequest matching.Request
	result      *matching.Result
	err         error
}

func (f *fakeRecommender) GetRecommendations(_ context.Context, req matching.Request) (*matching.Result, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func createTestConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

func newTestHandler(engine *fakeRecommender) *Handler {
	return NewHandler(createTestConfig(), engine, observability.New("test"), logger.NewNop())
}

func sampleResult() *matching.Result {
	lastUpdated := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	exact := matching.RecommendedJob{
		Job:          models.Job{ID: "job-1", Name: "Cook for canteen", Category: "cook"},
		ContactPhone: "9876543210",
	}
	related := matching.RecommendedJob{
		Job: models.Job{ID: "job-2", Name: "Line Chef", Category: "restaurant"},
	}
	return &matching.Result{
		Exact:       []matching.RecommendedJob{exact},
		Related:     []matching.RecommendedJob{related},
		Combined:    []matching.RecommendedJob{exact, related},
		Cached:      true,
		LastUpdated: &lastUpdated,
		HasMore:     false,
		Count:       2,
	}
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	engine := &fakeRecommender{result: sampleResult()}
	handler := newTestHandler(engine)

	output, err := handler.Execute(context.Background(), &Input{
		WorkerID:      "worker-1",
		ForceRefresh:  true,
		Limit:         5,
		ExcludeJobIDs: []string{"job-9"},
	})
	require.NoError(t, err)

	// Request fields pass through to the engine untouched.
	assert.Equal(t, matching.Request{
		WorkerID:      "worker-1",
		ForceRefresh:  true,
		Limit:         5,
		ExcludeJobIDs: []string{"job-9"},
	}, engine.lastRequest)

	assert.Len(t, output.Exact, 1)
	assert.Len(t, output.Related, 1)
	assert.Len(t, output.Combined, 2)
	assert.True(t, output.Cached)
	assert.Equal(t, 2, output.Count)
	require.NotNil(t, output.LastUpdated)
	assert.Equal(t, "9876543210", output.Exact[0].ContactPhone)
}

func TestHandler_Execute_EmptyListsMarshalAsArrays(t *testing.T) {
	engine := &fakeRecommender{result: &matching.Result{
		Exact:    []matching.RecommendedJob{},
		Related:  []matching.RecommendedJob{},
		Combined: []matching.RecommendedJob{},
	}}
	handler := newTestHandler(engine)

	output, err := handler.Execute(context.Background(), &Input{WorkerID: "worker-1"})
	require.NoError(t, err)

	// The process reads these variables as arrays; null would break any
	// gateway condition iterating them.
	data, err := json.Marshal(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exact":[]`)
	assert.Contains(t, string(data), `"related":[]`)
	assert.Contains(t, string(data), `"combined":[]`)
}

func TestHandler_Execute_EngineError(t *testing.T) {
	engine := &fakeRecommender{err: errors.New("store down")}
	handler := newTestHandler(engine)

	_, err := handler.Execute(context.Background(), &Input{WorkerID: "worker-1"})
	assert.Error(t, err)
}

// ==========================
// Input validation
// ==========================

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{
			name:      "minimal valid input",
			variables: `{"workerId": "worker-1"}`,
			wantErr:   false,
		},
		{
			name:      "full valid input",
			variables: `{"workerId": "worker-1", "forceRefresh": true, "limit": 20, "excludeJobIds": ["job-1"]}`,
			wantErr:   false,
		},
		{
			name:      "extra variables from the process are tolerated",
			variables: `{"workerId": "worker-1", "processStep": "recommendations"}`,
			wantErr:   false,
		},
		{
			name:      "missing workerId",
			variables: `{"limit": 20}`,
			wantErr:   true,
		},
		{
			name:      "empty workerId",
			variables: `{"workerId": ""}`,
			wantErr:   true,
		},
		{
			name:      "limit below minimum",
			variables: `{"workerId": "worker-1", "limit": 0}`,
			wantErr:   true,
		},
		{
			name:      "limit above maximum",
			variables: `{"workerId": "worker-1", "limit": 500}`,
			wantErr:   true,
		},
		{
			name:      "wrong type for excludeJobIds",
			variables: `{"workerId": "worker-1", "excludeJobIds": "job-1"}`,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.variables)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
