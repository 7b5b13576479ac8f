// internal/workers/profile/invalidate-recommendations/handler_test.go
package invalidaterecommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rozgar-workers/internal/common/logger"
)

type fakeInvalidator struct {
	invalidated []string
	err         error
}

func (f *fakeInvalidator) InvalidateRecommendations(_ context.Context, workerID string) error {
	if f.err != nil {
		return f.err
	}
	f.invalidated = append(f.invalidated, workerID)
	return nil
}

func newTestHandler(engine *fakeInvalidator) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, engine, logger.NewNop())
}

func TestHandler_Execute(t *testing.T) {
	engine := &fakeInvalidator{}
	handler := newTestHandler(engine)

	output, err := handler.Execute(context.Background(), &Input{WorkerID: "worker-1"})
	require.NoError(t, err)

	assert.Equal(t, "worker-1", output.WorkerID)
	assert.True(t, output.Invalidated)
	assert.Equal(t, []string{"worker-1"}, engine.invalidated)
}

func TestHandler_Execute_EngineError(t *testing.T) {
	engine := &fakeInvalidator{err: errors.New("write timeout")}
	handler := newTestHandler(engine)

	_, err := handler.Execute(context.Background(), &Input{WorkerID: "worker-1"})
	assert.Error(t, err)
	assert.Empty(t, engine.invalidated)
}
