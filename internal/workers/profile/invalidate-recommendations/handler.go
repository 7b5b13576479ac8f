package invalidaterecommendations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "rozgar-workers/internal/common/errors"
	"rozgar-workers/internal/common/logger"
	"rozgar-workers/internal/common/metrics"
)

const (
	TaskType = "invalidate-recommendations"
)

// Invalidator is the slice of the engine this worker needs.
type Invalidator interface {
	InvalidateRecommendations(ctx context.Context, workerID string) error
}

// Handler clears a worker's cached recommendations. The profile-update
// flow runs it after every edit so the next request recomputes against the
// changed profile.
type Handler struct {
	config *Config
	engine Invalidator
	logger logger.Logger
}

func NewHandler(config *Config, engine Invalidator, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}
	if input.WorkerID == "" {
		h.failJob(client, job, apperrors.NewInvalidInputError("workerId is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		stdErr, ok := err.(*apperrors.StandardError)
		if !ok {
			stdErr = apperrors.NewCacheClearFailedError(err)
		}
		h.failJob(client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
}

// Execute clears the three cache fields as a unit.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.engine.InvalidateRecommendations(ctx, input.WorkerID); err != nil {
		return nil, err
	}

	h.logger.Info("recommendation cache invalidated", map[string]interface{}{
		"workerId": input.WorkerID,
	})

	return &Output{WorkerID: input.WorkerID, Invalidated: true}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *apperrors.StandardError) {
	bpmnErr := apperrors.ConvertToBPMNError(stdErr)
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    bpmnErr.Code,
		"errorMessage": bpmnErr.Message,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}
