package getrecommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	apperrors "rozgar-workers/internal/common/errors"
	"rozgar-workers/internal/common/logger"
	"rozgar-workers/internal/common/metrics"
	"rozgar-workers/internal/common/observability"
	"rozgar-workers/internal/matching"
)

const (
	TaskType = "get-recommendations"
)

const inputSchema = `{
	"type": "object",
	"required": ["workerId"],
	"properties": {
		"workerId": {"type": "string", "minLength": 1},
		"forceRefresh": {"type": "boolean"},
		"limit": {"type": "integer", "minimum": 1, "maximum": 100},
		"excludeJobIds": {"type": "array", "items": {"type": "string"}}
	}
}`

// Recommender is the slice of the engine this worker needs.
type Recommender interface {
	GetRecommendations(ctx context.Context, req matching.Request) (*matching.Result, error)
}

type Handler struct {
	config *Config
	engine Recommender
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, engine Recommender, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	log := h.logger.WithFields(map[string]interface{}{
		"jobKey":    job.Key,
		"requestId": uuid.NewString(),
	})
	log.Info("processing job", map[string]interface{}{
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := validateInput(job.Variables); err != nil {
		h.failJob(client, job, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		stdErr, ok := err.(*apperrors.StandardError)
		if !ok {
			stdErr = apperrors.NewRecommendationFailedError(err)
		}
		h.obs.RecordRequest(ctx, TaskType, "failed")
		h.failJob(client, job, stdErr)
		return
	}

	h.obs.RecordRequest(ctx, TaskType, "completed")
	h.obs.RecordDuration(ctx, TaskType, time.Since(start))
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.completeJob(client, job, output)
}

// Execute runs the recommendation operation outside of the Zeebe plumbing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.engine.GetRecommendations(ctx, matching.Request{
		WorkerID:      input.WorkerID,
		ForceRefresh:  input.ForceRefresh,
		Limit:         input.Limit,
		ExcludeJobIDs: input.ExcludeJobIDs,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		Exact:       result.Exact,
		Related:     result.Related,
		Combined:    result.Combined,
		Cached:      result.Cached,
		LastUpdated: result.LastUpdated,
		HasMore:     result.HasMore,
		Count:       result.Count,
	}, nil
}

func validateInput(variables string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(inputSchema),
		gojsonschema.NewStringLoader(variables),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("input validation failed: %v", errs)
	}
	return nil
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
