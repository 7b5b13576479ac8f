package scorejobmatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "rozgar-workers/internal/common/errors"
	"rozgar-workers/internal/common/logger"
	"rozgar-workers/internal/common/metrics"
	"rozgar-workers/internal/matching"
	"rozgar-workers/internal/models"
)

const (
	TaskType = "score-job-match"
)

// Handler scores a single (job, worker) pair. The application-review flow
// runs it so a job giver sees how well an applicant fits.
type Handler struct {
	config   *Config
	jobs     matching.JobStore
	profiles matching.ProfileStore
	logger   logger.Logger
}

func NewHandler(config *Config, jobs matching.JobStore, profiles matching.ProfileStore, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		jobs:     jobs,
		profiles: profiles,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}
	if input.JobID == "" || input.WorkerID == "" {
		h.failJob(client, job, apperrors.NewInvalidInputError("jobId and workerId are required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		stdErr, ok := err.(*apperrors.StandardError)
		if !ok {
			stdErr = apperrors.NewScoringFailedError(err)
		}
		h.failJob(client, job, stdErr)
		return
	}

	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.completeJob(client, job, output)
}

// Execute fetches both sides of the pair and scores them. A worker without
// a profile is scored against an empty one, degrading every component to
// its partial-credit value instead of failing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	found, err := h.jobs.FindByIDs(ctx, []string{input.JobID})
	if err != nil {
		return nil, apperrors.NewJobFetchFailedError(err)
	}
	if len(found) == 0 {
		return nil, apperrors.NewJobNotFoundError(input.JobID)
	}
	job := found[0]

	profile, err := h.profiles.FindByID(ctx, input.WorkerID)
	if err != nil {
		return nil, apperrors.NewProfileFetchFailedError(err)
	}
	if profile == nil {
		h.logger.Warn("worker has no profile, scoring with empty profile", map[string]interface{}{
			"workerId": input.WorkerID,
		})
		profile = &models.WorkerProfile{ID: input.WorkerID}
	}

	factors := matching.ScoreWithFactors(&job, profile)
	match := matching.Classify(&job, profile)

	h.logger.Info("match scored", map[string]interface{}{
		"jobId":    input.JobID,
		"workerId": input.WorkerID,
		"match":    match.String(),
		"score":    factors.Total(),
	})

	return &Output{
		JobID:   job.ID,
		Match:   match.String(),
		Score:   factors.Total(),
		Factors: factors,
	}, nil
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
