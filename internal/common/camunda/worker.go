package camunda

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// HandlerFunc is the job handler signature the Zeebe client expects.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Worker wraps one registered Zeebe job worker.
type Worker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// StartWorker registers a handler for a task type and opens the worker.
func StartWorker(client zbc.Client, taskType string, maxJobsActive int, handler HandlerFunc, logger *zap.Logger) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(maxJobsActive).
		Open()

	logger.Info("worker started", zap.String("taskType", taskType))

	return &Worker{
		worker:   jobWorker,
		logger:   logger,
		taskType: taskType,
	}
}

// Stop closes the underlying job worker.
func (w *Worker) Stop(_ context.Context) {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
}
