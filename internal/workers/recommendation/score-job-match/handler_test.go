// internal/workers/recommendation/score-job-match/handler_test.go
package scorejobmatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rozgar-workers/internal/common/logger"
	"rozgar-workers/internal/models"

	apperrors "rozgar-workers/internal/common/errors"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeJobStore struct {
	jobs map[string]models.Job
	err  error
}

func (f *fakeJobStore) FindActive(_ context.Context) ([]models.Job, error) {
	return nil, nil
}

func (f *fakeJobStore) FindByIDs(_ context.Context, ids []string) ([]models.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Job
	for _, id := range ids {
		if job, ok := f.jobs[id]; ok {
			out = append(out, job)
		}
	}
	return out, nil
}

type fakeProfileStore struct {
	profile *models.WorkerProfile
	err     error
}

func (f *fakeProfileStore) FindByID(_ context.Context, id string) (*models.WorkerProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil || f.profile.ID != id {
		return nil, nil
	}
	return f.profile, nil
}

func (f *fakeProfileStore) SaveRecommendationCache(_ context.Context, _ string, _ []string, _ time.Time, _ string) error {
	return nil
}

func (f *fakeProfileStore) ClearRecommendationCache(_ context.Context, _ string) error {
	return nil
}

func intPtr(v int) *int { return &v }

func newTestHandler(jobs *fakeJobStore, profiles *fakeProfileStore) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, jobs, profiles, logger.NewNop())
}

func assertErrorCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	jobs := &fakeJobStore{jobs: map[string]models.Job{
		"job-1": {
			ID: "job-1", Name: "Cook for canteen", Category: "cook",
			Experience: "2+ years", Availability: "day",
			Location: "28.6139,77.2090", Salary: "₹10,000 - ₹15,000",
		},
	}}
	profiles := &fakeProfileStore{profile: &models.WorkerProfile{
		ID:                "worker-1",
		JobTitle:          "cook",
		ShiftTime:         "day",
		ExperienceYears:   intPtr(4),
		Address:           "28.6139,77.2090",
		SalaryExpectation: intPtr(12000),
	}}
	handler := newTestHandler(jobs, profiles)

	output, err := handler.Execute(context.Background(), &Input{JobID: "job-1", WorkerID: "worker-1"})
	require.NoError(t, err)

	assert.Equal(t, "job-1", output.JobID)
	assert.Equal(t, "exact", output.Match)
	assert.Equal(t, 100, output.Score)
	assert.Equal(t, 30, output.Factors.Experience)
	assert.Equal(t, 30, output.Factors.Shift)
	assert.Equal(t, 20, output.Factors.Location)
	assert.Equal(t, 20, output.Factors.Salary)
}

func TestHandler_Execute_NoMatchJob(t *testing.T) {
	jobs := &fakeJobStore{jobs: map[string]models.Job{
		"job-1": {ID: "job-1", Name: "Need Car Driver", Category: "driver"},
	}}
	profiles := &fakeProfileStore{profile: &models.WorkerProfile{ID: "worker-1", JobTitle: "cook"}}
	handler := newTestHandler(jobs, profiles)

	output, err := handler.Execute(context.Background(), &Input{JobID: "job-1", WorkerID: "worker-1"})
	require.NoError(t, err)

	// Classification and scoring are independent: a non-matching pair
	// still gets a score.
	assert.Equal(t, "none", output.Match)
	assert.Equal(t, output.Factors.Total(), output.Score)
}

func TestHandler_Execute_MissingProfileScoresPartials(t *testing.T) {
	jobs := &fakeJobStore{jobs: map[string]models.Job{
		"job-1": {
			ID: "job-1", Name: "Cook for canteen", Category: "cook",
			Experience: "2+ years", Availability: "day",
			Location: "28.6139,77.2090", Salary: "₹10,000 - ₹15,000",
		},
	}}
	profiles := &fakeProfileStore{} // no profile for the worker
	handler := newTestHandler(jobs, profiles)

	output, err := handler.Execute(context.Background(), &Input{JobID: "job-1", WorkerID: "worker-1"})
	require.NoError(t, err)

	// 15 experience + 15 shift + 5 location + 10 salary.
	assert.Equal(t, 45, output.Score)
	assert.Equal(t, "none", output.Match)
}

func TestHandler_Execute_JobNotFound(t *testing.T) {
	handler := newTestHandler(&fakeJobStore{}, &fakeProfileStore{})

	_, err := handler.Execute(context.Background(), &Input{JobID: "job-gone", WorkerID: "worker-1"})
	assertErrorCode(t, err, apperrors.ErrCodeJobNotFound)
}

func TestHandler_Execute_StoreErrors(t *testing.T) {
	t.Run("job store failure", func(t *testing.T) {
		jobs := &fakeJobStore{err: errors.New("connection refused")}
		handler := newTestHandler(jobs, &fakeProfileStore{})

		_, err := handler.Execute(context.Background(), &Input{JobID: "job-1", WorkerID: "worker-1"})
		assertErrorCode(t, err, apperrors.ErrCodeJobFetchFailed)
	})

	t.Run("profile store failure", func(t *testing.T) {
		jobs := &fakeJobStore{jobs: map[string]models.Job{
			"job-1": {ID: "job-1", Name: "Cook", Category: "cook"},
		}}
		profiles := &fakeProfileStore{err: errors.New("connection refused")}
		handler := newTestHandler(jobs, profiles)

		_, err := handler.Execute(context.Background(), &Input{JobID: "job-1", WorkerID: "worker-1"})
		assertErrorCode(t, err, apperrors.ErrCodeProfileFetchFailed)
	})
}
