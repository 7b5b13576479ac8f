package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"rozgar-workers/internal/models"
)

const jobColumns = `id, name, category, description, location, salary, min_age,
       availability, skills_required, experience, status, posted_by, created_at`

// Jobs reads job documents from PostgreSQL.
type Jobs struct {
	db *sql.DB
}

func NewJobs(db *sql.DB) *Jobs {
	return &Jobs{db: db}
}

// FindActive returns listable jobs newest first. The status predicate keeps
// legacy rows with a NULL status visible, matching models.Job.IsActive.
func (s *Jobs) FindActive(ctx context.Context) ([]models.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE status = 'active' OR status IS NULL OR status = ''
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query active jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// FindByIDs returns the jobs matching the given ids, in no particular
// order. Ids with no surviving job are silently absent from the result.
func (s *Jobs) FindByIDs(ctx context.Context, ids []string) ([]models.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query jobs by ids: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

func scanJobs(rows *sql.Rows) ([]models.Job, error) {
	var jobs []models.Job
	for rows.Next() {
		var (
			job    models.Job
			skills []byte
			status sql.NullString
		)
		err := rows.Scan(
			&job.ID, &job.Name, &job.Category, &job.Description, &job.Location,
			&job.Salary, &job.MinAge, &job.Availability, &skills,
			&job.Experience, &status, &job.PostedBy, &job.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if status.Valid {
			job.Status = &status.String
		}
		if len(skills) > 0 {
			if err := json.Unmarshal(skills, &job.SkillsRequired); err != nil {
				job.SkillsRequired = nil
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
