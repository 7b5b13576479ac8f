package matching

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"rozgar-workers/internal/common/logger"
	"rozgar-workers/internal/common/metrics"
	"rozgar-workers/internal/models"

	apperrors "rozgar-workers/internal/common/errors"
)

// Store collaborators. The engine never talks to the database directly;
// internal/store provides the production implementations.
type JobStore interface {
	// FindActive returns active jobs (explicit "active" status or a legacy
	// missing status), newest first.
	FindActive(ctx context.Context) ([]models.Job, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Job, error)
}

type ProfileStore interface {
	// FindByID returns nil, nil when no profile exists for the id.
	FindByID(ctx context.Context, id string) (*models.WorkerProfile, error)
	// SaveRecommendationCache writes all three cache fields in one update.
	SaveRecommendationCache(ctx context.Context, id string, jobIDs []string, updatedAt time.Time, hash string) error
	// ClearRecommendationCache resets all three cache fields in one update.
	ClearRecommendationCache(ctx context.Context, id string) error
}

type AccountStore interface {
	FindPhonesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// Clock abstracts time for the staleness rule.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Config holds the tunables of the recommendation engine.
type Config struct {
	FreshnessWindow time.Duration // cached lists older than this are recomputed
	MaxExact        int           // exact-match jobs persisted per recompute
	MaxRelated      int           // related-match jobs persisted per recompute
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		FreshnessWindow: 24 * time.Hour,
		MaxExact:        20,
		MaxRelated:      10,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

// Request is one getRecommendations call.
type Request struct {
	WorkerID      string
	ForceRefresh  bool
	Limit         int
	ExcludeJobIDs []string
}

// RecommendedJob is a job enriched with the posting account's phone.
type RecommendedJob struct {
	models.Job
	ContactPhone string `json:"contactPhone,omitempty"`
}

// Result is the response envelope. Exact and Related reflect only the jobs
// on the current page; every page item appears in exactly one of the two.
type Result struct {
	Exact       []RecommendedJob
	Related     []RecommendedJob
	Combined    []RecommendedJob
	Cached      bool
	LastUpdated *time.Time
	HasMore     bool
	Count       int
}

// Engine orchestrates classification, scoring and the cache policy.
type Engine struct {
	cfg      Config
	jobs     JobStore
	profiles ProfileStore
	accounts AccountStore
	clock    Clock
	log      logger.Logger
}

func NewEngine(cfg Config, jobs JobStore, profiles ProfileStore, accounts AccountStore, clock Clock, log logger.Logger) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		cfg:      cfg,
		jobs:     jobs,
		profiles: profiles,
		accounts: accounts,
		clock:    clock,
		log:      log,
	}
}

// classified pairs a job with its match class for the current pass.
type classified struct {
	job   models.Job
	match Match
}

// GetRecommendations serves the recommended and related job lists for a
// worker, recomputing them when the cached list is stale.
func (e *Engine) GetRecommendations(ctx context.Context, req Request) (*Result, error) {
	profile, err := e.profiles.FindByID(ctx, req.WorkerID)
	if err != nil {
		return nil, apperrors.NewProfileFetchFailedError(err)
	}
	if profile == nil {
		// Not an error: workers without a profile browse the public listing.
		return e.publicListing(ctx, req)
	}

	now := e.clock.Now()
	cached := !req.ForceRefresh && e.cacheFresh(profile, now)

	var ordered []classified
	if cached {
		ordered, err = e.serveCached(ctx, profile)
	} else {
		ordered, err = e.recompute(ctx, profile, now)
	}
	if err != nil {
		return nil, err
	}

	page, hasMore := paginate(ordered, req.ExcludeJobIDs, e.pageLimit(req.Limit))
	result := e.buildResult(ctx, page, hasMore)
	result.Cached = cached
	result.LastUpdated = profile.RecommendationsLastUpdated

	source := "recompute"
	if cached {
		source = "cache"
	}
	metrics.RecommendationsServed.WithLabelValues(source).Inc()

	e.log.Debug("recommendations served", map[string]interface{}{
		"workerId": req.WorkerID,
		"cached":   cached,
		"count":    result.Count,
		"hasMore":  result.HasMore,
	})

	return result, nil
}

// cacheFresh applies the staleness policy: a non-empty cached list, updated
// within the freshness window, computed from a profile identical to the
// current one.
func (e *Engine) cacheFresh(profile *models.WorkerProfile, now time.Time) bool {
	if len(profile.CachedRecommendations) == 0 {
		return false
	}
	if profile.RecommendationsLastUpdated == nil {
		return false
	}
	if now.Sub(*profile.RecommendationsLastUpdated) > e.cfg.FreshnessWindow {
		return false
	}
	return profile.ProfileHash == ProfileHash(profile)
}

// serveCached re-fetches the cached job ids and reclassifies each against
// current job data. The cache stores membership, not classification, so
// this rerun is mandatory on every hit.
func (e *Engine) serveCached(ctx context.Context, profile *models.WorkerProfile) ([]classified, error) {
	jobs, err := e.jobs.FindByIDs(ctx, profile.CachedRecommendations)
	if err != nil {
		return nil, apperrors.NewJobFetchFailedError(err)
	}

	byID := make(map[string]models.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	// Deleted jobs simply drop off; the stored order is kept.
	ordered := make([]classified, 0, len(jobs))
	for _, id := range profile.CachedRecommendations {
		job, ok := byID[id]
		if !ok {
			continue
		}
		ordered = append(ordered, classified{job: job, match: Classify(&job, profile)})
	}
	return ordered, nil
}

type scoredJob struct {
	job   models.Job
	score int
}

// recompute rebuilds the recommendation lists from the full active-job set
// and persists the result. Either the full compute-and-persist sequence
// completes or the stored cache keeps its prior value.
func (e *Engine) recompute(ctx context.Context, profile *models.WorkerProfile, now time.Time) ([]classified, error) {
	start := time.Now()

	active, err := e.jobs.FindActive(ctx)
	if err != nil {
		return nil, apperrors.NewJobFetchFailedError(err)
	}

	var exact, related []scoredJob
	for _, job := range active {
		job := job
		switch Classify(&job, profile) {
		case ExactMatch:
			exact = append(exact, scoredJob{job: job, score: Score(&job, profile)})
		case RelatedMatch:
			related = append(related, scoredJob{job: job, score: Score(&job, profile)})
		}
	}

	// Stable sort keeps the newest-first fetch order among equal scores.
	sortByScore(exact)
	sortByScore(related)
	exact = truncate(exact, e.cfg.MaxExact)
	related = truncate(related, e.cfg.MaxRelated)

	ids := make([]string, 0, len(exact)+len(related))
	ordered := make([]classified, 0, len(exact)+len(related))
	for _, s := range exact {
		ids = append(ids, s.job.ID)
		ordered = append(ordered, classified{job: s.job, match: ExactMatch})
	}
	for _, s := range related {
		ids = append(ids, s.job.ID)
		ordered = append(ordered, classified{job: s.job, match: RelatedMatch})
	}

	hash := ProfileHash(profile)
	if err := e.profiles.SaveRecommendationCache(ctx, profile.ID, ids, now, hash); err != nil {
		return nil, apperrors.NewCachePersistFailedError(err)
	}
	profile.CachedRecommendations = ids
	profile.RecommendationsLastUpdated = &now
	profile.ProfileHash = hash

	metrics.RecommendationRecomputeDuration.Observe(time.Since(start).Seconds())
	e.log.Info("recommendations recomputed", map[string]interface{}{
		"workerId":   profile.ID,
		"activeJobs": len(active),
		"exact":      len(exact),
		"related":    len(related),
	})

	return ordered, nil
}

// publicListing is the fallback for callers without a worker profile:
// randomized active jobs, honoring exclusions and pagination. Nothing is
// classified, so everything lands in the weaker related bucket.
func (e *Engine) publicListing(ctx context.Context, req Request) (*Result, error) {
	active, err := e.jobs.FindActive(ctx)
	if err != nil {
		return nil, apperrors.NewJobFetchFailedError(err)
	}

	rng := rand.New(rand.NewSource(e.clock.Now().UnixNano()))
	rng.Shuffle(len(active), func(i, j int) {
		active[i], active[j] = active[j], active[i]
	})

	ordered := make([]classified, 0, len(active))
	for _, job := range active {
		ordered = append(ordered, classified{job: job, match: NoMatch})
	}

	page, hasMore := paginate(ordered, req.ExcludeJobIDs, e.pageLimit(req.Limit))
	result := e.buildResult(ctx, page, hasMore)
	result.Cached = false

	metrics.RecommendationsServed.WithLabelValues("fallback").Inc()
	return result, nil
}

// buildResult splits the page by classification and enriches each job with
// the posting account's phone. Enrichment is best effort: an account
// lookup failure logs and leaves phones empty.
func (e *Engine) buildResult(ctx context.Context, page []classified, hasMore bool) *Result {
	accountIDs := make([]string, 0, len(page))
	for _, c := range page {
		if c.job.PostedBy != "" {
			accountIDs = append(accountIDs, c.job.PostedBy)
		}
	}

	phones := map[string]string{}
	if len(accountIDs) > 0 {
		found, err := e.accounts.FindPhonesByIDs(ctx, accountIDs)
		if err != nil {
			e.log.Warn("contact enrichment failed", map[string]interface{}{"error": err.Error()})
		} else {
			phones = found
		}
	}

	// Non-nil slices even for an empty page: process variables downstream
	// expect JSON arrays, never null.
	result := &Result{
		Exact:    []RecommendedJob{},
		Related:  []RecommendedJob{},
		Combined: []RecommendedJob{},
		HasMore:  hasMore,
		Count:    len(page),
	}
	for _, c := range page {
		rec := RecommendedJob{Job: c.job, ContactPhone: phones[c.job.PostedBy]}
		result.Combined = append(result.Combined, rec)
		if c.match == ExactMatch {
			result.Exact = append(result.Exact, rec)
		} else {
			// RelatedMatch, plus cached members whose edited job no longer
			// classifies: membership is cached, so they stay on the page
			// under the weaker bucket.
			result.Related = append(result.Related, rec)
		}
	}
	return result
}

func (e *Engine) pageLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultPageSize
	}
	if limit > e.cfg.MaxPageSize {
		return e.cfg.MaxPageSize
	}
	return limit
}

// paginate filters exclusions, takes the first limit items and reports
// whether more eligible items remain beyond the page.
func paginate(ordered []classified, excludeIDs []string, limit int) ([]classified, bool) {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	eligible := make([]classified, 0, len(ordered))
	for _, c := range ordered {
		if !excluded[c.job.ID] {
			eligible = append(eligible, c)
		}
	}

	if len(eligible) <= limit {
		return eligible, false
	}
	return eligible[:limit], true
}

func sortByScore(jobs []scoredJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].score > jobs[j].score
	})
}

func truncate(jobs []scoredJob, max int) []scoredJob {
	if len(jobs) > max {
		return jobs[:max]
	}
	return jobs
}

// InvalidateRecommendations clears the cached recommendation state for a
// worker. Profile-update actions must call this so the next request
// recomputes against the edited profile.
func (e *Engine) InvalidateRecommendations(ctx context.Context, workerID string) error {
	if err := e.profiles.ClearRecommendationCache(ctx, workerID); err != nil {
		return apperrors.NewCacheClearFailedError(err)
	}
	metrics.CacheInvalidations.Inc()
	return nil
}
