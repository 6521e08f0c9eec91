// internal/workers/matching/rank-festival-matches/handler.go
package rankfestivalmatches

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"festival-matcher/internal/catalog"
	"festival-matcher/internal/common/errors"
	"festival-matcher/internal/common/logger"
	"festival-matcher/internal/common/metrics"
	"festival-matcher/internal/common/observability"
	"festival-matcher/internal/common/validation"
	"festival-matcher/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const TaskType = "rank-festival-matches"

var schema = validation.MustCompile(inputSchema)

// SnapshotProvider supplies the catalog used when a job carries no candidates.
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}

type Handler struct {
	config       *Config
	engine       *matching.Engine
	catalog      SnapshotProvider
	redis        *redis.Client
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Engine        *matching.Engine
	Catalog       SnapshotProvider
	Redis         *redis.Client
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if cfg.CacheEnabled && opts.Redis == nil {
		return nil, fmt.Errorf("invalid configuration for %s: result cache enabled without redis", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	engine := opts.Engine
	if engine == nil {
		engine = matching.NewEngine(matching.Options{}, log)
	}

	return &Handler{
		config:       cfg,
		engine:       engine,
		catalog:      opts.Catalog,
		redis:        opts.Redis,
		obs:          opts.Observability,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	if !h.config.Enabled {
		h.completeJob(ctx, client, job, &Output{Matches: []matching.MatchResult{}})
		return
	}

	input, err := parseInput(job.Variables)
	if err == nil {
		var output *Output
		output, err = h.execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
			h.obs.RecordJob(ctx, TaskType, "completed", time.Since(start))
			return
		}
	}

	stdErr := toStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func parseInput(variables string) (*Input, error) {
	if variables == "" {
		return &Input{}, nil
	}

	res, err := schema.ValidateBytes([]byte(variables))
	if err != nil {
		return nil, errors.NewProfileParseFailedError(err)
	}
	if err := res.Err(); err != nil {
		return nil, errors.NewProfileParseFailedError(err)
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewProfileParseFailedError(err)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	candidates, version, err := h.candidates(input)
	if err != nil {
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	answers := input.Answers
	if answers == nil {
		answers = matching.Answers{}
	}
	limit := h.resolveLimit(input.Limit)

	key, cacheable := h.cacheKey(answers, limit, version, candidates)
	if cacheable {
		if cached := h.lookup(ctx, key); cached != nil {
			cached.RequestID = input.RequestID
			if cached.RequestID == "" {
				cached.RequestID = uuid.New().String()
			}
			cached.Cached = true
			h.record(ctx, cached)
			return cached, nil
		}
	}

	resp, err := h.engine.Match(ctx, matching.Request{
		RequestID:  input.RequestID,
		Candidates: candidates,
		Answers:    answers,
		Limit:      limit,
	})
	if err != nil {
		return nil, h.classify(err)
	}

	output := &Output{
		RequestID:        resp.RequestID,
		Matches:          resp.Matches,
		Weights:          resp.Weights,
		CandidatesScored: resp.CandidatesScored,
		EligibleCount:    resp.EligibleCount,
		Skipped:          resp.Skipped,
		CatalogVersion:   version,
	}
	if len(resp.Matches) > 0 {
		output.TopMatchID = resp.Matches[0].CandidateID
	}

	if cacheable {
		h.store(ctx, key, output)
	}
	h.record(ctx, output)
	return output, nil
}

// candidates picks the job's own festivals, falling back to the catalog snapshot.
func (h *Handler) candidates(input *Input) ([]matching.Candidate, string, error) {
	if len(input.Candidates) > 0 {
		return input.Candidates, "", nil
	}
	if h.catalog == nil {
		return nil, "", errors.NewInvalidMatchInputError("candidates", "no candidates given and no catalog configured")
	}
	snap := h.catalog.Snapshot()
	if snap == nil {
		return nil, "", errors.NewCatalogUnavailableError("store", fmt.Errorf("catalog not loaded yet"))
	}
	return snap.Candidates, snap.Version, nil
}

func (h *Handler) resolveLimit(requested *int) int {
	if requested == nil {
		return h.config.DefaultLimit
	}
	if *requested > h.config.MaxLimit {
		return h.config.MaxLimit
	}
	return *requested
}

func (h *Handler) classify(err error) error {
	var invalid *matching.InvalidInputError
	switch {
	case stderrors.As(err, &invalid):
		metrics.MatchRequests.WithLabelValues("invalid_input").Inc()
		return errors.NewInvalidMatchInputError(invalid.Field, invalid.Reason)
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return errors.NewMatchTimeoutError(err)
	default:
		metrics.MatchRequests.WithLabelValues("error").Inc()
		return errors.NewInternalError(err)
	}
}

func (h *Handler) record(ctx context.Context, output *Output) {
	metrics.MatchRequests.WithLabelValues("ok").Inc()
	metrics.MatchCandidatesScored.Observe(float64(output.CandidatesScored))
	metrics.MatchResultsReturned.Observe(float64(len(output.Matches)))
	for _, m := range output.Matches {
		metrics.MatchTiers.WithLabelValues(string(m.RecommendationTier)).Inc()
	}
	h.obs.RecordMatch(ctx, output.CandidatesScored, output.Cached)
}

// ==========================
// Result Cache
// ==========================

type cacheKeyMaterial struct {
	Answers        matching.Answers     `json:"answers"`
	Limit          int                  `json:"limit"`
	CatalogVersion string               `json:"catalogVersion,omitempty"`
	Candidates     []matching.Candidate `json:"candidates,omitempty"`
}

// cacheKey hashes the canonical request. A versioned catalog stands in for its
// festivals; anything else is hashed in full.
func (h *Handler) cacheKey(answers matching.Answers, limit int, version string, candidates []matching.Candidate) (string, bool) {
	if !h.config.CacheEnabled || h.redis == nil || limit < 1 {
		return "", false
	}

	material := cacheKeyMaterial{Answers: answers, Limit: limit, CatalogVersion: version}
	if version == "" {
		material.Candidates = candidates
	}
	data, err := json.Marshal(material)
	if err != nil {
		h.logger.Warn("result cache key not computable", map[string]interface{}{"error": err})
		return "", false
	}
	sum := sha256.Sum256(data)
	return h.config.CacheKeyPrefix + hex.EncodeToString(sum[:]), true
}

func (h *Handler) lookup(ctx context.Context, key string) *Output {
	data, err := h.redis.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		metrics.ResultCacheLookups.WithLabelValues("miss").Inc()
		return nil
	}
	if err != nil {
		metrics.ResultCacheLookups.WithLabelValues("error").Inc()
		h.logCacheError("get", err)
		return nil
	}

	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		metrics.ResultCacheLookups.WithLabelValues("error").Inc()
		h.logCacheError("decode", err)
		return nil
	}
	metrics.ResultCacheLookups.WithLabelValues("hit").Inc()
	return &out
}

func (h *Handler) store(ctx context.Context, key string, output *Output) {
	data, err := json.Marshal(output)
	if err != nil {
		h.logCacheError("encode", err)
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logCacheError("set", err)
	}
}

func (h *Handler) logCacheError(op string, err error) {
	stdErr := errors.NewCacheUnavailableError(op, err)
	h.logger.Warn("result cache unavailable", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func toStandardError(err error) *errors.StandardError {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return errors.NewInternalError(err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
