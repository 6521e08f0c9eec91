// internal/matching/engine.go
package matching

import (
	"context"
	"runtime"
	"time"

	"festival-matcher/internal/common/logger"
	"festival-matcher/pkg/refdata"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultEligibilityFloor excludes results at or below this overall score.
const DefaultEligibilityFloor = 20.0

const slowRankingThreshold = 500 * time.Millisecond

type Options struct {
	// Concurrency bounds the scoring goroutines. Zero means GOMAXPROCS.
	Concurrency      int
	EligibilityFloor float64
	Tables           *refdata.Tables
}

type Request struct {
	RequestID  string      `json:"requestId,omitempty"`
	Candidates []Candidate `json:"candidates"`
	Answers    Answers     `json:"answers"`
	Limit      int         `json:"limit"`
}

type Response struct {
	RequestID        string            `json:"requestId"`
	Matches          []MatchResult     `json:"matches"`
	Profile          PreferenceProfile `json:"profile"`
	Weights          Weights           `json:"weights"`
	CandidatesScored int               `json:"candidatesScored"`
	EligibleCount    int               `json:"eligibleCount"`
	Skipped          int               `json:"skipped"`
}

// Engine scores and ranks candidates. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	scorers     []Scorer
	concurrency int
	floor       float64
	logger      logger.Logger
}

func NewEngine(opts Options, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	floor := opts.EligibilityFloor
	if floor <= 0 {
		floor = DefaultEligibilityFloor
	}
	return &Engine{
		scorers:     DefaultScorers(opts.Tables),
		concurrency: concurrency,
		floor:       floor,
		logger:      log,
	}
}

// Match ranks req.Candidates against req.Answers and returns at most req.Limit
// results. It fails with *InvalidInputError on an unusable request, or with the
// context error if ctx ends while scoring.
func (e *Engine) Match(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if req.Limit < 1 {
		return nil, invalidInput("limit", "must be at least 1, got %d", req.Limit)
	}
	if len(req.Candidates) == 0 {
		return nil, invalidInput("candidates", "catalog is empty")
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	log := e.logger.WithFields(map[string]interface{}{"requestId": requestID})

	candidates := e.uniqueCandidates(req.Candidates, log)
	if len(candidates) == 0 {
		return nil, invalidInput("candidates", "no candidate has an id")
	}

	profile := BuildProfile(req.Answers)
	weights := SelectWeights(profile, ComputeStats(candidates))

	results, err := e.scoreAll(ctx, profile, weights, candidates)
	if err != nil {
		return nil, err
	}

	eligible := FilterEligible(Rank(results), e.floor)
	matches := Diversify(eligible, req.Limit)

	duration := time.Since(start)
	log.Info("ranking completed", map[string]interface{}{
		"inputCount":  len(req.Candidates),
		"scored":      len(candidates),
		"eligible":    len(eligible),
		"outputCount": len(matches),
		"durationMs":  duration.Milliseconds(),
	})
	if duration > slowRankingThreshold {
		log.Warn("ranking exceeded target latency", map[string]interface{}{
			"durationMs": duration.Milliseconds(),
		})
	}

	return &Response{
		RequestID:        requestID,
		Matches:          matches,
		Profile:          profile,
		Weights:          weights,
		CandidatesScored: len(candidates),
		EligibleCount:    len(eligible),
		Skipped:          len(req.Candidates) - len(candidates),
	}, nil
}

// Score evaluates a single candidate. Exposed for callers that explain one
// festival without ranking the catalog.
func (e *Engine) Score(profile PreferenceProfile, weights Weights, c Candidate) MatchResult {
	results := make(map[Criterion]CriterionResult, len(e.scorers))
	for _, s := range e.scorers {
		results[s.Criterion()] = s.Score(profile, c)
	}
	return Aggregate(c, weights, results)
}

func (e *Engine) scoreAll(ctx context.Context, profile PreferenceProfile, weights Weights, candidates []Candidate) ([]MatchResult, error) {
	results := make([]MatchResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range candidates {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Score(profile, weights, candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) uniqueCandidates(in []Candidate, log logger.Logger) []Candidate {
	seen := make(map[string]bool, len(in))
	out := make([]Candidate, 0, len(in))
	for idx, c := range in {
		if c.ID == "" {
			log.Warn("skipping candidate without id", map[string]interface{}{
				"index": idx,
				"name":  c.Name,
			})
			continue
		}
		if seen[c.ID] {
			log.Warn("skipping duplicate candidate", map[string]interface{}{
				"index":       idx,
				"candidateId": c.ID,
			})
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}
