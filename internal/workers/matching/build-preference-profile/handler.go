// internal/workers/matching/build-preference-profile/handler.go
package buildpreferenceprofile

import (
	"context"
	"encoding/json"
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
)

const TaskType = "build-preference-profile"

var schema = validation.MustCompile(inputSchema)

// SnapshotProvider supplies the catalog the weights are tuned against.
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}

type Handler struct {
	config       *Config
	catalog      SnapshotProvider
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Catalog       SnapshotProvider
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

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       cfg,
		catalog:      opts.Catalog,
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
		h.completeJob(ctx, client, job, h.neutralOutput(""))
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	profile := matching.BuildProfile(input.Answers)

	var stats matching.CatalogStats
	if h.catalog != nil {
		if snap := h.catalog.Snapshot(); snap != nil {
			stats = snap.Stats.Costs
		}
	}

	output := &Output{
		RequestID:  input.RequestID,
		Profile:    profile,
		Weights:    matching.SelectWeights(profile, stats),
		Unanswered: profile.Unanswered(),
	}

	h.logger.Info("preference profile built", map[string]interface{}{
		"requestId":  input.RequestID,
		"genres":     len(profile.Genres),
		"region":     profile.Region,
		"unanswered": len(output.Unanswered),
	})
	return output, nil
}

func (h *Handler) neutralOutput(requestID string) *Output {
	profile := matching.BuildProfile(nil)
	return &Output{
		RequestID:  requestID,
		Profile:    profile,
		Weights:    matching.SelectWeights(profile, matching.CatalogStats{}),
		Unanswered: profile.Unanswered(),
	}
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
	if stdErr, ok := err.(*errors.StandardError); ok {
		return stdErr
	}
	return errors.NewInternalError(err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
