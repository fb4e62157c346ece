// internal/workers/recommendation/combined-recommendation/handler.go
package combinedrecommendation

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"trip-recommender/internal/common/errors"
	"trip-recommender/internal/common/logger"
	"trip-recommender/internal/common/metrics"
	"trip-recommender/internal/common/observability"
	"trip-recommender/internal/model"
	"trip-recommender/internal/recommend"
)

const TaskType = "combined-recommendation"

type Handler struct {
	config       *Config
	source       ReferenceSource
	engine       *recommend.Engine
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

type HandlerOptions struct {
	Config *Config
	Source ReferenceSource
	Scorer recommend.Scorer
	// Observability is optional.
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("%s: reference source is required", TaskType)
	}
	if opts.Scorer == nil {
		return nil, fmt.Errorf("%s: scorer is required", TaskType)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = LoadConfig(nil)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       cfg,
		source:       opts.Source,
		engine:       recommend.NewEngine(cfg.Engine, opts.Scorer, log),
		obs:          opts.Observability,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("jobKey", job.Key))
	defer span.End()

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
			h.obs.RecordJobProcessed(ctx, TaskType, "success")
			h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "success")
			h.obs.RecordRecommendations(ctx, output.Count)
			return
		}
	}

	stdErr := toStandardError(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(stdErr.Code))
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")

	// The job context may already be past its deadline; reporting must still go out.
	reportCtx, reportCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer reportCancel()
	h.errorHandler.HandleJobError(reportCtx, client, job, stdErr)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if err := ValidateVariables(job.Variables, len(h.config.Engine.Seeds)); err != nil {
		return nil, errors.NewInputValidationError(err.Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInputValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", recommend.ErrInvalidSelection)
	}

	data, err := h.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.engine.Recommend(ctx, data, &recommend.Request{
		Order:               input.InputOrder,
		PreferredCategories: input.PreferredCategories,
		Users:               input.Users,
		MaxItems:            input.MaxItems,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		RequestID:       uuid.New().String(),
		Recommendations: result.Recommendations,
		Count:           len(result.Recommendations),
	}, nil
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
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":    job.Key,
		"requestId": output.RequestID,
		"count":     output.Count,
	})
}

// Execute runs the recommendation without a Zeebe job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// toStandardError maps domain sentinels onto the job error taxonomy.
func toStandardError(err error) *errors.StandardError {
	var stdErr *errors.StandardError
	var refErr *ReferenceError

	switch {
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.As(err, &refErr):
		return errors.NewReferenceDataLoadError(string(refErr.Table), refErr.Err)
	case stderrors.Is(err, recommend.ErrInvalidSelection):
		return errors.NewInputValidationError(err.Error())
	case stderrors.Is(err, recommend.ErrSchemaMismatch):
		return errors.NewModelSchemaMismatchError(err.Error())
	case stderrors.Is(err, model.ErrModelTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewModelTimeoutError(err)
	case stderrors.Is(err, model.ErrModelUnavailable):
		return errors.NewModelInvocationFailedError(err)
	case stderrors.Is(err, model.ErrMissingArtifact):
		return errors.NewModelArtifactMissingError("", err)
	default:
		return errors.Normalize(err)
	}
}
