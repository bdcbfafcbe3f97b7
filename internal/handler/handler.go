// Package handler wires the workspace-details Lambda invocation: archive the
// raw event, normalize it, execute the command and shape the response.
package handler

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"

	"wsdetails/internal/logging"
	"wsdetails/internal/response"
	"wsdetails/internal/workspace"
)

// Archiver persists raw events. Failures never affect the response.
type Archiver interface {
	Archive(ctx context.Context, event []byte) (string, error)
}

// Recorder receives handler-level metrics in addition to store calls.
type Recorder interface {
	workspace.MetricsRecorder
	Invocation(source, kind, outcome string)
	Archived(success bool)
}

// Handler serves one invocation at a time and keeps no per-invocation state.
type Handler struct {
	exec      *workspace.Executor
	responses response.Builder
	logger    logging.Logger
	archive   Archiver
	metrics   Recorder
	table     string
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the base logger; the default drops output.
func WithLogger(l logging.Logger) Option { return func(h *Handler) { h.logger = l } }

// WithArchive enables raw-event archiving.
func WithArchive(a Archiver) Option { return func(h *Handler) { h.archive = a } }

// WithMetrics installs a metrics recorder.
func WithMetrics(r Recorder) Option { return func(h *Handler) { h.metrics = r } }

// WithTable names the target table in log output.
func WithTable(table string) Option { return func(h *Handler) { h.table = table } }

// New constructs a Handler over store answering for origin.
func New(store workspace.Store, origin string, opts ...Option) *Handler {
	h := &Handler{responses: response.NewBuilder(origin), logger: logging.Discard()}
	for _, opt := range opts {
		opt(h)
	}
	var execOpts []workspace.ExecutorOption
	if h.metrics != nil {
		execOpts = append(execOpts, workspace.WithMetrics(h.metrics))
	}
	h.exec = workspace.NewExecutor(store, execOpts...)
	return h
}

// Handle is the Lambda entrypoint. Domain outcomes, including store
// failures, are rendered into the response; the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	log := h.logger
	if h.table != "" {
		log = log.With("table", h.table)
	}
	ctx = logging.WithLogger(ctx, log)
	log.Info(ctx, "received event", "event", string(event))

	h.archiveEvent(ctx, event)

	cmd, source := workspace.Normalize(event)
	log = log.With("source", string(source), "kind", cmd.Kind.String())
	switch cmd.Kind {
	case workspace.KindRead:
		log.Info(ctx, "reading workspace", "username", cmd.Username, "email", cmd.Email)
	case workspace.KindWrite:
		status := "<unchanged>"
		if cmd.Status != nil {
			status = *cmd.Status
		}
		log.Info(ctx, "updating workspace", "username", cmd.Username, "email", cmd.Email, "status", status)
	default:
		log.Warn(ctx, "no recognized action in event")
	}

	res := h.exec.Execute(ctx, cmd)
	switch res.Outcome {
	case workspace.OutcomeStoreError, workspace.OutcomeUpdateFailed:
		log.Error(ctx, "store call failed", "outcome", res.Outcome.String(), "error", res.Err)
	case workspace.OutcomeFound:
		log.Info(ctx, "workspace found", "username", res.Record.Username, "email", res.Record.Email, "status", res.Record.Status)
	default:
		log.Info(ctx, "command complete", "outcome", res.Outcome.String())
	}
	if h.metrics != nil {
		h.metrics.Invocation(string(source), cmd.Kind.String(), res.Outcome.String())
	}
	return h.responses.Build(res), nil
}

func (h *Handler) archiveEvent(ctx context.Context, event []byte) {
	if h.archive == nil {
		return
	}
	key, err := h.archive.Archive(ctx, event)
	if h.metrics != nil {
		h.metrics.Archived(err == nil)
	}
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "archive event failed", "error", err)
		return
	}
	logging.FromContext(ctx).Debug(ctx, "archived event", "key", key)
}
