// Package service contains application services.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/scenecast/scenecast/internal/domain/policy"
	"github.com/scenecast/scenecast/internal/domain/session"
	"github.com/scenecast/scenecast/internal/requesthandler"
)

// tracerName identifies request service spans.
const tracerName = "github.com/scenecast/scenecast/internal/service"

// RequestService executes protocol requests for established sessions.
// It applies the request policy gate, dispatches to the handler table,
// and records the outcome.
type RequestService struct {
	handler *requesthandler.Handler
	gate    policy.Gate
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRequestService creates a RequestService. A nil gate allows all
// requests.
func NewRequestService(handler *requesthandler.Handler, gate policy.Gate, logger *slog.Logger) *RequestService {
	if gate == nil {
		gate = policy.AllowAll{}
	}
	return &RequestService{
		handler: handler,
		gate:    gate,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Execute runs one request for the given session and returns the
// outcome. The result always carries a status; transport errors are
// returned separately.
func (s *RequestService) Execute(ctx context.Context, sess *session.Session, requestType string, requestData map[string]any) (requesthandler.Result, error) {
	ctx, span := s.tracer.Start(ctx, "request.execute",
		trace.WithAttributes(
			attribute.String("request.type", requestType),
			attribute.Int("session.rpc_version", sess.RPCVersion),
		),
	)
	defer span.End()

	start := time.Now()

	decision, err := s.gate.Allow(ctx, policy.Evaluation{
		RequestType: requestType,
		RPCVersion:  sess.RPCVersion,
		Lenient:     sess.IgnoreNonFatalRequestChecks,
	})
	if err != nil {
		span.SetStatus(codes.Error, "policy evaluation failed")
		span.RecordError(err)
		return requesthandler.Result{}, fmt.Errorf("policy evaluation failed: %w", err)
	}
	if !decision.Allowed {
		result := requesthandler.Result{
			Status:  requesthandler.StatusGenericError,
			Comment: fmt.Sprintf("The request type `%s` is blocked by policy rule `%s`.", requestType, decision.Rule),
		}
		span.SetAttributes(attribute.String("policy.denied_by", decision.Rule))
		s.logger.Warn("request denied by policy",
			"session_id", sess.ID,
			"request_type", requestType,
			"rule", decision.Rule,
		)
		return result, nil
	}

	result := s.handler.Handle(sess, requestType, requestData)

	span.SetAttributes(attribute.Int("request.status", int(result.Status)))
	if !result.OK() {
		span.SetStatus(codes.Error, result.Comment)
	}

	s.logger.Debug("request processed",
		"session_id", sess.ID,
		"request_type", requestType,
		"status", result.Status.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

// RequestTypes returns the request types the handler table supports.
func (s *RequestService) RequestTypes() []string {
	return s.handler.RequestTypes()
}
