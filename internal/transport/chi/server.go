package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	dom "github.com/kailas-cloud/webrag/internal/domain/ingest"
	"github.com/kailas-cloud/webrag/internal/domain/prompt"
	logpkg "github.com/kailas-cloud/webrag/internal/logger"
	chatuc "github.com/kailas-cloud/webrag/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/webrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/webrag/internal/usecase/ingest"
	"github.com/kailas-cloud/webrag/internal/usecase/retrieval"
)

const (
	maxIngestURLs = 100
	maxBodyBytes  = 1 << 20
)

// Ingester runs the ingestion pipeline.
type Ingester interface {
	IngestWithMode(ctx context.Context, urls []string, mode dom.Mode, obs ingestuc.Observer) (dom.Report, error)
	Mode() dom.Mode
}

// ContextBuilder assembles grounded prompts.
type ContextBuilder interface {
	BuildContext(ctx context.Context, question string, limit int) (retrieval.Result, error)
}

// Replier answers a conversation with a token stream.
type Replier interface {
	Reply(ctx context.Context, messages []prompt.Message) (chatuc.Reply, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API.
type Server struct {
	ingest        Ingester
	contexts      ContextBuilder
	chat          Replier
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. chat may be nil when no chat model is configured.
func NewServer(
	ingest Ingester,
	contexts ContextBuilder,
	chat Replier,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	return &Server{
		ingest:        ingest,
		contexts:      contexts,
		chat:          chat,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ingest", s.Ingest)
		r.Post("/context", s.Context)
		if s.chat != nil {
			r.Post("/chat", s.Chat)
		}
	})
}

// Ingest handles POST /api/v1/ingest.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if !s.decode(w, r, &req) {
		return
	}

	if len(req.URLs) > maxIngestURLs {
		writeError(w, http.StatusBadRequest, CodeInvalidInput,
			fmt.Sprintf("urls count must be at most %d", maxIngestURLs))
		return
	}

	mode := s.ingest.Mode()
	if req.Mode != "" {
		m, err := dom.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidInput, err.Error())
			return
		}
		mode = m
	}

	report, err := s.ingest.IngestWithMode(r.Context(), req.URLs, mode, nil)
	items := reportToItems(report.Results)
	if err != nil {
		s.logFor(r).Warn("ingest failed", zap.Int("urls", len(req.URLs)), zap.Error(err))
		status, code := statusFor(err)
		writeJSON(w, status, IngestErrorResponse{
			ErrorResponse: ErrorResponse{Code: code, Message: safeDomainMessage(err)},
			Results:       items,
		})
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Results:        items,
		ChunksInserted: report.ChunksInserted(),
		Failed:         report.Failed(),
	})
}

// Context handles POST /api/v1/context.
func (s *Server) Context(w http.ResponseWriter, r *http.Request) {
	var req ContextRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.contexts.BuildContext(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ContextResponse{
		Prompt:   res.Prompt,
		Degraded: res.Degraded,
		Chunks:   chunksToItems(res.Context.Chunks),
	})
}

// Chat handles POST /api/v1/chat. The reply is streamed as text/plain.
// Errors before the stream opens are JSON; errors mid-stream end the body early.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decode(w, r, &req) {
		return
	}

	reply, err := s.chat.Reply(r.Context(), req.Messages)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	defer func() { _ = reply.Stream.Close() }()

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Context-Chunks", strconv.Itoa(reply.Chunks))
	if reply.Degraded {
		w.Header().Set("X-Context-Degraded", "true")
	}
	w.WriteHeader(http.StatusOK)

	for {
		tok, err := reply.Stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			s.logFor(r).Error("chat stream interrupted", zap.Error(err))
			return
		}
		if _, err := io.WriteString(w, tok); err != nil {
			s.logFor(r).Warn("client went away mid-stream", zap.Error(err))
			return
		}
		_ = rc.Flush()
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) logFor(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logFor(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
