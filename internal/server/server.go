// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mcp-calorie-calc/internal/logger"
	"mcp-calorie-calc/internal/metrics"
	"mcp-calorie-calc/internal/models"
)

type Config struct {
	Transport       string
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxSuggestions  int
	Cutoff          float64
}

// MealAnalyzer produces a nutrition report for a meal description.
type MealAnalyzer interface {
	Analyze(ctx context.Context, description string, limit *float64) (*models.Report, error)
}

// FoodCatalog is the read side of the nutrient catalog used by the lookup tools.
type FoodCatalog interface {
	Find(substr string) []models.CatalogEntry
	Suggest(name string, max int, cutoff float64) []string
	Len() int
}

// maxRequestBytes bounds a CallToolRequest body before it is decoded.
const maxRequestBytes = 64 << 10

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type CalorieServer struct {
	info       protocol.Implementation
	httpServer *http.Server
	analyzer   MealAnalyzer
	catalog    FoodCatalog
	limits     *LimitStore
	validator  *Validator
	tools      map[string]toolHandler
	config     *Config
	logger     *zap.Logger
}

func NewCalorieServer(cfg *Config, analyzer MealAnalyzer, catalog FoodCatalog, log *zap.Logger) (*CalorieServer, error) {
	calorieServer := &CalorieServer{
		info: protocol.Implementation{
			Name:    "calorie-calc",
			Version: "1.0.0",
		},
		analyzer:  analyzer,
		catalog:   catalog,
		limits:    NewLimitStore(),
		validator: NewValidator(),
		config:    cfg,
		logger:    log,
	}

	if err := calorieServer.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	calorieServer.httpServer = &http.Server{
		Addr:         addr,
		Handler:      calorieServer.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return calorieServer, nil
}

func (s *CalorieServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.jsonRecoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(metrics.Middleware())

	r.Post("/", s.handleHTTP)
	r.Options("/", s.handleOptions)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (s *CalorieServer) handleOptions(w http.ResponseWriter, _ *http.Request) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleHTTP decodes a CallToolRequest and dispatches it to the named tool.
func (s *CalorieServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Errorf("%w: request body exceeds %d bytes", ErrInvalidParams, tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidParams, err))
		return
	}

	ctx, log := logger.With(r.Context(), zap.String("tool", request.Name))

	result, err := s.callTool(ctx, &request)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error("Tool call failed", zap.Error(err))
		} else {
			log.Debug("Tool call rejected", zap.Error(err))
		}
		metrics.ToolCallsTotal.WithLabelValues(toolLabel(err, request.Name), strconv.Itoa(status)).Inc()
		writeError(w, status, err)
		return
	}
	metrics.ToolCallsTotal.WithLabelValues(request.Name, strconv.Itoa(http.StatusOK)).Inc()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *CalorieServer) callTool(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	handler, ok := s.tools[req.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, req.Name)
	}
	return handler(ctx, req)
}

// toolLabel keeps unknown tool names out of the metric labels.
func toolLabel(err error, name string) string {
	if errors.Is(err, ErrUnknownTool) {
		return "unknown"
	}
	return name
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidParams):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := errorResponse{Error: err.Error()}
	var verr *ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *CalorieServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          "ok",
		"server":          s.info,
		"catalog_entries": s.catalog.Len(),
	})
}

// jsonRecoverer returns JSON instead of a plain text stacktrace on panic.
func (s *CalorieServer) jsonRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.logger.Error("panic recovered",
					zap.Any("panic", rvr),
					zap.Stack("stacktrace"),
				)
				writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestLogger puts a per-request logger in the context and emits one line per request.
func (s *CalorieServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := chiMiddleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		reqLogger := s.logger.With(zap.String("request_id", requestID))
		ctx := logger.ContextWithLogger(r.Context(), reqLogger)

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLogger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", r.RemoteAddr),
			zap.Int("response_bytes", ww.BytesWritten()),
		)
	})
}

func (s *CalorieServer) Start(ctx context.Context) error {
	s.logger.Info("Starting calorie calculator server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *CalorieServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *CalorieServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
