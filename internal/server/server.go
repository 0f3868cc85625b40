package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/project-viability/internal/config"
	"github.com/iwvelando/project-viability/internal/evaluation"
	"github.com/iwvelando/project-viability/internal/metrics"
	"github.com/iwvelando/project-viability/pkg/adapters"
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/indicators"
	"github.com/iwvelando/project-viability/pkg/output"
	"github.com/iwvelando/project-viability/pkg/project"
	"github.com/iwvelando/project-viability/pkg/sensitivity"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	metrics       *metrics.Metrics
}

// NewHandler constructs the HTTP handler that serves the evaluation API.
// A nil metrics records nothing; /metrics still exposes the default registry.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, m *metrics.Metrics) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, metrics: m}

	mux := http.NewServeMux()

	// Full evaluation of an uploaded project file
	mux.HandleFunc("/api/evaluate", h.handleEvaluate)

	// Full evaluation of an editor-built project
	mux.HandleFunc("/api/editor/evaluate", h.handleEvaluateEditor)

	// Live previews
	mux.HandleFunc("/api/quick/npv", h.handleQuickNPV)
	mux.HandleFunc("/api/quick/irr", h.handleQuickIRR)

	mux.HandleFunc("/api/sensitivity", h.handleSensitivity)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

type evaluateResponse struct {
	evaluation.Report
	CSV        string `json:"csv"`
	Duration   string `json:"duration"`
	ConfigYAML string `json:"configYaml,omitempty"`
}

type sensitivityResponse struct {
	Scenarios map[string]sensitivity.Result `json:"scenarios"`
	Order     []string                      `json:"order"`
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing project file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read project file: %v", err), op)
		return
	}

	h.runEvaluation(w, buf.Bytes(), start, op)
}

func (h *handler) handleEvaluateEditor(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluateEditor"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	configBytes, ok := h.decodeConfigBody(w, r, op)
	if !ok {
		return
	}

	h.runEvaluation(w, configBytes, start, op)
}

func (h *handler) handleQuickNPV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuickNPV"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	cfg, ok := h.loadConfigBody(w, r, op)
	if !ok {
		return
	}
	p, err := adapters.ToProject(cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	npv, err := indicators.QuickNPV(p.Parameters, p.Costs, p.Revenues)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]float64{"npv": npv})
}

func (h *handler) handleQuickIRR(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuickIRR"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	cfg, ok := h.loadConfigBody(w, r, op)
	if !ok {
		return
	}
	p, err := adapters.ToProject(cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	irr, err := indicators.QuickIRR(p.Parameters, p.Costs, p.Revenues)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]*float64{"irr": irr})
}

func (h *handler) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSensitivity"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	cfg, ok := h.loadConfigBody(w, r, op)
	if !ok {
		return
	}
	p, err := adapters.ToProject(cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	// Custom scenarios replace the defaults here.
	scenarios := make([]sensitivity.Scenario, 0, len(cfg.Sensitivity.Scenarios))
	for _, s := range cfg.Sensitivity.Scenarios {
		scenarios = append(scenarios, s.ToScenario(cfg.Project))
	}
	if len(scenarios) == 0 {
		scenarios = sensitivity.DefaultScenarios(cfg.Project.DiscountRate)
	}

	results, err := sensitivity.NewEngine(h.logger).Run(p, scenarios)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.metrics.ObserveScenarios(results)

	order := make([]string, 0, len(results))
	for _, result := range results {
		order = append(order, result.Scenario.Name)
	}

	h.writeJSON(w, http.StatusOK, sensitivityResponse{
		Scenarios: sensitivity.Collect(results),
		Order:     order,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeConfigBody reads a JSON project body and re-encodes it as YAML. The
// project may be wrapped in a "config" key.
func (h *handler) decodeConfigBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode project: %v", err), op)
		return nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return nil, false
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode project: %v", err), op)
		return nil, false
	}
	return configBytes, true
}

func (h *handler) loadConfigBody(w http.ResponseWriter, r *http.Request, op string) (*config.Configuration, bool) {
	configBytes, ok := h.decodeConfigBody(w, r, op)
	if !ok {
		return nil, false
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	return cfg, true
}

func (h *handler) runEvaluation(w http.ResponseWriter, configBytes []byte, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	report, err := evaluation.GetEvaluationWithOptions(h.logger, *cfg, evaluation.Options{Metrics: h.metrics})
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	csvData, err := output.CsvString(report)
	if err != nil {
		h.logger.Warn("failed to render CSV",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	elapsed := time.Since(start)
	response := evaluateResponse{
		Report:     report,
		CSV:        csvData,
		Duration:   elapsed.String(),
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("evaluation served",
		zap.String("op", op),
		zap.String("id", report.ID),
		zap.Int("scenarios", len(report.Scenarios)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// statusFor maps engine errors to a response status. Invalid input is the
// caller's fault, anything else is ours.
func statusFor(err error) int {
	if errors.Is(err, config.ErrInvalidConfiguration) ||
		errors.Is(err, project.ErrInvalidHorizon) ||
		errors.Is(err, project.ErrNegativeInvestment) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("evaluation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
