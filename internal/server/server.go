package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/fantasy-optimizer/internal/config"
	"github.com/iwvelando/fantasy-optimizer/internal/dataset"
	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
	"github.com/iwvelando/fantasy-optimizer/internal/roster"
	"github.com/iwvelando/fantasy-optimizer/pkg/constants"
	"github.com/iwvelando/fantasy-optimizer/pkg/milp"
	"github.com/iwvelando/fantasy-optimizer/pkg/optimization"
	"github.com/iwvelando/fantasy-optimizer/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options configures the HTTP handler.
type Options struct {
	MaxUploadSize int64
	Version       string
	Columns       config.ColumnsConfig
	Rules         config.RosterRules
	Solver        config.SolverConfig
	// Backend overrides the default branch-and-bound solver.
	Backend milp.Solver
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	columns       config.ColumnsConfig
	rules         config.RosterRules
	solver        config.SolverConfig
	backend       milp.Solver
}

// NewHandler constructs the HTTP handler that serves the optimizer API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if opts.Columns == (config.ColumnsConfig{}) {
		opts.Columns = config.DefaultColumns()
	}
	opts.Rules.Normalize()

	h := &handler{
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
		version:       trimmedVersion,
		columns:       opts.Columns,
		rules:         opts.Rules,
		solver:        opts.Solver,
		backend:       opts.Backend,
	}

	mux := http.NewServeMux()

	// Roster optimization (player pool upload)
	mux.HandleFunc("/api/optimize", h.handleOptimize)

	// Effective roster rules
	mux.HandleFunc("/api/rules", h.handleRules)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type optimizeResponse struct {
	Summary     optimization.Summary `json:"summary"`
	Model       string               `json:"model"`
	SolutionCSV string               `json:"solutionCsv"`
	Rules       config.RosterRules   `json:"rules"`
	Duration    string               `json:"duration"`
}

type errorResponse struct {
	Error       string   `json:"error"`
	Status      string   `json:"status,omitempty"`
	Field       string   `json:"field,omitempty"`
	Player      string   `json:"player,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, op, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize)})
			return
		}
		h.respondError(w, op, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to parse upload: %v", err)})
		return
	}

	rules, err := h.rulesFor(r)
	if err != nil {
		h.respondError(w, op, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, op, http.StatusBadRequest, errorResponse{Error: "missing player pool file"})
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

	table, err := dataset.Read(file)
	if err != nil {
		h.respondFailure(w, op, err)
		return
	}
	enc, err := table.Encode(h.columns)
	if err != nil {
		h.respondFailure(w, op, err)
		return
	}

	opt, err := roster.NewOptimizer(h.logger, h.backend, rules, h.solver)
	if err != nil {
		h.respondError(w, op, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	model, err := opt.BuildModel(enc)
	if err != nil {
		h.respondFailure(w, op, err)
		return
	}
	var lp bytes.Buffer
	if err := milp.WriteLP(&lp, model.Program); err != nil {
		h.respondFailure(w, op, err)
		return
	}

	sol, err := opt.SolveModel(r.Context(), enc, model)
	if err != nil {
		h.respondFailure(w, op, err)
		return
	}

	selected, err := table.Filter(h.columns.Name, sol.Players)
	if err != nil {
		h.respondFailure(w, op, err)
		return
	}
	var csvBuf bytes.Buffer
	if err := selected.Write(&csvBuf); err != nil {
		h.respondError(w, op, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("failed to render solution: %v", err)})
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("roster optimized",
		zap.String("op", op),
		zap.String("id", sol.ID.String()),
		zap.Int("players", len(enc.Players)),
		zap.Float64("objective", sol.Objective),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, optimizeResponse{
		Summary:     sol.Summary(rules),
		Model:       lp.String(),
		SolutionCSV: csvBuf.String(),
		Rules:       rules,
		Duration:    elapsed.String(),
	})
}

// rulesFor applies the optional maxCredits and rosterSize form overrides.
func (h *handler) rulesFor(r *http.Request) (config.RosterRules, error) {
	rules := h.rules
	credits, err := validation.ParsePositiveFloat("maxCredits", r.FormValue("maxCredits"))
	if err != nil {
		return rules, err
	}
	if credits > 0 {
		rules.MaxCredits = credits
	}
	size, err := validation.ParsePositiveInt("rosterSize", r.FormValue("rosterSize"))
	if err != nil {
		return rules, err
	}
	if size > 0 {
		rules.RosterSize = size
	}
	return rules, nil
}

func (h *handler) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Query().Get("format") == "yaml" {
		data, err := yaml.Marshal(h.rules)
		if err != nil {
			h.respondError(w, "server.handleRules", http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	h.writeJSON(w, http.StatusOK, h.rules)
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

// respondFailure maps a pipeline error to its HTTP status.
func (h *handler) respondFailure(w http.ResponseWriter, op string, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusBadRequest

	var schemaErr *ferrors.SchemaError
	var infeasible *ferrors.InfeasibleError
	switch {
	case ferrors.As(err, &schemaErr):
		resp.Field = schemaErr.Field
		resp.Player = schemaErr.Player
	case ferrors.As(err, &infeasible):
		status = http.StatusUnprocessableEntity
		resp.Status = infeasible.Status.String()
		resp.Diagnostics = infeasible.Diagnostics
	case ferrors.Is(err, ferrors.ErrTimeout):
		status = http.StatusGatewayTimeout
		resp.Status = milp.StatusTimeLimit.String()
	case ferrors.Is(err, ferrors.ErrSolver):
		status = http.StatusInternalServerError
		resp.Status = ferrors.StatusOf(err).String()
	}
	h.respondError(w, op, status, resp)
}

func (h *handler) respondError(w http.ResponseWriter, op string, status int, resp errorResponse) {
	h.logger.Error("optimize request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", resp.Error),
	)

	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
