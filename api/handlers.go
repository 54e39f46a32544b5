/*
handlers.go - HTTP API handlers for the flex-time engine

PURPOSE:
  Exposes the calculation engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates to the pure core.

ENDPOINTS:
  Policy:
    GET    /api/policy             Current policy document
    PUT    /api/policy             Replace policy (validated, persisted)

  Calculations:
    POST   /api/calculations       Run a calculation; raw table in the
                                   request body, or empty body to pull
                                   from the configured source

  Runs:
    GET    /api/runs               Run history, newest first
    GET    /api/runs/latest        Latest balance

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid policy document
  - 404: No export deposited yet (absent result, not a failure)
  - 422: Export present but holds no usable rows
  - 500: Internal errors

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/warp/flextime/factory"
	"github.com/warp/flextime/flexcore"
	"github.com/warp/flextime/source"
	"github.com/warp/flextime/store/sqlite"
)

// Uploads beyond this are not plausible attendance exports.
const maxTableBytes = 4 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Source source.Source

	calc       *flexcore.Calculator
	factory    *factory.PolicyFactory
	policyPath string

	mu     sync.RWMutex
	policy flexcore.Policy
	doc    factory.PolicyJSON
}

// NewHandler creates a handler, loading the policy document from
// policyPath (defaults apply when the file does not exist yet).
func NewHandler(store *sqlite.Store, src source.Source, policyPath string) (*Handler, error) {
	f := factory.NewPolicyFactory()
	policy, doc, err := f.Load(policyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	return &Handler{
		Store:      store,
		Source:     src,
		calc:       flexcore.NewCalculator(),
		factory:    f,
		policyPath: policyPath,
		policy:     policy,
		doc:        doc,
	}, nil
}

func (h *Handler) currentPolicy() (flexcore.Policy, factory.PolicyJSON) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.policy, h.doc
}

// =============================================================================
// POLICY ENDPOINTS
// =============================================================================

// GetPolicy returns the current policy document.
// GET /api/policy
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	_, doc := h.currentPolicy()
	writeJSON(w, http.StatusOK, doc)
}

// UpdatePolicy replaces the policy document.
// PUT /api/policy
func (h *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var doc factory.PolicyJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	policy, err := h.factory.Build(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_policy", err.Error())
		return
	}
	if err := factory.Save(h.policyPath, doc); err != nil {
		writeError(w, http.StatusInternalServerError, "policy_save_failed", err.Error())
		return
	}

	h.mu.Lock()
	h.policy = policy
	h.doc = doc
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, doc)
}

// =============================================================================
// CALCULATION ENDPOINTS
// =============================================================================

// RunCalculation runs the engine over a table and records the run. The
// table comes from the request body when present, otherwise from the
// configured source.
// POST /api/calculations
func (h *Handler) RunCalculation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTableBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "table_too_large",
				fmt.Sprintf("table exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "read_body_failed", err.Error())
		return
	}

	raw := string(body)
	if strings.TrimSpace(raw) == "" {
		raw, err = h.Source.Fetch(r.Context())
		if flexcore.IsAbsent(err) {
			// Expected before the first download: absent result.
			writeError(w, http.StatusNotFound, "source_unavailable", "no export has been deposited yet")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "source_error", err.Error())
			return
		}
	}

	result, run, err := h.Calculate(r.Context(), raw)
	if errors.Is(err, flexcore.ErrEmptyTable) {
		writeError(w, http.StatusUnprocessableEntity, "empty_table", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "calculation_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toCalculationDTO(result, run))
}

// Calculate parses the raw table, folds it under the current policy and
// appends a run record. Shared by the HTTP path and the refresher.
func (h *Handler) Calculate(ctx context.Context, raw string) (flexcore.CalculationResult, sqlite.Run, error) {
	records, err := flexcore.ParseTable(raw)
	if err != nil {
		return flexcore.CalculationResult{}, sqlite.Run{}, err
	}

	policy, _ := h.currentPolicy()
	result, err := h.calc.Calculate(records, policy)
	if err != nil {
		return flexcore.CalculationResult{}, sqlite.Run{}, err
	}

	run := sqlite.Run{
		CreatedAt:            time.Now().UTC(),
		SourceDigest:         digest(raw),
		Strategy:             h.calc.Strategy.Name(),
		WeeklyHours:          policy.WeeklyHours,
		StartingBalanceHours: policy.StartingBalanceHours,
		PeriodStart:          policy.PeriodStart.String(),
		PeriodEnd:            policy.PeriodEnd.String(),
		RecordCount:          len(records),
		BalanceMinutes:       result.BalanceMinutes,
		BalanceLabel:         result.BalanceLabel,
		LastConsideredDate:   result.LastConsideredDate.String(),
	}
	run.ID, err = h.Store.SaveRun(ctx, run)
	if err != nil {
		return flexcore.CalculationResult{}, sqlite.Run{}, fmt.Errorf("record run: %w", err)
	}

	return result, run, nil
}

// =============================================================================
// RUN HISTORY ENDPOINTS
// =============================================================================

// ListRuns returns the run history, newest first.
// GET /api/runs?limit=N
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := h.Store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRunDTOs(runs))
}

// LatestRun returns the most recent balance.
// GET /api/runs/latest
func (h *Handler) LatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.LatestRun(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "no_runs", "no calculation has been recorded yet")
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*run))
}

// =============================================================================
// HELPERS
// =============================================================================

func digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
