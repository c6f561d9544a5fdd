package function

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crosswarped.com/springs"
	"crosswarped.com/springs/internal/config"
	"crosswarped.com/springs/pkg/primitives"
)

type CountRequest struct {
	Records []string `json:"records"`
	Factors []int    `json:"factors"`
	Scope   string   `json:"scope"`
}

type CountResponse struct {
	Success   bool           `json:"success"`
	RequestID string         `json:"requestId"`
	Totals    map[int]uint64 `json:"totals,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// RecordSource loads stored records for a scope.
type RecordSource interface {
	Records(ctx context.Context, scope string) ([]primitives.Record, error)
}

// errBadRequest marks errors caused by the request contents.
var errBadRequest = errors.New("bad request")

type Handler struct {
	cfg    *config.Config
	solver *springs.Solver
	source RecordSource
	logger *zap.Logger
}

// NewHandler returns a handler. source may be nil, in which case requests
// with a scope are rejected.
func NewHandler(cfg *config.Config, solver *springs.Solver, source RecordSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:    cfg,
		solver: solver,
		source: source,
		logger: logger,
	}
}

func (h *Handler) execute(ctx context.Context, req CountRequest) (map[int]uint64, error) {
	if len(req.Factors) == 0 {
		req.Factors = []int{1, h.cfg.UnfoldFactor}
	}
	maxFactor := 1
	for _, f := range req.Factors {
		if f < 1 || f > h.cfg.MaxFactor {
			return nil, fmt.Errorf("%w: factor %d must be between 1 and %d", errBadRequest, f, h.cfg.MaxFactor)
		}
		maxFactor = max(maxFactor, f)
	}

	records := make([]primitives.Record, 0, len(req.Records))
	for i, line := range req.Records {
		rec, err := primitives.ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", errBadRequest, i+1, err)
		}
		records = append(records, rec)
	}

	if req.Scope != "" {
		if h.source == nil {
			return nil, fmt.Errorf("%w: scope %q requested but no record source is configured", errBadRequest, req.Scope)
		}
		stored, err := h.source.Records(ctx, req.Scope)
		if err != nil {
			return nil, fmt.Errorf("loading scope %q: %w", req.Scope, err)
		}
		h.logger.Info("loaded stored records", zap.String("scope", req.Scope), zap.Int("records", len(stored)))
		records = append(records, stored...)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: records must not be empty", errBadRequest)
	}
	if len(records) > h.cfg.MaxRecords {
		return nil, fmt.Errorf("%w: at most %d records are allowed, got %d", errBadRequest, h.cfg.MaxRecords, len(records))
	}
	for i, rec := range records {
		if n := unfoldedLength(len(rec.States), maxFactor); n > h.cfg.MaxRowLength {
			return nil, fmt.Errorf("%w: record %d is %d springs long at factor %d, limit is %d",
				errBadRequest, i+1, n, maxFactor, h.cfg.MaxRowLength)
		}
	}

	totals, err := h.solver.Totals(ctx, records, req.Factors...)
	if err != nil {
		return nil, err
	}
	for f := range totals {
		recordsCounted.WithLabelValues(strconv.Itoa(f)).Add(float64(len(records)))
	}
	return totals, nil
}

// unfoldedLength is the row length of a record of n springs unfolded factor
// times, including the joining unknowns.
func unfoldedLength(n, factor int) int {
	return factor*n + factor - 1
}

// statusFor maps an execute error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, springs.ErrOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

// CountArrangements is the HTTP entry point.
func (h *Handler) CountArrangements(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	// Handle OPTIONS request for CORS preflight
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	start := time.Now()
	resp := CountResponse{RequestID: uuid.NewString()}
	logger := h.logger.With(zap.String("requestId", resp.RequestID))

	if r.Method != http.MethodPost {
		resp.Error = fmt.Sprintf("Method %s not allowed", r.Method)
		h.respond(w, logger, http.StatusMethodNotAllowed, resp)
		return
	}

	var req CountRequest
	body := http.MaxBytesReader(w, r.Body, h.cfg.MaxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("request body too large", zap.Int64("limit", tooLarge.Limit))
			resp.Error = fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)
			h.respond(w, logger, http.StatusRequestEntityTooLarge, resp)
			return
		}
		logger.Warn("invalid JSON body", zap.Error(err))
		resp.Error = fmt.Sprintf("Invalid JSON: %v", err)
		h.respond(w, logger, http.StatusBadRequest, resp)
		return
	}

	totals, err := h.execute(r.Context(), req)
	requestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		status := statusFor(err)
		logger.Warn("count failed", zap.Error(err), zap.Int("status", status))
		resp.Error = err.Error()
		h.respond(w, logger, status, resp)
		return
	}

	resp.Success = true
	resp.Totals = totals
	logger.Info("count succeeded", zap.Any("totals", totals), zap.Duration("took", time.Since(start)))
	h.respond(w, logger, http.StatusOK, resp)
}

func (h *Handler) respond(w http.ResponseWriter, logger *zap.Logger, status int, resp CountResponse) {
	result := "ok"
	if !resp.Success {
		result = "error"
	}
	requestsTotal.WithLabelValues(result).Inc()

	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("encoding response", zap.Error(err))
	}
}
