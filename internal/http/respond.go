package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/services"
	"finledger/internal/store"
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

type allocationBody struct {
	Error         string  `json:"error"`
	NetSavings    float64 `json:"netSavings"`
	AllocationSum float64 `json:"allocationSum"`
}

type importFailure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

var validationErrors = []error{
	errBadRequest,
	core.ErrInvalidYear,
	core.ErrInvalidMonth,
	core.ErrInvalidAmount,
	core.ErrNegativeAmount,
	core.ErrEmptyItemName,
	core.ErrEmptyGoalName,
	core.ErrInvalidGoalType,
	core.ErrInvalidTarget,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to status codes. Anything unrecognised is a
// storage failure and is logged.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var alloc *core.AllocationError
	switch {
	case errors.As(err, &alloc):
		writeJSON(w, http.StatusUnprocessableEntity, allocationBody{
			Error:         alloc.Error(),
			NetSavings:    alloc.NetSavings,
			AllocationSum: alloc.AllocationSum,
		})
	case errors.Is(err, services.ErrImportDecode):
		writeJSON(w, http.StatusBadRequest, importFailure{OK: false, Error: err.Error()})
	case errors.Is(err, store.ErrNotInitialized):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, store.ErrGoalNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case isValidation(err):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		fields := log.NewFields()
		if id := r.PathValue("id"); id != "" && op == log.OpGoal {
			fields.WithGoal(id)
		}
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Ledger operation failed", err, op, fields)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// parseYear reads the optional year query parameter. An absent or empty value means all years.
func parseYear(r *http.Request) (*int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "" || v == "all" {
		return nil, nil
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 0 {
		return nil, fmt.Errorf("%w: invalid year %q", errBadRequest, v)
	}
	return &y, nil
}
