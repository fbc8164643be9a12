package http

import (
	"net/http"

	"finledger/internal/core"
	"finledger/internal/log"
)

type overviewResponse struct {
	core.Overview
	Currency  string            `json:"currency"`
	Formatted map[string]string `json:"formatted"`
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	data, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var baseline core.InitialAssets
	if err := decodeJSON(w, r, &baseline); err != nil {
		writeError(w, r, log.OpInitialize, err)
		return
	}
	if err := s.ledger.Initialize(r.Context(), baseline); err != nil {
		writeError(w, r, log.OpInitialize, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "initialAssets": baseline})
}

func (s *Server) handleSaveRecord(w http.ResponseWriter, r *http.Request) {
	var rec core.MonthlyRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, r, log.OpSave, err)
		return
	}
	saved, err := s.ledger.SaveRecord(r.Context(), rec)
	if err != nil {
		writeError(w, r, log.OpSave, err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).
		LogRecordSaved(r.Context(), saved.Year, saved.Month, saved.ID)
	writeJSON(w, http.StatusOK, saved)
}

// handleDeleteRecord answers 200 either way; deleted reports whether the id existed.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	removed, err := s.ledger.DeleteRecord(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": removed})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	ov, err := s.ledger.Overview(r.Context(), year)
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		Overview: ov,
		Currency: s.currency,
		Formatted: map[string]string{
			"latestDeposited":     core.FormatCurrency(ov.Latest.Deposited, s.currency),
			"latestRepaid":        core.FormatCurrency(ov.Latest.Repaid, s.currency),
			"latestReturned":      core.FormatCurrency(ov.Latest.Returned, s.currency),
			"cumulativeDeposited": core.FormatCurrency(ov.Cumulative.Deposited, s.currency),
			"cumulativeRepaid":    core.FormatCurrency(ov.Cumulative.Repaid, s.currency),
			"cumulativeReturned":  core.FormatCurrency(ov.Cumulative.Returned, s.currency),
			"savingsRate":         core.FormatPercent(ov.SavingsRate),
			"returnRatio":         core.FormatPercent(ov.ReturnRatio),
		},
	})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.ledger.Series(r.Context())
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Reset(r.Context()); err != nil {
		writeError(w, r, log.OpReset, err)
		return
	}
	log.FromContext(r.Context()).WarnContext(r.Context(), "Ledger reset", log.FieldOperation, log.OpReset)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
