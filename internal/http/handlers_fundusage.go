package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"jeongsan/internal/core"
)

func (s *Server) handleListFundUsage(w http.ResponseWriter, r *http.Request) {
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	usages, err := s.svc.FundUsage(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Fund usage list failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":     p,
		"fund_usage": usages,
	})
}

type fundUsageRequest struct {
	Period string          `json:"period"`
	WhoID  string          `json:"who_id"`
	Amount json.RawMessage `json:"amount"`
	Memo   string          `json:"memo"`
}

func (req fundUsageRequest) toEntry(id int64) (core.FundUsageEntry, error) {
	p, err := core.ParsePeriod(req.Period)
	if err != nil {
		return core.FundUsageEntry{}, err
	}
	amount, err := amountFrom(req.Amount)
	if err != nil {
		return core.FundUsageEntry{}, err
	}
	u := core.FundUsageEntry{
		ID:     id,
		Period: p,
		WhoID:  req.WhoID,
		Amount: amount,
		Memo:   req.Memo,
	}
	return u, u.Validate()
}

func (s *Server) handleAddFundUsage(w http.ResponseWriter, r *http.Request) {
	var req fundUsageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	u, err := req.toEntry(0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	id, err := s.svc.AddFundUsage(r.Context(), u)
	if err != nil {
		slog.ErrorContext(r.Context(), "Fund usage creation failed",
			"period", u.Period.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	u.ID = id
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleUpdateFundUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req fundUsageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	u, err := req.toEntry(id)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.svc.UpdateFundUsage(r.Context(), u); err != nil {
		slog.ErrorContext(r.Context(), "Fund usage update failed",
			"usage_id", id, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteFundUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.svc.DeleteFundUsage(r.Context(), p, id); err != nil {
		slog.ErrorContext(r.Context(), "Fund usage deletion failed",
			"usage_id", id, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
