package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"jeongsan/internal/core"
)

func (s *Server) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	transfers, err := s.svc.Transfers(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transfer list failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":    p,
		"transfers": transfers,
	})
}

type transferRequest struct {
	Period string          `json:"period"`
	FromID string          `json:"from_id"`
	ToID   string          `json:"to_id"`
	Amount json.RawMessage `json:"amount"`
	Memo   string          `json:"memo"`
}

func (req transferRequest) toEntry(id int64) (core.TransferEntry, error) {
	p, err := core.ParsePeriod(req.Period)
	if err != nil {
		return core.TransferEntry{}, err
	}
	amount, err := amountFrom(req.Amount)
	if err != nil {
		return core.TransferEntry{}, err
	}
	t := core.TransferEntry{
		ID:     id,
		Period: p,
		FromID: req.FromID,
		ToID:   req.ToID,
		Amount: amount,
		Memo:   req.Memo,
	}
	return t, t.Validate()
}

func (s *Server) handleAddTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := req.toEntry(0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	id, err := s.svc.AddTransfer(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transfer creation failed",
			"period", t.Period.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	t.ID = id
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := req.toEntry(id)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.svc.UpdateTransfer(r.Context(), t); err != nil {
		slog.ErrorContext(r.Context(), "Transfer update failed",
			"transfer_id", id, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransfer(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.DeleteTransfer(r.Context(), p, id); err != nil {
		slog.ErrorContext(r.Context(), "Transfer deletion failed",
			"transfer_id", id, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
