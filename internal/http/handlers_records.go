package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"jeongsan/internal/core"
)

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.svc.Members(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Member list failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.svc.Locations(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Location list failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
}

type incomeRequest struct {
	Date       string          `json:"date"`
	MemberID   string          `json:"member_id"`
	LocationID string          `json:"location_id"`
	Amount     json.RawMessage `json:"amount"`
	Memo       string          `json:"memo"`
}

// handleAddIncome records one income entry. Amounts arrive as whole won,
// optionally with thousands separators.
func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	amount, err := amountFrom(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	rec := core.IncomeRecord{
		Date:       date,
		MemberID:   req.MemberID,
		LocationID: req.LocationID,
		Amount:     amount,
		Memo:       req.Memo,
	}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	ref, err := s.svc.AddIncome(r.Context(), rec)
	if err != nil {
		slog.ErrorContext(r.Context(), "Income creation failed",
			"member_id", rec.MemberID, "location_id", rec.LocationID, "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	slog.InfoContext(r.Context(), "Income recorded",
		"ref", ref,
		"member_id", rec.MemberID,
		"location_id", rec.LocationID,
		"amount_won", rec.Amount.Won)

	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}
