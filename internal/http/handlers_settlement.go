package http

import (
	"log/slog"
	"net/http"

	"jeongsan/internal/core"
)

// handleSettlement returns the full settlement view for a period.
func (s *Server) handleSettlement(w http.ResponseWriter, r *http.Request) {
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	res, err := s.svc.Settlement(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Settlement computation failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	ledger, err := s.svc.Ledger(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Ledger computation failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period": p,
		"ledger": ledger,
	})
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	balances, err := s.svc.NetBalances(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Net balance computation failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":   p,
		"balances": balances,
	})
}

func (s *Server) handleInstructions(w http.ResponseWriter, r *http.Request) {
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	instructions, err := s.svc.PaymentInstructions(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Instruction computation failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":       p,
		"instructions": instructions,
	})
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	balance, err := s.svc.FundBalance(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Fund balance computation failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":           p,
		"fund_balance_won": balance,
		"fund_balance":     core.FormatWon(balance),
	})
}
