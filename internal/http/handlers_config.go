package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"jeongsan/internal/core"
)

func (s *Server) handleGetPeriodConfig(w http.ResponseWriter, r *http.Request) {
	p, err := periodFrom(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	cfg, err := s.svc.PeriodConfig(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Period config read failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type periodConfigRequest struct {
	Period             string          `json:"period"`
	FixedFundAmount    json.RawMessage `json:"fixed_fund_amount"`
	HubCollectorID     string          `json:"hub_collector_id"`
	SecondaryCollector string          `json:"secondary_collector"`
}

func (s *Server) handlePutPeriodConfig(w http.ResponseWriter, r *http.Request) {
	var req periodConfigRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := core.ParsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	amount, err := amountFrom(req.FixedFundAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	cfg := core.PeriodConfig{
		Period:             p,
		FixedFundAmount:    amount,
		HubCollectorID:     req.HubCollectorID,
		SecondaryCollector: req.SecondaryCollector,
	}
	if err := s.svc.UpsertPeriodConfig(r.Context(), cfg); err != nil {
		slog.ErrorContext(r.Context(), "Period config upsert failed",
			"period", p.Key(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
