package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jeongsan/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// periodFrom extracts the settlement period from the "period" query
// parameter ("YYYY-MM"), defaulting to the current month.
func periodFrom(r *http.Request) (core.Period, error) {
	v := strings.TrimSpace(r.URL.Query().Get("period"))
	if v == "" {
		return core.PeriodOf(time.Now()), nil
	}
	return core.ParsePeriod(v)
}

// pathID parses the numeric {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(dateStr))
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	// Reject trailing garbage after the JSON document.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrEmptyName):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrUnknownMember),
		errors.Is(err, core.ErrUnknownLocation):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// amountFrom accepts an operator-entered amount, either a JSON number of
// whole won or a string with optional thousands separators.
func amountFrom(raw json.RawMessage) (core.Money, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		won, err := core.ParseWon(s)
		if err != nil {
			return core.Money{}, err
		}
		return core.Money{Won: won}, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return core.Money{}, core.ErrInvalidAmount
	}
	if n < 0 {
		return core.Money{}, core.ErrInvalidAmount
	}
	return core.Money{Won: n}, nil
}
