// Package google mirrors settlement reports to a shared Google Sheet so
// the team can read the monthly result without touching the service.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"jeongsan/internal/core"
	"jeongsan/internal/mirror"
	"jeongsan/internal/settlement"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	reportSheet   string
}

// Ensure interface conformance
var _ mirror.ReportWriter = (*Client)(nil)

// NewFromEnv creates a Sheets mirror client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: REPORT_SHEET_NAME (default "Settlement"); the current year is
// prefixed automatically.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetBase := strings.TrimSpace(os.Getenv("REPORT_SHEET_NAME"))
	if sheetBase == "" {
		sheetBase = "Settlement"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		reportSheet:   fmt.Sprintf("%d %s", time.Now().Year(), sheetBase),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return gsheet.NewService(ctx, goption.WithCredentialsJSON([]byte(serviceAccountJSON)))
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return gsheet.NewService(ctx, goption.WithCredentialsJSON(data))
	default:
		return nil, errors.New("no Google credentials configured")
	}
}

// AppendReport appends the settlement view as rows: one per net balance,
// one per payment instruction, plus the fund residual. Amounts are
// mirrored as whole won.
func (c *Client) AppendReport(ctx context.Context, res settlement.Result, memberNames map[string]string) error {
	name := func(id string) string {
		if n, ok := memberNames[id]; ok {
			return n
		}
		return id
	}

	computedAt := time.Now().Format(time.RFC3339)
	var rows [][]interface{}
	for _, b := range res.Balances {
		rows = append(rows, []interface{}{
			res.Period.Key(), computedAt, "balance", name(b.MemberID), "", b.Amount,
		})
	}
	for _, ins := range res.Instructions {
		rows = append(rows, []interface{}{
			res.Period.Key(), computedAt, "instruction", name(ins.From), name(ins.To), ins.Amount.Won,
		})
	}
	rows = append(rows, []interface{}{
		res.Period.Key(), computedAt, "fund", "", "", res.FundBalance,
	})

	rangeRef := c.reportSheet + "!A:F"
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rangeRef, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append settlement report %s: %w", res.Period, err)
	}

	slog.InfoContext(ctx, "Settlement report mirrored",
		"period", res.Period.Key(),
		"rows", len(rows),
		"sheet", c.reportSheet,
		"fund_balance", core.FormatWon(res.FundBalance))

	return nil
}
