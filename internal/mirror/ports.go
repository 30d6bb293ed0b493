// Package mirror defines the outbound port for publishing computed
// settlement reports to a shared destination the team can read without
// running the service.
package mirror

import (
	"context"

	"jeongsan/internal/settlement"
)

// ReportWriter appends one computed settlement view to the mirror.
// memberNames maps member ids to display names for readable output.
type ReportWriter interface {
	AppendReport(ctx context.Context, res settlement.Result, memberNames map[string]string) error
}
