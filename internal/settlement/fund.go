package settlement

import (
	"jeongsan/internal/core"
)

// FundBalance computes the residual of the pooled fund for a period:
// the fixed inflow minus what the fund group paid out minus ad-hoc
// withdrawals. A negative result means the fund was overspent and is
// reported as-is.
func FundBalance(cfg core.PeriodConfig, fundDistributed int64, usages []core.FundUsageEntry) int64 {
	balance := cfg.FixedFundAmount.Won - fundDistributed
	for _, u := range usages {
		balance -= u.Amount.Won
	}
	return balance
}
