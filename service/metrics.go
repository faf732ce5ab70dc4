package service

import "github.com/prometheus/client_golang/prometheus"

var (
	ledgerMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vine_ledger_mutations_total",
			Help: "Committed ledger mutations by transaction type",
		},
		[]string{"type"},
	)

	// 可能为负（提现、扣减）
	ledgerAmount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vine_ledger_amount_sum",
			Help: "Net VINE moved through the ledger by transaction type",
		},
		[]string{"type"},
	)

	ledgerConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vine_ledger_conflicts_total",
			Help: "Optimistic version conflicts on account rows",
		},
	)

	ruleRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vine_rule_rejections_total",
			Help: "Reward requests rejected by a precondition",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(ledgerMutations, ledgerAmount, ledgerConflicts, ruleRejections)
}
