package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconcileOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topup_reconciliations_total",
		Help: "Reconciliation outcomes by type",
	}, []string{"outcome"})

	creditedAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "topup_credited_amount_total",
		Help: "Total wallet credits applied, in minor currency units (IDR)",
	})
)
