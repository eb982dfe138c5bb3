package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StockTransactions filas del libro de stock registradas, por tipo.
	StockTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taller_stock_transactions_total",
		Help: "Stock ledger rows posted, by transaction type",
	}, []string{"type"})

	// StockRejections movimientos rechazados por dejar stock negativo.
	StockRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taller_stock_rejections_total",
		Help: "Ledger posts rejected because stock would go negative",
	}, []string{"type"})

	// InventoryChecks transiciones de sesiones de conteo, por estado destino.
	InventoryChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taller_inventory_checks_total",
		Help: "Inventory check state transitions, by target status",
	}, []string{"status"})

	// InventoryAdjustments transiciones de ajustes, por estado destino.
	InventoryAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taller_inventory_adjustments_total",
		Help: "Inventory adjustment state transitions, by target status",
	}, []string{"status"})

	// ApprovalFailures aprobaciones revertidas, por tipo de error.
	ApprovalFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taller_adjustment_approval_failures_total",
		Help: "Adjustment approvals rolled back, by error kind",
	}, []string{"kind"})

	// SequenceCollisions candidatos de código descartados por existir ya.
	SequenceCollisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taller_sequence_collisions_total",
		Help: "Sequence code candidates skipped because they already existed",
	}, []string{"prefix"})

	// TxDuration duración de las transacciones de negocio.
	TxDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taller_tx_duration_seconds",
		Help:    "Duration of business transactions",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
)

// Handler expone el registro por defecto para scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
