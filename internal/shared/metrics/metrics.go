package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	rpcOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume_ledger",
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of ledger node RPC operations.",
	}, []string{"operation", "status"})
	rpcOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "resume_ledger",
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})

	resumesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resume_ledger",
		Subsystem: "resumes",
		Name:      "created_total",
		Help:      "Count of resumes created through the dual write.",
	})
	resumesVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume_ledger",
		Subsystem: "resumes",
		Name:      "verified_total",
		Help:      "Count of verify operations by resulting status.",
	}, []string{"status"})
)

// LedgerRPC tracks metrics for RPC calls to the ledger node. It satisfies
// the ledger package's RPCMetrics interface.
type LedgerRPC struct{}

// NewLedgerRPC constructs a metrics collector for ledger RPC calls.
func NewLedgerRPC() *LedgerRPC {
	return &LedgerRPC{}
}

// Observe records a single RPC call outcome and duration.
func (m LedgerRPC) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	rpcOperationsTotal.WithLabelValues(operation, status).Inc()
	rpcOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

// IncResumeCreated increments the created counter.
func IncResumeCreated() {
	resumesCreatedTotal.Inc()
}

// IncResumeVerified increments the verified counter for a status.
func IncResumeVerified(status string) {
	resumesVerifiedTotal.WithLabelValues(status).Inc()
}

// Handler exposes metrics in Prometheus exposition format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
