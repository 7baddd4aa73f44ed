package services

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values for docOps.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeExpired  = "expired"
	outcomeError    = "error"
)

var (
	// docOps counts lifecycle operations by op (create|fetch|purge|lazy_delete)
	// and outcome.
	docOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temp_markdown_operations_total",
			Help: "Document lifecycle operations by type and outcome.",
		},
		[]string{"op", "outcome"},
	)

	// docBytes records the size of accepted documents.
	docBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "temp_markdown_content_bytes",
			Help: "Size of created documents in bytes.",
			Buckets: []float64{
				256, 1 << 10, 4 << 10, 16 << 10, 64 << 10, // 256B..64KiB
				256 << 10, 512 << 10, 1 << 20, // 256KiB..1MiB
			},
		},
	)
)

func init() {
	prometheus.MustRegister(docOps, docBytes)
}

func observe(op, outcome string) { docOps.WithLabelValues(op, outcome).Inc() }
