package workers

import (
	"context"
	"time"

	"runway/internal/metrics"
	"runway/internal/services/ingestion"
)

// IngestionWorker runs the impact-and-forecast pipeline on a schedule
type IngestionWorker struct {
	*BaseWorker
	service *ingestion.Service
}

// NewIngestionWorker creates a new ingestion worker
func NewIngestionWorker(service *ingestion.Service, interval time.Duration, enabled bool) *IngestionWorker {
	return &IngestionWorker{
		BaseWorker: NewBaseWorker("ingestion", interval, enabled),
		service:    service,
	}
}

// Run executes one full pipeline batch
func (w *IngestionWorker) Run(ctx context.Context) error {
	report := w.service.Run(ctx)

	status := "success"
	if len(report.Failed) == report.Companies && report.Companies > 0 {
		status = "error"
	} else if len(report.Failed) > 0 {
		status = "partial"
	}
	metrics.IngestionRuns.WithLabelValues(status).Inc()

	return nil
}
