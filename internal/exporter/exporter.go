// Package exporter composes the collect, parse and render stages into the
// single operation the HTTP layer needs: produce the current metrics
// document, or fail.
//
// Each call performs one fresh invocation of the status tool. Nothing is
// cached between calls and no state is shared, so concurrent requests run
// the pipeline independently.
package exporter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/pwrstat-exporter/internal/collector"
	"github.com/Guliveer/pwrstat-exporter/internal/metrics"
	"github.com/Guliveer/pwrstat-exporter/internal/models"
	"github.com/Guliveer/pwrstat-exporter/internal/parser"
)

// Exporter runs the metrics pipeline on demand.
type Exporter struct {
	collector collector.Collector
	logger    *zap.Logger
}

// New creates an Exporter reading the UPS status through c.
func New(c collector.Collector, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		collector: c,
		logger:    logger.Named("exporter"),
	}
}

// Scrape collects and parses one status report.
func (e *Exporter) Scrape(ctx context.Context) (models.StatusRecord, error) {
	start := time.Now()

	text, err := e.collector.Collect(ctx)
	if err != nil {
		e.logger.Error("Collection failed",
			zap.String("collector", e.collector.Name()),
			zap.Error(err))
		return models.StatusRecord{}, fmt.Errorf("collect: %w", err)
	}

	rec, err := parser.Parse(text)
	if err != nil {
		e.logger.Error("Parsing status report failed",
			zap.String("collector", e.collector.Name()),
			zap.Error(err))
		return models.StatusRecord{}, fmt.Errorf("parse: %w", err)
	}

	e.logger.Debug("Scraped UPS status",
		zap.Uint32("utility_voltage", rec.UtilityVoltage),
		zap.Uint8("battery_capacity", rec.BatteryCapacity),
		zap.Uint32("load_watts", rec.LoadWatts),
		zap.Duration("duration", time.Since(start)))
	return rec, nil
}

// Metrics returns the exposition document for the current UPS status.
// No partial document is ever returned: any stage failure yields an error.
func (e *Exporter) Metrics(ctx context.Context) ([]byte, error) {
	rec, err := e.Scrape(ctx)
	if err != nil {
		return nil, err
	}
	return metrics.Render(rec), nil
}
