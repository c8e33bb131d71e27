package exporter

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Guliveer/pwrstat-exporter/internal/metrics"
)

// PrometheusCollector adapts an Exporter to the prometheus.Collector
// interface so the UPS gauges can be served by promhttp from a registry.
// A failed scrape produces an invalid metric, which makes the whole gather
// fail instead of exposing a partial set.
type PrometheusCollector struct {
	exporter *Exporter
	logger   *zap.Logger
}

// NewPrometheusCollector wraps exp for registration in a prometheus.Registry.
func NewPrometheusCollector(exp *Exporter, logger *zap.Logger) *PrometheusCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrometheusCollector{
		exporter: exp,
		logger:   logger.Named("registry"),
	}
}

// Describe implements prometheus.Collector.
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range metrics.Descriptors() {
		ch <- d.Desc
	}
}

// Collect implements prometheus.Collector. The registry offers no request
// context, and the status tool is allowed to run to completion.
func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	rec, err := c.exporter.Scrape(context.Background())
	if err != nil {
		c.logger.Debug("Reporting scrape failure to registry", zap.Error(err))
		ch <- prometheus.NewInvalidMetric(metrics.Descriptors()[0].Desc, err)
		return
	}
	for _, m := range metrics.ConstMetrics(rec) {
		ch <- m
	}
}
