package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// writeMetrics dumps the gathered metrics in the Prometheus text format,
// for batch runs scraped by a node exporter textfile collector.
func writeMetrics(g prometheus.Gatherer, path string) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return f.Close()
}
