// Package metrics renders a UPS status record in the Prometheus text
// exposition format. Metric families are always written in the order of
// Descriptors; scrapers and golden files compare the output byte for byte.
package metrics

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Guliveer/pwrstat-exporter/internal/models"
)

// Descriptor is the static metadata of one exported gauge.
type Descriptor struct {
	Name string
	Help string
	Desc *prometheus.Desc

	sample func(models.StatusRecord) uint64
}

func newDescriptor(name, help string, sample func(models.StatusRecord) uint64) Descriptor {
	return Descriptor{
		Name:   name,
		Help:   help,
		Desc:   prometheus.NewDesc(name, help, nil, nil),
		sample: sample,
	}
}

// descriptors lists one entry per StatusRecord field, in exposition order.
var descriptors = []Descriptor{
	newDescriptor("ups_input_voltage", "Utility voltage",
		func(r models.StatusRecord) uint64 { return uint64(r.UtilityVoltage) }),
	newDescriptor("ups_output_voltage", "Output voltage",
		func(r models.StatusRecord) uint64 { return uint64(r.OutputVoltage) }),
	newDescriptor("ups_battery_capacity", "Battery capacity",
		func(r models.StatusRecord) uint64 { return uint64(r.BatteryCapacity) }),
	newDescriptor("ups_remaining_runtime", "Remaining runtime",
		func(r models.StatusRecord) uint64 { return uint64(r.RemainingRuntime) }),
	newDescriptor("ups_load_watts", "Load in watts",
		func(r models.StatusRecord) uint64 { return uint64(r.LoadWatts) }),
	newDescriptor("ups_load_percent", "Load percentage",
		func(r models.StatusRecord) uint64 { return uint64(r.LoadPercent) }),
}

// helpEscaper escapes HELP text as the exposition format requires.
var helpEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

// Descriptors returns a copy of the exported gauge descriptors in order.
func Descriptors() []Descriptor {
	result := make([]Descriptor, len(descriptors))
	copy(result, descriptors)
	return result
}

// Sample returns the integer reading of d's field in rec.
func (d Descriptor) Sample(rec models.StatusRecord) uint64 { return d.sample(rec) }

// Value returns the sample value of d for rec as a gauge value.
func (d Descriptor) Value(rec models.StatusRecord) float64 { return float64(d.sample(rec)) }

// ConstMetrics returns one gauge sample per descriptor for rec.
func ConstMetrics(rec models.StatusRecord) []prometheus.Metric {
	result := make([]prometheus.Metric, 0, len(descriptors))
	for _, d := range descriptors {
		result = append(result, prometheus.MustNewConstMetric(d.Desc, prometheus.GaugeValue, d.Value(rec)))
	}
	return result
}

// Write writes the exposition document for rec to w: a HELP line, a TYPE
// line and one unlabelled sample per descriptor. Samples are written as
// plain decimal integers, never in exponent form.
func Write(w io.Writer, rec models.StatusRecord) error {
	for _, d := range descriptors {
		if _, err := w.Write(d.appendFamily(nil, rec)); err != nil {
			return fmt.Errorf("writing %s: %w", d.Name, err)
		}
	}
	return nil
}

// Render returns the exposition document for rec.
func Render(rec models.StatusRecord) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	if err := Write(&buf, rec); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (d Descriptor) appendFamily(b []byte, rec models.StatusRecord) []byte {
	b = append(b, "# HELP "...)
	b = append(b, d.Name...)
	b = append(b, ' ')
	b = append(b, helpEscaper.Replace(d.Help)...)
	b = append(b, "\n# TYPE "...)
	b = append(b, d.Name...)
	b = append(b, " gauge\n"...)
	b = append(b, d.Name...)
	b = append(b, ' ')
	b = strconv.AppendUint(b, d.Sample(rec), 10)
	return append(b, '\n')
}
