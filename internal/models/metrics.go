// Package models defines the data structures passed between the collector,
// parser and renderer stages of the exporter.
package models

// StatusRecord is a single reading of the UPS status as reported by pwrstat.
// A StatusRecord only exists when every field was extracted; there is no
// partially populated record.
type StatusRecord struct {
	UtilityVoltage   uint32 `json:"utility_voltage"`   // volts
	OutputVoltage    uint32 `json:"output_voltage"`    // volts
	BatteryCapacity  uint8  `json:"battery_capacity"`  // percent
	RemainingRuntime uint32 `json:"remaining_runtime"` // minutes
	LoadWatts        uint32 `json:"load_watts"`        // watts
	LoadPercent      uint8  `json:"load_percent"`      // percent
}
