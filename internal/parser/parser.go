// Package parser extracts the UPS status fields from the text report printed
// by `pwrstat -status`.
//
// The report layout is not versioned by the vendor. The pattern below matches
// the English output of PowerPanel for Linux, where the "Current UPS status"
// section lists the fields in this order:
//
//	Utility Voltage.............. 121 V
//	Output Voltage............... 121 V
//	Battery Capacity............. 100 %
//	Remaining Runtime............ 68 min.
//	Load......................... 108 Watt(12 %)
package parser

import (
	"regexp"
	"strconv"

	"github.com/Guliveer/pwrstat-exporter/internal/models"
)

// Capture group names in statusPattern.
const (
	groupUtilityVoltage   = "util_volts"
	groupOutputVoltage    = "out_volts"
	groupBatteryCapacity  = "batt_cap"
	groupRemainingRuntime = "runtime"
	groupLoadWatts        = "load_watts"
	groupLoadPercent      = "load_percent"
)

// statusPattern is compiled once at package init and only read afterwards.
// The load percentage capture is left unterminated: it takes every digit up
// to the first non-digit without checking for the closing parenthesis.
var statusPattern = regexp.MustCompile(
	`Utility Voltage[. ]+(?P<util_volts>\d+)\sV\n` +
		`\s+Output Voltage[. ]+(?P<out_volts>\d+)\sV\n` +
		`\s+Battery Capacity[. ]+(?P<batt_cap>\d+) %\n` +
		`\s+Remaining Runtime[. ]+(?P<runtime>\d+) min.\n` +
		`\s+Load[. ]+(?P<load_watts>\d+) Watt\((?P<load_percent>\d+)`)

// Parse extracts a StatusRecord from a pwrstat status report. The fields may
// appear anywhere in text as long as they are contiguous and in order.
//
// It returns a *FormatMismatchError when the layout is not found and a
// *NumericConversionError when a captured number does not fit its field.
func Parse(text string) (models.StatusRecord, error) {
	match := statusPattern.FindStringSubmatch(text)
	if match == nil {
		return models.StatusRecord{}, &FormatMismatchError{Input: text}
	}
	f := fields{match: match}

	rec := models.StatusRecord{
		UtilityVoltage:   f.parseUint32(groupUtilityVoltage),
		OutputVoltage:    f.parseUint32(groupOutputVoltage),
		BatteryCapacity:  f.parseUint8(groupBatteryCapacity),
		RemainingRuntime: f.parseUint32(groupRemainingRuntime),
		LoadWatts:        f.parseUint32(groupLoadWatts),
		LoadPercent:      f.parseUint8(groupLoadPercent),
	}
	if f.err != nil {
		return models.StatusRecord{}, f.err
	}
	return rec, nil
}

// fields converts named captures, remembering the first conversion failure.
type fields struct {
	match []string
	err   error
}

func (f *fields) value(group string) string {
	return f.match[statusPattern.SubexpIndex(group)]
}

func (f *fields) parse(group string, bits int) uint64 {
	if f.err != nil {
		return 0
	}
	raw := f.value(group)
	n, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		f.err = &NumericConversionError{Field: group, Value: raw, Err: err}
		return 0
	}
	return n
}

func (f *fields) parseUint32(group string) uint32 { return uint32(f.parse(group, 32)) }

func (f *fields) parseUint8(group string) uint8 { return uint8(f.parse(group, 8)) }
