// Package measure converts raw 6022BE ADC bytes and sample-rate indices into
// physical units. Everything here is pure computation; no USB traffic.
package measure

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SampleRate describes one entry of the device's sample-rate table.
type SampleRate struct {
	Label string
	// Rate in samples per second.
	Rate float64
}

// VoltageRange describes one entry of the device's voltage-range table.
type VoltageRange struct {
	Label string
	// ScaleFactor is volts per ADC count at probe 1x.
	ScaleFactor float64
	// HalfRange is the positive half of the input span, in volts.
	HalfRange float64
}

// sampleRates maps the one-byte rate index written with the sample-rate
// command to its meaning. Several indices alias to the same physical rate;
// this mirrors the device, not a transcription error. Indices above 27 are
// accepted by the hardware but their effect is not known.
var sampleRates = map[byte]SampleRate{
	0:  {"48 MS/s", 48e6},
	1:  {"48 MS/s", 48e6},
	2:  {"48 MS/s", 48e6},
	3:  {"48 MS/s", 48e6},
	4:  {"48 MS/s", 48e6},
	5:  {"48 MS/s", 48e6},
	6:  {"48 MS/s", 48e6},
	7:  {"48 MS/s", 48e6},
	8:  {"48 MS/s", 48e6},
	9:  {"48 MS/s", 48e6},
	10: {"48 MS/s", 48e6},
	11: {"16 MSa/s", 16e6},
	12: {"8 MSa/s", 8e6},
	13: {"4 MSa/s", 4e6},
	14: {"1 MS/s", 1e6},
	15: {"1 MS/s", 1e6},
	16: {"1 MS/s", 1e6},
	17: {"1 MS/s", 1e6},
	18: {"1 MS/s", 1e6},
	19: {"1 MS/s", 1e6},
	20: {"1 MS/s", 1e6},
	21: {"1 MS/s", 1e6},
	22: {"1 MS/s", 1e6},
	23: {"1 MS/s", 1e6},
	24: {"1 MS/s", 1e6},
	25: {"500 KSa/s", 500e3},
	26: {"200 KSa/s", 200e3},
	27: {"100 KSa/s", 100e3},
}

// voltageRanges maps the one-byte range code written with the voltage-range
// commands to its meaning. Only these four codes are used by the stock
// software; the device accepts other codes (0x08 and 0x0b appear to work)
// but their effect is undocumented, so lookups outside this table simply
// miss - the driver never validates the code it is asked to send.
var voltageRanges = map[byte]VoltageRange{
	0x01: {"+/- 5V", 0.0390625, 2.5},
	0x02: {"+/- 2.5V", 0.01953125, 1.25},
	0x05: {"+/- 1V", 0.0078125, 0.5},
	0x0a: {"+/- 500mV", 0.00390625, 0.25},
}

// UnknownRateLabel is returned by SampleTimes for indices outside the table.
const UnknownRateLabel = "? MS/s"

// SampleRateByIndex looks up a rate index. ok is false for indices the table
// does not describe.
func SampleRateByIndex(index byte) (SampleRate, bool) {
	r, ok := sampleRates[index]
	return r, ok
}

// VoltageRangeByCode looks up a range code. ok is false for codes outside the
// four documented ones.
func VoltageRangeByCode(code byte) (VoltageRange, bool) {
	v, ok := voltageRanges[code]
	return v, ok
}

// SampleRateIndices returns every index the table describes, ascending.
func SampleRateIndices() []byte {
	res := maps.Keys(sampleRates)
	slices.Sort(res)
	return res
}

// VoltageRangeCodes returns every code the table describes, ascending.
func VoltageRangeCodes() []byte {
	res := maps.Keys(voltageRanges)
	slices.Sort(res)
	return res
}

// Scale converts raw ADC bytes to volts. Byte 128 is the ADC midpoint and
// maps to 0 V; the transform is linear and symmetric around it:
//
//	volts = (b - 128) * (5.0 * probe) / (halfRangeVolts * 128)
//
// halfRangeVolts is the HalfRange of the channel's configured VoltageRange,
// probe is an additional multiplicative factor for probe attenuation (pass 1
// for a 1x probe).
func Scale(raw []byte, halfRangeVolts float64, probe float64) []float64 {
	factor := (5.0 * probe) / (halfRangeVolts * 128)
	res := make([]float64, len(raw))
	for i, b := range raw {
		res[i] = (float64(b) - 128) * factor
	}
	return res
}

// SampleTimes returns n elapsed-time values i/rate for i in [0, n), plus the
// human-readable rate label, for the given sample-rate index. Indices outside
// the table fall back to UnknownRateLabel and a rate of 1.0 Sa/s rather than
// failing.
func SampleTimes(n int, rateIndex byte) ([]float64, string) {
	label, rate := UnknownRateLabel, 1.0
	if r, ok := sampleRates[rateIndex]; ok {
		label, rate = r.Label, r.Rate
	}
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) / rate
	}
	return times, label
}
