package measure

import (
	"math"
	"testing"
)

func TestScaleMidpointIsZero(t *testing.T) {
	for _, halfRange := range []float64{2.5, 1.25, 0.5, 0.25} {
		got := Scale([]byte{128}, halfRange, 1)
		if got[0] != 0.0 {
			t.Errorf("half range %v: byte 128 scaled to %v, want 0", halfRange, got[0])
		}
	}
}

func TestScaleLinearAndMonotonic(t *testing.T) {
	raw := make([]byte, 256)
	for i := range raw {
		raw[i] = byte(i)
	}
	volts := Scale(raw, 2.5, 1)
	if len(volts) != 256 {
		t.Fatalf("got %d values, want 256", len(volts))
	}
	step := 5.0 / (2.5 * 128)
	for i := 1; i < 256; i++ {
		if volts[i] <= volts[i-1] {
			t.Fatalf("not monotonic at byte %d: %v <= %v", i, volts[i], volts[i-1])
		}
		if diff := volts[i] - volts[i-1]; math.Abs(diff-step) > 1e-12 {
			t.Fatalf("not linear at byte %d: step %v, want %v", i, diff, step)
		}
	}
}

func TestScaleFullScale(t *testing.T) {
	// 0x01 range code: +/- 5V, half range 2.5V.
	got := Scale([]byte{255}, 2.5, 1)[0]
	want := (255.0 - 128.0) * 5.0 / (2.5 * 128)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("byte 255 scaled to %v, want %v", got, want)
	}
	if math.Abs(got-1.984) > 1e-3 {
		t.Errorf("byte 255 scaled to %v, want ~1.984", got)
	}
}

func TestScaleProbeMultiplier(t *testing.T) {
	one := Scale([]byte{200}, 0.5, 1)[0]
	ten := Scale([]byte{200}, 0.5, 10)[0]
	if math.Abs(ten-10*one) > 1e-12 {
		t.Errorf("10x probe: got %v, want %v", ten, 10*one)
	}
}

func TestSampleTimes(t *testing.T) {
	for _, tc := range []struct {
		n         int
		index     byte
		wantLabel string
		wantRate  float64
	}{
		{100, 0, "48 MS/s", 48e6},
		{100, 10, "48 MS/s", 48e6},
		{100, 11, "16 MSa/s", 16e6},
		{100, 27, "100 KSa/s", 100e3},
		{100, 28, UnknownRateLabel, 1.0},
		{100, 255, UnknownRateLabel, 1.0},
		{0, 14, "1 MS/s", 1e6},
	} {
		times, label := SampleTimes(tc.n, tc.index)
		if label != tc.wantLabel {
			t.Errorf("index %d: label %q, want %q", tc.index, label, tc.wantLabel)
			continue
		}
		if len(times) != tc.n {
			t.Errorf("index %d: %d times, want %d", tc.index, len(times), tc.n)
			continue
		}
		for i, ts := range times {
			want := float64(i) / tc.wantRate
			if ts != want {
				t.Errorf("index %d: times[%d] = %v, want %v", tc.index, i, ts, want)
				break
			}
			if i > 0 && ts <= times[i-1] {
				t.Errorf("index %d: times not strictly increasing at %d", tc.index, i)
				break
			}
		}
		if tc.n > 0 && times[0] != 0 {
			t.Errorf("index %d: times[0] = %v, want 0", tc.index, times[0])
		}
	}
}

func TestVoltageRangeByCode(t *testing.T) {
	v, ok := VoltageRangeByCode(0x01)
	if !ok {
		t.Fatalf("code 0x01 missing from table")
	}
	if v.HalfRange != 2.5 || v.Label != "+/- 5V" {
		t.Errorf("code 0x01: got %+v", v)
	}
	if _, ok := VoltageRangeByCode(0x08); ok {
		t.Errorf("code 0x08 should not be in the table")
	}
}

func TestSampleRateAliases(t *testing.T) {
	// Indices 0-10 all alias to 48 MS/s.
	for i := byte(0); i <= 10; i++ {
		r, ok := SampleRateByIndex(i)
		if !ok || r.Rate != 48e6 {
			t.Errorf("index %d: got %+v, ok=%v, want 48 MS/s", i, r, ok)
		}
	}
	if _, ok := SampleRateByIndex(28); ok {
		t.Errorf("index 28 should not be in the table")
	}
	indices := SampleRateIndices()
	if len(indices) != 28 || indices[0] != 0 || indices[27] != 27 {
		t.Errorf("indices = %v, want 0..27", indices)
	}
	codes := VoltageRangeCodes()
	if len(codes) != 4 || codes[0] != 0x01 || codes[3] != 0x0a {
		t.Errorf("codes = %v, want [1 2 5 10]", codes)
	}
}
