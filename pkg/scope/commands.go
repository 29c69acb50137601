package scope

import (
	"fmt"
	"time"
)

// Channel names one of the two input channels.
type Channel uint8

const (
	Ch1 Channel = 1
	Ch2 Channel = 2
)

func (c Channel) String() string {
	switch c {
	case Ch1:
		return "CH1"
	case Ch2:
		return "CH2"
	}
	return "UNKNOWN"
}

// rangeRequest maps a channel to its voltage-range request code. The two
// commands are identical apart from this byte.
func (c Channel) rangeRequest() uint8 {
	switch c {
	case Ch1:
		return reqSetCh1Range
	case Ch2:
		return reqSetCh2Range
	}
	panic("unreachable")
}

// controlWrite issues one vendor control write and requires the device to
// accept exactly len(data) bytes. Opens the session first if needed.
func (s *Scope) controlWrite(request uint8, val, idx uint16, data []byte, timeout time.Duration) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	n, err := s.xfer.Control(reqTypeVendorOut, request, val, idx, data, timeout)
	if err != nil {
		return fmt.Errorf("control write 0x%02x: %w", request, err)
	}
	if n != len(data) {
		return fmt.Errorf("control write 0x%02x: wrote %d of %d bytes: %w", request, n, len(data), ErrShortTransfer)
	}
	return nil
}

// controlRead issues one vendor control read of exactly n bytes. Opens the
// session first if needed.
func (s *Scope) controlRead(request uint8, val, idx uint16, n int, timeout time.Duration) ([]byte, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	got, err := s.xfer.Control(reqTypeVendorIn, request, val, idx, buf, timeout)
	if err != nil {
		return nil, fmt.Errorf("control read 0x%02x: %w", request, err)
	}
	if got != n {
		return nil, fmt.Errorf("control read 0x%02x: read %d of %d bytes: %w", request, got, n, ErrShortTransfer)
	}
	return buf, nil
}

// Calibration reads the device's 32 calibration bytes. They live only in
// device RAM, so they are gone after every power cycle.
func (s *Scope) Calibration(timeout time.Duration) ([]byte, error) {
	return s.controlRead(reqCalibration, valCalibration, idxCalibration, CalibrationLen, timeout)
}

// SetCalibration writes values to the device's calibration block, usually
// CalibrationLen bytes read back from Calibration and adjusted.
func (s *Scope) SetCalibration(values []byte, timeout time.Duration) error {
	return s.controlWrite(reqCalibration, valCalibration, idxCalibration, values, timeout)
}

// SetSampleRate selects the acquisition rate by table index (see
// measure.SampleRateByIndex for the mapping). The index is passed to the
// device as-is: indices above 27 are not described by the hardware
// documentation and what the scope does with them is not known.
func (s *Scope) SetSampleRate(index byte, timeout time.Duration) error {
	return s.controlWrite(reqSetSampleRate, 0x00, 0x00, []byte{index}, timeout)
}

// SetVoltageRange selects the input range for one channel by range code (see
// measure.VoltageRangeByCode). The code is passed to the device as-is: only
// 0x01, 0x02, 0x05 and 0x0a are documented, other codes (0x08, 0x0b, ...)
// appear to work but their effect is undocumented.
func (s *Scope) SetVoltageRange(ch Channel, code byte, timeout time.Duration) error {
	return s.controlWrite(ch.rangeRequest(), 0x00, 0x00, []byte{code}, timeout)
}
