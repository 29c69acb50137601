package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hant3k/hant3k/pkg/measure"
	"github.com/hant3k/hant3k/pkg/scope"
)

var (
	capturePoints   int
	captureRate     uint8
	captureCh1Range uint8
	captureCh2Range uint8
	captureFrames   int
	captureTimeout  time.Duration
	captureVolts    bool
	captureProbe    float64
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture sample data from both channels",
	Long: `Configure sample rate and voltage ranges, then capture one or more frames
of two-channel sample data and write them to stdout as CSV (time, CH1, CH2).

Rate indices and range codes outside the documented tables are sent to the
device unchanged; what the hardware does with them is not known.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := scope.New(scopeIndex)
		defer s.Done()
		if err := s.Open(); err != nil {
			return err
		}

		if err := s.SetSampleRate(captureRate, captureTimeout); err != nil {
			return err
		}
		if err := s.SetVoltageRange(scope.Ch1, captureCh1Range, captureTimeout); err != nil {
			return err
		}
		if err := s.SetVoltageRange(scope.Ch2, captureCh2Range, captureTimeout); err != nil {
			return err
		}

		var r1, r2 measure.VoltageRange
		if captureVolts {
			var ok bool
			if r1, ok = measure.VoltageRangeByCode(captureCh1Range); !ok {
				return fmt.Errorf("cannot scale undocumented range code 0x%02x, re-run without --volts", captureCh1Range)
			}
			if r2, ok = measure.VoltageRangeByCode(captureCh2Range); !ok {
				return fmt.Errorf("cannot scale undocumented range code 0x%02x, re-run without --volts", captureCh2Range)
			}
		}

		times, label := measure.SampleTimes(capturePoints, captureRate)
		slog.Info("Capturing", "rate", label, "points", capturePoints, "frames", captureFrames)

		// The pre-bound reader skips per-call session checks between
		// frames.
		rdr, err := s.NewReader()
		if err != nil {
			return err
		}

		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		for frame := 0; frame < captureFrames; frame++ {
			ch1, ch2, err := rdr.Read(capturePoints, captureTimeout)
			if err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
			if captureVolts {
				v1 := measure.Scale(ch1, r1.HalfRange, captureProbe)
				v2 := measure.Scale(ch2, r2.HalfRange, captureProbe)
				for i := range v1 {
					fmt.Fprintf(w, "%g,%g,%g\n", times[i], v1[i], v2[i])
				}
			} else {
				for i := range ch1 {
					fmt.Fprintf(w, "%g,%d,%d\n", times[i], ch1[i], ch2[i])
				}
			}
		}
		return nil
	},
}
