package main

import (
	"flag"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "hant3k",
	Short: "hant3k drives Hantek 6022BE USB oscilloscopes",
	Long: `Uploads the volatile firmware a freshly attached 6022BE needs, configures
sample rate and per-channel voltage ranges, and captures two-channel sample
data over the bulk endpoint.

The device has no hardware trigger and no persistent storage: firmware must
be flashed once per attach, and any triggering is done in software on the
captured data.`,
	SilenceUsage: true,
}

var (
	scopeIndex int
	verboseLog bool
)

func main() {
	flashCmd.Flags().StringVarP(&flashFirmware, "firmware", "f", "", "Path to the firmware image (Intel HEX, optionally .xz). Default: firmware.ihx in the hant3k config directory")
	flashCmd.Flags().DurationVarP(&flashTimeout, "timeout", "t", flashTimeoutDefault, "Timeout per firmware packet transfer")
	flashCmd.Flags().BoolVar(&flashNoReset, "no-reset", false, "Do not bracket the upload with the FX2 CPU hold/release writes (use when the image already contains them)")
	captureCmd.Flags().IntVarP(&capturePoints, "points", "n", 1024, "Number of sample points per channel")
	captureCmd.Flags().Uint8VarP(&captureRate, "rate", "r", 0, "Sample rate index (see 'hant3k rates')")
	captureCmd.Flags().Uint8Var(&captureCh1Range, "ch1-range", 0x01, "Voltage range code for CH1 (see 'hant3k ranges')")
	captureCmd.Flags().Uint8Var(&captureCh2Range, "ch2-range", 0x01, "Voltage range code for CH2 (see 'hant3k ranges')")
	captureCmd.Flags().IntVar(&captureFrames, "frames", 1, "Number of consecutive captures")
	captureCmd.Flags().DurationVarP(&captureTimeout, "timeout", "t", 0, "Timeout per transfer (0: block until done)")
	captureCmd.Flags().BoolVar(&captureVolts, "volts", false, "Emit scaled volts instead of raw ADC bytes")
	captureCmd.Flags().Float64Var(&captureProbe, "probe", 1, "Probe attenuation multiplier (10 for a 10x probe)")
	calibrationCmd.PersistentFlags().DurationVarP(&calibrationTimeout, "timeout", "t", 0, "Timeout per transfer (0: block until done)")
	rootCmd.PersistentFlags().IntVarP(&scopeIndex, "scope", "s", 0, "Which scope to use when several are attached (0-based)")
	rootCmd.PersistentFlags().BoolVarP(&verboseLog, "verbose", "v", false, "Enable verbose debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verboseLog {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(flashCmd)
	rootCmd.AddCommand(captureCmd)
	calibrationCmd.AddCommand(calibrationGetCmd)
	calibrationCmd.AddCommand(calibrationSetCmd)
	rootCmd.AddCommand(calibrationCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(rangesCmd)
	rootCmd.Execute()
}

func init() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
}
