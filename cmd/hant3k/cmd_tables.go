package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hant3k/hant3k/pkg/measure"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "List known sample rate indices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, idx := range measure.SampleRateIndices() {
			r, _ := measure.SampleRateByIndex(idx)
			fmt.Printf("%3d  %s\n", idx, r.Label)
		}
		return nil
	},
}

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "List known voltage range codes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, code := range measure.VoltageRangeCodes() {
			v, _ := measure.VoltageRangeByCode(code)
			fmt.Printf("0x%02x  %-10s (half range %gV)\n", code, v.Label, v.HalfRange)
		}
		return nil
	},
}
