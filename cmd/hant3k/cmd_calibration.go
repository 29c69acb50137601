package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hant3k/hant3k/pkg/scope"
)

var calibrationTimeout time.Duration

var calibrationCmd = &cobra.Command{
	Use:   "calibration",
	Short: "Read or write the scope's calibration block",
}

var calibrationGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the 32 calibration bytes as hex",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := scope.New(scopeIndex)
		defer s.Done()

		vals, err := s.Calibration(calibrationTimeout)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(vals))
		return nil
	},
}

var calibrationSetCmd = &cobra.Command{
	Use:   "set [hex]",
	Short: "Write calibration bytes from a hex string",
	Long: `Write calibration bytes to the scope. The argument is a hex string, usually
the 32-byte block printed by 'calibration get' with adjustments. Calibration
lives only in device RAM and is lost on power cycle.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vals, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid hex: %w", err)
		}

		s := scope.New(scopeIndex)
		defer s.Done()

		return s.SetCalibration(vals, calibrationTimeout)
	},
}
