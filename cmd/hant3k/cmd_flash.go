package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"

	"github.com/hant3k/hant3k/pkg/firmware"
	"github.com/hant3k/hant3k/pkg/scope"
)

// Matches the stock software's per-packet upload timeout.
const flashTimeoutDefault = 60 * time.Second

var (
	flashFirmware string
	flashTimeout  time.Duration
	flashNoReset  bool
)

var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Upload firmware to the scope",
	Long: `Upload the volatile firmware image to a freshly attached scope. The 6022BE
has no persistent storage, so this must be done once per attach, before any
other command. The device resets and re-enumerates after the upload; flash
waits for that and reconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flashFirmware
		if path == "" {
			var err error
			path, err = xdg.ConfigFile("hant3k/firmware.ihx")
			if err != nil {
				return fmt.Errorf("could not resolve default firmware path: %w", err)
			}
		}
		img, err := loadFirmware(path)
		if err != nil {
			return err
		}
		if !flashNoReset {
			img = firmware.WithReset(img)
		}

		s := scope.New(scopeIndex)
		defer s.Done()

		slog.Info("Uploading firmware...", "path", path, "packets", len(img))
		if err := s.Flash(img, flashTimeout); err != nil {
			return fmt.Errorf("firmware upload failed: %w", err)
		}
		slog.Info("Done!")
		return nil
	},
}

func loadFirmware(path string) (firmware.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open firmware image: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("could not read xz stream: %w", err)
		}
		r = xr
	}
	img, err := firmware.ParseIntelHex(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse firmware image: %w", err)
	}
	return img, nil
}
