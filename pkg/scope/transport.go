package scope

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// Transport is the subset of USB operations the driver issues against an
// open scope. It exists so the command and acquisition layers can be
// exercised without hardware; the only production implementation wraps a
// claimed gousb handle.
//
// A timeout of 0 means block until the transfer completes.
type Transport interface {
	// Control performs a control transfer and returns the number of bytes
	// moved. For reads (rType direction bit set) data is filled in place.
	Control(rType, request uint8, val, idx uint16, data []byte, timeout time.Duration) (int, error)

	// BulkIn reads len(buf) bytes from the sample stream endpoint and
	// returns the number of bytes actually read.
	BulkIn(buf []byte, timeout time.Duration) (int, error)

	// Close closes the device handle. If release is false the claimed
	// interface is assumed stale (the device reset out from under it) and
	// release errors are swallowed.
	Close(release bool) error
}

// usbTransport implements Transport over a gousb device with interface 0
// claimed.
type usbTransport struct {
	dev  *gousb.Device
	done func()
	intf *gousb.Interface
	in   *gousb.InEndpoint
}

func (u *usbTransport) Control(rType, request uint8, val, idx uint16, data []byte, timeout time.Duration) (int, error) {
	u.dev.ControlTimeout = timeout
	return u.dev.Control(rType, request, val, idx, data)
}

func (u *usbTransport) BulkIn(buf []byte, timeout time.Duration) (int, error) {
	// The bare FX2 exposes only the control endpoint until firmware is
	// running, so the sample endpoint can't be resolved at open time.
	if u.in == nil {
		ep, err := u.intf.InEndpoint(bulkInEndpoint)
		if err != nil {
			return 0, fmt.Errorf("resolving bulk-in endpoint %d: %w", bulkInEndpoint, err)
		}
		u.in = ep
	}
	if timeout <= 0 {
		return u.in.Read(buf)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return u.in.ReadContext(ctx, buf)
}

func (u *usbTransport) Close(release bool) error {
	// done releases interface 0 and the active config. gousb ignores
	// libusb errors during release, so this is safe even when the device
	// already dropped off the bus after a firmware reset.
	u.done()
	if release {
		return u.dev.Close()
	}
	u.dev.Close()
	return nil
}
