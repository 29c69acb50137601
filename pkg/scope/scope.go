// Package scope drives a Hantek 6022BE USB oscilloscope: device discovery
// and session lifecycle, the volatile firmware upload it needs on every
// attach, the vendor command set (calibration, sample rate, voltage ranges)
// and the bulk acquisition path.
//
// A Scope and everything derived from it is single-threaded: one goroutine
// per session. To drive several physical scopes concurrently, give each its
// own Scope (selected by index) on its own goroutine.
package scope

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/google/gousb"
	"github.com/hashicorp/go-multierror"
)

// ErrNotFound is returned when no attached 6022 matches. Recoverable:
// re-run Discover or Open after the device is (re)attached.
var ErrNotFound = errors.New("no oscilloscope found")

// ErrShortTransfer wraps any control or bulk operation that moved a
// different number of bytes than the protocol requires. Never retried
// automatically; a blind retry against the stateful device risks
// desynchronizing it, so recovery is the caller's call.
var ErrShortTransfer = errors.New("transfer length mismatch")

// candidate identifies a discovered but not yet opened device. Bus and
// address pin down one physical unit until it resets.
type candidate struct {
	vid, pid gousb.ID
	bus      int
	address  int
}

// Scope is a session against one physical 6022BE. The zero value is not
// usable; get one from New. A Scope owns its USB handle exclusively and must
// not be shared between goroutines.
type Scope struct {
	// index selects the n-th matching device when several are attached.
	index int

	ctx  *gousb.Context
	cand *candidate
	xfer Transport
}

// New returns an empty session for the index-th attached scope. Nothing is
// touched until Discover or Open.
func New(index int) *Scope {
	return &Scope{index: index}
}

// newContext creates a gousb context, converting the panic gousb raises on
// initialization failure into an error.
func newContext() (*gousb.Context, error) {
	resC := make(chan *gousb.Context)
	errC := make(chan error)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errC <- fmt.Errorf("%v", r)
			}
		}()

		resC <- gousb.NewContext()
	}()

	select {
	case err := <-errC:
		return nil, err
	case res := <-resC:
		return res, nil
	}
}

// Discover looks for an attached scope without opening it, checking the
// primary vendor ID first and the alternate second, and remembers the
// index-th match. Devices that error during enumeration are skipped. The
// returned bool says whether a candidate was found; the error is only
// non-nil when the USB context itself cannot be created.
func (s *Scope) Discover() (bool, error) {
	if s.ctx == nil {
		ctx, err := newContext()
		if err != nil {
			return false, fmt.Errorf("failed to initialize USB: %w", err)
		}
		s.ctx = ctx
	}

	for _, vid := range []gousb.ID{vendorID, altVendorID} {
		var found []candidate
		// The opener declines every device, so this enumerates without
		// opening anything. Per-device enumeration errors surface in
		// OpenDevices' error and are skipped here on purpose.
		s.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
			if desc.Vendor == vid && desc.Product == productID {
				found = append(found, candidate{
					vid:     desc.Vendor,
					pid:     desc.Product,
					bus:     desc.Bus,
					address: desc.Address,
				})
			}
			return false
		})
		if s.index < len(found) {
			s.cand = &found[s.index]
			glog.V(1).Infof("Found scope %04x:%04x at bus %d address %d", uint16(s.cand.vid), uint16(s.cand.pid), s.cand.bus, s.cand.address)
			return true, nil
		}
	}
	return false, nil
}

// Open makes the session usable: discovers a device if none is known, opens
// it, detaches a kernel driver from interface 0 if one is attached, and
// claims the interface. A no-op if the session is already open. Returns
// ErrNotFound when no device is attached; any transport error is fatal for
// the attempt and leaves nothing claimed.
func (s *Scope) Open() error {
	if s.xfer != nil {
		return nil
	}
	if s.cand == nil {
		found, err := s.Discover()
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
	}

	cand := *s.cand
	devs, err := s.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == cand.vid && desc.Product == cand.pid &&
			desc.Bus == cand.bus && desc.Address == cand.address
	})
	if err != nil {
		for _, d := range devs {
			d.Close()
		}
		return fmt.Errorf("opening device: %w", err)
	}
	if len(devs) == 0 {
		// The candidate vanished since discovery (detach or reset).
		s.cand = nil
		return ErrNotFound
	}
	dev := devs[0]

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		return fmt.Errorf("detaching kernel driver: %w", err)
	}
	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		return fmt.Errorf("claiming interface 0: %w", err)
	}

	s.xfer = &usbTransport{dev: dev, done: done, intf: intf}
	return nil
}

// Close releases interface 0 and closes the device handle. Safe to call at
// any time, any number of times; closing a session that was never opened is
// a no-op. The session can be reopened afterwards.
func (s *Scope) Close() error {
	return s.closeHandle(true)
}

// closeHandle is Close with control over interface release. release=false is
// for the stale handle left behind by a firmware-induced reset, where the
// interface is already implicitly gone.
func (s *Scope) closeHandle(release bool) error {
	if s.xfer == nil {
		return nil
	}
	err := s.xfer.Close(release)
	s.xfer = nil
	return err
}

// Done tears the whole session down: the device handle if open, then the USB
// context. The Scope must not be used afterwards. Callers should arrange for
// this on every exit path, typically with defer.
func (s *Scope) Done() error {
	var errs error
	if err := s.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if s.ctx != nil {
		if err := s.ctx.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		s.ctx = nil
		s.cand = nil
	}
	return errs
}

func (s *Scope) ensureOpen() error {
	if s.xfer != nil {
		return nil
	}
	return s.Open()
}
