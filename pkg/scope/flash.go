package scope

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"

	"github.com/hant3k/hant3k/pkg/firmware"
)

// renumerationDelay is how long the device needs to reset and re-enumerate
// after the last firmware packet. This is a hard sequencing requirement:
// a command issued earlier addresses a device that no longer exists.
const renumerationDelay = 100 * time.Millisecond

// Flash uploads fw to the scope and reconnects to it afterwards. The 6022
// has no persistent storage, so this must happen once per physical attach.
//
// Writing the image makes the device drop off the bus and re-enumerate,
// usually under a new address (and, fresh out of the box, under a new vendor
// ID). Flash absorbs that: it waits out the reset, discards the stale
// handle, rediscovers the device and reopens the session, which is left open
// and ready for commands.
//
// timeout bounds each packet transfer. Any packet that moves a different
// number of bytes than it declares aborts the upload immediately - no later
// packet is sent - and leaves the session closed so the caller can retry
// from a fresh Discover/Open.
func (s *Scope) Flash(fw firmware.Image, timeout time.Duration) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}

	for i, pkt := range fw {
		n, err := s.xfer.Control(reqTypeVendorOut, reqUploadFirmware, pkt.Value, idxUploadFirmware, pkt.Data, timeout)
		if err != nil {
			err = fmt.Errorf("firmware packet %d: %w", i, err)
			return s.abortFlash(err)
		}
		if n != pkt.Size {
			err = fmt.Errorf("firmware packet %d: wrote %d of %d bytes: %w", i, n, pkt.Size, ErrShortTransfer)
			return s.abortFlash(err)
		}
		glog.V(2).Infof("Firmware packet %d/%d written (%d bytes at 0x%04x)", i+1, len(fw), n, pkt.Value)
	}

	time.Sleep(renumerationDelay)

	// The old handle is stale after the reset; skip the interface release.
	s.closeHandle(false)
	s.cand = nil

	found, err := s.Discover()
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("device did not re-enumerate: %w", ErrNotFound)
	}
	if err := s.Open(); err != nil {
		return fmt.Errorf("reopening after firmware upload: %w", err)
	}
	glog.V(1).Infof("Firmware uploaded, device re-enumerated")
	return nil
}

// abortFlash closes the half-flashed session so the next attempt starts from
// a fresh Discover/Open, and folds any close failure into the upload error.
func (s *Scope) abortFlash(uploadErr error) error {
	s.cand = nil
	if err := s.closeHandle(true); err != nil {
		return multierror.Append(uploadErr, err)
	}
	return uploadErr
}
