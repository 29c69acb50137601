// Package firmware models the volatile firmware uploaded to the 6022BE on
// every attach. The device's FX2 controller has no non-volatile storage; the
// host writes the image into its RAM as a sequence of vendor control
// transfers, one per packet.
package firmware

// Packet is a single firmware upload transfer: Data is written at the RAM
// address carried in the control transfer's value field.
type Packet struct {
	// Value is the control transfer wValue, i.e. the FX2 RAM address.
	Value uint16
	// Data is the payload written at Value.
	Data []byte
	// Size is the byte count the transfer must report. A transfer that
	// moves any other number of bytes aborts the upload.
	Size int
}

// Image is an ordered firmware upload. Order matters: packets are written
// exactly in sequence.
type Image []Packet

// cpucs is the FX2 CPU control/status register. Writing 1 holds the CPU in
// reset, writing 0 releases it.
const cpucs = 0xe600

// WithReset brackets img with the FX2 reset handshake: hold the CPU before
// the first code byte lands, release it after the last. Loaders for FX2
// parts do this so the device never executes a half-written image.
func WithReset(img Image) Image {
	res := make(Image, 0, len(img)+2)
	res = append(res, Packet{Value: cpucs, Data: []byte{0x01}, Size: 1})
	res = append(res, img...)
	res = append(res, Packet{Value: cpucs, Data: []byte{0x00}, Size: 1})
	return res
}
