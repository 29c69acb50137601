package scope

import "github.com/google/gousb"

// USB identity of the 6022BE. Freshly attached units (bare FX2, no firmware
// yet) and some clones enumerate under the alternate vendor ID; discovery
// checks the primary ID first and falls back to the alternate.
const (
	vendorID    = gousb.ID(0x04b5)
	altVendorID = gousb.ID(0x04b4)
	productID   = gousb.ID(0x6022)
)

// bmRequestType for the scope's vendor commands: vendor type, device
// recipient. Reads additionally carry the device-to-host direction bit.
const (
	reqTypeVendorOut uint8 = 0x40
	reqTypeVendorIn  uint8 = 0xc0
)

// Vendor request codes. Values and indices are fixed per request and carried
// next to each use; the firmware upload request is the exception, its value
// field is the per-packet RAM address.
const (
	reqUploadFirmware uint8 = 0xa0
	reqCalibration    uint8 = 0xa2
	reqSetSampleRate  uint8 = 0xe2
	reqSetCh1Range    uint8 = 0xe0
	reqSetCh2Range    uint8 = 0xe1
	reqTriggerRead    uint8 = 0xe3
)

const (
	idxUploadFirmware uint16 = 0x00
	valCalibration    uint16 = 0x08
	idxCalibration    uint16 = 0x00

	// CalibrationLen is the size of the device's calibration block.
	CalibrationLen = 0x20
)

// bulkInEndpoint is the endpoint number of the sample stream (address 0x86).
const bulkInEndpoint = 6
