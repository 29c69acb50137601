package firmware

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
)

// Intel HEX record types. FX2 images only use 16-bit addressing, so the
// extended-address record types are rejected rather than silently misread.
const (
	recordData = 0x00
	recordEOF  = 0x01
)

// ParseIntelHex reads an Intel HEX image and returns one upload packet per
// data record, in file order. Parsing stops at the end-of-file record. Every
// record's checksum is verified.
func ParseIntelHex(r io.Reader) (Image, error) {
	var img Image
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			return nil, fmt.Errorf("line %d: missing record mark", lineno)
		}
		raw, err := hex.DecodeString(line[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		// length, 16-bit address, type, payload, checksum
		if len(raw) < 5 {
			return nil, fmt.Errorf("line %d: record too short", lineno)
		}
		count := int(raw[0])
		if len(raw) != count+5 {
			return nil, fmt.Errorf("line %d: record length %d, declared %d bytes", lineno, len(raw), count+5)
		}
		var sum byte
		for _, b := range raw {
			sum += b
		}
		if sum != 0 {
			return nil, fmt.Errorf("line %d: checksum mismatch", lineno)
		}
		addr := uint16(raw[1])<<8 | uint16(raw[2])
		switch typ := raw[3]; typ {
		case recordData:
			data := make([]byte, count)
			copy(data, raw[4:4+count])
			img = append(img, Packet{Value: addr, Data: data, Size: count})
		case recordEOF:
			glog.V(1).Infof("Parsed firmware image: %d packets", len(img))
			return img, nil
		default:
			return nil, fmt.Errorf("line %d: unsupported record type 0x%02x", lineno, typ)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no end-of-file record")
}
