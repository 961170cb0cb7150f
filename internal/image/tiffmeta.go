package image

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	tiffTagCompression = 259
	tiffTypeShort      = 3
)

// tiffCompression reads the compression scheme (tag 259) from the first IFD
// of a TIFF file without decoding the pixel data.
func tiffCompression(path string) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	// Header: byte order mark, magic 42, offset to first IFD.
	header := make([]byte, 8)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		byteOrder = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		byteOrder = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := byteOrder.Uint32(header[4:8])
	if _, err := f.Seek(int64(ifdOffset), io.SeekStart); err != nil {
		return 0, err
	}

	var numEntries uint16
	if err := binary.Read(f, byteOrder, &numEntries); err != nil {
		return 0, err
	}

	entry := make([]byte, 12)
	for i := uint16(0); i < numEntries; i++ {
		if _, err := io.ReadFull(f, entry); err != nil {
			return 0, err
		}

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		if tag != tiffTagCompression {
			continue
		}
		if fieldType != tiffTypeShort {
			return 0, fmt.Errorf("unexpected field type %d for compression tag", fieldType)
		}
		// SHORT values are stored left-justified in the value field.
		return byteOrder.Uint16(entry[8:10]), nil
	}

	return 0, fmt.Errorf("no compression tag found")
}
