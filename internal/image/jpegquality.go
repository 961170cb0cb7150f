package image

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/floats"
)

// Standard luminance quantization table from JPEG Annex K, in the zig-zag
// order DQT segments use on the wire.
var baseLuminanceQuant = [64]float64{
	16, 11, 12, 14, 12, 10, 16, 14,
	13, 14, 18, 17, 16, 19, 24, 40,
	26, 24, 22, 22, 24, 49, 35, 37,
	29, 40, 58, 51, 61, 60, 57, 51,
	56, 55, 64, 72, 92, 78, 64, 68,
	87, 69, 55, 56, 80, 109, 81, 87,
	95, 98, 103, 104, 103, 62, 77, 113,
	121, 112, 100, 120, 92, 101, 103, 99,
}

// EstimateJPEGQuality estimates the encoder quality setting of a JPEG file
// by comparing its luminance quantization table against the standard table
// scaled for every quality level, and picking the closest match.
func EstimateJPEGQuality(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	table, err := readLuminanceQuant(bufio.NewReader(f))
	if err != nil {
		return 0, err
	}

	best, bestDist := 0, 0.0
	candidate := make([]float64, 64)
	for quality := 1; quality <= 100; quality++ {
		scaleQuant(candidate, quality)
		d := floats.Distance(table[:], candidate, 2)
		if best == 0 || d < bestDist {
			best, bestDist = quality, d
		}
	}
	return best, nil
}

// scaleQuant fills dst with the base luminance table scaled for the given
// quality level, using the libjpeg scaling convention.
func scaleQuant(dst []float64, quality int) {
	scale := 200 - quality*2
	if quality < 50 {
		scale = 5000 / quality
	}
	for i, base := range baseLuminanceQuant {
		v := (int(base)*scale + 50) / 100
		if v < 1 {
			v = 1
		}
		if v > 255 {
			v = 255
		}
		dst[i] = float64(v)
	}
}

// readLuminanceQuant scans JPEG segments until it finds the 8-bit luminance
// quantization table (DQT table id 0), or the start of scan data.
func readLuminanceQuant(r *bufio.Reader) ([64]float64, error) {
	var table [64]float64

	soi := make([]byte, 2)
	if _, err := io.ReadFull(r, soi); err != nil {
		return table, err
	}
	if soi[0] != 0xff || soi[1] != 0xd8 {
		return table, fmt.Errorf("not a valid JPEG file")
	}

	for {
		b, err := r.ReadByte()
		if err != nil {
			return table, err
		}
		if b != 0xff {
			return table, fmt.Errorf("malformed JPEG segment")
		}
		marker, err := r.ReadByte()
		if err != nil {
			return table, err
		}
		for marker == 0xff { // fill bytes before a marker are legal
			if marker, err = r.ReadByte(); err != nil {
				return table, err
			}
		}
		if marker == 0xd9 || marker == 0xda { // EOI or SOS: no table ahead
			return table, fmt.Errorf("no luminance quantization table found")
		}

		var length uint16
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return table, err
		}
		if length < 2 {
			return table, fmt.Errorf("malformed JPEG segment length")
		}
		payload := make([]byte, length-2)
		if _, err := io.ReadFull(r, payload); err != nil {
			return table, err
		}
		if marker != 0xdb {
			continue
		}

		// A DQT segment holds one or more tables back to back.
		for len(payload) > 0 {
			precision, id := payload[0]>>4, payload[0]&0x0f
			size := 64
			if precision == 1 {
				size = 128
			}
			if len(payload) < 1+size {
				return table, fmt.Errorf("truncated quantization table")
			}
			if id == 0 && precision == 0 {
				for i := 0; i < 64; i++ {
					table[i] = float64(payload[1+i])
				}
				return table, nil
			}
			payload = payload[1+size:]
		}
	}
}
