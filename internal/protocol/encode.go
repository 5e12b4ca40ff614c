package protocol

import (
	"fmt"
	"io"
	"math"
)

// Encode writes cmd to w in wire format.
//
// Relative channels are written as big-endian int16. Decode reproduces them
// only while each low byte stays below 0x80; see combine.
func Encode(w io.Writer, cmd Command) error {
	b, err := AppendCommand(nil, cmd)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// AppendCommand appends the wire encoding of cmd to dst.
func AppendCommand(dst []byte, cmd Command) ([]byte, error) {
	if cmd.IsAbsolute() {
		for _, v := range [3]int32{cmd.R, cmd.G, cmd.B} {
			if v < 0 || v > math.MaxUint8 {
				return dst, fmt.Errorf("%w: absolute %d", ErrValueOutOfRange, v)
			}
		}
		return append(dst, OpAbsolute, byte(cmd.R), byte(cmd.G), byte(cmd.B)), nil
	}

	dst = append(dst, OpRelative)
	for _, v := range [3]int32{cmd.R, cmd.G, cmd.B} {
		if v < math.MinInt16 || v > math.MaxInt16 {
			return dst, fmt.Errorf("%w: relative %d", ErrValueOutOfRange, v)
		}
		u := uint16(int16(v))
		dst = append(dst, byte(u>>8), byte(u))
	}
	return dst, nil
}
