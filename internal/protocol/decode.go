package protocol

import (
	"errors"
	"io"
)

// Decode reads exactly one command from r.
//
// A stream that ends before the command is complete yields ErrTruncated;
// any other reader failure is a *DecodeError of kind ErrKindIO.
func Decode(r io.Reader) (Command, error) {
	var buf [1 + relativePayloadLen]byte
	if err := readFull(r, buf[:1], 0); err != nil {
		return Command{}, err
	}
	op := buf[0]

	if op == OpAbsolute {
		payload := buf[1 : 1+absolutePayloadLen]
		if err := readFull(r, payload, 1); err != nil {
			return Command{}, err
		}
		return Absolute(payload[0], payload[1], payload[2]), nil
	}

	payload := buf[1 : 1+relativePayloadLen]
	if err := readFull(r, payload, 1); err != nil {
		return Command{}, err
	}
	return Relative(
		combine(payload[0], payload[1]),
		combine(payload[2], payload[3]),
		combine(payload[4], payload[5]),
	), nil
}

// combine joins one (hi, lo) pair with both bytes promoted as signed.
// A negative lo sign-extends over the hi bits; this matches the deployed
// command sources and must stay bit-for-bit.
func combine(hi, lo byte) int32 {
	return int32(int8(hi))<<8 | int32(int8(lo))
}

func readFull(r io.Reader, buf []byte, offset int) error {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &DecodeError{Kind: ErrKindTruncated, Read: offset + n, Err: err}
	}
	return &DecodeError{Kind: ErrKindIO, Read: offset + n, Err: err}
}
