package command

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// PayloadSize is the size of a serialized MovementCommand: three little-endian float32.
	PayloadSize = 3 * 4

	// MaxFrameSize is the largest frame Encode can produce, terminator included.
	// It depends only on the field widths.
	MaxFrameSize = PayloadSize + PayloadSize/254 + 1 + 1
)

// Decode errors. All of them wrap ErrDecode.
var (
	ErrDecode         = errors.New("invalid command frame")
	ErrTruncated      = fmt.Errorf("%w: truncated frame (missing terminator)", ErrDecode)
	ErrFrameTooLarge  = fmt.Errorf("%w: frame exceeds %d bytes", ErrDecode, MaxFrameSize)
	ErrMalformedFrame = fmt.Errorf("%w: malformed byte stuffing", ErrDecode)
	ErrPayloadShape   = fmt.Errorf("%w: unexpected payload size", ErrDecode)
	ErrNonFinite      = fmt.Errorf("%w: non-finite field value", ErrDecode)
)

// Encode serializes m into a single terminated frame of at most MaxFrameSize bytes.
func Encode(m MovementCommand) []byte {
	var payload [PayloadSize]byte
	binary.LittleEndian.PutUint32(payload[0:4], math.Float32bits(m.Translate.X))
	binary.LittleEndian.PutUint32(payload[4:8], math.Float32bits(m.Translate.Y))
	binary.LittleEndian.PutUint32(payload[8:12], math.Float32bits(m.Rotate))

	frame := cobsEncode(payload[:])
	return append(frame, frameDelimiter)
}

// Decode parses exactly one frame. The frame must end with the terminator and carry
// exactly one MovementCommand with finite fields.
func Decode(frame []byte) (MovementCommand, error) {
	if len(frame) == 0 || frame[len(frame)-1] != frameDelimiter {
		return MovementCommand{}, ErrTruncated
	}
	if len(frame) > MaxFrameSize {
		return MovementCommand{}, ErrFrameTooLarge
	}

	payload, err := cobsDecode(frame[:len(frame)-1])
	if err != nil {
		return MovementCommand{}, err
	}
	if len(payload) != PayloadSize {
		return MovementCommand{}, fmt.Errorf("%w: got %d bytes, want %d", ErrPayloadShape, len(payload), PayloadSize)
	}

	m := MovementCommand{
		Translate: Vector2{
			X: math.Float32frombits(binary.LittleEndian.Uint32(payload[0:4])),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(payload[4:8])),
		},
		Rotate: math.Float32frombits(binary.LittleEndian.Uint32(payload[8:12])),
	}
	for _, v := range [...]float32{m.Translate.X, m.Translate.Y, m.Rotate} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return MovementCommand{}, ErrNonFinite
		}
	}
	return m, nil
}
