package fixups

import (
	"errors"

	"github.com/Manu343726/escarabajo/pkg/utils"
)

// ErrFixupOutOfBounds indicates a fixup whose byte span does not fit in
// the instruction buffer. This points at a placement bug in the caller,
// not at the assembly source, so it carries no source location.
var ErrFixupOutOfBounds error = errors.New("fixup does not fit in the instruction buffer")

// An adjusted fixup value shifted to its final bit position, plus the
// byte span of the instruction buffer it touches
type Patch struct {
	// First buffer byte touched by the patch
	ByteOffset uint
	// Total buffer bytes touched by the patch
	ByteCount uint
	// Value with all bits at their final positions within the span
	Value uint64
}

// Positions an adjusted fixup value at the descriptor's bit offset and
// computes the byte span it touches within the instruction buffer
func (d *Descriptor) Patch(value uint64, byteOffset uint) Patch {
	return Patch{
		ByteOffset: byteOffset,
		ByteCount:  d.TotalBytes(),
		Value:      value << d.BitOffset,
	}
}

// ORs the patch bits into the instruction buffer, byte by byte, least
// significant byte first. The target bits must have been left zeroed by
// the instruction encoder: Apply never clears bits.
//
// Bounds are validated before the zero short-circuit, so a zero-valued
// patch at a bad offset is still reported.
func (p Patch) Apply(data []byte) error {
	if p.ByteOffset+p.ByteCount > uint(len(data)) {
		return utils.MakeError(ErrFixupOutOfBounds, "patch touches bytes [%v, %v) of a %v byte buffer", p.ByteOffset, p.ByteOffset+p.ByteCount, len(data))
	}

	if p.Value == 0 {
		// ORing zero cannot change the encoding
		return nil
	}

	for i := uint(0); i < p.ByteCount; i++ {
		data[p.ByteOffset+i] |= byte(p.Value >> (i * utils.BitsPerByte))
	}

	return nil
}

// Applies an adjusted fixup value into the instruction buffer at the
// given byte offset, following the geometry of the descriptor
func Apply(descriptor *Descriptor, value uint64, data []byte, byteOffset uint) error {
	return descriptor.Patch(value, byteOffset).Apply(data)
}
