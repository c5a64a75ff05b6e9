package utils

import (
	"golang.org/x/exp/constraints"
)

const BitsPerByte = 8

// Returns the size in bits of n bytes
func Bits(bytes int) int {
	return bytes * BitsPerByte
}

// Returns the number of bytes needed to hold n bits
func BytesFor(bits int) int {
	return (bits + BitsPerByte - 1) / BitsPerByte
}

// Returns an all ones bitmask of n bits of the given unsigned integer type
func AllOnes[T constraints.Unsigned](bits int) T {
	return (T(1) << bits) - T(1)
}

// Returns the smallest value representable by a two's complement signed
// integer of the given width
func MinIntN(bits int) int64 {
	return -(int64(1) << (bits - 1))
}

// Returns the biggest value representable by a two's complement signed
// integer of the given width
func MaxIntN(bits int) int64 {
	return (int64(1) << (bits - 1)) - 1
}

// Returns the biggest value representable by an unsigned integer of the
// given width
func MaxUintN(bits int) uint64 {
	return AllOnes[uint64](bits)
}

// Returns true if the value fits in a two's complement signed integer of
// the given width
func IsIntN(bits int, value int64) bool {
	return bits >= 64 || (value >= MinIntN(bits) && value <= MaxIntN(bits))
}

// Returns true if the value fits in an unsigned integer of the given width
func IsUIntN(bits int, value uint64) bool {
	return bits >= 64 || value <= MaxUintN(bits)
}

// Implements a read/write view over an unsigned integer, allowing manipulating individual bits easily
type BitView[T constraints.Unsigned] struct {
	Bits *T
}

// Returns the viewed unsigned int value
func (v BitView[T]) Value() T {
	return *v.Bits
}

// Extracts a range of bits given a first bit and a width
func (v BitView[T]) Read(bit int, width int) T {
	mask := AllOnes[T](width)
	return (v.Value() >> bit) & mask
}

// Copies a value into a range of bits, given the start and width of the range.
// All most significant bits of the value not fitting into the destination range are ignored.
func (v BitView[T]) Write(value T, bit int, width int) {
	clearedValue := value & AllOnes[T](width)
	*v.Bits = (*v.Bits) | (clearedValue << bit)
}

// Creates a bit view out of an unsigned int
func CreateBitView[T constraints.Unsigned](value *T) BitView[T] {
	return BitView[T]{
		Bits: value,
	}
}
