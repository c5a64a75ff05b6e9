package fixups

import (
	"testing"

	"github.com/Manu343726/escarabajo/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_Geometry(t *testing.T) {
	patch := Kinds.Descriptor(Kind_7_PCRel).Patch(0x3, 4)

	assert.Equal(t, uint(4), patch.ByteOffset)
	assert.Equal(t, uint(2), patch.ByteCount, "3 offset bits plus 7 value bits span 2 bytes")
	assert.Equal(t, uint64(0x18), patch.Value, "value shifted to its bit offset")
}

func TestApply_PatchesLeastSignificantByteFirst(t *testing.T) {
	data := make([]byte, 4)

	err := Apply(Kinds.Descriptor(Kind_16), 0x1234, data, 1)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x00, 0x34, 0x12, 0x00}, data)
}

func TestApply_ORsIntoExistingBits(t *testing.T) {
	// The instruction encoder leaves the fixup target bits zeroed; all
	// other instruction bits must survive the patch
	data := []byte{0b11110100, 0b00000011}

	err := Apply(Kinds.Descriptor(Kind_7_PCRel), 0x3, data, 0)
	require.NoError(t, err)

	assert.Equal(t, []byte{0b11111100, 0b00000011}, data)
}

func TestApply_ZeroValueLeavesBufferUntouched(t *testing.T) {
	data := []byte{0xaa, 0xaa, 0xaa, 0xaa}

	err := Apply(Kinds.Descriptor(Kind_16), 0, data, 1)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xaa, 0xaa, 0xaa, 0xaa}, data)
}

func TestApply_ZeroValueStillChecksBounds(t *testing.T) {
	data := make([]byte, 2)

	err := Apply(Kinds.Descriptor(Kind_16), 0, data, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFixupOutOfBounds)
}

func TestApply_OutOfBoundsOffset(t *testing.T) {
	data := make([]byte, 4)

	err := Apply(Kinds.Descriptor(Kind_Call), 0x1, data, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFixupOutOfBounds)
}

func TestAdjustThenApply_RoundTrips(t *testing.T) {
	tests := []struct {
		kind  Kind
		value int64
	}{
		{kind: Kind_7_PCRel, value: 8},
		{kind: Kind_7_PCRel, value: -4},
		{kind: Kind_13_PCRel, value: 0x100},
		{kind: Kind_Call, value: 0x123456},
		{kind: Kind_LDI, value: 0x34},
		{kind: Kind_6_ADIW, value: 0x25},
		{kind: Kind_Port5, value: 0x15},
		{kind: Kind_Port6, value: 0x25},
		{kind: Kind_16, value: 0x1234},
		{kind: Kind_Data4, value: 0xdeadbeef},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			descriptor := Kinds.Descriptor(tt.kind)

			adjusted, err := Adjust(tt.kind, tt.value, SourceLocation{})
			require.NoError(t, err)

			const offset = 2
			data := make([]byte, offset+int(descriptor.TotalBytes()))

			require.NoError(t, Apply(descriptor, uint64(adjusted), data, offset))

			// Re-extract the patched byte span, least significant byte
			// first, and compare against the positioned value
			var extracted uint64
			view := utils.CreateBitView(&extracted)
			for i := uint(0); i < descriptor.TotalBytes(); i++ {
				view.Write(uint64(data[offset+i]), int(i)*utils.BitsPerByte, utils.BitsPerByte)
			}

			totalBits := utils.Bits(int(descriptor.TotalBytes()))
			positioned := uint64(adjusted) << descriptor.BitOffset
			assert.Equal(t, positioned&utils.AllOnes[uint64](totalBits), view.Value())
		})
	}
}
