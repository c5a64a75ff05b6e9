package mc

import (
	"bytes"
	"io"
	"testing"

	"github.com/Manu343726/escarabajo/pkg/hw/avr/mc/fixups"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Records everything the backend hands over, for inspection
type recordingObjectWriter struct {
	out         io.Writer
	osABI       OSABI
	relocations []Relocation
}

func (w *recordingObjectWriter) WriteZeros(count uint64) error {
	_, err := w.out.Write(make([]byte, count))
	return err
}

func (w *recordingObjectWriter) RecordRelocation(relocation Relocation) error {
	w.relocations = append(w.relocations, relocation)
	return nil
}

func newTestBackend() (*Backend, *recordingObjectWriter) {
	writer := &recordingObjectWriter{}

	return &Backend{
		OSType: OSABI_Standalone,
		NewObjectWriter: func(out io.Writer, osABI OSABI) (ObjectWriter, error) {
			writer.out = out
			writer.osABI = osABI
			return writer, nil
		},
	}, writer
}

func TestBackend_CreateObjectWriterForwardsTheOSABI(t *testing.T) {
	backend, _ := newTestBackend()

	var out bytes.Buffer
	writer, err := backend.CreateObjectWriter(&out)

	require.NoError(t, err)
	assert.Equal(t, OSABI_Standalone, writer.(*recordingObjectWriter).osABI)
}

func TestBackend_WriteNopDataZeroFills(t *testing.T) {
	backend, _ := newTestBackend()

	var out bytes.Buffer
	writer, err := backend.CreateObjectWriter(&out)
	require.NoError(t, err)

	require.NoError(t, backend.WriteNopData(6, writer))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, out.Bytes())
}

func TestBackend_WriteNopDataPanicsOnOddCounts(t *testing.T) {
	backend, _ := newTestBackend()

	var out bytes.Buffer
	writer, err := backend.CreateObjectWriter(&out)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_ = backend.WriteNopData(3, writer)
	})
}

func TestBackend_ProcessFixupDefersLayoutDependentKinds(t *testing.T) {
	backend, _ := newTestBackend()

	data := []byte{0xaa, 0xbb}
	relocation, err := backend.ProcessFixup(fixups.Request{
		Kind:       fixups.Kind_7_PCRel,
		ByteOffset: 0,
		Value:      8,
	}, data)

	require.NoError(t, err)
	require.NotNil(t, relocation)
	assert.Equal(t, fixups.Kind_7_PCRel, relocation.Kind)
	assert.Equal(t, int64(8), relocation.Addend)
	assert.Equal(t, []byte{0xaa, 0xbb}, data, "deferred fixups must not patch the buffer")
}

func TestBackend_ProcessFixupPatchesResolvableKindsInPlace(t *testing.T) {
	backend, _ := newTestBackend()

	data := make([]byte, 2)
	relocation, err := backend.ProcessFixup(fixups.Request{
		Kind:       fixups.Kind_6_ADIW,
		ByteOffset: 0,
		Value:      0x25,
	}, data)

	require.NoError(t, err)
	assert.Nil(t, relocation)
	assert.Equal(t, []byte{0x85, 0x00}, data)
}

func TestBackend_ProcessFixupReportsRangeViolations(t *testing.T) {
	backend, _ := newTestBackend()

	data := make([]byte, 2)
	_, err := backend.ProcessFixup(fixups.Request{
		Kind:  fixups.Kind_6_ADIW,
		Value: 0x40,
		Loc:   fixups.SourceLocation{File: "blink.s", Line: 1, Column: 1},
	}, data)

	require.Error(t, err)

	var diagnostic *fixups.Diagnostic
	assert.ErrorAs(t, err, &diagnostic)
	assert.Equal(t, []byte{0x00, 0x00}, data, "no partial encoding may be written for a failed fixup")
}
