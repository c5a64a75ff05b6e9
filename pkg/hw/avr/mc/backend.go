package mc

import (
	"fmt"
	"io"

	"github.com/Manu343726/escarabajo/pkg/hw/avr/mc/fixups"
)

// OS/ABI identifier stamped into the object files produced by the
// downstream object writer
type OSABI uint8

const (
	OSABI_None       OSABI = 0
	OSABI_Linux      OSABI = 3
	OSABI_Standalone OSABI = 255
)

// A fixup deferred to link time because its value depends on final memory
// layout
type Relocation struct {
	// Byte offset of the patched instruction within its section
	Offset uint64
	// Kind of the deferred fixup
	Kind fixups.Kind
	// Raw value of the fixup at deferral time
	Addend int64
}

// Persists sections and relocation records. Implemented by the object
// file layer: the backend only decides whether a fixup becomes a
// relocation, never how relocations are serialized.
type ObjectWriter interface {
	// Writes count zero bytes to the output
	WriteZeros(count uint64) error
	// Records a relocation to be resolved at link time
	RecordRelocation(relocation Relocation) error
}

// Constructs the object writer for an output sink and an OS/ABI
type ObjectWriterFactory func(out io.Writer, osABI OSABI) (ObjectWriter, error)

// Resolves and encodes fixups for the AVR target, delegating relocation
// and section bookkeeping to the object writer collaborators
type Backend struct {
	// OS/ABI the produced object files are tagged with
	OSType OSABI
	// Factory for the downstream object writer
	NewObjectWriter ObjectWriterFactory
}

// Constructs the downstream object writer for the given output sink,
// tagged with the backend's OS/ABI
func (b *Backend) CreateObjectWriter(out io.Writer) (ObjectWriter, error) {
	return b.NewObjectWriter(out, b.OSType)
}

// Writes count bytes of padding between instructions as zero bytes. AVR
// instructions are 2 bytes wide, so an odd count means the fragment
// layout upstream is corrupted.
func (b *Backend) WriteNopData(count uint64, writer ObjectWriter) error {
	if count%2 != 0 {
		panic(fmt.Sprintf("NOP padding of %v bytes requested, NOP instructions are 2 bytes", count))
	}

	return writer.WriteZeros(count)
}

// Resolves a fixup request against an instruction buffer. Fixups whose
// value depends on final layout come back as a relocation record for the
// object writer; everything else is adjusted and patched in place. A nil
// relocation means the fixup was fully resolved.
func (b *Backend) ProcessFixup(request fixups.Request, data []byte) (*Relocation, error) {
	resolution, err := fixups.Resolve(request)

	if err != nil {
		return nil, err
	}

	if resolution.Deferred {
		return &Relocation{
			Offset: uint64(request.ByteOffset),
			Kind:   request.Kind,
			Addend: request.Value,
		}, nil
	}

	descriptor := fixups.Kinds.Descriptor(request.Kind)

	if err := fixups.Apply(descriptor, uint64(resolution.Value), data, request.ByteOffset); err != nil {
		return nil, err
	}

	return nil, nil
}
