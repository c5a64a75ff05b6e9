package fixups

// A fixup resolution request for one instruction operand whose value was
// not known at encoding time. Requests are independent of each other:
// resolving one never touches shared state.
type Request struct {
	// Kind of the fixup
	Kind Kind
	// Byte offset of the patched instruction within its buffer
	ByteOffset uint
	// Source construct the fixup points back at, for diagnostics
	Loc SourceLocation
	// Raw target value: an address difference, an absolute address or an
	// immediate, depending on the kind
	Value int64
	// True if the target symbol is a compiler generated temporary label
	TemporaryTarget bool
}

// Outcome of resolving a fixup request
type Resolution struct {
	// True if the fixup must be kept as a relocation record because its
	// value depends on final link-time layout
	Deferred bool
	// Adjusted value, ready to be positioned and applied. Zero when the
	// fixup is deferred.
	Value int64
}

// Decides whether a fixup can be resolved immediately or must be deferred
// to the object writer's relocation mechanism, and adjusts the value for
// application.
//
// Branch and call targets are always deferred: their values are never
// baked in at this stage. For every other kind, temporary labels carry an
// instruction-size pre-adjustment that named labels don't, so their
// values are normalized by +2 before adjustment. This puts both label
// flavours under the same convention.
func Resolve(request Request) (Resolution, error) {
	switch request.Kind {
	case Kind_7_PCRel, Kind_13_PCRel, Kind_Call:
		return Resolution{Deferred: true}, nil
	}

	value := request.Value

	if request.TemporaryTarget {
		value += 2
	}

	value, err := Adjust(request.Kind, value, request.Loc)

	if err != nil {
		return Resolution{}, err
	}

	return Resolution{Value: value}, nil
}
