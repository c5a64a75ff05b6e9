package fixups

import (
	"fmt"
)

// Points at the assembly source construct a fixup was generated from.
// Carried through resolution opaquely and only used to attach diagnostics.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return "<unknown location>"
	}

	return fmt.Sprintf("%v:%v:%v", l.File, l.Line, l.Column)
}

// A fatal, located assembly diagnostic. Once raised, resolution of the
// affected translation unit stops: an out of range immediate has no
// fallback encoding, so there is nothing sensible to retry.
type Diagnostic struct {
	Loc     SourceLocation
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%v: %v", d.Loc, d.Message)
}
