package fixups

import (
	"fmt"

	"github.com/Manu343726/escarabajo/pkg/utils"
)

// Checks that a value fits in a two's complement signed field of the
// given width. Together with unsignedWidth this is the only place range
// diagnostics are produced; every adjuster routes through them.
func signedWidth(width uint, value int64, field string, loc SourceLocation) error {
	if utils.IsIntN(int(width), value) {
		return nil
	}

	return &Diagnostic{
		Loc: loc,
		Message: fmt.Sprintf("out of range %v (expected an integer in the range %v to %v)",
			field, utils.MinIntN(int(width)), utils.MaxIntN(int(width))),
	}
}

// Checks that a value fits in an unsigned field of the given width
func unsignedWidth(width uint, value int64, field string, loc SourceLocation) error {
	if utils.IsUIntN(int(width), uint64(value)) {
		return nil
	}

	return &Diagnostic{
		Loc: loc,
		Message: fmt.Sprintf("out of range %v (expected an integer in the range 0 to %v)",
			field, utils.MaxUintN(int(width))),
	}
}

// Signature shared by all per-kind value adjusters. An adjuster turns the
// raw target value into the exact bit pattern the instruction format
// expects, or produces a range diagnostic. Adjusters are pure: the width
// comes from the catalog and everything else from the arguments.
type adjustFunc func(width uint, value int64, loc SourceLocation) (int64, error)

// Adjusts an absolute, word aligned branch target. The field gets one
// extra bit of headroom because the encoding right-shifts the value by
// one: branch targets are always 2-byte aligned.
func adjustBranch(width uint, value int64, loc SourceLocation) (int64, error) {
	if err := unsignedWidth(width+1, value, "branch target", loc); err != nil {
		return 0, err
	}

	return value >> 1, nil
}

// Adjusts a PC-relative, word aligned branch target. The PC has already
// advanced past the 2-byte instruction when the branch executes, so the
// offset is corrected by -2 before the word alignment shift.
func adjustRelativeBranch(width uint, value int64, loc SourceLocation) (int64, error) {
	if err := signedWidth(width+1, value, "branch target", loc); err != nil {
		return 0, err
	}

	value -= 2

	return value >> 1, nil
}

// 7-bit PC-relative fixup.
//
// Resolves to:
// 0000 00kk kkkk k000
func fixup7PCRel(width uint, value int64, loc SourceLocation) (int64, error) {
	value, err := adjustRelativeBranch(width, value, loc)

	if err != nil {
		return 0, err
	}

	// The value may be negative, mask out the sign bits
	return value & 0x7f, nil
}

// 12-bit PC-relative fixup (the kind name says 13, the field is 12 bits).
//
// Resolves to:
// 0000 kkkk kkkk kkkk
func fixup13PCRel(width uint, value int64, loc SourceLocation) (int64, error) {
	value, err := adjustRelativeBranch(width, value, loc)

	if err != nil {
		return 0, err
	}

	// The value may be negative, mask out the sign bits
	return value & 0xfff, nil
}

// 22-bit absolute call target.
//
// Resolves to:
// 1001 kkkk 010k kkkk kkkk kkkk 111k kkkk
func fixupCall(width uint, value int64, loc SourceLocation) (int64, error) {
	value, err := adjustBranch(width, value, loc)

	if err != nil {
		return 0, err
	}

	top := value & (0xf << 14)       // the top four bits
	middle := value & (0x1ffff << 5) // the middle 17 bits
	bottom := value & 0x1f           // the bottom 5 bits

	return (top << 6) | (middle << 3) | (bottom << 0), nil
}

// Adjusts a value to fix up the immediate of an `LDI Rd, K` instruction.
// The two nibbles of the immediate sit in non-adjacent positions of the
// encoding.
//
// Resolves to:
// 0000 KKKK 0000 KKKK
func ldiFixup(value int64) int64 {
	upper := value & 0xf0
	lower := value & 0x0f

	return (upper << 4) | lower
}

func ldiLo8(value int64) int64 {
	return ldiFixup(value & 0xff)
}

func ldiHi8(value int64) int64 {
	return ldiFixup((value & 0xff00) >> 8)
}

func ldiHH8(value int64) int64 {
	return ldiFixup((value & 0xff0000) >> 16)
}

func ldiMS8(value int64) int64 {
	return ldiFixup((value & 0xff000000) >> 24)
}

// Builds the adjuster of one member of the LDI fixup family out of its
// byte selection and its program-memory/negation prefixes. Program memory
// is word-addressed, so those variants right-shift the raw byte address
// first; negated variants encode immediate subtraction forms.
func ldiAdjuster(selectByte func(int64) int64, programMemory bool, negate bool) adjustFunc {
	return func(width uint, value int64, loc SourceLocation) (int64, error) {
		if programMemory {
			value >>= 1
		}

		if negate {
			value = -value
		}

		return selectByte(value), nil
	}
}

// 6-bit fixup for the immediate operand of the ADIW family of
// instructions.
//
// Resolves to:
// 0000 0000 kk00 kkkk
func fixup6ADIW(width uint, value int64, loc SourceLocation) (int64, error) {
	if err := unsignedWidth(6, value, "immediate", loc); err != nil {
		return 0, err
	}

	return ((value & 0x30) << 2) | (value & 0x0f), nil
}

// 5-bit port number fixup on the SBIC family of instructions.
//
// Resolves to:
// 0000 0000 AAAA A000
func fixupPort5(width uint, value int64, loc SourceLocation) (int64, error) {
	if err := unsignedWidth(5, value, "port number", loc); err != nil {
		return 0, err
	}

	return (value & 0x1f) << 3, nil
}

// 6-bit port number fixup on the `IN` family of instructions.
//
// Resolves to:
// 1011 0AAd dddd AAAA
func fixupPort6(width uint, value int64, loc SourceLocation) (int64, error) {
	if err := unsignedWidth(6, value, "port number", loc); err != nil {
		return 0, err
	}

	return ((value & 0x30) << 5) | (value & 0x0f), nil
}

// 16-bit raw value fixup, range checked and masked but not scattered
func fixup16(width uint, value int64, loc SourceLocation) (int64, error) {
	if err := unsignedWidth(16, value, "port number", loc); err != nil {
		return 0, err
	}

	return value & 0xffff, nil
}

// Raw data fixup of the declared width, range checked and masked but not
// scattered
func dataFixup(width uint, value int64, loc SourceLocation) (int64, error) {
	if err := unsignedWidth(width, value, "immediate", loc); err != nil {
		return 0, err
	}

	return value & int64(utils.MaxUintN(int(width))), nil
}

// Marks a fixup kind the encoder has no transform for. Hitting one of
// these at adjustment time means the encoding catalog and the adjusters
// table have drifted apart, or an upstream component emitted a fixup
// nobody implemented: a build defect, not a user-reportable condition.
func unsupported(kind Kind) adjustFunc {
	return func(width uint, value int64, loc SourceLocation) (int64, error) {
		panic(fmt.Sprintf("don't know how to adjust fixup kind '%v'", Kinds.Name(kind)))
	}
}

// Maps every fixup kind to its value adjuster. Completeness against the
// Kind enumeration is validated once at package initialization, so a kind
// added to the catalog without an adjuster entry fails fast instead of
// misencoding.
var adjusters map[Kind]adjustFunc = map[Kind]adjustFunc{
	Kind_7_PCRel:  fixup7PCRel,
	Kind_13_PCRel: fixup13PCRel,
	Kind_Call:     fixupCall,

	Kind_LDI: func(width uint, value int64, loc SourceLocation) (int64, error) {
		return ldiFixup(value), nil
	},
	Kind_Lo8_LDI:        ldiAdjuster(ldiLo8, false, false),
	Kind_Hi8_LDI:        ldiAdjuster(ldiHi8, false, false),
	Kind_HH8_LDI:        ldiAdjuster(ldiHH8, false, false),
	Kind_MS8_LDI:        ldiAdjuster(ldiMS8, false, false),
	Kind_Lo8_LDI_Neg:    ldiAdjuster(ldiLo8, false, true),
	Kind_Hi8_LDI_Neg:    ldiAdjuster(ldiHi8, false, true),
	Kind_HH8_LDI_Neg:    ldiAdjuster(ldiHH8, false, true),
	Kind_MS8_LDI_Neg:    ldiAdjuster(ldiMS8, false, true),
	Kind_Lo8_LDI_PM:     ldiAdjuster(ldiLo8, true, false),
	Kind_Hi8_LDI_PM:     ldiAdjuster(ldiHi8, true, false),
	Kind_HH8_LDI_PM:     ldiAdjuster(ldiHH8, true, false),
	Kind_Lo8_LDI_PM_Neg: ldiAdjuster(ldiLo8, true, true),
	Kind_Hi8_LDI_PM_Neg: ldiAdjuster(ldiHi8, true, true),
	Kind_HH8_LDI_PM_Neg: ldiAdjuster(ldiHH8, true, true),

	Kind_16:     fixup16,
	Kind_6_ADIW: fixup6ADIW,
	Kind_Port5:  fixupPort5,
	Kind_Port6:  fixupPort6,

	Kind_Data2: dataFixup,
	Kind_Data4: dataFixup,
	Kind_Data8: dataFixup,

	// No encoding implemented for these kinds
	Kind_32:         unsupported(Kind_32),
	Kind_16_PM:      unsupported(Kind_16_PM),
	Kind_6:          unsupported(Kind_6),
	Kind_Lo8_LDI_GS: unsupported(Kind_Lo8_LDI_GS),
	Kind_Hi8_LDI_GS: unsupported(Kind_Hi8_LDI_GS),
	Kind_8:          unsupported(Kind_8),
	Kind_8_Lo8:      unsupported(Kind_8_Lo8),
	Kind_8_Hi8:      unsupported(Kind_8_Hi8),
	Kind_8_HLo8:     unsupported(Kind_8_HLo8),
	Kind_SymDiff:    unsupported(Kind_SymDiff),
	Kind_16_LDST:    unsupported(Kind_16_LDST),
	Kind_LDS_STS_16: unsupported(Kind_LDS_STS_16),
}

func init() {
	for _, kind := range Kinds.AllKinds() {
		if _, hasKind := adjusters[kind]; !hasKind {
			panic(fmt.Sprintf("missing adjuster entry for fixup kind '%v'. Make sure you've added all Kind -> adjustFunc entries in the adjusters table", Kinds.Name(kind)))
		}
	}

	if len(adjusters) != int(TOTAL_FIXUP_KINDS) {
		panic("extra entry in the fixup adjusters table??? Make sure the adjusters table only contains Kind -> adjustFunc entries for catalog kinds")
	}
}

// Turns the raw value of a fixup into the bit pattern expected by the
// instruction format of its kind. The result is masked to the declared
// bit width of the kind and not yet shifted to its final bit position;
// application takes care of the positioning.
func Adjust(kind Kind, value int64, loc SourceLocation) (int64, error) {
	descriptor := Kinds.Descriptor(kind)

	return adjusters[kind](descriptor.BitWidth, value, loc)
}
