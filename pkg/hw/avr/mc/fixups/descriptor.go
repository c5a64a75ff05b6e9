package fixups

import (
	"errors"
	"fmt"

	"github.com/Manu343726/escarabajo/pkg/utils"
)

// Describes where the bits of a fixup value land inside the instruction
// word, and whether the value is position dependent.
//
// Many AVR fixups are non-contiguous: the bits of one logical value are
// scattered across disjoint positions of the instruction word. The
// descriptor records a single nominal offset/width spanning all the bytes
// touched; the actual bit scattering is performed by the value adjusters.
type Descriptor struct {
	// Canonical name of the fixup kind
	Name string `yaml:"name"`
	// First bit within the instruction word used by the value
	BitOffset uint `yaml:"bit_offset"`
	// Total bits of the (nominal) value field
	BitWidth uint `yaml:"bit_width"`
	// True if the value is an offset from the current instruction address
	PCRelative bool `yaml:"pc_relative"`
}

// Returns the past-the-end bit of the value field within the instruction word
func (d *Descriptor) TotalBits() uint {
	return d.BitOffset + d.BitWidth
}

// Returns the number of instruction buffer bytes touched when the value
// is patched in
func (d *Descriptor) TotalBytes() uint {
	return uint(utils.BytesFor(int(d.TotalBits())))
}

// Returns information about the implemented fixup kinds
type KindsDescriptor struct {
	descriptors map[Kind]*Descriptor
	namesToKind map[string]Kind
}

// Returns the geometry descriptor of a fixup kind. Looking up a kind
// outside the enumeration is a programmer error, not a user-triggerable
// condition, so it panics instead of returning an error.
func (d *KindsDescriptor) Descriptor(kind Kind) *Descriptor {
	descriptor, hasKind := d.descriptors[kind]

	if !hasKind {
		panic(fmt.Sprintf("fixup kind %v out of range (total fixup kinds: %v)", uint(kind), uint(TOTAL_FIXUP_KINDS)))
	}

	return descriptor
}

// Returns the canonical name of a fixup kind
func (d *KindsDescriptor) Name(kind Kind) string {
	return d.Descriptor(kind).Name
}

var ErrInvalidKind error = errors.New("invalid fixup kind")

// Returns the fixup kind corresponding to the given name
func (d *KindsDescriptor) ParseKind(name string) (Kind, error) {
	if kind, hasKind := d.namesToKind[name]; hasKind {
		return kind, nil
	} else {
		return 0, utils.MakeError(ErrInvalidKind, "'%v'", name)
	}
}

// Returns all fixup kinds in enumeration order
func (d *KindsDescriptor) AllKinds() []Kind {
	return utils.Iota(int(TOTAL_FIXUP_KINDS), func(i int) Kind { return Kind(i) })
}

// Number of fixup kinds implemented
func (d *KindsDescriptor) TotalKinds() int {
	return len(d.descriptors)
}

// Initializes a fixup kinds descriptor with all the descriptors in the
// given kind -> descriptor map. The map is validated for completeness in
// both directions, so the catalog cannot silently drift out of sync with
// the Kind enumeration.
func NewKindsDescriptor(descriptors map[Kind]*Descriptor) KindsDescriptor {
	for i, kind := range utils.Iota(int(TOTAL_FIXUP_KINDS), func(i int) Kind { return Kind(i) }) {
		if _, hasKind := descriptors[kind]; !hasKind {
			panic(fmt.Sprintf("missing entry for fixup kind %v in the descriptors table. Make sure you've added all Kind -> Descriptor entries in the NewKindsDescriptor() call", i))
		}
	}

	d := KindsDescriptor{
		descriptors: descriptors,
		namesToKind: utils.MapMap(descriptors, func(kind Kind, descriptor *Descriptor) (string, Kind) {
			return descriptor.Name, kind
		}),
	}

	if d.TotalKinds() != int(TOTAL_FIXUP_KINDS) {
		panic("extra entry in the fixup descriptors table??? Make sure you've added all Kind -> Descriptor entries in the NewKindsDescriptor() call")
	}

	return d
}

// The fixup kind catalog. Immutable after construction, safe for
// concurrent read-only access.
var Kinds KindsDescriptor = NewKindsDescriptor(
	map[Kind]*Descriptor{
		Kind_32:             {Name: "fixup_32", BitOffset: 0, BitWidth: 32},
		Kind_7_PCRel:        {Name: "fixup_7_pcrel", BitOffset: 3, BitWidth: 7, PCRelative: true},
		Kind_13_PCRel:       {Name: "fixup_13_pcrel", BitOffset: 0, BitWidth: 12, PCRelative: true},
		Kind_16:             {Name: "fixup_16", BitOffset: 0, BitWidth: 16},
		Kind_16_PM:          {Name: "fixup_16_pm", BitOffset: 0, BitWidth: 16},
		Kind_LDI:            {Name: "fixup_ldi", BitOffset: 0, BitWidth: 8},
		Kind_Lo8_LDI:        {Name: "fixup_lo8_ldi", BitOffset: 0, BitWidth: 8},
		Kind_Hi8_LDI:        {Name: "fixup_hi8_ldi", BitOffset: 0, BitWidth: 8},
		Kind_HH8_LDI:        {Name: "fixup_hh8_ldi", BitOffset: 0, BitWidth: 8},
		Kind_MS8_LDI:        {Name: "fixup_ms8_ldi", BitOffset: 0, BitWidth: 8},
		Kind_Lo8_LDI_Neg:    {Name: "fixup_lo8_ldi_neg", BitOffset: 0, BitWidth: 8},
		Kind_Hi8_LDI_Neg:    {Name: "fixup_hi8_ldi_neg", BitOffset: 0, BitWidth: 8},
		Kind_HH8_LDI_Neg:    {Name: "fixup_hh8_ldi_neg", BitOffset: 0, BitWidth: 8},
		Kind_MS8_LDI_Neg:    {Name: "fixup_ms8_ldi_neg", BitOffset: 0, BitWidth: 8},
		Kind_Lo8_LDI_PM:     {Name: "fixup_lo8_ldi_pm", BitOffset: 0, BitWidth: 8},
		Kind_Hi8_LDI_PM:     {Name: "fixup_hi8_ldi_pm", BitOffset: 0, BitWidth: 8},
		Kind_HH8_LDI_PM:     {Name: "fixup_hh8_ldi_pm", BitOffset: 0, BitWidth: 8},
		Kind_Lo8_LDI_PM_Neg: {Name: "fixup_lo8_ldi_pm_neg", BitOffset: 0, BitWidth: 8},
		Kind_Hi8_LDI_PM_Neg: {Name: "fixup_hi8_ldi_pm_neg", BitOffset: 0, BitWidth: 8},
		Kind_HH8_LDI_PM_Neg: {Name: "fixup_hh8_ldi_pm_neg", BitOffset: 0, BitWidth: 8},
		Kind_Call:           {Name: "fixup_call", BitOffset: 0, BitWidth: 22},
		Kind_6:              {Name: "fixup_6", BitOffset: 0, BitWidth: 16}, // non-contiguous
		Kind_6_ADIW:         {Name: "fixup_6_adiw", BitOffset: 0, BitWidth: 6},
		Kind_Lo8_LDI_GS:     {Name: "fixup_lo8_ldi_gs", BitOffset: 0, BitWidth: 8},
		Kind_Hi8_LDI_GS:     {Name: "fixup_hi8_ldi_gs", BitOffset: 0, BitWidth: 8},
		Kind_8:              {Name: "fixup_8", BitOffset: 0, BitWidth: 8},
		Kind_8_Lo8:          {Name: "fixup_8_lo8", BitOffset: 0, BitWidth: 8},
		Kind_8_Hi8:          {Name: "fixup_8_hi8", BitOffset: 0, BitWidth: 8},
		Kind_8_HLo8:         {Name: "fixup_8_hlo8", BitOffset: 0, BitWidth: 8},
		Kind_SymDiff:        {Name: "fixup_sym_diff", BitOffset: 0, BitWidth: 32},
		Kind_16_LDST:        {Name: "fixup_16_ldst", BitOffset: 0, BitWidth: 16},
		Kind_LDS_STS_16:     {Name: "fixup_lds_sts_16", BitOffset: 0, BitWidth: 16},
		Kind_Port6:          {Name: "fixup_port6", BitOffset: 0, BitWidth: 16}, // non-contiguous
		Kind_Port5:          {Name: "fixup_port5", BitOffset: 3, BitWidth: 5},
		Kind_Data2:          {Name: "data_2", BitOffset: 0, BitWidth: 16},
		Kind_Data4:          {Name: "data_4", BitOffset: 0, BitWidth: 32},
		Kind_Data8:          {Name: "data_8", BitOffset: 0, BitWidth: 64},
	},
)
