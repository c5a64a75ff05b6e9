package fixups

// Identifies one of the fixup flavours understood by the AVR machine code
// backend. Each kind names a distinct way of patching a late-bound value
// into an instruction encoding.
type Kind uint

const (
	// 32-bit raw value
	Kind_32 Kind = iota
	// 7-bit PC-relative branch target (BRBS/BRBC family)
	Kind_7_PCRel
	// 12-bit PC-relative branch target (RJMP/RCALL family)
	Kind_13_PCRel
	// 16-bit raw value
	Kind_16
	// 16-bit program memory address
	Kind_16_PM
	// 8-bit immediate of an LDI instruction
	Kind_LDI
	// Bits 0-7 of the target, as LDI immediate
	Kind_Lo8_LDI
	// Bits 8-15 of the target, as LDI immediate
	Kind_Hi8_LDI
	// Bits 16-23 of the target, as LDI immediate
	Kind_HH8_LDI
	// Bits 24-31 of the target, as LDI immediate
	Kind_MS8_LDI
	// Negated variants of the LDI byte selections, for immediate
	// subtraction forms
	Kind_Lo8_LDI_Neg
	Kind_Hi8_LDI_Neg
	Kind_HH8_LDI_Neg
	Kind_MS8_LDI_Neg
	// Program memory variants of the LDI byte selections
	Kind_Lo8_LDI_PM
	Kind_Hi8_LDI_PM
	Kind_HH8_LDI_PM
	// Negated program memory variants
	Kind_Lo8_LDI_PM_Neg
	Kind_Hi8_LDI_PM_Neg
	Kind_HH8_LDI_PM_Neg
	// 22-bit absolute call target (CALL/JMP)
	Kind_Call
	// 6-bit value scattered over a 16-bit instruction word
	Kind_6
	// 6-bit immediate of the ADIW family
	Kind_6_ADIW
	// GS() modifier variants of the LDI byte selections
	Kind_Lo8_LDI_GS
	Kind_Hi8_LDI_GS
	// 8-bit raw value and its byte selections
	Kind_8
	Kind_8_Lo8
	Kind_8_Hi8
	Kind_8_HLo8
	// Difference between two symbols
	Kind_SymDiff
	// 16-bit load/store address
	Kind_16_LDST
	// 16-bit address of the LDS/STS instructions
	Kind_LDS_STS_16
	// 6-bit port number of the IN family
	Kind_Port6
	// 5-bit port number of the SBIC family
	Kind_Port5
	// Raw data fixups of 2, 4 and 8 bytes, requiring no transform
	Kind_Data2
	Kind_Data4
	Kind_Data8

	// Total fixup kinds implemented
	TOTAL_FIXUP_KINDS
)

// Returns the canonical name of the fixup kind
func (k Kind) String() string {
	return Kinds.Name(k)
}
