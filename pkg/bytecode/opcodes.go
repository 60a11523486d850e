package bytecode

import "fmt"

// Opcode is the one-byte tag at the start of every instruction.
//
// The set is closed: adding an opcode means adding a row to opcodeInfoTable
// and a case to the disassembler (and to any executor).
type Opcode byte

const (
	OpConstant Opcode = 0x00 // Push constant from pool: OpConstant <index:u8>
	OpReturn   Opcode = 0x01 // Return from the current chunk
)

// OpcodeInfo provides metadata about each opcode for debugging and validation.
type OpcodeInfo struct {
	Name       string // Mnemonic printed by the disassembler
	OperandLen int    // Number of operand bytes following the opcode
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpConstant: {"OP_CONSTANT", 1},
	OpReturn:   {"OP_RETURN", 0},
}

// LookupOpcode returns the metadata for op and whether op is defined.
func LookupOpcode(op Opcode) (OpcodeInfo, bool) {
	info, ok := opcodeInfoTable[op]
	return info, ok
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns an OpcodeInfo named "UNKNOWN(0x..)" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// OperandLen returns the number of operand bytes for this opcode.
func (op Opcode) OperandLen() int {
	return GetOpcodeInfo(op).OperandLen
}

// InstructionLen returns the total length of an instruction (1 + operand bytes).
func (op Opcode) InstructionLen() int {
	return 1 + op.OperandLen()
}

// IsValid reports whether op is a defined opcode.
func (op Opcode) IsValid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// AllOpcodes returns every defined opcode in ascending order.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := 0; op <= 0xFF; op++ {
		if _, ok := opcodeInfoTable[Opcode(op)]; ok {
			opcodes = append(opcodes, Opcode(op))
		}
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
