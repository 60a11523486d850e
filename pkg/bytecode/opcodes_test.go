package bytecode

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode 0x%02X has no metadata", byte(op))
		}
	}
}

func TestOpcodeCount(t *testing.T) {
	if got := OpcodeCount(); got != 2 {
		t.Errorf("OpcodeCount() = %d, want 2", got)
	}
	if got := len(AllOpcodes()); got != OpcodeCount() {
		t.Errorf("len(AllOpcodes()) = %d, want %d", got, OpcodeCount())
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpConstant, "OP_CONSTANT"},
		{OpReturn, "OP_RETURN"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(0x%02X).String() = %q, want %q", byte(tt.op), got, tt.want)
		}
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	op := Opcode(0xEE)
	if got := op.String(); got != "UNKNOWN(0xEE)" {
		t.Errorf("String() = %q, want UNKNOWN(0xEE)", got)
	}
	if op.IsValid() {
		t.Error("0xEE should not be valid")
	}
	if _, ok := LookupOpcode(op); ok {
		t.Error("LookupOpcode(0xEE) reported ok")
	}
}

func TestOpcodeInstructionLen(t *testing.T) {
	tests := []struct {
		op   Opcode
		want int
	}{
		{OpConstant, 2},
		{OpReturn, 1},
		{Opcode(0xEE), 1},
	}

	for _, tt := range tests {
		if got := tt.op.InstructionLen(); got != tt.want {
			t.Errorf("%s.InstructionLen() = %d, want %d", tt.op, got, tt.want)
		}
	}
}

// Every defined opcode must have its own case in the disassembler rather
// than falling through to the unknown-opcode diagnostic.
func TestDisassemblerCoversAllOpcodes(t *testing.T) {
	for _, op := range AllOpcodes() {
		c := NewChunk()
		c.AddConstant(1)
		c.WriteOp(op, 1)
		for i := 0; i < op.OperandLen(); i++ {
			c.Write(0, 1)
		}
		record, err := c.DisassembleInstruction(0)
		if err != nil {
			t.Fatalf("%s: %v", op, err)
		}
		if strings.Contains(record, "Unknown opcode") {
			t.Errorf("%s is not handled by the disassembler: %q", op, record)
		}
		if !strings.Contains(record, op.String()) {
			t.Errorf("record %q does not name %s", record, op)
		}
	}
}
