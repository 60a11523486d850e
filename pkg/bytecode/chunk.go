package bytecode

import (
	"fmt"
	"math"
)

// MaxConstants is the number of constants addressable by the one-byte
// operand of OpConstant.
const MaxConstants = math.MaxUint8 + 1

// Chunk is a unit of compiled bytecode: the instruction stream, the source
// line of every instruction byte, and the constant pool. A compiler writes
// into a chunk; the disassembler and the VM only read from it.
//
// The zero value is an empty chunk ready for use.
type Chunk struct {
	code      Seq[byte]
	lines     LineMap
	constants ValuePool
}

// NewChunk creates a new empty chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends one code byte produced by source line.
// The byte and its line record are always written together.
func (c *Chunk) Write(b byte, line int) {
	c.code.Append(b)
	c.lines.Append(line)
}

// WriteOp appends an opcode produced by source line.
func (c *Chunk) WriteOp(op Opcode, line int) {
	c.Write(byte(op), line)
}

// AddConstant adds value to the constant pool and returns its index.
// Unlike the pool of a string-interning compiler, equal values are not
// deduplicated.
func (c *Chunk) AddConstant(value Value) int {
	return c.constants.Append(value)
}

// EmitConstant adds value to the pool and writes an OpConstant instruction
// loading it. Returns the offset of the instruction.
func (c *Chunk) EmitConstant(value Value, line int) (int, error) {
	if c.constants.Len() >= MaxConstants {
		return 0, fmt.Errorf("%w: limit is %d", ErrTooManyConstants, MaxConstants)
	}
	idx := c.AddConstant(value)
	offset := c.Len()
	c.WriteOp(OpConstant, line)
	c.Write(byte(idx), line)
	return offset, nil
}

// Len returns the number of code bytes written.
func (c *Chunk) Len() int {
	return c.code.Len()
}

// Cap returns the capacity of the code storage.
func (c *Chunk) Cap() int {
	return c.code.Cap()
}

// Code returns the instruction stream. Callers must not modify the result.
func (c *Chunk) Code() []byte {
	return c.code.Items()
}

// ByteAt returns the code byte at offset.
func (c *Chunk) ByteAt(offset int) (byte, error) {
	b, err := c.code.At(offset)
	if err != nil {
		return 0, fmt.Errorf("code byte: %w", err)
	}
	return b, nil
}

// Constant returns the constant at index.
func (c *Chunk) Constant(index int) (Value, error) {
	v, err := c.constants.At(index)
	if err != nil {
		return 0, fmt.Errorf("constant: %w", err)
	}
	return v, nil
}

// ConstantCount returns the number of constants in the pool.
func (c *Chunk) ConstantCount() int {
	return c.constants.Len()
}

// Line returns the source line of the code byte at offset.
func (c *Chunk) Line(offset int) (int, error) {
	return c.lines.Lookup(offset)
}

// Lines returns the chunk's line map.
func (c *Chunk) Lines() *LineMap {
	return &c.lines
}

// Constants returns the chunk's constant pool.
func (c *Chunk) Constants() *ValuePool {
	return &c.constants
}

// Release frees the code, the line map and the constant pool, leaving an
// empty chunk that may be written again.
func (c *Chunk) Release() {
	c.code.Release()
	c.lines.Release()
	c.constants.Release()
}

// InstructionCount returns the number of instructions in the chunk.
// Unknown opcodes count as one-byte instructions, as in the disassembler.
// Note: This iterates through all code, so it's O(n).
func (c *Chunk) InstructionCount() int {
	code := c.Code()
	count := 0
	for offset := 0; offset < len(code); {
		offset += Opcode(code[offset]).InstructionLen()
		count++
	}
	return count
}
