package bytecode

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Disassembler writes a human-readable listing of chunks to w.
//
// Each record has the form
//
//	OFFSET LINE OPCODE [INDEX 'VALUE']
//
// where LINE is replaced by "|" when the instruction starts on the same
// source line as the byte just before it.
type Disassembler struct {
	w io.Writer

	// Header controls whether DisassembleChunk prints "== name ==" first.
	Header bool
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w, Header: true}
}

// DisassembleChunk writes a listing of every instruction in c.
//
// An unknown opcode is printed as a diagnostic and skipped. A byte offset
// missing from the line map stops the walk: the error wraps ErrLineNotFound
// and the listing written so far must not be trusted.
func (d *Disassembler) DisassembleChunk(c *Chunk, name string) error {
	if c == nil {
		return fmt.Errorf("nil chunk")
	}
	if d.Header {
		fmt.Fprintf(d.w, "== %s ==\n", name)
	}
	for offset := 0; offset < c.Len(); {
		next, err := d.DisassembleInstruction(c, offset)
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

// DisassembleInstruction writes the record for the instruction at offset and
// returns the offset of the next instruction. On a line map miss only the
// offset column of the failing record is written; on any other error nothing
// is.
func (d *Disassembler) DisassembleInstruction(c *Chunk, offset int) (int, error) {
	var sb strings.Builder
	next, err := c.formatInstruction(&sb, offset)
	if err != nil {
		if errors.Is(err, ErrLineNotFound) {
			io.WriteString(d.w, sb.String())
		}
		return offset, err
	}
	io.WriteString(d.w, sb.String())
	return next, nil
}

// formatInstruction renders one record into sb.
func (c *Chunk) formatInstruction(sb *strings.Builder, offset int) (int, error) {
	op, err := c.ByteAt(offset)
	if err != nil {
		return offset, err
	}
	fmt.Fprintf(sb, "%04d ", offset)
	line, err := c.Line(offset)
	if err != nil {
		return offset, fmt.Errorf("disassemble at %04d: %w", offset, err)
	}

	// Both lookups are done independently; the previous line is not carried
	// across calls so a single instruction can be disassembled on its own.
	if prev, err := c.Line(offset - 1); offset > 0 && err == nil && prev == line {
		sb.WriteString("   | ")
	} else {
		fmt.Fprintf(sb, "%4d ", line)
	}

	switch Opcode(op) {
	case OpConstant:
		return c.constantInstruction(sb, OpConstant.String(), offset)
	case OpReturn:
		return simpleInstruction(sb, OpReturn.String(), offset)
	default:
		fmt.Fprintf(sb, "Unknown opcode %d at offset %04d\n", op, offset)
		return offset + 1, nil
	}
}

func (c *Chunk) constantInstruction(sb *strings.Builder, name string, offset int) (int, error) {
	index, err := c.ByteAt(offset + 1)
	if err != nil {
		return offset, fmt.Errorf("%s at %04d: missing operand: %w", name, offset, err)
	}
	value, err := c.Constant(int(index))
	if err != nil {
		return offset, fmt.Errorf("%s at %04d: %w", name, offset, err)
	}
	fmt.Fprintf(sb, "%-16s %4d '%s'\n", name, index, FormatValue(value))
	return offset + 2, nil
}

func simpleInstruction(sb *strings.Builder, name string, offset int) (int, error) {
	sb.WriteString(name)
	sb.WriteByte('\n')
	return offset + 1, nil
}

// Disassemble returns the listing of the chunk under the given name.
func (c *Chunk) Disassemble(name string) (string, error) {
	var sb strings.Builder
	if err := NewDisassembler(&sb).DisassembleChunk(c, name); err != nil {
		return sb.String(), err
	}
	return sb.String(), nil
}

// DisassembleInstruction returns the record of a single instruction without
// its trailing newline.
func (c *Chunk) DisassembleInstruction(offset int) (string, error) {
	var sb strings.Builder
	if _, err := c.formatInstruction(&sb, offset); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// DisassembleToLines returns the listing without header as a slice of lines.
func (c *Chunk) DisassembleToLines() ([]string, error) {
	var lines []string
	for offset := 0; offset < c.Len(); {
		var sb strings.Builder
		next, err := c.formatInstruction(&sb, offset)
		if err != nil {
			return lines, err
		}
		lines = append(lines, strings.TrimSuffix(sb.String(), "\n"))
		offset = next
	}
	return lines, nil
}
