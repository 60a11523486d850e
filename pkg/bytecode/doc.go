// Package bytecode holds the compiled form of a Lox program: chunks of
// bytecode with their constant pools and source line information, and a
// disassembler for inspecting them.
//
// # Chunks
//
// A Chunk owns three growable sequences that are created, grown and
// released together:
//
//   - the instruction stream, one opcode byte followed by fixed-width
//     operand bytes
//
//   - the LineMap, recording the source line of every code byte
//
//   - the ValuePool, the constants that OpConstant loads by index
//
// Every byte written with Chunk.Write carries its source line, so the line
// map always covers exactly the bytes in the instruction stream.
//
// # Line information
//
// Compilers emit many consecutive bytes for the same source line, so the
// line map is run-length encoded as (line, length) pairs. Appending costs
// O(1); looking up the line of an offset walks the runs, which is fine
// because lookups only happen while debugging or reporting errors.
//
// # Disassembly
//
// The Disassembler prints one record per instruction:
//
//	== test chunk ==
//	0000  123 OP_CONSTANT         0 '1.2'
//	0002    | OP_RETURN
//
// An unknown opcode is reported and skipped so a damaged stream can still be
// inspected. An offset with no line information is treated as corruption and
// stops the listing with ErrLineNotFound.
//
// # Images
//
// Chunks can be serialized to the "LXBC" image format with MarshalBinary
// for storage or transport, and restored with Deserialize.
package bytecode
