package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ImageVersion is the current chunk image format version.
// Increment when making incompatible changes to the format.
const ImageVersion uint16 = 1

// ImageMagic starts every chunk image: "LXBC" (Lox ByteCode).
var ImageMagic = []byte{'L', 'X', 'B', 'C'}

// headerLen is magic + version + flags.
const headerLen = 8

// MarshalBinary encodes the chunk as an image.
// Format (big-endian):
//
//	[magic:4] [version:2] [flags:2]
//	[code_len:4] [code:...]
//	[const_count:2] [constants: float64 bits, 8 bytes each]
//	[run_count:4] [runs: line:i32 length:u32]
func (c *Chunk) MarshalBinary() ([]byte, error) {
	if c.constants.Len() > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d constants", ErrTooManyConstants, c.constants.Len())
	}
	if uint64(c.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d code bytes do not fit in 32 bits", ErrCorruptImage, c.Len())
	}
	runs := c.lines.Runs()
	size := headerLen + 4 + c.Len() + 2 + 8*c.constants.Len() + 4 + 8*len(runs)
	buf := make([]byte, 0, size)

	buf = append(buf, ImageMagic...)
	buf = binary.BigEndian.AppendUint16(buf, ImageVersion)
	buf = binary.BigEndian.AppendUint16(buf, 0) // flags, reserved

	buf = binary.BigEndian.AppendUint32(buf, uint32(c.Len()))
	buf = append(buf, c.Code()...)

	buf = binary.BigEndian.AppendUint16(buf, uint16(c.constants.Len()))
	for _, v := range c.constants.Values() {
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
	}

	buf = binary.BigEndian.AppendUint32(buf, uint32(len(runs)))
	for _, run := range runs {
		if run.Line < math.MinInt32 || run.Line > math.MaxInt32 {
			return nil, fmt.Errorf("%w: line %d does not fit in 32 bits", ErrCorruptImage, run.Line)
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(int32(run.Line)))
		buf = binary.BigEndian.AppendUint32(buf, uint32(run.Length))
	}
	return buf, nil
}

// UnmarshalBinary decodes an image into c, replacing its contents.
// The chunk is rebuilt through Write and AddConstant, so a decoded chunk
// satisfies the same invariants as one built by a compiler.
func (c *Chunk) UnmarshalBinary(data []byte) error {
	c.Release()
	if err := c.decode(data); err != nil {
		c.Release()
		return err
	}
	return nil
}

// Deserialize decodes a chunk image into a new chunk.
func Deserialize(data []byte) (*Chunk, error) {
	c := NewChunk()
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Chunk) decode(data []byte) error {
	if len(data) < headerLen {
		return fmt.Errorf("%w: need at least %d bytes, got %d", ErrCorruptImage, headerLen, len(data))
	}
	if string(data[0:4]) != string(ImageMagic) {
		return fmt.Errorf("%w: expected %q, got %q", ErrBadMagic, ImageMagic, data[0:4])
	}
	version := binary.BigEndian.Uint16(data[4:6])
	if version > ImageVersion {
		return fmt.Errorf("%w: %d is newer than %d", ErrUnsupportedVersion, version, ImageVersion)
	}
	pos := headerLen

	// Code section
	if pos+4 > len(data) {
		return fmt.Errorf("%w: truncated code length at pos %d", ErrCorruptImage, pos)
	}
	codeLen := int(binary.BigEndian.Uint32(data[pos:]))
	pos += 4
	if codeLen < 0 || pos+codeLen > len(data) {
		return fmt.Errorf("%w: code section needs %d bytes at pos %d", ErrCorruptImage, codeLen, pos)
	}
	code := data[pos : pos+codeLen]
	pos += codeLen

	// Constants
	if pos+2 > len(data) {
		return fmt.Errorf("%w: truncated constant count", ErrCorruptImage)
	}
	constCount := int(binary.BigEndian.Uint16(data[pos:]))
	pos += 2
	if pos+8*constCount > len(data) {
		return fmt.Errorf("%w: constant pool needs %d bytes at pos %d", ErrCorruptImage, 8*constCount, pos)
	}
	for i := 0; i < constCount; i++ {
		c.AddConstant(math.Float64frombits(binary.BigEndian.Uint64(data[pos:])))
		pos += 8
	}

	// Line runs
	if pos+4 > len(data) {
		return fmt.Errorf("%w: truncated run count", ErrCorruptImage)
	}
	runCount := int(binary.BigEndian.Uint32(data[pos:]))
	pos += 4
	if runCount < 0 || runCount > (len(data)-pos)/8 {
		return fmt.Errorf("%w: %d runs do not fit in %d bytes", ErrCorruptImage, runCount, len(data)-pos)
	}
	written := 0
	for i := 0; i < runCount; i++ {
		line := int(int32(binary.BigEndian.Uint32(data[pos:])))
		length := int(binary.BigEndian.Uint32(data[pos+4:]))
		pos += 8
		if length < 1 || written+length > codeLen {
			return fmt.Errorf("%w: run %d (line %d, length %d) overruns %d code bytes",
				ErrCorruptImage, i, line, length, codeLen)
		}
		for j := 0; j < length; j++ {
			c.Write(code[written], line)
			written++
		}
	}
	if written != codeLen {
		return fmt.Errorf("%w: line runs cover %d of %d code bytes", ErrCorruptImage, written, codeLen)
	}
	if pos != len(data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorruptImage, len(data)-pos)
	}
	return nil
}
