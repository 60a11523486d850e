package bytecode

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImageRoundTrip(t *testing.T) {
	c := NewChunk()
	for i := 0; i < 40; i++ {
		if _, err := c.EmitConstant(float64(i)*1.5, 10+i/7); err != nil {
			t.Fatal(err)
		}
	}
	c.Write(0xEE, -3)
	c.WriteOp(OpReturn, 99)

	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if diff := cmp.Diff(c.Code(), got.Code()); diff != "" {
		t.Errorf("code mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c.Constants().Values(), got.Constants().Values()); diff != "" {
		t.Errorf("constants mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c.Lines().Runs(), got.Lines().Runs()); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}

	want, _ := c.Disassemble("x")
	have, _ := got.Disassemble("x")
	if want != have {
		t.Errorf("listings differ:\n%s\n---\n%s", want, have)
	}
}

func TestImageEmptyChunk(t *testing.T) {
	data, err := NewChunk().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	c, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if c.Len() != 0 || c.ConstantCount() != 0 {
		t.Errorf("decoded empty chunk has len=%d constants=%d", c.Len(), c.ConstantCount())
	}
}

func TestImageDecodeErrors(t *testing.T) {
	good, err := demoChunk(1, 2).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	badMagic := append([]byte(nil), good...)
	copy(badMagic, "NOPE")

	newer := append([]byte(nil), good...)
	newer[5] = byte(ImageVersion + 1)

	// Shorten the last run so it no longer covers the code.
	shortRun := append([]byte(nil), good...)
	shortRun[len(shortRun)-1] = 0

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", good[:4], ErrCorruptImage},
		{"bad magic", badMagic, ErrBadMagic},
		{"newer version", newer, ErrUnsupportedVersion},
		{"truncated", good[:len(good)-3], ErrCorruptImage},
		{"trailing", append(append([]byte(nil), good...), 0), ErrCorruptImage},
		{"run mismatch", shortRun, ErrCorruptImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Deserialize(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMarshalBinaryLineOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		line int
	}{
		{"above int32", math.MaxInt32 + 1},
		{"below int32", math.MinInt32 - 1},
		{"wraps to small line", 1<<32 + 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunk()
			c.WriteOp(OpReturn, tt.line)
			data, err := c.MarshalBinary()
			if !errors.Is(err, ErrCorruptImage) {
				t.Fatalf("MarshalBinary error = %v, want ErrCorruptImage", err)
			}
			if data != nil {
				t.Errorf("MarshalBinary returned %d bytes alongside the error", len(data))
			}
		})
	}
}

func TestImageLineBounds(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpConstant, math.MinInt32)
	c.Write(0, math.MaxInt32)
	c.AddConstant(1)

	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if diff := cmp.Diff(c.Lines().Runs(), got.Lines().Runs()); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalBinaryReplacesContents(t *testing.T) {
	data, err := demoChunk(5, 6).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	c := NewChunk()
	c.AddConstant(42)
	c.WriteOp(OpReturn, 1)

	if err := c.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if c.ConstantCount() != 1 || c.Len() != 3 {
		t.Errorf("after UnmarshalBinary constants=%d len=%d, want 1 3", c.ConstantCount(), c.Len())
	}
}
