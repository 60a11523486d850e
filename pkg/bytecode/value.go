package bytecode

import "strconv"

// Value is a constant referenced by OpConstant.
type Value = float64

// ValuePool is the constant pool of a chunk. Instructions refer to its
// entries by index.
type ValuePool struct {
	values Seq[Value]
}

// Append adds v to the pool and returns its index.
func (p *ValuePool) Append(v Value) int {
	p.values.Append(v)
	return p.values.Len() - 1
}

// At returns the constant at index i.
func (p *ValuePool) At(i int) (Value, error) {
	return p.values.At(i)
}

// Len returns the number of constants in the pool.
func (p *ValuePool) Len() int {
	return p.values.Len()
}

// Values returns the constants in index order.
func (p *ValuePool) Values() []Value {
	return p.values.Items()
}

// Release frees the pool's storage.
func (p *ValuePool) Release() {
	p.values.Release()
}

// FormatValue renders v the way the disassembler prints constants:
// shortest representation, no forced trailing zeros.
func FormatValue(v Value) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
