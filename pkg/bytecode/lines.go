package bytecode

import "fmt"

// LineRun is one run of the line map: Length consecutive code bytes that
// were all produced by source line Line.
type LineRun struct {
	Line   int
	Length int
}

// LineMap records the source line of every code byte in a chunk, run-length
// encoded. Runs are kept in code order and never reordered, so the line of
// an offset can be recovered by summing run lengths.
//
// The sum of all run lengths always equals the number of code bytes written
// to the owning chunk.
type LineMap struct {
	runs  Seq[LineRun]
	total int
}

// Append records one more code byte produced by line. Consecutive bytes on
// the same line extend the last run instead of adding a new one.
func (m *LineMap) Append(line int) {
	m.total++
	if last := m.runs.Last(); last != nil && last.Line == line {
		last.Length++
		return
	}
	m.runs.Append(LineRun{Line: line, Length: 1})
}

// Lookup returns the source line of the code byte at offset.
// Cost is linear in the number of runs.
func (m *LineMap) Lookup(offset int) (int, error) {
	if m.runs.Len() == 0 || offset < 0 {
		return 0, fmt.Errorf("offset %d: %w", offset, ErrLineNotFound)
	}
	sum := 0
	for _, run := range m.runs.Items() {
		sum += run.Length
		if sum > offset {
			return run.Line, nil
		}
	}
	return 0, fmt.Errorf("offset %d beyond %d recorded bytes: %w", offset, sum, ErrLineNotFound)
}

// Runs returns the runs in code order. Callers must not modify the result.
func (m *LineMap) Runs() []LineRun {
	return m.runs.Items()
}

// RunCount returns the number of runs.
func (m *LineMap) RunCount() int {
	return m.runs.Len()
}

// Total returns the number of code bytes covered by the map.
func (m *LineMap) Total() int {
	return m.total
}

// Release frees the map's storage.
func (m *LineMap) Release() {
	m.runs.Release()
	m.total = 0
}
