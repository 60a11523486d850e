package bytecode

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLineMapMerge(t *testing.T) {
	for _, n := range []int{1, 2, 1000} {
		var m LineMap
		for i := 0; i < n; i++ {
			m.Append(42)
		}
		want := []LineRun{{Line: 42, Length: n}}
		if diff := cmp.Diff(want, m.Runs()); diff != "" {
			t.Errorf("N=%d runs mismatch (-want +got):\n%s", n, diff)
		}
	}
}

func TestLineMapRuns(t *testing.T) {
	var m LineMap
	for _, line := range []int{5, 5, 5, 6, 6, 7, 5} {
		m.Append(line)
	}
	want := []LineRun{{5, 3}, {6, 2}, {7, 1}, {5, 1}}
	if diff := cmp.Diff(want, m.Runs()); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
	if m.Total() != 7 {
		t.Errorf("Total() = %d, want 7", m.Total())
	}
	if m.RunCount() != 4 {
		t.Errorf("RunCount() = %d, want 4", m.RunCount())
	}
}

func TestLineMapLookup(t *testing.T) {
	var m LineMap
	for _, line := range []int{5, 5, 5, 6, 6, 7} {
		m.Append(line)
	}

	tests := []struct {
		offset int
		want   int
	}{
		{0, 5}, {1, 5}, {2, 5},
		{3, 6}, {4, 6},
		{5, 7},
	}
	for _, tt := range tests {
		got, err := m.Lookup(tt.offset)
		if err != nil {
			t.Errorf("Lookup(%d): %v", tt.offset, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}

	for _, offset := range []int{6, 100, -1} {
		if _, err := m.Lookup(offset); !errors.Is(err, ErrLineNotFound) {
			t.Errorf("Lookup(%d) error = %v, want ErrLineNotFound", offset, err)
		}
	}
}

func TestLineMapLookupEmpty(t *testing.T) {
	var m LineMap
	if _, err := m.Lookup(0); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("Lookup on empty map error = %v, want ErrLineNotFound", err)
	}
}

func TestLineMapRelease(t *testing.T) {
	var m LineMap
	m.Append(1)
	m.Append(2)
	m.Release()
	if m.Total() != 0 || m.RunCount() != 0 {
		t.Errorf("after Release total=%d runs=%d", m.Total(), m.RunCount())
	}
	if _, err := m.Lookup(0); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("Lookup after Release error = %v", err)
	}
}
