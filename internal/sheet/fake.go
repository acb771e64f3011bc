package sheet

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Client used by tests and dry runs.
type Memory struct {
	mu     sync.Mutex
	Sheets map[string][][]string
	// Writes records every UpdateCell call in order.
	Writes []Write
	// FailWrites makes UpdateCell return an error.
	FailWrites bool
}

// Write is one recorded UpdateCell call.
type Write struct {
	Worksheet string
	Row, Col  int
	Value     string
}

// NewMemory returns a Memory client over sheets.
func NewMemory(sheets map[string][][]string) *Memory {
	return &Memory{Sheets: sheets}
}

// Rows returns a copy of the worksheet values.
func (m *Memory) Rows(_ context.Context, worksheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vals, ok := m.Sheets[worksheet]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, worksheet)
	}
	out := make([][]string, len(vals))
	for i, r := range vals {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// UpdateCell stores value, growing the worksheet as needed.
func (m *Memory) UpdateCell(_ context.Context, worksheet string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("update %s!%s: write refused", worksheet, CellRef(row, col))
	}
	vals, ok := m.Sheets[worksheet]
	if !ok {
		return fmt.Errorf("%w: %q", ErrWorksheetNotFound, worksheet)
	}
	for len(vals) < row {
		vals = append(vals, nil)
	}
	for len(vals[row-1]) < col {
		vals[row-1] = append(vals[row-1], "")
	}
	vals[row-1][col-1] = value
	m.Sheets[worksheet] = vals
	m.Writes = append(m.Writes, Write{Worksheet: worksheet, Row: row, Col: col, Value: value})
	return nil
}
