// pkg/display/inputs.go
package display

import (
	"bytes"
	"fmt"
)

// InputEntry binds one human label to the code a display reports on a query
// and the bytes it expects on a set command.
type InputEntry struct {
	Label   string
	GetCode byte
	SetCode []byte
}

// InputTable is an immutable, bidirectional input channel mapping.
// Build it with NewInputTable; accessors never expose internal storage.
type InputTable struct {
	entries []InputEntry
	byLabel map[string]int
	byCode  map[byte]int
}

// NewInputTable validates and indexes the given entries. Labels and get
// codes must be unique and every entry needs a set code.
func NewInputTable(entries ...InputEntry) (InputTable, error) {
	t := InputTable{
		entries: make([]InputEntry, 0, len(entries)),
		byLabel: make(map[string]int, len(entries)),
		byCode:  make(map[byte]int, len(entries)),
	}

	for _, e := range entries {
		if e.Label == "" {
			return InputTable{}, fmt.Errorf("input 0x%02X has no label", e.GetCode)
		}
		if len(e.SetCode) == 0 {
			return InputTable{}, fmt.Errorf("input %q has no set code", e.Label)
		}
		if _, dup := t.byLabel[e.Label]; dup {
			return InputTable{}, fmt.Errorf("duplicate input label %q", e.Label)
		}
		if prev, dup := t.byCode[e.GetCode]; dup {
			return InputTable{}, fmt.Errorf("input %q reuses code 0x%02X of %q", e.Label, e.GetCode, t.entries[prev].Label)
		}

		idx := len(t.entries)
		t.entries = append(t.entries, InputEntry{
			Label:   e.Label,
			GetCode: e.GetCode,
			SetCode: bytes.Clone(e.SetCode),
		})
		t.byLabel[e.Label] = idx
		t.byCode[e.GetCode] = idx
	}

	return t, nil
}

// MustInputTable is NewInputTable for static tables; it panics on invalid input
func MustInputTable(entries ...InputEntry) InputTable {
	t, err := NewInputTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Entries returns a copy of the table in declaration order
func (t InputTable) Entries() []InputEntry {
	out := make([]InputEntry, len(t.entries))
	for i, e := range t.entries {
		out[i] = InputEntry{Label: e.Label, GetCode: e.GetCode, SetCode: bytes.Clone(e.SetCode)}
	}
	return out
}

// Labels returns all labels in declaration order
func (t InputTable) Labels() []string {
	labels := make([]string, len(t.entries))
	for i, e := range t.entries {
		labels[i] = e.Label
	}
	return labels
}

// Len returns the number of entries
func (t InputTable) Len() int {
	return len(t.entries)
}

// ByLabel returns the entry for a label
func (t InputTable) ByLabel(label string) (InputEntry, bool) {
	idx, ok := t.byLabel[label]
	if !ok {
		return InputEntry{}, false
	}
	e := t.entries[idx]
	e.SetCode = bytes.Clone(e.SetCode)
	return e, true
}

// Lookup resolves a reported code into an Input; unmapped codes fold to Unknown
func (t InputTable) Lookup(code byte) Input {
	if idx, ok := t.byCode[code]; ok {
		return Input{Code: int(code), Label: t.entries[idx].Label}
	}
	return Input{Code: int(code), Label: UnknownInputLabel}
}

// Clone returns an independent copy of the table
func (t InputTable) Clone() InputTable {
	return MustInputTable(t.entries...)
}
