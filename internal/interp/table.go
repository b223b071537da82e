// Package interp provides interpretation tables keyed by (outer, inner) lord
// pairs.
//
// Tables are static: they are loaded once from a YAML, TOML or CUE file and
// only read afterwards, so a Table is safe for concurrent lookups. Lord names
// in files are matched case-insensitively.
package interp

import (
	"fmt"
	"sort"

	"github.com/roach88/dasha/internal/lord"
)

type pair struct {
	outer lord.Lord
	inner lord.Lord
}

// Table maps lord pairs to interpretation text.
// The zero value is an empty table on which every lookup misses.
type Table struct {
	entries map[pair]string
}

// Entry is one row of a table.
type Entry struct {
	Outer lord.Lord `json:"outer"`
	Inner lord.Lord `json:"inner"`
	Text  string    `json:"text"`
}

// FromMap builds a table from outer -> inner -> text, resolving lord names.
func FromMap(raw map[string]map[string]string) (*Table, error) {
	t := &Table{entries: make(map[pair]string)}
	for outerName, inners := range raw {
		outer, err := lord.Parse(outerName)
		if err != nil {
			return nil, fmt.Errorf("interpretations: %w", err)
		}
		for innerName, text := range inners {
			inner, err := lord.Parse(innerName)
			if err != nil {
				return nil, fmt.Errorf("interpretations.%s: %w", outerName, err)
			}
			k := pair{outer, inner}
			if _, dup := t.entries[k]; dup {
				return nil, fmt.Errorf("interpretations: duplicate entry %s/%s", outer, inner)
			}
			t.entries[k] = text
		}
	}
	return t, nil
}

// Interpret implements dasha.Interpreter.
func (t *Table) Interpret(outer, inner lord.Lord) (string, bool) {
	if t == nil {
		return "", false
	}
	text, ok := t.entries[pair{outer, inner}]
	return text, ok
}

// Lookup resolves lord names case-insensitively. Unknown names miss.
func (t *Table) Lookup(outer, inner string) (string, bool) {
	o, err := lord.Parse(outer)
	if err != nil {
		return "", false
	}
	i, err := lord.Parse(inner)
	if err != nil {
		return "", false
	}
	return t.Interpret(o, i)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns all entries ordered by outer then inner cycle position.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.entries))
	for k, text := range t.entries {
		out = append(out, Entry{Outer: k.outer, Inner: k.inner, Text: text})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Outer != out[j].Outer {
			return out[i].Outer < out[j].Outer
		}
		return out[i].Inner < out[j].Inner
	})
	return out
}
