// Package nutrition implements the static food table, fuzzy name resolution,
// and meal aggregation.
package nutrition

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Record is a single food entry. Records are immutable after load.
type Record struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// Table holds the nutrition dataset loaded once at startup.
// Lookup is case-insensitive; Names preserves dataset order for
// deterministic tie-breaking in fuzzy ranking.
type Table struct {
	records []Record
	byName  map[string]int
	names   []string
}

// Dataset column layout.
const (
	colName = iota
	colCalories
	colProtein
	colFat
	colCarbs
	colCount
)

// Load reads the CSV dataset at path into a Table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nutrition: open dataset: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a CSV dataset with header
// Food_Item,Calories,Protein_g,Fat_g,Carbs_g. Rows whose numeric fields do
// not parse are dropped. Duplicate names keep the first occurrence.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("nutrition: parse dataset: %w", err)
	}

	t := &Table{byName: make(map[string]int)}
	for i, row := range rows {
		if i == 0 && looksLikeHeader(row) {
			continue
		}
		if len(row) < colCount {
			continue
		}
		name := Normalize(row[colName])
		if name == "" {
			continue
		}
		rec := Record{Name: name}
		ok := true
		for col, dst := range map[int]*float64{
			colCalories: &rec.Calories,
			colProtein:  &rec.ProteinG,
			colFat:      &rec.FatG,
			colCarbs:    &rec.CarbsG,
		} {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				ok = false
				break
			}
			*dst = v
		}
		if !ok {
			continue
		}
		if _, dup := t.byName[name]; dup {
			continue
		}
		t.byName[name] = len(t.records)
		t.records = append(t.records, rec)
		t.names = append(t.names, name)
	}
	return t, nil
}

func looksLikeHeader(row []string) bool {
	if len(row) < colCount {
		return true
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(row[colCalories]), 64)
	return err != nil
}

// Normalize lowercases a food name, trims whitespace, and replaces
// underscores with spaces (classifier labels use underscores).
func Normalize(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(name), "_", " "))
}

// Lookup returns the record for an exact, case-insensitive name match.
func (t *Table) Lookup(name string) (Record, bool) {
	i, ok := t.byName[Normalize(name)]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Names returns all normalized food names in dataset order.
func (t *Table) Names() []string {
	return t.names
}

// Len returns the number of loaded records.
func (t *Table) Len() int {
	return len(t.records)
}
