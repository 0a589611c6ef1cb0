// Package testutil provides shared test helpers for building tables and services.
package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/nutriguide/internal/mealservice"
	"github.com/starford/nutriguide/internal/nutrition"
)

// DatasetCSV is a small nutrition dataset used across tests.
const DatasetCSV = `Food_Item,Calories,Protein_g,Fat_g,Carbs_g
Apple,95,0.5,0.3,25
Apple Pie,296,2.4,13.8,42.5
Chicken Breast,165,31,3.6,0
Rice,130,2.7,0.3,28
Banana,105,1.3,0.4,27
Broken Row,oops,1,1,1
`

// TestTable parses DatasetCSV into a table (the broken row is dropped).
func TestTable(t *testing.T) *nutrition.Table {
	t.Helper()
	table, err := nutrition.Parse(strings.NewReader(DatasetCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return table
}

// TestService builds a meal service over a temp directory's journals.
func TestService(t *testing.T, opts ...mealservice.Option) *mealservice.Service {
	t.Helper()
	dir := t.TempDir()
	return mealservice.New(TestTable(t),
		filepath.Join(dir, "meal_log.json"),
		filepath.Join(dir, "feedback_log.json"),
		opts...)
}
