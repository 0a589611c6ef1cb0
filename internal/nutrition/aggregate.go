package nutrition

import "fmt"

// MealItem is one (food name, quantity) pair submitted for a meal.
type MealItem struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
}

// MealTotals holds the summed macros for a meal. ItemCount counts submitted
// items, including ones that did not resolve.
type MealTotals struct {
	Calories  float64 `json:"total_calories"`
	ProteinG  float64 `json:"total_protein"`
	FatG      float64 `json:"total_fat"`
	CarbsG    float64 `json:"total_carbs"`
	ItemCount int     `json:"item_count"`
}

// ResolvedItem is one line of the meal breakdown returned to the caller.
type ResolvedItem struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Matched  bool    `json:"matched"`
	Calories float64 `json:"calories"`
}

// Aggregate sums calories and macros for the given items using exact
// case-insensitive lookup only; callers are expected to have resolved
// free-text names beforehand. An unmatched item contributes zero and is
// skipped rather than failing the meal. Quantities multiply each macro.
func Aggregate(table *Table, items []MealItem) (MealTotals, []ResolvedItem) {
	totals := MealTotals{ItemCount: len(items)}
	breakdown := make([]ResolvedItem, 0, len(items))

	for _, it := range items {
		line := ResolvedItem{Item: it.Item, Quantity: it.Quantity}
		if rec, ok := table.Lookup(it.Item); ok {
			line.Matched = true
			line.Calories = rec.Calories * it.Quantity
			totals.Calories += rec.Calories * it.Quantity
			totals.ProteinG += rec.ProteinG * it.Quantity
			totals.FatG += rec.FatG * it.Quantity
			totals.CarbsG += rec.CarbsG * it.Quantity
		}
		breakdown = append(breakdown, line)
	}
	return totals, breakdown
}

// Advice renders the one-line human-readable meal summary. Calories are
// rounded for display only; structured totals keep full precision.
func Advice(totals MealTotals) string {
	return fmt.Sprintf("Logged %d items for a total of %.0f calories. Well done!",
		totals.ItemCount, totals.Calories)
}
