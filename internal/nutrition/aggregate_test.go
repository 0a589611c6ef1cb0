package nutrition

import (
	"strings"
	"testing"
)

func TestAggregateQuantityMultiplies(t *testing.T) {
	table := testTable(t)
	totals, breakdown := Aggregate(table, []MealItem{{Item: "rice", Quantity: 2}})
	if totals.Calories != 260 {
		t.Errorf("calories = %v, want 260", totals.Calories)
	}
	if totals.CarbsG != 56 {
		t.Errorf("carbs = %v, want 56", totals.CarbsG)
	}
	if totals.ItemCount != 1 {
		t.Errorf("item count = %d, want 1", totals.ItemCount)
	}
	if len(breakdown) != 1 || !breakdown[0].Matched {
		t.Errorf("breakdown = %+v", breakdown)
	}
}

func TestAggregateSkipsUnmatchedItems(t *testing.T) {
	table := testTable(t)
	totals, breakdown := Aggregate(table, []MealItem{
		{Item: "rice", Quantity: 1},
		{Item: "unicorn steak", Quantity: 3},
	})
	if totals.Calories != 130 {
		t.Errorf("calories = %v, want 130 (unmatched item contributes 0)", totals.Calories)
	}
	if totals.ItemCount != 2 {
		t.Errorf("item count = %d, want 2 (counts submitted items)", totals.ItemCount)
	}
	if breakdown[1].Matched {
		t.Error("unmatched item should be flagged")
	}
}

func TestAggregateExactMatchOnly(t *testing.T) {
	table := testTable(t)
	// "ric" would fuzzy-match rice, but aggregation is exact-only.
	totals, _ := Aggregate(table, []MealItem{{Item: "ric", Quantity: 1}})
	if totals.Calories != 0 {
		t.Errorf("calories = %v, want 0", totals.Calories)
	}
}

func TestAggregateEmptyMeal(t *testing.T) {
	table := testTable(t)
	totals, breakdown := Aggregate(table, nil)
	if totals.Calories != 0 || totals.ItemCount != 0 {
		t.Errorf("totals = %+v", totals)
	}
	if len(breakdown) != 0 {
		t.Errorf("breakdown = %v", breakdown)
	}
}

func TestAdviceRendering(t *testing.T) {
	got := Advice(MealTotals{Calories: 260.4, ItemCount: 2})
	if !strings.Contains(got, "2 items") || !strings.Contains(got, "260 calories") {
		t.Errorf("advice = %q", got)
	}
}
