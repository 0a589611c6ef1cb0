package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/nutriguide/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.TestService(t))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "lookup_food":
		result, err = srv.lookupFood(ctx, req)
	case "suggest_foods":
		result, err = srv.suggestFoods(ctx, req)
	case "log_meal":
		result, err = srv.logMeal(ctx, req)
	case "meal_history":
		result, err = srv.mealHistory(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestLookupFood(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "lookup_food", map[string]interface{}{"name": "chicken_breast"})
	if r.IsError {
		t.Fatalf("lookup errored: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"chicken breast"`) || !strings.Contains(text, "165") {
		t.Errorf("lookup result = %q", text)
	}
}

func TestLookupFoodNoMatch(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "lookup_food", map[string]interface{}{"name": "plutonium sandwich"})
	if !r.IsError {
		t.Error("expected error for unresolvable name")
	}
}

func TestSuggestFoods(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "suggest_foods", map[string]interface{}{"name": "appl"})
	text := resultText(r)
	if !strings.Contains(text, `"apple"`) {
		t.Errorf("suggestions = %q", text)
	}
}

func TestLogMealAndHistory(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "log_meal", map[string]interface{}{
		"items":     `[{"item":"rice","quantity":2}]`,
		"food_name": "Lunch",
	})
	if r.IsError {
		t.Fatalf("log_meal errored: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "260") || !strings.Contains(text, "Lunch") {
		t.Errorf("log_meal result = %q", text)
	}

	r = callTool(t, srv, "meal_history", map[string]interface{}{})
	text = resultText(r)
	if !strings.Contains(text, "Lunch") {
		t.Errorf("history = %q", text)
	}
}

func TestLogMealQuickCheckSkipsJournal(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "log_meal", map[string]interface{}{
		"items":       `[{"item":"banana"}]`,
		"quick_check": "true",
	})
	if r.IsError {
		t.Fatalf("log_meal errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "105") {
		t.Errorf("result = %q", resultText(r))
	}

	r = callTool(t, srv, "meal_history", map[string]interface{}{})
	if text := resultText(r); strings.Contains(text, "banana") {
		t.Errorf("quick check leaked into history: %q", text)
	}
}

func TestLogMealBadItems(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "log_meal", map[string]interface{}{"items": "not json"})
	if !r.IsError {
		t.Error("expected error for malformed items")
	}

	r = callTool(t, srv, "log_meal", map[string]interface{}{
		"items": `[{"item":"rice","quantity":-2}]`,
	})
	if !r.IsError {
		t.Error("expected error for negative quantity")
	}
}
