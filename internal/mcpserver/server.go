// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes NutriGuide operations as tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/nutriguide/internal/mealservice"
	"github.com/starford/nutriguide/internal/nutrition"
)

// Server wraps the MCP server with NutriGuide tools.
type Server struct {
	mcp *server.MCPServer
	svc *mealservice.Service
}

// New creates an MCP server with all tools registered over the given
// meal service.
func New(svc *mealservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"NutriGuide",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("lookup_food",
		mcp.WithDescription("Resolve a free-text food name to a nutrition record using fuzzy matching."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Food name to resolve (e.g. chicken_breast)")),
	), s.lookupFood)

	s.mcp.AddTool(mcp.NewTool("suggest_foods",
		mcp.WithDescription("List candidate food names for a partial or misspelled query, best match first."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Partial or misspelled food name")),
	), s.suggestFoods)

	s.mcp.AddTool(mcp.NewTool("log_meal",
		mcp.WithDescription("Compute calorie/macro totals for a meal and log it. "+
			"Item names must exactly match table entries; resolve them first with "+
			"lookup_food or suggest_foods. Unknown names contribute zero."),
		mcp.WithString("items", mcp.Required(),
			mcp.Description(`JSON array of meal items, e.g. [{"item":"rice","quantity":2}]`)),
		mcp.WithString("food_name", mcp.Description("Display name for the meal")),
		mcp.WithString("quick_check",
			mcp.Description(`Pass "true" to compute totals without persisting a log entry`)),
	), s.logMeal)

	s.mcp.AddTool(mcp.NewTool("meal_history",
		mcp.WithDescription("Return every logged meal in append order."),
	), s.mealHistory)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) lookupFood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, ok := s.svc.Resolve(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no confident match for %q", name)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) suggestFoods(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	suggestions := s.svc.Suggest(name)
	if suggestions == nil {
		suggestions = []string{}
	}
	out, _ := json.MarshalIndent(suggestions, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) logMeal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawItems, err := req.RequireString("items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var items []nutrition.MealItem
	if err := json.Unmarshal([]byte(rawItems), &items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("items is not a valid JSON array: %v", err)), nil
	}
	for i := range items {
		if items[i].Item == "" {
			return mcp.NewToolResultError("every meal item needs a non-empty name"), nil
		}
		if items[i].Quantity == 0 {
			items[i].Quantity = 1
		}
		if items[i].Quantity < 0 {
			return mcp.NewToolResultError("quantity must be greater than zero"), nil
		}
	}

	foodName := ""
	if v, fErr := req.RequireString("food_name"); fErr == nil {
		foodName = v
	}
	quickCheck := false
	if v, qErr := req.RequireString("quick_check"); qErr == nil {
		quickCheck = v == "true"
	}

	result, err := s.svc.LogMeal(foodName, items, quickCheck)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) mealHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.History(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
