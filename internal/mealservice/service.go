// Package mealservice coordinates the nutrition table, fuzzy resolver,
// journals, and inference adapters behind the API and MCP surfaces.
package mealservice

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/starford/nutriguide/internal/apperr"
	"github.com/starford/nutriguide/internal/inference"
	"github.com/starford/nutriguide/internal/journal"
	"github.com/starford/nutriguide/internal/nutrition"
)

// MealLogEntry is the persisted shape of a logged meal. Entries are
// append-only: there is no edit or delete operation.
type MealLogEntry struct {
	Timestamp     string  `json:"timestamp"`
	FoodName      string  `json:"food_name"`
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalFat      float64 `json:"total_fat"`
	TotalCarbs    float64 `json:"total_carbs"`
	Advice        string  `json:"advice"`
}

// FeedbackEntry records a user correction of a classifier guess.
type FeedbackEntry struct {
	Timestamp      string `json:"timestamp"`
	OriginalGuess  string `json:"original_guess"`
	UserCorrection string `json:"user_correction"`
	ImageFilename  string `json:"image_filename,omitempty"`
}

// MealResult is the response payload for a meal computation.
type MealResult struct {
	FoodName string `json:"food_name"`
	nutrition.MealTotals
	Advice    string                   `json:"advice"`
	Breakdown []nutrition.ResolvedItem `json:"meal_breakdown"`
}

// Matching holds the fuzzy-matching policy constants. They are
// configuration, not derived values.
type Matching struct {
	ResolveThreshold int
	SuggestMinScore  int
	SuggestLimit     int
}

// DefaultMatching returns the stock matching policy.
func DefaultMatching() Matching {
	return Matching{
		ResolveThreshold: nutrition.DefaultResolveThreshold,
		SuggestMinScore:  nutrition.DefaultSuggestMinScore,
		SuggestLimit:     nutrition.DefaultSuggestLimit,
	}
}

// EventSink receives a notification after a meal entry is persisted.
type EventSink func(entry MealLogEntry)

// Service holds immutable references to the table, journals, and adapter
// handles. It is constructed once and injected into request handlers.
type Service struct {
	table      *nutrition.Table
	resolver   *nutrition.Resolver
	meals      *journal.Store[MealLogEntry]
	rawMeals   *journal.Store[map[string]any]
	feedback   *journal.Store[FeedbackEntry]
	classifier inference.ImageClassifier
	textgen    inference.TextGenerator
	matching   Matching
	events     EventSink
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClassifier sets the image-classifier adapter (nil means unavailable).
func WithClassifier(c inference.ImageClassifier) Option {
	return func(s *Service) { s.classifier = c }
}

// WithTextGenerator sets the text-generation adapter (nil means unavailable).
func WithTextGenerator(g inference.TextGenerator) Option {
	return func(s *Service) { s.textgen = g }
}

// WithMatching overrides the fuzzy-matching policy.
func WithMatching(m Matching) Option {
	return func(s *Service) { s.matching = m }
}

// WithEvents sets the sink notified after each persisted meal.
func WithEvents(sink EventSink) Option {
	return func(s *Service) { s.events = sink }
}

// WithClock overrides the timestamp source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over the given table and journal files.
func New(table *nutrition.Table, mealLogPath, feedbackLogPath string, opts ...Option) *Service {
	s := &Service{
		table:    table,
		resolver: nutrition.NewResolver(table),
		meals:    journal.New[MealLogEntry](mealLogPath),
		rawMeals: journal.New[map[string]any](mealLogPath),
		feedback: journal.New[FeedbackEntry](feedbackLogPath),
		matching: DefaultMatching(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const dailyTipPrompt = "You are a friendly health assistant. " +
	"Provide a single, actionable, positive health tip. Keep it short."

// DailyTip asks the text model for a short health tip. Without a text
// adapter the endpoint stays usable with a static greeting.
func (s *Service) DailyTip(ctx context.Context) (string, error) {
	if s.textgen == nil {
		return "Welcome!", nil
	}
	tip, err := s.textgen.Generate(ctx, dailyTipPrompt)
	if err != nil {
		return "", fmt.Errorf("daily tip: %w", err)
	}
	return tip, nil
}

// AnalyzeImage classifies a food photo into a single food name.
func (s *Service) AnalyzeImage(ctx context.Context, image []byte) (string, error) {
	if s.classifier == nil {
		return "", fmt.Errorf("image analysis model: %w", apperr.ErrUnavailable)
	}
	name, err := s.classifier.Classify(ctx, image)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrInference, err)
	}
	return name, nil
}

// Resolve finds the best table record for a free-text name using the
// configured resolution threshold.
func (s *Service) Resolve(query string) (nutrition.Record, bool) {
	return s.resolver.Resolve(query, s.matching.ResolveThreshold)
}

// Suggest lists candidate food names for a partial or misspelled query.
func (s *Service) Suggest(query string) []string {
	return s.resolver.Suggest(query, s.matching.SuggestLimit, s.matching.SuggestMinScore)
}

// LogMeal aggregates the items and, unless quickCheck is set, persists a
// log entry. Quick checks compute totals without touching the journal.
func (s *Service) LogMeal(foodName string, items []nutrition.MealItem, quickCheck bool) (*MealResult, error) {
	if foodName == "" {
		foodName = "Your Meal"
	}
	totals, breakdown := nutrition.Aggregate(s.table, items)
	result := &MealResult{
		FoodName:   foodName,
		MealTotals: totals,
		Advice:     nutrition.Advice(totals),
		Breakdown:  breakdown,
	}
	if quickCheck {
		return result, nil
	}

	entry := MealLogEntry{
		Timestamp:     s.now().Format(time.RFC3339),
		FoodName:      foodName,
		TotalCalories: totals.Calories,
		TotalProtein:  totals.ProteinG,
		TotalFat:      totals.FatG,
		TotalCarbs:    totals.CarbsG,
		Advice:        result.Advice,
	}
	if err := s.meals.Append(entry); err != nil {
		return nil, fmt.Errorf("persist meal: %w", err)
	}
	if s.events != nil {
		s.events(entry)
	}
	return result, nil
}

// History returns every persisted meal entry in append order.
func (s *Service) History() []MealLogEntry {
	entries := s.meals.ReadAll()
	if entries == nil {
		entries = []MealLogEntry{}
	}
	return entries
}

// historyWindow is how many recent entries feed the summary prompt.
const historyWindow = 30

// Summary asks the text model to analyze recent meal history.
func (s *Service) Summary(ctx context.Context, prompt string) (string, error) {
	if s.textgen == nil {
		return "", fmt.Errorf("text model: %w", apperr.ErrUnavailable)
	}
	history := s.meals.ReadAll()
	if len(history) == 0 {
		return "Your meal history is empty. Log a few meals to get a summary!", nil
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "- %s: %s (%.0f kcal)\n", entryDate(m.Timestamp), m.FoodName, m.TotalCalories)
	}

	full := fmt.Sprintf("You are NutriGuide, a friendly AI nutritionist. "+
		"Analyze the user's meal history and provide a helpful summary. "+
		"Look for patterns, provide at least two clear, actionable suggestions. "+
		"Be positive and conversational. Speak directly to the user.\n\n"+
		"My recent meal history:\n%s\nPlease give me a summary of my diet and "+
		"some suggestions. My original prompt was: %q", b.String(), prompt)

	answer, err := s.textgen.Generate(ctx, full)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	return answer, nil
}

func entryDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02")
}

// Feedback persists a classifier-correction entry.
func (s *Service) Feedback(originalGuess, userCorrection, imageFilename string) error {
	entry := FeedbackEntry{
		Timestamp:      s.now().Format(time.RFC3339),
		OriginalGuess:  originalGuess,
		UserCorrection: userCorrection,
		ImageFilename:  imageFilename,
	}
	if err := s.feedback.Append(entry); err != nil {
		return fmt.Errorf("persist feedback: %w", err)
	}
	return nil
}

// exportColumns is the fixed history CSV layout. Entries missing a column
// (older shapes, optional fields) export it as N/A.
var exportColumns = []string{
	"timestamp", "food_name", "quantity",
	"total_calories", "total_protein", "total_fat", "total_carbs", "advice",
}

// ExportCSV writes the full meal history as CSV. An empty history is
// apperr.ErrNotFound.
func (s *Service) ExportCSV(w io.Writer) error {
	entries := s.rawMeals.ReadAll()
	if len(entries) == 0 {
		return fmt.Errorf("meal history: %w", apperr.ErrNotFound)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, entry := range entries {
		row := make([]string, len(exportColumns))
		for i, col := range exportColumns {
			row[i] = exportValue(entry, col)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportValue(entry map[string]any, col string) string {
	v, ok := entry[col]
	if !ok || v == nil {
		return "N/A"
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
