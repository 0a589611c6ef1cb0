package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SuggestRequest asks for fuzzy candidate names for a typed food name.
type SuggestRequest struct {
	FoodName string `json:"food_name"`
}

// MealItemRequest is one submitted meal line. Quantity is kept raw because
// clients send it as either a JSON number or a numeric string; it must
// parse as a float either way — a malformed quantity fails the whole
// request, while an unmatched name is tolerated downstream.
type MealItemRequest struct {
	Item     string          `json:"item"`
	Quantity json.RawMessage `json:"quantity"`
}

// ParseQuantity returns the item quantity. An absent field defaults to 1;
// anything present must parse as a float greater than zero.
func (m MealItemRequest) ParseQuantity() (float64, error) {
	if len(m.Quantity) == 0 {
		return 1, nil
	}
	raw := strings.TrimSpace(string(m.Quantity))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(m.Quantity, &s); err != nil {
			return 0, fmt.Errorf("quantity %s is not a number", raw)
		}
		raw = strings.TrimSpace(s)
	}
	q, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a number", raw)
	}
	if q <= 0 {
		return 0, fmt.Errorf("quantity must be greater than zero")
	}
	return q, nil
}

// LogMealRequest is the body of POST /log_meal.
type LogMealRequest struct {
	UserProfile   map[string]any    `json:"user_profile"`
	QuickCheck    bool              `json:"quick_check"`
	MealItems     []MealItemRequest `json:"meal_items"`
	ImageFoodName string            `json:"image_food_name"`
}

// AskAIRequest is the body of POST /get_ai_summary.
type AskAIRequest struct {
	Prompt string `json:"prompt"`
}

// Validate checks the summary request.
func (r AskAIRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt, validation.Required),
	)
}

// FeedbackRequest is the body of POST /log_feedback.
type FeedbackRequest struct {
	OriginalGuess  string `json:"original_guess"`
	UserCorrection string `json:"user_correction"`
	ImageFilename  string `json:"image_filename"`
}

// Validate checks the feedback request.
func (r FeedbackRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OriginalGuess, validation.Required),
		validation.Field(&r.UserCorrection, validation.Required),
	)
}
