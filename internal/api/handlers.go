package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/nutriguide/internal/apperr"
	"github.com/starford/nutriguide/internal/mealservice"
	"github.com/starford/nutriguide/internal/nutrition"
)

const maxImageBytes = 10 << 20 // 10 MB

// Handler holds API route handlers.
type Handler struct {
	svc *mealservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *mealservice.Service) *Handler {
	return &Handler{svc: svc}
}

// DailyTip handles GET /get_daily_tip.
func (h *Handler) DailyTip(w http.ResponseWriter, r *http.Request) {
	tip, err := h.svc.DailyTip(r.Context())
	if err != nil {
		slog.Error("daily tip failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to generate tip"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"tip": tip})
}

// AnalyzeImage handles POST /analyze_image (multipart/form-data, field "image").
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("image too large or invalid multipart"))
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'image' field in multipart form"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read image"))
		return
	}

	foodName, err := h.svc.AnalyzeImage(r.Context(), image)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, errorBody("Image analysis model is not available."))
		default:
			slog.Error("image analysis failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody(fmt.Sprintf("Failed to analyze image: %v", err)))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"food_name": foodName})
}

// Suggest handles POST /suggest.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.FoodName == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Food name is required."))
		return
	}
	suggestions := h.svc.Suggest(req.FoodName)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// LogMeal handles POST /log_meal.
//
// Quantity validation is fail-fast (a malformed quantity rejects the whole
// request); name resolution inside aggregation is fail-soft (an unknown
// name contributes zero). Both halves of that asymmetry are deliberate.
func (h *Handler) LogMeal(w http.ResponseWriter, r *http.Request) {
	var req LogMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	items := make([]nutrition.MealItem, 0, len(req.MealItems))
	for _, it := range req.MealItems {
		if it.Item == "" {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("meal item name is required"))
			return
		}
		q, err := it.ParseQuantity()
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
			return
		}
		items = append(items, nutrition.MealItem{Item: it.Item, Quantity: q})
	}

	result, err := h.svc.LogMeal(req.ImageFoodName, items, req.QuickCheck)
	if err != nil {
		slog.Error("log meal failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to log meal"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// MealHistory handles GET /get_meal_history.
func (h *Handler) MealHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.History())
}

// Summary handles POST /get_ai_summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	var req AskAIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	answer, err := h.svc.Summary(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, apperr.ErrUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("AI Assistant is currently unavailable."))
			return
		}
		slog.Error("summary failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to generate summary"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// Feedback handles POST /log_feedback.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}
	if err := h.svc.Feedback(req.OriginalGuess, req.UserCorrection, req.ImageFilename); err != nil {
		slog.Error("log feedback failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to save feedback"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Thank you for your feedback!"})
}

// ExportHistory handles GET /export_history.
func (h *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(&buf); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("No meal history available."))
			return
		}
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to export history"))
		return
	}

	filename := fmt.Sprintf("nutriguide_history_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
