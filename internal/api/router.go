package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/nutriguide/internal/mealservice"
)

// NewRouter creates a chi router with all API routes mounted at the
// original endpoint paths. authEnabled controls Bearer token enforcement.
// sseHandler, if non-nil, is mounted at GET /api/events inside the auth
// group.
func NewRouter(svc *mealservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/get_daily_tip", h.DailyTip)
	r.Post("/analyze_image", h.AnalyzeImage)
	r.Post("/suggest", h.Suggest)
	r.Post("/log_meal", h.LogMeal)
	r.Get("/get_meal_history", h.MealHistory)
	r.Post("/get_ai_summary", h.Summary)
	r.Post("/log_feedback", h.Feedback)
	r.Get("/export_history", h.ExportHistory)

	if sseHandler != nil {
		r.Get("/api/events", sseHandler.ServeHTTP)
	}

	return r
}
