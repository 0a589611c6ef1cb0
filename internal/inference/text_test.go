package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected prompt payload: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "  hi there \n"}}}},
			},
		})
	}))
	defer srv.Close()

	g, err := NewGeminiGenerator("test-key", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hi there" {
		t.Errorf("answer = %q", got)
	}
}

func TestGeminiGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g, _ := NewGeminiGenerator("k", srv.URL)
	if _, err := g.Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g, _ := NewGeminiGenerator("k", srv.URL)
	if _, err := g.Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error on empty completion")
	}
}

func TestGeminiRequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator("", ""); err == nil {
		t.Fatal("empty key should be rejected")
	}
}
