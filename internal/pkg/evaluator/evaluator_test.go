package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPEvaluatorPassesDescriptionThrough(t *testing.T) {
	var got evaluateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(evaluateResponse{Result: "fine"})
	}))
	defer srv.Close()

	result, err := NewHTTP(srv.URL, time.Second).Evaluate(context.Background(), "Explain graphs", "A course on graphs")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result != "fine" {
		t.Errorf("result = %q", result)
	}
	if got.Inputs != "Explain graphs" || got.Description != "A course on graphs" {
		t.Errorf("request = %+v", got)
	}
}

func TestHTTPEvaluatorUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL, time.Second).Evaluate(context.Background(), "x", "")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestFallbackUsesSecondaryWhenPrimaryDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := WithFallback(NewHTTP(srv.URL, time.Second), Rules{})
	result, err := e.Evaluate(context.Background(), "Explain recursion", "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !strings.Contains(result, "measurable verb") {
		t.Errorf("result = %q, want rule based feedback", result)
	}
	if e.Name() != "http+rules" {
		t.Errorf("Name = %q", e.Name())
	}
}

func TestRules(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		description string
		contains    string
	}{
		{"empty", "   ", "", "Please enter a learning outcome"},
		{"measurable", "Apply dynamic programming to scheduling problems", "scheduling problems", "apply level"},
		{"vague", "Understand recursion in depth today", "recursion", "hard to assess"},
		{"no verb", "Recursion and iteration basics", "recursion", "action verb"},
		{"short", "Explain graphs", "graphs", "content or context"},
		{"no description", "Explain graph traversal algorithms", "", "Add a course description"},
		{"unrelated", "Explain graph traversal algorithms", "Medieval poetry survey", "no key terms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rules{}.Evaluate(context.Background(), tt.text, tt.description)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("feedback %q does not contain %q", got, tt.contains)
			}
		})
	}
}
