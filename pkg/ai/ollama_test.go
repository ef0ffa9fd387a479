package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateSendsModelAndPrompt(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "generated text"})
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	text, err := client.Generate(context.Background(), "mixtral", "hello")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if text != "generated text" {
		t.Fatalf("Generate() = %q, want %q", text, "generated text")
	}
	if got.Model != "mixtral" || got.Prompt != "hello" {
		t.Fatalf("request = %+v, want model=mixtral prompt=hello", got)
	}
	if got.Stream {
		t.Fatal("stream must be disabled")
	}
}

func TestGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "model not loaded"})
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	_, err := client.Generate(context.Background(), "mixtral", "hello")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("error should carry upstream message, got %v", err)
	}
}

func TestGenerateMissingResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"unexpected": "shape"})
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	if _, err := client.Generate(context.Background(), "mixtral", "hello"); err == nil {
		t.Fatal("expected error for body without generated text")
	}
}

func TestGenerateMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	if _, err := client.Generate(context.Background(), "mixtral", "hello"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestGenerateNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // closed before use

	client := NewOllamaClient(srv.URL)
	if _, err := client.Generate(context.Background(), "mixtral", "hello"); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}

func TestTutorRoutesQuizToQuizModel(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaGenerateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer srv.Close()

	tutor := NewTutor(NewOllamaClient(srv.URL), "mixtral", "deepseek-r1")
	ctx := context.Background()
	if _, err := tutor.GenerateLesson(ctx, LessonParams{Subject: "a", Topic: "b", Level: "c"}); err != nil {
		t.Fatalf("lesson: %v", err)
	}
	if _, err := tutor.GenerateQuiz(ctx, QuizParams{Subject: "a", Topic: "b", Level: "c", NumQuestions: 5, QuestionTypes: []string{"multiple_choice"}}); err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if len(models) != 2 || models[0] != "mixtral" || models[1] != "deepseek-r1" {
		t.Fatalf("models = %v, want [mixtral deepseek-r1]", models)
	}
}
