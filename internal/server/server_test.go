package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vrd07/ai-tutor1/internal/app"
	"github.com/vrd07/ai-tutor1/internal/storage"
	"github.com/vrd07/ai-tutor1/internal/store"
	"github.com/vrd07/ai-tutor1/pkg/ai"
)

// stubGenerator satisfies app.Generator; unset fields answer "generated".
type stubGenerator struct {
	quizFn      func(ai.QuizParams) (string, error)
	recommendFn func(ai.RecommendationParams) (string, error)
	cardsFn     func(ai.FlashcardParams) (string, error)
}

func (s *stubGenerator) GenerateLesson(context.Context, ai.LessonParams) (string, error) {
	return "generated", nil
}

func (s *stubGenerator) GenerateQuiz(_ context.Context, p ai.QuizParams) (string, error) {
	if s.quizFn != nil {
		return s.quizFn(p)
	}
	return "generated", nil
}

func (s *stubGenerator) GenerateStudyPlan(context.Context, ai.StudyPlanParams) (string, error) {
	return "generated", nil
}

func (s *stubGenerator) AnalyzeQuestionPaper(context.Context, ai.PaperAnalysisParams) (string, error) {
	return "generated", nil
}

func (s *stubGenerator) RecommendNextSteps(_ context.Context, p ai.RecommendationParams) (string, error) {
	if s.recommendFn != nil {
		return s.recommendFn(p)
	}
	return "generated", nil
}

func (s *stubGenerator) GenerateFlashcards(_ context.Context, p ai.FlashcardParams) (string, error) {
	if s.cardsFn != nil {
		return s.cardsFn(p)
	}
	return "generated", nil
}

func (s *stubGenerator) GenerateInteractiveElement(context.Context, ai.InteractiveElementParams) (string, error) {
	return "generated", nil
}

func newTestServer(t *testing.T, gen app.Generator) *Server {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	core, err := app.New(app.Config{
		Store:     store.NewMemoryStore(),
		Generator: gen,
		Files:     files,
	})
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	return New(Config{App: core})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return payload
}

func createProfile(t *testing.T, s *Server) string {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/profile", map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"subjects": map[string]any{"physics": "beginner"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create profile: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	id, _ := body["userId"].(string)
	if id == "" {
		t.Fatalf("missing userId in %v", body)
	}
	return id
}

func TestRootWelcome(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Welcome to AI Personal Tutor" {
		t.Fatalf("body = %v", body)
	}
}

func TestRootUnknownPath(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	id := createProfile(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/profile/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["email"] != "ada@example.com" {
		t.Fatalf("email = %v", body["email"])
	}

	rec = doJSON(t, s, http.MethodGet, "/api/profile/unknown-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown profile: %d, want 404", rec.Code)
	}
}

func TestCreateProfileValidation(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodPost, "/api/profile", map[string]any{
		"name":     "Ada",
		"subjects": map[string]any{"physics": "beginner"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing email", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["error"]; !ok {
		t.Fatalf("body %v missing error key", body)
	}
}

func TestCreateProfileMalformedJSON(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProfileMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodDelete, "/api/profile", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestLessonEndpoint(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodPost, "/api/lesson", map[string]any{
		"subject": "Physics", "topic": "Waves", "level": "beginner",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["content"] != "generated" {
		t.Fatalf("content = %v", body["content"])
	}
}

func TestQuizGenerationFailure(t *testing.T) {
	gen := &stubGenerator{quizFn: func(ai.QuizParams) (string, error) {
		return "", fmt.Errorf("model offline")
	}}
	s := newTestServer(t, gen)
	rec := doJSON(t, s, http.MethodPost, "/api/quiz", map[string]any{
		"subject": "Math", "topic": "Algebra", "level": "easy",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "model offline") {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestStudyPlanUnknownUser(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodPost, "/api/study-plan", map[string]any{
		"userId": "unknown-id", "goals": map[string]any{"target": "finals"}, "duration": 30,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestStudyPlanLifecycle(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	userID := createProfile(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/study-plan", map[string]any{
		"userId": userID, "goals": map[string]any{"target": "finals"}, "duration": 30,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create plan: %d %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["planId"] == "" {
		t.Fatalf("missing planId in %v", body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/study-plans/"+userID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list plans: %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", body["count"])
	}
}

func TestProgressEndpoint(t *testing.T) {
	gen := &stubGenerator{recommendFn: func(ai.RecommendationParams) (string, error) {
		return "practice more", nil
	}}
	s := newTestServer(t, gen)
	userID := createProfile(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/progress", map[string]any{
		"userId": userID, "subject": "Math", "topic": "Algebra",
		"score": 82.5, "timeSpent": 1200, "difficultyLevel": "medium",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("record progress: %d %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["recommendations"] != "practice more" {
		t.Fatalf("recommendations = %v", body["recommendations"])
	}

	rec = doJSON(t, s, http.MethodGet, "/api/progress/"+userID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list progress: %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", body["count"])
	}
}

func uploadPaper(t *testing.T, s *Server, userID, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	_ = mw.WriteField("subject", "Physics")
	_ = mw.WriteField("userId", userID)
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload-paper", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestUploadPaperEndpoint(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	userID := createProfile(t, s)

	rec := uploadPaper(t, s, userID, "midterm.txt", "Q1. Define work.")
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["analysis"] != "generated" {
		t.Fatalf("analysis = %v", body["analysis"])
	}
	if body["paperId"] == "" {
		t.Fatalf("missing paperId in %v", body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/question-papers/"+userID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list papers: %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", body["count"])
	}
}

func TestUploadPaperMissingFile(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("subject", "Physics")
	_ = mw.WriteField("userId", "u1")
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/upload-paper", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadPaperUnknownUser(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := uploadPaper(t, s, "unknown-id", "midterm.txt", "content")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for foreign-key failure", rec.Code)
	}
}

func TestFlashcardLifecycle(t *testing.T) {
	gen := &stubGenerator{cardsFn: func(ai.FlashcardParams) (string, error) {
		return "Q1\nA1\n\nQ2\nA2", nil
	}}
	s := newTestServer(t, gen)
	userID := createProfile(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/flashcards", map[string]any{
		"userId": userID, "subject": "Biology", "topic": "Cells",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(2) {
		t.Fatalf("count = %v, want 2", body["count"])
	}
	summaries, ok := body["flashcards"].([]any)
	if !ok || len(summaries) != 2 {
		t.Fatalf("flashcards = %v", body["flashcards"])
	}
	first, _ := summaries[0].(map[string]any)
	cardID, _ := first["id"].(string)
	if cardID == "" {
		t.Fatalf("missing card id in %v", first)
	}

	// Explicit zero mastery is a valid review.
	rec = doJSON(t, s, http.MethodPost, "/api/flashcards/"+cardID+"/review", map[string]any{
		"masteryLevel": 0.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("review at 0.0: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/flashcards/"+userID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["count"] != float64(2) {
		t.Fatalf("count = %v, want 2", body["count"])
	}
}

func TestReviewFlashcardValidation(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	rec := doJSON(t, s, http.MethodPost, "/api/flashcards/any-id/review", map[string]any{
		"masteryLevel": 1.5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("mastery 1.5: %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/flashcards/any-id/review", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing mastery: %d, want 400", rec.Code)
	}
}

func TestReviewFlashcardUnknownID(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodPost, "/api/flashcards/unknown-id/review", map[string]any{
		"masteryLevel": 0.5,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestInteractiveElementLifecycle(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	userID := createProfile(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/interactive-element", map[string]any{
		"userId": userID, "subject": "Physics", "topic": "Orbits", "elementType": "simulation",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	elementID, _ := body["elementId"].(string)
	if elementID == "" {
		t.Fatalf("missing elementId in %v", body)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/interactive-elements/"+elementID+"/complete", map[string]any{
		"feedback": map[string]any{"rating": "good", "time_spent": 240},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	element, _ := body["element"].(map[string]any)
	if element["completionStatus"] != true {
		t.Fatalf("element = %v", element)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/interactive-elements/"+userID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", body["count"])
	}
}

func TestCompleteElementUnknownID(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, s, http.MethodPost, "/api/interactive-elements/unknown-id/complete", map[string]any{})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListEmptyIsOK(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	for _, path := range []string{
		"/api/study-plans/u1",
		"/api/progress/u1",
		"/api/question-papers/u1",
		"/api/flashcards/u1",
		"/api/interactive-elements/u1",
	} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: %d, want 200", path, rec.Code)
		}
		if body := decodeBody(t, rec); body["count"] != float64(0) {
			t.Fatalf("%s: count = %v, want 0", path, body["count"])
		}
	}
}
