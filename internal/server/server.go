package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vrd07/ai-tutor1/internal/app"
	"github.com/vrd07/ai-tutor1/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	MaxUploadBytes int64
}

// Server exposes the tutoring HTTP endpoints.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	validate       *validator.Validate
	maxUploadBytes int64
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		validate:       validator.New(),
		maxUploadBytes: normalizeMaxBytes(cfg.MaxUploadBytes),
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/profile", s.handleCreateProfile)
	s.mux.HandleFunc("/api/profile/", s.handleProfileByID)

	s.mux.HandleFunc("/api/lesson", s.handleLesson)
	s.mux.HandleFunc("/api/quiz", s.handleQuiz)

	s.mux.HandleFunc("/api/study-plan", s.handleCreateStudyPlan)
	s.mux.HandleFunc("/api/study-plans/", s.handleListStudyPlans)

	s.mux.HandleFunc("/api/progress", s.handleRecordProgress)
	s.mux.HandleFunc("/api/progress/", s.handleListProgress)

	s.mux.HandleFunc("/api/upload-paper", s.handleUploadPaper)
	s.mux.HandleFunc("/api/question-papers/", s.handleListQuestionPapers)

	s.mux.HandleFunc("/api/flashcards", s.handleGenerateFlashcards)
	s.mux.HandleFunc("/api/flashcards/", s.handleFlashcardsPath)

	s.mux.HandleFunc("/api/interactive-element", s.handleCreateElement)
	s.mux.HandleFunc("/api/interactive-elements/", s.handleElementsPath)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to AI Personal Tutor"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type profileRequest struct {
	Name             string       `json:"name" validate:"required"`
	Email            string       `json:"email" validate:"required,email"`
	Subjects         domain.Attrs `json:"subjects" validate:"required"`
	Preferences      domain.Attrs `json:"preferences"`
	LearningGoals    domain.Attrs `json:"learningGoals"`
	StudyPreferences domain.Attrs `json:"studyPreferences"`
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req profileRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.app.CreateProfile(app.ProfileInput{
		Name:             req.Name,
		Email:            req.Email,
		Subjects:         req.Subjects,
		Preferences:      req.Preferences,
		LearningGoals:    req.LearningGoals,
		StudyPreferences: req.StudyPreferences,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Profile created successfully",
		"userId":  user.ID,
	})
}

func (s *Server) handleProfileByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/profile/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	user, err := s.app.GetProfile(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type lessonRequest struct {
	Subject     string       `json:"subject" validate:"required"`
	Topic       string       `json:"topic" validate:"required"`
	Level       string       `json:"level" validate:"required"`
	Preferences domain.Attrs `json:"preferences"`
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req lessonRequest
	if !s.decode(w, r, &req) {
		return
	}
	content, err := s.app.GenerateLesson(r.Context(), app.LessonInput{
		Subject:     req.Subject,
		Topic:       req.Topic,
		Level:       req.Level,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Lesson generated successfully",
		"content": content,
	})
}

type quizRequest struct {
	Subject       string   `json:"subject" validate:"required"`
	Topic         string   `json:"topic" validate:"required"`
	Level         string   `json:"level" validate:"required"`
	NumQuestions  int      `json:"numQuestions" validate:"omitempty,min=1"`
	QuestionTypes []string `json:"questionTypes"`
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req quizRequest
	if !s.decode(w, r, &req) {
		return
	}
	content, err := s.app.GenerateQuiz(r.Context(), app.QuizInput{
		Subject:       req.Subject,
		Topic:         req.Topic,
		Level:         req.Level,
		NumQuestions:  req.NumQuestions,
		QuestionTypes: req.QuestionTypes,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Quiz generated successfully",
		"content": content,
	})
}

type studyPlanRequest struct {
	UserID   string       `json:"userId" validate:"required"`
	Goals    domain.Attrs `json:"goals" validate:"required"`
	Duration int          `json:"duration" validate:"required,min=1"`
}

func (s *Server) handleCreateStudyPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req studyPlanRequest
	if !s.decode(w, r, &req) {
		return
	}
	plan, err := s.app.CreateStudyPlan(r.Context(), app.StudyPlanInput{
		UserID:   req.UserID,
		Goals:    req.Goals,
		Duration: req.Duration,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Study plan created successfully",
		"planId":  plan.ID,
	})
}

func (s *Server) handleListStudyPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromPath(w, r, "/api/study-plans/")
	if !ok {
		return
	}
	plans, err := s.app.ListStudyPlans(userID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, plans, len(plans))
}

type progressRequest struct {
	UserID          string       `json:"userId" validate:"required"`
	Subject         string       `json:"subject" validate:"required"`
	Topic           string       `json:"topic" validate:"required"`
	Score           float64      `json:"score" validate:"min=0"`
	TimeSpent       int          `json:"timeSpent" validate:"min=0"`
	DifficultyLevel string       `json:"difficultyLevel" validate:"required"`
	LearningStyle   string       `json:"learningStyle"`
	ConfidenceLevel float64      `json:"confidenceLevel"`
	Notes           string       `json:"notes"`
	Feedback        domain.Attrs `json:"feedback"`
}

func (s *Server) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req progressRequest
	if !s.decode(w, r, &req) {
		return
	}
	_, recommendations, err := s.app.RecordProgress(r.Context(), app.ProgressInput{
		UserID:          req.UserID,
		Subject:         req.Subject,
		Topic:           req.Topic,
		Score:           req.Score,
		TimeSpent:       req.TimeSpent,
		DifficultyLevel: req.DifficultyLevel,
		LearningStyle:   req.LearningStyle,
		ConfidenceLevel: req.ConfidenceLevel,
		Notes:           req.Notes,
		Feedback:        req.Feedback,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":         "Progress updated successfully",
		"recommendations": recommendations,
	})
}

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromPath(w, r, "/api/progress/")
	if !ok {
		return
	}
	items, err := s.app.ListProgress(userID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, items, len(items))
}

func (s *Server) handleUploadPaper(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	subject := strings.TrimSpace(r.FormValue("subject"))
	userID := strings.TrimSpace(r.FormValue("userId"))
	if subject == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "subject and userId are required")
		return
	}
	// The full payload is read into memory before writing; uploads are
	// bounded by maxUploadBytes.
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	paper, err := s.app.UploadPaper(r.Context(), app.UploadPaperInput{
		UserID:   userID,
		Subject:  subject,
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Paper uploaded and analyzed successfully",
		"paperId":  paper.ID,
		"analysis": paper.Analysis,
	})
}

func (s *Server) handleListQuestionPapers(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromPath(w, r, "/api/question-papers/")
	if !ok {
		return
	}
	papers, err := s.app.ListQuestionPapers(userID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, papers, len(papers))
}

type flashcardsRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Topic    string `json:"topic" validate:"required"`
	NumCards int    `json:"numCards" validate:"omitempty,min=1"`
}

type flashcardSummary struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (s *Server) handleGenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req flashcardsRequest
	if !s.decode(w, r, &req) {
		return
	}
	cards, err := s.app.GenerateFlashcards(r.Context(), app.FlashcardsInput{
		UserID:   req.UserID,
		Subject:  req.Subject,
		Topic:    req.Topic,
		NumCards: req.NumCards,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	summaries := make([]flashcardSummary, 0, len(cards))
	for _, c := range cards {
		summaries = append(summaries, flashcardSummary{ID: c.ID, Front: c.Front, Back: c.Back})
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Flashcards created successfully",
		"count":      len(cards),
		"flashcards": summaries,
	})
}

type reviewRequest struct {
	// Pointer so an explicit 0.0 passes the required check.
	MasteryLevel *float64 `json:"masteryLevel" validate:"required,min=0,max=1"`
}

// handleFlashcardsPath serves GET /api/flashcards/{userId} (list) and
// POST /api/flashcards/{id}/review.
func (s *Server) handleFlashcardsPath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/flashcards/")
	parts := strings.SplitN(path, "/", 2)
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	if len(parts) == 2 {
		if parts[1] != "review" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req reviewRequest
		if !s.decode(w, r, &req) {
			return
		}
		card, err := s.app.ReviewFlashcard(parts[0], *req.MasteryLevel)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "Flashcard reviewed successfully",
			"flashcard": card,
		})
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	cards, err := s.app.ListFlashcards(parts[0])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, cards, len(cards))
}

type elementRequest struct {
	UserID      string `json:"userId" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Topic       string `json:"topic" validate:"required"`
	ElementType string `json:"elementType" validate:"required"`
}

func (s *Server) handleCreateElement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req elementRequest
	if !s.decode(w, r, &req) {
		return
	}
	element, err := s.app.CreateInteractiveElement(r.Context(), app.ElementInput{
		UserID:      req.UserID,
		Subject:     req.Subject,
		Topic:       req.Topic,
		ElementType: req.ElementType,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Interactive element created successfully",
		"elementId": element.ID,
		"content":   element.Content,
	})
}

type completeRequest struct {
	Feedback domain.Attrs `json:"feedback"`
}

// handleElementsPath serves GET /api/interactive-elements/{userId} (list)
// and POST /api/interactive-elements/{id}/complete.
func (s *Server) handleElementsPath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/interactive-elements/")
	parts := strings.SplitN(path, "/", 2)
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	if len(parts) == 2 {
		if parts[1] != "complete" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req completeRequest
		if !s.decode(w, r, &req) {
			return
		}
		element, err := s.app.CompleteInteractiveElement(parts[0], req.Feedback)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Interactive element completed successfully",
			"element": element,
		})
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	elements, err := s.app.ListInteractiveElements(parts[0])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, elements, len(elements))
}

// decode reads a JSON body and validates the request shape.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func userIDFromPath(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return "", false
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return "", false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeList(w http.ResponseWriter, items any, count int) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": count,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppError maps not-found sentinels to 404; every other failure is one
// generic internal error carrying the failure's description.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrUserNotFound):
		writeError(w, http.StatusNotFound, app.ErrUserNotFound.Error())
	case errors.Is(err, app.ErrFlashcardNotFound):
		writeError(w, http.StatusNotFound, app.ErrFlashcardNotFound.Error())
	case errors.Is(err, app.ErrElementNotFound):
		writeError(w, http.StatusNotFound, app.ErrElementNotFound.Error())
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func normalizeMaxBytes(value int64) int64 {
	if value <= 0 {
		return 50 * 1024 * 1024
	}
	return value
}
