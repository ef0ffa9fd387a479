package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vrd07/ai-tutor1/internal/storage"
	"github.com/vrd07/ai-tutor1/internal/store"
	"github.com/vrd07/ai-tutor1/pkg/ai"
	"github.com/vrd07/ai-tutor1/pkg/domain"
)

const (
	defaultQuizQuestions  = 5
	defaultFlashcardCount = 10
)

// Generator produces tutoring content from typed parameters, one synchronous
// call per invocation. Implemented by ai.Tutor.
type Generator interface {
	GenerateLesson(ctx context.Context, p ai.LessonParams) (string, error)
	GenerateQuiz(ctx context.Context, p ai.QuizParams) (string, error)
	GenerateStudyPlan(ctx context.Context, p ai.StudyPlanParams) (string, error)
	AnalyzeQuestionPaper(ctx context.Context, p ai.PaperAnalysisParams) (string, error)
	RecommendNextSteps(ctx context.Context, p ai.RecommendationParams) (string, error)
	GenerateFlashcards(ctx context.Context, p ai.FlashcardParams) (string, error)
	GenerateInteractiveElement(ctx context.Context, p ai.InteractiveElementParams) (string, error)
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Store     store.Store
	Generator Generator
	Files     *storage.FileStore
}

// App orchestrates each external action: validate, load related records,
// generate, persist, shape. It holds no per-request state.
type App struct {
	store store.Store
	gen   Generator
	files *storage.FileStore
}

// New constructs the orchestrator.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator required")
	}
	if cfg.Files == nil {
		return nil, fmt.Errorf("file store required")
	}
	return &App{store: cfg.Store, gen: cfg.Generator, files: cfg.Files}, nil
}

// ProfileInput carries the fields for profile creation.
type ProfileInput struct {
	Name             string
	Email            string
	Subjects         domain.Attrs
	Preferences      domain.Attrs
	LearningGoals    domain.Attrs
	StudyPreferences domain.Attrs
}

// CreateProfile persists a new learner profile and returns it with its
// generated identifier.
func (a *App) CreateProfile(in ProfileInput) (domain.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.User{}, fmt.Errorf("name required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return domain.User{}, fmt.Errorf("email required")
	}
	user := domain.User{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Email:            in.Email,
		Subjects:         in.Subjects,
		Preferences:      in.Preferences,
		LearningGoals:    in.LearningGoals,
		StudyPreferences: in.StudyPreferences,
		IsActive:         true,
		CreatedAt:        time.Now().UTC(),
	}
	if err := a.store.CreateUser(user); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetProfile returns the full user record.
func (a *App) GetProfile(id string) (domain.User, error) {
	user, ok, err := a.store.GetUser(id)
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

// LessonInput carries lesson-generation parameters.
type LessonInput struct {
	Subject     string
	Topic       string
	Level       string
	Preferences domain.Attrs
}

// GenerateLesson returns generated lesson text. Nothing is persisted;
// progress is recorded only by a separate caller-initiated call.
func (a *App) GenerateLesson(ctx context.Context, in LessonInput) (string, error) {
	return a.gen.GenerateLesson(ctx, ai.LessonParams{
		Subject:     in.Subject,
		Topic:       in.Topic,
		Level:       in.Level,
		Preferences: in.Preferences,
	})
}

// QuizInput carries quiz-generation parameters.
type QuizInput struct {
	Subject       string
	Topic         string
	Level         string
	NumQuestions  int
	QuestionTypes []string
}

// GenerateQuiz returns generated quiz text. Nothing is persisted.
func (a *App) GenerateQuiz(ctx context.Context, in QuizInput) (string, error) {
	if in.NumQuestions <= 0 {
		in.NumQuestions = defaultQuizQuestions
	}
	if len(in.QuestionTypes) == 0 {
		in.QuestionTypes = []string{"multiple_choice"}
	}
	return a.gen.GenerateQuiz(ctx, ai.QuizParams{
		Subject:       in.Subject,
		Topic:         in.Topic,
		Level:         in.Level,
		NumQuestions:  in.NumQuestions,
		QuestionTypes: in.QuestionTypes,
	})
}

// StudyPlanInput carries study-plan parameters.
type StudyPlanInput struct {
	UserID   string
	Goals    domain.Attrs
	Duration int
}

// CreateStudyPlan loads the user's full profile, generates a plan from it and
// the goals, and persists the plan as Active with zero progress.
func (a *App) CreateStudyPlan(ctx context.Context, in StudyPlanInput) (domain.StudyPlan, error) {
	user, ok, err := a.store.GetUser(in.UserID)
	if err != nil {
		return domain.StudyPlan{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return domain.StudyPlan{}, ErrUserNotFound
	}
	text, err := a.gen.GenerateStudyPlan(ctx, ai.StudyPlanParams{Profile: user, Goals: in.Goals})
	if err != nil {
		return domain.StudyPlan{}, fmt.Errorf("generate study plan: %w", err)
	}
	plan := domain.StudyPlan{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Plan:      text,
		Duration:  in.Duration,
		Status:    domain.PlanActive,
		Progress:  0.0,
		Goals:     in.Goals,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.CreateStudyPlan(plan); err != nil {
		return domain.StudyPlan{}, fmt.Errorf("create study plan: %w", err)
	}
	return plan, nil
}

// ProgressInput carries a completed-activity report.
type ProgressInput struct {
	UserID          string
	Subject         string
	Topic           string
	Score           float64
	TimeSpent       int
	DifficultyLevel string
	LearningStyle   string
	ConfidenceLevel float64
	Notes           string
	Feedback        domain.Attrs
}

// RecordProgress persists the progress row, then generates recommendations
// from the just-submitted data. The recommendation call runs unconditionally
// after persistence: if it fails the returned error fails the response, but
// the committed row is not rolled back.
func (a *App) RecordProgress(ctx context.Context, in ProgressInput) (domain.Progress, string, error) {
	progress := domain.Progress{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Subject:         in.Subject,
		Topic:           in.Topic,
		Score:           in.Score,
		TimeSpent:       in.TimeSpent,
		DifficultyLevel: in.DifficultyLevel,
		LearningStyle:   in.LearningStyle,
		ConfidenceLevel: in.ConfidenceLevel,
		Notes:           in.Notes,
		Feedback:        in.Feedback,
		CompletedAt:     time.Now().UTC(),
	}
	if err := a.store.CreateProgress(progress); err != nil {
		return domain.Progress{}, "", fmt.Errorf("create progress: %w", err)
	}
	recommendations, err := a.gen.RecommendNextSteps(ctx, ai.RecommendationParams{Progress: progress})
	if err != nil {
		return domain.Progress{}, "", fmt.Errorf("generate recommendations: %w", err)
	}
	return progress, recommendations, nil
}

// ListProgress returns the user's progress rows.
func (a *App) ListProgress(userID string) ([]domain.Progress, error) {
	return a.store.ListProgressByUser(userID)
}

// ListStudyPlans returns the user's study plans.
func (a *App) ListStudyPlans(userID string) ([]domain.StudyPlan, error) {
	return a.store.ListStudyPlansByUser(userID)
}

// ListQuestionPapers returns the user's uploaded papers.
func (a *App) ListQuestionPapers(userID string) ([]domain.QuestionPaper, error) {
	return a.store.ListQuestionPapersByUser(userID)
}

// ListFlashcards returns the user's flashcards.
func (a *App) ListFlashcards(userID string) ([]domain.Flashcard, error) {
	return a.store.ListFlashcardsByUser(userID)
}

// ListInteractiveElements returns the user's interactive elements.
func (a *App) ListInteractiveElements(userID string) ([]domain.InteractiveElement, error) {
	return a.store.ListInteractiveElementsByUser(userID)
}

// UploadPaperInput carries a full in-memory upload payload.
type UploadPaperInput struct {
	UserID   string
	Subject  string
	Filename string
	Data     []byte
}

// UploadPaper writes the payload to the uploads directory, re-reads it as
// text (extracting from PDF when applicable), analyzes it, and persists the
// paper with its analysis and upload metadata.
func (a *App) UploadPaper(ctx context.Context, in UploadPaperInput) (domain.QuestionPaper, error) {
	path, err := a.files.Save(in.UserID, in.Filename, in.Data)
	if err != nil {
		return domain.QuestionPaper{}, fmt.Errorf("save upload: %w", err)
	}
	content, err := extractPaperText(path)
	if err != nil {
		return domain.QuestionPaper{}, fmt.Errorf("read paper: %w", err)
	}
	analysis, err := a.gen.AnalyzeQuestionPaper(ctx, ai.PaperAnalysisParams{
		Subject: in.Subject,
		Content: content,
	})
	if err != nil {
		return domain.QuestionPaper{}, fmt.Errorf("analyze paper: %w", err)
	}
	paper := domain.QuestionPaper{
		ID:       uuid.NewString(),
		UserID:   in.UserID,
		Subject:  in.Subject,
		FilePath: path,
		Analysis: analysis,
		Metadata: domain.Attrs{
			"filename":    in.Filename,
			"upload_date": time.Now().UTC().Format(time.RFC3339),
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.CreateQuestionPaper(paper); err != nil {
		return domain.QuestionPaper{}, fmt.Errorf("create question paper: %w", err)
	}
	return paper, nil
}

// FlashcardsInput carries flashcard-generation parameters.
type FlashcardsInput struct {
	UserID   string
	Subject  string
	Topic    string
	NumCards int
}

// GenerateFlashcards requests one block of generated text, splits it into
// card candidates, and persists the non-empty ones as a batch with fixed
// defaults. Zero persisted cards is a valid outcome.
func (a *App) GenerateFlashcards(ctx context.Context, in FlashcardsInput) ([]domain.Flashcard, error) {
	if in.NumCards <= 0 {
		in.NumCards = defaultFlashcardCount
	}
	text, err := a.gen.GenerateFlashcards(ctx, ai.FlashcardParams{
		Subject:  in.Subject,
		Topic:    in.Topic,
		NumCards: in.NumCards,
	})
	if err != nil {
		return nil, fmt.Errorf("generate flashcards: %w", err)
	}
	now := time.Now().UTC()
	candidates := splitFlashcards(text)
	cards := make([]domain.Flashcard, 0, len(candidates))
	for _, c := range candidates {
		cards = append(cards, domain.Flashcard{
			ID:           uuid.NewString(),
			UserID:       in.UserID,
			Subject:      in.Subject,
			Topic:        in.Topic,
			Front:        c.Front,
			Back:         c.Back,
			Difficulty:   "Medium",
			Category:     "Concept",
			ReviewCount:  0,
			MasteryLevel: 0.0,
			CreatedAt:    now,
		})
	}
	if err := a.store.CreateFlashcards(cards); err != nil {
		return nil, fmt.Errorf("create flashcards: %w", err)
	}
	return cards, nil
}

// ReviewFlashcard sets the card's mastery level, increments its review count
// and stamps the review time. Repeated reviews keep incrementing the count
// and leave mastery at the last-written value.
func (a *App) ReviewFlashcard(id string, masteryLevel float64) (domain.Flashcard, error) {
	if masteryLevel < 0 || masteryLevel > 1 {
		return domain.Flashcard{}, fmt.Errorf("mastery level must be between 0 and 1")
	}
	card, ok, err := a.store.GetFlashcard(id)
	if err != nil {
		return domain.Flashcard{}, fmt.Errorf("load flashcard: %w", err)
	}
	if !ok {
		return domain.Flashcard{}, ErrFlashcardNotFound
	}
	now := time.Now().UTC()
	card.MasteryLevel = masteryLevel
	card.ReviewCount++
	card.LastReviewed = &now
	if err := a.store.UpdateFlashcardReview(card); err != nil {
		return domain.Flashcard{}, fmt.Errorf("update flashcard: %w", err)
	}
	return card, nil
}

// ElementInput carries interactive-element parameters.
type ElementInput struct {
	UserID      string
	Subject     string
	Topic       string
	ElementType string
}

// CreateInteractiveElement generates the element content and persists it
// with fixed defaults (Moderate difficulty, no objectives, incomplete).
func (a *App) CreateInteractiveElement(ctx context.Context, in ElementInput) (domain.InteractiveElement, error) {
	content, err := a.gen.GenerateInteractiveElement(ctx, ai.InteractiveElementParams{
		Subject:     in.Subject,
		Topic:       in.Topic,
		ElementType: in.ElementType,
	})
	if err != nil {
		return domain.InteractiveElement{}, fmt.Errorf("generate interactive element: %w", err)
	}
	element := domain.InteractiveElement{
		ID:                 uuid.NewString(),
		UserID:             in.UserID,
		Subject:            in.Subject,
		Topic:              in.Topic,
		ElementType:        in.ElementType,
		Content:            content,
		DifficultyLevel:    "Moderate",
		LearningObjectives: []string{},
		CompletionStatus:   false,
		CreatedAt:          time.Now().UTC(),
	}
	if err := a.store.CreateInteractiveElement(element); err != nil {
		return domain.InteractiveElement{}, fmt.Errorf("create interactive element: %w", err)
	}
	return element, nil
}

// CompleteInteractiveElement marks the element complete and stores the
// feedback, taking time spent from the feedback's time_spent key (0 when
// absent). A repeat call succeeds and overwrites feedback and time spent;
// the completion flag never reverts.
func (a *App) CompleteInteractiveElement(id string, feedback domain.Attrs) (domain.InteractiveElement, error) {
	element, ok, err := a.store.GetInteractiveElement(id)
	if err != nil {
		return domain.InteractiveElement{}, fmt.Errorf("load interactive element: %w", err)
	}
	if !ok {
		return domain.InteractiveElement{}, ErrElementNotFound
	}
	element.CompletionStatus = true
	element.Feedback = feedback
	element.TimeSpent = intFromAttrs(feedback, "time_spent")
	if err := a.store.UpdateElementCompletion(element); err != nil {
		return domain.InteractiveElement{}, fmt.Errorf("update interactive element: %w", err)
	}
	return element, nil
}

// intFromAttrs reads an integer value from a decoded JSON blob, where
// numbers arrive as float64.
func intFromAttrs(attrs domain.Attrs, key string) int {
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
