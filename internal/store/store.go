package store

import "github.com/vrd07/ai-tutor1/pkg/domain"

// Store defines persistence operations for the six tutoring record kinds.
// Creates are atomic; list and get calls on unknown users return empty
// results rather than errors. The only updates are the narrow review and
// completion paths below.
type Store interface {
	// users
	CreateUser(domain.User) error
	GetUser(id string) (domain.User, bool, error)

	// progress
	CreateProgress(domain.Progress) error
	ListProgressByUser(userID string) ([]domain.Progress, error)

	// question papers
	CreateQuestionPaper(domain.QuestionPaper) error
	ListQuestionPapersByUser(userID string) ([]domain.QuestionPaper, error)

	// study plans
	CreateStudyPlan(domain.StudyPlan) error
	ListStudyPlansByUser(userID string) ([]domain.StudyPlan, error)

	// flashcards
	CreateFlashcards([]domain.Flashcard) error
	GetFlashcard(id string) (domain.Flashcard, bool, error)
	ListFlashcardsByUser(userID string) ([]domain.Flashcard, error)
	UpdateFlashcardReview(domain.Flashcard) error

	// interactive elements
	CreateInteractiveElement(domain.InteractiveElement) error
	GetInteractiveElement(id string) (domain.InteractiveElement, bool, error)
	ListInteractiveElementsByUser(userID string) ([]domain.InteractiveElement, error)
	UpdateElementCompletion(domain.InteractiveElement) error
}
