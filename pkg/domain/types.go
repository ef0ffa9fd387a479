package domain

import "time"

// Attrs is an open key-value blob. Preference, goal, feedback, and metadata
// payloads cross both the generation and persistence boundaries in this shape.
type Attrs map[string]any

type PlanStatus string

const (
	PlanActive    PlanStatus = "Active"
	PlanCompleted PlanStatus = "Completed"
	PlanArchived  PlanStatus = "Archived"
)

// User is the root entity; every other record belongs to one user.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Subjects         Attrs     `json:"subjects"`
	Preferences      Attrs     `json:"preferences,omitempty"`
	LearningGoals    Attrs     `json:"learningGoals,omitempty"`
	StudyPreferences Attrs     `json:"studyPreferences,omitempty"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Progress records one completed learning activity. Immutable after creation.
type Progress struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Subject         string    `json:"subject"`
	Topic           string    `json:"topic"`
	Score           float64   `json:"score"`
	TimeSpent       int       `json:"timeSpent"`
	DifficultyLevel string    `json:"difficultyLevel"`
	Feedback        Attrs     `json:"feedback,omitempty"`
	LearningStyle   string    `json:"learningStyle,omitempty"`
	ConfidenceLevel float64   `json:"confidenceLevel,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CompletedAt     time.Time `json:"completedAt"`
}

// QuestionPaper is an uploaded exam paper plus its write-once analysis.
type QuestionPaper struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Subject   string    `json:"subject"`
	FilePath  string    `json:"filePath"`
	Analysis  string    `json:"analysis"`
	Metadata  Attrs     `json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
}

type StudyPlan struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Plan      string     `json:"plan"`
	Duration  int        `json:"duration"`
	Status    PlanStatus `json:"status"`
	Progress  float64    `json:"progress"`
	Goals     Attrs      `json:"goals,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Flashcard is one front/back study card. MasteryLevel stays within [0,1].
type Flashcard struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Subject      string     `json:"subject"`
	Topic        string     `json:"topic"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Difficulty   string     `json:"difficulty"`
	Category     string     `json:"category"`
	ReviewCount  int        `json:"reviewCount"`
	MasteryLevel float64    `json:"masteryLevel"`
	LastReviewed *time.Time `json:"lastReviewed,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// InteractiveElement is one generated interactive activity. CompletionStatus
// transitions false to true once and never reverses.
type InteractiveElement struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Subject            string    `json:"subject"`
	Topic              string    `json:"topic"`
	ElementType        string    `json:"elementType"`
	Content            string    `json:"content"`
	DifficultyLevel    string    `json:"difficultyLevel"`
	LearningObjectives []string  `json:"learningObjectives"`
	Feedback           Attrs     `json:"feedback,omitempty"`
	CompletionStatus   bool      `json:"completionStatus"`
	TimeSpent          int       `json:"timeSpent"`
	CreatedAt          time.Time `json:"createdAt"`
}
