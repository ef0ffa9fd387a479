package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence. Open key-value blobs persist as jsonb.
// The five child tables carry a foreign key to users so orphaned rows are
// rejected by the storage engine.

type UserModel struct {
	ID               string            `gorm:"primaryKey"`
	Name             string            `gorm:"not null"`
	Email            string            `gorm:"uniqueIndex;not null"`
	Subjects         datatypes.JSONMap `gorm:"type:jsonb"`
	Preferences      datatypes.JSONMap `gorm:"type:jsonb"`
	LearningGoals    datatypes.JSONMap `gorm:"type:jsonb"`
	StudyPreferences datatypes.JSONMap `gorm:"type:jsonb"`
	IsActive         bool              `gorm:"not null;default:true"`
	CreatedAt        time.Time         `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type ProgressModel struct {
	ID              string     `gorm:"primaryKey"`
	UserID          string     `gorm:"not null;index"`
	User            *UserModel `gorm:"foreignKey:UserID"`
	Subject         string     `gorm:"not null"`
	Topic           string     `gorm:"not null"`
	Score           float64
	TimeSpent       int
	DifficultyLevel string
	Feedback        datatypes.JSONMap `gorm:"type:jsonb"`
	LearningStyle   string
	ConfidenceLevel float64
	Notes           string    `gorm:"type:text"`
	CompletedAt     time.Time `gorm:"not null"`
}

func (ProgressModel) TableName() string { return "progress" }

type QuestionPaperModel struct {
	ID        string     `gorm:"primaryKey"`
	UserID    string     `gorm:"not null;index"`
	User      *UserModel `gorm:"foreignKey:UserID"`
	Subject   string
	FilePath  string
	Analysis  string            `gorm:"type:text"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"not null"`
}

func (QuestionPaperModel) TableName() string { return "question_papers" }

type StudyPlanModel struct {
	ID        string     `gorm:"primaryKey"`
	UserID    string     `gorm:"not null;index"`
	User      *UserModel `gorm:"foreignKey:UserID"`
	Plan      string     `gorm:"type:text"`
	Duration  int
	Status    string
	Progress  float64
	Goals     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"not null"`
}

func (StudyPlanModel) TableName() string { return "study_plans" }

type FlashcardModel struct {
	ID           string     `gorm:"primaryKey"`
	UserID       string     `gorm:"not null;index"`
	User         *UserModel `gorm:"foreignKey:UserID"`
	Subject      string     `gorm:"not null"`
	Topic        string     `gorm:"not null"`
	Front        string     `gorm:"type:text;not null"`
	Back         string     `gorm:"type:text;not null"`
	Difficulty   string
	Category     string
	ReviewCount  int `gorm:"not null;default:0"`
	MasteryLevel float64
	LastReviewed *time.Time
	CreatedAt    time.Time `gorm:"not null"`
}

func (FlashcardModel) TableName() string { return "flashcards" }

type InteractiveElementModel struct {
	ID                 string     `gorm:"primaryKey"`
	UserID             string     `gorm:"not null;index"`
	User               *UserModel `gorm:"foreignKey:UserID"`
	Subject            string     `gorm:"not null"`
	Topic              string     `gorm:"not null"`
	ElementType        string
	Content            string `gorm:"type:text"`
	DifficultyLevel    string
	LearningObjectives datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Feedback           datatypes.JSONMap           `gorm:"type:jsonb"`
	CompletionStatus   bool                        `gorm:"not null;default:false"`
	TimeSpent          int
	CreatedAt          time.Time `gorm:"not null"`
}

func (InteractiveElementModel) TableName() string { return "interactive_elements" }
