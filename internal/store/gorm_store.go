package store

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vrd07/ai-tutor1/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&ProgressModel{},
		&QuestionPaperModel{},
		&StudyPlanModel{},
		&FlashcardModel{},
		&InteractiveElementModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateUser persists a new user profile.
func (s *GormStore) CreateUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Create(&model).Error
}

// GetUser returns a user by ID.
func (s *GormStore) GetUser(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// CreateProgress records one completed activity.
func (s *GormStore) CreateProgress(p domain.Progress) error {
	model := progressToModel(p)
	return s.db.Create(&model).Error
}

// ListProgressByUser returns progress rows ordered by completion time.
func (s *GormStore) ListProgressByUser(userID string) ([]domain.Progress, error) {
	var models []ProgressModel
	if err := s.db.Order("completed_at ASC").Find(&models, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Progress, 0, len(models))
	for _, m := range models {
		res = append(res, progressFromModel(m))
	}
	return res, nil
}

// CreateQuestionPaper persists an uploaded paper and its analysis.
func (s *GormStore) CreateQuestionPaper(p domain.QuestionPaper) error {
	model := paperToModel(p)
	return s.db.Create(&model).Error
}

// ListQuestionPapersByUser returns papers ordered by created_at.
func (s *GormStore) ListQuestionPapersByUser(userID string) ([]domain.QuestionPaper, error) {
	var models []QuestionPaperModel
	if err := s.db.Order("created_at ASC").Find(&models, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	res := make([]domain.QuestionPaper, 0, len(models))
	for _, m := range models {
		res = append(res, paperFromModel(m))
	}
	return res, nil
}

// CreateStudyPlan persists a generated plan.
func (s *GormStore) CreateStudyPlan(p domain.StudyPlan) error {
	model := planToModel(p)
	return s.db.Create(&model).Error
}

// ListStudyPlansByUser returns plans ordered by created_at.
func (s *GormStore) ListStudyPlansByUser(userID string) ([]domain.StudyPlan, error) {
	var models []StudyPlanModel
	if err := s.db.Order("created_at ASC").Find(&models, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	res := make([]domain.StudyPlan, 0, len(models))
	for _, m := range models {
		res = append(res, planFromModel(m))
	}
	return res, nil
}

// CreateFlashcards persists a generation batch in one transaction: either
// every card lands or none do.
func (s *GormStore) CreateFlashcards(cards []domain.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	models := make([]FlashcardModel, 0, len(cards))
	for _, c := range cards {
		models = append(models, flashcardToModel(c))
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models).Error
	})
}

// GetFlashcard returns a flashcard by ID.
func (s *GormStore) GetFlashcard(id string) (domain.Flashcard, bool, error) {
	var model FlashcardModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Flashcard{}, false, nil
		}
		return domain.Flashcard{}, false, err
	}
	return flashcardFromModel(model), true, nil
}

// ListFlashcardsByUser returns flashcards ordered by created_at.
func (s *GormStore) ListFlashcardsByUser(userID string) ([]domain.Flashcard, error) {
	var models []FlashcardModel
	if err := s.db.Order("created_at ASC").Find(&models, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Flashcard, 0, len(models))
	for _, m := range models {
		res = append(res, flashcardFromModel(m))
	}
	return res, nil
}

// UpdateFlashcardReview commits the three review fields of a loaded card.
func (s *GormStore) UpdateFlashcardReview(c domain.Flashcard) error {
	return s.db.Model(&FlashcardModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"mastery_level": c.MasteryLevel,
			"review_count":  c.ReviewCount,
			"last_reviewed": c.LastReviewed,
		}).Error
}

// CreateInteractiveElement persists a generated activity.
func (s *GormStore) CreateInteractiveElement(e domain.InteractiveElement) error {
	model := elementToModel(e)
	return s.db.Create(&model).Error
}

// GetInteractiveElement returns an element by ID.
func (s *GormStore) GetInteractiveElement(id string) (domain.InteractiveElement, bool, error) {
	var model InteractiveElementModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.InteractiveElement{}, false, nil
		}
		return domain.InteractiveElement{}, false, err
	}
	return elementFromModel(model), true, nil
}

// ListInteractiveElementsByUser returns elements ordered by created_at.
func (s *GormStore) ListInteractiveElementsByUser(userID string) ([]domain.InteractiveElement, error) {
	var models []InteractiveElementModel
	if err := s.db.Order("created_at ASC").Find(&models, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	res := make([]domain.InteractiveElement, 0, len(models))
	for _, m := range models {
		res = append(res, elementFromModel(m))
	}
	return res, nil
}

// UpdateElementCompletion commits the completion fields of a loaded element.
func (s *GormStore) UpdateElementCompletion(e domain.InteractiveElement) error {
	return s.db.Model(&InteractiveElementModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"completion_status": e.CompletionStatus,
			"feedback":          datatypes.JSONMap(e.Feedback),
			"time_spent":        e.TimeSpent,
		}).Error
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Subjects:         datatypes.JSONMap(u.Subjects),
		Preferences:      datatypes.JSONMap(u.Preferences),
		LearningGoals:    datatypes.JSONMap(u.LearningGoals),
		StudyPreferences: datatypes.JSONMap(u.StudyPreferences),
		IsActive:         u.IsActive,
		CreatedAt:        u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:               m.ID,
		Name:             m.Name,
		Email:            m.Email,
		Subjects:         domain.Attrs(m.Subjects),
		Preferences:      domain.Attrs(m.Preferences),
		LearningGoals:    domain.Attrs(m.LearningGoals),
		StudyPreferences: domain.Attrs(m.StudyPreferences),
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
	}
}

func progressToModel(p domain.Progress) ProgressModel {
	return ProgressModel{
		ID:              p.ID,
		UserID:          p.UserID,
		Subject:         p.Subject,
		Topic:           p.Topic,
		Score:           p.Score,
		TimeSpent:       p.TimeSpent,
		DifficultyLevel: p.DifficultyLevel,
		Feedback:        datatypes.JSONMap(p.Feedback),
		LearningStyle:   p.LearningStyle,
		ConfidenceLevel: p.ConfidenceLevel,
		Notes:           p.Notes,
		CompletedAt:     p.CompletedAt,
	}
}

func progressFromModel(m ProgressModel) domain.Progress {
	return domain.Progress{
		ID:              m.ID,
		UserID:          m.UserID,
		Subject:         m.Subject,
		Topic:           m.Topic,
		Score:           m.Score,
		TimeSpent:       m.TimeSpent,
		DifficultyLevel: m.DifficultyLevel,
		Feedback:        domain.Attrs(m.Feedback),
		LearningStyle:   m.LearningStyle,
		ConfidenceLevel: m.ConfidenceLevel,
		Notes:           m.Notes,
		CompletedAt:     m.CompletedAt,
	}
}

func paperToModel(p domain.QuestionPaper) QuestionPaperModel {
	return QuestionPaperModel{
		ID:        p.ID,
		UserID:    p.UserID,
		Subject:   p.Subject,
		FilePath:  p.FilePath,
		Analysis:  p.Analysis,
		Metadata:  datatypes.JSONMap(p.Metadata),
		CreatedAt: p.CreatedAt,
	}
}

func paperFromModel(m QuestionPaperModel) domain.QuestionPaper {
	return domain.QuestionPaper{
		ID:        m.ID,
		UserID:    m.UserID,
		Subject:   m.Subject,
		FilePath:  m.FilePath,
		Analysis:  m.Analysis,
		Metadata:  domain.Attrs(m.Metadata),
		CreatedAt: m.CreatedAt,
	}
}

func planToModel(p domain.StudyPlan) StudyPlanModel {
	return StudyPlanModel{
		ID:        p.ID,
		UserID:    p.UserID,
		Plan:      p.Plan,
		Duration:  p.Duration,
		Status:    string(p.Status),
		Progress:  p.Progress,
		Goals:     datatypes.JSONMap(p.Goals),
		CreatedAt: p.CreatedAt,
	}
}

func planFromModel(m StudyPlanModel) domain.StudyPlan {
	return domain.StudyPlan{
		ID:        m.ID,
		UserID:    m.UserID,
		Plan:      m.Plan,
		Duration:  m.Duration,
		Status:    domain.PlanStatus(m.Status),
		Progress:  m.Progress,
		Goals:     domain.Attrs(m.Goals),
		CreatedAt: m.CreatedAt,
	}
}

func flashcardToModel(c domain.Flashcard) FlashcardModel {
	return FlashcardModel{
		ID:           c.ID,
		UserID:       c.UserID,
		Subject:      c.Subject,
		Topic:        c.Topic,
		Front:        c.Front,
		Back:         c.Back,
		Difficulty:   c.Difficulty,
		Category:     c.Category,
		ReviewCount:  c.ReviewCount,
		MasteryLevel: c.MasteryLevel,
		LastReviewed: c.LastReviewed,
		CreatedAt:    c.CreatedAt,
	}
}

func flashcardFromModel(m FlashcardModel) domain.Flashcard {
	return domain.Flashcard{
		ID:           m.ID,
		UserID:       m.UserID,
		Subject:      m.Subject,
		Topic:        m.Topic,
		Front:        m.Front,
		Back:         m.Back,
		Difficulty:   m.Difficulty,
		Category:     m.Category,
		ReviewCount:  m.ReviewCount,
		MasteryLevel: m.MasteryLevel,
		LastReviewed: m.LastReviewed,
		CreatedAt:    m.CreatedAt,
	}
}

func elementToModel(e domain.InteractiveElement) InteractiveElementModel {
	return InteractiveElementModel{
		ID:                 e.ID,
		UserID:             e.UserID,
		Subject:            e.Subject,
		Topic:              e.Topic,
		ElementType:        e.ElementType,
		Content:            e.Content,
		DifficultyLevel:    e.DifficultyLevel,
		LearningObjectives: datatypes.JSONSlice[string](e.LearningObjectives),
		Feedback:           datatypes.JSONMap(e.Feedback),
		CompletionStatus:   e.CompletionStatus,
		TimeSpent:          e.TimeSpent,
		CreatedAt:          e.CreatedAt,
	}
}

func elementFromModel(m InteractiveElementModel) domain.InteractiveElement {
	return domain.InteractiveElement{
		ID:                 m.ID,
		UserID:             m.UserID,
		Subject:            m.Subject,
		Topic:              m.Topic,
		ElementType:        m.ElementType,
		Content:            m.Content,
		DifficultyLevel:    m.DifficultyLevel,
		LearningObjectives: []string(m.LearningObjectives),
		Feedback:           domain.Attrs(m.Feedback),
		CompletionStatus:   m.CompletionStatus,
		TimeSpent:          m.TimeSpent,
		CreatedAt:          m.CreatedAt,
	}
}
