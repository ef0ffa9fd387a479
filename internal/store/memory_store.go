package store

import (
	"fmt"
	"sync"

	"github.com/vrd07/ai-tutor1/pkg/domain"
)

// MemoryStore keeps records in-process. It mirrors the GormStore contract,
// including the user foreign-key check and insertion-order listing, and is
// the store double used by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	progress map[string][]domain.Progress
	papers   map[string][]domain.QuestionPaper
	plans    map[string][]domain.StudyPlan
	cards    map[string]domain.Flashcard
	cardIDs  map[string][]string // user ID -> card IDs in insertion order
	elements map[string]domain.InteractiveElement
	elemIDs  map[string][]string
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		progress: make(map[string][]domain.Progress),
		papers:   make(map[string][]domain.QuestionPaper),
		plans:    make(map[string][]domain.StudyPlan),
		cards:    make(map[string]domain.Flashcard),
		cardIDs:  make(map[string][]string),
		elements: make(map[string]domain.InteractiveElement),
		elemIDs:  make(map[string][]string),
	}
}

func (m *MemoryStore) requireUser(userID string) error {
	if _, ok := m.users[userID]; !ok {
		return fmt.Errorf("user %q does not exist", userID)
	}
	return nil
}

// CreateUser registers a user, rejecting duplicate emails.
func (m *MemoryStore) CreateUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email %q already exists", u.Email)
		}
	}
	m.users[u.ID] = u
	return nil
}

// GetUser returns a user by ID.
func (m *MemoryStore) GetUser(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// CreateProgress records a completed activity for an existing user.
func (m *MemoryStore) CreateProgress(p domain.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUser(p.UserID); err != nil {
		return err
	}
	m.progress[p.UserID] = append(m.progress[p.UserID], p)
	return nil
}

// ListProgressByUser returns progress in insertion order.
func (m *MemoryStore) ListProgressByUser(userID string) ([]domain.Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Progress, len(m.progress[userID]))
	copy(res, m.progress[userID])
	return res, nil
}

// CreateQuestionPaper persists a paper for an existing user.
func (m *MemoryStore) CreateQuestionPaper(p domain.QuestionPaper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUser(p.UserID); err != nil {
		return err
	}
	m.papers[p.UserID] = append(m.papers[p.UserID], p)
	return nil
}

// ListQuestionPapersByUser returns papers in insertion order.
func (m *MemoryStore) ListQuestionPapersByUser(userID string) ([]domain.QuestionPaper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.QuestionPaper, len(m.papers[userID]))
	copy(res, m.papers[userID])
	return res, nil
}

// CreateStudyPlan persists a plan for an existing user.
func (m *MemoryStore) CreateStudyPlan(p domain.StudyPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUser(p.UserID); err != nil {
		return err
	}
	m.plans[p.UserID] = append(m.plans[p.UserID], p)
	return nil
}

// ListStudyPlansByUser returns plans in insertion order.
func (m *MemoryStore) ListStudyPlansByUser(userID string) ([]domain.StudyPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.StudyPlan, len(m.plans[userID]))
	copy(res, m.plans[userID])
	return res, nil
}

// CreateFlashcards persists a batch atomically: the user check runs before
// any card is inserted.
func (m *MemoryStore) CreateFlashcards(cards []domain.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cards {
		if err := m.requireUser(c.UserID); err != nil {
			return err
		}
	}
	for _, c := range cards {
		m.cards[c.ID] = c
		m.cardIDs[c.UserID] = append(m.cardIDs[c.UserID], c.ID)
	}
	return nil
}

// GetFlashcard returns a flashcard by ID.
func (m *MemoryStore) GetFlashcard(id string) (domain.Flashcard, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cards[id]
	return c, ok, nil
}

// ListFlashcardsByUser returns flashcards in insertion order.
func (m *MemoryStore) ListFlashcardsByUser(userID string) ([]domain.Flashcard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Flashcard, 0, len(m.cardIDs[userID]))
	for _, id := range m.cardIDs[userID] {
		if c, ok := m.cards[id]; ok {
			res = append(res, c)
		}
	}
	return res, nil
}

// UpdateFlashcardReview commits the review fields of a loaded card.
func (m *MemoryStore) UpdateFlashcardReview(c domain.Flashcard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.cards[c.ID]
	if !ok {
		return fmt.Errorf("flashcard %q does not exist", c.ID)
	}
	stored.MasteryLevel = c.MasteryLevel
	stored.ReviewCount = c.ReviewCount
	stored.LastReviewed = c.LastReviewed
	m.cards[c.ID] = stored
	return nil
}

// CreateInteractiveElement persists an element for an existing user.
func (m *MemoryStore) CreateInteractiveElement(e domain.InteractiveElement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUser(e.UserID); err != nil {
		return err
	}
	m.elements[e.ID] = e
	m.elemIDs[e.UserID] = append(m.elemIDs[e.UserID], e.ID)
	return nil
}

// GetInteractiveElement returns an element by ID.
func (m *MemoryStore) GetInteractiveElement(id string) (domain.InteractiveElement, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.elements[id]
	return e, ok, nil
}

// ListInteractiveElementsByUser returns elements in insertion order.
func (m *MemoryStore) ListInteractiveElementsByUser(userID string) ([]domain.InteractiveElement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.InteractiveElement, 0, len(m.elemIDs[userID]))
	for _, id := range m.elemIDs[userID] {
		if e, ok := m.elements[id]; ok {
			res = append(res, e)
		}
	}
	return res, nil
}

// UpdateElementCompletion commits the completion fields of a loaded element.
func (m *MemoryStore) UpdateElementCompletion(e domain.InteractiveElement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.elements[e.ID]
	if !ok {
		return fmt.Errorf("interactive element %q does not exist", e.ID)
	}
	stored.CompletionStatus = e.CompletionStatus
	stored.Feedback = e.Feedback
	stored.TimeSpent = e.TimeSpent
	m.elements[e.ID] = stored
	return nil
}
