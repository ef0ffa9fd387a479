package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vrd07/ai-tutor1/pkg/domain"
)

// One prompt template per content kind. Each template is a pure function over
// a typed parameter struct so it can be verified without a live endpoint.
// Map-valued parameters are serialized with encodeAttrs before interpolation.

// encodeAttrs renders an open key-value blob to its canonical text form:
// JSON with lexicographically ordered keys, or "None" when the blob is empty.
func encodeAttrs(attrs domain.Attrs) string {
	if len(attrs) == 0 {
		return "None"
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "None"
	}
	return string(data)
}

type LessonParams struct {
	Subject     string
	Topic       string
	Level       string
	Preferences domain.Attrs
}

func (p LessonParams) Prompt() string {
	return fmt.Sprintf(`Generate a comprehensive lesson on %s for %s at %s level.
Consider the following preferences: %s
Include:
1. Introduction and learning objectives
2. Key concepts with examples
3. Interactive elements (quizzes, exercises, simulations)
4. Practice problems with solutions
5. Summary and key takeaways
6. Additional resources for further learning
7. Real-world applications
8. Common misconceptions and how to avoid them`,
		p.Topic, p.Subject, p.Level, encodeAttrs(p.Preferences))
}

type QuizParams struct {
	Subject       string
	Topic         string
	Level         string
	NumQuestions  int
	QuestionTypes []string
}

func (p QuizParams) Prompt() string {
	return fmt.Sprintf(`Generate a %d-question quiz on %s for %s at %s level.
Include the following question types: %s
For each question:
1. Question text
2. Options (if applicable)
3. Correct answer
4. Detailed explanation
5. Difficulty level
6. Time estimate for answering
7. Hints (if applicable)
8. Common mistakes to watch out for`,
		p.NumQuestions, p.Topic, p.Subject, p.Level, strings.Join(p.QuestionTypes, ", "))
}

type StudyPlanParams struct {
	Profile domain.User
	Goals   domain.Attrs
}

func (p StudyPlanParams) Prompt() string {
	profile, err := json.Marshal(p.Profile)
	if err != nil {
		profile = []byte("{}")
	}
	return fmt.Sprintf(`Create a personalized study plan based on:
User Profile: %s
Learning Goals: %s
Include:
1. Weekly schedule with time slots
2. Topic priorities and dependencies
3. Practice recommendations
4. Progress milestones
5. Resource recommendations
6. Revision strategy
7. Break and rest periods
8. Motivation techniques
9. Progress tracking methods`,
		profile, encodeAttrs(p.Goals))
}

type PaperAnalysisParams struct {
	Subject string
	Content string
}

func (p PaperAnalysisParams) Prompt() string {
	return fmt.Sprintf(`Analyze this %s question paper:
%s
Provide:
1. Topic distribution and weightage
2. Difficulty levels and patterns
3. Key concepts covered
4. Question types and their distribution
5. Suggested study areas
6. Common mistakes to avoid
7. Time management tips
8. Scoring strategy
9. Important formulas/theorems to remember
10. Practice recommendations`,
		p.Subject, p.Content)
}

// RecommendationParams carries the progress snapshot a learner just
// submitted; the whole snapshot is interpolated into the prompt.
type RecommendationParams struct {
	Progress domain.Progress
}

func (p RecommendationParams) Prompt() string {
	snapshot, err := json.Marshal(p.Progress)
	if err != nil {
		snapshot = []byte("{}")
	}
	return fmt.Sprintf(`Analyze this learning progress data and provide recommendations:
%s
Include:
1. Strengths and weaknesses
2. Suggested focus areas
3. Learning resources
4. Practice strategies
5. Time management tips
6. Motivation strategies
7. Study techniques
8. Revision schedule
9. Practice test recommendations
10. Mindset and attitude tips`,
		snapshot)
}

type FlashcardParams struct {
	Subject  string
	Topic    string
	NumCards int
}

func (p FlashcardParams) Prompt() string {
	return fmt.Sprintf(`Generate %d flashcards for %s in %s.
For each flashcard:
1. Front: Key concept or question
2. Back: Detailed explanation or answer
3. Category: Easy/Medium/Hard
4. Related concepts
5. Memory aids or mnemonics`,
		p.NumCards, p.Topic, p.Subject)
}

type InteractiveElementParams struct {
	Subject     string
	Topic       string
	ElementType string
}

func (p InteractiveElementParams) Prompt() string {
	return fmt.Sprintf(`Generate an interactive %s for %s in %s.
Include:
1. Clear instructions
2. Interactive components
3. Expected outcomes
4. Learning objectives
5. Assessment criteria
6. Feedback mechanism`,
		p.ElementType, p.Topic, p.Subject)
}
