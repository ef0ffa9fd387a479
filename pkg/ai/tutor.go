package ai

import "context"

const (
	// DefaultGenerationModel serves every content kind except quizzes.
	DefaultGenerationModel = "mixtral"
	// DefaultQuizModel is the dedicated quiz-generation model.
	DefaultQuizModel = "deepseek-r1"
)

// Tutor renders one prompt per content kind and submits it through a single
// Ollama call, returning the generated text.
type Tutor struct {
	client    *OllamaClient
	model     string
	quizModel string
}

// NewTutor binds the client to a general model and a quiz model. Empty model
// names fall back to the defaults.
func NewTutor(client *OllamaClient, model, quizModel string) *Tutor {
	if model == "" {
		model = DefaultGenerationModel
	}
	if quizModel == "" {
		quizModel = DefaultQuizModel
	}
	return &Tutor{client: client, model: model, quizModel: quizModel}
}

func (t *Tutor) GenerateLesson(ctx context.Context, p LessonParams) (string, error) {
	return t.client.Generate(ctx, t.model, p.Prompt())
}

func (t *Tutor) GenerateQuiz(ctx context.Context, p QuizParams) (string, error) {
	return t.client.Generate(ctx, t.quizModel, p.Prompt())
}

func (t *Tutor) GenerateStudyPlan(ctx context.Context, p StudyPlanParams) (string, error) {
	return t.client.Generate(ctx, t.model, p.Prompt())
}

func (t *Tutor) AnalyzeQuestionPaper(ctx context.Context, p PaperAnalysisParams) (string, error) {
	return t.client.Generate(ctx, t.model, p.Prompt())
}

func (t *Tutor) RecommendNextSteps(ctx context.Context, p RecommendationParams) (string, error) {
	return t.client.Generate(ctx, t.model, p.Prompt())
}

func (t *Tutor) GenerateFlashcards(ctx context.Context, p FlashcardParams) (string, error) {
	return t.client.Generate(ctx, t.model, p.Prompt())
}

func (t *Tutor) GenerateInteractiveElement(ctx context.Context, p InteractiveElementParams) (string, error) {
	return t.client.Generate(ctx, t.model, p.Prompt())
}
