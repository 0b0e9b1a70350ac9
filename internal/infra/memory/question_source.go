package memory

import (
	"context"
	"fmt"

	"quizwiz/internal/domain"
)

// StaticQuestionSource serves questions from an in-memory bank (useful for tests/offline play).
type StaticQuestionSource struct {
	bank []domain.Question
}

func NewStaticQuestionSource(bank []domain.Question) *StaticQuestionSource {
	return &StaticQuestionSource{bank: bank}
}

// FetchQuestions returns the first settings.Amount bank questions matching the filters,
// decoded, or ErrInsufficientQuestions when the bank cannot fill the batch.
func (s *StaticQuestionSource) FetchQuestions(ctx context.Context, settings domain.Settings) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	category := ""
	if settings.Category != domain.Any {
		category = domain.CategoryLabel(settings.Category, nil)
	}

	out := make([]domain.Question, 0, settings.Amount)
	for _, raw := range s.bank {
		q := raw.Decoded()
		if category != "" && q.Category != category {
			continue
		}
		if settings.Difficulty != domain.Any && q.Difficulty != settings.Difficulty {
			continue
		}
		if settings.Type != domain.Any && q.Type != settings.Type {
			continue
		}
		out = append(out, q)
		if len(out) == settings.Amount {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %d of %d available", domain.ErrInsufficientQuestions, len(out), settings.Amount)
}

// SampleQuestions is a small offline bank; swap in the trivia API source for real play.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{Category: "General Knowledge", Type: domain.TypeMultiple, Difficulty: domain.DifficultyEasy,
			Text: "What is the capital of France?", CorrectAnswer: "Paris",
			IncorrectAnswers: []string{"Lyon", "Marseille", "Nice"}},
		{Category: "General Knowledge", Type: domain.TypeBoolean, Difficulty: domain.DifficultyEasy,
			Text: "The Great Wall of China is visible from the Moon with the naked eye.", CorrectAnswer: "False",
			IncorrectAnswers: []string{"True"}},
		{Category: "Computers", Type: domain.TypeMultiple, Difficulty: domain.DifficultyEasy,
			Text: "What does &quot;CPU&quot; stand for?", CorrectAnswer: "Central Processing Unit",
			IncorrectAnswers: []string{"Central Process Unit", "Computer Personal Unit", "Central Processor Unit"}},
		{Category: "Computers", Type: domain.TypeMultiple, Difficulty: domain.DifficultyMedium,
			Text: "Which language was created at Google and released in 2009?", CorrectAnswer: "Go",
			IncorrectAnswers: []string{"Rust", "Kotlin", "Swift"}},
		{Category: "Computers", Type: domain.TypeBoolean, Difficulty: domain.DifficultyMedium,
			Text: "HTML stands for &quot;HyperText Markup Language&quot;.", CorrectAnswer: "True",
			IncorrectAnswers: []string{"False"}},
		{Category: "Science &amp; Nature", Type: domain.TypeMultiple, Difficulty: domain.DifficultyEasy,
			Text: "What is the chemical symbol for gold?", CorrectAnswer: "Au",
			IncorrectAnswers: []string{"Ag", "Gd", "Go"}},
		{Category: "Science &amp; Nature", Type: domain.TypeMultiple, Difficulty: domain.DifficultyHard,
			Text: "What is the half-life of Carbon-14, in years (approximately)?", CorrectAnswer: "5,730",
			IncorrectAnswers: []string{"1,620", "12,400", "50,000"}},
		{Category: "Mathematics", Type: domain.TypeMultiple, Difficulty: domain.DifficultyMedium,
			Text: "What is the square root of 144?", CorrectAnswer: "12",
			IncorrectAnswers: []string{"11", "14", "16"}},
		{Category: "Mathematics", Type: domain.TypeBoolean, Difficulty: domain.DifficultyEasy,
			Text: "Pi is a rational number.", CorrectAnswer: "False",
			IncorrectAnswers: []string{"True"}},
		{Category: "History", Type: domain.TypeMultiple, Difficulty: domain.DifficultyMedium,
			Text: "In which year did the Berlin Wall fall?", CorrectAnswer: "1989",
			IncorrectAnswers: []string{"1987", "1991", "1985"}},
		{Category: "Geography", Type: domain.TypeMultiple, Difficulty: domain.DifficultyEasy,
			Text: "Which is the longest river in the world?", CorrectAnswer: "Nile",
			IncorrectAnswers: []string{"Amazon", "Yangtze", "Mississippi"}},
		{Category: "Geography", Type: domain.TypeBoolean, Difficulty: domain.DifficultyHard,
			Text: "Canberra is the capital of Australia.", CorrectAnswer: "True",
			IncorrectAnswers: []string{"False"}},
	}
}
