package domain

import (
	"html"
	"time"
)

// Question types and difficulties understood by the trivia API.
const (
	Any = "any"

	TypeMultiple = "multiple"
	TypeBoolean  = "boolean"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DateLayout is the timestamp format stored with every result.
const DateLayout = time.DateTime

// Question is a single trivia question as delivered by the question source.
type Question struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Decoded returns a copy with HTML entities decoded in the category, question text and every answer.
// Sources call it exactly once at ingestion. A second call is a no-op only when the
// payload was entity-encoded once; double-encoded text such as &amp;amp; loses another level.
func (q Question) Decoded() Question {
	out := q
	out.Category = html.UnescapeString(q.Category)
	out.Text = html.UnescapeString(q.Text)
	out.CorrectAnswer = html.UnescapeString(q.CorrectAnswer)
	out.IncorrectAnswers = make([]string, len(q.IncorrectAnswers))
	for i, a := range q.IncorrectAnswers {
		out.IncorrectAnswers[i] = html.UnescapeString(a)
	}
	return out
}

// UserAnswer is the answer recorded for one question of a session.
type UserAnswer struct {
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// Result summarizes a completed quiz attempt.
type Result struct {
	TotalQuestions int    `json:"totalQuestions"`
	CorrectAnswers int    `json:"correctAnswers"`
	Score          int    `json:"score"`
	TimeTaken      int    `json:"timeTaken"` // seconds
	Date           string `json:"date"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty"`
}

// Category is a selectable question category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c Category) Decoded() Category {
	c.Name = html.UnescapeString(c.Name)
	return c
}

// EventType identifies an Event pushed to quiz subscribers.
type EventType string

const (
	EventTick      EventType = "tick"
	EventCompleted EventType = "completed"
)

// Event is emitted by a running quiz: once per timer tick and once on completion.
type Event struct {
	Type      EventType `json:"type"`
	Remaining int       `json:"remaining,omitempty"`
	Warning   bool      `json:"warning,omitempty"`
	Forced    bool      `json:"forced,omitempty"`
	Result    *Result   `json:"result,omitempty"`
}
