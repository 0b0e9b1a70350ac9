package app

import (
	"fmt"
	"sort"
	"time"

	"quizwiz/internal/domain"
)

// State is the lifecycle position of a Session.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// Session is the state of one quiz attempt. It is not safe for concurrent use;
// QuizService serializes access to it.
type Session struct {
	now func() time.Time

	state     State
	settings  domain.Settings
	questions []domain.Question
	current   int
	answers   map[int]domain.UserAnswer
	startTime time.Time
	endTime   time.Time
	forced    bool
}

// NewSession returns an idle session. now defaults to time.Now.
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		now:     now,
		state:   StateIdle,
		answers: make(map[int]domain.UserAnswer),
	}
}

func (s *Session) State() State                { return s.state }
func (s *Session) Settings() domain.Settings    { return s.settings }
func (s *Session) CurrentIndex() int            { return s.current }
func (s *Session) StartTime() time.Time         { return s.startTime }
func (s *Session) EndTime() time.Time           { return s.endTime }
func (s *Session) Len() int                     { return len(s.questions) }
func (s *Session) Forced() bool                 { return s.forced }
func (s *Session) Questions() []domain.Question { return append([]domain.Question(nil), s.questions...) }

// Question returns the question at i.
func (s *Session) Question(i int) (domain.Question, bool) {
	if i < 0 || i >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[i], true
}

// AnswerFor returns the recorded answer for question i, if any.
func (s *Session) AnswerFor(i int) (domain.UserAnswer, bool) {
	a, ok := s.answers[i]
	return a, ok
}

// Answers returns the recorded answers ordered by question index.
func (s *Session) Answers() []domain.UserAnswer {
	out := make([]domain.UserAnswer, 0, len(s.answers))
	for _, a := range s.answers {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionIndex < out[j].QuestionIndex })
	return out
}

// BeginLoading marks a fetch in flight.
func (s *Session) BeginLoading() error {
	if s.state != StateIdle {
		return fmt.Errorf("%w: cannot load from %s", domain.ErrInvalidState, s.state)
	}
	s.state = StateLoading
	return nil
}

// Load installs the fetched questions and starts the attempt.
func (s *Session) Load(settings domain.Settings, questions []domain.Question) error {
	if s.state != StateIdle && s.state != StateLoading {
		return fmt.Errorf("%w: cannot load from %s", domain.ErrInvalidState, s.state)
	}
	if len(questions) == 0 {
		return domain.ErrEmptyQuestionSet
	}
	s.settings = settings
	s.questions = append([]domain.Question(nil), questions...)
	s.current = 0
	s.answers = make(map[int]domain.UserAnswer, len(questions))
	s.startTime = s.now()
	s.endTime = time.Time{}
	s.forced = false
	s.state = StateActive
	return nil
}

// SelectAnswer records answer for question index, replacing any earlier answer for it.
func (s *Session) SelectAnswer(index int, answer string) (domain.UserAnswer, error) {
	if s.state != StateActive {
		return domain.UserAnswer{}, fmt.Errorf("%w: cannot answer while %s", domain.ErrInvalidState, s.state)
	}
	q, ok := s.Question(index)
	if !ok {
		return domain.UserAnswer{}, fmt.Errorf("%w: %d of %d", domain.ErrQuestionOutOfRange, index, len(s.questions))
	}
	ua := domain.UserAnswer{
		QuestionIndex: index,
		Answer:        answer,
		IsCorrect:     answer == q.CorrectAnswer,
	}
	s.answers[index] = ua
	return ua, nil
}

// Navigate moves one question in the direction of delta. A step past either
// end leaves the index unchanged.
func (s *Session) Navigate(delta int) int {
	if s.state != StateActive {
		return s.current
	}
	next := s.current
	switch {
	case delta < 0:
		next--
	case delta > 0:
		next++
	}
	if next >= 0 && next < len(s.questions) {
		s.current = next
	}
	return s.current
}

// Submit completes the attempt once every question has an answer.
func (s *Session) Submit() error {
	if s.state != StateActive {
		return fmt.Errorf("%w: cannot submit while %s", domain.ErrInvalidState, s.state)
	}
	if len(s.answers) < len(s.questions) {
		return fmt.Errorf("%w: %d of %d answered", domain.ErrIncompleteAnswers, len(s.answers), len(s.questions))
	}
	s.complete(false)
	return nil
}

// ForceSubmit completes the attempt regardless of unanswered questions.
func (s *Session) ForceSubmit() error {
	if s.state != StateActive {
		return fmt.Errorf("%w: cannot submit while %s", domain.ErrInvalidState, s.state)
	}
	s.complete(true)
	return nil
}

func (s *Session) complete(forced bool) {
	s.endTime = s.now()
	s.forced = forced
	s.state = StateCompleted
}

// Reset returns the session to idle and drops everything from the previous attempt.
func (s *Session) Reset() {
	s.state = StateIdle
	s.settings = domain.Settings{}
	s.questions = nil
	s.current = 0
	s.answers = make(map[int]domain.UserAnswer)
	s.startTime = time.Time{}
	s.endTime = time.Time{}
	s.forced = false
}

// Result summarizes a completed session. Category names are resolved against known.
func (s *Session) Result(known []domain.Category) (domain.Result, error) {
	if s.state != StateCompleted {
		return domain.Result{}, fmt.Errorf("%w: no result while %s", domain.ErrInvalidState, s.state)
	}
	answers := s.Answers()
	return domain.Result{
		TotalQuestions: len(s.questions),
		CorrectAnswers: CountCorrect(answers),
		Score:          Score(answers, len(s.questions)),
		TimeTaken:      TimeTaken(s.startTime, s.endTime),
		Date:           s.endTime.Format(domain.DateLayout),
		Category:       domain.CategoryLabel(s.settings.Category, known),
		Difficulty:     domain.DifficultyLabel(s.settings.Difficulty),
	}, nil
}
