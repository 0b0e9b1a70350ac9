package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quizwiz/internal/domain"
)

// QuestionSource fetches a complete, entity-decoded batch of questions matching settings.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, settings domain.Settings) ([]domain.Question, error)
}

// CategoryRepository lists the selectable categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Categories lists categories, degrading to an empty list when the repository fails.
func Categories(ctx context.Context, repo CategoryRepository) []domain.Category {
	if repo == nil {
		return []domain.Category{}
	}
	cats, err := repo.ListCategories(ctx)
	if err != nil {
		slog.Warn("category listing unavailable", "error", err)
		return []domain.Category{}
	}
	if cats == nil {
		return []domain.Category{}
	}
	return cats
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithClock replaces time.Now, mainly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithShuffler replaces the option shuffler, e.g. with a seeded one.
func WithShuffler(sh *Shuffler) Option {
	return func(s *QuizService) { s.shuffler = sh }
}

// WithPerQuestion sets the time allowance per question.
func WithPerQuestion(d time.Duration) Option {
	return func(s *QuizService) { s.perQuestion = d }
}

// WithTicker replaces the one-second ticker that drives the countdown.
func WithTicker(f TickerFunc) Option {
	return func(s *QuizService) { s.newTicker = f }
}

// WithCategories resolves category names for results.
func WithCategories(repo CategoryRepository) Option {
	return func(s *QuizService) { s.categories = repo }
}

// QuizService drives one player's quiz attempts: loading, answering, timing out,
// scoring and recording results in the shared history.
type QuizService struct {
	id          string
	source      QuestionSource
	history     *HistoryService
	categories  CategoryRepository
	now         func() time.Time
	shuffler    *Shuffler
	perQuestion time.Duration
	newTicker   TickerFunc

	mu          sync.Mutex
	session     *Session
	generation  uint64
	timer       *Timer
	cancelTimer context.CancelFunc
	options     map[int][]string
	known       []domain.Category
	result      *domain.Result
	subscribers map[chan domain.Event]struct{}
}

func NewQuizService(source QuestionSource, history *HistoryService, opts ...Option) *QuizService {
	s := &QuizService{
		id:          uuid.NewString(),
		source:      source,
		history:     history,
		now:         time.Now,
		perQuestion: DefaultPerQuestion,
		options:     make(map[int][]string),
		subscribers: make(map[chan domain.Event]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shuffler == nil {
		s.shuffler = NewShuffler(nil)
	}
	s.session = NewSession(s.now)
	return s
}

// ID identifies this service instance in logs.
func (s *QuizService) ID() string { return s.id }

// QuestionView is a question as presented to the player, without its answer key.
type QuestionView struct {
	Category   string   `json:"category"`
	Type       string   `json:"type"`
	Difficulty string   `json:"difficulty"`
	Text       string   `json:"question"`
	Options    []string `json:"options"`
}

// Snapshot is a read-only view of the current attempt.
type Snapshot struct {
	AttemptID string         `json:"attemptId"`
	State     State          `json:"state"`
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Answered  int            `json:"answered"`
	Question  *QuestionView  `json:"question,omitempty"`
	Selected  string         `json:"selected,omitempty"`
	Remaining int            `json:"remaining"`
	Warning   bool           `json:"warning"`
	Result    *domain.Result `json:"result,omitempty"`
}

// Start abandons any previous attempt and begins a new one with the stored settings.
// The fetch runs without holding the lock; if Reset or another Start happens meanwhile
// the fetched batch is discarded and ErrStaleResponse is returned.
func (s *QuizService) Start(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.resetLocked()
	if err := s.session.BeginLoading(); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	gen := s.generation
	settings := s.history.Settings()
	s.mu.Unlock()

	var (
		questions []domain.Question
		known     []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.source.FetchQuestions(gctx, settings)
		return err
	})
	if s.categories != nil && settings.Category != domain.Any {
		g.Go(func() error {
			known = Categories(gctx, s.categories)
			return nil
		})
	}
	fetchErr := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		slog.Info("discarding questions for abandoned attempt", "attempt", s.id)
		return Snapshot{}, domain.ErrStaleResponse
	}
	if fetchErr != nil {
		s.session.Reset()
		return Snapshot{}, fetchErr
	}
	if err := s.session.Load(settings, questions); err != nil {
		s.session.Reset()
		return Snapshot{}, err
	}
	s.known = known
	s.startTimerLocked(gen)
	slog.Info("quiz started", "attempt", s.id, "questions", len(questions),
		"category", settings.Category, "difficulty", settings.Difficulty, "type", settings.Type)
	return s.snapshotLocked(), nil
}

func (s *QuizService) startTimerLocked(gen uint64) {
	budget := time.Duration(s.session.Len()) * s.perQuestion
	timer := NewTimer(budget,
		func(t TimerTick) { s.onTick(gen, t) },
		func() { s.expire(gen) },
		s.newTicker,
	)
	ctx, cancel := context.WithCancel(context.Background())
	s.timer = timer
	s.cancelTimer = cancel
	go timer.Run(ctx)
}

func (s *QuizService) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

func (s *QuizService) onTick(gen uint64, t TimerTick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.session.State() != StateActive {
		return
	}
	s.broadcastLocked(domain.Event{Type: domain.EventTick, Remaining: t.Remaining, Warning: t.Warning})
}

// expire force-submits the attempt that started the timer, if it is still running.
func (s *QuizService) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.session.State() != StateActive {
		return
	}
	if err := s.session.ForceSubmit(); err != nil {
		return
	}
	slog.Info("quiz time expired", "attempt", s.id, "answered", len(s.session.Answers()), "questions", s.session.Len())
	if _, err := s.finishLocked(context.Background()); err != nil {
		slog.Error("record result after timeout", "attempt", s.id, "error", err)
	}
}

// Current returns the attempt as the player should see it now.
func (s *QuizService) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SelectAnswer records an answer for any question of the active attempt.
func (s *QuizService) SelectAnswer(index int, answer string) (domain.UserAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.SelectAnswer(index, answer)
}

// Navigate moves to the previous (-1) or next (+1) question.
func (s *QuizService) Navigate(delta int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Navigate(delta)
	return s.snapshotLocked()
}

// Submit completes the attempt; every question must be answered.
func (s *QuizService) Submit(ctx context.Context) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Submit(); err != nil {
		return domain.Result{}, err
	}
	return s.finishLocked(ctx)
}

// ForceSubmit completes the attempt, scoring unanswered questions as incorrect.
func (s *QuizService) ForceSubmit(ctx context.Context) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.ForceSubmit(); err != nil {
		return domain.Result{}, err
	}
	return s.finishLocked(ctx)
}

// finishLocked scores a just-completed session, records it and notifies subscribers.
// The result stays available even if persisting it fails.
func (s *QuizService) finishLocked(ctx context.Context) (domain.Result, error) {
	s.stopTimerLocked()
	result, err := s.session.Result(s.known)
	if err != nil {
		return domain.Result{}, err
	}
	s.result = &result
	s.broadcastLocked(domain.Event{Type: domain.EventCompleted, Forced: s.session.Forced(), Result: &result})
	slog.Info("quiz completed", "attempt", s.id, "score", result.Score,
		"correct", result.CorrectAnswers, "total", result.TotalQuestions, "forced", s.session.Forced())

	if err := s.history.RecordResult(ctx, result); err != nil {
		return result, err
	}
	return result, nil
}

// Result returns the result of the completed attempt.
func (s *QuizService) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}

// Reset abandons the current attempt. Pending fetches and timer ticks become no-ops.
func (s *QuizService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *QuizService) resetLocked() {
	s.stopTimerLocked()
	s.timer = nil
	s.generation++
	s.session.Reset()
	s.options = make(map[int][]string)
	s.known = nil
	s.result = nil
}

// Subscribe returns a channel of timer and completion events.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *QuizService) broadcastLocked(ev domain.Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow reader: drop the oldest event rather than block the timer.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func (s *QuizService) snapshotLocked() Snapshot {
	snap := Snapshot{
		AttemptID: s.id,
		State:     s.session.State(),
		Index:     s.session.CurrentIndex(),
		Total:     s.session.Len(),
		Answered:  len(s.session.Answers()),
		Result:    s.result,
	}
	if s.timer != nil {
		snap.Remaining = s.timer.Remaining()
		snap.Warning = s.timer.Warning()
	}
	if q, ok := s.session.Question(snap.Index); ok {
		snap.Question = &QuestionView{
			Category:   q.Category,
			Type:       q.Type,
			Difficulty: q.Difficulty,
			Text:       q.Text,
			Options:    s.optionsLocked(snap.Index, q),
		}
		if a, ok := s.session.AnswerFor(snap.Index); ok {
			snap.Selected = a.Answer
		}
	}
	return snap
}

// optionsLocked shuffles a question's options the first time it is shown and reuses
// that order for the rest of the attempt.
func (s *QuizService) optionsLocked(index int, q domain.Question) []string {
	opts, ok := s.options[index]
	if !ok {
		opts = s.shuffler.OptionsFor(q)
		s.options[index] = opts
	}
	return append([]string(nil), opts...)
}

// Active reports whether an attempt is loading or in progress.
func (s *QuizService) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.session.State()
	return st == StateLoading || st == StateActive
}

// SessionRepository keeps one QuizService per player so a reconnecting client resumes
// its running attempt.
type SessionRepository interface {
	GetOrCreate(playerID string) *QuizService
	Get(playerID string) (*QuizService, bool)
	DeleteIfIdle(playerID string)
}
