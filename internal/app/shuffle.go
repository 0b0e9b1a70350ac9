package app

import (
	"math/rand"
	"sync"
	"time"

	"quizwiz/internal/domain"
)

// Shuffler produces the display order of a question's answer options.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler uses rnd, or a time-seeded source when rnd is nil.
func NewShuffler(rnd *rand.Rand) *Shuffler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Shuffler{rnd: rnd}
}

// OptionsFor returns the correct answer and every incorrect answer once each, in random order.
func (s *Shuffler) OptionsFor(q domain.Question) []string {
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	options = append(options, q.CorrectAnswer)
	options = append(options, q.IncorrectAnswers...)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(options) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
	return options
}
