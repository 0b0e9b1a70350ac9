package app

import (
	"sort"
	"time"

	"quizwiz/internal/domain"
)

// PassMark is the lowest score counted as a pass.
const PassMark = 60

// CountCorrect returns how many answers were correct.
func CountCorrect(answers []domain.UserAnswer) int {
	n := 0
	for _, a := range answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// Score is the percentage of correct answers over total, rounded half up.
// Unanswered questions are simply absent from answers. total must be positive.
func Score(answers []domain.UserAnswer, total int) int {
	return percent(CountCorrect(answers), total)
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

// TimeTaken returns whole seconds between start and end, never negative.
func TimeTaken(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// Passed reports whether score reaches the pass mark.
func Passed(score int) bool {
	return score >= PassMark
}

// Stats aggregates the stored history.
type Stats struct {
	Quizzes        int `json:"quizzes"`
	Passed         int `json:"passed"`
	BestScore      int `json:"bestScore"`
	AverageScore   int `json:"averageScore"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalQuestions int `json:"totalQuestions"`
	Accuracy       int `json:"accuracy"`
	TotalTime      int `json:"totalTime"`
}

// Summarize derives Stats from results.
func Summarize(results []domain.Result) Stats {
	var st Stats
	sum := 0
	for i, r := range results {
		st.Quizzes++
		sum += r.Score
		if i == 0 || r.Score > st.BestScore {
			st.BestScore = r.Score
		}
		if Passed(r.Score) {
			st.Passed++
		}
		st.CorrectAnswers += r.CorrectAnswers
		st.TotalQuestions += r.TotalQuestions
		st.TotalTime += r.TimeTaken
	}
	st.AverageScore = percent(sum, st.Quizzes*100)
	st.Accuracy = percent(st.CorrectAnswers, st.TotalQuestions)
	return st
}

// SortBy selects the leaderboard ordering.
type SortBy string

const (
	SortByScore SortBy = "score"
	SortByDate  SortBy = "date"
)

// ParseSortBy maps user input to a SortBy, defaulting to score.
func ParseSortBy(raw string) SortBy {
	if SortBy(raw) == SortByDate {
		return SortByDate
	}
	return SortByScore
}

// SortResults returns a sorted copy: by score descending, or by date newest first.
// Equal keys keep their stored order.
func SortResults(results []domain.Result, by SortBy) []domain.Result {
	out := append([]domain.Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		if by == SortByDate {
			return out[i].Date > out[j].Date
		}
		return out[i].Score > out[j].Score
	})
	return out
}
