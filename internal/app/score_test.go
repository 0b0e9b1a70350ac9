package app

import (
	"testing"
	"time"

	"quizwiz/internal/domain"
)

func answers(correct, incorrect int) []domain.UserAnswer {
	out := make([]domain.UserAnswer, 0, correct+incorrect)
	for i := 0; i < correct; i++ {
		out = append(out, domain.UserAnswer{QuestionIndex: len(out), IsCorrect: true})
	}
	for i := 0; i < incorrect; i++ {
		out = append(out, domain.UserAnswer{QuestionIndex: len(out)})
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		answers []domain.UserAnswer
		total   int
		want    int
	}{
		{"three of five", answers(3, 2), 5, 60},
		{"none", nil, 4, 0},
		{"all", answers(4, 0), 4, 100},
		{"rounds half up", answers(1, 7), 8, 13},
		{"rounds down", answers(1, 2), 3, 33},
		{"two thirds", answers(2, 1), 3, 67},
		{"unanswered count as wrong", answers(4, 0), 10, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.answers, tt.total); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTimeTaken(t *testing.T) {
	tests := []struct {
		name       string
		start, end int64
		want       int
	}{
		{"floors fractional seconds", 1000, 4500, 3},
		{"zero", 1000, 1000, 0},
		{"clock skew clamps", 5000, 1000, 0},
		{"minutes", 0, 125_999, 125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeTaken(time.UnixMilli(tt.start), time.UnixMilli(tt.end)); got != tt.want {
				t.Errorf("TimeTaken() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []domain.Result{
		{Score: 80, CorrectAnswers: 8, TotalQuestions: 10, TimeTaken: 100},
		{Score: 40, CorrectAnswers: 2, TotalQuestions: 5, TimeTaken: 50},
		{Score: 60, CorrectAnswers: 3, TotalQuestions: 5, TimeTaken: 30},
	}
	st := Summarize(results)
	if st.Quizzes != 3 || st.Passed != 2 || st.BestScore != 80 || st.AverageScore != 60 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.CorrectAnswers != 13 || st.TotalQuestions != 20 || st.Accuracy != 65 || st.TotalTime != 180 {
		t.Fatalf("unexpected totals %+v", st)
	}

	if empty := Summarize(nil); empty != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestSortResults(t *testing.T) {
	results := []domain.Result{
		{Score: 50, Date: "2024-03-01 10:00:00"},
		{Score: 90, Date: "2024-01-01 10:00:00"},
		{Score: 70, Date: "2024-02-01 10:00:00"},
	}

	byScore := SortResults(results, SortByScore)
	if byScore[0].Score != 90 || byScore[1].Score != 70 || byScore[2].Score != 50 {
		t.Fatalf("unexpected score order %+v", byScore)
	}
	byDate := SortResults(results, ParseSortBy("date"))
	if byDate[0].Date != "2024-03-01 10:00:00" || byDate[2].Date != "2024-01-01 10:00:00" {
		t.Fatalf("unexpected date order %+v", byDate)
	}
	if results[0].Score != 50 {
		t.Fatalf("input slice must not be reordered")
	}
	if ParseSortBy("bogus") != SortByScore {
		t.Fatalf("unknown sort should default to score")
	}
}
