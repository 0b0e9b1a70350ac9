package trivia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"quizwiz/internal/domain"
)

func TestQuestionsURLOmitsAnyFilters(t *testing.T) {
	c := New("https://example.test/", nil, 0)

	got := c.QuestionsURL(domain.DefaultSettings())
	if got != "https://example.test/api.php?amount=10" {
		t.Fatalf("unexpected url %s", got)
	}

	got = c.QuestionsURL(domain.Settings{Amount: 5, Category: "18", Difficulty: "hard", Type: "boolean"})
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("amount") != "5" || q.Get("category") != "18" || q.Get("difficulty") != "hard" || q.Get("type") != "boolean" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestFetchQuestions(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		amount  int
		want    int
		wantErr error
	}{
		{"ok", http.StatusOK, `{"response_code":0,"results":[` + sampleQuestion + `,` + sampleQuestion + `]}`, 2, 2, nil},
		{"no results", http.StatusOK, `{"response_code":1,"results":[]}`, 2, 0, domain.ErrInsufficientQuestions},
		{"invalid parameter", http.StatusOK, `{"response_code":2,"results":[]}`, 2, 0, domain.ErrInvalidParameter},
		{"token empty", http.StatusOK, `{"response_code":4,"results":[]}`, 2, 0, domain.ErrUnknown},
		{"short batch", http.StatusOK, `{"response_code":0,"results":[` + sampleQuestion + `]}`, 2, 0, domain.ErrInsufficientQuestions},
		{"server error", http.StatusInternalServerError, `oops`, 2, 0, domain.ErrNetwork},
		{"rate limited", http.StatusTooManyRequests, ``, 2, 0, domain.ErrNetwork},
		{"garbage", http.StatusOK, `<html>`, 2, 0, domain.ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api.php" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			settings := domain.DefaultSettings()
			settings.Amount = tt.amount
			qs, err := New(srv.URL, srv.Client(), 0).FetchQuestions(context.Background(), settings)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if qs != nil {
					t.Fatalf("failed fetch must not return questions")
				}
				return
			}
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if len(qs) != tt.want {
				t.Fatalf("expected %d questions, got %d", tt.want, len(qs))
			}
			if qs[0].Text != `Which "Star Wars" film came out first?` || qs[0].Category != "Entertainment: Film" {
				t.Fatalf("expected decoded question, got %+v", qs[0])
			}
			if qs[0].IncorrectAnswers[0] != "Attack of the Clones" {
				t.Fatalf("unexpected answers %+v", qs[0].IncorrectAnswers)
			}
		})
	}
}

func TestFetchQuestionsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(addr, nil, time.Second).FetchQuestions(context.Background(), domain.DefaultSettings())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestFetchQuestionsRejectsInvalidSettings(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client(), 0).FetchQuestions(context.Background(), domain.Settings{Amount: 0, Category: domain.Any, Difficulty: domain.Any, Type: domain.Any})
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if called {
		t.Fatalf("invalid settings must not reach the API")
	}
}

func TestLoadCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_category.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"trivia_categories":[{"id":9,"name":"General Knowledge"},{"id":17,"name":"Science &amp; Nature"}]}`))
	}))
	defer srv.Close()

	cats, err := New(srv.URL, srv.Client(), 0).LoadCategories(context.Background())
	if err != nil {
		t.Fatalf("load categories: %v", err)
	}
	if len(cats) != 2 || cats[1].ID != 17 || cats[1].Name != "Science & Nature" {
		t.Fatalf("unexpected categories %+v", cats)
	}
}

const sampleQuestion = `{"category":"Entertainment: Film","type":"multiple","difficulty":"easy",` +
	`"question":"Which &quot;Star Wars&quot; film came out first?","correct_answer":"A New Hope",` +
	`"incorrect_answers":["Attack of the Clones","Return of the Jedi","The Phantom Menace"]}`
