// Package trivia talks to the Open Trivia DB HTTP API.
package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quizwiz/internal/domain"
)

const DefaultBaseURL = "https://opentdb.com"

// response codes documented by the API
const (
	codeSuccess          = 0
	codeNoResults        = 1
	codeInvalidParameter = 2
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a default with timeout.
func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type questionsResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []domain.Question `json:"results"`
}

type categoriesResponse struct {
	TriviaCategories []domain.Category `json:"trivia_categories"`
}

// QuestionsURL builds the api.php request for settings; "any" filters are left out.
func (c *Client) QuestionsURL(settings domain.Settings) string {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(settings.Amount))
	if settings.Category != domain.Any {
		q.Set("category", settings.Category)
	}
	if settings.Difficulty != domain.Any {
		q.Set("difficulty", settings.Difficulty)
	}
	if settings.Type != domain.Any {
		q.Set("type", settings.Type)
	}
	return c.baseURL + "/api.php?" + q.Encode()
}

// FetchQuestions returns exactly settings.Amount decoded questions or an error.
func (c *Client) FetchQuestions(ctx context.Context, settings domain.Settings) ([]domain.Question, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	var resp questionsResponse
	if err := c.getJSON(ctx, c.QuestionsURL(settings), &resp); err != nil {
		return nil, err
	}

	switch resp.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		return nil, domain.ErrInsufficientQuestions
	case codeInvalidParameter:
		return nil, domain.ErrInvalidParameter
	default:
		return nil, fmt.Errorf("%w: response code %d", domain.ErrUnknown, resp.ResponseCode)
	}
	if len(resp.Results) < settings.Amount {
		return nil, fmt.Errorf("%w: got %d of %d", domain.ErrInsufficientQuestions, len(resp.Results), settings.Amount)
	}

	out := make([]domain.Question, settings.Amount)
	for i := range out {
		out[i] = resp.Results[i].Decoded()
	}
	return out, nil
}

// LoadCategories lists the categories the API knows about.
func (c *Client) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	var resp categoriesResponse
	if err := c.getJSON(ctx, c.baseURL+"/api_category.php", &resp); err != nil {
		return nil, err
	}
	for i := range resp.TriviaCategories {
		resp.TriviaCategories[i] = resp.TriviaCategories[i].Decoded()
	}
	return resp.TriviaCategories, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return fmt.Errorf("%w: status %d", domain.ErrNetwork, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUnknown, err)
	}
	return nil
}
