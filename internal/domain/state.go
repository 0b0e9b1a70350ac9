package domain

import (
	"encoding/json"
	"fmt"
)

// StorageKey names the single persisted record.
const StorageKey = "quiz-storage"

// MaxResults bounds the stored history; older results are dropped.
const MaxResults = 10

// State is everything that survives a restart: the last used settings and the recent results,
// most recent first.
type State struct {
	Settings Settings `json:"settings"`
	Results  []Result `json:"results"`
}

func DefaultState() State {
	return State{Settings: DefaultSettings(), Results: []Result{}}
}

// WithResult returns a copy with r prepended and the history truncated to MaxResults.
func (s State) WithResult(r Result) State {
	n := len(s.Results) + 1
	if n > MaxResults {
		n = MaxResults
	}
	results := make([]Result, 0, n)
	results = append(results, r)
	for _, prev := range s.Results {
		if len(results) == n {
			break
		}
		results = append(results, prev)
	}
	return State{Settings: s.Settings, Results: results}
}

// WithSettings returns a copy carrying settings.
func (s State) WithSettings(settings Settings) State {
	return State{Settings: settings, Results: append([]Result(nil), s.Results...)}
}

// EncodeState serializes the persisted fields.
func EncodeState(s State) ([]byte, error) {
	if s.Results == nil {
		s.Results = []Result{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

// DecodeState parses a stored record. Malformed input or invalid settings yield ErrPersistenceCorrupt.
func DecodeState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultState(), fmt.Errorf("%w: %v", ErrPersistenceCorrupt, err)
	}
	if err := s.Settings.Validate(); err != nil {
		return DefaultState(), fmt.Errorf("%w: %v", ErrPersistenceCorrupt, err)
	}
	if s.Results == nil {
		s.Results = []Result{}
	}
	if len(s.Results) > MaxResults {
		s.Results = s.Results[:MaxResults]
	}
	return s, nil
}
