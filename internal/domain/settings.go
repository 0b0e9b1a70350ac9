package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// MaxAmount is the largest batch the trivia API serves in one request.
const MaxAmount = 50

// Settings configures the next quiz attempt. Fields set to Any apply no filter.
type Settings struct {
	Amount     int    `json:"amount"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
}

// DefaultSettings is used on first start and whenever stored settings cannot be read.
func DefaultSettings() Settings {
	return Settings{
		Amount:     10,
		Category:   Any,
		Difficulty: Any,
		Type:       Any,
	}
}

// Validate reports the first field outside its allowed range.
func (s Settings) Validate() error {
	if s.Amount < 1 || s.Amount > MaxAmount {
		return fmt.Errorf("%w: amount must be between 1 and %d, got %d", ErrInvalidParameter, MaxAmount, s.Amount)
	}
	if s.Category != Any {
		id, err := strconv.Atoi(s.Category)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: category %q", ErrInvalidParameter, s.Category)
		}
	}
	switch s.Difficulty {
	case Any, DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: difficulty %q", ErrInvalidParameter, s.Difficulty)
	}
	switch s.Type {
	case Any, TypeMultiple, TypeBoolean:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidParameter, s.Type)
	}
	return nil
}

// SettingsUpdate is a partial settings change. Nil fields are left untouched.
type SettingsUpdate struct {
	Amount     *int    `json:"amount,omitempty"`
	Category   *string `json:"category,omitempty"`
	Difficulty *string `json:"difficulty,omitempty"`
	Type       *string `json:"type,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u SettingsUpdate) IsEmpty() bool {
	return u.Amount == nil && u.Category == nil && u.Difficulty == nil && u.Type == nil
}

// Merge applies u field by field and validates the outcome. The receiver is not modified.
func (s Settings) Merge(u SettingsUpdate) (Settings, error) {
	out := s
	if u.Amount != nil {
		out.Amount = *u.Amount
	}
	if u.Category != nil {
		out.Category = *u.Category
	}
	if u.Difficulty != nil {
		out.Difficulty = *u.Difficulty
	}
	if u.Type != nil {
		out.Type = *u.Type
	}
	if err := out.Validate(); err != nil {
		return s, err
	}
	return out, nil
}

// DecodeSettingsUpdate parses a JSON partial update, rejecting fields other than
// amount, category, difficulty and type.
func DecodeSettingsUpdate(r io.Reader) (SettingsUpdate, error) {
	var u SettingsUpdate
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		return SettingsUpdate{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return u, nil
}

// builtinCategories mirrors the Open Trivia DB category table.
var builtinCategories = map[string]string{
	"9":  "General Knowledge",
	"10": "Books",
	"11": "Film",
	"12": "Music",
	"13": "Musicals & Theatre",
	"14": "Television",
	"15": "Video Games",
	"16": "Board Games",
	"17": "Science & Nature",
	"18": "Computers",
	"19": "Mathematics",
	"20": "Mythology",
	"21": "Sports",
	"22": "Geography",
	"23": "History",
	"24": "Politics",
	"25": "Art",
	"26": "Celebrities",
	"27": "Animals",
	"28": "Vehicles",
	"29": "Comics",
	"30": "Gadgets",
	"31": "Anime & Manga",
	"32": "Cartoon & Animation",
}

// MixedLabel is shown for a result whose category or difficulty was not filtered.
const MixedLabel = "Mixed"

// CategoryLabel resolves a category id to a display name, preferring the fetched list.
func CategoryLabel(id string, known []Category) string {
	if id == Any || id == "" {
		return MixedLabel
	}
	for _, c := range known {
		if strconv.Itoa(c.ID) == id {
			return c.Name
		}
	}
	if name, ok := builtinCategories[id]; ok {
		return name
	}
	return "Any Category"
}

// DifficultyLabel returns the display label of a difficulty filter.
func DifficultyLabel(d string) string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return MixedLabel
	}
}

// BuiltinCategories returns the Open Trivia DB categories ordered by id.
func BuiltinCategories() []Category {
	out := make([]Category, 0, len(builtinCategories))
	for id, name := range builtinCategories {
		n, _ := strconv.Atoi(id)
		out = append(out, Category{ID: n, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
