// Package i18n localizes the messages shown to players.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"quizwiz/internal/domain"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var bundle *i18n.Bundle

// Init loads the translation bundle with lang as the default language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}
	bundle = b
	return nil
}

// NewLocalizer creates a localizer preferring langs in order.
func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, langs...)
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

func localizerFromCtx(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(ctxKey{}).(*i18n.Localizer); ok {
		return loc
	}
	return i18n.NewLocalizer(bundle, "en")
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	return Td(ctx, msgID, nil)
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	if bundle == nil {
		return msgID
	}
	s, err := localizerFromCtx(ctx).Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Tp translates a pluralized message by ID.
func Tp(ctx context.Context, msgID string, count int) string {
	if bundle == nil {
		return msgID
	}
	s, err := localizerFromCtx(ctx).Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

var errorCodes = []struct {
	err   error
	code  string
	msgID string
}{
	{domain.ErrInsufficientQuestions, "insufficient_questions", "ErrorInsufficientQuestions"},
	{domain.ErrInvalidParameter, "invalid_parameter", "ErrorInvalidParameter"},
	{domain.ErrNetwork, "network", "ErrorNetwork"},
	{domain.ErrEmptyQuestionSet, "empty_question_set", "ErrorEmptyQuestionSet"},
	{domain.ErrIncompleteAnswers, "incomplete_answers", "ErrorIncompleteAnswers"},
	{domain.ErrQuestionOutOfRange, "question_out_of_range", "ErrorQuestionOutOfRange"},
	{domain.ErrInvalidState, "invalid_state", "ErrorInvalidState"},
	{domain.ErrStaleResponse, "stale_response", "ErrorStaleResponse"},
	{domain.ErrPersistenceCorrupt, "persistence_corrupt", "ErrorPersistenceCorrupt"},
	{domain.ErrUnknown, "unknown", "ErrorUnknown"},
}

// Error maps err to a stable code and a localized, player-facing message.
func Error(ctx context.Context, err error) (code, message string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code, T(ctx, e.msgID)
		}
	}
	return "unknown", T(ctx, "ErrorUnknown")
}
