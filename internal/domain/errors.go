package domain

import "errors"

var (
	// ErrInsufficientQuestions is returned when the source cannot supply the requested number of questions.
	ErrInsufficientQuestions = errors.New("not enough questions available for these settings, try different options")
	// ErrInvalidParameter indicates a settings value the question source (or validation) rejected.
	ErrInvalidParameter = errors.New("invalid quiz parameter")
	// ErrNetwork wraps transport failures while talking to the question source.
	ErrNetwork = errors.New("network error, check your connection and try again")
	// ErrUnknown covers any other question source failure.
	ErrUnknown = errors.New("failed to fetch questions")
	// ErrEmptyQuestionSet is returned when a session is loaded with zero questions.
	ErrEmptyQuestionSet = errors.New("no questions to load")
	// ErrIncompleteAnswers is returned by a regular submit while questions remain unanswered.
	ErrIncompleteAnswers = errors.New("all questions must be answered before submitting")
	// ErrPersistenceCorrupt marks a stored state record that could not be decoded.
	ErrPersistenceCorrupt = errors.New("persisted quiz state is corrupt")

	// ErrInvalidState is returned when an operation is not allowed in the session's current state.
	ErrInvalidState = errors.New("operation not allowed in current quiz state")
	// ErrQuestionOutOfRange indicates an answer for a question index the session does not have.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrStaleResponse is returned when a fetch completes after the session it belonged to was reset.
	ErrStaleResponse = errors.New("quiz was reset before questions arrived")
)
