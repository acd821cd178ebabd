package usecase_browse

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/burningsawals/core/internal/model"
)

var (
	ErrTypesUnavailable = errors.New("unable to load question types")
	ErrUnknownType      = errors.New("no such question type")
)

type Gateway interface {
	QuestionTypes(ctx context.Context) ([]model.QuestionType, error)
	QuestionType(ctx context.Context, id int64) (model.QuestionType, error)
	QuestionsByGenre(ctx context.Context, genreID int64) ([]model.Question, error)
}

// Session drives the drill-down: question type -> genre -> question list,
// with a wrapping cursor over the loaded questions.
type Session struct {
	gateway Gateway
	logger  *slog.Logger

	mu             sync.Mutex
	types          []model.QuestionType
	selectedTypeID int64
	genres         []model.Genre
	selectedGenre  int64
	questions      []model.Question
	cursor         int

	// epoch guards against a stale question fetch resolving after the
	// selected genre already changed.
	epoch uint64
}

type SessionOption func(*Session)

func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

func New(gateway Gateway, opts ...SessionOption) *Session {
	s := &Session{
		gateway: gateway,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadQuestionTypes fetches and caches the full type list with nested genres.
func (s *Session) LoadQuestionTypes(ctx context.Context) ([]model.QuestionType, error) {
	types, err := s.gateway.QuestionTypes(ctx)
	if err != nil {
		return nil, errors.Join(ErrTypesUnavailable, err)
	}

	s.mu.Lock()
	s.types = types
	s.mu.Unlock()
	return types, nil
}

// SelectQuestionType swaps the active type and its genre list. The first
// genre is auto-selected when the type has one; questions are NOT fetched
// here, the caller follows up with SelectGenre.
func (s *Session) SelectQuestionType(ctx context.Context, id int64) error {
	s.mu.Lock()
	var qt *model.QuestionType
	for i := range s.types {
		if s.types[i].TypeID == id {
			qt = &s.types[i]
			break
		}
	}
	s.mu.Unlock()

	if qt == nil {
		fetched, err := s.gateway.QuestionType(ctx, id)
		if err != nil {
			return errors.Join(ErrUnknownType, err)
		}
		qt = &fetched
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTypeID = qt.TypeID
	s.genres = qt.Genres
	if len(qt.Genres) > 0 {
		s.selectedGenre = qt.Genres[0].GenreID
	} else {
		s.selectedGenre = 0
	}
	return nil
}

// SelectGenre fetches the genre's questions and resets the cursor. A fetch
// that resolves after the selection moved on is discarded. Fetch failures are
// swallowed into an empty list; the caller renders a "no questions"
// placeholder.
func (s *Session) SelectGenre(ctx context.Context, id int64) {
	s.mu.Lock()
	s.selectedGenre = id
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	questions, err := s.gateway.QuestionsByGenre(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.logger.Debug("discarding stale question fetch", slog.Int64("genre_id", id))
		return
	}
	if err != nil {
		s.logger.Warn("question fetch failed", slog.Int64("genre_id", id), slog.String("error", err.Error()))
		s.questions = nil
		s.cursor = 0
		return
	}
	s.questions = questions
	s.cursor = 0
}

// Next advances the cursor with wraparound. No-op on an empty list.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		return
	}
	s.cursor = (s.cursor + 1) % len(s.questions)
}

// Prev retreats the cursor with wraparound. No-op on an empty list.
func (s *Session) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		return
	}
	s.cursor = (s.cursor - 1 + len(s.questions)) % len(s.questions)
}

// CurrentQuestion returns the card under the cursor, or model.EmptyQuestion
// when no questions are loaded.
func (s *Session) CurrentQuestion() model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		return model.EmptyQuestion
	}
	return s.questions[s.cursor]
}

func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *Session) Questions() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

func (s *Session) Genres() []model.Genre {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.genres
}

func (s *Session) SelectedTypeID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTypeID
}

func (s *Session) SelectedGenreID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedGenre
}
