package usecase_admin

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/burningsawals/core/internal/model"
)

type Gateway interface {
	QuestionTypes(ctx context.Context) ([]model.QuestionType, error)
	CreateQuestionType(ctx context.Context, name string) (model.QuestionType, error)
	RenameQuestionType(ctx context.Context, id int64, name string) error
	DeleteQuestionType(ctx context.Context, id int64) error
	AddGenresToQuestionType(ctx context.Context, id int64, genreIDs []int64) error
	RemoveGenresFromQuestionType(ctx context.Context, id int64, genreIDs []int64) error

	Genres(ctx context.Context) ([]model.Genre, error)
	CreateGenre(ctx context.Context, name string, typeID int64) (model.Genre, error)
	RenameGenre(ctx context.Context, id int64, name string) error
	DeleteGenre(ctx context.Context, id int64) error

	Questions(ctx context.Context) ([]model.Question, error)
	CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error)
	UpdateQuestion(ctx context.Context, id int64, in model.QuestionInput) (model.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

// Result reports one CRUD attempt. Field names the offending form field for
// validation failures caught before any network call.
type Result struct {
	Success bool
	Message string
	Field   string
}

func ok() Result {
	return Result{Success: true}
}

func fieldError(field, message string) Result {
	return Result{Success: false, Message: message, Field: field}
}

func genericError() Result {
	return Result{Success: false, Message: "operation failed, try again"}
}

// Session holds the admin's working copy of the catalog. Lists change only
// after the backend confirms: create appends, rename rewrites display
// fields, delete removes. Orphaned relations are the backend's problem.
type Session struct {
	gateway Gateway
	logger  *slog.Logger

	mu        sync.Mutex
	types     []model.QuestionType
	genres    []model.Genre
	questions []model.Question
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

// LoadCatalog refreshes all three lists from the backend.
func (s *Session) LoadCatalog(ctx context.Context) error {
	types, err := s.gateway.QuestionTypes(ctx)
	if err != nil {
		return err
	}
	genres, err := s.gateway.Genres(ctx)
	if err != nil {
		return err
	}
	questions, err := s.gateway.Questions(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.types = types
	s.genres = genres
	s.questions = questions
	s.mu.Unlock()
	return nil
}

// Question types.

func (s *Session) CreateQuestionType(ctx context.Context, name string) Result {
	if strings.TrimSpace(name) == "" {
		return fieldError("type_name", "type name is required")
	}

	qt, err := s.gateway.CreateQuestionType(ctx, name)
	if err != nil {
		s.logger.Warn("create question type failed", slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	s.types = append(s.types, qt)
	s.mu.Unlock()
	return ok()
}

func (s *Session) RenameQuestionType(ctx context.Context, id int64, name string) Result {
	if strings.TrimSpace(name) == "" {
		return fieldError("type_name", "type name is required")
	}

	if err := s.gateway.RenameQuestionType(ctx, id, name); err != nil {
		s.logger.Warn("rename question type failed", slog.Int64("type_id", id), slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	for i := range s.types {
		if s.types[i].TypeID == id {
			s.types[i].TypeName = name
			break
		}
	}
	s.mu.Unlock()
	return ok()
}

func (s *Session) DeleteQuestionType(ctx context.Context, id int64) Result {
	if err := s.gateway.DeleteQuestionType(ctx, id); err != nil {
		s.logger.Warn("delete question type failed", slog.Int64("type_id", id), slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	for i := range s.types {
		if s.types[i].TypeID == id {
			s.types = append(s.types[:i], s.types[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return ok()
}

func (s *Session) AddGenresToQuestionType(ctx context.Context, id int64, genreIDs []int64) Result {
	if len(genreIDs) == 0 {
		return fieldError("genre_ids", "select at least one genre")
	}
	if err := s.gateway.AddGenresToQuestionType(ctx, id, genreIDs); err != nil {
		s.logger.Warn("add genres to type failed", slog.Int64("type_id", id), slog.String("error", err.Error()))
		return genericError()
	}
	return ok()
}

func (s *Session) RemoveGenresFromQuestionType(ctx context.Context, id int64, genreIDs []int64) Result {
	if len(genreIDs) == 0 {
		return fieldError("genre_ids", "select at least one genre")
	}
	if err := s.gateway.RemoveGenresFromQuestionType(ctx, id, genreIDs); err != nil {
		s.logger.Warn("remove genres from type failed", slog.Int64("type_id", id), slog.String("error", err.Error()))
		return genericError()
	}
	return ok()
}

// Genres.

func (s *Session) CreateGenre(ctx context.Context, name string, typeID int64) Result {
	if strings.TrimSpace(name) == "" {
		return fieldError("name", "genre name is required")
	}
	if typeID == 0 {
		return fieldError("type_id", "question type is required")
	}

	g, err := s.gateway.CreateGenre(ctx, name, typeID)
	if err != nil {
		s.logger.Warn("create genre failed", slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	s.genres = append(s.genres, g)
	s.mu.Unlock()
	return ok()
}

func (s *Session) RenameGenre(ctx context.Context, id int64, name string) Result {
	if strings.TrimSpace(name) == "" {
		return fieldError("name", "genre name is required")
	}

	if err := s.gateway.RenameGenre(ctx, id, name); err != nil {
		s.logger.Warn("rename genre failed", slog.Int64("genre_id", id), slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	for i := range s.genres {
		if s.genres[i].GenreID == id {
			s.genres[i].Name = name
			break
		}
	}
	s.mu.Unlock()
	return ok()
}

func (s *Session) DeleteGenre(ctx context.Context, id int64) Result {
	if err := s.gateway.DeleteGenre(ctx, id); err != nil {
		s.logger.Warn("delete genre failed", slog.Int64("genre_id", id), slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	for i := range s.genres {
		if s.genres[i].GenreID == id {
			s.genres = append(s.genres[:i], s.genres[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return ok()
}

// Questions.

func validateQuestion(in model.QuestionInput) (Result, bool) {
	if strings.TrimSpace(in.Question) == "" {
		return fieldError("question", "question text is required"), false
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return fieldError("prompt", "prompt is required"), false
	}
	if len(in.GenreIDs) == 0 {
		return fieldError("genre_ids", "select at least one genre"), false
	}
	return Result{}, true
}

func (s *Session) CreateQuestion(ctx context.Context, in model.QuestionInput) Result {
	if res, valid := validateQuestion(in); !valid {
		return res
	}

	q, err := s.gateway.CreateQuestion(ctx, in)
	if err != nil {
		s.logger.Warn("create question failed", slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	s.questions = append(s.questions, q)
	s.mu.Unlock()
	return ok()
}

func (s *Session) UpdateQuestion(ctx context.Context, id int64, in model.QuestionInput) Result {
	if res, valid := validateQuestion(in); !valid {
		return res
	}

	q, err := s.gateway.UpdateQuestion(ctx, id, in)
	if err != nil {
		s.logger.Warn("update question failed", slog.Int64("question_id", id), slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	for i := range s.questions {
		if s.questions[i].QuestionID == id {
			s.questions[i] = q
			break
		}
	}
	s.mu.Unlock()
	return ok()
}

func (s *Session) DeleteQuestion(ctx context.Context, id int64) Result {
	if err := s.gateway.DeleteQuestion(ctx, id); err != nil {
		s.logger.Warn("delete question failed", slog.Int64("question_id", id), slog.String("error", err.Error()))
		return genericError()
	}

	s.mu.Lock()
	for i := range s.questions {
		if s.questions[i].QuestionID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return ok()
}

// Snapshots for rendering.

func (s *Session) Types() []model.QuestionType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types
}

func (s *Session) GenreList() []model.Genre {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.genres
}

func (s *Session) QuestionList() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}
