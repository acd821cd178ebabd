package usecase_admin

import (
	"context"
	"errors"
	"testing"

	"github.com/burningsawals/core/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type UsecaseAdminUnitSuite struct {
	suite.Suite
}

// fakeAdminGateway answers from fixed fixtures and counts network calls so
// tests can assert local validation short-circuits.
type fakeAdminGateway struct {
	calls int
	err   error

	nextTypeID     int64
	nextGenreID    int64
	nextQuestionID int64
}

func newFakeAdminGateway() *fakeAdminGateway {
	return &fakeAdminGateway{nextTypeID: 100, nextGenreID: 200, nextQuestionID: 300}
}

func (f *fakeAdminGateway) QuestionTypes(_ context.Context) ([]model.QuestionType, error) {
	f.calls++
	return []model.QuestionType{{TypeID: 1, TypeName: "icebreakers"}}, f.err
}

func (f *fakeAdminGateway) CreateQuestionType(_ context.Context, name string) (model.QuestionType, error) {
	f.calls++
	if f.err != nil {
		return model.QuestionType{}, f.err
	}
	f.nextTypeID++
	return model.QuestionType{TypeID: f.nextTypeID, TypeName: name}, nil
}

func (f *fakeAdminGateway) RenameQuestionType(_ context.Context, _ int64, _ string) error {
	f.calls++
	return f.err
}

func (f *fakeAdminGateway) DeleteQuestionType(_ context.Context, _ int64) error {
	f.calls++
	return f.err
}

func (f *fakeAdminGateway) AddGenresToQuestionType(_ context.Context, _ int64, _ []int64) error {
	f.calls++
	return f.err
}

func (f *fakeAdminGateway) RemoveGenresFromQuestionType(_ context.Context, _ int64, _ []int64) error {
	f.calls++
	return f.err
}

func (f *fakeAdminGateway) Genres(_ context.Context) ([]model.Genre, error) {
	f.calls++
	return []model.Genre{{GenreID: 10, Name: "travel", TypeID: 1}}, f.err
}

func (f *fakeAdminGateway) CreateGenre(_ context.Context, name string, typeID int64) (model.Genre, error) {
	f.calls++
	if f.err != nil {
		return model.Genre{}, f.err
	}
	f.nextGenreID++
	return model.Genre{GenreID: f.nextGenreID, Name: name, TypeID: typeID}, nil
}

func (f *fakeAdminGateway) RenameGenre(_ context.Context, _ int64, _ string) error {
	f.calls++
	return f.err
}

func (f *fakeAdminGateway) DeleteGenre(_ context.Context, _ int64) error {
	f.calls++
	return f.err
}

func (f *fakeAdminGateway) Questions(_ context.Context) ([]model.Question, error) {
	f.calls++
	return []model.Question{{QuestionID: 30, Question: "q", Prompt: "p", GenreIDs: []int64{10}}}, f.err
}

func (f *fakeAdminGateway) CreateQuestion(_ context.Context, in model.QuestionInput) (model.Question, error) {
	f.calls++
	if f.err != nil {
		return model.Question{}, f.err
	}
	f.nextQuestionID++
	return model.Question{QuestionID: f.nextQuestionID, Question: in.Question, Prompt: in.Prompt, GenreIDs: in.GenreIDs}, nil
}

func (f *fakeAdminGateway) UpdateQuestion(_ context.Context, id int64, in model.QuestionInput) (model.Question, error) {
	f.calls++
	if f.err != nil {
		return model.Question{}, f.err
	}
	return model.Question{QuestionID: id, Question: in.Question, Prompt: in.Prompt, GenreIDs: in.GenreIDs}, nil
}

func (f *fakeAdminGateway) DeleteQuestion(_ context.Context, _ int64) error {
	f.calls++
	return f.err
}

func loadedSession(t provider.T) (*Session, *fakeAdminGateway) {
	gateway := newFakeAdminGateway()
	s := New(gateway)
	assert.NoError(t, s.LoadCatalog(context.Background()))
	gateway.calls = 0
	return s, gateway
}

func validQuestionInput() model.QuestionInput {
	return model.QuestionInput{Question: "what is your dream trip", Prompt: "think big", GenreIDs: []int64{10}}
}

func (suite *UsecaseAdminUnitSuite) TestValidationShortCircuits(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		run           func(s *Session) Result
		expectedField string
	}{
		{
			name:          "Should reject a blank type name",
			run:           func(s *Session) Result { return s.CreateQuestionType(context.Background(), "  ") },
			expectedField: "type_name",
		},
		{
			name:          "Should reject a blank genre name",
			run:           func(s *Session) Result { return s.CreateGenre(context.Background(), "", 1) },
			expectedField: "name",
		},
		{
			name:          "Should reject a genre without a type",
			run:           func(s *Session) Result { return s.CreateGenre(context.Background(), "travel", 0) },
			expectedField: "type_id",
		},
		{
			name: "Should reject a question without text",
			run: func(s *Session) Result {
				in := validQuestionInput()
				in.Question = ""
				return s.CreateQuestion(context.Background(), in)
			},
			expectedField: "question",
		},
		{
			name: "Should reject a question without a prompt",
			run: func(s *Session) Result {
				in := validQuestionInput()
				in.Prompt = " "
				return s.CreateQuestion(context.Background(), in)
			},
			expectedField: "prompt",
		},
		{
			name: "Should reject a question without genres",
			run: func(s *Session) Result {
				in := validQuestionInput()
				in.GenreIDs = nil
				return s.CreateQuestion(context.Background(), in)
			},
			expectedField: "genre_ids",
		},
		{
			name: "Should reject an empty genre link set",
			run: func(s *Session) Result {
				return s.AddGenresToQuestionType(context.Background(), 1, nil)
			},
			expectedField: "genre_ids",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			s, gateway := loadedSession(t)

			res := tc.run(s)

			assert.False(t, res.Success)
			assert.Equal(t, tc.expectedField, res.Field)
			assert.Zero(t, gateway.calls)
		})
	}
}

func (suite *UsecaseAdminUnitSuite) TestQuestionTypeLifecycle(t provider.T) {
	t.Parallel()

	t.Run("Should append a created type to the local list", func(t provider.T) {
		t.Parallel()
		s, _ := loadedSession(t)

		res := s.CreateQuestionType(context.Background(), "deep talk")

		assert.True(t, res.Success)
		types := s.Types()
		assert.Len(t, types, 2)
		assert.Equal(t, "deep talk", types[1].TypeName)
	})

	t.Run("Should rewrite the display name after a confirmed rename", func(t provider.T) {
		t.Parallel()
		s, _ := loadedSession(t)

		res := s.RenameQuestionType(context.Background(), 1, "warm-ups")

		assert.True(t, res.Success)
		assert.Equal(t, "warm-ups", s.Types()[0].TypeName)
	})

	t.Run("Should drop a deleted type from the local list", func(t provider.T) {
		t.Parallel()
		s, _ := loadedSession(t)

		res := s.DeleteQuestionType(context.Background(), 1)

		assert.True(t, res.Success)
		assert.Empty(t, s.Types())
	})

	t.Run("Should keep the local list untouched when the backend refuses", func(t provider.T) {
		t.Parallel()
		s, gateway := loadedSession(t)
		gateway.err = errors.New("conflict")

		res := s.DeleteQuestionType(context.Background(), 1)

		assert.False(t, res.Success)
		assert.Equal(t, "operation failed, try again", res.Message)
		assert.Len(t, s.Types(), 1)
	})
}

func (suite *UsecaseAdminUnitSuite) TestGenreLifecycle(t provider.T) {
	t.Parallel()

	s, _ := loadedSession(t)

	res := s.CreateGenre(context.Background(), "food", 1)
	assert.True(t, res.Success)
	assert.Len(t, s.GenreList(), 2)

	created := s.GenreList()[1]
	res = s.RenameGenre(context.Background(), created.GenreID, "street food")
	assert.True(t, res.Success)
	assert.Equal(t, "street food", s.GenreList()[1].Name)

	res = s.DeleteGenre(context.Background(), created.GenreID)
	assert.True(t, res.Success)
	assert.Len(t, s.GenreList(), 1)
}

func (suite *UsecaseAdminUnitSuite) TestQuestionLifecycle(t provider.T) {
	t.Parallel()

	s, _ := loadedSession(t)

	res := s.CreateQuestion(context.Background(), validQuestionInput())
	assert.True(t, res.Success)
	assert.Len(t, s.QuestionList(), 2)

	created := s.QuestionList()[1]
	updated := validQuestionInput()
	updated.Question = "what is your dream city"
	res = s.UpdateQuestion(context.Background(), created.QuestionID, updated)
	assert.True(t, res.Success)
	assert.Equal(t, "what is your dream city", s.QuestionList()[1].Question)

	res = s.DeleteQuestion(context.Background(), created.QuestionID)
	assert.True(t, res.Success)
	assert.Len(t, s.QuestionList(), 1)
}

func TestAdminUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseAdminUnitSuite))
}
