package usecase_browse

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/burningsawals/core/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type UsecaseBrowseUnitSuite struct {
	suite.Suite
}

type fakeCatalog struct {
	mu sync.Mutex

	types            []model.QuestionType
	typesErr         error
	questionsByGenre map[int64][]model.Question
	questionsErr     error

	// beforeRespond, when set, runs inside QuestionsByGenre before the
	// answer is produced. Used to interleave a competing selection.
	beforeRespond func(genreID int64)

	fetchCalls []int64
}

func (f *fakeCatalog) QuestionTypes(_ context.Context) ([]model.QuestionType, error) {
	return f.types, f.typesErr
}

func (f *fakeCatalog) QuestionType(_ context.Context, id int64) (model.QuestionType, error) {
	for _, qt := range f.types {
		if qt.TypeID == id {
			return qt, nil
		}
	}
	return model.QuestionType{}, errors.New("not found")
}

func (f *fakeCatalog) QuestionsByGenre(_ context.Context, genreID int64) ([]model.Question, error) {
	if f.beforeRespond != nil {
		f.beforeRespond(genreID)
	}

	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, genreID)
	f.mu.Unlock()

	if f.questionsErr != nil {
		return nil, f.questionsErr
	}
	return f.questionsByGenre[genreID], nil
}

func questionList(ids ...int64) []model.Question {
	qs := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		qs = append(qs, model.Question{QuestionID: id, Question: "q", Prompt: "p"})
	}
	return qs
}

func catalogFixture() *fakeCatalog {
	return &fakeCatalog{
		types: []model.QuestionType{
			{
				TypeID:   1,
				TypeName: "icebreakers",
				Genres: []model.Genre{
					{GenreID: 10, Name: "travel", TypeID: 1},
					{GenreID: 11, Name: "food", TypeID: 1},
				},
			},
			{TypeID: 2, TypeName: "deep talk"},
		},
		questionsByGenre: map[int64][]model.Question{
			10: questionList(100, 101, 102),
			11: questionList(200),
		},
	}
}

func (suite *UsecaseBrowseUnitSuite) TestSelectQuestionType(t provider.T) {
	t.Parallel()

	t.Run("Should auto-select the first genre", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)
		_, err := s.LoadQuestionTypes(context.Background())
		assert.NoError(t, err)

		err = s.SelectQuestionType(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), s.SelectedTypeID())
		assert.Equal(t, int64(10), s.SelectedGenreID())
		assert.Len(t, s.Genres(), 2)
	})

	t.Run("Should clear the genre selection for a type without genres", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)
		_, _ = s.LoadQuestionTypes(context.Background())

		err := s.SelectQuestionType(context.Background(), 2)

		assert.NoError(t, err)
		assert.Zero(t, s.SelectedGenreID())
		assert.Empty(t, s.Genres())
	})

	t.Run("Should fetch an uncached type by id", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)

		err := s.SelectQuestionType(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(10), s.SelectedGenreID())
	})

	t.Run("Should report an unknown type", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)

		err := s.SelectQuestionType(context.Background(), 999)

		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func (suite *UsecaseBrowseUnitSuite) TestCursor(t provider.T) {
	t.Parallel()

	t.Run("Should wrap forward past the last question", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)
		s.SelectGenre(context.Background(), 10)

		for i := 0; i < 3; i++ {
			s.Next()
		}

		assert.Equal(t, 0, s.Cursor())
		assert.Equal(t, int64(100), s.CurrentQuestion().QuestionID)
	})

	t.Run("Should wrap backward past the first question", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)
		s.SelectGenre(context.Background(), 10)

		s.Prev()

		assert.Equal(t, 2, s.Cursor())
		assert.Equal(t, int64(102), s.CurrentQuestion().QuestionID)
	})

	t.Run("Should keep prev after next an identity", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)
		s.SelectGenre(context.Background(), 10)
		s.Next()
		before := s.Cursor()

		s.Next()
		s.Prev()

		assert.Equal(t, before, s.Cursor())
	})

	t.Run("Should no-op on an empty list and show the empty card", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)

		s.Next()
		s.Prev()

		assert.Equal(t, 0, s.Cursor())
		assert.True(t, s.CurrentQuestion().IsEmpty())
		assert.Equal(t, model.EmptyQuestion, s.CurrentQuestion())
	})
}

func (suite *UsecaseBrowseUnitSuite) TestSelectGenre(t provider.T) {
	t.Parallel()

	t.Run("Should load questions and reset the cursor", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)
		s.SelectGenre(context.Background(), 10)
		s.Next()

		s.SelectGenre(context.Background(), 11)

		assert.Equal(t, 0, s.Cursor())
		assert.Equal(t, int64(200), s.CurrentQuestion().QuestionID)
	})

	t.Run("Should swallow fetch failures into an empty list", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)
		s.SelectGenre(context.Background(), 10)
		catalog.questionsErr = errors.New("gateway down")

		s.SelectGenre(context.Background(), 11)

		assert.Empty(t, s.Questions())
		assert.True(t, s.CurrentQuestion().IsEmpty())
	})

	t.Run("Should discard a fetch that resolves after the selection moved on", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)

		// The fetch for genre 10 is overtaken by a selection of genre 11
		// while it is still in flight.
		fired := false
		catalog.beforeRespond = func(genreID int64) {
			if genreID == 10 && !fired {
				fired = true
				catalog.beforeRespond = nil
				s.SelectGenre(context.Background(), 11)
			}
		}

		s.SelectGenre(context.Background(), 10)

		assert.Equal(t, int64(11), s.SelectedGenreID())
		assert.Equal(t, int64(200), s.CurrentQuestion().QuestionID)
	})
}

func (suite *UsecaseBrowseUnitSuite) TestLoadQuestionTypes(t provider.T) {
	t.Parallel()

	t.Run("Should cache the fetched types", func(t provider.T) {
		t.Parallel()
		catalog := catalogFixture()
		s := New(catalog)

		types, err := s.LoadQuestionTypes(context.Background())

		assert.NoError(t, err)
		assert.Len(t, types, 2)
	})

	t.Run("Should wrap gateway failures", func(t provider.T) {
		t.Parallel()
		catalog := &fakeCatalog{typesErr: errors.New("gateway down")}
		s := New(catalog)

		_, err := s.LoadQuestionTypes(context.Background())

		assert.ErrorIs(t, err, ErrTypesUnavailable)
	})
}

func TestBrowseUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseBrowseUnitSuite))
}
