package api_client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/burningsawals/core/internal/model"
)

// Question type operations.

func (c *Client) QuestionTypes(ctx context.Context) ([]model.QuestionType, error) {
	var types []model.QuestionType
	if err := c.do(ctx, http.MethodGet, "/question-types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) QuestionType(ctx context.Context, id int64) (model.QuestionType, error) {
	var qt model.QuestionType
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/question-types/%d", id), nil, &qt); err != nil {
		return model.QuestionType{}, err
	}
	return qt, nil
}

func (c *Client) CreateQuestionType(ctx context.Context, name string) (model.QuestionType, error) {
	var qt model.QuestionType
	body := map[string]string{"type_name": name}
	if err := c.do(ctx, http.MethodPost, "/question-types", body, &qt); err != nil {
		return model.QuestionType{}, err
	}
	return qt, nil
}

func (c *Client) RenameQuestionType(ctx context.Context, id int64, name string) error {
	body := map[string]string{"type_name": name}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/question-types/%d", id), body, nil)
}

func (c *Client) DeleteQuestionType(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/question-types/%d", id), nil, nil)
}

func (c *Client) AddGenresToQuestionType(ctx context.Context, id int64, genreIDs []int64) error {
	body := map[string][]int64{"genre_ids": genreIDs}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/question-types/%d/genres", id), body, nil)
}

func (c *Client) RemoveGenresFromQuestionType(ctx context.Context, id int64, genreIDs []int64) error {
	body := map[string][]int64{"genre_ids": genreIDs}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/question-types/%d/genres", id), body, nil)
}

// Genre operations.

func (c *Client) Genres(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := c.do(ctx, http.MethodGet, "/genres", nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

func (c *Client) Genre(ctx context.Context, id int64) (model.Genre, error) {
	var g model.Genre
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/genres/%d", id), nil, &g); err != nil {
		return model.Genre{}, err
	}
	return g, nil
}

func (c *Client) CreateGenre(ctx context.Context, name string, typeID int64) (model.Genre, error) {
	var g model.Genre
	body := map[string]any{"name": name, "type_id": typeID}
	if err := c.do(ctx, http.MethodPost, "/genres", body, &g); err != nil {
		return model.Genre{}, err
	}
	return g, nil
}

func (c *Client) RenameGenre(ctx context.Context, id int64, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/genres/%d", id), body, nil)
}

func (c *Client) DeleteGenre(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/genres/%d", id), nil, nil)
}

// Question operations.

func (c *Client) Questions(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	if err := c.do(ctx, http.MethodGet, "/questions", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *Client) QuestionsByGenre(ctx context.Context, genreID int64) ([]model.Question, error) {
	var questions []model.Question
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/questions/genre/%d", genreID), nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *Client) CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error) {
	var q model.Question
	if err := c.do(ctx, http.MethodPost, "/questions", in, &q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id int64, in model.QuestionInput) (model.Question, error) {
	var q model.Question
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/questions/%d", id), in, &q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/questions/%d", id), nil, nil)
}
