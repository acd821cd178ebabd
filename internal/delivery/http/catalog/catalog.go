package http_catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	http_common "github.com/burningsawals/core/internal/delivery/http/common"
	"github.com/burningsawals/core/internal/model"
	"github.com/burningsawals/core/internal/storage"
)

type Store interface {
	QuestionTypes(ctx context.Context) ([]model.QuestionType, error)
	QuestionTypeByID(ctx context.Context, id int64) (model.QuestionType, error)
	CreateQuestionType(ctx context.Context, name string) (model.QuestionType, error)
	RenameQuestionType(ctx context.Context, id int64, name string) error
	DeleteQuestionType(ctx context.Context, id int64) error
	LinkGenres(ctx context.Context, typeID int64, genreIDs []int64) error
	UnlinkGenres(ctx context.Context, typeID int64, genreIDs []int64) error

	Genres(ctx context.Context) ([]model.Genre, error)
	GenreByID(ctx context.Context, id int64) (model.Genre, error)
	CreateGenre(ctx context.Context, name string, typeID int64) (model.Genre, error)
	RenameGenre(ctx context.Context, id int64, name string) error
	DeleteGenre(ctx context.Context, id int64) error

	Questions(ctx context.Context) ([]model.Question, error)
	QuestionsByGenre(ctx context.Context, genreID int64) ([]model.Question, error)
	CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error)
	UpdateQuestion(ctx context.Context, id int64, in model.QuestionInput) (model.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

type Controller struct {
	store  Store
	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(store Store, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	types := router.Group("/question-types")
	types.GET("", c.listTypes)
	types.GET("/:id", c.getType)
	types.POST("", c.createType)
	types.PATCH("/:id", c.renameType)
	types.DELETE("/:id", c.deleteType)
	types.POST("/:id/genres", c.linkGenres)
	types.DELETE("/:id/genres", c.unlinkGenres)

	genres := router.Group("/genres")
	genres.GET("", c.listGenres)
	genres.GET("/:id", c.getGenre)
	genres.POST("", c.createGenre)
	genres.PATCH("/:id", c.renameGenre)
	genres.DELETE("/:id", c.deleteGenre)

	questions := router.Group("/questions")
	questions.GET("", c.listQuestions)
	questions.GET("/genre/:id", c.questionsByGenre)
	questions.POST("", c.createQuestion)
	questions.PATCH("/:id", c.updateQuestion)
	questions.DELETE("/:id", c.deleteQuestion)
}

type NameRequestDTO struct {
	TypeName string `json:"type_name"`
	Name     string `json:"name"`
}

type CreateGenreRequestDTO struct {
	Name   string `json:"name" binding:"required"`
	TypeID int64  `json:"type_id" binding:"required"`
}

type GenreLinksRequestDTO struct {
	GenreIDs []int64 `json:"genre_ids" binding:"required"`
}

type QuestionRequestDTO struct {
	Question string  `json:"question" binding:"required"`
	Prompt   string  `json:"prompt" binding:"required"`
	GenreIDs []int64 `json:"genre_ids" binding:"required"`
}

func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid id",
		})
		return 0, false
	}
	return id, true
}

// fail maps store errors onto the HTTP taxonomy.
func (c *Controller) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "no such resource"})
	case errors.Is(err, storage.ErrConflict):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "resource already exists"})
	default:
		c.logger.Error("catalog store failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
	}
}

func (c *Controller) listTypes(ctx *gin.Context) {
	types, err := c.store.QuestionTypes(ctx)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "question types", Data: types})
}

func (c *Controller) getType(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	qt, err := c.store.QuestionTypeByID(ctx, id)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "question type", Data: qt})
}

func (c *Controller) createType(ctx *gin.Context) {
	var req NameRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || req.TypeName == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "type_name is required"})
		return
	}
	qt, err := c.store.CreateQuestionType(ctx, req.TypeName)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, http_common.Envelope{Message: "question type created", Data: qt})
}

func (c *Controller) renameType(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req NameRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || req.TypeName == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "type_name is required"})
		return
	}
	if err := c.store.RenameQuestionType(ctx, id, req.TypeName); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "question type renamed"})
}

func (c *Controller) deleteType(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.store.DeleteQuestionType(ctx, id); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "question type deleted"})
}

func (c *Controller) linkGenres(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req GenreLinksRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || len(req.GenreIDs) == 0 {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "genre_ids is required"})
		return
	}
	if err := c.store.LinkGenres(ctx, id, req.GenreIDs); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "genres added to question type"})
}

func (c *Controller) unlinkGenres(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req GenreLinksRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || len(req.GenreIDs) == 0 {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "genre_ids is required"})
		return
	}
	if err := c.store.UnlinkGenres(ctx, id, req.GenreIDs); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "genres removed from question type"})
}

func (c *Controller) listGenres(ctx *gin.Context) {
	genres, err := c.store.Genres(ctx)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "genres", Data: genres})
}

func (c *Controller) getGenre(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	g, err := c.store.GenreByID(ctx, id)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "genre", Data: g})
}

func (c *Controller) createGenre(ctx *gin.Context) {
	var req CreateGenreRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "name and type_id are required"})
		return
	}
	g, err := c.store.CreateGenre(ctx, req.Name, req.TypeID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, http_common.Envelope{Message: "genre created", Data: g})
}

func (c *Controller) renameGenre(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req NameRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Name == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "name is required"})
		return
	}
	if err := c.store.RenameGenre(ctx, id, req.Name); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "genre renamed"})
}

func (c *Controller) deleteGenre(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.store.DeleteGenre(ctx, id); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "genre deleted"})
}

func (c *Controller) listQuestions(ctx *gin.Context) {
	questions, err := c.store.Questions(ctx)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "questions", Data: questions})
}

func (c *Controller) questionsByGenre(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	questions, err := c.store.QuestionsByGenre(ctx, id)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "questions", Data: questions})
}

func (c *Controller) createQuestion(ctx *gin.Context) {
	var req QuestionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "question, prompt and genre_ids are required"})
		return
	}
	q, err := c.store.CreateQuestion(ctx, model.QuestionInput(req))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, http_common.Envelope{Message: "question created", Data: q})
}

func (c *Controller) updateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req QuestionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "question, prompt and genre_ids are required"})
		return
	}
	q, err := c.store.UpdateQuestion(ctx, id, model.QuestionInput(req))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "question updated", Data: q})
}

func (c *Controller) deleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.store.DeleteQuestion(ctx, id); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "question deleted"})
}
