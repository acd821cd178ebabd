package http_analytics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	http_common "github.com/burningsawals/core/internal/delivery/http/common"
	http_auth_middleware "github.com/burningsawals/core/internal/delivery/http/middleware/auth"
	"github.com/burningsawals/core/internal/model"
	"github.com/burningsawals/core/internal/storage"
)

type InteractionStore interface {
	Add(ctx context.Context, questionID int64, userID string, kind model.Reaction) error
	Remove(ctx context.Context, questionID int64, userID string, kind model.Reaction) error
	UserStats(ctx context.Context) ([]model.UserStat, error)
	TopQuestions(ctx context.Context, limit int) ([]model.TopQuestion, error)
}

type Controller struct {
	interactions InteractionStore
	mw           *http_auth_middleware.Middleware
	logger       *slog.Logger
	startedAt    time.Time
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(interactions InteractionStore, mw *http_auth_middleware.Middleware, opts ...ControllerOption) *Controller {
	c := &Controller{
		interactions: interactions,
		mw:           mw,
		logger:       slog.Default(),
		startedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	analytics.GET("/health", c.health)
	analytics.GET("/users", c.userStats)
	analytics.GET("/questions/top", c.topQuestions)

	guarded := analytics.Group("/questions/:id/interact", c.mw.AuthRequired())
	guarded.POST("", c.addInteraction)
	guarded.DELETE("", c.removeInteraction)
}

type InteractRequestDTO struct {
	InteractionType model.Reaction `json:"interaction_type" binding:"required"`
}

func (c *Controller) addInteraction(ctx *gin.Context) {
	c.mutateInteraction(ctx, c.interactions.Add, "interaction recorded")
}

func (c *Controller) removeInteraction(ctx *gin.Context) {
	c.mutateInteraction(ctx, c.interactions.Remove, "interaction removed")
}

func (c *Controller) mutateInteraction(
	ctx *gin.Context,
	op func(ctx context.Context, questionID int64, userID string, kind model.Reaction) error,
	message string,
) {
	questionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid question id"})
		return
	}

	var req InteractRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || !model.ValidReaction(req.InteractionType) {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "interaction_type must be like, dislike or super_like"})
		return
	}

	userID := ctx.GetString(http_auth_middleware.UserIDKey)
	if err := op(ctx, questionID, userID, req.InteractionType); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "no such resource"})
			return
		}
		c.logger.Error("interaction mutation failed",
			slog.Int64("question_id", questionID),
			slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, http_common.Envelope{Message: message})
}

func (c *Controller) userStats(ctx *gin.Context) {
	stats, err := c.interactions.UserStats(ctx)
	if err != nil {
		c.logger.Error("user stats failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "user stats", Data: stats})
}

func (c *Controller) topQuestions(ctx *gin.Context) {
	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	top, err := c.interactions.TopQuestions(ctx, limit)
	if err != nil {
		c.logger.Error("top questions failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{Message: "top questions", Data: top})
}

func (c *Controller) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, http_common.Envelope{
		Message: "ok",
		Data: model.Health{
			Status: "ok",
			Uptime: time.Since(c.startedAt).Round(time.Second).String(),
		},
	})
}
