package http_auth_middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	http_common "github.com/burningsawals/core/internal/delivery/http/common"
)

// UserIDKey is where the middleware stores the authenticated user id in the
// gin context.
const UserIDKey = "user_id"

type TokenValidator interface {
	UserIDByToken(token string) (string, error)
}

type Middleware struct {
	validator TokenValidator
	logger    *slog.Logger
}

func New(validator TokenValidator) *Middleware {
	return &Middleware{
		validator: validator,
		logger:    slog.Default(),
	}
}

func (m *Middleware) AuthRequired() gin.HandlerFunc {
	const prefix = "Bearer "
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, prefix) {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "missing bearer token",
			})
			ctx.Abort()
			return
		}

		token := strings.TrimPrefix(header, prefix)
		userID, err := m.validator.UserIDByToken(token)
		if err != nil {
			m.logger.Error("token validation failed", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
			ctx.Abort()
			return
		}
		if userID == "" {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "invalid or expired token",
			})
			ctx.Abort()
			return
		}

		ctx.Set(UserIDKey, userID)
		ctx.Next()
	}
}
