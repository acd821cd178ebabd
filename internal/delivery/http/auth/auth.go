package http_auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	http_common "github.com/burningsawals/core/internal/delivery/http/common"
	"github.com/burningsawals/core/internal/model"
	service_otp "github.com/burningsawals/core/internal/service/otp"
	"github.com/burningsawals/core/internal/storage"
)

type UserStore interface {
	UserByIdentifier(ctx context.Context, identifier string) (model.User, error)
	CreateUser(ctx context.Context, identifier, userName string) (model.User, error)
	UserNameTaken(ctx context.Context, userName string) (bool, error)
}

type Limiter interface {
	Allow(identifier string) (bool, error)
}

type Controller struct {
	otp     *service_otp.Service
	users   UserStore
	limiter Limiter
	logger  *slog.Logger

	// captchaSecret, when set, must match the captcha_token of every
	// send-OTP request. A real deployment fronts this with a CAPTCHA
	// verification service; the dev server just compares strings.
	captchaSecret string
	logCodes      bool
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithCaptchaSecret(secret string) ControllerOption {
	return func(c *Controller) {
		c.captchaSecret = secret
	}
}

// WithCodeLogging makes issued OTP codes visible in the server log so the
// flow can be exercised without an SMS/email provider.
func WithCodeLogging(enabled bool) ControllerOption {
	return func(c *Controller) {
		c.logCodes = enabled
	}
}

func New(otp *service_otp.Service, users UserStore, limiter Limiter, opts ...ControllerOption) *Controller {
	c := &Controller{
		otp:     otp,
		users:   users,
		limiter: limiter,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.POST("/phone/send-otp", c.sendOTP)
	auth.POST("/email/send-otp", c.sendOTP)
	auth.POST("/phone/verify-otp", c.verifyOTP)
	auth.POST("/email/verify-otp", c.verifyOTP)
	auth.POST("/check-username", c.checkUsername)
}

type SendOTPRequestDTO struct {
	PhoneNumber  string `json:"phone_number"`
	Email        string `json:"email"`
	CaptchaToken string `json:"captcha_token"`
}

func (r SendOTPRequestDTO) identifier() string {
	if r.PhoneNumber != "" {
		return strings.TrimSpace(r.PhoneNumber)
	}
	return strings.TrimSpace(r.Email)
}

type VerifyOTPRequestDTO struct {
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	OTP         string `json:"otp" binding:"required"`
	UserName    string `json:"user_name"`
}

func (r VerifyOTPRequestDTO) identifier() string {
	if r.PhoneNumber != "" {
		return strings.TrimSpace(r.PhoneNumber)
	}
	return strings.TrimSpace(r.Email)
}

type CheckUsernameRequestDTO struct {
	UserName string `json:"user_name" binding:"required"`
}

func (c *Controller) sendOTP(ctx *gin.Context) {
	var req SendOTPRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || req.identifier() == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "phone number or email is required",
		})
		return
	}

	if c.captchaSecret != "" && req.CaptchaToken != c.captchaSecret {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "captcha verification failed",
		})
		return
	}

	identifier := req.identifier()
	allowed, err := c.limiter.Allow(identifier)
	if err != nil {
		c.logger.Error("rate limiter failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}
	if !allowed {
		ctx.JSON(http.StatusTooManyRequests, http_common.ErrorResponse{
			Message: "too many requests, wait before trying again",
		})
		return
	}

	isExisting := true
	if _, err := c.users.UserByIdentifier(ctx, identifier); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Error("user lookup failed", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
			return
		}
		isExisting = false
	}

	otpID, code, err := c.otp.IssueCode(identifier)
	if err != nil {
		c.logger.Error("otp issue failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "failed to send OTP",
		})
		return
	}
	if c.logCodes {
		c.logger.Info("issued otp", slog.String("identifier", identifier), slog.String("code", code))
	}

	ctx.JSON(http.StatusOK, http_common.Envelope{
		Message: "OTP sent",
		Data: model.OTPTicket{
			OTPID:          otpID,
			IsExistingUser: isExisting,
		},
	})
}

func (c *Controller) verifyOTP(ctx *gin.Context) {
	var req VerifyOTPRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || req.identifier() == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "identifier and otp are required",
		})
		return
	}

	identifier := req.identifier()
	if err := c.otp.VerifyCode(identifier, req.OTP); err != nil {
		if errors.Is(err, service_otp.ErrWrongCode) {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "wrong or expired OTP",
			})
			return
		}
		c.logger.Error("otp verify failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	user, err := c.users.UserByIdentifier(ctx, identifier)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		if strings.TrimSpace(req.UserName) == "" {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "display name is required for registration",
			})
			return
		}
		user, err = c.users.CreateUser(ctx, identifier, req.UserName)
		if err != nil {
			c.logger.Error("user creation failed", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
			return
		}
		user.IsNewUser = true
	default:
		c.logger.Error("user lookup failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	token, err := c.otp.MintToken(user.UserID)
	if err != nil {
		c.logger.Error("token mint failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusOK, http_common.Envelope{
		Message: "logged in",
		Data: model.Credentials{
			Token: token,
			User:  user,
		},
	})
}

func (c *Controller) checkUsername(ctx *gin.Context) {
	var req CheckUsernameRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "user_name is required",
		})
		return
	}

	taken, err := c.users.UserNameTaken(ctx, req.UserName)
	if err != nil {
		c.logger.Error("username check failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	check := model.UsernameCheck{Available: !taken, Message: "username is available"}
	if taken {
		check.Message = "username is already taken"
	}
	ctx.JSON(http.StatusOK, http_common.Envelope{
		Message: "checked",
		Data:    check,
	})
}
