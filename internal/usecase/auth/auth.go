package usecase_auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/burningsawals/core/internal/model"
)

var (
	ErrInternal = errors.New("internal error")
)

// State is the session lifecycle: Anonymous -> OTPRequested -> Authenticated,
// back to Anonymous on verification failure, logout or confirmed expiry.
type State int

const (
	StateAnonymous State = iota
	StateOTPRequested
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateOTPRequested:
		return "otp_requested"
	case StateAuthenticated:
		return "authenticated"
	}
	return "anonymous"
}

type Gateway interface {
	SendOTP(ctx context.Context, channel model.OTPChannel, identifier, captchaToken string) (model.OTPTicket, error)
	VerifyOTP(ctx context.Context, channel model.OTPChannel, identifier, otp, userName string) (model.Credentials, error)
	CheckUsername(ctx context.Context, userName string) (model.UsernameCheck, error)
}

// TokenBinder receives the bearer token every guarded request must carry.
type TokenBinder interface {
	SetToken(token string)
}

type TokenStore interface {
	Load() (string, *model.User, error)
	Save(token string, user *model.User) error
	Clear() error
}

type CaptchaProvider interface {
	AcquireToken(ctx context.Context, action string) (string, error)
}

type Session struct {
	gateway Gateway
	binder  TokenBinder
	store   TokenStore
	captcha CaptchaProvider
	logger  *slog.Logger

	// isRateLimited classifies gateway errors without binding this package
	// to the transport's sentinel values.
	isRateLimited func(error) bool

	mu    sync.Mutex
	state State
	token string
	user  *model.User
}

type SessionOption func(*Session)

func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithCaptcha(p CaptchaProvider) SessionOption {
	return func(s *Session) {
		s.captcha = p
	}
}

func New(
	gateway Gateway,
	binder TokenBinder,
	store TokenStore,
	isRateLimited func(error) bool,
	opts ...SessionOption,
) *Session {
	s := &Session{
		gateway:       gateway,
		binder:        binder,
		store:         store,
		isRateLimited: isRateLimited,
		logger:        slog.Default(),
		state:         StateAnonymous,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init restores a persisted token, if any. Validity is discovered reactively
// on the first guarded request.
func (s *Session) Init() error {
	token, user, err := s.store.Load()
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.binder.SetToken(token)
	return nil
}

type SendResult struct {
	Success        bool
	Message        string
	OTPID          string
	IsExistingUser bool
}

func (s *Session) SendOTP(ctx context.Context, channel model.OTPChannel, identifier string) SendResult {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return SendResult{Success: false, Message: "phone number or email is required"}
	}

	var captchaToken string
	if s.captcha != nil {
		t, err := s.captcha.AcquireToken(ctx, "send_otp")
		if err != nil {
			s.logger.Warn("captcha token acquisition failed", slog.String("error", err.Error()))
			return SendResult{Success: false, Message: "failed to send OTP"}
		}
		captchaToken = t
	}

	ticket, err := s.gateway.SendOTP(ctx, channel, identifier, captchaToken)
	if err != nil {
		if s.isRateLimited(err) {
			return SendResult{Success: false, Message: "too many requests, wait before trying again"}
		}
		s.logger.Warn("send otp failed", slog.String("error", err.Error()))
		return SendResult{Success: false, Message: "failed to send OTP"}
	}

	s.mu.Lock()
	s.state = StateOTPRequested
	s.mu.Unlock()

	return SendResult{
		Success:        true,
		Message:        "OTP sent",
		OTPID:          ticket.OTPID,
		IsExistingUser: ticket.IsExistingUser,
	}
}

type VerifyResult struct {
	Success bool
	Message string
	User    *model.User
}

func (s *Session) VerifyOTP(ctx context.Context, channel model.OTPChannel, identifier, otp, userName string) VerifyResult {
	if strings.TrimSpace(otp) == "" {
		return VerifyResult{Success: false, Message: "OTP is required"}
	}

	creds, err := s.gateway.VerifyOTP(ctx, channel, identifier, otp, userName)
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()

		s.logger.Warn("verify otp failed", slog.String("error", err.Error()))
		return VerifyResult{Success: false, Message: "failed to verify OTP"}
	}

	user := creds.User

	s.mu.Lock()
	s.token = creds.Token
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.binder.SetToken(creds.Token)
	if err := s.store.Save(creds.Token, &user); err != nil {
		// The session still works for this process; only "stay logged in"
		// across restarts is lost.
		s.logger.Warn("failed to persist session token", slog.String("error", err.Error()))
	}

	return VerifyResult{Success: true, Message: "logged in", User: &user}
}

type CheckResult struct {
	Success   bool
	Available bool
	Message   string
}

// CheckUsername validates uniqueness before registration. Debouncing is the
// caller's job; this issues one request per call.
func (s *Session) CheckUsername(ctx context.Context, userName string) CheckResult {
	if strings.TrimSpace(userName) == "" {
		return CheckResult{Success: false, Available: false, Message: "display name is required"}
	}

	check, err := s.gateway.CheckUsername(ctx, userName)
	if err != nil {
		s.logger.Warn("username check failed", slog.String("error", err.Error()))
		return CheckResult{Success: false, Available: false, Message: "failed to check username"}
	}
	return CheckResult{Success: true, Available: check.Available, Message: check.Message}
}

// Logout clears the session locally. There is no server-side invalidation.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	s.binder.SetToken("")
	if err := s.store.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted session", slog.String("error", err.Error()))
	}
}

// Expire downgrades the session after a confirmed 401 on a guarded call.
func (s *Session) Expire() {
	s.logger.Info("session expired, downgrading to anonymous")
	s.Logout()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated && s.token != ""
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}
