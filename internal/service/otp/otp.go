package service_otp

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInternal  = errors.New("internal error")
	ErrWrongCode = errors.New("wrong or expired code")
)

// CodeCache is a TTL KV for codes and tokens.
type CodeCache interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Service issues one-time passcodes keyed by identifier and mints bearer
// session tokens keyed by user.
type Service struct {
	codes      CodeCache
	sessions   CodeCache
	codeTTL    time.Duration
	sessionTTL time.Duration
}

func New(codes CodeCache, sessions CodeCache, codeTTL, sessionTTL time.Duration) *Service {
	if codeTTL <= 0 {
		codeTTL = 5 * time.Minute
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Service{
		codes:      codes,
		sessions:   sessions,
		codeTTL:    codeTTL,
		sessionTTL: sessionTTL,
	}
}

// IssueCode stores a fresh code for the identifier, replacing any pending
// one, and returns the code plus an opaque otp id for client correlation.
func (s *Service) IssueCode(identifier string) (otpID string, code string, err error) {
	code = s.buildCode()
	if err := s.codes.Set(identifier, code, s.codeTTL); err != nil {
		return "", "", errors.Join(ErrInternal, err)
	}
	return uuid.New().String(), code, nil
}

// VerifyCode burns the pending code on success.
func (s *Service) VerifyCode(identifier, code string) error {
	stored, err := s.codes.Get(identifier)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if stored == "" || stored != code {
		return ErrWrongCode
	}
	if err := s.codes.Delete(identifier); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// MintToken issues a bearer token bound to the user for the session TTL.
func (s *Service) MintToken(userID string) (string, error) {
	t := uuid.New().String()
	if err := s.sessions.Set(t, userID, s.sessionTTL); err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return t, nil
}

// UserIDByToken returns "" for an unknown or expired token.
func (s *Service) UserIDByToken(token string) (string, error) {
	userID, err := s.sessions.Get(token)
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return userID, nil
}

func (s *Service) buildCode() string {
	const codeLen = 6
	var builder strings.Builder
	builder.Grow(codeLen)

	for i := 0; i < codeLen; i++ {
		builder.WriteByte(byte(rand.Intn(10)) + '0')
	}

	return builder.String()
}
