package infra_captcha

import "context"

// Provider is the external CAPTCHA collaborator. The auth session calls it
// before every send-OTP request when one is configured.
type Provider interface {
	AcquireToken(ctx context.Context, action string) (string, error)
}

// Static hands out a fixed token, for environments where the backend is
// configured with a shared secret instead of a real CAPTCHA service.
type Static struct {
	token string
}

func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) AcquireToken(_ context.Context, _ string) (string, error) {
	return s.token, nil
}

// Disabled satisfies Provider when no CAPTCHA is in play.
type Disabled struct{}

func (Disabled) AcquireToken(_ context.Context, _ string) (string, error) {
	return "", nil
}
