package usecase_auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/burningsawals/core/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type UsecaseAuthUnitSuite struct {
	suite.Suite
}

var errRateLimited = errors.New("rate limited")

type fakeGateway struct {
	sendOTPFn       func(ctx context.Context, channel model.OTPChannel, identifier, captchaToken string) (model.OTPTicket, error)
	verifyOTPFn     func(ctx context.Context, channel model.OTPChannel, identifier, otp, userName string) (model.Credentials, error)
	checkUsernameFn func(ctx context.Context, userName string) (model.UsernameCheck, error)
}

func (g *fakeGateway) SendOTP(ctx context.Context, channel model.OTPChannel, identifier, captchaToken string) (model.OTPTicket, error) {
	return g.sendOTPFn(ctx, channel, identifier, captchaToken)
}

func (g *fakeGateway) VerifyOTP(ctx context.Context, channel model.OTPChannel, identifier, otp, userName string) (model.Credentials, error) {
	return g.verifyOTPFn(ctx, channel, identifier, otp, userName)
}

func (g *fakeGateway) CheckUsername(ctx context.Context, userName string) (model.UsernameCheck, error) {
	return g.checkUsernameFn(ctx, userName)
}

type fakeBinder struct {
	token string
	calls int
}

func (b *fakeBinder) SetToken(token string) {
	b.token = token
	b.calls++
}

type fakeStore struct {
	token   string
	user    *model.User
	loadErr error
	saveErr error
	cleared bool
}

func (s *fakeStore) Load() (string, *model.User, error) {
	return s.token, s.user, s.loadErr
}

func (s *fakeStore) Save(token string, user *model.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	s.user = user
	return nil
}

func (s *fakeStore) Clear() error {
	s.token = ""
	s.user = nil
	s.cleared = true
	return nil
}

type authResources struct {
	session *Session
	gateway *fakeGateway
	binder  *fakeBinder
	store   *fakeStore
	ctx     context.Context
}

func initAuthResources(opts ...SessionOption) *authResources {
	gateway := &fakeGateway{}
	binder := &fakeBinder{}
	store := &fakeStore{}
	isRateLimited := func(err error) bool { return errors.Is(err, errRateLimited) }

	return &authResources{
		session: New(gateway, binder, store, isRateLimited, opts...),
		gateway: gateway,
		binder:  binder,
		store:   store,
		ctx:     context.Background(),
	}
}

func validUser() model.User {
	return model.User{
		UserID:       "u-1",
		PhoneOrEmail: "+15550001122",
		UserName:     "sawal_fan",
	}
}

func (suite *UsecaseAuthUnitSuite) TestSendOTP(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		identifier      string
		setup           func(r *authResources)
		expectSuccess   bool
		messageContains string
		expectedState   State
	}{
		{
			name:            "Should reject empty identifier without a network call",
			identifier:      "   ",
			setup:           func(r *authResources) {},
			expectSuccess:   false,
			messageContains: "required",
			expectedState:   StateAnonymous,
		},
		{
			name:       "Should move to otp_requested on success",
			identifier: "+15550001122",
			setup: func(r *authResources) {
				r.gateway.sendOTPFn = func(_ context.Context, _ model.OTPChannel, _, _ string) (model.OTPTicket, error) {
					return model.OTPTicket{OTPID: "otp-1", IsExistingUser: true}, nil
				}
			},
			expectSuccess:   true,
			messageContains: "OTP sent",
			expectedState:   StateOTPRequested,
		},
		{
			name:       "Should surface a dedicated message when rate limited",
			identifier: "+15550001122",
			setup: func(r *authResources) {
				r.gateway.sendOTPFn = func(_ context.Context, _ model.OTPChannel, _, _ string) (model.OTPTicket, error) {
					return model.OTPTicket{}, errRateLimited
				}
			},
			expectSuccess:   false,
			messageContains: "too many",
			expectedState:   StateAnonymous,
		},
		{
			name:       "Should fall back to a generic message on other failures",
			identifier: "+15550001122",
			setup: func(r *authResources) {
				r.gateway.sendOTPFn = func(_ context.Context, _ model.OTPChannel, _, _ string) (model.OTPTicket, error) {
					return model.OTPTicket{}, errors.New("boom")
				}
			},
			expectSuccess:   false,
			messageContains: "failed to send OTP",
			expectedState:   StateAnonymous,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initAuthResources()
			tc.setup(r)

			res := r.session.SendOTP(r.ctx, model.ChannelPhone, tc.identifier)

			assert.Equal(t, tc.expectSuccess, res.Success)
			assert.True(t, strings.Contains(res.Message, tc.messageContains))
			assert.Equal(t, tc.expectedState, r.session.State())
		})
	}
}

func (suite *UsecaseAuthUnitSuite) TestVerifyOTP(t provider.T) {
	t.Parallel()

	t.Run("Should authenticate, bind the token and persist it", func(t provider.T) {
		t.Parallel()
		r := initAuthResources()
		user := validUser()
		r.gateway.verifyOTPFn = func(_ context.Context, _ model.OTPChannel, _, _, _ string) (model.Credentials, error) {
			return model.Credentials{Token: "tok-1", User: user}, nil
		}

		res := r.session.VerifyOTP(r.ctx, model.ChannelPhone, user.PhoneOrEmail, "123456", "")

		assert.True(t, res.Success)
		assert.True(t, r.session.IsAuthenticated())
		assert.Equal(t, "tok-1", r.binder.token)
		assert.Equal(t, "tok-1", r.store.token)
		assert.Equal(t, user.UserName, r.session.User().UserName)
	})

	t.Run("Should drop back to anonymous on a wrong code", func(t provider.T) {
		t.Parallel()
		r := initAuthResources()
		r.gateway.verifyOTPFn = func(_ context.Context, _ model.OTPChannel, _, _, _ string) (model.Credentials, error) {
			return model.Credentials{}, errors.New("wrong or expired OTP")
		}

		res := r.session.VerifyOTP(r.ctx, model.ChannelPhone, "+15550001122", "000000", "")

		assert.False(t, res.Success)
		assert.Equal(t, StateAnonymous, r.session.State())
		assert.False(t, r.session.IsAuthenticated())
	})

	t.Run("Should stay logged in for this process when persisting fails", func(t provider.T) {
		t.Parallel()
		r := initAuthResources()
		r.store.saveErr = errors.New("disk full")
		r.gateway.verifyOTPFn = func(_ context.Context, _ model.OTPChannel, _, _, _ string) (model.Credentials, error) {
			return model.Credentials{Token: "tok-2", User: validUser()}, nil
		}

		res := r.session.VerifyOTP(r.ctx, model.ChannelPhone, "+15550001122", "123456", "")

		assert.True(t, res.Success)
		assert.True(t, r.session.IsAuthenticated())
	})

	t.Run("Should reject an empty OTP before calling the gateway", func(t provider.T) {
		t.Parallel()
		r := initAuthResources()

		res := r.session.VerifyOTP(r.ctx, model.ChannelPhone, "+15550001122", "  ", "")

		assert.False(t, res.Success)
		assert.Equal(t, "OTP is required", res.Message)
	})
}

func (suite *UsecaseAuthUnitSuite) TestInitRestoresToken(t provider.T) {
	t.Parallel()

	r := initAuthResources()
	user := validUser()
	r.store.token = "persisted"
	r.store.user = &user

	err := r.session.Init()

	assert.NoError(t, err)
	assert.True(t, r.session.IsAuthenticated())
	assert.Equal(t, "persisted", r.binder.token)
}

func (suite *UsecaseAuthUnitSuite) TestInitWithoutToken(t provider.T) {
	t.Parallel()

	r := initAuthResources()

	err := r.session.Init()

	assert.NoError(t, err)
	assert.False(t, r.session.IsAuthenticated())
	assert.Zero(t, r.binder.calls)
}

func (suite *UsecaseAuthUnitSuite) TestLogout(t provider.T) {
	t.Parallel()

	r := initAuthResources()
	user := validUser()
	r.gateway.verifyOTPFn = func(_ context.Context, _ model.OTPChannel, _, _, _ string) (model.Credentials, error) {
		return model.Credentials{Token: "tok-1", User: user}, nil
	}
	r.session.VerifyOTP(r.ctx, model.ChannelPhone, user.PhoneOrEmail, "123456", "")

	r.session.Logout()

	assert.False(t, r.session.IsAuthenticated())
	assert.Empty(t, r.session.Token())
	assert.Nil(t, r.session.User())
	assert.Empty(t, r.binder.token)
	assert.True(t, r.store.cleared)
}

func (suite *UsecaseAuthUnitSuite) TestExpireDowngradesSession(t provider.T) {
	t.Parallel()

	r := initAuthResources()
	user := validUser()
	r.gateway.verifyOTPFn = func(_ context.Context, _ model.OTPChannel, _, _, _ string) (model.Credentials, error) {
		return model.Credentials{Token: "tok-1", User: user}, nil
	}
	r.session.VerifyOTP(r.ctx, model.ChannelPhone, user.PhoneOrEmail, "123456", "")

	r.session.Expire()

	assert.Equal(t, StateAnonymous, r.session.State())
	assert.False(t, r.session.IsAuthenticated())
}

func (suite *UsecaseAuthUnitSuite) TestCheckUsername(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		userName        string
		setup           func(r *authResources)
		expectSuccess   bool
		expectAvailable bool
	}{
		{
			name:          "Should reject a blank name locally",
			userName:      " ",
			setup:         func(r *authResources) {},
			expectSuccess: false,
		},
		{
			name:     "Should report an available name",
			userName: "fresh_name",
			setup: func(r *authResources) {
				r.gateway.checkUsernameFn = func(_ context.Context, _ string) (model.UsernameCheck, error) {
					return model.UsernameCheck{Available: true, Message: "available"}, nil
				}
			},
			expectSuccess:   true,
			expectAvailable: true,
		},
		{
			name:     "Should report a taken name",
			userName: "taken_name",
			setup: func(r *authResources) {
				r.gateway.checkUsernameFn = func(_ context.Context, _ string) (model.UsernameCheck, error) {
					return model.UsernameCheck{Available: false, Message: "already taken"}, nil
				}
			},
			expectSuccess:   true,
			expectAvailable: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initAuthResources()
			tc.setup(r)

			res := r.session.CheckUsername(r.ctx, tc.userName)

			assert.Equal(t, tc.expectSuccess, res.Success)
			assert.Equal(t, tc.expectAvailable, res.Available)
		})
	}
}

func TestAuthUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseAuthUnitSuite))
}
