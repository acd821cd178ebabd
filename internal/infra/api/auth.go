package api_client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/burningsawals/core/internal/model"
)

type sendOTPRequest struct {
	PhoneNumber  string `json:"phone_number,omitempty"`
	Email        string `json:"email,omitempty"`
	CaptchaToken string `json:"captcha_token,omitempty"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
	OTP         string `json:"otp"`
	UserName    string `json:"user_name,omitempty"`
}

func identifierFields(channel model.OTPChannel, identifier string) (phone, email string) {
	if channel == model.ChannelEmail {
		return "", identifier
	}
	return identifier, ""
}

func (c *Client) SendOTP(ctx context.Context, channel model.OTPChannel, identifier, captchaToken string) (model.OTPTicket, error) {
	phone, email := identifierFields(channel, identifier)
	req := sendOTPRequest{PhoneNumber: phone, Email: email, CaptchaToken: captchaToken}

	var ticket model.OTPTicket
	path := fmt.Sprintf("/auth/%s/send-otp", channel)
	if err := c.do(ctx, http.MethodPost, path, req, &ticket); err != nil {
		return model.OTPTicket{}, err
	}
	return ticket, nil
}

func (c *Client) VerifyOTP(ctx context.Context, channel model.OTPChannel, identifier, otp, userName string) (model.Credentials, error) {
	phone, email := identifierFields(channel, identifier)
	req := verifyOTPRequest{PhoneNumber: phone, Email: email, OTP: otp, UserName: userName}

	var creds model.Credentials
	path := fmt.Sprintf("/auth/%s/verify-otp", channel)
	if err := c.do(ctx, http.MethodPost, path, req, &creds); err != nil {
		return model.Credentials{}, err
	}
	return creds, nil
}

func (c *Client) CheckUsername(ctx context.Context, userName string) (model.UsernameCheck, error) {
	body := map[string]string{"user_name": userName}

	var check model.UsernameCheck
	if err := c.do(ctx, http.MethodPost, "/auth/check-username", body, &check); err != nil {
		return model.UsernameCheck{}, err
	}
	return check, nil
}
