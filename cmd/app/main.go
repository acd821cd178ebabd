package main

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/burningsawals/core/internal/config"
	"github.com/burningsawals/core/internal/delivery/tui"
	api_client "github.com/burningsawals/core/internal/infra/api"
	infra_captcha "github.com/burningsawals/core/internal/infra/captcha"
	infra_tokenfile "github.com/burningsawals/core/internal/infra/tokenfile"
	usecase_admin "github.com/burningsawals/core/internal/usecase/admin"
	usecase_auth "github.com/burningsawals/core/internal/usecase/auth"
	usecase_browse "github.com/burningsawals/core/internal/usecase/browse"
	usecase_reaction "github.com/burningsawals/core/internal/usecase/reaction"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	client := api_client.New(cfg.Client.BaseURL,
		api_client.WithTimeout(cfg.Client.Timeout),
		api_client.WithLogger(logger),
	)
	tokens := infra_tokenfile.New(cfg.Client.TokenFile)

	var captchaProvider usecase_auth.CaptchaProvider = infra_captcha.Disabled{}
	if cfg.OTP.CaptchaSecret != "" {
		captchaProvider = infra_captcha.NewStatic(cfg.OTP.CaptchaSecret)
	}

	isRateLimited := func(err error) bool { return errors.Is(err, api_client.ErrRateLimited) }
	isUnauthorized := func(err error) bool { return errors.Is(err, api_client.ErrUnauthorized) }

	auth := usecase_auth.New(client, client, tokens, isRateLimited,
		usecase_auth.WithLogger(logger),
		usecase_auth.WithCaptcha(captchaProvider),
	)
	if err := auth.Init(); err != nil {
		logger.Warn("failed to restore saved session", "error", err)
	}

	browse := usecase_browse.New(client, usecase_browse.WithLogger(logger))
	recorder := usecase_reaction.New(client, auth, isUnauthorized,
		usecase_reaction.WithLogger(logger))
	admin := usecase_admin.New(client, usecase_admin.WithLogger(logger))

	app := tui.New(auth, browse, recorder, admin, client, bufio.NewScanner(os.Stdin))
	app.Run(context.Background())
}
