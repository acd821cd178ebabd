package app

import (
	"time"

	http_analytics "github.com/burningsawals/core/internal/delivery/http/analytics"
	http_auth "github.com/burningsawals/core/internal/delivery/http/auth"
	http_catalog "github.com/burningsawals/core/internal/delivery/http/catalog"
	http_init "github.com/burningsawals/core/internal/delivery/http/init"
	http_auth_middleware "github.com/burningsawals/core/internal/delivery/http/middleware/auth"

	"github.com/burningsawals/core/internal/config"
	infra_pg_init "github.com/burningsawals/core/internal/infra/postgres/init"
	infra_postgres_catalog "github.com/burningsawals/core/internal/infra/postgres/catalog"
	infra_postgres_interaction "github.com/burningsawals/core/internal/infra/postgres/interaction"
	infra_postgres_user "github.com/burningsawals/core/internal/infra/postgres/user"
	infra_redis_init "github.com/burningsawals/core/internal/infra/redis/init"
	infra_redis_kv "github.com/burningsawals/core/internal/infra/redis/kv"
	service_otp "github.com/burningsawals/core/internal/service/otp"
	service_ratelimit "github.com/burningsawals/core/internal/service/ratelimit"
	storage_memory "github.com/burningsawals/core/internal/storage/memory"
)

type otpCache interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
}

type counter interface {
	IncrWithin(key string, window time.Duration) (int64, error)
}

// Go wires and runs the dev server. Memory mode needs no redis or postgres
// and keeps everything in process; postgres mode is the durable setup.
func Go(cfg *config.Config) {
	const (
		otpCodesKey  = "otp_code"
		sessionsKey  = "session"
		rateLimitKey = "otp_rate"
	)

	var (
		catalogStore     http_catalog.Store
		userStore        http_auth.UserStore
		interactionStore http_analytics.InteractionStore
		codes            otpCache
		sessions         otpCache
		counters         counter
	)

	if cfg.Storage == "memory" {
		catalog := storage_memory.NewCatalog()
		users := storage_memory.NewUsers()
		catalogStore = catalog
		userStore = users
		interactionStore = storage_memory.NewInteractions(catalog, users)
		codes = storage_memory.NewKV()
		sessions = storage_memory.NewKV()
		counters = storage_memory.NewKV()
	} else {
		redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
		pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)

		catalogStore = infra_postgres_catalog.New(pgConn)
		userStore = infra_postgres_user.New(pgConn)
		interactionStore = infra_postgres_interaction.New(pgConn)
		codes = infra_redis_kv.New(redisConn, otpCodesKey)
		sessions = infra_redis_kv.New(redisConn, sessionsKey)
		counters = infra_redis_kv.New(redisConn, rateLimitKey)
	}

	otpService := service_otp.New(codes, sessions, cfg.OTP.CodeTTL, cfg.OTP.SessionTTL)
	limiter := service_ratelimit.New(counters, cfg.OTP.SendLimit, cfg.OTP.SendWindow)
	authMW := http_auth_middleware.New(otpService)

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_auth.New(otpService, userStore, limiter,
		http_auth.WithCaptchaSecret(cfg.OTP.CaptchaSecret),
		http_auth.WithCodeLogging(cfg.OTP.LogCodes),
	))
	controllerPool.Add(http_catalog.New(catalogStore))
	controllerPool.Add(http_analytics.New(interactionStore, authMW))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
