package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Client configures the terminal app side.
type Client struct {
	BaseURL   string
	Timeout   time.Duration
	TokenFile string
}

type OTP struct {
	CodeTTL       time.Duration
	SessionTTL    time.Duration
	SendLimit     int
	SendWindow    time.Duration
	CaptchaSecret string
	LogCodes      bool
}

type Config struct {
	HTTP     HTTPServer
	Redis    RedisCache
	Postgres Postgres
	Client   Client
	OTP      OTP

	// Storage selects the sawalsd backing store: "postgres" or "memory".
	Storage string
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:     *newHTTP(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		Client:   *newClient(),
		OTP:      *newOTP(),
		Storage:  getenv("STORAGE", "postgres"),
	}

	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getenv("REDIS_PASSWORD", "shared"),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "sawals"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newClient() *Client {
	return &Client{
		BaseURL:   getenv("API_BASE_URL", "http://localhost:8080/api/v1"),
		Timeout:   getduration("API_TIMEOUT", 15*time.Second),
		TokenFile: getenv("TOKEN_FILE", defaultTokenFile()),
	}
}

func newOTP() *OTP {
	return &OTP{
		CodeTTL:       getduration("OTP_CODE_TTL", 5*time.Minute),
		SessionTTL:    getduration("OTP_SESSION_TTL", 24*time.Hour),
		SendLimit:     getint("OTP_SEND_LIMIT", 5),
		SendWindow:    getduration("OTP_SEND_WINDOW", time.Minute),
		CaptchaSecret: getenv("CAPTCHA_SECRET", ""),
		LogCodes:      getenv("OTP_LOG_CODES", "true") == "true",
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return dir + "/burningsawals/session.json"
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		fmt.Printf("%s bad duration for %s : %v. Using default %s\n", logtag, key, err, defaultValue)
		return defaultValue
	}
	return d
}

func getint(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	var n int
	if _, err := fmt.Sscanf(val, "%d", &n); err != nil {
		fmt.Printf("%s bad int for %s : %v. Using default %d\n", logtag, key, err, defaultValue)
		return defaultValue
	}
	return n
}
