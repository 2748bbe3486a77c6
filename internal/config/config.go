// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = 8080
	defaultJWTTTLMinutes = 60
	defaultBcryptCost    = 12
	defaultWeatherAPIURL = "https://f-api.github.io/f-api/weather.json"
)

// DBConfig はMySQL接続設定です。
type DBConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// DSN はMySQL接続文字列 (DSN) を返します。
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", c.User, c.Pass, c.Host, c.Port, c.Name)
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Port          int
	GinMode       string
	DB            DBConfig
	JWTSecret     string
	JWTTTL        time.Duration
	BcryptCost    int
	WeatherAPIURL string
	RedisURL      string // 空ならキャッシュなし
	AllowOrigins  []string
}

// LoadENV は GO_ENV が未設定または development の場合に .env を読み込みます。
// .env が無くてもエラーにはしません。
func LoadENV(paths ...string) {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" || goEnv == "development" {
		_ = godotenv.Load(paths...)
	}
}

// Load は環境変数から Config を構築します。
func Load() (*Config, error) {
	cfg := &Config{
		Port:    intEnv("PORT", defaultPort),
		GinMode: os.Getenv("GIN_MODE"),
		DB: DBConfig{
			User: os.Getenv("DB_USER"),
			Pass: os.Getenv("DB_PASS"),
			Host: stringEnv("DB_HOST", "localhost"),
			Port: stringEnv("DB_PORT", "3306"),
			Name: os.Getenv("DB_NAME"),
		},
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTTTL:        time.Duration(intEnv("JWT_TTL_MINUTES", defaultJWTTTLMinutes)) * time.Minute,
		BcryptCost:    intEnv("BCRYPT_COST", defaultBcryptCost),
		WeatherAPIURL: stringEnv("WEATHER_API_URL", defaultWeatherAPIURL),
		RedisURL:      os.Getenv("REDIS_URL"),
		AllowOrigins:  splitList(stringEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable not set")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost)
	}
	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
