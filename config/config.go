package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort string
	AppEnv  string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	JWTSecret   string
	JWTTTL      time.Duration
	AuthCookie  string
	Timezone    string
	LateHour    int
	CORSOrigins []string
}

var defaults = map[string]any{
	"APP_PORT":      "8080",
	"APP_ENV":       "dev",
	"DB_HOST":       "localhost",
	"DB_PORT":       "5432",
	"DB_USER":       "postgres",
	"DB_PASSWORD":   "postgres",
	"DB_NAME":       "hrms",
	"DB_SSLMODE":    "disable",
	"DATABASE_URL":  "",
	"JWT_SECRET":    "dev-secret",
	"JWT_TTL_HOURS": 168,
	"AUTH_COOKIE":   "auth-token",
	"APP_TIMEZONE":  "UTC",
	"LATE_HOUR":     10,
	"CORS_ORIGINS":  "http://localhost:3000",
}

// Load reads an optional .env file and lets OS environment variables override it.
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("config: .env not loaded, using environment only: %v", err)
	}
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort: v.GetString("APP_PORT"),
		AppEnv:  v.GetString("APP_ENV"),

		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		DatabaseURL: v.GetString("DATABASE_URL"),

		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTTTL:      time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		AuthCookie:  v.GetString("AUTH_COOKIE"),
		Timezone:    v.GetString("APP_TIMEZONE"),
		LateHour:    v.GetInt("LATE_HOUR"),
		CORSOrigins: splitCSV(v.GetString("CORS_ORIGINS")),
	}
}

// DSN prefers DATABASE_URL (hosted providers hand out a single URL) over the parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// Location falls back to UTC when APP_TIMEZONE is not a known zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("config: unknown APP_TIMEZONE %q, falling back to UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "prod") || strings.EqualFold(c.AppEnv, "production")
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
