package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv             string
	AppPort            string
	Debug              bool
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPath             string
	DBMaxIdleConns     int
	DBMaxOpenConns     int
	NatsURL            string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	JWTSecret          string
	JWTExpirationHours int
	AllowedOrigins     string
	TimeZone           string
	LogLevel           string
	RateLimitPerMinute int
	EventPollInterval  time.Duration
}

var defaults = map[string]interface{}{
	"APP_ENV":               "development",
	"APP_PORT":              "8080",
	"DEBUG":                 false,
	"DB_DRIVER":             "sqlite",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "smartapp",
	"DB_PASSWORD":           "smartapp",
	"DB_NAME":               "smartapp",
	"DB_PATH":               "db.sqlite3",
	"DB_MAX_IDLE_CONNS":     10,
	"DB_MAX_OPEN_CONNS":     100,
	"NATS_URL":              "",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"JWT_EXPIRATION_HOURS":  24,
	"ALLOWED_ORIGINS":       "http://127.0.0.1:8080,http://localhost:8080",
	"TIME_ZONE":             "UTC",
	"LOG_LEVEL":             "info",
	"RATE_LIMIT_PER_MINUTE": 20,
	"EVENT_POLL_INTERVAL":   "1s",
}

const insecureSecret = "smartapp-insecure-fallback-key-do-not-use-in-prod"

var ErrMissingSecret = errors.New("JWT_SECRET (or SECRET_KEY) must be set outside development")

// LoadDotEnv loads .env.local and .env when present. Variables already set in the
// process environment are never overwritten, and .env.local wins over .env.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func getEnv(v *viper.Viper, key string) string {
	if _, exists := os.LookupEnv(key); !exists {
		log.Printf("%s not set, defaulting to %v", key, defaults[key])
	}
	return v.GetString(key)
}

func Load() Config {
	loaded := LoadDotEnv()
	if len(loaded) > 0 {
		log.Printf("Loaded environment files: %v", loaded)
	}

	v := newViper()

	// SECRET_KEY is the historical name; JWT_SECRET takes precedence when both are set.
	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		secret = v.GetString("SECRET_KEY")
	}
	if secret == "" {
		log.Println("JWT_SECRET not set, using an insecure development secret")
		secret = insecureSecret
	}

	pollInterval := v.GetDuration("EVENT_POLL_INTERVAL")
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	return Config{
		AppEnv:             getEnv(v, "APP_ENV"),
		AppPort:            getEnv(v, "APP_PORT"),
		Debug:              v.GetBool("DEBUG"),
		DBDriver:           strings.ToLower(getEnv(v, "DB_DRIVER")),
		DBHost:             getEnv(v, "DB_HOST"),
		DBPort:             getEnv(v, "DB_PORT"),
		DBUser:             getEnv(v, "DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             getEnv(v, "DB_NAME"),
		DBPath:             getEnv(v, "DB_PATH"),
		DBMaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
		DBMaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
		NatsURL:            v.GetString("NATS_URL"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		JWTSecret:          secret,
		JWTExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
		AllowedOrigins:     getEnv(v, "ALLOWED_ORIGINS"),
		TimeZone:           getEnv(v, "TIME_ZONE"),
		LogLevel:           getEnv(v, "LOG_LEVEL"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		EventPollInterval:  pollInterval,
	}
}

// Location resolves TIME_ZONE, falling back to UTC for unknown names.
func (c Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		log.Printf("Unknown TIME_ZONE %q, defaulting to UTC", c.TimeZone)
		return time.UTC
	}
	return loc
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

// Validate rejects settings that are only safe on a developer machine.
func (c Config) Validate() error {
	if !c.IsDevelopment() && (c.JWTSecret == "" || c.JWTSecret == insecureSecret) {
		return ErrMissingSecret
	}
	return nil
}

// SecureCookies reports whether session cookies must carry the Secure flag.
func (c Config) SecureCookies() bool {
	return !c.Debug && !c.IsDevelopment()
}

// Origins splits ALLOWED_ORIGINS into a trimmed list.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
