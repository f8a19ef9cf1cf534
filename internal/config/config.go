package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Gemini      GeminiConfig
	Calendar    CalendarConfig
	Coach       CoachConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
}

type GeminiConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

type CalendarConfig struct {
	ClientID      string
	ClientSecret  string
	APIKey        string
	RedirectURL   string
	Timeout       time.Duration
	SignInTimeout time.Duration
	// RefreshSpec is a cron schedule; empty disables background refresh.
	RefreshSpec string
}

type CoachConfig struct {
	PersonaFile string
	SeedSample  bool
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot without credentials.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "coachboard"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:      getInt("SERVER_MAX_CONN", 0),
		},
		Gemini: GeminiConfig{
			APIKey:   os.Getenv("GEMINI_API_KEY"),
			Endpoint: getString("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"),
			Timeout:  getDuration("AI_TIMEOUT", 30*time.Second),
		},
		Calendar: CalendarConfig{
			ClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
			APIKey:        os.Getenv("GOOGLE_API_KEY"),
			RedirectURL:   getString("GOOGLE_REDIRECT_URL", "http://localhost:6789/oauth2callback"),
			Timeout:       getDuration("CALENDAR_TIMEOUT", 15*time.Second),
			SignInTimeout: getDuration("CALENDAR_SIGNIN_TIMEOUT", 5*time.Minute),
			RefreshSpec:   os.Getenv("CALENDAR_REFRESH_SPEC"),
		},
		Coach: CoachConfig{
			PersonaFile: os.Getenv("COACH_PERSONA_FILE"),
			SeedSample:  getBool("SEED_SAMPLE_DATA", true),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	if cfg.Gemini.Timeout <= 0 {
		return nil, fmt.Errorf("AI_TIMEOUT must be positive, got %s", cfg.Gemini.Timeout)
	}
	if cfg.Calendar.Timeout <= 0 {
		return nil, fmt.Errorf("CALENDAR_TIMEOUT must be positive, got %s", cfg.Calendar.Timeout)
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
