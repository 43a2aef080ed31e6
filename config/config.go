package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// loads a .env file into the environment if one is present
	_ "github.com/joho/godotenv/autoload"

	"github.com/liorion-nguyen/chess-master-app/engine"
)

type Config struct {
	HTTP   HTTPConfig
	Logs   LogConfig
	Engine EngineConfig
}

type HTTPConfig struct {
	Addr        string
	CORSOrigins []string
}

type LogConfig struct {
	Level  string
	Format string // console or json
}

type EngineConfig struct {
	Difficulty  engine.Difficulty
	ThinkingCap time.Duration // 0 disables the reply pause
	HumanDelay  time.Duration
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:        "0.0.0.0:8080",
			CORSOrigins: []string{"*"},
		},
		Logs: LogConfig{Level: "info", Format: "console"},
		Engine: EngineConfig{
			Difficulty:  engine.Medium,
			ThinkingCap: 2 * time.Second,
			HumanDelay:  100 * time.Millisecond,
		},
	}
}

// Load reads the environment on top of Default.
func Load() (*Config, error) {
	cfg := Default()

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v = strings.ToLower(v); v {
		case "console", "json":
			cfg.Logs.Format = v
		default:
			return nil, fmt.Errorf("config: LOG_FORMAT: want console or json, got %q", v)
		}
	}
	if v := os.Getenv("DEFAULT_DIFFICULTY"); v != "" {
		d, err := engine.ParseDifficulty(v)
		if err != nil {
			return nil, fmt.Errorf("config: DEFAULT_DIFFICULTY: %w", err)
		}
		cfg.Engine.Difficulty = d
	}

	var err error
	if cfg.Engine.ThinkingCap, err = millis("THINKING_TIME_CAP_MS", cfg.Engine.ThinkingCap); err != nil {
		return nil, err
	}
	if cfg.Engine.HumanDelay, err = millis("HUMAN_MOVE_DELAY_MS", cfg.Engine.HumanDelay); err != nil {
		return nil, err
	}
	return cfg, nil
}

func millis(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("config: %s: want a non-negative integer, got %q", key, v)
	}
	return time.Duration(n) * time.Millisecond, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
