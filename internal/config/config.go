package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds everything the process reads from the environment. The
// Gemini key is deliberately allowed to be empty at load time: its absence
// is reported per generation attempt, not at startup.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	Port    string
	BaseURL string

	HistoryPath string
	// ArchivePath enables the optional shared-list archive when set.
	ArchivePath string

	LogMode        string
	AllowOrigins   []string
	RequestTimeout time.Duration
}

func Load() Config {
	return Config{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getenv("GEMINI_MODEL", ""),
		Port:           getenv("PORT", "8080"),
		BaseURL:        getenv("BASE_URL", "http://localhost:8080"),
		HistoryPath:    getenv("HISTORY_PATH", defaultHistoryPath()),
		ArchivePath:    os.Getenv("ARCHIVE_DB_PATH"),
		LogMode:        getenv("LOG_MODE", "development"),
		AllowOrigins:   splitList(getenv("CORS_ALLOW_ORIGINS", "*")),
		RequestTimeout: duration("REQUEST_TIMEOUT_SECONDS", 60*time.Second),
	}
}

func getenv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func duration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	secs, err := time.ParseDuration(v + "s")
	if err != nil {
		return def
	}
	return secs
}

func defaultHistoryPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "history.json"
	}
	return filepath.Join(cacheDir, "giftgenius", "history.json")
}
