package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DATABASE_URL", "BILI_API", "USER_AGENT", "INSECURE_FETCH",
		"CACHE_DYNAMIC_TTL", "CACHE_AUDIO_TTL", "CACHE_LIVE_TTL",
		"CACHE_BANGUMI_TTL", "CACHE_VIDEO_TTL", "CACHE_READ_TTL",
		"CACHE_REPLY_TTL", "TELEGRAPH_API", "TELEGRAPH_UPLOAD",
		"TELEGRAPH_SHORT_NAME", "LOG_LEVEL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "sqlite://cache.db" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.API.BaseURL != "https://api.bilibili.com" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent should not be empty")
	}
	if !cfg.API.Insecure {
		t.Error("API.Insecure should default to true")
	}
	if cfg.Cache.VideoTTL != 24*time.Hour {
		t.Errorf("Cache.VideoTTL = %v, want 24h", cfg.Cache.VideoTTL)
	}
	if cfg.Cache.LiveTTL != 5*time.Minute {
		t.Errorf("Cache.LiveTTL = %v, want 5m", cfg.Cache.LiveTTL)
	}
	if cfg.Telegraph.APIURL != "https://api.telegra.ph" {
		t.Errorf("Telegraph.APIURL = %q", cfg.Telegraph.APIURL)
	}
	if cfg.Telegraph.ShortName != "bilifeedbot" {
		t.Errorf("Telegraph.ShortName = %q", cfg.Telegraph.ShortName)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want 'info'", cfg.Logging.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/cache")
	t.Setenv("BILI_API", "https://mirror.example")
	t.Setenv("CACHE_LIVE_TTL", "90s")
	t.Setenv("INSECURE_FETCH", "off")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://user:pass@db:5432/cache" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.API.BaseURL != "https://mirror.example" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Cache.LiveTTL != 90*time.Second {
		t.Errorf("Cache.LiveTTL = %v, want 90s", cfg.Cache.LiveTTL)
	}
	if cfg.API.Insecure {
		t.Error("API.Insecure should be off")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want 'debug'", cfg.Logging.Level)
	}
}

func TestDatabaseURLParsing(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDriver string
		wantDSN    string
	}{
		{
			name:       "SQLiteFile",
			url:        "sqlite://cache.db",
			wantDriver: "sqlite",
			wantDSN:    "cache.db",
		},
		{
			name:       "SQLitePath",
			url:        "sqlite:///var/lib/resolver/cache.db",
			wantDriver: "sqlite",
			wantDSN:    "/var/lib/resolver/cache.db",
		},
		{
			name:       "Postgres",
			url:        "postgres://user:pass@db:5432/cache",
			wantDriver: "postgres",
			wantDSN:    "postgres://user:pass@db:5432/cache",
		},
		{
			name:       "PostgresLongScheme",
			url:        "postgresql://user:pass@db:5432/cache",
			wantDriver: "postgres",
			wantDSN:    "postgresql://user:pass@db:5432/cache",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DatabaseConfig{URL: tt.url}
			if got := cfg.Driver(); got != tt.wantDriver {
				t.Errorf("Driver() = %q, want %q", got, tt.wantDriver)
			}
			if got := cfg.DSN(); got != tt.wantDSN {
				t.Errorf("DSN() = %q, want %q", got, tt.wantDSN)
			}
		})
	}
}

func TestValidateRejectsUnsupportedScheme(t *testing.T) {
	cfg := &Config{
		Database:  DatabaseConfig{URL: "mysql://db:3306/cache"},
		API:       APIConfig{BaseURL: "https://api.bilibili.com"},
		Telegraph: TelegraphConfig{ShortName: "bilifeedbot"},
	}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "unsupported scheme") {
		t.Errorf("Validate() error = %v, want unsupported scheme", err)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database:  DatabaseConfig{URL: "sqlite://cache.db"},
			API:       APIConfig{BaseURL: "https://api.bilibili.com"},
			Telegraph: TelegraphConfig{ShortName: "bilifeedbot"},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() error = %v on a valid config", err)
	}

	cfg := valid()
	cfg.Database.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an empty DATABASE_URL")
	}

	cfg = valid()
	cfg.API.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an empty BILI_API")
	}

	cfg = valid()
	cfg.Telegraph.ShortName = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an empty TELEGRAPH_SHORT_NAME")
	}
}

func TestTTLForCoversEveryKind(t *testing.T) {
	cfg := CacheConfig{
		DynamicTTL: 1 * time.Hour,
		AudioTTL:   2 * time.Hour,
		LiveTTL:    3 * time.Hour,
		BangumiTTL: 4 * time.Hour,
		VideoTTL:   5 * time.Hour,
		ReadTTL:    6 * time.Hour,
		ReplyTTL:   7 * time.Hour,
	}

	want := map[string]time.Duration{
		"dynamic": 1 * time.Hour,
		"audio":   2 * time.Hour,
		"live":    3 * time.Hour,
		"bangumi": 4 * time.Hour,
		"video":   5 * time.Hour,
		"read":    6 * time.Hour,
		"reply":   7 * time.Hour,
	}
	for kind, ttl := range want {
		if got := cfg.TTLFor(kind); got != ttl {
			t.Errorf("TTLFor(%q) = %v, want %v", kind, got, ttl)
		}
	}
	if got := cfg.TTLFor("unknown"); got != 0 {
		t.Errorf("TTLFor(unknown) = %v, want 0", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"No", false},
		{"off", false},
		{"maybe", true}, // falls back to the default
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := getEnvBool("TEST_BOOL", true); got != tt.want {
			t.Errorf("getEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestGetEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("TEST_TTL", "soon")
	if got := getEnvDuration("TEST_TTL", time.Hour); got != time.Hour {
		t.Errorf("getEnvDuration() = %v, want the default", got)
	}

	t.Setenv("TEST_TTL", "45m")
	if got := getEnvDuration("TEST_TTL", time.Hour); got != 45*time.Minute {
		t.Errorf("getEnvDuration() = %v, want 45m", got)
	}
}
