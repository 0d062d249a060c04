package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// clearGemsEnv unsets every GEMS_* variable for the duration of the test.
func clearGemsEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "GEMS_") {
			t.Setenv(key, "")
		}
	}
}

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:  "variable set",
			key:   "TEST_VAR",
			value: "test_value",
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "empty", value: "", expected: nil},
		{name: "single value", value: "gems.example.com", expected: []string{"gems.example.com"}},
		{name: "spaces and quotes", value: ` "a.example.com", 'b.example.com' ,`, expected: []string{"a.example.com", "b.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, splitAndTrim(tt.value)); diff != "" {
				t.Errorf("splitAndTrim() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if result := mustDuration("TEST_DURATION", tt.def); result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if result := mustBool("TEST_BOOL", tt.def); result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearGemsEnv(t)
	t.Setenv("GEMS_ADMIN_PASSWORD", "s3cret")

	cfg := Load()

	if cfg.ListenPort != ":8080" || cfg.DataFile != "data/gems.json" {
		t.Errorf("server defaults = %q %q", cfg.ListenPort, cfg.DataFile)
	}
	if cfg.SessionTTL != 24*time.Hour || !cfg.CookieSecure {
		t.Errorf("session defaults = %v secure=%v", cfg.SessionTTL, cfg.CookieSecure)
	}
	if cfg.SyncTimeout != 15*time.Second || cfg.MirrorInterval != 0 {
		t.Errorf("mirror defaults = %v %v", cfg.SyncTimeout, cfg.MirrorInterval)
	}
	if cfg.MirrorEnabled() {
		t.Error("mirror should be disabled without a token")
	}
	if cfg.RedisEnabled() {
		t.Error("redis should be disabled without an address")
	}
	if cfg.GitHubPath != "data/gems.json" {
		t.Errorf("GitHubPath = %q", cfg.GitHubPath)
	}
}

func TestLoadRequiresAdminPassword(t *testing.T) {
	clearGemsEnv(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() without GEMS_ADMIN_PASSWORD should have panicked")
		}
	}()
	Load()
}

func TestLoadMirrorRequiresTarget(t *testing.T) {
	clearGemsEnv(t)
	t.Setenv("GEMS_ADMIN_PASSWORD", "s3cret")
	t.Setenv("GEMS_GITHUB_TOKEN", "ghp_x")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() with a token but no repo should have panicked")
		}
	}()
	Load()
}

func TestLoadMirror(t *testing.T) {
	clearGemsEnv(t)
	t.Setenv("GEMS_ADMIN_PASSWORD", "s3cret")
	t.Setenv("GEMS_GITHUB_TOKEN", "ghp_x")
	t.Setenv("GEMS_GITHUB_OWNER", "acme")
	t.Setenv("GEMS_GITHUB_REPO", "gems")
	t.Setenv("GEMS_MIRROR_INTERVAL", "1h")

	cfg := Load()
	if !cfg.MirrorEnabled() || cfg.MirrorInterval != time.Hour {
		t.Errorf("mirror config = enabled:%v interval:%v", cfg.MirrorEnabled(), cfg.MirrorInterval)
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{AdminPassword: "s3cret", GitHubToken: "ghp_x", RedisPassword: "", ListenPort: ":8080"}

	r := cfg.Redacted()
	if r.AdminPassword == "s3cret" || r.GitHubToken == "ghp_x" {
		t.Errorf("secrets leaked: %+v", r)
	}
	if r.RedisPassword != "" {
		t.Errorf("empty secret should stay empty, got %q", r.RedisPassword)
	}
	if cfg.AdminPassword != "s3cret" {
		t.Error("Redacted() must not modify the original")
	}
	if r.ListenPort != ":8080" {
		t.Errorf("non-secret field changed: %q", r.ListenPort)
	}
}
