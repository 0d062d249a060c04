package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, covers a synchronous mirror push

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataFile string // path to the gems JSON file (created on first write)
	SeedFile string // optional YAML imported when the data file is empty

	// Access gate
	AdminPassword string        // shared admin secret, no default
	CookieSecure  bool          // false only for plain-http local dev
	SessionTTL    time.Duration // session lifetime (default: 24h)
	LoginBurst    int           // login attempts allowed in a burst per client IP
	LoginPerMin   int           // login attempts refilled per minute per client IP

	// Remote mirror (disabled when GitHubToken is empty)
	GitHubToken    string
	GitHubOwner    string
	GitHubRepo     string
	GitHubPath     string        // ex: "data/gems.json"
	GitHubBranch   string        // optional, repo default branch when empty
	GitHubAPIURL   string        // optional, for GitHub Enterprise or tests
	SyncTimeout    time.Duration // timeout for one mirror push (default: 15s)
	MirrorInterval time.Duration // periodic full resync, 0 = disabled

	// Redis session store (optional, in-process sessions when RedisAddr is empty)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict healthz/readyz to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// MirrorEnabled reports whether a GitHub token was configured.
func (c *Config) MirrorEnabled() bool {
	return c.GitHubToken != ""
}

// RedisEnabled reports whether sessions should live in Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("GEMS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("GEMS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("GEMS_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("GEMS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("GEMS_PRETTY_LOG", true),

		// Storage
		DataFile: getenv("GEMS_DATA_FILE", "data/gems.json"),
		SeedFile: getenv("GEMS_SEED_FILE", ""),

		// Access gate
		AdminPassword: requireEnv("GEMS_ADMIN_PASSWORD"),
		CookieSecure:  mustBool("GEMS_COOKIE_SECURE", true),
		SessionTTL:    mustDuration("GEMS_SESSION_TTL", 24*time.Hour),
		LoginBurst:    getenvInt("GEMS_LOGIN_BURST", 5),
		LoginPerMin:   getenvInt("GEMS_LOGIN_PER_MIN", 5),

		// Remote mirror
		GitHubToken:    getenv("GEMS_GITHUB_TOKEN", ""),
		GitHubOwner:    getenv("GEMS_GITHUB_OWNER", ""),
		GitHubRepo:     getenv("GEMS_GITHUB_REPO", ""),
		GitHubPath:     getenv("GEMS_GITHUB_PATH", "data/gems.json"),
		GitHubBranch:   getenv("GEMS_GITHUB_BRANCH", ""),
		GitHubAPIURL:   getenv("GEMS_GITHUB_API_URL", ""),
		SyncTimeout:    mustDuration("GEMS_SYNC_TIMEOUT", 15*time.Second),
		MirrorInterval: mustDuration("GEMS_MIRROR_INTERVAL", 0),

		// Redis settings
		RedisAddr:           getenv("GEMS_REDIS_ADDR", ""),
		RedisUser:           getenv("GEMS_REDIS_USERNAME", ""),
		RedisPassword:       getenv("GEMS_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("GEMS_REDIS_DB", 0),
		RedisDT:             mustDuration("GEMS_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("GEMS_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("GEMS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("GEMS_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("GEMS_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("GEMS_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("GEMS_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("GEMS_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("GEMS_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("GEMS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("GEMS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("GEMS_TRUST_PROXY", false),
	}

	// A mirror without a target is a configuration mistake, not a disabled mirror
	if cfg.MirrorEnabled() && (cfg.GitHubOwner == "" || cfg.GitHubRepo == "") {
		panic("❌ FATAL: GEMS_GITHUB_OWNER and GEMS_GITHUB_REPO are required when GEMS_GITHUB_TOKEN is set")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.AdminPassword = redact(cp.AdminPassword)
	cp.GitHubToken = redact(cp.GitHubToken)
	cp.RedisPassword = redact(cp.RedisPassword)
	cp.RedisUser = redact(cp.RedisUser)
	return cp
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return "***REDACTED***"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
