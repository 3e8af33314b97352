package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mind-engage/mindengage-authoring/internal/rbac"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string
	LogMode  string // dev|prod
	SiteID   string

	DBDriver string
	DBDSN    string

	BlobBasePath  string
	ImageMaxBytes int64

	AuthHMACSecret string
	AdminUser      string
	AdminPassHash  string // bcrypt
	AccountSpecs   []string // user:bcrypthash:role

	CORSOrigins []string

	CorrectPolicy string // single|pair

	// quiz-creation endpoint
	SubmitURL          string
	SubmitTimeout      time.Duration
	SubmitTokenURL     string
	SubmitClientID     string
	SubmitClientSecret string
}

// Load reads an optional .env file, then the environment.
func Load(files ...string) Config {
	_ = godotenv.Load(files...) // missing .env is fine
	return FromEnv()
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	logMode := "dev"
	if mode == ModeOnline {
		logMode = "prod"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: envOr("HTTP_ADDR", ":8090"),
		LogMode:  envOr("LOG_MODE", logMode),
		SiteID:   envOr("SITE_ID", "local"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobBasePath:  envOr("BLOB_BASE_PATH", "./data"),
		ImageMaxBytes: envInt64("IMAGE_MAX_BYTES", 5<<20),

		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		AccountSpecs: csvOr("ACCOUNTS", ""),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),

		CorrectPolicy: envOr("CORRECT_POLICY", "single"),

		SubmitURL:          envOr("SUBMIT_URL", "http://localhost:8080/v1/education/quiz/create"),
		SubmitTimeout:      envDuration("SUBMIT_TIMEOUT", 15*time.Second),
		SubmitTokenURL:     os.Getenv("SUBMIT_TOKEN_URL"),
		SubmitClientID:     os.Getenv("SUBMIT_CLIENT_ID"),
		SubmitClientSecret: os.Getenv("SUBMIT_CLIENT_SECRET"),
	}
}

// Account is one login from ACCOUNTS.
type Account struct {
	Username string
	PassHash string
	Role     string
}

// Accounts returns the admin login followed by every ACCOUNTS entry.
// Roles must exist in the rbac policy and usernames must be unique.
func (c Config) Accounts() ([]Account, error) {
	out := []Account{{Username: c.AdminUser, PassHash: c.AdminPassHash, Role: "admin"}}
	seen := map[string]bool{c.AdminUser: true}
	for _, spec := range c.AccountSpecs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("ACCOUNTS entry %q: want user:bcrypthash:role", spec)
		}
		if _, ok := rbac.RolePermissions[parts[2]]; !ok {
			return nil, fmt.Errorf("ACCOUNTS entry for %q: unknown role %q", parts[0], parts[2])
		}
		if seen[parts[0]] {
			return nil, fmt.Errorf("ACCOUNTS: duplicate user %q", parts[0])
		}
		seen[parts[0]] = true
		out = append(out, Account{Username: parts[0], PassHash: parts[1], Role: parts[2]})
	}
	return out, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envInt64(k string, def int64) int64 {
	n, err := strconv.ParseInt(os.Getenv(k), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
