package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Interview  InterviewConfig
	Assessment AssessmentConfig
	Notify     NotifyConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	AutoMigrate bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type StorageConfig struct {
	Dir            string
	PublicBaseURL  string
	MaxResumeBytes int64
	MaxVideoBytes  int64
}

// InterviewConfig holds the qualification threshold on the 0-100 rank scale
// and the slot catalog offered with every invitation.
type InterviewConfig struct {
	QualifyThreshold float64
	SlotsJSON        string
	RecordingTTL     time.Duration
}

type AssessmentConfig struct {
	Engine          string
	GCPProject      string
	GCPLocation     string
	VertexModel     string
	MockSeed        int64 // time-based when ASSESSMENT_MOCK_SEED is unset
	ChatFollowUpMax int
}

type NotifyConfig struct {
	Workers      int
	RatePerSec   float64
	RateBurst    int
	QueueSize    int
	WriteTimeout time.Duration
}

const (
	EngineMock   = "mock"
	EngineVertex = "vertex"
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the process environment. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int64) int64 {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	flt := func(key string, def float64) float64 {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	flag := func(key string, def bool) bool {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		AutoMigrate: flag("DB_AUTO_MIGRATE", false),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                req("DB_HOST"),
		DBPort:                opt("DB_PORT", "5432"),
		DBName:                req("DB_NAME"),
		DBUser:                req("DB_USER"),
		DBPassword:            opt("DB_PASSWORD", ""),
		DBSSLMode:             opt("DB_SSL_MODE", "disable"),
		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD", ""),
		TTL:      dur("REDIS_TTL", 10*time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Storage = StorageConfig{
		Dir:            opt("STORAGE_DIR", "data/blobs"),
		PublicBaseURL:  strings.TrimRight(opt("STORAGE_PUBLIC_BASE_URL", "/files"), "/"),
		MaxResumeBytes: num("STORAGE_MAX_RESUME_BYTES", 5*1024*1024),
		MaxVideoBytes:  num("STORAGE_MAX_VIDEO_BYTES", 512*1024*1024),
	}

	cfg.Interview = InterviewConfig{
		QualifyThreshold: flt("INTERVIEW_QUALIFY_THRESHOLD", 80),
		SlotsJSON:        opt("INTERVIEW_SLOTS", ""),
		RecordingTTL:     dur("INTERVIEW_RECORDING_TTL", 2*time.Hour),
	}

	cfg.Assessment = AssessmentConfig{
		Engine:          strings.ToLower(opt("ASSESSMENT_ENGINE", EngineMock)),
		GCPProject:      opt("GOOGLE_CLOUD_PROJECT", ""),
		GCPLocation:     opt("GOOGLE_CLOUD_LOCATION", "us-central1"),
		VertexModel:     opt("VERTEX_MODEL", "gemini-1.5-flash"),
		MockSeed:        num("ASSESSMENT_MOCK_SEED", time.Now().UnixNano()),
		ChatFollowUpMax: int(num("ASSESSMENT_FOLLOWUP_MAX_WORDS", 25)),
	}

	cfg.Notify = NotifyConfig{
		Workers:      int(num("NOTIFY_WORKERS", 2)),
		RatePerSec:   flt("NOTIFY_RATE_PER_SEC", 20),
		RateBurst:    int(num("NOTIFY_RATE_BURST", 40)),
		QueueSize:    int(num("NOTIFY_QUEUE_SIZE", 256)),
		WriteTimeout: dur("NOTIFY_WRITE_TIMEOUT", 10*time.Second),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	switch cfg.Assessment.Engine {
	case EngineMock:
	case EngineVertex:
		if cfg.Assessment.GCPProject == "" {
			return Config{}, fmt.Errorf("%w: GOOGLE_CLOUD_PROJECT", errMissingRequiredEnv)
		}
	default:
		return Config{}, fmt.Errorf("unknown ASSESSMENT_ENGINE %q", cfg.Assessment.Engine)
	}

	if cfg.Interview.SlotsJSON != "" && !json.Valid([]byte(cfg.Interview.SlotsJSON)) {
		return Config{}, fmt.Errorf("invalid environment variables: INTERVIEW_SLOTS")
	}

	return cfg, nil
}
