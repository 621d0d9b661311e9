package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int
	Env            string // "development" | "production" | "testing"
	Database       DatabaseRuntimeConfig
	Redis          RedisRuntimeConfig
	DSN            string // resolved driver DSN
	RedisURL       string
	AllowedOrigins []string
	JWTSecret      string
	Timezone       string
	Paths          RuntimePathsConfig
	Upload         UploadConfig
	Content        ContentConfig
	Cache          CacheConfig
	RateLimit      RateLimitConfig
	Extractor      ExtractorConfig
	AI             AIConfig
}

type DatabaseRuntimeConfig struct {
	Driver    string
	DSN       string
	URL       string
	Path      string
	Host      string
	Port      int
	User      string
	Password  string
	Name      string
	Charset   string
	ParseTime bool
	Loc       string
	SSLMode   string
	Params    map[string]string
}

type RedisRuntimeConfig struct {
	Enable   bool
	URL      string
	Host     string
	Port     int
	Username string
	Password string
	DB       int
	TLS      bool
	Scheme   string
	Params   map[string]string
}

type RuntimePathsConfig struct {
	Logs    string
	Uploads string
}

type UploadConfig struct {
	MaxSizeMB int
}

// ContentConfig bounds the text flowing through the summarize pipeline.
type ContentConfig struct {
	MaxChars          int
	SnapshotChars     int
	MinTextChars      int
	MinExtractedChars int
}

type CacheConfig struct {
	Enable        bool
	ExtractionTTL time.Duration
}

type RateLimitConfig struct {
	Enable    bool
	PerMinute int
	PerHour   int
	PerDay    int
}

type ExtractorConfig struct {
	FetchTimeout     time.Duration
	UserAgent        string
	CaptionLanguages []string
}

type AIConfig struct {
	Enable   bool
	Provider AIProvider
}

type AIProvider struct {
	Type         string // openai | openai-compatible | anthropic
	APIKey       string
	Endpoint     string
	DefaultModel string
}

type rawAppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"`
	DatabaseURL    string             `yaml:"database_url"`
	RedisURL       string             `yaml:"redis_url"`
	Database       rawDatabaseConfig  `yaml:"database"`
	Redis          rawRedisConfig     `yaml:"redis"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	CORSOrigins    []string           `yaml:"cors_origins"`
	JWTSecret      string             `yaml:"jwt_secret"`
	SecretKey      string             `yaml:"secret_key"`
	Timezone       string             `yaml:"timezone"`
	Paths          rawPathsConfig     `yaml:"paths"`
	UploadFolder   string             `yaml:"upload_folder"`
	Upload         rawUploadConfig    `yaml:"upload"`
	Content        rawContentConfig   `yaml:"content"`
	Cache          rawCacheConfig     `yaml:"cache"`
	RateLimit      rawRateLimitConfig `yaml:"rate_limit"`
	Extractor      rawExtractorConfig `yaml:"extractor"`
	AI             rawAIConfig        `yaml:"ai"`
}

type rawDatabaseConfig struct {
	Driver    string            `yaml:"driver"`
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Path      string            `yaml:"path"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	SSLMode   string            `yaml:"sslmode"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	Enable   *bool             `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       *int              `yaml:"db"`
	TLS      *bool             `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

type rawPathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
}

type rawUploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

type rawContentConfig struct {
	MaxChars          int `yaml:"max_chars"`
	SnapshotChars     int `yaml:"snapshot_chars"`
	MinTextChars      int `yaml:"min_text_chars"`
	MinExtractedChars int `yaml:"min_extracted_chars"`
}

type rawCacheConfig struct {
	Enable             *bool `yaml:"enable"`
	ExtractionTTLHours int   `yaml:"extraction_ttl_hours"`
}

type rawRateLimitConfig struct {
	Enable    *bool `yaml:"enable"`
	PerMinute int   `yaml:"per_minute"`
	PerHour   int   `yaml:"per_hour"`
	PerDay    int   `yaml:"per_day"`
}

type rawExtractorConfig struct {
	FetchTimeoutSeconds int      `yaml:"fetch_timeout_seconds"`
	UserAgent           string   `yaml:"user_agent"`
	CaptionLanguages    []string `yaml:"caption_languages"`
}

type rawAIConfig struct {
	Enable   *bool         `yaml:"enable"`
	Provider rawAIProvider `yaml:"provider"`
}

type rawAIProvider struct {
	Type         string `yaml:"type"`
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
}

// Load reads the YAML config at configPath and applies environment overrides.
// A missing file is tolerated only for the default path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	raw := rawAppConfig{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	return build(raw, os.Getenv)
}

// Default returns the configuration used when no file is present, for the given env.
func Default(env string) *AppConfig {
	cfg, _ := build(rawAppConfig{Env: env}, func(string) string { return "" })
	return cfg
}

func build(raw rawAppConfig, getenv func(string) string) (*AppConfig, error) {
	applyRawEnv(&raw, getenv)

	cfg := defaultAppConfig(normalizeEnv(raw.Env))
	applyRawAppConfig(&cfg, raw)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Database.Port < 0 || cfg.Database.Port > 65535 {
		return nil, fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	switch cfg.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database.driver %q", cfg.Database.Driver)
	}
	if cfg.Content.SnapshotChars > cfg.Content.MaxChars {
		cfg.Content.SnapshotChars = cfg.Content.MaxChars
	}
	return &cfg, nil
}

func defaultAppConfig(env string) AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  env,
		Database: DatabaseRuntimeConfig{
			Driver:    defaultDBDriver,
			Path:      defaultSQLitePath,
			Host:      defaultDBHost,
			User:      defaultDBUser,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Paths: RuntimePathsConfig{
			Logs:    defaultLogsDir,
			Uploads: defaultUploadsDir,
		},
		Upload: UploadConfig{MaxSizeMB: defaultUploadMaxSizeMB},
		Content: ContentConfig{
			MaxChars:          defaultMaxContentChars,
			SnapshotChars:     defaultSnapshotChars,
			MinTextChars:      defaultMinTextChars,
			MinExtractedChars: defaultMinExtractedChars,
		},
		Cache: CacheConfig{Enable: true, ExtractionTTL: defaultExtractionTTL},
		RateLimit: RateLimitConfig{
			Enable:    true,
			PerMinute: defaultRatePerMinute,
			PerHour:   defaultRatePerHour,
			PerDay:    defaultRatePerDay,
		},
		Extractor: ExtractorConfig{
			FetchTimeout:     defaultFetchTimeout,
			UserAgent:        defaultUserAgent,
			CaptionLanguages: append([]string(nil), defaultCaptionLanguages...),
		},
	}
	if env == EnvTesting {
		cfg.Database.Path = ":memory:"
		cfg.RateLimit.Enable = false
	}
	return cfg
}

// applyRawEnv layers the well-known environment variables over the file values.
func applyRawEnv(raw *rawAppConfig, getenv func(string) string) {
	if v := strings.TrimSpace(getenv("QUICKY_ENV")); v != "" {
		raw.Env = v
	}
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			raw.Port = port
		}
	}
	if v := strings.TrimSpace(getenv("DATABASE_URL")); v != "" {
		raw.DatabaseURL = v
	}
	if v := strings.TrimSpace(getenv("REDIS_URL")); v != "" {
		raw.RedisURL = v
	}
	if v := strings.TrimSpace(getenv("SECRET_KEY")); v != "" {
		raw.SecretKey = v
	}
	if v := strings.TrimSpace(getenv("CORS_ORIGINS")); v != "" {
		raw.CORSOrigins = strings.Split(v, ",")
	}
	if v := strings.TrimSpace(getenv("UPLOAD_FOLDER")); v != "" {
		raw.UploadFolder = v
	}
	if v := strings.TrimSpace(getenv("OPENAI_API_KEY")); v != "" && raw.AI.Provider.APIKey == "" {
		raw.AI.Provider.APIKey = v
		if raw.AI.Provider.Type == "" {
			raw.AI.Provider.Type = "openai"
		}
	}
	if v := strings.TrimSpace(getenv("ANTHROPIC_API_KEY")); v != "" && raw.AI.Provider.APIKey == "" {
		raw.AI.Provider.APIKey = v
		if raw.AI.Provider.Type == "" {
			raw.AI.Provider.Type = "anthropic"
		}
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSOrigins)
	}

	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.SecretKey); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}

	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.Paths.Uploads); v != "" {
		cfg.Paths.Uploads = v
	}
	if v := strings.TrimSpace(raw.UploadFolder); v != "" {
		cfg.Paths.Uploads = v
	}
	if raw.Upload.MaxSizeMB > 0 {
		cfg.Upload.MaxSizeMB = raw.Upload.MaxSizeMB
	}

	if raw.Content.MaxChars > 0 {
		cfg.Content.MaxChars = raw.Content.MaxChars
	}
	if raw.Content.SnapshotChars > 0 {
		cfg.Content.SnapshotChars = raw.Content.SnapshotChars
	}
	if raw.Content.MinTextChars > 0 {
		cfg.Content.MinTextChars = raw.Content.MinTextChars
	}
	if raw.Content.MinExtractedChars > 0 {
		cfg.Content.MinExtractedChars = raw.Content.MinExtractedChars
	}

	if raw.Cache.Enable != nil {
		cfg.Cache.Enable = *raw.Cache.Enable
	}
	if raw.Cache.ExtractionTTLHours > 0 {
		cfg.Cache.ExtractionTTL = time.Duration(raw.Cache.ExtractionTTLHours) * time.Hour
	}

	if raw.RateLimit.Enable != nil {
		cfg.RateLimit.Enable = *raw.RateLimit.Enable
	}
	if raw.RateLimit.PerMinute > 0 {
		cfg.RateLimit.PerMinute = raw.RateLimit.PerMinute
	}
	if raw.RateLimit.PerHour > 0 {
		cfg.RateLimit.PerHour = raw.RateLimit.PerHour
	}
	if raw.RateLimit.PerDay > 0 {
		cfg.RateLimit.PerDay = raw.RateLimit.PerDay
	}

	if raw.Extractor.FetchTimeoutSeconds > 0 {
		cfg.Extractor.FetchTimeout = time.Duration(raw.Extractor.FetchTimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.Extractor.UserAgent); v != "" {
		cfg.Extractor.UserAgent = v
	}
	if langs := normalizeOrigins(raw.Extractor.CaptionLanguages); len(langs) > 0 {
		cfg.Extractor.CaptionLanguages = langs
	}

	if raw.AI.Enable != nil {
		cfg.AI.Enable = *raw.AI.Enable
	}
	cfg.AI.Provider = AIProvider{
		Type:         normalizeProviderType(raw.AI.Provider.Type),
		APIKey:       strings.TrimSpace(raw.AI.Provider.APIKey),
		Endpoint:     strings.TrimSpace(raw.AI.Provider.Endpoint),
		DefaultModel: strings.TrimSpace(raw.AI.Provider.DefaultModel),
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	db := raw.Database
	if v := strings.TrimSpace(db.Driver); v != "" {
		cfg.Driver = v
	}
	if v := strings.TrimSpace(db.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(db.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(db.Path); v != "" {
		cfg.Path = v
	}
	if v := strings.TrimSpace(db.Host); v != "" {
		cfg.Host = v
	}
	if db.Port != 0 {
		cfg.Port = db.Port
	}
	if v := strings.TrimSpace(db.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(db.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(db.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		cfg.Charset = v
	}
	if db.ParseTime != nil {
		cfg.ParseTime = *db.ParseTime
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		cfg.Loc = v
	}
	if v := strings.TrimSpace(db.SSLMode); v != "" {
		cfg.SSLMode = v
	}
	if db.Params != nil {
		cfg.Params = copyStringMap(db.Params)
	}
	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	r := raw.Redis
	if r.Enable != nil {
		cfg.Enable = *r.Enable
	}
	if v := strings.TrimSpace(r.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
		if r.Enable == nil {
			cfg.Enable = true
		}
	}
	if v := strings.TrimSpace(r.Host); v != "" {
		cfg.Host = v
	}
	if r.Port != 0 {
		cfg.Port = r.Port
	}
	if v := strings.TrimSpace(r.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(r.Password); v != "" {
		cfg.Password = v
	}
	if r.DB != nil {
		cfg.DB = *r.DB
	}
	if r.TLS != nil {
		cfg.TLS = *r.TLS
	}
	if v := strings.TrimSpace(r.Scheme); v != "" {
		cfg.Scheme = v
	}
	if r.Params != nil {
		cfg.Params = copyStringMap(r.Params)
	}
	return normalizeRedisConfig(cfg)
}

func (c *AppConfig) IsDev() bool { return c.Env == EnvDevelopment }

func (c *AppConfig) IsTesting() bool { return c.Env == EnvTesting }

func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, defaultLogsDir)
}

func (c *AppConfig) UploadDir() string {
	return ResolveRuntimePath(c.Paths.Uploads, defaultUploadsDir)
}

// UploadMaxBytes is the request body cap for multipart uploads.
func (c *AppConfig) UploadMaxBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}
