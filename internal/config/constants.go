package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"

	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	defaultPort       = 5000
	defaultEnv        = EnvDevelopment
	defaultDBDriver   = DriverSQLite
	defaultSQLitePath = "quicky.db"
	defaultDBHost     = "127.0.0.1"
	defaultMySQLPort  = 3306
	defaultPGPort     = 5432
	defaultDBUser     = "root"
	defaultDBName     = "quicky"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultUploadsDir      = "uploads"
	defaultLogsDir         = "logs"
	defaultUploadMaxSizeMB = 16

	defaultMaxContentChars   = 50000
	defaultSnapshotChars     = 10000
	defaultMinTextChars      = 50
	defaultMinExtractedChars = 10

	defaultRatePerMinute = 10
	defaultRatePerHour   = 50
	defaultRatePerDay    = 200

	defaultExtractionTTL = 24 * time.Hour
	defaultFetchTimeout  = 10 * time.Second
	defaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var defaultCaptionLanguages = []string{"en"}
