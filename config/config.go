package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LogConfig controls where the process logs go.
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"` // empty = stdout/stderr only
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

// ServerConfig is everything the backend reads from the environment.
type ServerConfig struct {
	Address   string        `env:"ADDRESS" envDefault:":8080"`
	GinMode   string        `env:"GIN_MODE" envDefault:"debug"`
	DBDriver  string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN     string        `env:"DB_DSN" envDefault:"floor.db"`
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	CORSOrigins []string `env:"CORS_ORIGIN" envSeparator:"," envDefault:"*"`
	RateLimit   float64  `env:"RATE_LIMIT" envDefault:"50"` // requests per second per IP, 0 disables
	LoginBurst  int      `env:"LOGIN_BURST" envDefault:"5"`

	AlertInterval time.Duration `env:"ALERT_INTERVAL" envDefault:"5s"`
	TokenSweep    string        `env:"TOKEN_SWEEP" envDefault:"@every 15m"` // cron spec
	ReportAt      string        `env:"DAILY_REPORT_AT" envDefault:"00:05"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@floor.local"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	Log LogConfig
}

// ClientConfig is read by floorctl.
type ClientConfig struct {
	APIURL          string        `env:"FLOOR_API_URL" envDefault:"http://localhost:8080"`
	Token           string        `env:"FLOOR_TOKEN"`
	Email           string        `env:"FLOOR_EMAIL"`
	Password        string        `env:"FLOOR_PASSWORD"`
	Timeout         time.Duration `env:"FLOOR_TIMEOUT" envDefault:"10s"`
	CapacityCeiling int           `env:"FLOOR_CAPACITY_CEILING" envDefault:"100"`
	BatchLimit      int           `env:"FLOOR_BATCH_LIMIT" envDefault:"8"`

	Log LogConfig
}

// loadDotEnv loads the given files, or .env when none is given. A missing
// file is not an error.
func loadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			logrus.WithField("file", f).Debug("env file not loaded")
		}
	}
}

func LoadServer(files ...string) (*ServerConfig, error) {
	loadDotEnv(files...)
	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse server config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "mysql" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func LoadClient(files ...string) (*ClientConfig, error) {
	loadDotEnv(files...)
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}

// InitDB opens the database named by cfg.
func InitDB(cfg *ServerConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	default:
		dialector = sqlite.Open(cfg.DBDSN)
	}

	level := logger.Warn
	if cfg.GinMode == "release" {
		level = logger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}
