package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/breeew/stellar-api/internal/core/srv"
	"github.com/breeew/stellar-api/pkg/types"
)

const (
	STORE_DRIVER_POSTGRES = "postgres"
	STORE_DRIVER_MEMORY   = "memory"

	DEFAULT_SESSION_TTL = 7 * 24 * time.Hour
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var conf CoreConfig
	if err = toml.Unmarshal(raw, &conf); err != nil {
		panic(err)
	}
	return conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr     string      `toml:"addr"`
	Log      Log         `toml:"log"`
	Store    StoreConfig `toml:"store"`
	Postgres PGConfig    `toml:"postgres"`
	Redis    RedisConfig `toml:"redis"`

	AI      srv.AIConfig      `toml:"ai"`
	Scraper srv.ScraperConfig `toml:"scraper"`
	Dataset DatasetConfig     `toml:"dataset"`

	Security Security `toml:"security"`

	Prompt Prompt `toml:"prompt"`
}

// Prompt overrides the built in prompt templates when set.
type Prompt struct {
	Investor   string `toml:"investor"`
	Researcher string `toml:"researcher"`
	Search     string `toml:"search"`
}

func (p Prompt) SummaryOverrides() map[types.Demographic]string {
	return map[types.Demographic]string{
		types.DEMOGRAPHIC_INVESTOR:   p.Investor,
		types.DEMOGRAPHIC_RESEARCHER: p.Researcher,
	}
}

type Security struct {
	JWTSecret string `toml:"jwt_secret"`
	// seconds
	SessionTTL int64 `toml:"session_ttl"`
}

func (s Security) SessionDuration() time.Duration {
	if s.SessionTTL <= 0 {
		return DEFAULT_SESSION_TTL
	}
	return time.Duration(s.SessionTTL) * time.Second
}

func (s *Security) FromENV() {
	s.JWTSecret = os.Getenv("STELLAR_API_SECURITY_JWT_SECRET")
	s.SessionTTL = envInt("STELLAR_API_SECURITY_SESSION_TTL")
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("STELLAR_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Store.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.AI.FromENV()
	c.Security.FromENV()
	c.Dataset.Path = os.Getenv("STELLAR_API_DATASET_PATH")

	c.Scraper.UserAgent = os.Getenv("STELLAR_API_SCRAPER_USER_AGENT")
	c.Scraper.Proxy = os.Getenv("STELLAR_API_SCRAPER_PROXY")
	c.Scraper.Timeout = int(envInt("STELLAR_API_SCRAPER_TIMEOUT"))

	c.Prompt.Investor = os.Getenv("STELLAR_API_PROMPT_INVESTOR")
	c.Prompt.Researcher = os.Getenv("STELLAR_API_PROMPT_RESEARCHER")
	c.Prompt.Search = os.Getenv("STELLAR_API_PROMPT_SEARCH")
}

type StoreConfig struct {
	// postgres (default) or memory
	Driver string `toml:"driver"`
}

func (s *StoreConfig) FromENV() {
	s.Driver = os.Getenv("STELLAR_API_STORE_DRIVER")
}

func (s StoreConfig) DriverName() string {
	if d := strings.ToLower(s.Driver); d != "" {
		return d
	}
	return STORE_DRIVER_POSTGRES
}

type PGConfig struct {
	DSN         string `toml:"dsn"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("STELLAR_API_POSTGRESQL_DSN")
	m.AutoMigrate = os.Getenv("STELLAR_API_POSTGRESQL_AUTO_MIGRATE") == "true"
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("STELLAR_API_REDIS_ADDR")
	r.Password = os.Getenv("STELLAR_API_REDIS_PASSWORD")
	r.DB = int(envInt("STELLAR_API_REDIS_DB"))
}

type DatasetConfig struct {
	Path string `toml:"path"`
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("STELLAR_API_LOG_LEVEL")
	l.Path = os.Getenv("STELLAR_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func envInt(key string) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
