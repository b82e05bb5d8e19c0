// Package config layers console configuration from defaults, a yaml file, a
// .env file, environment variables and command line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultSecret = "default-secret"

var (
	ErrBackendBaseURLRequired = errors.New("backend base url is required")
	ErrNoStaffConfigured      = errors.New("no staff accounts configured")
)

// StaffAccount is one console login. PasswordHash is a bcrypt hash; plain
// passwords never appear in configuration.
type StaffAccount struct {
	Username     string `yaml:"username"`
	Role         string `yaml:"role"`
	PasswordHash string `yaml:"password_hash"`
}

type Config struct {
	Debug bool   `yaml:"debug"`
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`

	Secret                string        `yaml:"secret"`
	AccessTokenExpiration time.Duration `yaml:"access_token_expiration"`
	SessionTTL            time.Duration `yaml:"session_ttl"`

	BackendBaseURL string        `yaml:"backend_base_url"`
	BackendToken   string        `yaml:"backend_token"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`
	UploadBaseURL  string        `yaml:"upload_base_url"`

	AllowOrigins     []string `yaml:"allow_origins"`
	OtelCollectorUrl string   `yaml:"otel_collector_url"`

	Staff []StaffAccount `yaml:"staff"`
}

func (c Config) Validate() error {
	if c.BackendBaseURL == "" {
		return ErrBackendBaseURLRequired
	}
	if len(c.Staff) == 0 {
		return ErrNoStaffConfigured
	}
	for _, s := range c.Staff {
		if s.Username == "" || s.PasswordHash == "" {
			return fmt.Errorf("staff account %q missing username or password hash", s.Username)
		}
	}
	return nil
}

// Log buffers configuration messages raised before the logger exists.
type Log struct {
	entries []entry
}

type entry struct {
	warn bool
	msg  string
}

func (l *Log) info(msg string) { l.entries = append(l.entries, entry{msg: msg}) }
func (l *Log) warn(msg string) { l.entries = append(l.entries, entry{warn: true, msg: msg}) }

func (l *Log) FlushToZap(logger *zap.Logger) {
	for _, e := range l.entries {
		if e.warn {
			logger.Warn(e.msg)
		} else {
			logger.Info(e.msg)
		}
	}
}

func defaultConfig() Config {
	return Config{
		Host:                  "localhost",
		Port:                  "8080",
		Secret:                DefaultSecret,
		AccessTokenExpiration: 15 * time.Minute,
		SessionTTL:            30 * time.Minute,
		BackendTimeout:        10 * time.Second,
		AllowOrigins:          []string{"*"},
	}
}

// Load builds the effective configuration. Later sources override earlier
// ones: defaults, yaml file, .env file, environment, flags.
func Load() (Config, *Log) {
	cfgLog := &Log{}

	cfg := defaultConfig()

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to yaml config file")
	host := flag.String("host", "", "host to serve on")
	port := flag.String("port", "", "port to serve on")
	debug := flag.Bool("debug", false, "enable debug logging")
	backendBaseURL := flag.String("backend_base_url", "", "institute backend base url")
	flag.Parse()

	cfg = loadYamlFile(cfg, *configPath, cfgLog)
	cfg = loadEnvFile(cfg, cfgLog)
	cfg = loadEnv(cfg, cfgLog)

	if *host != "" {
		cfg.Host = *host
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *debug {
		cfg.Debug = true
	}
	if *backendBaseURL != "" {
		cfg.BackendBaseURL = *backendBaseURL
	}

	if cfg.UploadBaseURL == "" {
		cfg.UploadBaseURL = cfg.BackendBaseURL
	}

	return cfg, cfgLog
}

func loadYamlFile(cfg Config, path string, cfgLog *Log) Config {
	if path == "" {
		return cfg
	}

	content, err := os.ReadFile(path)
	if err != nil {
		cfgLog.warn(fmt.Sprintf("Failed to read config file %q: %v", path, err))
		return cfg
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		cfgLog.warn(fmt.Sprintf("Failed to parse config file %q: %v", path, err))
		return cfg
	}

	cfgLog.info(fmt.Sprintf("Loaded config file %q", path))
	return cfg
}

func loadEnvFile(cfg Config, cfgLog *Log) Config {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			cfgLog.warn(fmt.Sprintf("Failed to load .env file: %v", err))
		}
		return cfg
	}

	cfgLog.info("Loaded .env file")
	return cfg
}

func loadEnv(cfg Config, cfgLog *Log) Config {
	setString(&cfg.Host, "HOST")
	setString(&cfg.Port, "PORT")
	setString(&cfg.Secret, "SECRET")
	setString(&cfg.BackendBaseURL, "BACKEND_BASE_URL")
	setString(&cfg.BackendToken, "BACKEND_TOKEN")
	setString(&cfg.UploadBaseURL, "UPLOAD_BASE_URL")
	setString(&cfg.OtelCollectorUrl, "OTEL_COLLECTOR_URL")
	setBool(&cfg.Debug, "DEBUG")
	setDuration(&cfg.AccessTokenExpiration, "ACCESS_TOKEN_EXPIRATION", cfgLog)
	setDuration(&cfg.SessionTTL, "SESSION_TTL", cfgLog)
	setDuration(&cfg.BackendTimeout, "BACKEND_TIMEOUT", cfgLog)

	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = strings.Split(v, ",")
	}

	// One admin account can be injected without a config file.
	username := os.Getenv("ADMIN_USERNAME")
	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if username != "" && passwordHash != "" {
		cfg.Staff = append(cfg.Staff, StaffAccount{
			Username:     username,
			Role:         "admin",
			PasswordHash: passwordHash,
		})
		cfgLog.info(fmt.Sprintf("Added admin account %q from environment", username))
	}

	return cfg
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			*target = parsed
		}
	}
}

func setDuration(target *time.Duration, key string, cfgLog *Log) {
	v := os.Getenv(key)
	if v == "" {
		return
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		cfgLog.warn(fmt.Sprintf("Ignoring invalid duration in %s: %q", key, v))
		return
	}
	*target = parsed
}
