// Package config загружает конфигурацию сервера из YAML файла и переменных окружения.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./config.yaml;
//  4. только ENV (cleanenv).
//
// Переменные окружения всегда накладываются поверх значений из файла.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/iudanet/leaguehub/internal/crypto"
)

// Окружения, влияющие на формат логов
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultPath файл, который ищется в рабочей директории
const DefaultPath = "config.yaml"

// Config - корневая конфигурация сервера.
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel  string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	JWT       JWTConfig       `yaml:"jwt"`
	Argon2    Argon2Config    `yaml:"argon2"`
	Locale    LocaleConfig    `yaml:"locale"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Admin     AdminConfig     `yaml:"admin"`
}

// HTTPConfig - публичный REST сервер.
type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// StorageConfig выбирает реализацию хранилища.
// Для sqlite DSN - путь к файлу, для postgres - URL подключения.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" env:"STORAGE_DSN" env-default:"leaguehub.db"`
}

// JWTConfig содержит параметры выпуска и проверки токенов.
type JWTConfig struct {
	AccessSecret    string        `yaml:"access_secret" env:"JWT_ACCESS_SECRET"`
	RefreshSecret   string        `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET"`
	Issuer          string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"leaguehub"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

// Argon2Config - стоимость хеширования паролей и refresh token.
type Argon2Config struct {
	Time    uint32 `yaml:"time" env:"ARGON2_TIME" env-default:"1"`
	Memory  uint32 `yaml:"memory_kib" env:"ARGON2_MEMORY_KIB" env-default:"65536"`
	Threads uint8  `yaml:"threads" env:"ARGON2_THREADS" env-default:"4"`
	KeyLen  uint32 `yaml:"key_len" env:"ARGON2_KEY_LEN" env-default:"32"`
	SaltLen uint32 `yaml:"salt_len" env:"ARGON2_SALT_LEN" env-default:"16"`
}

// Params переводит конфигурацию в параметры crypto.Argon2Hasher.
func (a Argon2Config) Params() crypto.Params {
	return crypto.Params{
		Time:    a.Time,
		Memory:  a.Memory,
		Threads: a.Threads,
		KeyLen:  a.KeyLen,
		SaltLen: a.SaltLen,
	}
}

// LocaleConfig - единый набор поддерживаемых языков.
type LocaleConfig struct {
	Supported []string `yaml:"supported" env:"LOCALE_SUPPORTED" env-default:"uz,ru,en,kk,oz,qq"`
	Default   string   `yaml:"default" env:"LOCALE_DEFAULT" env-default:"uz"`
}

// RedisConfig - кэш ответов client API. Пустой URL отключает кэш.
type RedisConfig struct {
	URL string        `yaml:"url" env:"REDIS_URL"`
	TTL time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"60s"`
}

// Enabled сообщает, настроен ли кэш.
func (r RedisConfig) Enabled() bool { return r.URL != "" }

// RateLimitConfig ограничивает попытки входа с одного IP.
type RateLimitConfig struct {
	SignInAttempts int           `yaml:"sign_in_attempts" env:"RATE_LIMIT_SIGN_IN_ATTEMPTS" env-default:"5"`
	Window         time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`

	// IP или CIDR прокси, которым разрешено передавать X-Forwarded-For / X-Real-IP
	TrustedProxies []string `yaml:"trusted_proxies" env:"RATE_LIMIT_TRUSTED_PROXIES"`
}

// AdminConfig - первый администратор, создается при старте, если его еще нет.
// Пустой email отключает bootstrap.
type AdminConfig struct {
	Name     string `yaml:"name" env:"ADMIN_NAME" env-default:"Administrator"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// MustLoad - обертка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает и проверяет конфигурацию.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func read(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./config.yaml
	if _, err := os.Stat(DefaultPath); err == nil {
		return tryRead(DefaultPath)
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	return &cfg, nil
}

// Validate проверяет значения, которые нельзя выразить тегами cleanenv.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		errs = append(errs, fmt.Errorf("env must be one of %q, %q, %q", EnvLocal, EnvDev, EnvProd))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q", DriverSQLite, DriverPostgres))
	}
	if c.Storage.DSN == "" {
		errs = append(errs, errors.New("storage.dsn is required"))
	}

	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("jwt.access_secret and jwt.refresh_secret are required"))
	} else if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("jwt access and refresh secrets must differ"))
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("jwt token ttl must be positive"))
	}

	if err := c.Argon2.Params().Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(c.Locale.Supported) == 0 {
		errs = append(errs, errors.New("locale.supported must not be empty"))
	} else if !slices.Contains(c.Locale.Supported, c.Locale.Default) {
		errs = append(errs, fmt.Errorf("locale.default %q is not in locale.supported", c.Locale.Default))
	}

	if c.Redis.Enabled() && c.Redis.TTL <= 0 {
		errs = append(errs, errors.New("redis.ttl must be positive"))
	}

	if c.RateLimit.SignInAttempts <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit values must be positive"))
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			errs = append(errs, fmt.Errorf("rate_limit.trusted_proxies: invalid address %q", proxy))
		}
	}

	if c.Admin.Email != "" && c.Admin.Password == "" {
		errs = append(errs, errors.New("admin.password is required when admin.email is set"))
	}

	return errors.Join(errs...)
}

func validProxy(raw string) bool {
	if _, err := netip.ParsePrefix(raw); err == nil {
		return true
	}
	_, err := netip.ParseAddr(raw)
	return err == nil
}
