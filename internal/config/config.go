// Package config carrega a configuração do serviço: YAML opcional com
// overrides por variável de ambiente. Todo valor tem default documentado,
// então o serviço sobe sem nenhum arquivo.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Storage struct {
		// postgres | sqlite
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MinIdleConns    int    `yaml:"min_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	// Identity é o provider externo que emite e verifica os tokens de acesso.
	Identity struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Timeout string `yaml:"timeout"`
	} `yaml:"identity"`

	Session struct {
		// Secret assina o cookie de sessão (HS256).
		Secret     string `yaml:"secret"`
		CookieName string `yaml:"cookie_name"`
		TTL        string `yaml:"ttl"`
		Secure     bool   `yaml:"secure"`
		SameSite   string `yaml:"samesite"`

		// Store: memory | redis
		Store struct {
			Kind  string `yaml:"kind"`
			Redis struct {
				Addr   string `yaml:"addr"`
				DB     int    `yaml:"db"`
				Prefix string `yaml:"prefix"`
			} `yaml:"redis"`
		} `yaml:"store"`
	} `yaml:"session"`
}

// Load lê o YAML (se path não vazio), aplica defaults, overrides de env e
// valida. Com path vazio, retorna a configuração só de defaults+env.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 10
	}
	if c.Identity.Timeout == "" {
		c.Identity.Timeout = "10s"
	}
	if c.Session.Secret == "" {
		c.Session.Secret = "your-secret-key"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "lj_session"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "24h"
	}
	if c.Session.SameSite == "" {
		c.Session.SameSite = "Lax"
	}
	if c.Session.Store.Kind == "" {
		c.Session.Store.Kind = "memory"
	}
	if c.Session.Store.Redis.Prefix == "" {
		c.Session.Store.Redis.Prefix = "littlejohn:session:"
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyEnvOverrides sobrescreve campos a partir do ambiente (prefixo LJ_).
func (c *Config) applyEnvOverrides() {
	setStr(&c.App.Env, "LJ_ENV")
	setStr(&c.Server.Addr, "LJ_ADDR")
	setStr(&c.Log.Level, "LJ_LOG_LEVEL")
	if v := os.Getenv("LJ_CORS_ORIGINS"); v != "" {
		c.Server.CORSAllowedOrigins = splitCSV(v)
	}
	// PORT solto (estilo PaaS) tem precedência menor que LJ_ADDR.
	if v := os.Getenv("PORT"); v != "" && os.Getenv("LJ_ADDR") == "" {
		c.Server.Addr = ":" + v
	}

	setStr(&c.Storage.Driver, "LJ_STORAGE_DRIVER")
	setStr(&c.Storage.DSN, "LJ_STORAGE_DSN")
	setStr(&c.Storage.DSN, "DATABASE_URL")

	setStr(&c.Identity.BaseURL, "LJ_IDENTITY_URL")
	setStr(&c.Identity.APIKey, "LJ_IDENTITY_API_KEY")

	setStr(&c.Session.Secret, "SESSION_SECRET")
	setStr(&c.Session.CookieName, "LJ_SESSION_COOKIE")
	setStr(&c.Session.TTL, "LJ_SESSION_TTL")
	setStr(&c.Session.Store.Kind, "LJ_SESSION_STORE")
	setStr(&c.Session.Store.Redis.Addr, "LJ_REDIS_ADDR")
	if v, ok := getEnvInt("LJ_REDIS_DB"); ok {
		c.Session.Store.Redis.DB = v
	}
	if v := os.Getenv("LJ_SESSION_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Session.Secure = b
		}
	}
}

// Validate verifica consistência e formatos de duração.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: storage.driver desconhecido: %q", c.Storage.Driver)
	}
	switch c.Session.Store.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: session.store.kind desconhecido: %q", c.Session.Store.Kind)
	}
	if c.Session.Store.Kind == "redis" && c.Session.Store.Redis.Addr == "" {
		return fmt.Errorf("config: session.store.redis.addr é obrigatório com store redis")
	}
	for _, d := range []string{c.Session.TTL, c.Identity.Timeout} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("config: duração inválida %q: %w", d, err)
		}
	}
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return err
		}
	}
	// Em prod o secret default não serve.
	if strings.EqualFold(c.App.Env, "prod") && c.Session.Secret == "your-secret-key" {
		return fmt.Errorf("config: SESSION_SECRET precisa ser definido em prod")
	}
	return nil
}

// SessionTTL devolve o TTL da sessão já parseado.
func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.TTL)
	return d
}

// IdentityTimeout devolve o timeout do client do provider já parseado.
func (c *Config) IdentityTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Identity.Timeout)
	return d
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
