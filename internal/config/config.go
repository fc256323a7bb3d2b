package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	PostgresHost    string
	PostgresPort    string
	PostgresDB      string
	PostgresUser    string
	PostgresPass    string
	PostgresSSLMode string

	RedisAddr string
	RedisDB   int

	SessionTTLSecs   int
	IdempTTLSecs     int
	SubmitRatePerSec float64
	SubmitBurst      int
	LoginRatePerSec  float64
	LoginBurst       int
	SearchLimit      int
	CookieSecure     bool

	// TrustedProxies is a comma-separated CIDR list; empty means the socket
	// peer is the client.
	TrustedProxies string
}

var defaults = map[string]any{
	"APP_PORT":  "8080",
	"APP_ENV":   "development",
	"LOG_LEVEL": "info",

	"DB_DRIVER":   "sqlite",
	"SQLITE_PATH": "instance/app.db",

	"MYSQL_HOST": "mysql",
	"MYSQL_PORT": "3306",
	"MYSQL_DB":   "subsidy",
	"MYSQL_USER": "subsidy",
	"MYSQL_PASS": "subsidy",

	"POSTGRES_HOST":    "postgres",
	"POSTGRES_PORT":    "5432",
	"POSTGRES_DB":      "subsidy",
	"POSTGRES_USER":    "subsidy",
	"POSTGRES_PASS":    "subsidy",
	"POSTGRES_SSLMODE": "disable",

	"REDIS_ADDR": "redis:6379",
	"REDIS_DB":   0,

	"SESSION_TTL_SECONDS":     12 * 60 * 60,
	"IDEMPOTENCY_TTL_SECONDS": 300,
	"SUBMIT_RATE_PER_SEC":     0.5,
	"SUBMIT_BURST":            5,
	"LOGIN_RATE_PER_SEC":      0.2,
	"LOGIN_BURST":             5,
	"TRUSTED_PROXIES":         "",
	"SEARCH_LIMIT":            500,
	"COOKIE_SECURE":           false,
}

// Load reads an optional .env file, then the process environment. Values
// already set in the environment win over .env.
func Load() *Config {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
		_ = v.BindEnv(k)
	}
	v.AutomaticEnv()
	return v
}

// FromViper maps an already-populated viper instance onto Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:  v.GetString("APP_PORT"),
		AppEnv:   v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		SQLitePath: v.GetString("SQLITE_PATH"),

		MySQLHost: v.GetString("MYSQL_HOST"),
		MySQLPort: v.GetString("MYSQL_PORT"),
		MySQLDB:   v.GetString("MYSQL_DB"),
		MySQLUser: v.GetString("MYSQL_USER"),
		MySQLPass: v.GetString("MYSQL_PASS"),

		PostgresHost:    v.GetString("POSTGRES_HOST"),
		PostgresPort:    v.GetString("POSTGRES_PORT"),
		PostgresDB:      v.GetString("POSTGRES_DB"),
		PostgresUser:    v.GetString("POSTGRES_USER"),
		PostgresPass:    v.GetString("POSTGRES_PASS"),
		PostgresSSLMode: v.GetString("POSTGRES_SSLMODE"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),

		SessionTTLSecs:   v.GetInt("SESSION_TTL_SECONDS"),
		IdempTTLSecs:     v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		SubmitRatePerSec: v.GetFloat64("SUBMIT_RATE_PER_SEC"),
		SubmitBurst:      v.GetInt("SUBMIT_BURST"),
		LoginRatePerSec:  v.GetFloat64("LOGIN_RATE_PER_SEC"),
		LoginBurst:       v.GetInt("LOGIN_BURST"),
		SearchLimit:      v.GetInt("SEARCH_LIMIT"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),

		TrustedProxies: v.GetString("TRUSTED_PROXIES"),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDB == "" || c.PostgresUser == "" {
			return errors.New("missing Postgres config (POSTGRES_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.PostgresPort); err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT %q: %w", c.PostgresPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (sqlite, mysql, postgres)", c.DBDriver)
	}
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if c.SessionTTLSecs <= 0 {
		return errors.New("SESSION_TTL_SECONDS must be positive")
	}
	if c.SearchLimit <= 0 {
		return errors.New("SEARCH_LIMIT must be positive")
	}
	if c.SubmitRatePerSec <= 0 || c.SubmitBurst <= 0 {
		return errors.New("SUBMIT_RATE_PER_SEC and SUBMIT_BURST must be positive")
	}
	if c.LoginRatePerSec <= 0 || c.LoginBurst <= 0 {
		return errors.New("LOGIN_RATE_PER_SEC and LOGIN_BURST must be positive")
	}
	if _, err := c.ProxyNets(); err != nil {
		return err
	}
	return nil
}

// ProxyNets parses TrustedProxies.
func (c *Config) ProxyNets() ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, raw := range strings.Split(c.TrustedProxies, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		_, n, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", raw, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "mysql":
		return c.MySQLDSN()
	case "postgres":
		return c.PostgresDSN()
	default:
		return c.SQLiteDSN()
	}
}

// SQLiteDSN enables foreign keys so ON DELETE CASCADE is honored.
func (c *Config) SQLiteDSN() string {
	return "file:" + c.SQLitePath + "?_foreign_keys=1&_busy_timeout=5000"
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPass),
		Host:     net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=" + url.QueryEscape(c.PostgresSSLMode) + "&TimeZone=UTC",
	}
	return u.String()
}
