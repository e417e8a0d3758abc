package config

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `mapstructure:"port"` // サーバーポート（8080）

	DB DBConfig `mapstructure:"db"`

	JWTSecret string `mapstructure:"jwt_secret"` // JWT検証シークレット

	GoEnv        string `mapstructure:"go_env"`        // dev/prod
	CookieSecure bool   `mapstructure:"cookie_secure"` // visitor_id cookieのSecure属性

	Catalog CatalogConfig `mapstructure:"catalog"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // postgres / sqlite

	URL      string `mapstructure:"url"` // DATABASE_URLがあれば最優先
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`

	SQLitePath string `mapstructure:"sqlite_path"`
}

// トップページの注目商品
type CatalogConfig struct {
	FeaturedSlug  string `mapstructure:"featured_slug"`
	FeaturedLimit int    `mapstructure:"featured_limit"`
}

// 環境変数名との対応
var envKeys = map[string]string{
	"port":                   "PORT",
	"db.driver":              "DB_DRIVER",
	"db.url":                 "DATABASE_URL",
	"db.host":                "POSTGRES_HOST",
	"db.port":                "POSTGRES_PORT",
	"db.user":                "POSTGRES_USER",
	"db.password":            "POSTGRES_PASSWORD",
	"db.name":                "POSTGRES_DB",
	"db.sslmode":             "POSTGRES_SSLMODE",
	"db.sqlite_path":         "SQLITE_PATH",
	"jwt_secret":             "JWT_SECRET",
	"go_env":                 "GO_ENV",
	"cookie_secure":          "COOKIE_SECURE",
	"catalog.featured_slug":  "FEATURED_SLUG",
	"catalog.featured_limit": "FEATURED_LIMIT",
}

// Loadは設定ファイル（任意）と環境変数を読む。環境変数が優先
func Load(configFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "app")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.sqlite_path", "storefront.db")
	v.SetDefault("go_env", "dev")
	v.SetDefault("cookie_secure", true)
	v.SetDefault("catalog.featured_slug", "pan")
	v.SetDefault("catalog.featured_limit", 6)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrapf(err, "bind %s", env)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./deploy/")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DB.Driver {
	case "postgres":
		if c.DB.URL == "" && (c.DB.Host == "" || c.DB.Name == "") {
			return fmt.Errorf("DATABASE_URL or POSTGRES_HOST/POSTGRES_DB is required")
		}
	case "sqlite":
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite: %q", c.DB.Driver)
	}
	if c.Catalog.FeaturedLimit < 0 {
		return fmt.Errorf("FEATURED_LIMIT must be >= 0")
	}
	return nil
}

// ":8080" 形式のアドレス
func (c Config) Addr() string {
	if c.Port != "" && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}
