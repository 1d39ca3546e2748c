package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	AdminEmail string
}

// Load reads config from environment (PROBANK_ prefix) and optional
// probank.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PROBANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("probank")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.AdminEmail = v.GetString("admin_email")

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("PROBANK_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("PROBANK_DB_DSN is required")
	}

	return cfg, nil
}
