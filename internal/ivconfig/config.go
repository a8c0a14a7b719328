package ivconfig

import (
	"fmt"
	"net/url"
	"os"

	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"
	yaml "gopkg.in/yaml.v2"

	"github.com/ivcompat/ivcompat/internal/store"
)

// DBConfiguration is the `db` section of the configuration file.
type DBConfiguration struct {
	Host     string `yaml:"host"`
	Name     string `yaml:"db_name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// configurationInFile is the as-parsed shape of the YAML file, kept
// separate from Configuration so env var overrides can be layered on
// top without mutating what was actually on disk.
type configurationInFile struct {
	DB       DBConfiguration `yaml:"db"`
	ListenOn string          `yaml:"listen_on"`
}

// Configuration is the fully resolved, ready-to-use configuration: the
// YAML file's contents with environment variable overrides applied.
type Configuration struct {
	DB       DBConfiguration
	ListenOn string
}

// Load reads and validates the given configuration file, then applies
// IVCOMPAT_DB_* environment overrides on top (the same override pattern
// internal/db/connection.go uses for LIMES_DB_*, just scoped to this
// project's own env var prefix).
func Load(path string) (Configuration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("read configuration file: %w", err)
	}

	var parsed configurationInFile
	err = yaml.UnmarshalStrict(raw, &parsed)
	if err != nil {
		return Configuration{}, fmt.Errorf("parse configuration: %w", err)
	}

	cfg := Configuration{
		DB:       parsed.DB,
		ListenOn: parsed.ListenOn,
	}

	cfg.DB.Host = osext.GetenvOrDefault("IVCOMPAT_DB_HOSTNAME", orDefault(cfg.DB.Host, "localhost"))
	cfg.DB.Name = osext.GetenvOrDefault("IVCOMPAT_DB_NAME", orDefault(cfg.DB.Name, "ivcompat"))
	cfg.DB.User = osext.GetenvOrDefault("IVCOMPAT_DB_USERNAME", orDefault(cfg.DB.User, "postgres"))
	if pw := os.Getenv("IVCOMPAT_DB_PASSWORD"); pw != "" {
		cfg.DB.Password = pw
	}
	cfg.ListenOn = osext.GetenvOrDefault("IVCOMPAT_LISTEN_ON", orDefault(cfg.ListenOn, ":8080"))

	if cfg.DB.Name == "" {
		logg.Fatal("configuration is missing db.db_name")
	}

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// DSN assembles the PostgreSQL connection string for store.Connect.
func (c Configuration) DSN() store.DSN {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DB.User, c.DB.Password),
		Host:   c.DB.Host,
		Path:   "/" + c.DB.Name,
	}
	q := url.Values{}
	q.Set("sslmode", osext.GetenvOrDefault("IVCOMPAT_DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return store.DSN(u.String())
}
