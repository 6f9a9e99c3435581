// Package config reads the server configuration: a JSON file with
// environment overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultPath = "hunt.json"

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

type DatabaseConfig struct {
	Path string `json:"path"`
}

type LogConfig struct {
	// File enables a rotating log file next to stderr output.
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type DelaysConfig struct {
	FlipBack Duration `json:"flip_back"`
	Settle   Duration `json:"settle"`
}

type Config struct {
	Mode     string         `json:"mode"`
	Addr     string         `json:"addr"`
	Database DatabaseConfig `json:"database"`
	Log      LogConfig      `json:"log"`
	Delays   DelaysConfig   `json:"delays"`
}

func Default() Config {
	return Config{
		Mode:     "development",
		Addr:     "localhost:8000",
		Database: DatabaseConfig{Path: "hunt.db"},
		Log:      LogConfig{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
		Delays: DelaysConfig{
			FlipBack: Duration{time.Second},
			Settle:   Duration{300 * time.Millisecond},
		},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":            c.Mode,
		"addr":            c.Addr,
		"db_path":         c.Database.Path,
		"log_file":        c.Log.File,
		"log_max_size_mb": c.Log.MaxSizeMB,
		"log_max_backups": c.Log.MaxBackups,
		"flip_back":       c.Delays.FlipBack.String(),
		"settle":          c.Delays.Settle.String(),
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// Read loads path over the defaults. A missing file leaves the defaults in
// place; environment overrides apply either way.
func Read(path string) (Config, error) {
	config := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return config, fmt.Errorf("unable to read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(b, &config); err != nil {
			return config, fmt.Errorf("unable to parse config %s: %w", path, err)
		}
	}
	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		"HUNT_MODE":     &c.Mode,
		"HUNT_ADDR":     &c.Addr,
		"HUNT_DB_PATH":  &c.Database.Path,
		"HUNT_LOG_FILE": &c.Log.File,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*field = v
		}
	}
}
