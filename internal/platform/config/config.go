package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"` // dev | release
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type JWT struct {
	Secret          string `yaml:"secret"`
	AccessTTLHours  int    `yaml:"access_ttl_hours"`
	RefreshTTLHours int    `yaml:"refresh_ttl_hours"`
}

type CORS struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type Sweep struct {
	IntervalMinutes int `yaml:"interval_minutes"`
}

type Config struct {
	Version string   `yaml:"version"`
	Server  Server   `yaml:"server"`
	DB      Database `yaml:"database"`
	JWT     JWT      `yaml:"jwt"`
	CORS    CORS     `yaml:"cors"`
	Sweep   Sweep    `yaml:"sweep"`
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "dev"
	}
	// Secrets may come from the environment instead of the file.
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	if cfg.JWT.AccessTTLHours <= 0 {
		cfg.JWT.AccessTTLHours = 24
	}
	if cfg.JWT.RefreshTTLHours <= 0 {
		cfg.JWT.RefreshTTLHours = 24 * 7
	}
	if cfg.Sweep.IntervalMinutes <= 0 {
		cfg.Sweep.IntervalMinutes = 60
	}
	return &cfg, nil
}
