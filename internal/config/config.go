package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// PublicURL is the externally reachable base URL, used for the
		// QR join links.
		PublicURL string `yaml:"publicUrl"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Game struct {
		QuestionTime string `yaml:"questionTime"`
		Retention    string `yaml:"retention"`
		MaxRooms     int    `yaml:"maxRooms"`
		MaxPlayers   int    `yaml:"maxPlayers"`
	} `yaml:"game"`
}

// Load reads YAML config from path. A missing file is not an error; the
// server runs on defaults with zero setup.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
