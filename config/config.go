// Package config loads the application configuration from a YAML file.
// The floor layout lives here on purpose: the partition of rooms into
// floors is configuration, and changing the hotel must never require
// touching the derivation logic.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warp/frontdesk/hotel"
)

// Config represents the overall application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Hotel  HotelConfig  `yaml:"hotel"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	RequestIPHeader string   `yaml:"request_ip_header"`
}

// DataConfig holds the backing file locations. Both tables are plain
// CSV files; backups land next to them.
type DataConfig struct {
	GuestsFile  string `yaml:"guests_file"`
	ChargesFile string `yaml:"charges_file"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// HotelConfig is the static room layout.
type HotelConfig struct {
	Floors []FloorRange `yaml:"floors"`
}

// FloorRange declares one floor as an inclusive numeric room range.
type FloorRange struct {
	Floor int `yaml:"floor"`
	From  int `yaml:"from"`
	To    int `yaml:"to"`
}

// FloorLayout expands the configured ranges into the domain layout.
func (h HotelConfig) FloorLayout() []hotel.Floor {
	floors := make([]hotel.Floor, 0, len(h.Floors))
	for _, fr := range h.Floors {
		f := hotel.Floor{Number: fr.Floor}
		for room := fr.From; room <= fr.To; room++ {
			f.Rooms = append(f.Rooms, room)
		}
		floors = append(floors, f)
	}
	return floors
}

// Default returns the reference configuration: 53 rooms across three
// floors (101-121, 222-242, 343-353), data under ./data.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			RateLimitPerSec: 20,
			RateLimitBurst:  40,
		},
		Data: DataConfig{
			GuestsFile:  "data/pasajeros.csv",
			ChargesFile: "data/consumos_diarios.csv",
		},
		Hotel: HotelConfig{
			Floors: []FloorRange{
				{Floor: 1, From: 101, To: 121},
				{Floor: 2, From: 222, To: 242},
				{Floor: 3, From: 343, To: 353},
			},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration from the given path. Fields absent from
// the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Data.GuestsFile == "" || c.Data.ChargesFile == "" {
		return fmt.Errorf("guests_file and charges_file must be set")
	}
	for _, fr := range c.Hotel.Floors {
		if fr.To < fr.From {
			return fmt.Errorf("floor %d: room range %d-%d is inverted", fr.Floor, fr.From, fr.To)
		}
	}
	return nil
}
