// Package config provides Viper-based configuration loading for the game server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP/WebSocket listener settings.
type ServerConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GameConfig holds room and session tuning.
type GameConfig struct {
	// MaxGuesses is the per-participant attempt budget.
	MaxGuesses int `mapstructure:"max_guesses"`
	// CodeLength is the length of generated room codes.
	CodeLength int `mapstructure:"code_length"`
	// RoomChatLimit bounds each room's chat log.
	RoomChatLimit int `mapstructure:"room_chat_limit"`
	// LobbyChatLimit bounds the global lobby log.
	LobbyChatLimit int `mapstructure:"lobby_chat_limit"`
	// ClientBuffer is the per-connection outbound event buffer size.
	ClientBuffer int `mapstructure:"client_buffer"`
}

// WordsConfig holds the word dataset location.
type WordsConfig struct {
	// Dir is the directory holding countries.yaml and capitals.yaml.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Words   WordsConfig   `mapstructure:"words"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load reads configuration from the given file with environment variable
// overrides (prefix GEOGUESS_, "." replaced by "_").
//
// Postcondition: Returns a validated Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("GEOGUESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper unmarshals and validates configuration from a prepared Viper.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("game.max_guesses", 6)
	v.SetDefault("game.code_length", 6)
	v.SetDefault("game.room_chat_limit", 100)
	v.SetDefault("game.lobby_chat_limit", 50)
	v.SetDefault("game.client_buffer", 64)
	v.SetDefault("words.dir", "content/words")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Words.Dir == "" {
		errs = append(errs, "words.dir must not be empty")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, "server.shutdown_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.MaxGuesses < 1 {
		errs = append(errs, fmt.Sprintf("game.max_guesses must be >= 1, got %d", g.MaxGuesses))
	}
	if g.CodeLength < 4 {
		errs = append(errs, fmt.Sprintf("game.code_length must be >= 4, got %d", g.CodeLength))
	}
	if g.RoomChatLimit < 1 {
		errs = append(errs, fmt.Sprintf("game.room_chat_limit must be >= 1, got %d", g.RoomChatLimit))
	}
	if g.LobbyChatLimit < 1 {
		errs = append(errs, fmt.Sprintf("game.lobby_chat_limit must be >= 1, got %d", g.LobbyChatLimit))
	}
	if g.ClientBuffer < 1 {
		errs = append(errs, fmt.Sprintf("game.client_buffer must be >= 1, got %d", g.ClientBuffer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	if l.Format != "json" && l.Format != "console" {
		return fmt.Errorf("logging.format must be \"json\" or \"console\", got %q", l.Format)
	}
	return nil
}
