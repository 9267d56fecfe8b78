package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lazharichir/blackjack/domain"
)

const (
	ModeConsole = "console"
	ModeServer  = "server"
)

// Config is the process configuration, read from the environment
type Config struct {
	Mode               string `env:"BLACKJACK_MODE" envDefault:"console"`
	Addr               string `env:"BLACKJACK_ADDR" envDefault:"0.0.0.0:7777"`
	StartingChips      int    `env:"BLACKJACK_STARTING_CHIPS" envDefault:"100"`
	MinBet             int    `env:"BLACKJACK_MIN_BET" envDefault:"1"`
	ReplenishThreshold int    `env:"BLACKJACK_REPLENISH_THRESHOLD" envDefault:"10"`
	DealerStandsOn     int    `env:"BLACKJACK_DEALER_STANDS_ON" envDefault:"17"`
	DeckSeed           int64  `env:"BLACKJACK_DECK_SEED" envDefault:"0"`
	LogLevel           string `env:"BLACKJACK_LOG_LEVEL" envDefault:"info"`
	LogDevelopment     bool   `env:"BLACKJACK_LOG_DEVELOPMENT" envDefault:"false"`
	Debug              bool   `env:"BLACKJACK_DEBUG" envDefault:"false"`
}

// Load reads the optional .env files, then parses the environment. Variables already set
// in the environment win over the files.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings no table could play with
func (c Config) Validate() error {
	var errs []error

	if c.Mode != ModeConsole && c.Mode != ModeServer {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.Mode == ModeServer && c.Addr == "" {
		errs = append(errs, errors.New("server mode needs an address"))
	}
	if c.StartingChips <= 0 {
		errs = append(errs, fmt.Errorf("starting chips must be positive, got %d", c.StartingChips))
	}
	if c.MinBet <= 0 || c.MinBet > c.StartingChips {
		errs = append(errs, fmt.Errorf("minimum bet must be between 1 and the starting chips, got %d", c.MinBet))
	}
	if c.ReplenishThreshold < 0 {
		errs = append(errs, fmt.Errorf("replenish threshold cannot be negative, got %d", c.ReplenishThreshold))
	}
	if c.DealerStandsOn < 2 || c.DealerStandsOn > 21 {
		errs = append(errs, fmt.Errorf("dealer stand value must be between 2 and 21, got %d", c.DealerStandsOn))
	}

	return errors.Join(errs...)
}

// Rules returns the table rules of the configuration
func (c Config) Rules() domain.Rules {
	return domain.Rules{
		StartingChips:      c.StartingChips,
		MinBet:             c.MinBet,
		ReplenishThreshold: c.ReplenishThreshold,
		DealerStandsOn:     c.DealerStandsOn,
	}
}
