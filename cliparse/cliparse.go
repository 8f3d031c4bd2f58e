package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	MatchWorkers  int
	PseudonymSalt string
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("commonground", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.IntVar(&cfg.MatchWorkers, "match-workers", 0, "Max concurrent candidate lookups")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.PseudonymSalt, "pseudonym-salt", "", "Masked identity salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.MatchWorkers == 0 {
		if workersStr := os.Getenv("MATCH_WORKERS"); workersStr != "" {
			workers, err := strconv.Atoi(workersStr)
			if err != nil {
				return Config{}, errors.New("invalid MATCH_WORKERS env variable")
			}
			cfg.MatchWorkers = workers
		} else {
			cfg.MatchWorkers = 16 // default
		}
	}
	if cfg.MatchWorkers < 0 {
		return Config{}, errors.New("match workers must be positive")
	}

	// Secrets - MUST be provided
	if cfg.PseudonymSalt == "" {
		cfg.PseudonymSalt = os.Getenv("PSEUDONYM_SALT")
	}
	if cfg.PseudonymSalt == "" {
		return Config{}, errors.New("PSEUDONYM_SALT required")
	}

	return cfg, nil
}
