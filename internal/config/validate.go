package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that the configuration carries everything the given
// command mode needs. Modes: "validate", "batch", "serve", "extract",
// "audit".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "validate", "batch", "serve":
		problems = append(problems, c.checkCommon()...)
		if mode == "serve" && c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "extract":
		problems = append(problems, c.checkCommon()...)
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	case "audit":
		problems = append(problems, c.checkStore()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) checkCommon() []string {
	var problems []string
	if c.Insee.Token == "" {
		problems = append(problems, "insee.token is required")
	}
	if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 50 {
		problems = append(problems, "batch.max_concurrent must be between 1 and 50")
	}
	if c.Correction.MaxCandidates < 1 {
		problems = append(problems, "correction.max_candidates must be >= 1")
	}
	if c.Audit.Enabled {
		problems = append(problems, c.checkStore()...)
	}
	return problems
}

func (c *Config) checkStore() []string {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return []string{"store.path is required for the sqlite driver"}
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required for the postgres driver"}
		}
	default:
		return []string{fmt.Sprintf("store.driver %q is not supported", c.Store.Driver)}
	}
	return nil
}
