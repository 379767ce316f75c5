// internal/workers/research/contextual-queries/config.go
package contextualqueries

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Minute,
	}
}
