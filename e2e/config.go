package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config tunes the end-to-end scenario without recompiling.
type Config struct {
	PollInterval time.Duration `envconfig:"E2E_POLL_INTERVAL" default:"20ms"`
	WaitTimeout  time.Duration `envconfig:"E2E_WAIT_TIMEOUT" default:"2s"`
	DebugJSON    bool          `envconfig:"E2E_DEBUG_JSON" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
