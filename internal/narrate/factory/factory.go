package factory

import (
	"fmt"

	"github.com/quantfold/quantfold/internal/config"
	"github.com/quantfold/quantfold/internal/narrate"
	"github.com/quantfold/quantfold/internal/narrate/claude"
	"github.com/quantfold/quantfold/internal/narrate/openai"
)

// New creates a narration provider based on configuration.
func New(cfg config.NarrateConfig) (narrate.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.APIKey, cfg.Model)
	case "openai":
		return openai.New(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown narration provider: %s", cfg.Provider)
	}
}
