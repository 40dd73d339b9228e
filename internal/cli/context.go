package cli

import (
	"github.com/brandonbloom/testlab/internal/config"
)

func (f *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, usageError(err)
	}
	return cfg, nil
}
