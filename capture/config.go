package capture

import "github.com/velocityhq/demoreel/capture/internal/config"

// Configuration types are defined in the internal config package and
// re-exported here so callers configure captures without importing
// internals.
type (
	Config        = config.Config
	BrowserConfig = config.BrowserConfig
	PreviewConfig = config.PreviewConfig
)

// Providers lists the provider scopes the target app understands.
var Providers = config.Providers

// LoadConfigFile reads a YAML run configuration.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}
