package config

import "os"

// ExportConfig holds the external render service configuration. When no
// endpoint is configured the export service falls back to an inline JSON
// artifact.
type ExportConfig struct {
	Endpoint  string `json:"endpoint"`
	APIKey    string `json:"-"` // Never serialize
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultExportConfig returns the export configuration from the environment
func DefaultExportConfig() *ExportConfig {
	return &ExportConfig{
		Endpoint:  os.Getenv("EXPORT_RENDERER_URL"),
		APIKey:    os.Getenv("EXPORT_RENDERER_KEY"),
		TimeoutMS: 30000, // network calls use a fixed tens-of-seconds timeout
	}
}

// IsEnabled returns true if an external renderer is configured
func (c *ExportConfig) IsEnabled() bool {
	return c.Endpoint != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
