package config

// Default returns a configuration with default values. It extracts nothing.
func Default() *Config {
	return &Config{
		Response: ResponseConfig{
			Vars: VarsConfig{
				Names:     []string{},
				JSONPaths: map[string]string{},
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
