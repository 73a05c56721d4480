package config

import "github.com/hyperjump/lindenview/internal/models"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Explain.DepthCap == 0 {
		cfg.Explain.DepthCap = models.DefaultDepthCap
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Output.Sheet == "" {
		cfg.Output.Sheet = "results"
	}
	// Watch defaults to true only when there is a file to watch.
	if cfg.Schema.ConfigPath != "" && cfg.Schema.Watch == nil {
		t := true
		cfg.Schema.Watch = &t
	}
}
