package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr            string
	DefaultGardenID string
	PresetFile      string
	WatchPreset     bool
	TickInterval    time.Duration
	GeneratorURL    string
	GrowthCeiling   float64
	LogLevel        string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig loads server configuration from CLI flags and environment variables.
// Uses a resolver pattern to make it easy to add new configuration options.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	// Define all configuration resolvers
	// To add a new option, just add a new resolver here
	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "FLORASIM_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "garden-id",
			envVarName:  "FLORASIM_GARDEN_ID",
			defaultVal:  "default",
			description: "garden ID created at startup",
			setter:      func(c *ServerConfig, v string) { c.DefaultGardenID = v },
		},
		{
			flagName:    "preset-file",
			envVarName:  "FLORASIM_PRESET_FILE",
			defaultVal:  "",
			description: "optional path to a YAML plant preset to seed the default garden",
			setter:      func(c *ServerConfig, v string) { c.PresetFile = v },
		},
		{
			flagName:    "watch-preset",
			envVarName:  "FLORASIM_WATCH_PRESET",
			defaultVal:  "false",
			description: "reload the default garden when the preset file changes",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.ParseBool(v); err == nil {
					c.WatchPreset = val
				} else {
					log.Printf("Invalid value for watch-preset: %s, using false", v)
					c.WatchPreset = false
				}
			},
		},
		{
			flagName:    "tick-interval",
			envVarName:  "FLORASIM_TICK_INTERVAL",
			defaultVal:  "0s",
			description: "auto-grow interval for the default garden (e.g. 500ms, 2s); 0 disables auto-grow",
			setter: func(c *ServerConfig, v string) {
				if val, err := time.ParseDuration(v); err == nil {
					c.TickInterval = val
				} else {
					log.Printf("Invalid value for tick-interval: %s, auto-grow disabled", v)
					c.TickInterval = 0
				}
			},
		},
		{
			flagName:    "generator-url",
			envVarName:  "FLORASIM_GENERATOR_URL",
			defaultVal:  "",
			description: "URL of the structured-generation service; empty disables AI generation",
			setter:      func(c *ServerConfig, v string) { c.GeneratorURL = v },
		},
		{
			flagName:    "growth-ceiling",
			envVarName:  "FLORASIM_GROWTH_CEILING",
			defaultVal:  "80",
			description: "hard upper bound on part size (80, or 50 for small canvases)",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 {
					c.GrowthCeiling = val
				} else {
					log.Printf("Invalid value for growth-ceiling: %s, using 80", v)
					c.GrowthCeiling = 80
				}
			},
		},
		{
			flagName:    "log-level",
			envVarName:  "FLORASIM_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
	}

	// Register string flags first
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	// Parse flags once
	flag.Parse()

	// Resolve values for each resolver
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}
