package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	envURL = "PROMISCUITY_URL"
	envKey = "PROMISCUITY_API_KEY"
)

type configFile struct {
	// Flat format
	URL    string `yaml:"url,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles,omitempty"`
	ActiveProfile string                   `yaml:"active_profile,omitempty"`
}

type configProfile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".promiscuity", "config.yaml"), nil
}

// loadConfigFile returns the config path even when reading it fails.
func loadConfigFile() (string, *configFile, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}
	return cfgPath, &cfg, nil
}

// settings resolves the active profile, falling back to the flat keys.
func (c *configFile) settings() (url, apiKey string) {
	if c == nil {
		return "", ""
	}
	url, apiKey = c.URL, c.APIKey
	if c.Profiles == nil {
		return url, apiKey
	}
	name := c.ActiveProfile
	if name == "" {
		name = "default"
	}
	if p, ok := c.Profiles[name]; ok {
		if p.URL != "" {
			url = p.URL
		}
		if p.APIKey != "" {
			apiKey = p.APIKey
		}
	}
	return url, apiKey
}

// resolveSettings applies flag, then env, then config file precedence. A URL
// equal to the default counts as unset.
func resolveSettings(url, apiKey string, cfg *configFile) (string, string) {
	if url == defaultURL {
		if v := os.Getenv(envURL); v != "" {
			url = v
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv(envKey)
	}

	fileURL, fileKey := cfg.settings()
	if url == defaultURL && fileURL != "" {
		url = fileURL
	}
	if apiKey == "" {
		apiKey = fileKey
	}
	return url, apiKey
}

func resolveConfig() {
	// A missing or malformed config file leaves flags and env in charge.
	_, cfg, _ := loadConfigFile()
	flagURL, flagKey = resolveSettings(flagURL, flagKey, cfg)
}

func writeConfig(url, apiKey string) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	cfg := configFile{
		Profiles: map[string]configProfile{
			"default": {URL: url, APIKey: apiKey},
		},
		ActiveProfile: "default",
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}
	return cfgPath, nil
}
