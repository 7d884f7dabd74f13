package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Log struct {
		Level  string `yaml:"level" json:"level"`
		Format string `yaml:"format" json:"format"`
	} `yaml:"log" json:"log"`

	OpenAI struct {
		Model             string `yaml:"model" json:"model"`
		BaseURL           string `yaml:"base_url" json:"base_url"`
		KeyringAccount    string `yaml:"keyring_account" json:"keyring_account"`
		RequestsPerMinute int    `yaml:"requests_per_minute" json:"requests_per_minute"`
	} `yaml:"openai" json:"openai"`

	Browser struct {
		DebuggerURL    string `yaml:"debugger_url" json:"debugger_url"`
		MatchURL       string `yaml:"match_url" json:"match_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	} `yaml:"browser" json:"browser"`

	Scrape struct {
		MaxMessages      int      `yaml:"max_messages" json:"max_messages"`
		MaxRowChars      int      `yaml:"max_row_chars" json:"max_row_chars"`
		NameMinLen       int      `yaml:"name_min_len" json:"name_min_len"`
		NameMaxLen       int      `yaml:"name_max_len" json:"name_max_len"`
		PlaceholderTexts []string `yaml:"placeholder_texts" json:"placeholder_texts"`
	} `yaml:"scrape" json:"scrape"`
}

// Default mirrors config/config.yml and is used when that file is missing.
func Default() Config {
	var c Config
	c.App.Port = 38472
	c.App.DataDir = "."
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.OpenAI.Model = "gpt-4o-mini"
	c.OpenAI.KeyringAccount = "openai"
	c.Browser.DebuggerURL = "http://127.0.0.1:9222"
	c.Browser.MatchURL = "https://web.whatsapp.com"
	c.Browser.TimeoutSeconds = 10
	c.Scrape.MaxMessages = 15
	c.Scrape.MaxRowChars = 1000
	c.Scrape.NameMinLen = 2
	c.Scrape.NameMaxLen = 50
	c.Scrape.PlaceholderTexts = []string{
		"click here", "contact info", "group info", "search",
		"type a message", "unknown", "profile",
	}
	return c
}

// Load reads the yaml file at path and overlays the environment on top.
// Keys missing from the file keep their Default value.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)
	return cfg, nil
}
