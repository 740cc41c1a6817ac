package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/offerdeskhq/offerdesk/internal/evaluate"
)

const (
	configPathEnv     = "OFFERDESK_CONFIG"
	listenAddrEnv     = "OFFERDESK_ADDR"
	databasePathEnv   = "OFFERDESK_DB"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	anthropicModelEnv = "OFFERDESK_ANTHROPIC_MODEL"
	openAIKeyEnv      = "OPENAI_API_KEY"
	openAIModelEnv    = "OFFERDESK_OPENAI_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Profile   ProfileConfig   `yaml:"profile"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig describes the SQLite file location. An empty path keeps
// records in memory only.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AnthropicConfig defines the primary parsing provider.
type AnthropicConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// OpenAIConfig defines the fallback parsing provider, pointed at any
// OpenAI-compatible chat completions endpoint.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// ProfileConfig is the holder profile used when a request does not carry one.
type ProfileConfig struct {
	Tier           string   `yaml:"tier"`
	TotalReach     int      `yaml:"totalReach"`
	EngagementRate float64  `yaml:"engagementRate"`
	Niches         []string `yaml:"niches"`
}

// HolderProfile converts the configured defaults into an engine profile.
func (p ProfileConfig) HolderProfile() evaluate.HolderProfile {
	tier := evaluate.CreatorTier(p.Tier)
	if tier == "" {
		tier = evaluate.DefaultTier
	}
	return evaluate.HolderProfile{
		Tier:           tier,
		TotalReach:     p.TotalReach,
		EngagementRate: p.EngagementRate,
		Niches:         p.Niches,
	}
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(anthropicKeyEnv); v != "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv(anthropicModelEnv); v != "" {
		c.Anthropic.Model = v
	}
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if override.Anthropic.APIKey != "" {
		base.Anthropic.APIKey = override.Anthropic.APIKey
	}
	if override.Anthropic.Model != "" {
		base.Anthropic.Model = override.Anthropic.Model
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.Profile.Tier != "" {
		base.Profile.Tier = override.Profile.Tier
	}
	if override.Profile.TotalReach != 0 {
		base.Profile.TotalReach = override.Profile.TotalReach
	}
	if override.Profile.EngagementRate != 0 {
		base.Profile.EngagementRate = override.Profile.EngagementRate
	}
	if len(override.Profile.Niches) > 0 {
		base.Profile.Niches = override.Profile.Niches
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "offerdesk.db"},
		OpenAI: OpenAIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Profile: ProfileConfig{
			Tier:           string(evaluate.DefaultTier),
			TotalReach:     5000,
			EngagementRate: 3.0,
		},
	}
}
