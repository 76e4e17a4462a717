package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from a TOML file.
type Config struct {
	RPCAddress  string `toml:"RPCAddress"`
	MetricsAddr string `toml:"MetricsAddr"`
	DataDir     string `toml:"DataDir"`
	LogLevel    string `toml:"LogLevel"`

	// EngineAccount is the principal the engine holds deposited funds under;
	// incoming transfers addressed to it are treated as bounty deposits.
	EngineAccount string `toml:"EngineAccount"`
	// FeeTreasury receives the fee slice of every distribution.
	FeeTreasury string `toml:"FeeTreasury"`

	// Notification targets wired to badges bound through the engine.
	CriteriaAccount   string `toml:"CriteriaAccount"`
	CumulativeAccount string `toml:"CumulativeAccount"`
	StatisticsAccount string `toml:"StatisticsAccount"`

	Collaborators Collaborators `toml:"Collaborators"`
}

// Collaborators lists the JSON-RPC endpoints of the external services the
// engine depends on.
type Collaborators struct {
	OrgRegistryURL string `toml:"OrgRegistryURL"`
	CriteriaURL    string `toml:"CriteriaURL"`
	BadgesURL      string `toml:"BadgesURL"`
	ReviewsURL     string `toml:"ReviewsURL"`
	TransfersURL   string `toml:"TransfersURL"`
	ChecksURL      string `toml:"ChecksURL"`
}

// Load reads the configuration at path, creating a default file when none
// exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the daemon cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCAddress) == "" {
		return fmt.Errorf("config: RPCAddress is required")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir is required")
	}
	if strings.TrimSpace(c.EngineAccount) == "" {
		return fmt.Errorf("config: EngineAccount is required")
	}
	if strings.TrimSpace(c.FeeTreasury) == "" {
		return fmt.Errorf("config: FeeTreasury is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	if strings.TrimSpace(cfg.CriteriaAccount) == "" {
		cfg.CriteriaAccount = "criteria"
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:        ":8080",
		MetricsAddr:       ":9090",
		DataDir:           "./orgledger-data",
		LogLevel:          "info",
		EngineAccount:     "bounties",
		FeeTreasury:       "treasury",
		CriteriaAccount:   "criteria",
		CumulativeAccount: "cumulative",
		StatisticsAccount: "statistics",
		Collaborators: Collaborators{
			OrgRegistryURL: "http://localhost:8181",
			CriteriaURL:    "http://localhost:8182",
			BadgesURL:      "http://localhost:8183",
			ReviewsURL:     "http://localhost:8184",
			TransfersURL:   "http://localhost:8185",
			ChecksURL:      "http://localhost:8186",
		},
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
