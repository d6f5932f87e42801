package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the console
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	API      APIConfig      `mapstructure:"api"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Database DatabaseConfig `mapstructure:"database"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Projects []Project      `mapstructure:"projects"`
}

// ServerConfig holds the local HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// APIConfig holds API access configuration
type APIConfig struct {
	Key          string   `mapstructure:"key"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// BackendConfig holds the Mini-RAG backend configuration. An empty BaseURL
// means unconfigured: every network-initiating action is rejected per-action
// rather than at startup.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds the session state database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// IngestConfig holds the chunking parameters sent with every process request
type IngestConfig struct {
	ChunkSize   int `mapstructure:"chunk_size"`
	OverlapSize int `mapstructure:"overlap_size"`
}

// Project is an entry in the selectable project catalog. Projects are
// backend-side namespaces; the console only needs their ids and labels.
type Project struct {
	ID   string `mapstructure:"id" json:"id"`
	Name string `mapstructure:"name" json:"name"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("MINIRAG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8090)

	v.SetDefault("api.key", "")
	v.SetDefault("api.allow_origins", []string{"*"})

	v.SetDefault("backend.base_url", "")

	v.SetDefault("database.path", "./data/minirag-console.db")

	v.SetDefault("ingest.chunk_size", 1000)
	v.SetDefault("ingest.overlap_size", 100)

	v.SetDefault("projects", []map[string]any{
		{"id": "1", "name": "Project 1"},
		{"id": "2", "name": "Project 2"},
	})
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// HasProject reports whether id is in the configured project catalog
func (c *Config) HasProject(id string) bool {
	for _, p := range c.Projects {
		if p.ID == id {
			return true
		}
	}
	return false
}
