// Package config loads and validates the exbuilder configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Source    *SourceConfig   `yaml:"source,omitempty"`
	Folders   []FolderMapping `yaml:"folders"`
	StateFile string          `yaml:"state_file,omitempty"`
}

// SiteConfig carries the site-wide settings every generated page depends on.
type SiteConfig struct {
	Title           string    `yaml:"title"`
	DefaultLang     string    `yaml:"default_lang,omitempty"`
	OutputFolder    string    `yaml:"output_folder,omitempty"`
	CacheFolder     string    `yaml:"cache_folder,omitempty"`
	IndexFile       string    `yaml:"index_file,omitempty"`
	StripIndexes    bool      `yaml:"strip_indexes,omitempty"`
	TemplatesFolder string    `yaml:"templates_folder,omitempty"`
	NavigationLinks []NavLink `yaml:"navigation_links,omitempty"`
}

// NavLink is a single entry of the site navigation.
type NavLink struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SourceConfig configures an optional git repository holding the example
// folders. When set, folder sources are resolved relative to the checkout.
type SourceConfig struct {
	URL       string `yaml:"url"`
	Branch    string `yaml:"branch,omitempty"`
	Workspace string `yaml:"workspace,omitempty"`
}

// FolderMapping maps one source directory of examples to one destination
// directory in the generated site. The example kind is inferred from the
// destination folder name.
type FolderMapping struct {
	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}
