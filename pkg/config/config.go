// Owner: august@eternis.ai
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries the runtime settings for the recollect toolkit. Values are
// resolved from the environment first (after a best-effort .env load), then
// from an optional YAML config file, then from built-in defaults.
type Config struct {
	Mem0APIKey         string
	Mem0BaseURL        string
	DefaultUserID      string
	DefaultExtractMode string
	BatchSize          int
	SupportedFormats   []string
	MaxFileSizeMB      int
	SearchDefaultLimit int
	SearchMaxLimit     int
	DBPath             string
}

// fileConfig mirrors the optional config.yaml layout.
type fileConfig struct {
	Mem0 struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"mem0"`
	Defaults struct {
		UserID      string `yaml:"user_id"`
		ExtractMode string `yaml:"extract_mode"`
		BatchSize   int    `yaml:"batch_size"`
	} `yaml:"defaults"`
	FileProcessing struct {
		SupportedFormats []string `yaml:"supported_formats"`
		MaxFileSizeMB    int      `yaml:"max_file_size_mb"`
	} `yaml:"file_processing"`
	Search struct {
		DefaultLimit int `yaml:"default_limit"`
		MaxLimit     int `yaml:"max_limit"`
	} `yaml:"search"`
}

func getEnv(key, defaultValue string, printEnv bool) string {
	logger := log.Default()
	value := os.Getenv(key)
	if printEnv {
		logger.Info("Env", "key", key, "value", value)
	}
	if value == "" {
		return defaultValue
	}
	return value
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return fc, nil
}

func stringOr(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func intOr(value, defaultValue int) int {
	if value <= 0 {
		return defaultValue
	}
	return value
}

func sliceOr(value, defaultValue []string) []string {
	if len(value) == 0 {
		return defaultValue
	}
	return value
}

func LoadConfig(printEnv bool) (*Config, error) {
	_ = godotenv.Load()

	fc, err := loadFileConfig(getEnv("RECOLLECT_CONFIG", "config.yaml", printEnv))
	if err != nil {
		return nil, err
	}

	conf := &Config{
		Mem0APIKey:         getEnv("MEM0_API_KEY", fc.Mem0.APIKey, printEnv),
		Mem0BaseURL:        getEnv("MEM0_BASE_URL", "https://api.mem0.ai", printEnv),
		DefaultUserID:      getEnv("DEFAULT_USER_ID", stringOr(fc.Defaults.UserID, "default_user"), printEnv),
		DefaultExtractMode: stringOr(fc.Defaults.ExtractMode, "auto"),
		BatchSize:          intOr(fc.Defaults.BatchSize, 10),
		SupportedFormats:   sliceOr(fc.FileProcessing.SupportedFormats, []string{".md", ".txt", ".json"}),
		MaxFileSizeMB:      intOr(fc.FileProcessing.MaxFileSizeMB, 10),
		SearchDefaultLimit: intOr(fc.Search.DefaultLimit, 10),
		SearchMaxLimit:     intOr(fc.Search.MaxLimit, 100),
		DBPath:             getEnv("RECOLLECT_DB_PATH", "./output/recollect.db", printEnv),
	}

	return conf, nil
}

// Validate checks that the settings required to reach the memory backend are
// present.
func (c *Config) Validate() error {
	if c.Mem0APIKey == "" {
		return fmt.Errorf("MEM0_API_KEY is not set")
	}
	return nil
}
