package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	OpenAI  OpenAIConfig  `yaml:"openai" mapstructure:"openai"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Client  ClientConfig  `yaml:"client" mapstructure:"client"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the sales dataset file.
type DatasetConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OpenAIConfig holds OpenAI API settings. Key is required only when
// insight generation is actually invoked; the data tools work without it.
type OpenAIConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	Model           string  `yaml:"model" mapstructure:"model"`
	Temperature     float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
}

// ServerConfig configures the tool server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// ClientConfig configures the interactive client.
type ClientConfig struct {
	ServerURL   string `yaml:"server_url" mapstructure:"server_url"`
	HistoryFile string `yaml:"history_file" mapstructure:"history_file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SALES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "data/online_sales.csv")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.2)
	v.SetDefault("openai.max_output_tokens", 700)
	v.SetDefault("server.port", 8080)
	v.SetDefault("client.server_url", "http://127.0.0.1:8080/mcp")
	v.SetDefault("client.history_file", ".sales_analyzer_history")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
