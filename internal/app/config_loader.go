package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/yt-audio-go/internal/domain"
)

// envAliases binds the plain environment variables the tool has always read
var envAliases = map[string][]string{
	"downloader.command": {"YTAUDIO_DOWNLOADER_COMMAND", "COMMAND"},
	"library.data_dir":   {"YTAUDIO_LIBRARY_DATA_DIR", "DATA_DIR"},
	"playlist.url":       {"YTAUDIO_PLAYLIST_URL", "PLAYLIST_URL"},
}

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, config)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.yt-audio")
	}

	v.SetEnvPrefix("YTAUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, config *domain.Config) {
	for key, value := range configValues(config) {
		v.SetDefault(key, value)
	}
}

// configValues flattens config into viper keys
func configValues(config *domain.Config) map[string]interface{} {
	return map[string]interface{}{
		"downloader.command":              config.Downloader.Command,
		"downloader.concurrent_fragments": config.Downloader.ConcurrentFragments,
		"library.data_dir":                config.Library.DataDir,
		"playlist.url":                    config.Playlist.URL,
		"history.enabled":                 config.History.Enabled,
		"history.database_path":           config.History.DatabasePath,
		"server.host":                     config.Server.Host,
		"server.port":                     config.Server.Port,
		"notification.enabled":            config.Notification.Enabled,
		"notification.method":             config.Notification.Method,
		"logging.level":                   config.Logging.Level,
		"logging.format":                  config.Logging.Format,
		"logging.output_path":             config.Logging.OutputPath,
		"logging.logs_dir":                config.Logging.LogsDir,
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Library.DataDir = expandPath(config.Library.DataDir)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)
	config.Logging.LogsDir = expandPath(config.Logging.LogsDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Downloader.Command == "" {
		return fmt.Errorf("downloader command not configured")
	}

	if config.Downloader.ConcurrentFragments < 1 {
		return fmt.Errorf("concurrent fragments must be at least 1")
	}

	if config.Library.DataDir == "" {
		return fmt.Errorf("data directory not configured")
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Everything inside the data dir that is not a tagged mp3 is deleted on startup
	if config.History.Enabled {
		if config.History.DatabasePath == "" {
			return fmt.Errorf("history database path not configured")
		}
		if isWithin(config.Library.DataDir, config.History.DatabasePath) {
			return fmt.Errorf("history database %s must not be inside the data directory", config.History.DatabasePath)
		}
	}

	if config.Logging.LogsDir != "" && isWithin(config.Library.DataDir, config.Logging.LogsDir) {
		return fmt.Errorf("logs directory %s must not be inside the data directory", config.Logging.LogsDir)
	}

	if out := config.Logging.OutputPath; out != "" && out != "stdout" && out != "stderr" && isWithin(config.Library.DataDir, out) {
		return fmt.Errorf("log output %s must not be inside the data directory", out)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// isWithin reports whether path is dir itself or below it
func isWithin(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range configValues(config) {
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
