package domain

// DefaultPlaylistURL is the playlist synced when none is configured
const DefaultPlaylistURL = "https://www.youtube.com/playlist?list=PL8-0BGNjDQR5DfYVRduznf9b404uYXtu5"

// Config represents the application configuration
type Config struct {
	Downloader   DownloaderConfig   `mapstructure:"downloader"`
	Library      LibraryConfig      `mapstructure:"library"`
	Playlist     PlaylistConfig     `mapstructure:"playlist"`
	History      HistoryConfig      `mapstructure:"history"`
	Server       ServerConfig       `mapstructure:"server"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// DownloaderConfig contains settings for the external yt-dlp binary
type DownloaderConfig struct {
	Command             string `mapstructure:"command"`
	ConcurrentFragments int    `mapstructure:"concurrent_fragments"`
}

// LibraryConfig contains settings for the audio library on disk
type LibraryConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// PlaylistConfig contains the playlist to archive
type PlaylistConfig struct {
	URL string `mapstructure:"url"`
}

// HistoryConfig contains settings for the sync history database
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// ServerConfig contains settings for the status API
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	LogsDir    string `mapstructure:"logs_dir"`    // yt-dlp output and event logs
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Downloader: DownloaderConfig{
			Command:             "yt-dlp",
			ConcurrentFragments: 8,
		},
		Library: LibraryConfig{
			DataDir: "data",
		},
		Playlist: PlaylistConfig{
			URL: DefaultPlaylistURL,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "yt-audio.db",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
			LogsDir:    "logs",
		},
	}
}
