package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
	"github.com/yourusername/yt-audio-go/pkg/logger"
)

// environment holds the components built from the configuration
type environment struct {
	config   *domain.Config
	logger   *zap.Logger
	events   *logger.MultiLogger
	history  *infrastructure.SQLiteHistoryRepository
	archiver *app.Archiver
}

func newEnvironment(configPath string) (*environment, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	env := &environment{config: config, logger: log}

	if err := createDirectories(config); err != nil {
		return nil, err
	}

	if config.Logging.LogsDir != "" {
		env.events, err = logger.NewMultiLogger(logger.MultiLoggerConfig{
			Level:   config.Logging.Level,
			LogsDir: config.Logging.LogsDir,
		})
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("failed to initialize event log: %w", err)
		}
	}

	if config.History.Enabled {
		env.history, err = infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("failed to initialize history: %w", err)
		}
	}

	client := infrastructure.NewYTDLPClient(&config.Downloader, config.Library.DataDir, config.Logging.LogsDir, log)
	tagger := infrastructure.NewID3Tagger()
	library := infrastructure.NewDirLibrary(config.Library.DataDir, tagger, log)

	env.archiver = app.NewArchiver(client, tagger, library, log)
	if env.history != nil {
		env.archiver.SetHistoryRepository(env.history)
	}
	if env.events != nil {
		env.archiver.SetEventLogger(env.events)
	}
	if config.Notification.Enabled {
		env.archiver.SetNotifier(infrastructure.NewNotificationService(&config.Notification, log))
	}

	return env, nil
}

// createDirectories creates the directories holding the history database and
// the logs. The data directory is left to the library.
func createDirectories(config *domain.Config) error {
	dirs := []string{config.Logging.LogsDir}
	if config.History.Enabled {
		dirs = append(dirs, filepath.Dir(config.History.DatabasePath))
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// playlistURL returns the URL given on the command line or the configured one
func (e *environment) playlistURL(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return e.config.Playlist.URL
}

// Close releases the history database and flushes the logs. It may be called
// more than once.
func (e *environment) Close() {
	if e.history != nil {
		if err := e.history.Close(); err != nil {
			e.logger.Warn("Failed to close history database", zap.Error(err))
		}
		e.history = nil
	}
	if e.events != nil {
		e.events.Close()
		e.events = nil
	}
	_ = e.logger.Sync()
}
