package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "yt-audio [playlist-url]",
		Short: "yt-audio - Archive the audio of a YouTube playlist as tagged MP3 files",
		Long: `Downloads every video of a playlist that is not archived yet, extracts its
audio to MP3 with yt-dlp and tags it with the video title and channel.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runSync,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./configs/config.yaml or ~/.yt-audio/config.yaml)")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initConfigCmd)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

var syncCmd = &cobra.Command{
	Use:   "sync [playlist-url]",
	Short: "Download and tag every playlist video not archived yet",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSync,
}

func runSync(cmd *cobra.Command, args []string) {
	env, err := newEnvironment(configPath)
	if err != nil {
		fatal("%v", err)
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	report, err := env.archiver.Sync(ctx, env.playlistURL(args))
	if err != nil {
		env.logger.Error("Sync failed", zap.Error(err))
		env.Close()
		os.Exit(1)
	}

	fmt.Printf("Synced %d videos: %d downloaded, %d already present, %d failed\n",
		report.Total, report.Downloaded, report.Skipped, report.Failed)
	for _, failure := range report.Failures {
		fmt.Printf("  failed: %s (%s): %v\n", failure.Video.Title, failure.Video.ID, failure.Err)
	}
}

var listCmd = &cobra.Command{
	Use:   "list [playlist-url]",
	Short: "List the playlist and show which videos are archived",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnvironment(configPath)
		if err != nil {
			fatal("%v", err)
		}
		defer env.Close()

		ctx, cancel := signalContext()
		defer cancel()

		entries, err := env.archiver.List(ctx, env.playlistURL(args))
		if err != nil {
			env.Close()
			fatal("%v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCHANNEL\tTITLE\tARCHIVED")
		for _, e := range entries {
			archived := "no"
			if e.Downloaded {
				archived = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				e.Video.ID,
				truncate(e.Video.Channel, 24),
				truncate(e.Video.Title, 50),
				archived)
		}
		w.Flush()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		env, err := newEnvironment(configPath)
		if err != nil {
			fatal("%v", err)
		}
		defer env.Close()

		if env.history == nil {
			env.Close()
			fatal("history is disabled in the configuration")
		}

		runs, err := env.history.ListRuns(limit)
		if err != nil {
			env.Close()
			fatal("%v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tTOTAL\tDOWNLOADED\tSKIPPED\tFAILED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
				truncate(r.ID, 8),
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Status,
				r.Total,
				r.Downloaded,
				r.Skipped,
				r.Failed)
		}
		w.Flush()

		stats, err := env.history.GetStats()
		if err != nil {
			return
		}
		fmt.Println()
		fmt.Println("Track Statistics:")
		fmt.Printf("  Total:      %d\n", stats.Total)
		fmt.Printf("  Downloaded: %d\n", stats.Downloaded)
		fmt.Printf("  Skipped:    %d\n", stats.Skipped)
		fmt.Printf("  Failed:     %d\n", stats.Failed)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the yt-audio and yt-dlp versions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("yt-audio %s\n", version)

		config, err := app.LoadConfig(configPath)
		if err != nil {
			fatal("%v", err)
		}

		client := infrastructure.NewYTDLPClient(&config.Downloader, config.Library.DataDir, "", nil)
		ytdlpVersion, err := client.Probe(cmd.Context())
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("%s %s\n", client.Command(), ytdlpVersion)
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a config file holding the current settings",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			fatal("%v", err)
		}
		if err := app.SaveConfig(config, args[0]); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Config written to %s\n", args[0])
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	serveCmd.Flags().String("host", "", "Listen host (overrides server.host)")
	serveCmd.Flags().Int("port", 0, "Listen port (overrides server.port)")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
