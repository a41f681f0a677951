package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/openmined/flickrsync/internal/config"
	"github.com/openmined/flickrsync/internal/flickrsdk"
	"github.com/openmined/flickrsync/internal/history"
	"github.com/openmined/flickrsync/internal/syncer"
	"github.com/openmined/flickrsync/internal/utils"
	"github.com/openmined/flickrsync/internal/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FLICKRSYNC"

var rootCmd = &cobra.Command{
	Use:     "flickrsync",
	Short:   "Synchronise a local photo folder with a Flickr photostream",
	Version: version.Detailed(),
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigFile(cmd); err != nil {
			return err
		}
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromViper()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if !utils.DirExists(cfg.PhotoFolder) {
			return fmt.Errorf("photo folder %s does not exist", cfg.PhotoFolder)
		}

		cmd.SilenceUsage = true

		opts := syncer.RunOptions{
			Folder:      cfg.PhotoFolder,
			SkipEXIF:    viper.GetBool("skip_exif"),
			SkipUpload:  viper.GetBool("skip_upload"),
			SkipReplace: viper.GetBool("skip_replace"),
			DryRun:      viper.GetBool("dry_run"),
		}

		lock := syncer.NewRunLock(cfg.PhotoFolder)
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		client, err := flickrsdk.New(&flickrsdk.Config{
			APIKey:      cfg.APIKey,
			APISecret:   cfg.APISecret,
			Token:       cfg.OAuthToken,
			TokenSecret: cfg.OAuthTokenSecret,
			UserID:      cfg.UserID,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		if err := loginIfNeeded(cmd.Context(), cfg, client.Auth, stdin, cmd.OutOrStdout()); err != nil {
			return err
		}
		client.SetToken(cfg.OAuthToken, cfg.OAuthTokenSecret)

		journal := history.NewJournal(historyPath(cfg.Path))
		if err := journal.Open(); err != nil {
			return err
		}
		defer journal.Close()

		slog.Info("flickrsync", "version", version.Short(), "folder", cfg.PhotoFolder, "run", journal.RunID(), "dryRun", opts.DryRun)
		runner := syncer.NewRunner(afero.NewOsFs(), client, opts, syncer.WithRunRecorder(journal))

		summary, err := runner.Run(cmd.Context())
		if summary != nil {
			printSummary(cmd.OutOrStdout(), summary)
		}
		if errors.Is(err, context.Canceled) {
			slog.Warn("sync interrupted")
		}
		return err
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("folder", "f", "", "local photo folder (saved as the new default)")
	rootCmd.Flags().BoolP("skip-exif", "e", false, "skip EXIF check on local files")
	rootCmd.Flags().BoolP("skip-upload", "u", false, "skip upload of new files")
	rootCmd.Flags().BoolP("skip-replace", "r", false, "skip replacement of files updated since upload")
	rootCmd.Flags().Bool("dry-run", false, "print the plan without changing anything")
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "flickrsync config file")
}

func main() {
	logFile := config.DefaultLogFilePath
	if err := utils.EnsureParent(logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	logInterceptor := utils.NewLogInterceptor(file)
	defer logInterceptor.Close()
	fileHandler := slog.NewTextHandler(logInterceptor, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		// the interceptor stamps the time
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
	slog.SetDefault(slog.New(utils.NewMultiLogHandler(stdoutHandler, fileHandler)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logInterceptor.Close()
		file.Close()
		os.Exit(1)
	}
}

// loadConfig layers the config file, flags and FLICKRSYNC_* env vars.
func loadConfig(cmd *cobra.Command) error {
	viper.SetConfigFile(configPath(cmd))
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	flags := map[string]string{
		"photo_folder": "folder",
		"skip_exif":    "skip-exif",
		"skip_upload":  "skip-upload",
		"skip_replace": "skip-replace",
		"dry_run":      "dry-run",
	}
	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	return nil
}

func configFromViper() *config.Config {
	return &config.Config{
		APIKey:           viper.GetString("api_key"),
		APISecret:        viper.GetString("api_secret"),
		PhotoFolder:      viper.GetString("photo_folder"),
		OAuthToken:       viper.GetString("oauth_token"),
		OAuthTokenSecret: viper.GetString("oauth_token_secret"),
		UserID:           viper.GetString("user_id"),
		Path:             viper.ConfigFileUsed(),
	}
}

func configPath(cmd *cobra.Command) string {
	f := cmd.Flag("config")
	if f != nil && f.Changed {
		return f.Value.String()
	}
	if env := os.Getenv(envPrefix + "_CONFIG"); env != "" {
		return env
	}
	if f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return config.DefaultConfigPath
}

// historyPath keeps the history database next to the config file.
func historyPath(configFile string) string {
	if configFile == "" {
		return config.DefaultHistoryPath
	}
	return filepath.Join(filepath.Dir(configFile), filepath.Base(config.DefaultHistoryPath))
}
