package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/telegrab/telegrab/internal/bot"
	"github.com/telegrab/telegrab/internal/config"
	"github.com/telegrab/telegrab/internal/downloader"
	"github.com/telegrab/telegrab/internal/extractor"
	"github.com/telegrab/telegrab/internal/instagram"
	"github.com/telegrab/telegrab/internal/logger"
	"github.com/telegrab/telegrab/internal/session"
	"github.com/telegrab/telegrab/internal/version"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:     "telegrab",
	Short:   "Telegram bot that fetches media from social links",
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBot() error {
	logger.SetupGlobal(debug)

	env := config.LoadEnv()
	if env.BotToken == "" {
		color.Red("BOT_TOKEN environment variable not found. Exiting.")
		return errors.New("BOT_TOKEN is not set")
	}

	if !config.Exists() {
		color.Yellow("Warning: %s not found, creating with defaults.", config.ConfigFileName)
	}
	cfg := config.LoadOrDefault()

	sessions := session.NewStore()
	extract := extractor.NewClient()

	var ig *instagram.Client
	if env.InstagramEnabled() {
		var err error
		ig, err = instagram.New(env.IGUsername, env.IGPassword, downloader.New())
		if err != nil {
			return fmt.Errorf("failed to set up instagram client: %w", err)
		}
	} else {
		color.Yellow("Instagram credentials not configured; Instagram downloads disabled.")
	}

	b, err := bot.New(cfg, env, sessions, extract, ig)
	if err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}
	color.Green("Authorized as @%s", b.Username())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("bot has stopped")
	return nil
}
