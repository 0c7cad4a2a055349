package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-client/internal/app"
	"github.com/vovakirdan/wirechat-client/internal/config"
	applog "github.com/vovakirdan/wirechat-client/internal/log"
)

var rootCmd = &cobra.Command{
	Use:          "wirechat-client",
	Short:        "Join a wirechat room from the terminal",
	SilenceUsage: true,
	RunE:         runClient,
}

var (
	flagConfig         string
	flagServer         string
	flagRoom           string
	flagUser           string
	flagLogLevel       string
	flagConnectTimeout time.Duration
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagConfig, "config", "", "path to config file")
	flags.StringVar(&flagServer, "server", "", "chat server origin, e.g. https://chat.example.com")
	flags.StringVarP(&flagRoom, "room", "r", "", "room to join")
	flags.StringVarP(&flagUser, "user", "u", "", "display name")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error, off)")
	flags.DurationVar(&flagConnectTimeout, "connect-timeout", 0, "give up connecting after this long")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLog := applog.New("warn")
	cfg, path, err := config.Load(bootLog, flagConfig)
	if err != nil {
		return err
	}
	cfg.UpdateFrom(config.Config{
		Server:         flagServer,
		Room:           flagRoom,
		User:           flagUser,
		ConnectTimeout: flagConnectTimeout,
		LogLevel:       flagLogLevel,
	})

	logger := applog.New(cfg.LogLevel)
	logger.Debug().Str("config", path).Str("server", cfg.Server).Msg("configuration loaded")

	return app.New(cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
}
