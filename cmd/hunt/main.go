package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/cobra"

	"github.com/vancomm/stagehunt/internal/config"
	"github.com/vancomm/stagehunt/internal/hunt"
	"github.com/vancomm/stagehunt/internal/session"
)

var (
	log = logrus.New()

	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Serve the stage hunt puzzles",
	Long: `hunt runs a sequence of puzzle stages. Each solved stage reveals
a hint pointing to the next one; stages unlock in order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Read(configPath); err != nil {
			return err
		}
		return setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c", config.DefaultPath, "config file path",
	)
	rootCmd.AddCommand(serveCmd, migrateCmd, progressCmd)
}

func setupLogging() error {
	logLevel := logrus.InfoLevel
	if cfg.Development() {
		logLevel = logrus.DebugLevel
	}
	formatter := &logrus.TextFormatter{ForceColors: cfg.Development()}

	// engines and the host log through the same sinks
	for _, l := range []*logrus.Logger{log, hunt.Log, session.Log} {
		l.SetLevel(logLevel)
		l.SetFormatter(formatter)
	}

	if cfg.Log.File == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return err
	}
	for _, l := range []*logrus.Logger{log, hunt.Log, session.Log} {
		l.AddHook(hook)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
