package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/app"
	"github.com/ykvlv/eventbot/internal/config"
	"github.com/ykvlv/eventbot/internal/logger"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "eventbot",
		Usage: "Chatbot actions and email reminders for registered events.",
		Commands: []*cli.Command{
			serveCommand(),
			scanCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		_, _ = os.Stderr.WriteString("eventbot: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// setup loads config and logger. No logger exists yet, so failures exit 2
// with the cause on stderr.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, cli.Exit("config error: "+err.Error(), 2)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return cfg, nil, cli.Exit("logger init error: "+err.Error(), 2)
	}
	return cfg, log, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the action server and the reminder scheduler until interrupted.",
		Action: func(c *cli.Context) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			// Ensure logger flush; ignore sync error (common on some platforms).
			defer func() { _ = log.Sync() }()

			application, err := app.New(c.Context, cfg, log, false)
			if err != nil {
				log.Error("app init failed", zap.Error(err))
				return err
			}
			if err := application.Serve(c.Context); err != nil {
				log.Error("app run failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Run one reminder scan and exit.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Log reminders instead of sending email."},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			application, err := app.New(c.Context, cfg, log, c.Bool("dry-run"))
			if err != nil {
				log.Error("app init failed", zap.Error(err))
				return err
			}
			rep, err := application.ScanOnce(c.Context)
			if err != nil {
				log.Error("scan failed", zap.Error(err))
				return err
			}
			fmt.Printf("scan %s: %d due, %d sent, %d failed, %d skipped\n",
				rep.ScanID, rep.Due, rep.Sent, rep.Failed, rep.Skipped)
			return nil
		},
	}
}
