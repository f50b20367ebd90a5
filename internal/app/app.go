package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/eventbot/internal/actionserver"
	"github.com/ykvlv/eventbot/internal/assistant"
	"github.com/ykvlv/eventbot/internal/config"
	"github.com/ykvlv/eventbot/internal/domain"
	"github.com/ykvlv/eventbot/internal/gemini"
	"github.com/ykvlv/eventbot/internal/mailer"
	"github.com/ykvlv/eventbot/internal/reminder"
	"github.com/ykvlv/eventbot/internal/scheduler"
	"github.com/ykvlv/eventbot/internal/store"
	"github.com/ykvlv/eventbot/internal/telegram"
)

// App owns every long-lived dependency and their lifecycle.
type App struct {
	cfg       config.Config
	log       *zap.Logger
	repo      store.Repo
	ledger    store.Ledger
	gen       *gemini.Client
	scanner   *reminder.Scanner
	scheduler *scheduler.Scheduler
	httpSrv   *http.Server
	bot       *tgbotapi.BotAPI
	router    *telegram.Router
}

// New connects the store and builds the reminder pipeline. With dryRun set,
// reminders are logged instead of mailed.
func New(ctx context.Context, cfg config.Config, log *zap.Logger, dryRun bool) (*App, error) {
	if !dryRun {
		if err := cfg.ValidateMail(); err != nil {
			return nil, err
		}
	}
	loc, err := domain.LoadReference(cfg.ReferenceTZ)
	if err != nil {
		return nil, err
	}

	repo, err := store.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, loc, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &App{cfg: cfg, log: log, repo: repo}

	var notifier reminder.Notifier = mailer.NewSMTP(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Sender:   cfg.SenderEmail,
		Password: cfg.SenderPassword,
	}, log)
	if dryRun {
		notifier = mailer.NewDryRun(log)
	}

	var opts []reminder.Option
	if cfg.ReminderDedup {
		ledger, err := store.OpenSQLiteLedger(ctx, cfg.LedgerPath)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		a.ledger = ledger
		opts = append(opts, reminder.WithLedger(ledger))
		log.Info("reminder dedup enabled", zap.String("ledger", cfg.LedgerPath))
	}

	a.scanner = reminder.NewScanner(repo, notifier, loc, log, opts...)
	return a, nil
}

// ScanOnce runs a single reminder scan.
func (a *App) ScanOnce(ctx context.Context) (reminder.Report, error) {
	defer a.close()
	return a.scanner.Scan(ctx)
}

// Serve starts the scheduler, the action server and, if configured, the
// Telegram channel, then blocks until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	defer a.close()

	if err := a.cfg.ValidateServe(); err != nil {
		return err
	}

	gen, err := gemini.New(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
	if err != nil {
		return err
	}
	a.gen = gen
	responder := assistant.NewResponder(a.repo, gen, a.log)

	a.httpSrv = &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           actionserver.NewRouter(a.log, a.repo, actionserver.NewPersonalizeAction(responder)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var updCh tgbotapi.UpdatesChannel
	if a.cfg.TelegramBotToken != "" {
		bot, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		bot.Debug = false
		a.bot = bot
		a.router = telegram.NewRouter(bot, a.log, responder, nil)

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updCh = bot.GetUpdatesChan(u)
	}

	a.log.Info("starting eventbot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.Duration("reminder_interval", a.cfg.ReminderInterval),
		zap.Bool("telegram", a.bot != nil),
	)

	a.scheduler = scheduler.New(a.scanner, a.log, a.cfg.ReminderInterval)
	a.scheduler.Start(ctx)

	srvErr := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			break loop
		case err := <-srvErr:
			a.log.Error("http server error", zap.Error(err))
			runErr = err
			break loop
		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}

	a.shutdown()
	return runErr
}

// shutdown stops producers before the store they read from is closed.
func (a *App) shutdown() {
	if a.bot != nil {
		a.bot.StopReceivingUpdates()
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	a.scheduler.Stop()
}

func (a *App) close() {
	if a.gen != nil {
		_ = a.gen.Close()
	}
	if a.ledger != nil {
		_ = a.ledger.Close()
	}
	if a.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.repo.Close(ctx); err != nil {
			a.log.Warn("store close error", zap.Error(err))
		}
	}
}
