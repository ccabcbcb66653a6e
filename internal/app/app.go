package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/theycallmerubik/ReservReminder/internal/admin"
	"github.com/theycallmerubik/ReservReminder/internal/broadcast"
	"github.com/theycallmerubik/ReservReminder/internal/config"
	"github.com/theycallmerubik/ReservReminder/internal/httpapi"
	"github.com/theycallmerubik/ReservReminder/internal/scheduler"
	"github.com/theycallmerubik/ReservReminder/internal/snooze"
	"github.com/theycallmerubik/ReservReminder/internal/store"
	"github.com/theycallmerubik/ReservReminder/internal/telegram"
)

// App owns the process-scoped resources: the bot client, the registry
// database, the weekly scheduler and the HTTP trigger server.
type App struct {
	cfg config.Config
	log *zap.Logger
	bot *tgbotapi.BotAPI

	repo    store.Repo
	router  *telegram.Router
	sched   *scheduler.Scheduler
	httpSrv *http.Server
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	return &App{cfg: cfg, log: log, bot: bot}, nil
}

// Run wires the components together and blocks until the context is canceled
// or a termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting reserv-reminder",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("tz", a.cfg.Timezone),
	)

	loc, err := time.LoadLocation(a.cfg.Timezone)
	if err != nil {
		a.log.Error("load timezone failed", zap.Error(err))
		return err
	}

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	gw := telegram.NewGateway(a.bot, a.log)
	engine := broadcast.New(gw, repo, a.log)
	workflow := admin.New(gw, engine, a.log, a.cfg.AdminChatID, a.cfg.ConfirmRetry)
	machine := snooze.NewMachine(repo, gw, a.log)
	a.router = telegram.NewRouter(a.bot, a.log, repo, machine, workflow)

	sched, err := scheduler.New(loc, a.log,
		scheduler.Weekly(workflow, engine, repo, a.cfg.GroupChatIDs))
	if err != nil {
		a.log.Error("scheduler init failed", zap.Error(err))
		return err
	}
	a.sched = sched
	a.sched.Start()

	api := httpapi.New(engine, a.cfg.APIKey, a.log)
	a.httpSrv = &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      api.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.shutdown()
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

func (a *App) shutdown() {
	// Create a short-lived shutdown context and cancel it immediately after use.
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	// Waits for any in-flight trigger to finish.
	<-a.sched.Stop().Done()

	if a.repo != nil {
		_ = a.repo.Close()
	}
}
