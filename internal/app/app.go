package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mqtch4n-ba/Serina/internal/clock"
	"github.com/mqtch4n-ba/Serina/internal/config"
	"github.com/mqtch4n-ba/Serina/internal/discord"
	"github.com/mqtch4n-ba/Serina/internal/scheduler"
	"github.com/mqtch4n-ba/Serina/internal/store"
	"github.com/mqtch4n-ba/Serina/internal/tasks"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	session *discordgo.Session
	httpSrv *http.Server
	repo    store.Repo
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, session: session, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting serina",
		zap.String("db", a.cfg.DBPath),
		zap.String("http", a.cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.System()

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath, clk.Now)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	sink := discord.NewSink(a.session)
	router := discord.NewRouter(ctx, a.session, a.log, repo, clk, a.cfg.OwnerID, a.cfg.LogChannelID)
	a.session.AddHandler(router.HandleMessage)

	sched := scheduler.New(repo, a.log, sink, clk)
	sweep := scheduler.NewSweep(repo, a.log, sink, clk, a.cfg.MorningResetHour, a.cfg.EveningResetHour)
	presence := discord.NewPresence(a.session, a.log)

	loops := []*tasks.Loop{
		tasks.NewLoop("reminders", a.cfg.CheckInterval, a.log, sched.Tick),
		tasks.NewLoop("reset-sweep", a.cfg.ResetInterval, a.log, sweep.Tick),
		tasks.NewLoop("presence", a.cfg.PresenceInterval, a.log, presence.Tick),
	}

	// Ready fires again on gateway reconnect; Start is idempotent, so the
	// loops come up exactly once.
	a.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.log.Info("gateway ready", zap.String("user", r.User.Username))
		for _, l := range loops {
			l.Start(ctx)
		}
	})

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	if err := a.session.Open(); err != nil {
		a.log.Error("discord gateway open failed", zap.Error(err))
		_ = a.repo.Close()
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	if err := a.session.Close(); err != nil {
		a.log.Warn("discord session close error", zap.Error(err))
	}

	// Create a short-lived shutdown context and cancel it immediately after use.
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.repo != nil {
		_ = a.repo.Close()
	}
	return nil
}
